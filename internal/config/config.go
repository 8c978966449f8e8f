package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	TabularPath     string
	GeoPath         string
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Rendering configuration.
	RenderCacheSize int
	MapPercentile   float64
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	percentile, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("MAP_PERCENTILE", "98"), 64)
	if err != nil || percentile <= 0 || percentile > 100 {
		return nil, errors.New("invalid MAP_PERCENTILE: must be in (0, 100]")
	}

	cfg := &Config{
		TabularPath:     sharedcfg.EnvOrDefault("TABULAR_PATH", "data/homicidios_2024.csv"),
		GeoPath:         sharedcfg.EnvOrDefault("GEO_PATH", "data/municipios_2024.geojson"),
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		RenderCacheSize: parseRenderCacheSize(),
		MapPercentile:   percentile,
	}

	if cfg.TabularPath == "" {
		return nil, errors.New("TABULAR_PATH is required")
	}
	if cfg.GeoPath == "" {
		return nil, errors.New("GEO_PATH is required")
	}

	return cfg, nil
}

func parseRenderCacheSize() int {
	if s := os.Getenv("RENDER_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 256
}
