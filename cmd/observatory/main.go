package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/homicide-observatory/internal/adapter/csvfile"
	"github.com/couchcryptid/homicide-observatory/internal/adapter/geojson"
	httpadapter "github.com/couchcryptid/homicide-observatory/internal/adapter/http"
	"github.com/couchcryptid/homicide-observatory/internal/config"
	"github.com/couchcryptid/homicide-observatory/internal/dashboard"
	"github.com/couchcryptid/homicide-observatory/internal/domain"
	"github.com/couchcryptid/homicide-observatory/internal/observability"
	"github.com/couchcryptid/homicide-observatory/internal/render"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	records, err := csvfile.Load(cfg.TabularPath)
	if err != nil {
		logger.Error("failed to load tabular data", "path", cfg.TabularPath, "error", err)
		os.Exit(1)
	}
	regions, err := geojson.Load(cfg.GeoPath)
	if err != nil {
		logger.Error("failed to load geospatial data", "path", cfg.GeoPath, "error", err)
		os.Exit(1)
	}
	data, err := domain.NewDataset(records, regions)
	if err != nil {
		logger.Error("invalid dataset", "error", err)
		os.Exit(1)
	}
	metrics.DatasetRows.WithLabelValues("tabular").Set(float64(len(records)))
	metrics.DatasetRows.WithLabelValues("geospatial").Set(float64(len(regions)))
	logger.Info("datasets loaded",
		"records", len(records),
		"regions", len(regions),
		"departments", len(data.Departments()),
	)

	renderer := render.NewCachedRenderer(render.NewRenderer(data.Regions()), cfg.RenderCacheSize, metrics)
	svc := dashboard.New(data, renderer, cfg.MapPercentile, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
