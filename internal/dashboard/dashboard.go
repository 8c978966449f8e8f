// Package dashboard runs one dashboard interaction: it recomputes the
// snapshot for a selection and produces the chart images and the export that
// the HTTP layer serves.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/homicide-observatory/internal/domain"
	"github.com/couchcryptid/homicide-observatory/internal/observability"
	"github.com/couchcryptid/homicide-observatory/internal/render"
)

// Service orchestrates the domain queries and the renderer.
type Service struct {
	data       *domain.Dataset
	renderer   render.ChartRenderer
	percentile float64
	logger     *slog.Logger
	metrics    *observability.Metrics
	clock      clockwork.Clock
}

// New creates a Service over a loaded dataset. percentile caps the map colour
// scale.
func New(data *domain.Dataset, renderer render.ChartRenderer, percentile float64, logger *slog.Logger, metrics *observability.Metrics) *Service {
	return &Service{
		data:       data,
		renderer:   renderer,
		percentile: percentile,
		logger:     logger,
		metrics:    metrics,
		clock:      clockwork.NewRealClock(),
	}
}

// SetClock replaces the time source used for render timing.
func (s *Service) SetClock(c clockwork.Clock) {
	s.clock = c
}

// Snapshot recomputes the page for a selection.
func (s *Service) Snapshot(sel domain.Selection) (domain.Snapshot, error) {
	snap, err := s.snapshot(sel)
	if err != nil {
		return domain.Snapshot{}, err
	}
	s.metrics.PageViews.Inc()
	s.logger.Debug("snapshot computed",
		"department", snap.Selection.Department,
		"municipality", snap.Selection.Municipality,
		"truncated", snap.Scale.Truncated,
	)
	return snap, nil
}

// Chart renders one chart image for a selection.
func (s *Service) Chart(chart render.Chart, sel domain.Selection) ([]byte, error) {
	snap, err := s.snapshot(sel)
	if err != nil {
		return nil, err
	}

	start := s.clock.Now()
	img, err := s.renderer.Render(chart, snap)
	s.metrics.RenderDuration.WithLabelValues(string(chart)).Observe(s.clock.Since(start).Seconds())
	if err != nil {
		s.metrics.ChartRenders.WithLabelValues(string(chart), "error").Inc()
		return nil, err
	}
	s.metrics.ChartRenders.WithLabelValues(string(chart), "success").Inc()
	return img, nil
}

// Workbook exports the department aggregate ordered by rate and the
// municipal ranking by homicides.
func (s *Service) Workbook() ([]byte, error) {
	aggs := domain.AggregateByDepartment(s.data.Records())
	b, err := render.Workbook(
		domain.TopDepartmentsByRate(aggs, len(aggs)),
		domain.RankByHomicides(s.data.Records()),
	)
	if err != nil {
		return nil, fmt.Errorf("build workbook: %w", err)
	}
	s.metrics.WorkbookExports.Inc()
	return b, nil
}

// CheckReadiness returns nil once both relations are loaded and non-empty.
func (s *Service) CheckReadiness(_ context.Context) error {
	if s.data == nil {
		return errors.New("dataset not loaded")
	}
	if len(s.data.Records()) == 0 {
		return errors.New("tabular relation is empty")
	}
	if len(s.data.Regions()) == 0 {
		return errors.New("geospatial relation is empty")
	}
	return nil
}

func (s *Service) snapshot(sel domain.Selection) (domain.Snapshot, error) {
	snap, err := s.data.Snapshot(sel, s.percentile)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownDepartment) || errors.Is(err, domain.ErrUnknownMunicipality) {
			s.metrics.SelectionErrors.Inc()
		}
		return domain.Snapshot{}, fmt.Errorf("snapshot %s/%s: %w", sel.Department, sel.Municipality, err)
	}
	return snap, nil
}
