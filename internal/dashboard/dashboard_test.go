package dashboard_test

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"

	"github.com/couchcryptid/homicide-observatory/internal/dashboard"
	"github.com/couchcryptid/homicide-observatory/internal/domain"
	"github.com/couchcryptid/homicide-observatory/internal/observability"
	"github.com/couchcryptid/homicide-observatory/internal/render"
)

// --- mocks ---

type mockRenderer struct {
	clock *clockwork.FakeClock
	err   error
	last  domain.Snapshot
}

func (m *mockRenderer) Render(chart render.Chart, snap domain.Snapshot) ([]byte, error) {
	m.last = snap
	if m.clock != nil {
		m.clock.Advance(50 * time.Millisecond)
	}
	if m.err != nil {
		return nil, m.err
	}
	return []byte(chart), nil
}

func testDataset(t *testing.T) *domain.Dataset {
	t.Helper()
	records := []domain.Record{
		{Department: "Antioquia", Municipality: "Medellín", Homicides: 380, Population: 2616335, Rate: 14.52},
		{Department: "Antioquia", Municipality: "Bello", Homicides: 64, Population: 552155, Rate: 11.59},
		{Department: "Valle del Cauca", Municipality: "Cali", Homicides: 980, Population: 2283846, Rate: 42.91},
		{Department: "Valle del Cauca", Municipality: "Tuluá", Homicides: 64, Population: 221764, Rate: 28.86},
	}
	regions := make([]domain.Region, len(records))
	for i, r := range records {
		poly := geom.NewPolygon(geom.XY).MustSetCoords([][]geom.Coord{{
			{float64(i), 0}, {float64(i) + 1, 0}, {float64(i) + 1, 1}, {float64(i), 0},
		}})
		mp := geom.NewMultiPolygon(geom.XY)
		require.NoError(t, mp.Push(poly))
		regions[i] = domain.Region{Department: r.Department, Municipality: r.Municipality, Rate: r.Rate, Geometry: mp}
	}
	ds, err := domain.NewDataset(records, regions)
	require.NoError(t, err)
	return ds
}

func newService(t *testing.T, r render.ChartRenderer) (*dashboard.Service, *observability.Metrics) {
	t.Helper()
	metrics := observability.NewMetricsForTesting()
	return dashboard.New(testDataset(t), r, domain.DefaultPercentile, slog.Default(), metrics), metrics
}

// --- tests ---

func TestService_Snapshot_Defaults(t *testing.T) {
	svc, metrics := newService(t, &mockRenderer{})

	snap, err := svc.Snapshot(domain.Selection{})
	require.NoError(t, err)
	assert.Equal(t, domain.Selection{Department: "Antioquia", Municipality: "Bello"}, snap.Selection)
	assert.InDelta(t, 11.59, snap.Record.Rate, 1e-9)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.PageViews), 0)
}

func TestService_Snapshot_UnknownDepartment(t *testing.T) {
	svc, metrics := newService(t, &mockRenderer{})

	_, err := svc.Snapshot(domain.Selection{Department: "Atlántida"})
	require.ErrorIs(t, err, domain.ErrUnknownDepartment)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.SelectionErrors), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(metrics.PageViews), 0)
}

func TestService_Chart_Success(t *testing.T) {
	clk := clockwork.NewFakeClockAt(time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC))
	r := &mockRenderer{clock: clk}
	svc, metrics := newService(t, r)
	svc.SetClock(clk)

	img, err := svc.Chart(render.ChartComparison, domain.Selection{Department: "Valle del Cauca", Municipality: "Tuluá"})
	require.NoError(t, err)
	assert.Equal(t, []byte("comparison"), img)
	assert.Equal(t, "Tuluá", r.last.Selection.Municipality)
	assert.InDelta(t, 28.86, r.last.Comparison.Municipality, 1e-9)

	assert.InDelta(t, 1, testutil.ToFloat64(metrics.ChartRenders.WithLabelValues("comparison", "success")), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(metrics.RenderDuration))
}

func TestService_Chart_RenderError(t *testing.T) {
	svc, metrics := newService(t, &mockRenderer{err: errors.New("no font")})

	_, err := svc.Chart(render.ChartMap, domain.Selection{})
	require.Error(t, err)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.ChartRenders.WithLabelValues("map", "error")), 0)
}

func TestService_Chart_UnknownSelectionSkipsRender(t *testing.T) {
	r := &mockRenderer{}
	svc, metrics := newService(t, r)

	_, err := svc.Chart(render.ChartTop, domain.Selection{Department: "Nowhere"})
	require.ErrorIs(t, err, domain.ErrUnknownDepartment)
	assert.Empty(t, r.last.Selection.Department, "renderer must not be called")
	assert.Equal(t, 0, testutil.CollectAndCount(metrics.ChartRenders))
}

func TestService_Workbook(t *testing.T) {
	svc, metrics := newService(t, render.NewRenderer(nil))

	b, err := svc.Workbook()
	require.NoError(t, err)
	assert.NotEmpty(t, b)
	assert.Equal(t, "PK", string(b[:2]), "xlsx is a zip container")
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.WorkbookExports), 0)
}

func TestService_CheckReadiness(t *testing.T) {
	svc, _ := newService(t, &mockRenderer{})
	require.NoError(t, svc.CheckReadiness(context.Background()))

	var empty dashboard.Service
	require.Error(t, empty.CheckReadiness(context.Background()))
}

func TestService_SnapshotIsRecomputed(t *testing.T) {
	svc, _ := newService(t, &mockRenderer{})

	a, err := svc.Snapshot(domain.Selection{Department: "Valle del Cauca", Municipality: "Cali"})
	require.NoError(t, err)
	b, err := svc.Snapshot(domain.Selection{Department: "Antioquia", Municipality: "Cali"})
	require.NoError(t, err)

	assert.Equal(t, "Bello", b.Selection.Municipality, "stale municipality falls back")
	assert.Equal(t, a.Aggregates, b.Aggregates)
	assert.False(t, math.IsNaN(a.Comparison.National))
}
