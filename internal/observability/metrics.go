package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "homicide_observatory"

// Metrics holds the Prometheus counters, histograms, and gauges for the dashboard.
type Metrics struct {
	PageViews       prometheus.Counter
	SelectionErrors prometheus.Counter
	WorkbookExports prometheus.Counter
	DatasetRows     *prometheus.GaugeVec // labels: relation={tabular,geospatial}

	// Rendering metrics.
	ChartRenders   *prometheus.CounterVec   // labels: chart, outcome={success,error}
	RenderDuration *prometheus.HistogramVec // labels: chart
	RenderCache    *prometheus.CounterVec   // labels: chart, result={hit,miss,evict}
}

// NewMetrics creates and registers all dashboard metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.PageViews,
		m.SelectionErrors,
		m.WorkbookExports,
		m.DatasetRows,
		m.ChartRenders,
		m.RenderDuration,
		m.RenderCache,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		PageViews: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "page_views_total",
			Help:      "Dashboard page renders.",
		}),
		SelectionErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "selection_errors_total",
			Help:      "Requests naming a department or municipality absent from the data.",
		}),
		WorkbookExports: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "workbook_exports_total",
			Help:      "Spreadsheet exports served.",
		}),
		DatasetRows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_rows",
			Help:      "Rows loaded per input relation.",
		}, []string{"relation"}),
		ChartRenders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chart_renders_total",
			Help:      "Chart requests by chart and outcome.",
		}, []string{"chart", "outcome"}),
		RenderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "chart_render_duration_seconds",
			Help:      "Time to produce a chart image, cache hits included.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"chart"}),
		RenderCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "render_cache_total",
			Help:      "Render cache lookups and evictions by chart and result.",
		}, []string{"chart", "result"}),
	}
}
