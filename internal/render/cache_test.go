package render

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/homicide-observatory/internal/domain"
	"github.com/couchcryptid/homicide-observatory/internal/observability"
)

// --- mock for cache tests ---

type countingRenderer struct {
	calls map[Chart]int
	err   error
}

func (m *countingRenderer) Render(chart Chart, snap domain.Snapshot) ([]byte, error) {
	if m.calls == nil {
		m.calls = map[Chart]int{}
	}
	m.calls[chart]++
	if m.err != nil {
		return nil, m.err
	}
	return []byte(string(chart) + ":" + snap.Selection.Municipality), nil
}

func snapFor(dept, muni string) domain.Snapshot {
	return domain.Snapshot{Selection: domain.Selection{Department: dept, Municipality: muni}}
}

// --- CachedRenderer tests ---

func TestCachedRenderer_CacheHit(t *testing.T) {
	inner := &countingRenderer{}
	metrics := observability.NewMetricsForTesting()
	cached := NewCachedRenderer(inner, 10, metrics)

	img1, err := cached.Render(ChartComparison, snapFor("Valle del Cauca", "Cali"))
	require.NoError(t, err)
	img2, err := cached.Render(ChartComparison, snapFor("Valle del Cauca", "Cali"))
	require.NoError(t, err)

	assert.Equal(t, img1, img2)
	assert.Equal(t, 1, inner.calls[ChartComparison], "should only call inner once")
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.RenderCache.WithLabelValues("comparison", "hit")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.RenderCache.WithLabelValues("comparison", "miss")), 0)
}

func TestCachedRenderer_SelectionDependentKeys(t *testing.T) {
	inner := &countingRenderer{}
	cached := NewCachedRenderer(inner, 10, observability.NewMetricsForTesting())

	_, _ = cached.Render(ChartComparison, snapFor("Valle del Cauca", "Cali"))
	_, _ = cached.Render(ChartComparison, snapFor("Valle del Cauca", "Tuluá"))
	assert.Equal(t, 2, inner.calls[ChartComparison])
}

func TestCachedRenderer_NationalChartsIgnoreSelection(t *testing.T) {
	inner := &countingRenderer{}
	cached := NewCachedRenderer(inner, 10, observability.NewMetricsForTesting())

	for _, chart := range []Chart{ChartTop, ChartBottom, ChartDepartments, ChartMap} {
		_, _ = cached.Render(chart, snapFor("Valle del Cauca", "Cali"))
		_, _ = cached.Render(chart, snapFor("Antioquia", "Bello"))
		assert.Equal(t, 1, inner.calls[chart], chart)
	}
}

func TestCachedRenderer_ErrorsAreNotCached(t *testing.T) {
	inner := &countingRenderer{err: errors.New("boom")}
	cached := NewCachedRenderer(inner, 10, observability.NewMetricsForTesting())

	_, err := cached.Render(ChartMap, domain.Snapshot{})
	require.Error(t, err)
	_, err = cached.Render(ChartMap, domain.Snapshot{})
	require.Error(t, err)

	assert.Equal(t, 2, inner.calls[ChartMap])
	assert.Zero(t, cached.cache.len())
}

func TestCachedRenderer_EvictionsAreCounted(t *testing.T) {
	inner := &countingRenderer{}
	metrics := observability.NewMetricsForTesting()
	cached := NewCachedRenderer(inner, 1, metrics)

	_, _ = cached.Render(ChartComparison, snapFor("Valle del Cauca", "Cali"))
	_, _ = cached.Render(ChartMap, snapFor("Valle del Cauca", "Cali"))

	assert.InDelta(t, 1, testutil.ToFloat64(metrics.RenderCache.WithLabelValues("comparison", "evict")), 0)
	assert.Equal(t, 1, cached.cache.len())
}

// --- image cache unit tests ---

func TestImageCache_BasicGetPut(t *testing.T) {
	c := newImageCache(3, 1024)

	c.put("a", []byte("A"))
	c.put("b", []byte("B"))

	result, ok := c.get("a")
	assert.True(t, ok)
	assert.Equal(t, []byte("A"), result)

	_, ok = c.get("missing")
	assert.False(t, ok)
	assert.Equal(t, 2, c.size())
}

func TestImageCache_EntryBound(t *testing.T) {
	c := newImageCache(2, 1024)

	c.put("a", []byte("A"))
	c.put("b", []byte("B"))
	evicted := c.put("c", []byte("C"))

	assert.Equal(t, []string{"a"}, evicted)
	_, ok := c.get("a")
	assert.False(t, ok, "a should have been evicted")

	result, ok := c.get("b")
	assert.True(t, ok)
	assert.Equal(t, []byte("B"), result)

	result, ok = c.get("c")
	assert.True(t, ok)
	assert.Equal(t, []byte("C"), result)
	assert.Equal(t, 2, c.len())
}

func TestImageCache_ByteBound(t *testing.T) {
	c := newImageCache(10, 10)

	c.put("a", []byte("aaaa"))
	c.put("b", []byte("bbbb"))
	evicted := c.put("c", []byte("cccc"))

	assert.Equal(t, []string{"a"}, evicted)
	assert.Equal(t, 8, c.size())
	assert.Equal(t, 2, c.len())
}

func TestImageCache_OversizedImageIsNotStored(t *testing.T) {
	c := newImageCache(10, 4)

	c.put("a", []byte("aa"))
	evicted := c.put("huge", []byte("0123456789"))

	assert.Empty(t, evicted)
	_, ok := c.get("huge")
	assert.False(t, ok)
	_, ok = c.get("a")
	assert.True(t, ok, "existing entries survive")
}

func TestImageCache_AccessPromotesEntry(t *testing.T) {
	c := newImageCache(2, 1024)

	c.put("a", []byte("A"))
	c.put("b", []byte("B"))

	// Access "a" to promote it
	c.get("a")

	// Insert "c"; should evict "b" (LRU), not "a"
	c.put("c", []byte("C"))

	_, ok := c.get("a")
	assert.True(t, ok, "a was accessed recently, should not be evicted")

	_, ok = c.get("b")
	assert.False(t, ok, "b should have been evicted")
}

func TestImageCache_UpdateExisting(t *testing.T) {
	c := newImageCache(2, 1024)

	c.put("a", []byte("A1"))
	c.put("a", []byte("A222"))

	result, ok := c.get("a")
	assert.True(t, ok)
	assert.Equal(t, []byte("A222"), result)
	assert.Equal(t, 1, c.len())
	assert.Equal(t, 4, c.size())
}
