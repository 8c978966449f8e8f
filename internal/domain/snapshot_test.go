package domain

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataset_Resolve(t *testing.T) {
	d := testDataset(t)

	tests := []struct {
		name string
		in   Selection
		want Selection
	}{
		{name: "empty selects first options", in: Selection{}, want: Selection{Department: testAmazonas, Municipality: "Leticia"}},
		{name: "department only", in: Selection{Department: testValle}, want: Selection{Department: testValle, Municipality: "Buenaventura"}},
		{name: "stale municipality falls back", in: Selection{Department: testValle, Municipality: "Medellín"}, want: Selection{Department: testValle, Municipality: "Buenaventura"}},
		{name: "valid pair kept", in: Selection{Department: testAntioquia, Municipality: "Rionegro"}, want: Selection{Department: testAntioquia, Municipality: "Rionegro"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := d.Resolve(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("unknown department", func(t *testing.T) {
		_, err := d.Resolve(Selection{Department: "Atlántida"})
		require.ErrorIs(t, err, ErrUnknownDepartment)
	})
}

func TestDataset_Snapshot(t *testing.T) {
	fakeClock := clockwork.NewFakeClockAt(time.Date(2024, time.December, 31, 12, 0, 0, 0, time.UTC))
	SetClock(fakeClock)
	t.Cleanup(func() { SetClock(nil) })

	d := testDataset(t)
	snap, err := d.Snapshot(Selection{Department: testValle, Municipality: "Cali"}, DefaultPercentile)
	require.NoError(t, err)

	assert.Equal(t, Selection{Department: testValle, Municipality: "Cali"}, snap.Selection)
	assert.Equal(t, []string{testAmazonas, testAntioquia, testValle}, snap.Departments)
	assert.Equal(t, []string{"Buenaventura", "Cali", "Tuluá"}, snap.Municipalities)
	assert.Equal(t, 42.91, snap.Record.Rate)
	assert.Equal(t, snap.Record.Rate, snap.Comparison.Municipality)
	assert.Len(t, snap.Top, len(testRecords()))
	assert.Equal(t, "Cali", snap.Top[0].Municipality)
	assert.Equal(t, "Puerto Nariño", snap.Bottom[0].Municipality)
	assert.Len(t, snap.Aggregates, 3)
	assert.Equal(t, testValle, snap.TopDepartments[0].Department)
	assert.Equal(t, DefaultPercentile, snap.Scale.Percentile)
	assert.Equal(t, fakeClock.Now(), snap.GeneratedAt)
}

func TestDataset_Snapshot_UnknownDepartment(t *testing.T) {
	d := testDataset(t)
	_, err := d.Snapshot(Selection{Department: "Atlántida"}, DefaultPercentile)
	require.ErrorIs(t, err, ErrUnknownDepartment)
}
