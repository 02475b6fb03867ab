package stats_test

import (
	"testing"

	"codeberg.org/mutker/stressrep/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeriesAggregation(t *testing.T) {
	s := stats.NewSeries()
	s.Observe("coretemp", "", "Core 0", 40)
	s.Observe("coretemp", "", "Core 0", 60)
	s.Observe("coretemp", "", "Core 0", 50)

	cat := s.Category()
	require.Len(t, cat.Records, 1)

	rec := cat.Records[0]
	assert.Equal(t, "Core 0", rec.Label)
	require.NotNil(t, rec.Current)
	assert.InDelta(t, 50, *rec.Current, 0.001)
	assert.InDelta(t, 40, rec.Min, 0.001)
	assert.InDelta(t, 60, rec.Max, 0.001)
	assert.InDelta(t, 50, rec.Mean, 0.001)
}

func TestSeriesPreservesObservationOrder(t *testing.T) {
	s := stats.NewSeries()
	s.Observe("hwmon1", "", "fan2", 900)
	s.Observe("hwmon1", "", "fan1", 800)
	s.Observe("hwmon2", "", "fan1", 1200)
	s.Observe("hwmon1", "", "fan2", 950)

	cat := s.Category()
	require.Len(t, cat.Records, 3)
	assert.Equal(t, "fan2", cat.Records[0].Label)
	assert.Equal(t, "fan1", cat.Records[1].Label)
	assert.Equal(t, "hwmon2", cat.Records[2].Group)
}

func TestSeriesAggregateOnlyHasNoCurrent(t *testing.T) {
	s := stats.NewSeries()
	s.ObserveAggregate("nvidia", "RTX 4090", "Mem Clock", 10500)

	cat := s.Category()
	require.Len(t, cat.Records, 1)
	assert.Nil(t, cat.Records[0].Current)
	assert.InDelta(t, 10500, cat.Records[0].Mean, 0.001)
}

func TestSeriesAbsent(t *testing.T) {
	s := stats.NewSeries()
	s.SetAbsent(true)
	assert.True(t, s.Category().IsEmpty())

	// Residual records do not clear the absent flag.
	s.Observe("nvidia", "RTX 4090", "Temp", 70)
	assert.True(t, s.Category().IsEmpty())
}

func TestCategoryIsEmpty(t *testing.T) {
	assert.True(t, stats.Category{}.IsEmpty())
	assert.False(t, stats.Category{Records: []stats.Record{{Label: "Core 0"}}}.IsEmpty())
}
