package telemetry_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"codeberg.org/mutker/stressrep/internal/logger"
	"codeberg.org/mutker/stressrep/internal/stats"
	"codeberg.org/mutker/stressrep/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func current(v float64) *float64 {
	return &v
}

func TestCondense(t *testing.T) {
	snap := &stats.Snapshot{
		Usage: stats.Category{Records: []stats.Record{
			{Label: "Core 0", Current: current(80)},
			{Label: "Core 1", Current: current(60)},
		}},
		Frequency: stats.Category{Records: []stats.Record{
			{Label: "Core 0", Current: current(4000)},
			{Label: "Core 1", Current: current(3000)},
		}},
		Temperature: stats.Category{Records: []stats.Record{
			{Label: "Core 0", Current: current(70)},
			{Label: "Core 1", Current: current(85)},
		}},
		Power: stats.Category{Records: []stats.Record{
			{Label: "package-0", Current: current(100)},
			{Label: "dram", Current: current(20)},
		}},
		Fans: stats.Category{Records: []stats.Record{
			{Label: "fan1", Current: current(900)},
			{Label: "fan2", Current: current(1400)},
		}},
		GPUs: stats.Category{Records: []stats.Record{
			{Device: "RTX 4090", Label: "Temp C", Current: current(75)},
			{Device: "RTX 4090", Label: "Power W", Current: current(350)},
			{Device: "RTX 4090", Label: "Mem Clock"}, // aggregate-only, ignored
		}},
		Drives: stats.Category{Records: []stats.Record{
			{Label: "Composite", Current: current(55)},
		}},
	}

	sample := telemetry.Condense(snap, 42)

	assert.Equal(t, 42, sample.Iteration)
	assert.InDelta(t, 70, sample.CPUUsage, 0.001)
	assert.InDelta(t, 3500, sample.CPUFrequency, 0.001)
	assert.InDelta(t, 85, sample.CPUTemperature, 0.001)
	assert.InDelta(t, 120, sample.PackagePower, 0.001)
	assert.InDelta(t, 1400, sample.FanSpeed, 0.001)
	assert.InDelta(t, 75, sample.GPUTemperature, 0.001)
	assert.InDelta(t, 350, sample.GPUPower, 0.001)
	assert.InDelta(t, 55, sample.DriveTemperature, 0.001)
}

func TestCondenseEmptySnapshot(t *testing.T) {
	sample := telemetry.Condense(&stats.Snapshot{}, 1)
	assert.Zero(t, sample.CPUUsage)
	assert.Zero(t, sample.PackagePower)
}

func TestNoopCollectorWhenDisabled(t *testing.T) {
	cfg := telemetry.DefaultConfig()
	require.False(t, cfg.Enabled)

	collector, err := telemetry.NewService(cfg, logger.Default())
	require.NoError(t, err)

	assert.NoError(t, collector.Record(context.Background(), &telemetry.Sample{}))
	assert.NoError(t, collector.Close())
}

func TestRepositoryRoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "telemetry.db")
	cfg := telemetry.Config{
		DBPath:    dbPath,
		BatchSize: 2,
		Enabled:   true,
	}

	collector, err := telemetry.NewService(cfg, logger.Default())
	require.NoError(t, err)

	ctx := context.Background()
	base := time.Now().Truncate(time.Second)
	for i := 0; i < 3; i++ {
		err := collector.Record(ctx, &telemetry.Sample{
			Timestamp:      base.Add(time.Duration(i) * time.Second),
			Iteration:      i + 1,
			CPUUsage:       50,
			CPUTemperature: 70,
		})
		require.NoError(t, err)
	}
	require.NoError(t, collector.Close())

	db, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM samples").Scan(&count))
	assert.Equal(t, 3, count, "all buffered samples are flushed on close")

	var version int
	require.NoError(t, db.QueryRow("SELECT version FROM schema_versions").Scan(&version))
	assert.Equal(t, telemetry.SchemaVersion, version)
}

func TestRecordNilSample(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "telemetry.db")
	collector, err := telemetry.NewService(telemetry.Config{DBPath: dbPath, Enabled: true}, logger.Default())
	require.NoError(t, err)
	defer collector.Close()

	err = collector.Record(context.Background(), nil)
	require.Error(t, err)
}
