package collector

import (
	"context"
	"testing"

	"codeberg.org/mutker/stressrep/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorSnapshot(t *testing.T) {
	c, err := New(logger.Default())
	if err != nil {
		t.Skipf("host CPU info unavailable: %v", err)
	}
	defer c.Close()

	require.NoError(t, c.Sample(context.Background()))
	require.NoError(t, c.Sample(context.Background()))

	snap := c.Snapshot("TestRig", []string{"SKU-1"})
	assert.Equal(t, 2, snap.Iterations)
	assert.Equal(t, "TestRig", snap.ModelName)
	assert.NotEmpty(t, snap.CPUModel)
	assert.NotEmpty(t, snap.Usage.Records, "per-core usage should be sampled")

	for _, rec := range snap.Usage.Records {
		require.NotNil(t, rec.Current)
	}
}

func TestCSVRowStartsWithFilenameAndRuntime(t *testing.T) {
	c, err := New(logger.Default())
	if err != nil {
		t.Skipf("host CPU info unavailable: %v", err)
	}
	defer c.Close()

	require.NoError(t, c.Sample(context.Background()))

	row := c.CSVRow("run.csv")
	require.GreaterOrEqual(t, len(row), 2)
	assert.Equal(t, "run.csv", row[0])
	assert.NotEmpty(t, row[1])
}

func TestSampleCanceledContext(t *testing.T) {
	c, err := New(logger.Default())
	if err != nil {
		t.Skipf("host CPU info unavailable: %v", err)
	}
	defer c.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.Error(t, c.Sample(ctx))
	assert.Equal(t, 0, c.Iterations())
}
