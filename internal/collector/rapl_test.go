package collector

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeRaplDomain(t *testing.T, root, name string, energy string) string {
	t.Helper()
	path := filepath.Join(root, "intel-rapl:0")
	require.NoError(t, os.MkdirAll(path, 0o755))
	writeFile(t, filepath.Join(path, "name"), name+"\n")
	writeFile(t, filepath.Join(path, "energy_uj"), energy+"\n")
	return path
}

func TestRaplWatts(t *testing.T) {
	root := t.TempDir()
	domain := fakeRaplDomain(t, root, "package-0", "1000000")

	r := newRaplReader(root)
	base := time.Now()

	// First reading only primes the counter.
	assert.Empty(t, r.watts(base))

	// 50 J over 2 s is 25 W.
	writeFile(t, filepath.Join(domain, "energy_uj"), "51000000\n")
	draws := r.watts(base.Add(2 * time.Second))
	require.Contains(t, draws, "package-0")
	assert.InDelta(t, 25, draws["package-0"], 0.001)
}

func TestRaplCounterWrapDropsInterval(t *testing.T) {
	root := t.TempDir()
	domain := fakeRaplDomain(t, root, "package-0", "9000000")

	r := newRaplReader(root)
	base := time.Now()
	r.watts(base)

	// Counter wrapped backwards; the interval is dropped, not negative.
	writeFile(t, filepath.Join(domain, "energy_uj"), "1000\n")
	assert.Empty(t, r.watts(base.Add(time.Second)))

	// The wrapped value still reprimes the counter for the next interval.
	writeFile(t, filepath.Join(domain, "energy_uj"), "2001000\n")
	draws := r.watts(base.Add(3 * time.Second))
	require.Contains(t, draws, "package-0")
	assert.InDelta(t, 1, draws["package-0"], 0.001)
}

func TestRaplMissingRoot(t *testing.T) {
	r := newRaplReader(filepath.Join(t.TempDir(), "nope"))
	assert.Empty(t, r.watts(time.Now()))
}
