package collector

import (
	"path/filepath"
	"sort"
	"strconv"
	"time"
)

const defaultRaplRoot = "/sys/class/powercap"

const microJoulesPerJoule = 1e6

// raplReader derives CPU package power draw from the kernel's RAPL energy
// counters. The counters are cumulative, so each reading yields a wattage
// only relative to the previous one.
type raplReader struct {
	root     string
	previous map[string]raplReading
}

type raplReading struct {
	energyMicroJoules float64
	at                time.Time
}

func newRaplReader(root string) *raplReader {
	return &raplReader{
		root:     root,
		previous: make(map[string]raplReading),
	}
}

// watts returns the average power draw per RAPL domain since the previous
// call, keyed by domain name (package-0, core, dram). The first call primes
// the counters and returns nothing; counter wraps drop one interval.
func (r *raplReader) watts(now time.Time) map[string]float64 {
	domains, err := filepath.Glob(filepath.Join(r.root, "intel-rapl:*"))
	if err != nil {
		return nil
	}
	sort.Strings(domains)

	draws := make(map[string]float64)
	for _, domain := range domains {
		name, err := readSysfsString(filepath.Join(domain, "name"))
		if err != nil {
			continue
		}
		raw, err := readSysfsString(filepath.Join(domain, "energy_uj"))
		if err != nil {
			continue
		}
		energy, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}

		prev, ok := r.previous[domain]
		r.previous[domain] = raplReading{energyMicroJoules: energy, at: now}
		if !ok {
			continue
		}

		elapsed := now.Sub(prev.at).Seconds()
		delta := energy - prev.energyMicroJoules
		if elapsed <= 0 || delta < 0 {
			continue
		}
		draws[name] = delta / microJoulesPerJoule / elapsed
	}

	return draws
}
