package collector

import (
	"context"
	"sort"
	"strconv"
	"time"

	"codeberg.org/mutker/stressrep/internal/errors"
	"codeberg.org/mutker/stressrep/internal/logger"
	"codeberg.org/mutker/stressrep/internal/stats"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// Collector samples every sensor category once per iteration and keeps the
// per-run aggregates. It is the data source behind both output artifacts:
// CSVRow feeds the per-iteration log, Snapshot feeds the summary report.
type Collector struct {
	log logger.Logger

	memory      *stats.Series
	frequency   *stats.Series
	usage       *stats.Series
	temperature *stats.Series
	power       *stats.Series
	fans        *stats.Series
	gpus        *stats.Series
	drives      *stats.Series

	gpu       *gpuCollector
	rapl      *raplReader
	hwmonRoot string

	cpuModel    string
	driveModels map[string]string

	start      time.Time
	iterations int
}

func New(log logger.Logger) (*Collector, error) {
	errFactory := errors.New()

	c := &Collector{
		log:         log,
		memory:      stats.NewSeries(),
		frequency:   stats.NewSeries(),
		usage:       stats.NewSeries(),
		temperature: stats.NewSeries(),
		power:       stats.NewSeries(),
		fans:        stats.NewSeries(),
		gpus:        stats.NewSeries(),
		drives:      stats.NewSeries(),
		rapl:        newRaplReader(defaultRaplRoot),
		hwmonRoot:   defaultHwmonRoot,
		driveModels: make(map[string]string),
		start:       time.Now(),
	}

	info, err := cpu.Info()
	if err != nil || len(info) == 0 {
		return nil, errFactory.Wrap(ErrCPUInfo, err)
	}
	c.cpuModel = info[0].ModelName

	gpu, err := newGPUCollector()
	if err != nil {
		log.Debug().Err(err).Msg("No usable GPU, skipping GPU sampling")
		c.gpus.SetAbsent(true)
	} else {
		c.gpu = gpu
		log.Info().
			Int("devices", len(gpu.names)).
			Str("driver_version", gpu.driverVersion).
			Msg("GPU sampling enabled")
	}

	return c, nil
}

// Sample collects one iteration across all categories. Failures of a single
// category are logged and skipped; the iteration still counts.
func (c *Collector) Sample(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return errors.New().Wrap(errors.ErrSampleFailed, err)
	}

	now := time.Now()
	c.iterations++

	c.sampleCPU(ctx)
	c.sampleMemory(ctx)
	c.sampleHwmon()
	c.samplePower(now)
	if c.gpu != nil {
		c.gpu.sample(c.gpus)
	}

	return nil
}

func (c *Collector) sampleCPU(ctx context.Context) {
	percents, err := cpu.PercentWithContext(ctx, 0, true)
	if err != nil {
		c.log.Warn().Err(err).Msg("CPU usage sample failed")
	} else {
		for i, pct := range percents {
			c.usage.Observe("cpu", "", "Core "+strconv.Itoa(i), pct)
		}
	}

	info, err := cpu.InfoWithContext(ctx)
	if err != nil {
		c.log.Warn().Err(err).Msg("CPU frequency sample failed")
		return
	}
	for i, core := range info {
		c.frequency.Observe("cpu", "", "Core "+strconv.Itoa(i), core.Mhz)
	}
}

func (c *Collector) sampleMemory(ctx context.Context) {
	if vm, err := mem.VirtualMemoryWithContext(ctx); err != nil {
		c.log.Warn().Err(err).Msg("Virtual memory sample failed")
	} else {
		c.memory.Observe("Virtual", "", "Used MiB", float64(vm.Used)/bytesPerMiB)
		c.memory.Observe("Virtual", "", "Free MiB", float64(vm.Available)/bytesPerMiB)
		c.memory.Observe("Virtual", "", "Used %", vm.UsedPercent)
	}

	if sm, err := mem.SwapMemoryWithContext(ctx); err != nil {
		c.log.Warn().Err(err).Msg("Swap memory sample failed")
	} else if sm.Total > 0 {
		c.memory.Observe("Swap", "", "Used MiB", float64(sm.Used)/bytesPerMiB)
		c.memory.Observe("Swap", "", "Free MiB", float64(sm.Free)/bytesPerMiB)
		c.memory.Observe("Swap", "", "Used %", sm.UsedPercent)
	}
}

func (c *Collector) sampleHwmon() {
	for _, chip := range scanHwmon(c.hwmonRoot) {
		fans := chip.fans()
		for _, sensor := range sortedKeys(fans) {
			c.fans.Observe(chip.driver, "", sensor, fans[sensor])
		}

		switch {
		case cpuTempDrivers[chip.driver]:
			temps := chip.temps()
			for _, label := range sortedKeys(temps) {
				c.temperature.Observe(chip.driver, "", label, temps[label])
			}
		case driveTempDrivers[chip.driver]:
			device := chip.device
			if device == "" {
				device = chip.driver
			}
			if chip.model != "" {
				c.driveModels[device] = chip.model
			}
			temps := chip.temps()
			for _, label := range sortedKeys(temps) {
				c.drives.Observe(device, "", label, temps[label])
			}
			peaks := chip.peakTemps()
			for _, label := range sortedKeys(peaks) {
				c.drives.ObserveAggregate(device, "", label+" Peak", peaks[label])
			}
		}
	}
}

func (c *Collector) samplePower(now time.Time) {
	draws := c.rapl.watts(now)
	for _, domain := range sortedKeys(draws) {
		c.power.Observe("rapl", "", domain, draws[domain])
	}
}

// Snapshot freezes the run's aggregates for report generation.
func (c *Collector) Snapshot(modelName string, memSKUs []string) *stats.Snapshot {
	snap := &stats.Snapshot{
		StartTime:   c.start,
		Runtime:     time.Since(c.start),
		Iterations:  c.iterations,
		ModelName:   modelName,
		CPUModel:    c.cpuModel,
		MemSKUs:     memSKUs,
		DriveModels: c.driveModels,

		Memory:      c.memory.Category(),
		Frequency:   c.frequency.Category(),
		Usage:       c.usage.Category(),
		Temperature: c.temperature.Category(),
		Power:       c.power.Category(),
		Fans:        c.fans.Category(),
		GPUs:        c.gpus.Category(),
		Drives:      c.drives.Category(),
	}

	if c.gpu != nil {
		snap.GPUDriverVersion = c.gpu.driverVersion
		snap.GPUSubsystems = c.gpu.subsystems
	}

	return snap
}

// CSVRow builds the current iteration's row for the append-only log:
// filename, run time, then the live value of every entity per category in
// fixed order (frequencies, temperatures, fans, GPU data, drive data,
// usage, memory).
func (c *Collector) CSVRow(filename string) []string {
	row := []string{filename, time.Since(c.start).Round(time.Second).String()}

	ordered := []*stats.Series{
		c.frequency, c.temperature, c.fans, c.gpus, c.drives, c.usage, c.memory,
	}
	for _, series := range ordered {
		for _, v := range series.CurrentValues() {
			row = append(row, strconv.FormatFloat(v, 'f', -1, 64))
		}
	}

	return row
}

// Iterations returns the number of samples taken so far.
func (c *Collector) Iterations() int {
	return c.iterations
}

// Close releases the NVML handle, if one was acquired.
func (c *Collector) Close() error {
	if c.gpu == nil {
		return nil
	}
	return c.gpu.shutdown()
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
