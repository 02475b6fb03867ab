package collector

import (
	"strconv"

	"codeberg.org/mutker/stressrep/internal/errors"
	"codeberg.org/mutker/stressrep/internal/stats"
	"github.com/NVIDIA/go-nvml/pkg/nvml"
)

const (
	nvidiaVendor      = "nvidia"
	milliWattsToWatts = 1000
	bytesPerMiB       = 1 << 20
)

// gpuCollector samples every NVIDIA device visible through NVML.
type gpuCollector struct {
	devices       []nvml.Device
	names         []string
	subsystems    map[string]string
	driverVersion string
}

func newGPUCollector() (*gpuCollector, error) {
	errFactory := errors.New()

	if ret := nvml.Init(); !isNVMLSuccess(ret) {
		return nil, errFactory.Wrap(ErrNVMLInit, newNVMLError(ret))
	}

	count, ret := nvml.DeviceGetCount()
	if !isNVMLSuccess(ret) || count == 0 {
		nvml.Shutdown()
		if !isNVMLSuccess(ret) {
			return nil, errFactory.Wrap(ErrNoGPU, newNVMLError(ret))
		}
		return nil, errFactory.New(ErrNoGPU)
	}

	g := &gpuCollector{
		subsystems: make(map[string]string),
	}

	if version, ret := nvml.SystemGetDriverVersion(); isNVMLSuccess(ret) {
		g.driverVersion = version
	}

	for i := 0; i < count; i++ {
		device, ret := nvml.DeviceGetHandleByIndex(i)
		if !isNVMLSuccess(ret) {
			nvml.Shutdown()
			return nil, errFactory.Wrap(ErrNVMLInit, newNVMLError(ret))
		}

		name := "GPU " + strconv.Itoa(i)
		if n, ret := device.GetName(); isNVMLSuccess(ret) {
			name = n
		}
		if board, ret := device.GetBoardPartNumber(); isNVMLSuccess(ret) && board != "" {
			g.subsystems[nvidiaVendor+"/"+name] = board
		}

		g.devices = append(g.devices, device)
		g.names = append(g.names, name)
	}

	return g, nil
}

// sample reads the live metrics of every device into the series. Individual
// metric failures are skipped; a device that stops answering simply stops
// contributing samples.
func (g *gpuCollector) sample(series *stats.Series) {
	for i, device := range g.devices {
		name := g.names[i]

		if temp, ret := device.GetTemperature(nvml.TEMPERATURE_GPU); isNVMLSuccess(ret) {
			series.Observe(nvidiaVendor, name, "Temp C", float64(temp))
		}
		if power, ret := device.GetPowerUsage(); isNVMLSuccess(ret) {
			series.Observe(nvidiaVendor, name, "Power W", float64(power)/milliWattsToWatts)
		}
		if speed, ret := device.GetFanSpeed(); isNVMLSuccess(ret) {
			series.Observe(nvidiaVendor, name, "Fan %", float64(speed))
		}
		if util, ret := device.GetUtilizationRates(); isNVMLSuccess(ret) {
			series.Observe(nvidiaVendor, name, "GPU %", float64(util.Gpu))
			series.Observe(nvidiaVendor, name, "Mem %", float64(util.Memory))
		}
		if mem, ret := device.GetMemoryInfo(); isNVMLSuccess(ret) {
			series.Observe(nvidiaVendor, name, "Mem Used MiB", float64(mem.Used)/bytesPerMiB)
		}
	}
}

func (g *gpuCollector) shutdown() error {
	if ret := nvml.Shutdown(); !isNVMLSuccess(ret) {
		return errors.New().Wrap(ErrNVMLShutdown, newNVMLError(ret))
	}
	return nil
}
