package collector

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

const defaultHwmonRoot = "/sys/class/hwmon"

// hwmonChip is one /sys/class/hwmon entry: a sensor chip exposed by its
// kernel driver, optionally backed by a block or PCI device.
type hwmonChip struct {
	path   string
	driver string
	device string
	model  string
}

// scanHwmon enumerates sensor chips under root. Chips without a readable
// name file are skipped.
func scanHwmon(root string) []hwmonChip {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil
	}

	var chips []hwmonChip
	for _, entry := range entries {
		path := filepath.Join(root, entry.Name())
		driver, err := readSysfsString(filepath.Join(path, "name"))
		if err != nil {
			continue
		}

		chip := hwmonChip{path: path, driver: driver}
		if target, err := filepath.EvalSymlinks(filepath.Join(path, "device")); err == nil {
			chip.device = filepath.Base(target)
			if model, err := readSysfsString(filepath.Join(target, "model")); err == nil {
				chip.model = model
			}
		}
		chips = append(chips, chip)
	}

	sort.Slice(chips, func(i, j int) bool { return chips[i].path < chips[j].path })

	return chips
}

// fans returns fan tachometer readings in RPM, keyed by sensor name (fan1,
// fan2, ...).
func (c hwmonChip) fans() map[string]float64 {
	return c.readSensors("fan", "_input")
}

// temps returns temperature readings in degrees Celsius, keyed by the
// sensor's label when the driver provides one (Core 0, Composite, Tctl).
func (c hwmonChip) temps() map[string]float64 {
	readings := c.readSensors("temp", "_input")

	labeled := make(map[string]float64, len(readings))
	for sensor, value := range readings {
		label := sensor
		if s, err := readSysfsString(filepath.Join(c.path, sensor+"_label")); err == nil && s != "" {
			label = s
		}
		labeled[label] = value / 1000
	}
	return labeled
}

// peakTemps returns the driver-maintained historical maxima (temp*_highest)
// in degrees Celsius. These are aggregates, not live samples.
func (c hwmonChip) peakTemps() map[string]float64 {
	readings := c.readSensors("temp", "_highest")

	labeled := make(map[string]float64, len(readings))
	for sensor, value := range readings {
		label := sensor
		if s, err := readSysfsString(filepath.Join(c.path, sensor+"_label")); err == nil && s != "" {
			label = s
		}
		labeled[label] = value / 1000
	}
	return labeled
}

func (c hwmonChip) readSensors(prefix, suffix string) map[string]float64 {
	matches, err := filepath.Glob(filepath.Join(c.path, prefix+"*"+suffix))
	if err != nil || len(matches) == 0 {
		return nil
	}

	readings := make(map[string]float64, len(matches))
	for _, match := range matches {
		raw, err := readSysfsString(match)
		if err != nil {
			continue
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		sensor := strings.TrimSuffix(filepath.Base(match), suffix)
		readings[sensor] = value
	}
	return readings
}

func readSysfsString(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}

// cpuTempDrivers are the hwmon drivers whose temperatures belong to the CPU
// temperature category.
var cpuTempDrivers = map[string]bool{
	"coretemp":    true,
	"k10temp":     true,
	"zenpower":    true,
	"cpu_thermal": true,
}

// driveTempDrivers are the hwmon drivers backing drive temperature sensors.
var driveTempDrivers = map[string]bool{
	"nvme":      true,
	"drivetemp": true,
}
