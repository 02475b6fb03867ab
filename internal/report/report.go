package report

import (
	"fmt"
	"os"
	"strings"
	"time"

	"codeberg.org/mutker/stressrep/internal/errors"
	"codeberg.org/mutker/stressrep/internal/stats"
)

const (
	nvidiaVendor = "nvidia"
	timeFormat   = "2006-01-02 15:04:05"

	defaultFilePerm = 0o644
)

// Column layouts per category. Widths and justifications are fixed per
// category; the first column is the entity label, the rest are values.
var (
	memoryWidths = []int{15, 20, 20, 20}
	cpuWidths    = []int{15, 15, 15, 15}
	tempWidths   = []int{15, 10, 10, 10}
	powerWidths  = []int{10, 10, 10, 10}
	wideWidths   = []int{15, 15, 15, 15, 15}

	labelThenValues4 = []Justify{Left, Right, Right, Right}
	labelThenValues5 = []Justify{Left, Right, Right, Right, Right}

	cpuHeaders   = []string{"Core", "Min %:Mhz", "Max %:Mhz", "Mean %:Mhz"}
	tempHeaders  = []string{"Core", "Min C", "Max C", "Mean C"}
	powerHeaders = []string{"CPU", "Min W", "Max W", "Mean W"}
	fanHeaders   = []string{"Fan", "Current(RPM)", "Min(RPM)", "Max(RPM)", "Mean(RPM)"}
	dataHeaders  = []string{"Data", "Current", "Min", "Max", "Mean"}
)

// Render produces the full summary report for one finished run: preamble,
// then per-category sections in fixed order. Absent categories are skipped.
func Render(snap *stats.Snapshot) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Summary:\nModel: %s\nStart Time: %s\n",
		snap.ModelName, snap.StartTime.Format(timeFormat))
	fmt.Fprintf(&b, "Runtime: %s\nCPU: %s\n",
		snap.Runtime.Round(time.Second), snap.CPUModel)
	b.WriteString("Memory SKUs:\n")
	for _, sku := range snap.MemSKUs {
		fmt.Fprintf(&b, "DIMM: %s\n", sku)
	}

	renderMemory(&b, snap.Memory)
	renderCPU(&b, snap.Frequency, snap.Usage)
	renderTemperature(&b, snap.Temperature)
	renderPower(&b, snap.Power)
	renderFans(&b, snap.Fans)
	renderGPUs(&b, snap)
	renderDrives(&b, snap)

	return b.String()
}

// Write renders the snapshot and writes it to path, replacing any previous
// report.
func Write(snap *stats.Snapshot, path string) error {
	if err := os.WriteFile(path, []byte(Render(snap)), defaultFilePerm); err != nil {
		return errors.New().Wrap(errors.ErrWriteSummary, err)
	}
	return nil
}

func renderMemory(b *strings.Builder, memory stats.Category) {
	if memory.IsEmpty() {
		return
	}

	for _, g := range GroupRecords(memory.Records) {
		rows := make([][]string, 0, len(g.Records))
		for _, rec := range g.Records {
			rows = append(rows, []string{
				rec.Label, Display(rec.Min), Display(rec.Max), Display(rec.Mean),
			})
		}
		Section{
			Headers:        []string{g.Key, "Min", "Max", "Mean"},
			Widths:         memoryWidths,
			Justifications: labelThenValues4,
			Rows:           rows,
		}.Render(b)
	}
}

// renderCPU pairs each core's usage record with its frequency record by core
// label and renders the pair as one composite "usage:frequency" cell per
// statistic. Cores present in only one of the two categories are skipped.
func renderCPU(b *strings.Builder, frequency, usage stats.Category) {
	usageByCore := make(map[string]stats.Record, len(usage.Records))
	for _, rec := range usage.Records {
		usageByCore[rec.Label] = rec
	}

	var rows [][]string
	for _, mhz := range frequency.Records {
		pct, ok := usageByCore[mhz.Label]
		if !ok {
			continue
		}
		rows = append(rows, []string{
			mhz.Label,
			fmt.Sprintf("%4s:%5s", Display(pct.Min), Display(mhz.Min)),
			fmt.Sprintf("%4s:%5s", Display(pct.Max), Display(mhz.Max)),
			fmt.Sprintf("%4s:%5s", Display(pct.Mean), Display(mhz.Mean)),
		})
	}

	Section{
		Headers:        cpuHeaders,
		Widths:         cpuWidths,
		Justifications: labelThenValues4,
		Rows:           rows,
	}.Render(b)
}

func renderTemperature(b *strings.Builder, temperature stats.Category) {
	if temperature.IsEmpty() {
		return
	}

	rows := make([][]string, 0, len(temperature.Records))
	for _, rec := range temperature.Records {
		rows = append(rows, []string{
			rec.Label, Display(rec.Min), Display(rec.Max), Display(rec.Mean),
		})
	}

	Section{
		Headers:        tempHeaders,
		Widths:         tempWidths,
		Justifications: labelThenValues4,
		Rows:           rows,
	}.Render(b)
}

func renderPower(b *strings.Builder, power stats.Category) {
	if power.IsEmpty() {
		return
	}

	rows := make([][]string, 0, len(power.Records))
	for _, rec := range power.Records {
		rows = append(rows, []string{
			rec.Label, Display(rec.Min), Display(rec.Max), Display(rec.Mean),
		})
	}

	Section{
		Headers:        powerHeaders,
		Widths:         powerWidths,
		Justifications: labelThenValues4,
		Rows:           rows,
	}.Render(b)
}

func renderFans(b *strings.Builder, fans stats.Category) {
	if fans.IsEmpty() {
		return
	}

	for _, g := range GroupRecords(fans.Records) {
		rows := make([][]string, 0, len(g.Records))
		for _, rec := range g.Records {
			rows = append(rows, []string{
				rec.Label, displayCurrent(rec),
				Display(rec.Min), Display(rec.Max), Display(rec.Mean),
			})
		}
		Section{
			Title:          g.Key,
			Headers:        fanHeaders,
			Widths:         wideWidths,
			Justifications: labelThenValues5,
			Rows:           rows,
		}.Render(b)
	}
}

// renderGPUs groups records by vendor and, within a vendor, emits a synthetic
// header row whenever the device name changes. Aggregate-only records (no
// current value) are omitted. The nvidia vendor title carries the driver
// version when known.
func renderGPUs(b *strings.Builder, snap *stats.Snapshot) {
	if snap.GPUs.IsEmpty() {
		return
	}

	for _, g := range GroupRecords(snap.GPUs.Records) {
		title := g.Key
		if g.Key == nvidiaVendor && snap.GPUDriverVersion != "" {
			title += " - " + snap.GPUDriverVersion
		}

		var rows [][]string
		device := ""
		for _, rec := range g.Records {
			if rec.Device != device {
				device = rec.Device
				header := "GPU: " + device
				if subsystem := snap.Subsystem(g.Key, device); subsystem != "" {
					header += "\nSubSystem: " + subsystem
				}
				rows = append(rows, []string{header})
			}
			if rec.Current == nil {
				continue
			}
			rows = append(rows, []string{
				rec.Label, Display(*rec.Current),
				Display(rec.Min), Display(rec.Max), Display(rec.Mean),
			})
		}

		Section{
			Title:          title,
			Headers:        dataHeaders,
			Widths:         wideWidths,
			Justifications: labelThenValues5,
			Rows:           rows,
		}.Render(b)
	}
}

func renderDrives(b *strings.Builder, snap *stats.Snapshot) {
	if snap.Drives.IsEmpty() {
		return
	}

	for _, g := range GroupRecords(snap.Drives.Records) {
		var rows [][]string
		for _, rec := range g.Records {
			if rec.Current == nil {
				continue
			}
			rows = append(rows, []string{
				rec.Label, Display(*rec.Current),
				Display(rec.Min), Display(rec.Max), Display(rec.Mean),
			})
		}

		Section{
			Title:          fmt.Sprintf("Device: %s\nDrive Model: %s", g.Key, snap.DriveModel(g.Key)),
			Headers:        dataHeaders,
			Widths:         wideWidths,
			Justifications: labelThenValues5,
			Rows:           rows,
		}.Render(b)
	}
}

func displayCurrent(rec stats.Record) string {
	if rec.Current == nil {
		return ""
	}
	return Display(*rec.Current)
}
