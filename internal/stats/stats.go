package stats

import "time"

// Record is one aggregated statistic for a labeled entity within a category.
// Group carries the leading discriminator used to split a category into
// report sections (hwmon driver, GPU vendor, drive device id, memory pool).
// Device is a secondary discriminator used only by GPU records.
type Record struct {
	Group   string
	Device  string
	Label   string
	Current *float64
	Min     float64
	Max     float64
	Mean    float64
}

// Category is an ordered sequence of records for one metric type. Absent is
// set when the underlying hardware does not exist on this machine; residual
// records in an absent category must not be rendered.
type Category struct {
	Absent  bool
	Records []Record
}

// IsEmpty reports whether the category should be skipped entirely.
func (c Category) IsEmpty() bool {
	return c.Absent || len(c.Records) == 0
}

// Snapshot is the complete set of aggregated statistics for one run.
// It is immutable once built; one snapshot feeds one report generation.
type Snapshot struct {
	StartTime  time.Time
	Runtime    time.Duration
	Iterations int
	ModelName  string
	CPUModel   string
	MemSKUs    []string

	GPUDriverVersion string
	GPUSubsystems    map[string]string
	DriveModels      map[string]string

	Memory      Category
	Frequency   Category
	Usage       Category
	Temperature Category
	Power       Category
	Fans        Category
	GPUs        Category
	Drives      Category
}

// Subsystem returns the subsystem name for a GPU device, if known.
func (s *Snapshot) Subsystem(vendor, name string) string {
	return s.GPUSubsystems[vendor+"/"+name]
}

// DriveModel returns the model string for a drive device, if known.
func (s *Snapshot) DriveModel(device string) string {
	return s.DriveModels[device]
}
