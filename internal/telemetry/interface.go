package telemetry

import (
	"context"
	"time"
)

// Collector defines the core domain interface
type Collector interface {
	Record(ctx context.Context, sample *Sample) error
	Close() error
}

// Repository defines the interface for sample storage
type Repository interface {
	Record(sample *Sample) error
	Close() error
}

// Sample is one iteration's condensed reading, persisted alongside the CSV
// log when telemetry is enabled.
type Sample struct {
	Timestamp        time.Time
	Iteration        int
	CPUUsage         float64
	CPUFrequency     float64
	CPUTemperature   float64
	PackagePower     float64
	FanSpeed         float64
	GPUTemperature   float64
	GPUPower         float64
	DriveTemperature float64
}
