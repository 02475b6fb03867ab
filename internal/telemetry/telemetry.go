package telemetry

import (
	"context"

	"codeberg.org/mutker/stressrep/internal/errors"
	"codeberg.org/mutker/stressrep/internal/logger"
	"codeberg.org/mutker/stressrep/internal/stats"
)

type service struct {
	repo Repository
	cfg  Config
}

// No-op implementation
type noopCollector struct{}

func NewService(cfg Config, log logger.Logger) (Collector, error) {
	errFactory := errors.New()

	if err := cfg.Validate(); err != nil {
		return nil, errFactory.Wrap(ErrInvalidConfig, err)
	}

	// If telemetry is disabled, return a no-op collector
	if !cfg.Enabled {
		log.Debug().Msg("Telemetry disabled, using no-op collector")
		return &noopCollector{}, nil
	}

	repo, err := NewRepository(cfg, log)
	if err != nil {
		log.Debug().Err(err).Msg("Failed to create telemetry repository")
		return nil, err
	}

	return &service{
		repo: repo,
		cfg:  cfg,
	}, nil
}

func (s *service) Record(ctx context.Context, sample *Sample) error {
	errFactory := errors.New()

	if sample == nil {
		return errFactory.New(ErrInvalidSample)
	}

	select {
	case <-ctx.Done():
		return errFactory.Wrap(ErrOperationTimeout, ctx.Err())
	default:
		if err := s.repo.Record(sample); err != nil {
			return errFactory.Wrap(ErrRecordFailed, err)
		}
	}

	return nil
}

func (s *service) Close() error {
	errFactory := errors.New()

	if err := s.repo.Close(); err != nil {
		return errFactory.Wrap(ErrServiceShutdown, err)
	}
	return nil
}

// No-op implementation
func (*noopCollector) Record(_ context.Context, _ *Sample) error {
	return nil
}

func (*noopCollector) Close() error {
	return nil
}

// Condense folds one run snapshot into a flat sample: mean CPU usage and
// frequency across cores, hottest sensor per thermal category, summed
// package power, fastest fan.
func Condense(snap *stats.Snapshot, iteration int) *Sample {
	sample := &Sample{
		Iteration:        iteration,
		CPUUsage:         meanCurrent(snap.Usage),
		CPUFrequency:     meanCurrent(snap.Frequency),
		CPUTemperature:   maxCurrent(snap.Temperature),
		PackagePower:     sumCurrent(snap.Power),
		FanSpeed:         maxCurrent(snap.Fans),
		DriveTemperature: maxCurrent(snap.Drives),
	}

	for _, rec := range snap.GPUs.Records {
		if rec.Current == nil {
			continue
		}
		switch rec.Label {
		case "Temp C":
			if *rec.Current > sample.GPUTemperature {
				sample.GPUTemperature = *rec.Current
			}
		case "Power W":
			sample.GPUPower += *rec.Current
		}
	}

	return sample
}

func meanCurrent(cat stats.Category) float64 {
	sum := 0.0
	count := 0
	for _, rec := range cat.Records {
		if rec.Current == nil {
			continue
		}
		sum += *rec.Current
		count++
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

func maxCurrent(cat stats.Category) float64 {
	highest := 0.0
	for _, rec := range cat.Records {
		if rec.Current != nil && *rec.Current > highest {
			highest = *rec.Current
		}
	}
	return highest
}

func sumCurrent(cat stats.Category) float64 {
	sum := 0.0
	for _, rec := range cat.Records {
		if rec.Current != nil {
			sum += *rec.Current
		}
	}
	return sum
}
