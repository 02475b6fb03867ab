package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"codeberg.org/mutker/stressrep/internal/collector"
	"codeberg.org/mutker/stressrep/internal/config"
	"codeberg.org/mutker/stressrep/internal/csvlog"
	"codeberg.org/mutker/stressrep/internal/errors"
	"codeberg.org/mutker/stressrep/internal/hostinfo"
	"codeberg.org/mutker/stressrep/internal/logger"
	"codeberg.org/mutker/stressrep/internal/pid"
	"codeberg.org/mutker/stressrep/internal/report"
	"codeberg.org/mutker/stressrep/internal/telemetry"
)

var cfg *config.Config

func init() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	initLogger()
	logger.Debug().Msg("Config loaded")
}

func initLogger() {
	logger.Init(
		cfg.LogLevel == config.LogLevelDebug.String(),
		cfg.LogLevel == config.LogLevelInfo.String(),
		logger.IsService(),
	)
	if cfg.LogLevel == config.LogLevelError.String() {
		logger.SetLogLevel(logger.ErrorLevel)
	}
}

func main() {
	if err := pid.Write(); err != nil {
		logger.Fatal().Err(err).Msg("failed to write PID file")
	}
	defer pid.Remove()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleSignals(cancel)

	if err := run(ctx); err != nil {
		logger.Error().Err(err).Msg("error in main loop")
		os.Exit(1)
	}
}

func handleSignals(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Info().Msg("Received termination signal.")
	cancel()
}

func run(ctx context.Context) error {
	errFactory := errors.New()

	coll, err := collector.New(logger.Default())
	if err != nil {
		return errFactory.Wrap(errors.ErrInitApp, err)
	}
	defer func() {
		if err := coll.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close collector")
		}
	}()

	modelName, err := hostinfo.ModelName(ctx)
	if err != nil {
		return errFactory.Wrap(errors.ErrInitApp, err)
	}
	logger.Info().Str("model", modelName).Msg("Detected host")

	memSKUs, err := hostinfo.MemorySKUs(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to read memory SKUs")
	}

	teleCfg := telemetry.DefaultConfig()
	teleCfg.Enabled = cfg.Telemetry
	teleCfg.DBPath = cfg.TelemetryDB
	tele, err := telemetry.NewService(teleCfg, logger.Default())
	if err != nil {
		return errFactory.Wrap(errors.ErrInitApp, err)
	}
	defer func() {
		if err := tele.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close telemetry")
		}
	}()

	csvLog := csvlog.New(cfg.CSVPath)

	if err := loop(ctx, coll, csvLog, tele); err != nil {
		return err
	}

	if cfg.Monitor {
		return nil
	}

	snap := coll.Snapshot(modelName, memSKUs)
	if err := report.Write(snap, cfg.SummaryPath); err != nil {
		return err
	}
	logger.Info().
		Str("path", cfg.SummaryPath).
		Int("iterations", snap.Iterations).
		Msg("Summary report written")

	return nil
}

func loop(ctx context.Context, coll *collector.Collector, csvLog *csvlog.Appender, tele telemetry.Collector) error {
	interval := time.Duration(cfg.Interval) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if cfg.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(cfg.Duration)*time.Second)
		defer cancel()
	}

	if cfg.Monitor {
		logger.Info().Msg("Monitor mode activated. Logging samples only...")
	}

	filename := filepath.Base(cfg.CSVPath)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := coll.Sample(ctx); err != nil {
				// Only fails once the run is shutting down.
				return nil
			}

			if cfg.Monitor {
				logSample(coll)
				continue
			}

			if err := csvLog.Append(coll.CSVRow(filename)); err != nil {
				// One lost row must not end the run.
				logger.Error().Err(err).Msg("failed to append CSV row")
			}

			sample := telemetry.Condense(coll.Snapshot("", nil), coll.Iterations())
			sample.Timestamp = time.Now()
			if err := tele.Record(ctx, sample); err != nil {
				logger.Error().Err(err).Msg("failed to record telemetry sample")
			}
		}
	}
}

func logSample(coll *collector.Collector) {
	sample := telemetry.Condense(coll.Snapshot("", nil), coll.Iterations())
	logger.Info().
		Int("iteration", sample.Iteration).
		Float64("cpu_usage", sample.CPUUsage).
		Float64("cpu_mhz", sample.CPUFrequency).
		Float64("cpu_temp", sample.CPUTemperature).
		Float64("package_power", sample.PackagePower).
		Float64("fan_rpm", sample.FanSpeed).
		Float64("gpu_temp", sample.GPUTemperature).
		Float64("gpu_power", sample.GPUPower).
		Float64("drive_temp", sample.DriveTemperature).
		Msg("")
}
