package config

import (
	"os"
	"strings"

	"codeberg.org/mutker/stressrep/internal/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultInterval    = 2
	DefaultLogLevel    = "info"
	DefaultCSVPath     = "stressrep.csv"
	DefaultSummaryPath = "summary.txt"
	defaultTelemetryDB = "/var/lib/stressrep/telemetry.db"

	configName = "stressrep"
	configType = "toml"
	envPrefix  = "STRESSREP"
)

// Config holds the runtime configuration for a stress-test run
type Config struct {
	Interval    int    `mapstructure:"interval"`
	Duration    int    `mapstructure:"duration"`
	CSVPath     string `mapstructure:"csv"`
	SummaryPath string `mapstructure:"summary"`
	Monitor     bool   `mapstructure:"monitor"`
	LogLevel    string `mapstructure:"log_level"`
	Telemetry   bool   `mapstructure:"telemetry"`
	TelemetryDB string `mapstructure:"database"`
}

// Load reads configuration from the config file, environment and flags.
// Flags override file values; STRESSREP_CONFIG overrides the file location.
func Load() (*Config, error) {
	errFactory := errors.New()

	v := viper.New()
	v.SetDefault("interval", DefaultInterval)
	v.SetDefault("duration", 0)
	v.SetDefault("csv", DefaultCSVPath)
	v.SetDefault("summary", DefaultSummaryPath)
	v.SetDefault("monitor", false)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("telemetry", false)
	v.SetDefault("database", defaultTelemetryDB)

	flags := pflag.NewFlagSet(os.Args[0], pflag.ContinueOnError)
	flags.ParseErrorsWhitelist.UnknownFlags = true
	flags.Int("interval", DefaultInterval, "Seconds between samples")
	flags.Int("duration", 0, "Run duration in seconds (0 runs until interrupted)")
	flags.String("csv", DefaultCSVPath, "Path to the per-iteration CSV log")
	flags.String("summary", DefaultSummaryPath, "Path to the summary report")
	flags.Bool("monitor", false, "Only log samples, do not write output files")
	flags.String("log-level", DefaultLogLevel, "Log level (debug, info, warning, error)")
	flags.Bool("telemetry", false, "Persist samples to the telemetry database")
	flags.String("database", defaultTelemetryDB, "Path to the telemetry database")

	if err := flags.Parse(os.Args[1:]); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}

	if err := v.BindPFlag("interval", flags.Lookup("interval")); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}
	if err := v.BindPFlag("duration", flags.Lookup("duration")); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}
	if err := v.BindPFlag("csv", flags.Lookup("csv")); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}
	if err := v.BindPFlag("summary", flags.Lookup("summary")); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}
	if err := v.BindPFlag("monitor", flags.Lookup("monitor")); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}
	if err := v.BindPFlag("log_level", flags.Lookup("log-level")); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}
	if err := v.BindPFlag("telemetry", flags.Lookup("telemetry")); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}
	if err := v.BindPFlag("database", flags.Lookup("database")); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path := os.Getenv(envPrefix + "_CONFIG"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType(configType)
		v.AddConfigPath("/etc")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, errFactory.Wrap(errors.ErrReadConfig, err)
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the loaded configuration for consistency
func (c *Config) Validate() error {
	errFactory := errors.New()

	if c.Interval <= 0 {
		return errFactory.WithData(errors.ErrInvalidInterval, c.Interval)
	}
	if c.Duration < 0 {
		return errFactory.WithData(errors.ErrInvalidArgument, c.Duration)
	}
	if !LogLevel(c.LogLevel).IsValid() {
		return errFactory.WithData(errors.ErrInvalidLogLevel, c.LogLevel)
	}
	if !c.Monitor {
		if c.CSVPath == "" || c.SummaryPath == "" {
			return errFactory.WithMessage(errors.ErrInvalidConfig, "csv and summary paths must be set")
		}
	}
	if c.Telemetry && c.TelemetryDB == "" {
		return errFactory.WithMessage(errors.ErrInvalidConfig, "telemetry database path must be set")
	}

	return nil
}
