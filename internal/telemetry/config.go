package telemetry

import "codeberg.org/mutker/stressrep/internal/errors"

const (
	defaultDirPerm = 0o755
	defaultDBPath  = "/var/lib/stressrep/telemetry.db"

	defaultBatchSize    = 30
	defaultBatchTimeout = 60
)

type Config struct {
	DBPath       string
	BatchSize    int
	BatchTimeout int
	Enabled      bool
}

func DefaultConfig() Config {
	return Config{
		DBPath:       defaultDBPath,
		BatchSize:    defaultBatchSize,
		BatchTimeout: defaultBatchTimeout,
		Enabled:      false, // Disabled by default
	}
}

func (c Config) Validate() error {
	errFactory := errors.New()

	// Only validate DBPath if telemetry is enabled
	if c.Enabled && c.DBPath == "" {
		return errFactory.New(ErrInvalidDBPath)
	}
	return nil
}
