package telemetry

import (
	"database/sql"

	"codeberg.org/mutker/stressrep/internal/errors"
	"codeberg.org/mutker/stressrep/internal/logger"
)

const (
	SchemaVersion = 1

	createTablesSQL = `
	   CREATE TABLE IF NOT EXISTS schema_versions (
	       version     INTEGER PRIMARY KEY,
	       applied_at  TEXT NOT NULL
	   );
	   CREATE TABLE IF NOT EXISTS samples (
	       timestamp         INTEGER NOT NULL,
	       iteration         INTEGER NOT NULL,
	       cpu_usage         REAL NOT NULL,
	       cpu_frequency     REAL NOT NULL,
	       cpu_temperature   REAL NOT NULL,
	       package_power     REAL NOT NULL,
	       fan_speed         REAL NOT NULL,
	       gpu_temperature   REAL NOT NULL,
	       gpu_power         REAL NOT NULL,
	       drive_temperature REAL NOT NULL,
	       PRIMARY KEY (timestamp, iteration)
	   );`

	insertSampleSQL = `
    INSERT INTO samples (
        timestamp, iteration,
        cpu_usage, cpu_frequency, cpu_temperature,
        package_power, fan_speed,
        gpu_temperature, gpu_power,
        drive_temperature
    ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
)

// InitSchema creates the database schema and records its version.
func InitSchema(db *sql.DB, log logger.Logger) error {
	errFactory := errors.New()

	tx, err := db.Begin()
	if err != nil {
		return errFactory.Wrap(ErrSchemaInitFailed, err)
	}

	committed := false
	defer func() {
		if !committed {
			if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
				log.Debug().Err(err).Msg("Failed to rollback transaction")
			}
		}
	}()

	if _, err := tx.Exec(createTablesSQL); err != nil {
		return errFactory.Wrap(ErrSchemaInitFailed, err)
	}

	if _, err := tx.Exec(`
        INSERT OR IGNORE INTO schema_versions (version, applied_at)
        VALUES (?, datetime('now'))
    `, SchemaVersion); err != nil {
		return errFactory.Wrap(ErrSchemaInitFailed, err)
	}

	if err := tx.Commit(); err != nil {
		return errFactory.Wrap(ErrSchemaInitFailed, err)
	}
	committed = true

	log.Debug().
		Int("version", SchemaVersion).
		Msg("Telemetry schema initialized")

	return nil
}

// GetInsertSampleSQL returns the SQL to insert a sample
func GetInsertSampleSQL() string {
	return insertSampleSQL
}
