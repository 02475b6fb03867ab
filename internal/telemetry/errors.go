package telemetry

import "codeberg.org/mutker/stressrep/internal/errors"

const (
	// Configuration Errors
	ErrInvalidConfig = errors.ErrInvalidConfig
	ErrInvalidDBPath = errors.ErrorCode("telemetry_invalid_db_path")

	// Schema Errors
	ErrSchemaInitFailed  = errors.ErrorCode("telemetry_schema_init_failed")
	ErrTransactionFailed = errors.ErrorCode("telemetry_transaction_failed")

	// Storage Errors
	ErrStorageInit  = errors.ErrInitFailed
	ErrStorageClose = errors.ErrShutdownFailed

	// Collection Errors
	ErrRecordFailed  = errors.ErrorCode("telemetry_record_failed")
	ErrInvalidSample = errors.ErrorCode("telemetry_invalid_sample")

	// Operation Errors
	ErrOperationTimeout = errors.ErrorCode("telemetry_operation_timeout")
	ErrServiceShutdown  = errors.ErrShutdownFailed
)
