package errors

// Common error codes
const (
	// System errors
	ErrInternal        ErrorCode = "internal_error"
	ErrInvalidArgument ErrorCode = "invalid_argument"
	ErrAlreadyRunning  ErrorCode = "already_running"

	// Configuration errors
	ErrInvalidConfig   ErrorCode = "invalid_configuration"
	ErrBindFlags       ErrorCode = "bind_flags_failed"
	ErrReadConfig      ErrorCode = "read_config_failed"
	ErrInvalidInterval ErrorCode = "invalid_interval"
	ErrInvalidLogLevel ErrorCode = "invalid_log_level"

	// Initialization errors
	ErrInitFailed     ErrorCode = "initialization_failed"
	ErrShutdownFailed ErrorCode = "shutdown_failed"

	// Output errors
	ErrAppendCSV     ErrorCode = "append_csv_failed"
	ErrWriteSummary  ErrorCode = "write_summary_failed"
	ErrCommandFailed ErrorCode = "command_failed"

	// Sampling errors
	ErrInitCollector ErrorCode = "init_collector_failed"
	ErrSampleFailed  ErrorCode = "sample_failed"

	// Application errors
	ErrInitApp  ErrorCode = "init_app_failed"
	ErrMainLoop ErrorCode = "main_loop_failed"
)

// Common error messages
var errorMessages = map[ErrorCode]string{
	ErrInternal:        "Internal error occurred",
	ErrInvalidArgument: "Invalid argument provided",
	ErrAlreadyRunning:  "Another instance is already running",
	ErrInvalidConfig:   "Invalid configuration",
	ErrBindFlags:       "Failed to bind flags",
	ErrReadConfig:      "Failed to read config file",
	ErrInitFailed:      "Initialization failed",
	ErrShutdownFailed:  "Shutdown failed",
	ErrAppendCSV:       "Failed to append row to CSV log",
	ErrWriteSummary:    "Failed to write summary report",
	ErrCommandFailed:   "Command execution failed",
	ErrInitCollector:   "Failed to initialize sensor collector",
	ErrSampleFailed:    "Failed to collect sample",
	ErrInitApp:         "Failed to initialize application",
	ErrMainLoop:        "Error in main loop",
}

// GetErrorMessage returns the message for a given error code
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}

	return string(code)
}
