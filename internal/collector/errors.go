package collector

import (
	"codeberg.org/mutker/stressrep/internal/errors"
	"github.com/NVIDIA/go-nvml/pkg/nvml"
)

const (
	ErrInit    = errors.ErrInitCollector
	ErrCPUInfo = errors.ErrorCode("collector_cpu_info_failed")

	// GPU errors
	ErrNVMLInit     = errors.ErrorCode("collector_nvml_init_failed")
	ErrNoGPU        = errors.ErrorCode("collector_no_gpu")
	ErrNVMLShutdown = errors.ErrorCode("collector_nvml_shutdown_failed")
)

// nvmlError represents an NVML-specific error
type nvmlError struct {
	ret nvml.Return
}

func (e nvmlError) Error() string {
	return nvml.ErrorString(e.ret)
}

// newNVMLError creates an error from an NVML return code
func newNVMLError(ret nvml.Return) error {
	if ret == nvml.SUCCESS {
		return nil
	}
	return &nvmlError{ret: ret}
}

// isNVMLSuccess checks if a Return value indicates success
func isNVMLSuccess(ret nvml.Return) bool {
	return ret == nvml.SUCCESS
}
