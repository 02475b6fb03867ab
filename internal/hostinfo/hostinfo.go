package hostinfo

import (
	"context"
	"os/exec"
	"strings"

	"codeberg.org/mutker/stressrep/internal/errors"
)

// dmidecode needs root; the sampling loop itself does not, so these run
// through sudo exactly once per run.
const (
	modelNameCmd = `sudo dmidecode -t 1 | grep Version | awk '{print $2}'`
	memSKUCmd    = `sudo dmidecode -t 17 | grep "Part Number" | awk '{print $3}'`
)

// ModelName retrieves the host's model name. A failing or non-zero command
// is fatal to the caller; there is no fallback value.
func ModelName(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, "sh", "-c", modelNameCmd).Output()
	if err != nil {
		return "", errors.New().Wrap(errors.ErrCommandFailed, err)
	}

	return strings.TrimSpace(string(out)), nil
}

// MemorySKUs retrieves the part number of each populated DIMM slot.
func MemorySKUs(ctx context.Context) ([]string, error) {
	out, err := exec.CommandContext(ctx, "sh", "-c", memSKUCmd).Output()
	if err != nil {
		return nil, errors.New().Wrap(errors.ErrCommandFailed, err)
	}

	var skus []string
	for _, line := range strings.Split(string(out), "\n") {
		sku := strings.TrimSpace(line)
		if sku == "" || sku == "Unknown" {
			continue
		}
		skus = append(skus, sku)
	}

	return skus, nil
}
