package csvlog

import (
	"encoding/csv"
	"os"

	"codeberg.org/mutker/stressrep/internal/errors"
)

const defaultFilePerm = 0o644

// Appender writes one row per sampling iteration to an append-only CSV log.
// The file is created on first use and never truncated; prior rows are never
// rewritten.
type Appender struct {
	path string
}

func New(path string) *Appender {
	return &Appender{path: path}
}

// Append adds one row to the log. The file handle is opened in append mode
// per call, so a concurrent summary write on a different handle cannot
// interleave with it.
func (a *Appender) Append(row []string) error {
	errFactory := errors.New()

	f, err := os.OpenFile(a.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, defaultFilePerm)
	if err != nil {
		return errFactory.Wrap(errors.ErrAppendCSV, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(row); err != nil {
		return errFactory.Wrap(errors.ErrAppendCSV, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return errFactory.Wrap(errors.ErrAppendCSV, err)
	}

	return nil
}

// Path returns the log file location.
func (a *Appender) Path() string {
	return a.path
}
