package csvlog_test

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"codeberg.org/mutker/stressrep/internal/csvlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendSequentialRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.csv")
	appender := csvlog.New(path)

	const rows = 5
	for i := 0; i < rows; i++ {
		err := appender.Append([]string{fmt.Sprintf("iter%d", i), "42", "3600"})
		require.NoError(t, err)
	}

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, rows, "Expected exactly one line per append, in call order")
	for i, record := range records {
		assert.Equal(t, fmt.Sprintf("iter%d", i), record[0])
		assert.Equal(t, []string{"42", "3600"}, record[1:])
	}
}

func TestAppendDoesNotAlterPriorRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.csv")
	appender := csvlog.New(path)

	require.NoError(t, appender.Append([]string{"first"}))
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, appender.Append([]string{"second"}))
	after, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, string(before), string(after[:len(before)]))
}

func TestAppendQuotesFieldsWithCommas(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.csv")
	appender := csvlog.New(path)

	require.NoError(t, appender.Append([]string{"a,b", "c"}))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "\"a,b\",c\n", string(content))
}

func TestAppendBadPath(t *testing.T) {
	appender := csvlog.New(filepath.Join(t.TempDir(), "missing", "run.csv"))

	err := appender.Append([]string{"x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CSV")
}
