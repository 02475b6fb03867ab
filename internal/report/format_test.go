package report_test

import (
	"strings"
	"testing"

	"codeberg.org/mutker/stressrep/internal/report"
	"github.com/stretchr/testify/assert"
)

func TestFormatLineRightJustify(t *testing.T) {
	line := report.FormatLine(
		[]string{"42"},
		[]int{10},
		[]report.Justify{report.Right},
	)

	assert.Equal(t, "        42\n", line)
	assert.Len(t, line, 11, "Expected value padded to exactly the column width plus newline")
	assert.Equal(t, 1, strings.Count(line, "\n"), "Expected exactly one line terminator")
}

func TestFormatLineLeftAndCenter(t *testing.T) {
	line := report.FormatLine(
		[]string{"Name", "Age", "City"},
		[]int{10, 5, 15},
		[]report.Justify{report.Left, report.Right, report.Center},
	)

	assert.Equal(t, "Name        Age     City      \n", line)
}

func TestFormatLineOverlongValue(t *testing.T) {
	line := report.FormatLine(
		[]string{"overflowing"},
		[]int{4},
		[]report.Justify{report.Left},
	)

	// Values longer than their column are emitted unclipped.
	assert.Equal(t, "overflowing\n", line)
}

func TestFormatLineShorterListTruncates(t *testing.T) {
	line := report.FormatLine(
		[]string{"a", "b", "c"},
		[]int{3},
		[]report.Justify{report.Left, report.Left, report.Left},
	)

	assert.Equal(t, "a  \n", line)
}

func TestDisplay(t *testing.T) {
	assert.Equal(t, "15", report.Display(15))
	assert.Equal(t, "15.5", report.Display(15.5))
	assert.Equal(t, "0", report.Display(0))
	assert.Equal(t, "33.3", report.Display(33.333333))
	assert.Equal(t, "-4", report.Display(-4))
}
