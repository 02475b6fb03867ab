package report

import (
	"math"
	"strconv"
	"strings"
)

// Justify selects how a value is aligned within its column.
type Justify int

const (
	Left Justify = iota
	Right
	Center
)

// FormatLine renders one fixed-width row. Each item is padded to its column
// width and aligned per its justification; the line ends with a single
// newline. Lists are consumed pairwise, so the shortest list bounds the
// number of columns.
func FormatLine(items []string, widths []int, justifications []Justify) string {
	n := len(items)
	if len(widths) < n {
		n = len(widths)
	}
	if len(justifications) < n {
		n = len(justifications)
	}

	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteString(pad(items[i], widths[i], justifications[i]))
	}
	b.WriteString("\n")

	return b.String()
}

func pad(s string, width int, justification Justify) string {
	gap := width - len(s)
	if gap <= 0 {
		return s
	}

	switch justification {
	case Right:
		return strings.Repeat(" ", gap) + s
	case Center:
		left := gap / 2
		return strings.Repeat(" ", left) + s + strings.Repeat(" ", gap-left)
	default:
		return s + strings.Repeat(" ", gap)
	}
}

// Display converts a numeric value to its report form. Integral values
// render without a decimal point; fractional values keep one decimal.
func Display(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}
