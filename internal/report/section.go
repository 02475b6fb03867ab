package report

import (
	"strings"

	"codeberg.org/mutker/stressrep/internal/stats"
)

// Section is one titled block of fixed-width rows in the summary report.
type Section struct {
	Title          string
	Headers        []string
	Widths         []int
	Justifications []Justify
	Rows           [][]string
}

// Render appends the section to b: title line (when non-empty), header
// line, one line per row, then a blank separator line. A section with no
// rows renders nothing, which is how absent hardware disappears from the
// report instead of leaving an empty table.
func (s Section) Render(b *strings.Builder) {
	if len(s.Rows) == 0 {
		return
	}

	if s.Title != "" {
		b.WriteString(s.Title)
		b.WriteString("\n")
	}
	b.WriteString(FormatLine(s.Headers, s.Widths, s.Justifications))
	for _, row := range s.Rows {
		b.WriteString(FormatLine(row, s.Widths, s.Justifications))
	}
	b.WriteString("\n")
}

// Group is an ordered run of records sharing one discriminator value.
type Group struct {
	Key     string
	Records []stats.Record
}

// GroupRecords splits a category's records by their leading discriminator.
// Groups are ordered by the first occurrence of each discriminator and every
// record lands in exactly one group. Records sharing a discriminator are
// expected to arrive contiguously; non-contiguous runs are merged into the
// discriminator's first group rather than emitted twice.
func GroupRecords(records []stats.Record) []Group {
	var groups []Group
	index := make(map[string]int)

	for _, rec := range records {
		i, ok := index[rec.Group]
		if !ok {
			i = len(groups)
			index[rec.Group] = i
			groups = append(groups, Group{Key: rec.Group})
		}
		groups[i].Records = append(groups[i].Records, rec)
	}

	return groups
}
