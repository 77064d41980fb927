// Package reportview derives the visible table of reports from a fetched
// snapshot and the user's view parameters: per-column filters, a single sort
// directive and a selection set.
package reportview

import (
	"cmp"
	"strconv"
	"strings"

	"github.com/bryanwahyu/prompt-sentinel/internal/domain/reports"
)

// Column is a report field the table can show, filter and sort by.
type Column string

const (
	ColumnID              Column = "id"
	ColumnPrompt          Column = "prompt"
	ColumnSecrets         Column = "secrets"
	ColumnSanitizedOutput Column = "sanitized_output"
	ColumnTimestamp       Column = "timestamp"
)

// Columns lists every data column in display order.
var Columns = []Column{
	ColumnID,
	ColumnPrompt,
	ColumnSecrets,
	ColumnSanitizedOutput,
	ColumnTimestamp,
}

// ParseColumn maps a column key to its Column.
func ParseColumn(s string) (Column, bool) {
	for _, c := range Columns {
		if string(c) == strings.ToLower(strings.TrimSpace(s)) {
			return c, true
		}
	}
	return "", false
}

// Title is the column header text.
func (c Column) Title() string {
	switch c {
	case ColumnID:
		return "ID"
	case ColumnPrompt:
		return "Prompt"
	case ColumnSecrets:
		return "Secrets"
	case ColumnSanitizedOutput:
		return "Sanitized Output"
	case ColumnTimestamp:
		return "Timestamp"
	default:
		return string(c)
	}
}

// Value returns the stringified cell value used for filtering and display.
func Value(r reports.Report, c Column) string {
	switch c {
	case ColumnID:
		return strconv.FormatInt(int64(r.ID), 10)
	case ColumnPrompt:
		return r.Prompt
	case ColumnSecrets:
		return r.Secrets
	case ColumnSanitizedOutput:
		return r.SanitizedOutput
	case ColumnTimestamp:
		return r.Timestamp
	default:
		return ""
	}
}

// compare is the ascending comparator of a column.
func compare(a, b reports.Report, c Column) int {
	switch c {
	case ColumnID:
		return cmp.Compare(a.ID, b.ID)
	case ColumnTimestamp:
		return compareInstant(a, b)
	default:
		return strings.Compare(Value(a, c), Value(b, c))
	}
}

// compareInstant orders parsed timestamps temporally and before unparsed
// ones; unparsed timestamps compare as text.
func compareInstant(a, b reports.Report) int {
	aok, bok := !a.At.IsZero(), !b.At.IsZero()
	switch {
	case aok && bok:
		if c := a.At.Compare(b.At); c != 0 {
			return c
		}
		return strings.Compare(a.Timestamp, b.Timestamp)
	case aok:
		return -1
	case bok:
		return 1
	default:
		return strings.Compare(a.Timestamp, b.Timestamp)
	}
}
