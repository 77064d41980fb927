package reportview

import (
	"slices"
	"strings"

	"github.com/bryanwahyu/prompt-sentinel/internal/domain/reports"
)

// Filters maps a column to its filter text. Empty text imposes nothing.
type Filters map[Column]string

// Active reports whether at least one filter constrains the result.
func (f Filters) Active() bool {
	for _, text := range f {
		if text != "" {
			return true
		}
	}
	return false
}

func (f Filters) Clone() Filters {
	out := make(Filters, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// With returns a copy of f with the filter of c set to text.
func (f Filters) With(c Column, text string) Filters {
	out := f.Clone()
	if text == "" {
		delete(out, c)
	} else {
		out[c] = text
	}
	return out
}

// Match reports whether r passes every active filter.
func (f Filters) Match(r reports.Report) bool {
	for c, text := range f {
		if text == "" {
			continue
		}
		if !strings.Contains(Value(r, c), text) {
			return false
		}
	}
	return true
}

// Filter keeps the records passing every active filter, in input order.
// Matching is a case-sensitive substring test on the stringified value.
func Filter(records []reports.Report, filters Filters) []reports.Report {
	if !filters.Active() {
		return slices.Clone(records)
	}
	out := make([]reports.Report, 0, len(records))
	for _, r := range records {
		if filters.Match(r) {
			out = append(out, r)
		}
	}
	return out
}
