package reportview

import (
	"slices"

	"github.com/bryanwahyu/prompt-sentinel/internal/domain/reports"
)

// Direction orders a sorted column ascending or descending.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// SortState is the single active sort directive.
type SortState struct {
	Column    Column    `json:"column"`
	Direction Direction `json:"direction"`
}

// Sort returns a new slice ordered by s. A nil directive keeps input order.
// Equal keys keep their input order in both directions.
func Sort(records []reports.Report, s *SortState) []reports.Report {
	out := slices.Clone(records)
	if s == nil {
		return out
	}
	slices.SortStableFunc(out, func(a, b reports.Report) int {
		c := compare(a, b, s.Column)
		if s.Direction == Desc {
			return -c
		}
		return c
	})
	return out
}

// next cycles a header click: asc, desc, cleared. Another column starts at asc.
func (s *SortState) next(c Column) *SortState {
	switch {
	case s == nil || s.Column != c:
		return &SortState{Column: c, Direction: Asc}
	case s.Direction == Asc:
		return &SortState{Column: c, Direction: Desc}
	default:
		return nil
	}
}
