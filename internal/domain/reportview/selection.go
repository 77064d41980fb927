package reportview

import (
	"slices"

	"github.com/bryanwahyu/prompt-sentinel/internal/domain/reports"
)

// TriState is the header checkbox state for a visible row set.
type TriState int

const (
	SelectedNone TriState = iota
	SelectedSome
	SelectedAll
)

// Selection is the set of selected report ids. Ids hidden by a filter stay
// selected.
type Selection map[reports.ReportID]struct{}

// NewSelection returns a selection holding ids.
func NewSelection(ids ...reports.ReportID) Selection {
	s := make(Selection, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether id is selected.
func (s Selection) Has(id reports.ReportID) bool {
	_, ok := s[id]
	return ok
}

// Toggle adds id when absent and removes it when present.
func (s Selection) Toggle(id reports.ReportID) {
	if s.Has(id) {
		delete(s, id)
		return
	}
	s[id] = struct{}{}
}

// ToggleAll clears the visible ids when all of them are selected, otherwise
// selects every visible id. Ids outside visible are untouched.
func (s Selection) ToggleAll(visible []reports.ReportID) {
	if s.AllSelected(visible) {
		for _, id := range visible {
			delete(s, id)
		}
		return
	}
	for _, id := range visible {
		s[id] = struct{}{}
	}
}

// AllSelected is true when visible is non-empty and fully selected.
func (s Selection) AllSelected(visible []reports.ReportID) bool {
	return s.Tri(visible) == SelectedAll
}

// Indeterminate is true when some but not all visible ids are selected.
func (s Selection) Indeterminate(visible []reports.ReportID) bool {
	return s.Tri(visible) == SelectedSome
}

// Tri returns the header checkbox state for the visible ids.
func (s Selection) Tri(visible []reports.ReportID) TriState {
	n := 0
	for _, id := range visible {
		if s.Has(id) {
			n++
		}
	}
	switch {
	case n == 0:
		return SelectedNone
	case n == len(visible):
		return SelectedAll
	default:
		return SelectedSome
	}
}

// Reset deselects every id.
func (s Selection) Reset() {
	clear(s)
}

// IDs returns the selected ids in ascending order.
func (s Selection) IDs() []reports.ReportID {
	out := make([]reports.ReportID, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// Clone returns an independent copy of s.
func (s Selection) Clone() Selection {
	out := make(Selection, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}
