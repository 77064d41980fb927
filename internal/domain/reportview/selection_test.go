package reportview

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bryanwahyu/prompt-sentinel/internal/domain/reports"
)

func TestSelection_Toggle(t *testing.T) {
	s := NewSelection()
	s.Toggle(1)
	assert.True(t, s.Has(1))
	s.Toggle(1)
	assert.False(t, s.Has(1))
}

func TestSelection_TriState(t *testing.T) {
	visible := []reports.ReportID{1, 2, 3}
	s := NewSelection()
	assert.Equal(t, SelectedNone, s.Tri(visible))
	assert.False(t, s.AllSelected(visible))
	assert.False(t, s.Indeterminate(visible))

	s.Toggle(2)
	assert.True(t, s.Indeterminate(visible))
	assert.False(t, s.AllSelected(visible))

	s.Toggle(1)
	s.Toggle(3)
	assert.True(t, s.AllSelected(visible))
	assert.False(t, s.Indeterminate(visible))
}

func TestSelection_AllSelectedNeedsVisibleRows(t *testing.T) {
	s := NewSelection(1, 2)
	assert.False(t, s.AllSelected(nil))
	assert.False(t, s.Indeterminate(nil))
}

func TestSelection_ToggleAll(t *testing.T) {
	s := NewSelection(9)
	visible := []reports.ReportID{1, 2}

	s.ToggleAll(visible)
	assert.Equal(t, []reports.ReportID{1, 2, 9}, s.IDs())

	s.ToggleAll(visible)
	assert.Equal(t, []reports.ReportID{9}, s.IDs(), "hidden ids are untouched")
}

func TestSelection_ToggleAllFromPartial(t *testing.T) {
	s := NewSelection(1)
	s.ToggleAll([]reports.ReportID{1, 2, 3})
	assert.Equal(t, []reports.ReportID{1, 2, 3}, s.IDs())
}

func TestSelection_ToggleAllTwiceRestores(t *testing.T) {
	visible := []reports.ReportID{1, 2, 3}
	// From a partial selection the first call completes it, so the pairing
	// holds for the none and all states only.
	for _, start := range [][]reports.ReportID{nil, {1, 2, 3}, {7}, {1, 2, 3, 7}} {
		s := NewSelection(start...)
		before := s.Clone()
		s.ToggleAll(visible)
		s.ToggleAll(visible)
		assert.Equal(t, before, s, "start %v", start)
	}
}

func TestSelection_Reset(t *testing.T) {
	s := NewSelection(1, 2)
	s.Reset()
	assert.Empty(t, s)
}
