package reportview

// State is the user-owned view state. It is never persisted.
type State struct {
	Filters   Filters
	Sort      *SortState
	Selection Selection
}

// NewState returns an empty view state: nothing filtered, sorted or selected.
func NewState() State {
	return State{
		Filters:   Filters{},
		Selection: NewSelection(),
	}
}
