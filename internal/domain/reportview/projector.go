package reportview

import "github.com/bryanwahyu/prompt-sentinel/internal/domain/reports"

// Row is a projected report annotated with its selection flag.
type Row struct {
	reports.Report
	Selected bool `json:"selected"`
}

// Project filters, then sorts the filtered subset, then annotates each row
// from sel. Annotation never changes membership or order.
func Project(records []reports.Report, filters Filters, sort *SortState, sel Selection) []Row {
	return annotate(Sort(Filter(records, filters), sort), sel)
}

func annotate(ordered []reports.Report, sel Selection) []Row {
	rows := make([]Row, len(ordered))
	for i, r := range ordered {
		rows[i] = Row{Report: r, Selected: sel.Has(r.ID)}
	}
	return rows
}

// View holds one record snapshot and its State. Changes to records, filters
// or sort recompute the ordered rows; selection changes only re-annotate.
type View struct {
	records []reports.Report
	state   State
	ordered []reports.Report
}

func NewView(records []reports.Report) *View {
	v := &View{state: NewState()}
	v.SetRecords(records)
	return v
}

// SetRecords replaces the snapshot wholesale and resets the selection.
func (v *View) SetRecords(records []reports.Report) {
	v.records = records
	v.state.Selection.Reset()
	v.recompute()
}

func (v *View) recompute() {
	v.ordered = Sort(Filter(v.records, v.state.Filters), v.state.Sort)
}

// Records returns the current snapshot in fetch order.
func (v *View) Records() []reports.Report { return v.records }

// State returns a copy of the current view state.
func (v *View) State() State {
	return State{
		Filters:   v.state.Filters.Clone(),
		Sort:      v.state.Sort,
		Selection: v.state.Selection.Clone(),
	}
}

// FilterText returns the filter of c, or "" when none.
func (v *View) FilterText(c Column) string { return v.state.Filters[c] }

func (v *View) SetFilter(c Column, text string) {
	if v.state.Filters[c] == text {
		return
	}
	v.state.Filters = v.state.Filters.With(c, text)
	v.recompute()
}

// ClearFilters drops every column filter.
func (v *View) ClearFilters() {
	if !v.state.Filters.Active() {
		return
	}
	v.state.Filters = Filters{}
	v.recompute()
}

// Sort returns the active directive, nil when rows keep fetch order.
func (v *View) Sort() *SortState {
	if v.state.Sort == nil {
		return nil
	}
	s := *v.state.Sort
	return &s
}

// SetSort replaces the active directive; nil clears it.
func (v *View) SetSort(s *SortState) {
	if s != nil {
		cp := *s
		s = &cp
	}
	v.state.Sort = s
	v.recompute()
}

// ToggleSort cycles the sort of c: asc, desc, cleared.
func (v *View) ToggleSort(c Column) {
	v.state.Sort = v.state.Sort.next(c)
	v.recompute()
}

// Rows is the projected, annotated row sequence.
func (v *View) Rows() []Row { return annotate(v.ordered, v.state.Selection) }

// VisibleIDs are the ids of the post-filter rows in display order.
func (v *View) VisibleIDs() []reports.ReportID {
	ids := make([]reports.ReportID, len(v.ordered))
	for i, r := range v.ordered {
		ids[i] = r.ID
	}
	return ids
}

// Len is the number of visible rows; Total the snapshot size.
func (v *View) Len() int   { return len(v.ordered) }
func (v *View) Total() int { return len(v.records) }

func (v *View) ToggleRow(id reports.ReportID) { v.state.Selection.Toggle(id) }
func (v *View) ToggleAll()                    { v.state.Selection.ToggleAll(v.VisibleIDs()) }
func (v *View) IsSelected(id reports.ReportID) bool {
	return v.state.Selection.Has(id)
}
func (v *View) AllSelected() bool   { return v.state.Selection.AllSelected(v.VisibleIDs()) }
func (v *View) Indeterminate() bool { return v.state.Selection.Indeterminate(v.VisibleIDs()) }
func (v *View) Tri() TriState       { return v.state.Selection.Tri(v.VisibleIDs()) }

// Selected returns the selected reports of the snapshot in fetch order,
// including rows currently hidden by a filter.
func (v *View) Selected() []reports.Report {
	var out []reports.Report
	for _, r := range v.records {
		if v.state.Selection.Has(r.ID) {
			out = append(out, r)
		}
	}
	return out
}
