package tui

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/prompt-sentinel/internal/application/dashboard"
	"github.com/bryanwahyu/prompt-sentinel/internal/domain/reports"
	"github.com/bryanwahyu/prompt-sentinel/internal/domain/reports/mocks"
	"github.com/bryanwahyu/prompt-sentinel/internal/domain/reportview"
)

func sample() []reports.Report {
	return []reports.Report{
		{ID: 2, Prompt: "beta prompt", Secrets: "s2", Timestamp: "2024-05-02T00:00:00Z"},
		{ID: 1, Prompt: "alpha\nprompt", Secrets: "s1", Timestamp: "2024-05-01T00:00:00Z"},
		{ID: 3, Prompt: "gamma", Secrets: "", Timestamp: "2024-05-03T00:00:00Z"},
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

// loaded returns a model whose first fetch returned records (or err).
func loaded(t *testing.T, records []reports.Report, err error) (Model, *mocks.Fetcher) {
	t.Helper()
	f := &mocks.Fetcher{}
	f.On("Fetch", mock.Anything).Return(records, err)
	m := New(dashboard.New(f, nil, nil), time.Second)
	msg := m.fetch()()
	return update(t, m, msg), f
}

func visibleIDs(m Model) []reports.ReportID {
	return m.dash.VisibleIDs()
}

func TestModel_Loading(t *testing.T) {
	m := New(dashboard.New(&mocks.Fetcher{}, nil, nil), time.Second)
	assert.Contains(t, m.View(), dashboard.MsgLoading)
}

func TestModel_FetchPopulatesTable(t *testing.T) {
	m, f := loaded(t, sample(), nil)
	f.AssertExpectations(t)

	assert.Equal(t, dashboard.StatusReady, m.dash.Status())
	assert.Equal(t, []reports.ReportID{2, 1, 3}, visibleIDs(m))
	require.Len(t, m.table.Rows(), 3)
	assert.Equal(t, "[ ]", m.table.Rows()[0][0])
	// multi-line values are flattened
	assert.Equal(t, "alpha prompt", m.table.Rows()[1][2])
	assert.Contains(t, m.View(), "3 of 3 rows")
}

func TestModel_FetchFailure(t *testing.T) {
	m, _ := loaded(t, nil, errors.New("connection refused"))
	view := m.View()
	assert.Contains(t, view, dashboard.MsgNoData)
	assert.Contains(t, view, "connection refused")
}

func TestModel_StaleFetchIgnored(t *testing.T) {
	m, _ := loaded(t, sample(), nil)
	old := m.dash.BeginFetch()
	current := m.dash.BeginFetch()

	m = update(t, m, fetchedMsg{token: current, records: sample()[:1]})
	m = update(t, m, fetchedMsg{token: old, records: sample()})
	assert.Equal(t, []reports.ReportID{2}, visibleIDs(m))
}

func TestModel_ColumnNavigation(t *testing.T) {
	m, _ := loaded(t, sample(), nil)
	assert.Equal(t, reportview.ColumnID, m.Column())

	m = update(t, m, key("tab"), key("tab"))
	assert.Equal(t, reportview.ColumnSecrets, m.Column())

	m = update(t, m, key("shift+tab"), key("shift+tab"), key("shift+tab"))
	assert.Equal(t, reportview.ColumnTimestamp, m.Column())
}

func TestModel_SortCycle(t *testing.T) {
	m, _ := loaded(t, sample(), nil)

	m = update(t, m, key("s"))
	assert.Equal(t, []reports.ReportID{1, 2, 3}, visibleIDs(m))
	assert.Contains(t, m.table.Columns()[1].Title, "▲")

	m = update(t, m, key("s"))
	assert.Equal(t, []reports.ReportID{3, 2, 1}, visibleIDs(m))
	assert.Contains(t, m.table.Columns()[1].Title, "▼")

	m = update(t, m, key("s"))
	assert.Nil(t, m.dash.Sort())
	assert.Equal(t, []reports.ReportID{2, 1, 3}, visibleIDs(m))
}

func TestModel_FilterEditing(t *testing.T) {
	m, _ := loaded(t, sample(), nil)
	m = update(t, m, key("tab"), key("/"))
	require.True(t, m.Editing())

	m = update(t, m, key("a"), key("l"))
	assert.Equal(t, "al", m.dash.FilterText(reportview.ColumnPrompt))
	assert.Equal(t, []reports.ReportID{1}, visibleIDs(m))

	// esc restores the filter held before editing began
	m = update(t, m, key("esc"))
	assert.False(t, m.Editing())
	assert.Equal(t, "", m.dash.FilterText(reportview.ColumnPrompt))
	assert.Len(t, visibleIDs(m), 3)

	m = update(t, m, key("/"), key("z"), key("enter"))
	assert.False(t, m.Editing())
	assert.Equal(t, "z", m.dash.FilterText(reportview.ColumnPrompt))
	assert.Contains(t, m.View(), dashboard.MsgNoMatch)

	// esc outside editing clears every filter
	m = update(t, m, key("esc"))
	assert.False(t, m.dash.State().Filters.Active())
}

func TestModel_Selection(t *testing.T) {
	m, _ := loaded(t, sample(), nil)
	require.Equal(t, 0, m.table.Cursor())
	assert.Equal(t, "[ ]", m.table.Columns()[0].Title)

	m = update(t, m, key("space"))
	assert.True(t, m.dash.IsSelected(2))
	assert.Equal(t, "[x]", m.table.Rows()[0][0])
	assert.Equal(t, "[-]", m.table.Columns()[0].Title)

	m = update(t, m, key("a"))
	assert.True(t, m.dash.AllSelected())
	assert.Equal(t, "[x]", m.table.Columns()[0].Title)

	m = update(t, m, key("a"))
	assert.Empty(t, m.dash.Selected())
}

func TestModel_CursorRecoversAfterEmptyFilter(t *testing.T) {
	m, _ := loaded(t, sample(), nil)
	assert.Equal(t, 0, m.table.Cursor())

	m = update(t, m, key("tab"), key("/"), key("z"), key("enter"))
	require.Empty(t, visibleIDs(m))

	m = update(t, m, key("esc"))
	require.Len(t, visibleIDs(m), 3)
	assert.Equal(t, 0, m.table.Cursor())

	m = update(t, m, key("space"))
	assert.True(t, m.dash.IsSelected(visibleIDs(m)[0]))
	assert.Equal(t, "[x]", m.table.Rows()[0][0])
}

func TestModel_RefetchResetsSelectionKeepsFilters(t *testing.T) {
	m, f := loaded(t, sample(), nil)
	m = update(t, m, key("tab"), key("/"), key("p"), key("enter"), key("a"))
	require.Len(t, m.dash.Selected(), 2)

	next, cmd := m.Update(key("r"))
	m = next.(Model)
	require.NotNil(t, cmd)
	assert.True(t, m.dash.Pending())

	m = update(t, m, m.fetch()())
	assert.Empty(t, m.dash.Selected())
	assert.Equal(t, "p", m.dash.FilterText(reportview.ColumnPrompt))
	f.AssertNumberOfCalls(t, "Fetch", 2)
}

func TestModel_Quit(t *testing.T) {
	m, _ := loaded(t, sample(), nil)
	next, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.Empty(t, next.View())
}
