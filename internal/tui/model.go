// Package tui renders the reports dashboard in the terminal.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bryanwahyu/prompt-sentinel/internal/application/dashboard"
	"github.com/bryanwahyu/prompt-sentinel/internal/domain/reports"
	"github.com/bryanwahyu/prompt-sentinel/internal/domain/reportview"
)

var columnWidths = map[reportview.Column]int{
	reportview.ColumnID:              6,
	reportview.ColumnPrompt:          32,
	reportview.ColumnSecrets:         24,
	reportview.ColumnSanitizedOutput: 32,
	reportview.ColumnTimestamp:       24,
}

const selectWidth = 5

// fetchedMsg carries a fetch outcome back to the event loop.
type fetchedMsg struct {
	token   uint64
	records []reports.Report
	err     error
}

// Model is the bubbletea model of the reports dashboard.
type Model struct {
	dash    *dashboard.Dashboard
	timeout time.Duration

	table   table.Model
	filter  textinput.Model
	spinner spinner.Model

	col        int  // index into reportview.Columns
	editing    bool // filter input has focus
	prevFilter string
	width      int
	quitting   bool
}

// New builds a model over dash. timeout bounds each fetch.
func New(dash *dashboard.Dashboard, timeout time.Duration) Model {
	t := table.New(
		table.WithFocused(true),
		table.WithHeight(15),
	)
	s := table.DefaultStyles()
	s.Header = lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("15")).
		Bold(true).
		Padding(0, 1)
	s.Selected = lipgloss.NewStyle().
		Foreground(lipgloss.Color("232")).
		Background(lipgloss.Color("208")).
		Bold(true)
	t.SetStyles(s)

	ti := textinput.New()
	ti.CharLimit = 200
	ti.Width = 40
	ti.PromptStyle = filterStyle

	sp := spinner.New()
	sp.Spinner = spinner.Line

	m := Model{
		dash:    dash,
		timeout: timeout,
		table:   t,
		filter:  ti,
		spinner: sp,
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetch())
}

// fetch starts a new fetch generation and runs it off the event loop.
func (m Model) fetch() tea.Cmd {
	token := m.dash.BeginFetch()
	fetcher := m.dash.Fetcher()
	timeout := m.timeout
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		records, err := fetcher.Fetch(ctx)
		return fetchedMsg{token: token, records: records, err: err}
	}
}

// Column returns the column the filter and sort keys act on.
func (m Model) Column() reportview.Column { return reportview.Columns[m.col] }

// Editing reports whether the filter input has focus.
func (m Model) Editing() bool { return m.editing }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.table.SetHeight(max(msg.Height-7, 3))
		return m, nil

	case fetchedMsg:
		if m.dash.CompleteFetch(msg.token, msg.records, msg.err) {
			m.refresh()
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.editing {
			return m.updateFilter(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.editing = false
		m.filter.Blur()
		return m, nil
	case "esc":
		m.editing = false
		m.filter.Blur()
		m.dash.SetFilter(m.Column(), m.prevFilter)
		m.refresh()
		return m, nil
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	// live filtering as the user types
	m.dash.SetFilter(m.Column(), m.filter.Value())
	m.refresh()
	return m, cmd
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "/":
		m.editing = true
		m.prevFilter = m.dash.FilterText(m.Column())
		m.filter.Prompt = m.Column().Title() + " ~ "
		m.filter.SetValue(m.prevFilter)
		m.filter.CursorEnd()
		return m, m.filter.Focus()
	case "tab":
		m.col = (m.col + 1) % len(reportview.Columns)
		m.refresh()
		return m, nil
	case "shift+tab":
		m.col = (m.col + len(reportview.Columns) - 1) % len(reportview.Columns)
		m.refresh()
		return m, nil
	case "s":
		m.dash.ToggleSort(m.Column())
		m.refresh()
		return m, nil
	case " ", "space":
		if id, ok := m.cursorID(); ok {
			m.dash.ToggleRow(id)
			m.refresh()
		}
		return m, nil
	case "a":
		m.dash.ToggleAll()
		m.refresh()
		return m, nil
	case "esc":
		m.dash.ClearFilters()
		m.refresh()
		return m, nil
	case "r":
		cmd := m.fetch()
		return m, tea.Batch(cmd, m.spinner.Tick)
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// cursorID is the report under the table cursor.
func (m Model) cursorID() (reports.ReportID, bool) {
	rows := m.dash.Rows()
	i := m.table.Cursor()
	if i < 0 || i >= len(rows) {
		return 0, false
	}
	return rows[i].ID, true
}

// refresh rebuilds headers and rows from the dashboard.
func (m *Model) refresh() {
	m.table.SetColumns(m.columns())
	rows := m.dash.Rows()
	out := make([]table.Row, len(rows))
	for i, r := range rows {
		row := make(table.Row, 0, len(reportview.Columns)+1)
		row = append(row, checkbox(r.Selected))
		for _, c := range reportview.Columns {
			row = append(row, cell(reportview.Value(r.Report, c)))
		}
		out[i] = row
	}
	m.table.SetRows(out)
	// table clamps the cursor to -1 while empty; pull it back once rows exist.
	if c := m.table.Cursor(); len(out) > 0 && (c < 0 || c >= len(out)) {
		m.table.SetCursor(min(max(c, 0), len(out)-1))
	}
}

func (m Model) columns() []table.Column {
	cols := make([]table.Column, 0, len(reportview.Columns)+1)
	cols = append(cols, table.Column{Title: header(m.dash.Tri()), Width: selectWidth})
	sort := m.dash.Sort()
	for i, c := range reportview.Columns {
		title := c.Title()
		if sort != nil && sort.Column == c {
			if sort.Direction == reportview.Asc {
				title += " ▲"
			} else {
				title += " ▼"
			}
		}
		if m.dash.FilterText(c) != "" {
			title += " *"
		}
		if i == m.col {
			title = "›" + title
		}
		cols = append(cols, table.Column{Title: title, Width: columnWidths[c]})
	}
	return cols
}

func header(t reportview.TriState) string {
	switch t {
	case reportview.SelectedAll:
		return "[x]"
	case reportview.SelectedSome:
		return "[-]"
	default:
		return "[ ]"
	}
}

func checkbox(selected bool) string {
	if selected {
		return "[x]"
	}
	return "[ ]"
}

// cell flattens a value onto one line for the table.
func cell(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("prompt-sentinel reports"))
	b.WriteString("\n")
	b.WriteString(m.filterLine())
	b.WriteString("\n")

	if msg := m.dash.EmptyMessage(); msg != "" {
		if m.dash.Status() == dashboard.StatusLoading {
			msg = m.spinner.View() + " " + msg
		}
		b.WriteString(emptyStyle.Render(msg))
	} else {
		b.WriteString(m.table.View())
	}
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("/ filter  tab column  s sort  space select  a all  r refresh  esc clear  q quit"))
	return b.String()
}

func (m Model) filterLine() string {
	if m.editing {
		return m.filter.View()
	}
	var parts []string
	for _, c := range reportview.Columns {
		if t := m.dash.FilterText(c); t != "" {
			parts = append(parts, fmt.Sprintf("%s ~ %q", c.Title(), t))
		}
	}
	if len(parts) == 0 {
		return helpStyle.Render("no filters")
	}
	return filterStyle.Render(strings.Join(parts, "  "))
}

func (m Model) statusLine() string {
	parts := []string{
		fmt.Sprintf("%d of %d rows", m.dash.Len(), m.dash.Total()),
		fmt.Sprintf("%d selected", len(m.dash.Selected())),
	}
	if s := m.dash.Sort(); s != nil {
		parts = append(parts, fmt.Sprintf("sort %s %s", s.Column, s.Direction))
	}
	if m.dash.Pending() && m.dash.Status() != dashboard.StatusLoading {
		parts = append(parts, m.spinner.View()+" refreshing")
	}
	line := statusStyle.Render(" " + strings.Join(parts, " | ") + " ")
	if err := m.dash.Err(); err != nil {
		line += " " + errorStyle.Render("Failed to fetch reports: "+err.Error())
	}
	return line
}
