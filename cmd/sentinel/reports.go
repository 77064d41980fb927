package main

import (
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bryanwahyu/prompt-sentinel/internal/application"
	"github.com/bryanwahyu/prompt-sentinel/internal/application/dashboard"
	"github.com/bryanwahyu/prompt-sentinel/internal/domain/reportview"
	"github.com/bryanwahyu/prompt-sentinel/internal/infra/reportclient"
	"github.com/bryanwahyu/prompt-sentinel/internal/tui"
)

type reportsOptions struct {
	plain   bool
	filters []string
	sort    string
}

func newReportsCommand(root *rootOptions) *cobra.Command {
	opts := &reportsOptions{}
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Browse reports collected by the server",
		Long: "reports opens an interactive table of every report the server holds. " +
			"With --plain it prints the filtered, sorted table once and exits.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := root.log
			if !opts.plain && root.logFile == "" {
				// stderr would draw over the alternate screen
				log = zap.NewNop()
			}
			client := reportclient.New(root.cfg.Client.ServerURL, root.cfg.Client.Timeout)
			dash := dashboard.New(client, application.SystemClock{}, log)
			if err := opts.apply(dash.View); err != nil {
				return err
			}
			if opts.plain {
				// a failed fetch still prints the empty table; the error is the exit status
				fetchErr := dash.Refresh(cmd.Context())
				printReports(cmd.OutOrStdout(), dash)
				return fetchErr
			}
			_, err := tea.NewProgram(tui.New(dash, root.cfg.Client.Timeout), tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
	cmd.Flags().BoolVar(&opts.plain, "plain", false, "Print the table once instead of opening the interactive view")
	cmd.Flags().StringArrayVar(&opts.filters, "filter", nil, "Column filter COLUMN=TEXT (repeatable, case-sensitive substring)")
	cmd.Flags().StringVar(&opts.sort, "sort", "", "Sort by COLUMN or COLUMN:desc")
	return cmd
}

// apply seeds the view with the --filter and --sort flags.
func (o *reportsOptions) apply(v *reportview.View) error {
	for _, f := range o.filters {
		name, text, ok := strings.Cut(f, "=")
		if !ok {
			return fmt.Errorf("invalid --filter %q, want COLUMN=TEXT", f)
		}
		c, ok := reportview.ParseColumn(name)
		if !ok {
			return fmt.Errorf("unknown column %q", name)
		}
		v.SetFilter(c, text)
	}
	if o.sort == "" {
		return nil
	}
	name, dir, _ := strings.Cut(o.sort, ":")
	c, ok := reportview.ParseColumn(name)
	if !ok {
		return fmt.Errorf("unknown column %q", name)
	}
	s := &reportview.SortState{Column: c, Direction: reportview.Asc}
	switch strings.ToLower(dir) {
	case "", "asc":
	case "desc":
		s.Direction = reportview.Desc
	default:
		return fmt.Errorf("invalid sort direction %q, want asc or desc", dir)
	}
	v.SetSort(s)
	return nil
}

func printReports(w io.Writer, dash *dashboard.Dashboard) {
	if msg := dash.EmptyMessage(); msg != "" {
		fmt.Fprintln(w, msg)
		return
	}
	headers := make([]string, 0, len(reportview.Columns))
	for _, c := range reportview.Columns {
		headers = append(headers, c.Title())
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...)
	for _, r := range dash.Rows() {
		row := make([]string, 0, len(reportview.Columns))
		for _, c := range reportview.Columns {
			row = append(row, strings.Join(strings.Fields(reportview.Value(r.Report, c)), " "))
		}
		t.Row(row...)
	}
	fmt.Fprintln(w, t.Render())
	fmt.Fprintf(w, "%d of %d rows\n", dash.Len(), dash.Total())
}
