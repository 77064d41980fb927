package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/bryanwahyu/prompt-sentinel/internal/application/guard"
	"github.com/bryanwahyu/prompt-sentinel/internal/domain/sentinel"
)

func newScanCommand(root *rootOptions) *cobra.Command {
	g := &guardOptions{}
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "scan [TEXT]",
		Short: "Detect secrets in TEXT (or stdin) and print the sanitized version",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := inputText(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			svc, err := root.buildGuard(g, nil)
			if err != nil {
				return err
			}
			res, err := svc.Scan(cmd.Context(), text)
			if err != nil {
				return err
			}
			// reporting is best effort
			_ = svc.Report(cmd.Context(), res)

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			printScan(cmd.OutOrStdout(), res)
			return nil
		},
	}
	g.bind(cmd.Flags())
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the scan result as JSON")
	return cmd
}

func inputText(stdin io.Reader, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	b, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return strings.TrimRight(string(b), "\n"), nil
}

func printScan(w io.Writer, res guard.ScanResult) {
	highlight := color.New(color.BgYellow, color.FgBlack).SprintFunc()
	warn := color.New(color.FgRed, color.Bold).SprintFunc()
	ok := color.New(color.FgGreen).SprintFunc()

	if len(res.Secrets) == 0 {
		fmt.Fprintln(w, ok("no secrets found"))
		fmt.Fprintln(w, res.Sanitized)
		return
	}
	fmt.Fprintln(w, warn(fmt.Sprintf("%d secret(s) found", len(res.Secrets))))
	for _, f := range res.Findings {
		name := f.Name
		if name == "" {
			name = "secret"
		}
		fmt.Fprintf(w, "  %-16s %d-%d  %s\n", name, f.Start, f.End, mask(f.Secret))
	}
	fmt.Fprintln(w, sentinel.TokenPattern.ReplaceAllStringFunc(res.Sanitized, func(tok string) string {
		return highlight(tok)
	}))
}

// mask keeps the first and last two characters of a secret.
func mask(s string) string {
	if len(s) <= 6 {
		return strings.Repeat("*", len(s))
	}
	return s[:2] + strings.Repeat("*", len(s)-4) + s[len(s)-2:]
}

