// main.go bootstraps the sentinel CLI: it builds the root Cobra command and executes it with a signal-aware context.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/bryanwahyu/prompt-sentinel/internal/config"
	"github.com/bryanwahyu/prompt-sentinel/internal/domain/reports"
	"github.com/bryanwahyu/prompt-sentinel/internal/domain/sentinel"
	"github.com/bryanwahyu/prompt-sentinel/internal/logging"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	err := newRootCommand().ExecuteContext(ctx)
	handleError(err)
	if err != nil {
		os.Exit(1)
	}
}

// rootOptions are the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
	logLevel   string
	logFile    string
	serverURL  string

	cfg *config.Config
	log *zap.Logger
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "sentinel",
		Short:         "Keep secrets out of LLM prompts and review what was caught",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.log != nil {
				_ = opts.log.Sync()
			}
		},
	}
	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", config.Path(), "Path to the YAML config file")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	flags.StringVar(&opts.logFile, "log-file", "", "Write logs to this file instead of stderr")
	flags.StringVar(&opts.serverURL, "server", "", "Reports server base URL (overrides config and SERVER_URL)")

	cmd.AddCommand(newReportsCommand(opts), newScanCommand(opts), newAskCommand(opts))
	return cmd
}

func (o *rootOptions) load(cmd *cobra.Command) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	if o.serverURL != "" {
		cfg.Client.ServerURL = o.serverURL
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	var outputs []string
	if o.logFile != "" {
		outputs = append(outputs, o.logFile)
	}
	log, err := logging.New(cfg.Log.Level, outputs...)
	if err != nil {
		return err
	}
	o.cfg, o.log = cfg, log
	return nil
}

func handleError(err error) {
	if err == nil || errors.Is(err, pflag.ErrHelp) {
		return
	}
	message := err.Error()
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		message = fmt.Sprintf("%s\nHint: the server did not answer in time; check --server or raise client.timeout.", err)
	case errors.Is(err, reports.ErrFetch):
		message = fmt.Sprintf("%s\nHint: is the reports server running? Start it with `api` or set SERVER_URL.", err)
	case errors.Is(err, sentinel.ErrQuotaExceeded):
		message = fmt.Sprintf("%s\nHint: the model provider rejected the request for quota reasons; retry later.", err)
	}
	fmt.Fprintf(os.Stderr, "Error: %s\n", message)
}
