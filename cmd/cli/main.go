package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dinhcongdat866/moneytracker/internal/infrastructure/config"
)

// options are the persistent flags shared by every command.
type options struct {
	baseURL   string
	timeout   time.Duration
	tokenFile string
	jsonOut   bool
	logLevel  string
	stats     bool
}

func main() {
	cfg, err := config.LoadClient()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCmd(cfg, os.Stdout)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(cfg *config.ClientConfig, out io.Writer) *cobra.Command {
	opts := &options{}
	var rt *runtime

	rootCmd := &cobra.Command{
		Use:           "moneytracker",
		Short:         "MoneyTracker CLI",
		Long:          `A command line client for the MoneyTracker API with a local query cache.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			rt, err = newRuntime(*cfg, opts, out)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if rt != nil && opts.stats {
				rt.printStats()
			}
		},
	}
	rootCmd.SetOut(out)

	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "url", cfg.APIBaseURL, "Base URL of the MoneyTracker API")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", cfg.APITimeout, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&opts.tokenFile, "token-file", defaultTokenFile(), "File holding the session token")
	rootCmd.PersistentFlags().BoolVar(&opts.jsonOut, "json", false, "Print JSON instead of tables")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level written to stderr")
	rootCmd.PersistentFlags().BoolVar(&opts.stats, "stats", false, "Print cache statistics after the command")

	get := func() *runtime { return rt }
	rootCmd.AddCommand(
		newTxCmd(get),
		newReportCmd(get),
		newDashboardCmd(get),
		newKanbanCmd(get),
		newWatchCmd(get),
		newLoginCmd(get),
		newLogoutCmd(get),
	)

	return rootCmd
}
