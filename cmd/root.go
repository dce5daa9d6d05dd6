package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"clitter/internal/logger"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "unknown"
)

// errReported marks a failure that has already been shown to the user; the
// process still exits non-zero but nothing more is printed.
var errReported = errors.New("reported")

// global flags
var (
	verbose    bool
	noCache    bool
	quiet      bool
	showIDs    bool
	dumpHTTP   bool
	configFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "clitter",
	Short: "Command-line client for the statuses API",
	Long: `clitter posts and deletes statuses, shows your own, another user's or
your friends' timeline, and reports API rate-limit usage.

Fetched timelines are cached locally; each fetch only asks the server for
statuses newer than the newest cached one.`,
	Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := ""
		if verbose || dumpHTTP {
			level = "debug"
		}
		logger.Init(level)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		cancel()
		os.Exit(1)
	}
}

func init() {
	// Disable completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "be verbose")
	rootCmd.PersistentFlags().BoolVarP(&noCache, "no-cache", "n", false, "don't print cached statuses")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "be quiet about progress")
	rootCmd.PersistentFlags().BoolVar(&showIDs, "show-ids", false, "print ids in timeline")
	rootCmd.PersistentFlags().BoolVar(&dumpHTTP, "dump-http", false, "log HTTP requests and responses")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path (default is $HOME/.clitter.yaml)")
}
