package cmd

import (
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(rateLimitCmd)
}

var rateLimitCmd = &cobra.Command{
	Use:     "ratelimit",
	Aliases: []string{"r"},
	Short:   "Retrieve rate time limit",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		client, err := a.client()
		if err != nil {
			return err
		}

		a.printer.Progress("Retrieving rate limit status...")
		status, err := client.RateLimitStatus(cmd.Context())
		if err != nil {
			return a.report(err)
		}
		a.printer.Data("Hits: %d/%d", status.RemainingHits, status.HourlyLimit)
		if reset := status.ResetTime(); !reset.IsZero() {
			a.printer.Data("Resets %s", humanize.Time(reset))
		}
		return nil
	},
}
