package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var assumeYes bool

func init() {
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(destroyCmd)

	destroyCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "don't ask for confirmation")
}

var updateCmd = &cobra.Command{
	Use:     "update <status>",
	Aliases: []string{"add"},
	Short:   "Update your status",
	Long: `Post a new status. All arguments are joined with spaces.

Example usage:
  clitter update "reading the pebble source"
  clitter add off to lunch`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.TrimSpace(strings.Join(args, " "))
		if text == "" {
			return fmt.Errorf("status text is empty")
		}

		a, err := newApp(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		client, err := a.client()
		if err != nil {
			return err
		}

		a.printer.Progress("Updating status ...")
		status, err := client.Update(cmd.Context(), text)
		if err != nil {
			return a.report(err)
		}
		a.printer.Data("Updated your status, id is %d", status.ID)
		return nil
	},
}

var destroyCmd = &cobra.Command{
	Use:     "destroy <id>",
	Aliases: []string{"delete"},
	Short:   "Destroy status specified by id",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || id <= 0 {
			return fmt.Errorf("invalid status id %q", args[0])
		}

		a, err := newApp(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		if !assumeYes && !a.term.Confirm(fmt.Sprintf("Destroy status %d?", id)) {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
			return nil
		}
		client, err := a.client()
		if err != nil {
			return err
		}

		a.printer.Progress("Deleting status...")
		status, err := client.Destroy(cmd.Context(), id)
		if err != nil {
			return a.report(err)
		}
		a.printer.Data("Destroyed status %d", status.ID)
		return nil
	},
}
