package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"clitter/internal/keys"
	"clitter/internal/models"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheListCmd)
	cacheCmd.AddCommand(cacheShowCmd)
	cacheCmd.AddCommand(cacheExportCmd)
	cacheCmd.AddCommand(cacheBackupCmd)
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect the local timeline cache",
	Long: `Inspect, export and back up the local timeline cache.

Example usage:
  clitter cache list
  clitter cache show friends_timeline
  clitter cache export timelines.json
  clitter cache backup /tmp/clitter-backup.db`,
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached timelines",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		store, err := a.cache()
		if err != nil {
			return err
		}
		records, err := store.Records()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(records) == 0 {
			fmt.Fprintf(out, "No cached timelines in %s\n", store.Path())
			return nil
		}
		total := 0
		for _, r := range records {
			kind := "unknown"
			if parts, err := keys.ParseTimelineKey(r.Key); err == nil {
				kind = parts.Kind.String()
			}
			fmt.Fprintf(out, "%-32s %-8s %6s entries  newest %-12d %s\n",
				r.Key, kind, humanize.Comma(int64(r.Entries)), r.NewestID, humanize.Bytes(uint64(r.Size)))
			total += r.Size
		}
		fmt.Fprintf(out, "\n%d timelines, %s\n", len(records), humanize.Bytes(uint64(total)))
		return nil
	},
}

var cacheShowCmd = &cobra.Command{
	Use:   "show <key>",
	Short: "Print a cached timeline without contacting the server",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		parts, err := keys.ParseTimelineKey(args[0])
		if err != nil {
			return err
		}
		a, err := newApp(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		store, err := a.cache()
		if err != nil {
			return err
		}
		cached, err := store.GetPrevious(args[0])
		if err != nil {
			return err
		}
		if len(cached) == 0 {
			a.printer.Error("No data")
			return errReported
		}
		a.printer.Timeline(cached, parts.Kind == keys.KindFriends)
		return nil
	},
}

var cacheExportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Write every cached timeline as JSON (use - for stdout)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		store, err := a.cache()
		if err != nil {
			return err
		}

		records := map[string]models.Timeline{}
		err = store.ForEach(func(key string, timeline models.Timeline, _ int) error {
			records[key] = timeline
			return nil
		})
		if err != nil {
			return err
		}

		var w io.Writer = cmd.OutOrStdout()
		if args[0] != "-" {
			f, err := os.OpenFile(args[0], os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
			if err != nil {
				return fmt.Errorf("failed to create export file: %w", err)
			}
			defer f.Close()
			w = f
		}

		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("failed to write export: %w", err)
		}
		if args[0] != "-" {
			a.printer.Data("Exported %d timelines to %s", len(records), args[0])
		}
		return nil
	},
}

var cacheBackupCmd = &cobra.Command{
	Use:   "backup <dir>",
	Short: "Copy the cache into a new store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		store, err := a.cache()
		if err != nil {
			return err
		}
		a.printer.Progress("Copying %s to %s", store.Path(), args[0])
		n, err := store.Backup(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		a.printer.Data("Copied %d timelines", n)
		return nil
	},
}
