package cmd

import (
	"context"
	"errors"

	"clitter/internal/keys"
	"clitter/internal/models"
	"clitter/internal/timeline"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(friendsCmd)
	rootCmd.AddCommand(userCmd)
}

var friendsCmd = &cobra.Command{
	Use:     "friends",
	Aliases: []string{"f"},
	Short:   "Fetch friends timeline",
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

		a.printer.Progress("Fetching friends timeline")
		return a.showTimeline(cmd.Context(), keys.GenFriendsTimelineKey(), client.FriendsTimeline, true)
	},
}

var userCmd = &cobra.Command{
	Use:     "user [screenname]",
	Aliases: []string{"u"},
	Short:   "Fetch user timeline (your own by default)",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		client, err := a.client()
		if err != nil {
			return err
		}

		screenName := ""
		if len(args) == 1 {
			screenName = args[0]
		}
		if screenName == "" {
			if screenName, err = a.cfg.Get("twitter.username"); err != nil {
				return err
			}
		}
		key, err := keys.GenUserTimelineKey(screenName)
		if err != nil {
			return err
		}

		a.printer.Progress("Fetching statuses for id %s", screenName)
		fetch := func(ctx context.Context, sinceID int64, hasSince bool) (models.Timeline, error) {
			return client.UserTimeline(ctx, screenName, sinceID, hasSince)
		}
		return a.showTimeline(cmd.Context(), key, fetch, false)
	},
}

// showTimeline refreshes the cached timeline for key and prints new and
// cached entries. withNames adds author names, for timelines that mix
// several authors.
func (a *app) showTimeline(ctx context.Context, key string, fetch timeline.FetchFunc, withNames bool) error {
	store, err := a.cache()
	if err != nil {
		return err
	}
	separate, err := a.cfg.Bool("ui.separate_cached_entries")
	if err != nil {
		return err
	}

	view, err := timeline.Refresh(ctx, store, key, fetch, noCache)
	if err != nil {
		if errors.Is(err, timeline.ErrNoData) {
			a.printer.Error("No data")
			return errReported
		}
		return a.report(err)
	}
	if view.FetchErr != nil {
		a.printer.Error("%v", view.FetchErr)
	}

	if separate {
		a.printer.Separator("new entries")
	}
	if len(view.New) > 0 {
		a.printer.Timeline(view.New, withNames)
	} else {
		a.printer.Error("No updates")
	}
	if !noCache {
		if separate {
			a.printer.Separator("cached entries")
		}
		a.printer.Timeline(view.Cached, withNames)
	}

	if view.FetchErr != nil {
		return errReported
	}
	return nil
}
