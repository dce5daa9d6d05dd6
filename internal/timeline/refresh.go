package timeline

import (
	"context"
	"errors"
	"fmt"

	"clitter/internal/cache"
	"clitter/internal/logger"
	"clitter/internal/models"
)

// ErrNoData is returned when neither the cache nor the server has anything
// for the requested timeline. Nothing is committed in that case.
var ErrNoData = errors.New("no data")

// FetchFunc retrieves entries newer than sinceID. hasSince is false when
// nothing has been cached yet.
type FetchFunc func(ctx context.Context, sinceID int64, hasSince bool) (models.Timeline, error)

// Store is the part of the timeline cache the refresh flow needs.
type Store interface {
	GetPrevious(key string) (models.Timeline, error)
	Commit(key string, merged models.Timeline) error
}

// View is what a refresh produced for display.
type View struct {
	Key    string
	New    models.Timeline
	Cached models.Timeline
	// FetchErr is the transport failure, if any. The view then holds only
	// cached entries.
	FetchErr error
}

// Refresh fetches entries newer than the cached high-water mark, merges
// them into the cached timeline for key, commits the result and splits it
// for display.
//
// A transport failure is treated as an empty fetch so cached entries are
// still shown. A reply of the wrong shape aborts without touching the
// cache and is returned as is.
func Refresh(ctx context.Context, store Store, key string, fetch FetchFunc, noCache bool) (View, error) {
	view := View{Key: key}

	previous, err := store.GetPrevious(key)
	if err != nil {
		return view, err
	}

	since, hasSince := cache.HighWaterMark(previous)
	logger.Debug("timeline_refresh_start", "key", key, "cached", len(previous), "since_id", since, "has_since", hasSince)

	fetched, err := fetch(ctx, since, hasSince)
	if err != nil {
		if errors.Is(err, models.ErrUnexpectedShape) {
			return view, err
		}
		if ctx.Err() != nil {
			return view, ctx.Err()
		}
		logger.Warn("timeline_fetch_failed", "key", key, "error", err)
		view.FetchErr = err
		fetched = nil
	}

	merged := cache.Merge(previous, fetched)
	if len(merged) == 0 {
		if view.FetchErr != nil {
			return view, fmt.Errorf("%w: %v", ErrNoData, view.FetchErr)
		}
		return view, ErrNoData
	}

	// merged only ever grows previous; equal length means nothing changed.
	fresh := len(merged) - len(previous)
	if fresh > 0 {
		if err := store.Commit(key, merged); err != nil {
			return view, err
		}
	}

	view.New, view.Cached = cache.RenderView(merged, noCache, fresh)
	logger.Debug("timeline_refresh_done", "key", key, "new", len(view.New), "total", len(merged))
	return view, nil
}
