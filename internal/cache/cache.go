package cache

import (
	"errors"
	"fmt"

	"clitter/internal/keys"
	"clitter/internal/logger"
	"clitter/internal/models"

	"github.com/cockroachdb/pebble"
)

var (
	// ErrStoreUnavailable wraps any failure to open the on-disk store.
	ErrStoreUnavailable = errors.New("timeline store unavailable")
	// ErrCorruptRecord is returned when a stored value cannot be decoded.
	ErrCorruptRecord = errors.New("corrupt timeline record")
)

// TimelineCache keeps, per timeline key, the most complete known view of a
// timeline in a Pebble store. The store is opened for the duration of one
// operation and closed before returning; nothing is held between calls.
// Concurrent processes writing the same store are not supported.
type TimelineCache struct {
	path string
	opts func() *pebble.Options
}

// New returns a cache over the store at path. The store is created on
// first use.
func New(path string) *TimelineCache {
	return &TimelineCache{path: path, opts: defaultOptions}
}

func defaultOptions() *pebble.Options {
	return &pebble.Options{Logger: pebbleLogger{}}
}

// Path returns the store location.
func (c *TimelineCache) Path() string {
	return c.path
}

func (c *TimelineCache) open() (*pebble.DB, error) {
	db, err := pebble.Open(c.path, c.opts())
	if err != nil {
		logger.Error("pebble_open_failed", "path", c.path, "error", err)
		return nil, fmt.Errorf("%w: %s: %v", ErrStoreUnavailable, c.path, err)
	}
	return db, nil
}

// withDB runs fn against a freshly opened store and closes it afterwards.
func (c *TimelineCache) withDB(fn func(db *pebble.DB) error) (err error) {
	db, err := c.open()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close timeline store: %w", cerr)
		}
	}()
	return fn(db)
}

// GetPrevious returns the stored timeline for key. A missing key yields an
// empty timeline and no error.
func (c *TimelineCache) GetPrevious(key string) (models.Timeline, error) {
	var timeline models.Timeline
	err := c.withDB(func(db *pebble.DB) error {
		v, closer, err := db.Get([]byte(key))
		if err != nil {
			if errors.Is(err, pebble.ErrNotFound) {
				logger.Debug("get_timeline_missing", "key", key)
				return nil
			}
			logger.Error("get_timeline_failed", "key", key, "error", err)
			return fmt.Errorf("failed to read %s: %w", key, err)
		}
		defer closer.Close()

		timeline, err = decodeRecord(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		logger.Debug("get_timeline_ok", "key", key, "entries", len(timeline))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return timeline, nil
}

// Commit persists merged as the value for key, replacing any previous
// record in a single synced write.
func (c *TimelineCache) Commit(key string, merged models.Timeline) error {
	if err := keys.ValidateTimelineKey(key); err != nil {
		return err
	}
	value, err := encodeRecord(merged)
	if err != nil {
		return err
	}
	return c.withDB(func(db *pebble.DB) error {
		if err := db.Set([]byte(key), value, pebble.Sync); err != nil {
			logger.Error("commit_timeline_failed", "key", key, "error", err)
			return fmt.Errorf("failed to write %s: %w", key, err)
		}
		logger.Debug("commit_timeline_ok", "key", key, "entries", len(merged), "len", len(value))
		return nil
	})
}

// HighWaterMark returns the id of the newest entry of previous. It is the
// cursor to pass to the server as "only entries newer than this".
func HighWaterMark(previous models.Timeline) (int64, bool) {
	newest, ok := previous.Newest()
	if !ok {
		return 0, false
	}
	return newest.ID, true
}

// Merge combines a freshly fetched batch with the cached timeline. Both are
// newest-first and fetched entries are newer, so the result is fetched
// followed by previous.
//
// An empty fetch means "caught up" and returns previous unchanged. When the
// newest fetched entry is the newest cached one, the server ignored the
// cursor and the batch is dropped. Otherwise fetched entries whose id is
// already present are skipped so no id appears twice.
func Merge(previous, fetched models.Timeline) models.Timeline {
	if len(fetched) == 0 {
		return append(models.Timeline(nil), previous...)
	}
	if newest, ok := previous.Newest(); ok && fetched[0].ID == newest.ID {
		logger.Debug("merge_stale_batch", "newest_id", newest.ID, "fetched", len(fetched))
		return append(models.Timeline(nil), previous...)
	}

	seen := make(map[int64]struct{}, len(previous)+len(fetched))
	for _, s := range previous {
		seen[s.ID] = struct{}{}
	}
	merged := make(models.Timeline, 0, len(fetched)+len(previous))
	for _, s := range fetched {
		if _, dup := seen[s.ID]; dup {
			continue
		}
		seen[s.ID] = struct{}{}
		merged = append(merged, s)
	}
	return append(merged, previous...)
}

// RenderView splits a committed timeline into the freshly fetched head and
// the previously cached tail. The tail is empty when noCache is set.
func RenderView(full models.Timeline, noCache bool, fetchedCount int) (newSlice, cachedSlice models.Timeline) {
	n := min(max(fetchedCount, 0), len(full))
	newSlice = full[:n:n]
	if noCache {
		return newSlice, nil
	}
	return newSlice, full[n:]
}
