package cache

import (
	"context"
	"fmt"
	"os"

	"clitter/internal/logger"
	"clitter/internal/models"

	"github.com/cockroachdb/pebble"
)

// RecordInfo summarizes one stored timeline.
type RecordInfo struct {
	Key      string
	Entries  int
	NewestID int64
	Size     int
}

// ForEach calls fn for every stored timeline in key order. Iteration stops
// at the first error.
func (c *TimelineCache) ForEach(fn func(key string, timeline models.Timeline, size int) error) error {
	return c.withDB(func(db *pebble.DB) error {
		iter, err := db.NewIter(nil)
		if err != nil {
			return fmt.Errorf("failed to create iterator: %w", err)
		}
		defer iter.Close()

		for iter.First(); iter.Valid(); iter.Next() {
			key := string(iter.Key())
			value := iter.Value()
			timeline, err := decodeRecord(value)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			if err := fn(key, timeline, len(value)); err != nil {
				return err
			}
		}
		return iter.Error()
	})
}

// Records lists every stored timeline.
func (c *TimelineCache) Records() ([]RecordInfo, error) {
	var out []RecordInfo
	err := c.ForEach(func(key string, timeline models.Timeline, size int) error {
		info := RecordInfo{Key: key, Entries: len(timeline), Size: size}
		if id, ok := HighWaterMark(timeline); ok {
			info.NewestID = id
		}
		out = append(out, info)
		return nil
	})
	return out, err
}

// Backup copies every record into a new store at target using a snapshot of
// the current one. Target must not already hold a store.
func (c *TimelineCache) Backup(ctx context.Context, target string) (int, error) {
	if entries, err := os.ReadDir(target); err == nil && len(entries) > 0 {
		return 0, fmt.Errorf("backup target %s is not empty", target)
	}
	if err := os.MkdirAll(target, 0o700); err != nil {
		return 0, fmt.Errorf("failed to create backup directory: %w", err)
	}

	count := 0
	err := c.withDB(func(src *pebble.DB) error {
		dst, err := pebble.Open(target, c.opts())
		if err != nil {
			return fmt.Errorf("failed to open backup store: %w", err)
		}
		defer dst.Close()

		snapshot := src.NewSnapshot()
		defer snapshot.Close()

		iter, err := snapshot.NewIter(nil)
		if err != nil {
			return fmt.Errorf("failed to create iterator: %w", err)
		}
		defer iter.Close()

		batch := dst.NewBatch()
		defer batch.Close()

		for iter.First(); iter.Valid(); iter.Next() {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			if err := batch.Set(iter.Key(), iter.Value(), nil); err != nil {
				return fmt.Errorf("failed to copy key %s: %w", string(iter.Key()), err)
			}
			count++
		}
		if err := iter.Error(); err != nil {
			return err
		}
		if err := batch.Commit(pebble.Sync); err != nil {
			return fmt.Errorf("failed to commit backup: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	logger.Info("cache_backup_done", "target", target, "records", count)
	return count, nil
}
