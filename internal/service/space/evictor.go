package space

import (
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/vertextoedge/download-janitor/internal/port"
)

// DefaultMinDeleteAge protects recently touched files from eviction even
// when they are otherwise eligible.
const DefaultMinDeleteAge = 24 * time.Hour

// Evictor frees space on the cache partition by deleting the oldest
// eligible files first. The active-transfers subtree is never scanned and
// only files owned by ownerUID are considered.
type Evictor struct {
	fs       port.FileSystem
	layout   port.StorageLayout
	minAge   time.Duration
	ownerUID int
	logger   *zap.Logger
}

// NewEvictor creates a new Evictor
func NewEvictor(fs port.FileSystem, layout port.StorageLayout, minAge time.Duration, ownerUID int, logger *zap.Logger) *Evictor {
	if minAge <= 0 {
		minAge = DefaultMinDeleteAge
	}

	return &Evictor{
		fs:       fs,
		layout:   layout,
		minAge:   minAge,
		ownerUID: ownerUID,
		logger:   logger,
	}
}

// FreeBytes deletes the oldest eligible files under the cache root until
// targetBytes have been reclaimed or candidates run out. Best effort: a
// file that fails to delete is skipped and the pass itself never fails.
func (e *Evictor) FreeBytes(targetBytes int64) {
	files := e.fs.ListFilesRecursive(e.layout.CacheRoot(), e.layout.ActiveDirName(), e.ownerUID)

	e.logger.Debug("scanned cache for eviction candidates",
		zap.Int("count", len(files)),
		zap.String("target", humanize.IBytes(uint64(targetBytes))))

	// Oldest first; stable so walker order breaks ties.
	sort.SliceStable(files, func(i, j int) bool {
		return files[i].ModTime.Before(files[j].ModTime)
	})

	now := time.Now()
	remaining := targetBytes
	evictedCount := 0
	evictedBytes := int64(0)

	for _, file := range files {
		if remaining <= 0 {
			break
		}

		if now.Sub(file.ModTime) < e.minAge {
			e.logger.Debug("skipping recently modified file", zap.String("path", file.Path))
			continue
		}

		if err := e.fs.DeleteFile(file.Path); err != nil {
			e.logger.Warn("failed to delete cached file",
				zap.String("path", file.Path),
				zap.Error(err))
			continue
		}

		remaining -= file.Size
		evictedCount++
		evictedBytes += file.Size
		e.logger.Debug("deleted file to reclaim space",
			zap.String("path", file.Path),
			zap.Int64("size", file.Size))
	}

	e.logger.Info("eviction pass finished",
		zap.Int("evicted_count", evictedCount),
		zap.String("evicted_bytes", humanize.IBytes(uint64(evictedBytes))))
}
