package store

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/vertextoedge/download-janitor/internal/domain"
	"github.com/vertextoedge/download-janitor/internal/port"
	"github.com/vertextoedge/download-janitor/internal/service/space"
)

// Store performs guarded writes into the download store: every write first
// passes the space guarantee for its declared size, then lands through a
// temp file, then gets a download record.
type Store struct {
	guard  *space.Guard
	fs     port.FileSystem
	repo   port.DownloadRepository
	logger *zap.Logger
}

// New creates a new Store
func New(guard *space.Guard, fs port.FileSystem, repo port.DownloadRepository, logger *zap.Logger) *Store {
	return &Store{
		guard:  guard,
		fs:     fs,
		repo:   repo,
		logger: logger,
	}
}

// Put streams r into destPath after guaranteeing sizeHint bytes of free
// space on the destination partition, and records the download once the
// write lands. sizeHint should be the expected payload size; the reserved
// margin is added by the guard.
func (s *Store) Put(ctx context.Context, destPath string, sizeHint int64, r io.Reader) (*domain.Download, error) {
	destDir := filepath.Dir(destPath)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create destination dir: %w", err)
	}

	// Probe the destination partition through its directory; the file
	// itself does not exist yet.
	dir, err := os.Open(destDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open destination dir: %w", err)
	}
	err = s.guard.Ensure(ctx, dir, sizeHint)
	dir.Close()
	if err != nil {
		return nil, err
	}

	written, err := s.fs.WriteFile(destPath, r)
	if err != nil {
		return nil, err
	}

	rec := &domain.Download{
		Path:   destPath,
		Size:   written,
		UID:    os.Getuid(),
		Status: domain.StatusComplete,
	}
	if err := s.repo.Create(rec); err != nil {
		return nil, fmt.Errorf("failed to record download: %w", err)
	}

	s.logger.Info("stored file",
		zap.String("path", destPath),
		zap.String("size", humanize.IBytes(uint64(written))))
	return rec, nil
}
