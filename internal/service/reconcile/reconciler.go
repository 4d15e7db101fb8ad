package reconcile

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/vertextoedge/download-janitor/internal/domain"
	"github.com/vertextoedge/download-janitor/internal/port"
)

// Reconciler prunes download records with no backing file and disk files
// with no backing record. Membership is decided by file identity, not by
// path comparison, so renames and aliased mounts do not create false
// orphans.
type Reconciler struct {
	repo     port.DownloadRepository
	fs       port.FileSystem
	layout   port.StorageLayout
	ownerUID int
	logger   *zap.Logger
}

// New creates a new Reconciler
func New(repo port.DownloadRepository, fs port.FileSystem, layout port.StorageLayout, ownerUID int, logger *zap.Logger) *Reconciler {
	return &Reconciler{
		repo:     repo,
		fs:       fs,
		layout:   layout,
		ownerUID: ownerUID,
		logger:   logger,
	}
}

// Reconcile runs one pass over the records and one pass over the disk.
//
// Record pass: a record whose file is missing is deleted unless its path
// sits on media that is present but unmounted; those records are kept so
// the files survive the media coming back.
//
// Disk pass: only the private cache dir, private files dir, and the shared
// cache root are scanned; a file elsewhere on storage is never discovered
// as an orphan even though records anywhere are pruned. That asymmetry is
// the intended scope.
//
// Per-file stat and delete failures are tolerated; only a failed record
// query aborts the pass.
func (r *Reconciler) Reconcile(ctx context.Context) error {
	records, err := r.repo.All()
	if err != nil {
		return fmt.Errorf("failed to query download records: %w", err)
	}

	tracked := make(map[domain.FileIdentity]struct{}, len(records))
	for _, rec := range records {
		if rec.Path == "" {
			continue
		}

		identity, err := r.fs.IdentityOf(rec.Path)
		if err == nil {
			tracked[identity] = struct{}{}
			continue
		}

		// File is gone. Drop the record unless the medium is present but
		// unmounted, in which case the file may return on remount.
		switch state := r.layout.MediaState(rec.Path); state {
		case domain.MediaUnmountedPresent:
			r.logger.Debug("missing file on unmounted media, keeping record",
				zap.Int64("id", rec.ID),
				zap.String("path", rec.Path))
		default:
			r.logger.Debug("missing file, deleting record",
				zap.Int64("id", rec.ID),
				zap.String("path", rec.Path),
				zap.Stringer("media", state))
			if err := r.repo.DeleteByID(rec.ID); err != nil {
				r.logger.Warn("failed to delete record",
					zap.Int64("id", rec.ID),
					zap.Error(err))
			}
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	var disk []domain.FileEntry
	disk = append(disk, r.fs.ListFilesRecursive(r.layout.PrivateCacheDir(), "", r.ownerUID)...)
	disk = append(disk, r.fs.ListFilesRecursive(r.layout.PrivateFilesDir(), "", r.ownerUID)...)
	disk = append(disk, r.fs.ListFilesRecursive(r.layout.CacheRoot(), "", r.ownerUID)...)

	orphans := 0
	for _, file := range disk {
		if _, ok := tracked[file.Identity]; ok {
			continue
		}

		r.logger.Debug("missing record, deleting file", zap.String("path", file.Path))
		if err := r.fs.DeleteFile(file.Path); err != nil {
			r.logger.Warn("failed to delete orphan file",
				zap.String("path", file.Path),
				zap.Error(err))
			continue
		}
		orphans++
	}

	r.logger.Info("reconciliation finished",
		zap.Int("records", len(records)),
		zap.Int("tracked_files", len(tracked)),
		zap.Int("disk_files", len(disk)),
		zap.Int("orphans_deleted", orphans))
	return nil
}
