package filesystem

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/vertextoedge/download-janitor/internal/domain"
	"github.com/vertextoedge/download-janitor/internal/port"
)

// tempSuffix marks in-flight writes; CleanOldTempFiles only touches files
// carrying it.
const tempSuffix = ".partial"

// Manager implements port.FileSystem on the local filesystem.
type Manager struct {
	activeDirName string
	logger        *zap.Logger
}

// Ensure Manager implements port.FileSystem
var _ port.FileSystem = (*Manager)(nil)

// NewManager creates a new filesystem Manager. activeDirName is the base
// name of the per-directory subtree used for in-flight writes.
func NewManager(activeDirName string, logger *zap.Logger) *Manager {
	if activeDirName == "" {
		activeDirName = "incoming"
	}
	return &Manager{
		activeDirName: activeDirName,
		logger:        logger,
	}
}

// ListFilesRecursive walks root breadth-first and returns every regular
// file found. Directories named excludeName are not descended into. If
// ownerUID >= 0 only files owned by that uid are returned. Entries whose
// identity cannot be computed (vanished mid-walk, foreign filesystems) are
// skipped.
func (m *Manager) ListFilesRecursive(root, excludeName string, ownerUID int) []domain.FileEntry {
	var files []domain.FileEntry

	dirs := []string{root}
	for len(dirs) > 0 {
		dir := dirs[0]
		dirs = dirs[1:]

		if excludeName != "" && filepath.Base(dir) == excludeName {
			continue
		}

		children, err := os.ReadDir(dir)
		if err != nil {
			continue
		}

		for _, child := range children {
			p := filepath.Join(dir, child.Name())
			if child.IsDir() {
				dirs = append(dirs, p)
				continue
			}
			if !child.Type().IsRegular() {
				continue
			}

			info, err := os.Lstat(p)
			if err != nil {
				// Vanished mid-walk
				continue
			}
			identity, owner, ok := entryIdentity(info)
			if !ok {
				continue
			}
			if ownerUID >= 0 && owner != ownerUID {
				continue
			}

			files = append(files, domain.FileEntry{
				Path:     p,
				Identity: identity,
				ModTime:  info.ModTime(),
				Size:     info.Size(),
				OwnerUID: owner,
			})
		}
	}

	return files
}

// DeleteFile removes path, treating a missing file as success.
func (m *Manager) DeleteFile(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// WriteFile streams r to path through a temp file in the active directory
// next to the destination, then renames into place. The temp file is
// removed on failure.
func (m *Manager) WriteFile(path string, r io.Reader) (int64, error) {
	activeDir := filepath.Join(filepath.Dir(path), m.activeDirName)
	if err := os.MkdirAll(activeDir, 0o755); err != nil {
		return 0, fmt.Errorf("failed to create active dir: %w", err)
	}

	tempPath := filepath.Join(activeDir, filepath.Base(path)+tempSuffix)
	f, err := os.Create(tempPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create temp file: %w", err)
	}

	written, err := io.Copy(f, r)
	if err != nil {
		f.Close()
		os.Remove(tempPath)
		return 0, fmt.Errorf("failed to write file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tempPath)
		return 0, fmt.Errorf("failed to sync file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tempPath)
		return 0, fmt.Errorf("failed to close file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return 0, fmt.Errorf("failed to rename temp file: %w", err)
	}
	return written, nil
}

// CleanOldTempFiles removes partial temp files under root older than
// olderThan. Individual delete failures are logged and skipped.
func (m *Manager) CleanOldTempFiles(root string, olderThan time.Duration) (int, error) {
	cutoff := time.Now().Add(-olderThan)
	deleted := 0

	for _, entry := range m.ListFilesRecursive(root, "", -1) {
		if !strings.HasSuffix(entry.Path, tempSuffix) {
			continue
		}
		if entry.ModTime.After(cutoff) {
			continue
		}
		if err := m.DeleteFile(entry.Path); err != nil {
			m.logger.Warn("failed to delete stale temp file",
				zap.String("path", entry.Path),
				zap.Error(err))
			continue
		}
		deleted++
	}

	return deleted, nil
}
