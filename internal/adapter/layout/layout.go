package layout

import (
	"path/filepath"
	"strings"

	"github.com/vertextoedge/download-janitor/internal/domain"
	"github.com/vertextoedge/download-janitor/internal/port"
)

// Config names the well-known storage roots for a deployment.
type Config struct {
	DataRoot        string
	CacheRoot       string
	ExternalRoot    string
	PrivateCacheDir string
	PrivateFilesDir string
	ActiveDirName   string

	// ExternalEmulated marks external storage as emulated on top of the
	// data partition.
	ExternalEmulated bool

	// RemovableMounts lists mount points of removable media. Paths under
	// one of these are classified by mount state rather than assumed
	// internal.
	RemovableMounts []string
}

// Layout implements port.StorageLayout from static configuration plus live
// mount inspection.
type Layout struct {
	cfg Config
	fs  port.FileSystem
}

// Ensure Layout implements port.StorageLayout
var _ port.StorageLayout = (*Layout)(nil)

// New creates a Layout. fs is used to compare partitions when classifying
// removable media.
func New(cfg Config, fs port.FileSystem) *Layout {
	if cfg.ActiveDirName == "" {
		cfg.ActiveDirName = "incoming"
	}
	return &Layout{cfg: cfg, fs: fs}
}

func (l *Layout) DataRoot() string        { return l.cfg.DataRoot }
func (l *Layout) CacheRoot() string       { return l.cfg.CacheRoot }
func (l *Layout) ExternalRoot() string    { return l.cfg.ExternalRoot }
func (l *Layout) PrivateCacheDir() string { return l.cfg.PrivateCacheDir }
func (l *Layout) PrivateFilesDir() string { return l.cfg.PrivateFilesDir }
func (l *Layout) ActiveDirName() string   { return l.cfg.ActiveDirName }

// ExternalEmulated reports whether external storage is emulated on top of
// the data partition.
func (l *Layout) ExternalEmulated() bool { return l.cfg.ExternalEmulated }

// MediaState classifies the medium backing path. A path under a configured
// removable mount is mounted when the mount root sits on a different
// partition than its parent directory, unmounted-present when the mount
// root exists but shares its parent's partition, and unknown when the
// mount root is gone. Any other path is mounted when its parent directory
// stats cleanly.
func (l *Layout) MediaState(path string) domain.MediaState {
	for _, mount := range l.cfg.RemovableMounts {
		if !underRoot(path, mount) {
			continue
		}
		mountDev := l.fs.PartitionOfPath(mount)
		if mountDev == domain.UnknownPartition {
			return domain.MediaUnknown
		}
		if mountDev != l.fs.PartitionOfPath(filepath.Dir(mount)) {
			return domain.MediaMounted
		}
		return domain.MediaUnmountedPresent
	}

	if l.fs.PartitionOfPath(filepath.Dir(path)) != domain.UnknownPartition {
		return domain.MediaMounted
	}
	return domain.MediaUnknown
}

// underRoot reports whether path is root or inside it.
func underRoot(path, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
