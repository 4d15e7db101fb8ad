package port

import (
	"io"
	"os"
	"time"

	"github.com/vertextoedge/download-janitor/internal/domain"
)

// PartitionSpace describes free space on a partition.
type PartitionSpace struct {
	FreeBytes uint64
	BlockSize int64
}

// FileSystem defines the filesystem primitives the policy layer combines.
// No exclusive access to the filesystem is assumed: every operation taking
// a path must tolerate the entry vanishing between calls.
type FileSystem interface {
	// SpaceOn returns free space on the partition backing the open file.
	SpaceOn(f *os.File) (*PartitionSpace, error)

	// PartitionOf returns the partition backing the open file.
	PartitionOf(f *os.File) (domain.PartitionID, error)

	// PartitionOfPath returns the partition backing path, or
	// UnknownPartition if it cannot be determined. Never fails.
	PartitionOfPath(path string) domain.PartitionID

	// IdentityOf computes the identity of the file at path without
	// following symlinks.
	IdentityOf(path string) (domain.FileIdentity, error)

	// ListFilesRecursive returns all regular files under root. Any
	// directory whose base name equals excludeName is pruned entirely.
	// If ownerUID >= 0 only files owned by that uid are returned.
	// Entries that vanish mid-walk are silently skipped.
	ListFilesRecursive(root, excludeName string, ownerUID int) []domain.FileEntry

	// DeleteFile removes path. A missing file is not an error.
	DeleteFile(path string) error

	// WriteFile streams r to path through a temp file inside the active
	// directory, renaming into place on success. Returns bytes written.
	WriteFile(path string, r io.Reader) (int64, error)

	// CleanOldTempFiles removes partial temp files under root that are
	// older than the given age. Returns the number deleted.
	CleanOldTempFiles(root string, olderThan time.Duration) (int, error)
}

// StorageLayout resolves the well-known storage roots and classifies
// storage media. Supplied by the host environment.
type StorageLayout interface {
	DataRoot() string
	CacheRoot() string
	ExternalRoot() string
	PrivateCacheDir() string
	PrivateFilesDir() string

	// ActiveDirName is the base name of the subtree reserved for
	// in-progress transfers; eviction never descends into it.
	ActiveDirName() string

	// ExternalEmulated reports whether external storage is emulated on
	// top of the data partition.
	ExternalEmulated() bool

	// MediaState classifies the medium backing path.
	MediaState(path string) domain.MediaState
}

// Reclaimer frees space outside this process, asynchronously. The returned
// channel is closed exactly once when the attempt finishes, whether or not
// any space was actually reclaimed.
type Reclaimer interface {
	Reclaim(targetBytes int64) <-chan struct{}
}
