package domain

import "time"

// PartitionID names the filesystem backing a path or open file. Two paths
// live on the same partition iff their PartitionIDs are equal. The value is
// stable for the lifetime of a mount, not across remounts.
type PartitionID uint64

// UnknownPartition is reported when the backing partition cannot be
// determined. dev_t is unsigned, so the all-ones pattern never collides
// with a real device id.
const UnknownPartition PartitionID = ^PartitionID(0)

// FileIdentity identifies a physical file by partition and inode. Two
// entries with equal identity are the same file regardless of path, which
// is far cheaper to establish than canonicalizing paths. The identity is
// a snapshot; it must be recomputed if the file is recreated.
type FileIdentity struct {
	Partition PartitionID
	Inode     uint64
}

// FileEntry is a point-in-time snapshot of a regular file found by a walk.
// It is not kept in sync with the filesystem after creation.
type FileEntry struct {
	Path     string
	Identity FileIdentity
	ModTime  time.Time
	Size     int64
	OwnerUID int
}

// MediaState classifies the storage medium backing a path.
type MediaState int

const (
	// MediaUnknown means the medium cannot be identified; treated like
	// internal storage for reconciliation purposes.
	MediaUnknown MediaState = iota

	// MediaMounted means the medium is currently mounted.
	MediaMounted

	// MediaUnmountedPresent means the medium exists but is not mounted;
	// files on it may reappear when it is remounted.
	MediaUnmountedPresent
)

func (s MediaState) String() string {
	switch s {
	case MediaMounted:
		return "mounted"
	case MediaUnmountedPresent:
		return "unmounted-present"
	default:
		return "unknown"
	}
}
