//go:build !windows
// +build !windows

package filesystem

import (
	"fmt"
	"os"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/vertextoedge/download-janitor/internal/domain"
	"github.com/vertextoedge/download-janitor/internal/port"
)

// SpaceOn returns free space on the partition backing f.
func (m *Manager) SpaceOn(f *os.File) (*port.PartitionSpace, error) {
	var stat unix.Statfs_t
	if err := unix.Fstatfs(int(f.Fd()), &stat); err != nil {
		return nil, fmt.Errorf("failed to stat partition: %w", err)
	}

	return &port.PartitionSpace{
		FreeBytes: stat.Bavail * uint64(stat.Bsize),
		BlockSize: int64(stat.Bsize),
	}, nil
}

// PartitionOf returns the partition backing f.
func (m *Manager) PartitionOf(f *os.File) (domain.PartitionID, error) {
	var stat unix.Stat_t
	if err := unix.Fstat(int(f.Fd()), &stat); err != nil {
		return domain.UnknownPartition, fmt.Errorf("failed to stat file: %w", err)
	}
	return domain.PartitionID(stat.Dev), nil
}

// PartitionOfPath returns the partition backing path, or UnknownPartition
// if path cannot be stat'd.
func (m *Manager) PartitionOfPath(path string) domain.PartitionID {
	var stat unix.Stat_t
	if err := unix.Stat(path, &stat); err != nil {
		return domain.UnknownPartition
	}
	return domain.PartitionID(stat.Dev)
}

// IdentityOf computes the identity of the file at path without following
// symlinks.
func (m *Manager) IdentityOf(path string) (domain.FileIdentity, error) {
	var stat unix.Stat_t
	if err := unix.Lstat(path, &stat); err != nil {
		return domain.FileIdentity{}, err
	}
	return domain.FileIdentity{
		Partition: domain.PartitionID(stat.Dev),
		Inode:     stat.Ino,
	}, nil
}

// entryIdentity extracts identity and owning uid from a stat result.
func entryIdentity(info os.FileInfo) (domain.FileIdentity, int, bool) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return domain.FileIdentity{}, 0, false
	}
	identity := domain.FileIdentity{
		Partition: domain.PartitionID(st.Dev),
		Inode:     st.Ino,
	}
	return identity, int(st.Uid), true
}
