package layout

import (
	"io"
	"os"
	"testing"
	"time"

	"github.com/vertextoedge/download-janitor/internal/domain"
	"github.com/vertextoedge/download-janitor/internal/port"
)

// mockFileSystem implements port.FileSystem with a canned partition table
type mockFileSystem struct {
	partitions map[string]domain.PartitionID
}

func (m *mockFileSystem) PartitionOfPath(path string) domain.PartitionID {
	if dev, ok := m.partitions[path]; ok {
		return dev
	}
	return domain.UnknownPartition
}

// Stub implementations for other FileSystem methods
func (m *mockFileSystem) SpaceOn(f *os.File) (*port.PartitionSpace, error) { return nil, nil }
func (m *mockFileSystem) PartitionOf(f *os.File) (domain.PartitionID, error) {
	return domain.UnknownPartition, nil
}
func (m *mockFileSystem) IdentityOf(path string) (domain.FileIdentity, error) {
	return domain.FileIdentity{}, nil
}
func (m *mockFileSystem) ListFilesRecursive(root, excludeName string, ownerUID int) []domain.FileEntry {
	return nil
}
func (m *mockFileSystem) DeleteFile(path string) error                  { return nil }
func (m *mockFileSystem) WriteFile(path string, r io.Reader) (int64, error) { return 0, nil }
func (m *mockFileSystem) CleanOldTempFiles(root string, olderThan time.Duration) (int, error) {
	return 0, nil
}

func TestLayout_MediaState(t *testing.T) {
	tests := []struct {
		name       string
		partitions map[string]domain.PartitionID
		path       string
		want       domain.MediaState
	}{
		{
			name: "removable mount on its own partition is mounted",
			partitions: map[string]domain.PartitionID{
				"/media/usb": 7,
				"/media":     1,
			},
			path: "/media/usb/file.bin",
			want: domain.MediaMounted,
		},
		{
			name: "removable mount sharing the parent partition is unmounted-present",
			partitions: map[string]domain.PartitionID{
				"/media/usb": 1,
				"/media":     1,
			},
			path: "/media/usb/file.bin",
			want: domain.MediaUnmountedPresent,
		},
		{
			name: "missing removable mount is unknown",
			partitions: map[string]domain.PartitionID{
				"/media": 1,
			},
			path: "/media/usb/file.bin",
			want: domain.MediaUnknown,
		},
		{
			name: "internal path with a live parent is mounted",
			partitions: map[string]domain.PartitionID{
				"/data/files": 1,
			},
			path: "/data/files/file.bin",
			want: domain.MediaMounted,
		},
		{
			name:       "internal path with no live parent is unknown",
			partitions: map[string]domain.PartitionID{},
			path:       "/data/files/file.bin",
			want:       domain.MediaUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(Config{
				DataRoot:        "/data",
				CacheRoot:       "/cache",
				RemovableMounts: []string{"/media/usb"},
			}, &mockFileSystem{partitions: tt.partitions})

			if got := l.MediaState(tt.path); got != tt.want {
				t.Errorf("MediaState(%s) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestLayout_Roots(t *testing.T) {
	l := New(Config{
		DataRoot:         "/data",
		CacheRoot:        "/cache",
		ExternalRoot:     "/external",
		PrivateCacheDir:  "/data/app/cache",
		PrivateFilesDir:  "/data/app/files",
		ExternalEmulated: true,
	}, &mockFileSystem{})

	if l.DataRoot() != "/data" || l.CacheRoot() != "/cache" || l.ExternalRoot() != "/external" {
		t.Error("roots not passed through")
	}
	if !l.ExternalEmulated() {
		t.Error("ExternalEmulated() = false, want true")
	}
	if l.ActiveDirName() != "incoming" {
		t.Errorf("default ActiveDirName() = %s, want incoming", l.ActiveDirName())
	}
}

func TestUnderRoot(t *testing.T) {
	tests := []struct {
		path string
		root string
		want bool
	}{
		{"/media/usb/file.bin", "/media/usb", true},
		{"/media/usb", "/media/usb", true},
		{"/media/usbstick/file.bin", "/media/usb", false},
		{"/media", "/media/usb", false},
		{"/other", "/media/usb", false},
	}

	for _, tt := range tests {
		if got := underRoot(tt.path, tt.root); got != tt.want {
			t.Errorf("underRoot(%s, %s) = %v, want %v", tt.path, tt.root, got, tt.want)
		}
	}
}
