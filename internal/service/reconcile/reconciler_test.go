package reconcile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/vertextoedge/download-janitor/internal/adapter/filesystem"
	"github.com/vertextoedge/download-janitor/internal/domain"
)

// mockDownloadRepository implements port.DownloadRepository for testing
type mockDownloadRepository struct {
	records []*domain.Download
	deleted []int64
	allErr  error
}

func (m *mockDownloadRepository) All() ([]*domain.Download, error) {
	return m.records, m.allErr
}

func (m *mockDownloadRepository) Create(rec *domain.Download) error { return nil }
func (m *mockDownloadRepository) MarkComplete(id int64) error       { return nil }

func (m *mockDownloadRepository) DeleteByID(id int64) error {
	m.deleted = append(m.deleted, id)
	return nil
}

// stubLayout implements port.StorageLayout over fixed directories with a
// canned media classification.
type stubLayout struct {
	privateCacheDir string
	privateFilesDir string
	cacheRoot       string
	states          map[string]domain.MediaState
}

func (s *stubLayout) DataRoot() string        { return "" }
func (s *stubLayout) CacheRoot() string       { return s.cacheRoot }
func (s *stubLayout) ExternalRoot() string    { return "" }
func (s *stubLayout) PrivateCacheDir() string { return s.privateCacheDir }
func (s *stubLayout) PrivateFilesDir() string { return s.privateFilesDir }
func (s *stubLayout) ActiveDirName() string   { return "incoming" }
func (s *stubLayout) ExternalEmulated() bool  { return false }
func (s *stubLayout) MediaState(path string) domain.MediaState {
	return s.states[path]
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Scenario: record A's file exists, record B's file is missing on mounted
// storage, record C's file is missing on present-but-unmounted media, and
// untracked file D sits on disk. After reconciliation only record B and
// file D are gone.
func TestReconciler_Reconcile(t *testing.T) {
	filesDir := t.TempDir()
	cacheDir := t.TempDir()
	privateCache := t.TempDir()

	fileA := filepath.Join(filesDir, "a.bin")
	writeFile(t, fileA)
	fileD := filepath.Join(cacheDir, "d.bin")
	writeFile(t, fileD)

	missingB := filepath.Join(cacheDir, "b.bin")
	missingC := "/media/usb/c.bin"

	repo := &mockDownloadRepository{
		records: []*domain.Download{
			{ID: 1, Path: fileA},
			{ID: 2, Path: missingB},
			{ID: 3, Path: missingC},
		},
	}
	layout := &stubLayout{
		privateCacheDir: privateCache,
		privateFilesDir: filesDir,
		cacheRoot:       cacheDir,
		states: map[string]domain.MediaState{
			missingB: domain.MediaMounted,
			missingC: domain.MediaUnmountedPresent,
		},
	}
	fs := filesystem.NewManager("incoming", zap.NewNop())
	r := New(repo, fs, layout, os.Getuid(), zap.NewNop())

	if err := r.Reconcile(context.Background()); err != nil {
		t.Fatalf("Reconcile() = %v", err)
	}

	if len(repo.deleted) != 1 || repo.deleted[0] != 2 {
		t.Errorf("deleted records = %v, want [2]", repo.deleted)
	}
	if !exists(fileA) {
		t.Error("tracked file A was deleted")
	}
	if exists(fileD) {
		t.Error("untracked file D still exists, want it deleted as an orphan")
	}
}

func TestReconciler_Reconcile_MissingOnUnknownMediaDeletesRecord(t *testing.T) {
	repo := &mockDownloadRepository{
		records: []*domain.Download{
			{ID: 7, Path: "/nowhere/gone.bin"},
		},
	}
	layout := &stubLayout{
		privateCacheDir: t.TempDir(),
		privateFilesDir: t.TempDir(),
		cacheRoot:       t.TempDir(),
		// No state entry: classification falls back to unknown.
	}
	fs := filesystem.NewManager("incoming", zap.NewNop())
	r := New(repo, fs, layout, os.Getuid(), zap.NewNop())

	if err := r.Reconcile(context.Background()); err != nil {
		t.Fatalf("Reconcile() = %v", err)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != 7 {
		t.Errorf("deleted records = %v, want [7]", repo.deleted)
	}
}

func TestReconciler_Reconcile_EmptyPathIgnored(t *testing.T) {
	repo := &mockDownloadRepository{
		records: []*domain.Download{
			{ID: 1, Path: ""},
		},
	}
	layout := &stubLayout{
		privateCacheDir: t.TempDir(),
		privateFilesDir: t.TempDir(),
		cacheRoot:       t.TempDir(),
	}
	fs := filesystem.NewManager("incoming", zap.NewNop())
	r := New(repo, fs, layout, os.Getuid(), zap.NewNop())

	if err := r.Reconcile(context.Background()); err != nil {
		t.Fatalf("Reconcile() = %v", err)
	}
	if len(repo.deleted) != 0 {
		t.Errorf("deleted records = %v, want none for empty paths", repo.deleted)
	}
}

// A record may point at the file through a different path than the walk
// finds it under; identity comparison must still match them up.
func TestReconciler_Reconcile_HardlinkedFileIsNotAnOrphan(t *testing.T) {
	cacheDir := t.TempDir()
	outside := t.TempDir()

	diskFile := filepath.Join(cacheDir, "payload.bin")
	writeFile(t, diskFile)
	recordPath := filepath.Join(outside, "tracked.bin")
	if err := os.Link(diskFile, recordPath); err != nil {
		t.Fatal(err)
	}

	repo := &mockDownloadRepository{
		records: []*domain.Download{
			{ID: 1, Path: recordPath},
		},
	}
	layout := &stubLayout{
		privateCacheDir: t.TempDir(),
		privateFilesDir: t.TempDir(),
		cacheRoot:       cacheDir,
	}
	fs := filesystem.NewManager("incoming", zap.NewNop())
	r := New(repo, fs, layout, os.Getuid(), zap.NewNop())

	if err := r.Reconcile(context.Background()); err != nil {
		t.Fatalf("Reconcile() = %v", err)
	}
	if !exists(diskFile) {
		t.Error("hardlinked disk file was deleted, want identity match to protect it")
	}
	if len(repo.deleted) != 0 {
		t.Errorf("deleted records = %v, want none", repo.deleted)
	}
}
