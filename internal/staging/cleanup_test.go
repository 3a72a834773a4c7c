package staging

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"scanshelf/internal/logging"
)

func TestNewRunCreatesUniqueDirectories(t *testing.T) {
	base := t.TempDir()
	first, err := NewRun(base)
	if err != nil {
		t.Fatalf("NewRun failed: %v", err)
	}
	second, err := NewRun(base)
	if err != nil {
		t.Fatalf("NewRun failed: %v", err)
	}
	if first.Dir == second.Dir {
		t.Fatalf("expected distinct run dirs, got %s twice", first.Dir)
	}
	if !strings.HasPrefix(filepath.Base(first.Dir), "run-") {
		t.Fatalf("unexpected run dir name %s", first.Dir)
	}
	if err := first.Remove(); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, err := os.Stat(first.Dir); !os.IsNotExist(err) {
		t.Fatal("expected run dir to be removed")
	}
}

func TestNewRunRequiresStagingDir(t *testing.T) {
	if _, err := NewRun("  "); err == nil {
		t.Fatal("expected error for empty staging dir")
	}
}

func TestCleanStaleInvalidPaths(t *testing.T) {
	for _, dir := range []string{"", "   ", "/nonexistent/path/12345"} {
		result := CleanStale(context.Background(), dir, time.Hour, logging.NewNop())
		if len(result.Removed) != 0 || len(result.Errors) != 0 {
			t.Errorf("expected empty result for path %q", dir)
		}
	}
}

func TestCleanStaleRemovesOldRunDirectories(t *testing.T) {
	tmpDir := t.TempDir()

	oldDir := filepath.Join(tmpDir, "run-old")
	if err := os.Mkdir(oldDir, 0o755); err != nil {
		t.Fatalf("create old dir: %v", err)
	}
	oldTime := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(oldDir, oldTime, oldTime); err != nil {
		t.Fatalf("set old time: %v", err)
	}

	recentDir := filepath.Join(tmpDir, "run-recent")
	if err := os.Mkdir(recentDir, 0o755); err != nil {
		t.Fatalf("create recent dir: %v", err)
	}

	foreignDir := filepath.Join(tmpDir, "keep-me")
	if err := os.Mkdir(foreignDir, 0o755); err != nil {
		t.Fatalf("create foreign dir: %v", err)
	}
	if err := os.Chtimes(foreignDir, oldTime, oldTime); err != nil {
		t.Fatalf("set old time: %v", err)
	}

	result := CleanStale(context.Background(), tmpDir, time.Hour, logging.NewNop())

	if len(result.Removed) != 1 {
		t.Fatalf("expected 1 removed, got %d", len(result.Removed))
	}
	if result.Removed[0] != oldDir {
		t.Errorf("expected %s to be removed, got %s", oldDir, result.Removed[0])
	}
	if _, err := os.Stat(recentDir); err != nil {
		t.Error("recent directory should still exist")
	}
	if _, err := os.Stat(foreignDir); err != nil {
		t.Error("directories not created by NewRun should be left alone")
	}
}

func TestListDirectoriesReportsSize(t *testing.T) {
	tmpDir := t.TempDir()
	runDir := filepath.Join(tmpDir, "run-a")
	if err := os.MkdirAll(filepath.Join(runDir, "Alpha"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(runDir, "Alpha", "index.html"), make([]byte, 100), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "stray.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	dirs, err := ListDirectories(tmpDir)
	if err != nil {
		t.Fatalf("ListDirectories failed: %v", err)
	}
	if len(dirs) != 1 {
		t.Fatalf("expected 1 dir, got %d", len(dirs))
	}
	if dirs[0].Name != "run-a" || dirs[0].Size != 100 {
		t.Fatalf("unexpected dir info %#v", dirs[0])
	}
}
