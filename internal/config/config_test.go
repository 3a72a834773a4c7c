package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"scanshelf/internal/config"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	work := t.TempDir()
	chdir(t, work)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantStaging := filepath.Join(tempHome, ".local", "share", "scanshelf", "staging")
	if cfg.Paths.StagingDir != wantStaging {
		t.Fatalf("unexpected staging dir: got %q want %q", cfg.Paths.StagingDir, wantStaging)
	}
	if filepath.Base(cfg.Paths.Catalog) != "scanshelf.sqlite3" || !filepath.IsAbs(cfg.Paths.Catalog) {
		t.Fatalf("unexpected catalog path: %q", cfg.Paths.Catalog)
	}
	if cfg.Site.Title != "Image Archive" {
		t.Fatalf("unexpected title: %q", cfg.Site.Title)
	}
	if cfg.Site.ThumbnailSize != 100 {
		t.Fatalf("unexpected thumbnail size: %d", cfg.Site.ThumbnailSize)
	}
	if cfg.Scan.Extension != ".jpg" {
		t.Fatalf("unexpected extension: %q", cfg.Scan.Extension)
	}
	if !cfg.UsesExternalThumbnailer() || !cfg.UsesExternalArchiver() {
		t.Fatal("expected external tools by default")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.StagingDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	chdir(t, t.TempDir())
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "scanshelf.toml")

	type payload struct {
		Paths struct {
			Catalog string `toml:"catalog"`
		} `toml:"paths"`
		Site struct {
			Title         string `toml:"title"`
			ThumbnailSize int    `toml:"thumbnail_size"`
		} `toml:"site"`
		Scan struct {
			Extension string `toml:"extension"`
		} `toml:"scan"`
		Tools struct {
			Thumbnailer string `toml:"thumbnailer"`
		} `toml:"tools"`
	}
	custom := payload{}
	custom.Paths.Catalog = filepath.Join(tempDir, "kochbuch.sqlite3")
	custom.Site.Title = "  Kochbuch  "
	custom.Site.ThumbnailSize = 160
	custom.Scan.Extension = "JPEG"
	custom.Tools.Thumbnailer = "Builtin"

	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected custom config to be used, got %q exists=%v", resolved, exists)
	}
	if cfg.Paths.Catalog != custom.Paths.Catalog {
		t.Fatalf("unexpected catalog: %q", cfg.Paths.Catalog)
	}
	if cfg.Site.Title != "Kochbuch" {
		t.Fatalf("expected trimmed title, got %q", cfg.Site.Title)
	}
	if cfg.Site.ThumbnailSize != 160 {
		t.Fatalf("unexpected thumbnail size: %d", cfg.Site.ThumbnailSize)
	}
	if cfg.Scan.Extension != ".jpeg" {
		t.Fatalf("expected normalized extension, got %q", cfg.Scan.Extension)
	}
	if cfg.UsesExternalThumbnailer() {
		t.Fatal("expected builtin thumbnailer")
	}
}

func TestLoadRejectsUnknownTool(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	chdir(t, t.TempDir())
	configPath := filepath.Join(t.TempDir(), "scanshelf.toml")
	if err := os.WriteFile(configPath, []byte("[tools]\narchiver = \"tar\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, _, _, err := config.Load(configPath)
	if err == nil || !strings.Contains(err.Error(), "tools.archiver") {
		t.Fatalf("expected archiver validation error, got %v", err)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	chdir(t, t.TempDir())
	configPath := filepath.Join(t.TempDir(), "scanshelf.toml")
	if err := os.WriteFile(configPath, []byte("[site]\ntitel = \"typo\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected parse error for unknown key")
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	chdir(t, t.TempDir())
	catalog := filepath.Join(t.TempDir(), "env.sqlite3")
	t.Setenv("SCANSHELF_CATALOG", catalog)
	t.Setenv("SCANSHELF_TITLE", "From Env")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.Catalog != catalog {
		t.Fatalf("expected catalog from env, got %q", cfg.Paths.Catalog)
	}
	if cfg.Site.Title != "From Env" {
		t.Fatalf("expected title from env, got %q", cfg.Site.Title)
	}
}

func TestDotEnvFileIsLoaded(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	work := t.TempDir()
	chdir(t, work)
	t.Setenv("SCANSHELF_LOG_LEVEL", "")
	if err := os.Unsetenv("SCANSHELF_LOG_LEVEL"); err != nil {
		t.Fatalf("unset env: %v", err)
	}
	if err := os.WriteFile(filepath.Join(work, ".env"), []byte("SCANSHELF_LOG_LEVEL=debug\n"), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Cleanup(func() { _ = os.Unsetenv("SCANSHELF_LOG_LEVEL") })

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected level from .env, got %q", cfg.Logging.Level)
	}
}

func TestCreateSampleIsLoadable(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	chdir(t, t.TempDir())
	target := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(target); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	cfg, _, exists, err := config.Load(target)
	if err != nil {
		t.Fatalf("sample config should load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample config to exist")
	}
	if cfg.Site.Title != "Image Archive" {
		t.Fatalf("unexpected sample title: %q", cfg.Site.Title)
	}
}
