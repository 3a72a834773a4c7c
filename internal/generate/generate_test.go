package generate_test

import (
	"archive/zip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"scanshelf/internal/catalog"
	"scanshelf/internal/config"
	"scanshelf/internal/generate"
	"scanshelf/internal/logging"
	"scanshelf/internal/reindex"
	"scanshelf/internal/services"
	"scanshelf/internal/staging"
	"scanshelf/internal/testsupport"
	"scanshelf/internal/thumbnail"
)

func seedTree(t *testing.T, cfg *config.Config) *catalog.Store {
	t.Helper()
	base := cfg.Paths.SourceDir
	testsupport.WriteJPEG(t, filepath.Join(base, "Alpha", "AA001-01.jpg"), 40, 60, 1)
	testsupport.WriteJPEG(t, filepath.Join(base, "Alpha", "Soups", "AA001-02.jpg"), 40, 60, 2)
	testsupport.WriteJPEG(t, filepath.Join(base, "Beta", "BB001-01.jpg"), 40, 60, 3)
	testsupport.WriteJPEG(t, filepath.Join(base, "Beta", "BB001-02.jpg"), 40, 60, 4)

	store := testsupport.MustOpenCatalog(t, cfg)
	if _, err := reindex.Run(context.Background(), store, reindex.Options{
		Source:    base,
		Extension: cfg.Scan.Extension,
		Logger:    logging.NewNop(),
	}); err != nil {
		t.Fatalf("reindex: %v", err)
	}
	return store
}

func archiveEntries(t *testing.T, path string) map[string]bool {
	t.Helper()
	zr, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	defer zr.Close()
	names := map[string]bool{}
	for _, f := range zr.File {
		names[f.Name] = true
	}
	return names
}

func TestRunPublishesArchive(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := seedTree(t, cfg)
	out := filepath.Join(testsupport.BaseDir(cfg), "dist", "kochbuch.zip")

	result, err := generate.Run(context.Background(), store, generate.Options{
		Source: cfg.Paths.SourceDir,
		Title:  "Kochbuch",
		Output: out,
		Config: cfg,
		Logger: logging.NewNop(),
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Books != 2 || result.Pages != 4 || len(result.Missing) != 0 {
		t.Fatalf("unexpected result %#v", result)
	}
	if result.Archive != out {
		t.Fatalf("unexpected archive path %s", result.Archive)
	}

	names := archiveEntries(t, out)
	for _, want := range []string{
		"Kochbuch/index.html",
		"Kochbuch/pages.html",
		"Kochbuch/style.css",
		"Kochbuch/Alpha/index.html",
		"Kochbuch/Alpha/pages.html",
		"Kochbuch/Alpha/pages-soups.html",
		"Kochbuch/Alpha/images/ar-aa-0001.jpg",
		"Kochbuch/Alpha/thumbs/ar-aa-0002.png",
		"Kochbuch/Alpha/pages/pg2.html",
		"Kochbuch/Beta/pages/pg1.html",
		"Kochbuch/Beta/thumbs/ar-bb-0002.png",
	} {
		if !names[want] {
			t.Fatalf("archive is missing %s", want)
		}
	}

	dirs, err := staging.ListDirectories(cfg.Paths.StagingDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(dirs) != 0 {
		t.Fatalf("expected staging run to be removed, found %v", dirs)
	}
}

func TestRunReportsMissingFiles(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := seedTree(t, cfg)
	if err := os.Remove(filepath.Join(cfg.Paths.SourceDir, "Beta", "BB001-02.jpg")); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(testsupport.BaseDir(cfg), "site.zip")
	result, err := generate.Run(context.Background(), store, generate.Options{
		Source: cfg.Paths.SourceDir,
		Title:  "Kochbuch",
		Output: out,
		Config: cfg,
		Logger: logging.NewNop(),
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(result.Missing) != 1 || result.Missing[0].Filename != "BB001-02.jpg" {
		t.Fatalf("expected BB001-02.jpg to be missing, got %#v", result.Missing)
	}
	names := archiveEntries(t, out)
	if names["Kochbuch/Beta/pages/pg2.html"] {
		t.Fatal("missing page must not be rendered")
	}
	if !names["Kochbuch/Beta/pages/pg1.html"] {
		t.Fatal("remaining page must still be rendered")
	}
}

type failingThumbnailer struct{}

func (failingThumbnailer) Generate(context.Context, []thumbnail.Job) error {
	return services.Wrap(services.ErrExternalTool, "thumbnail", "mogrify", "boom", nil)
}

func TestRunThumbnailFailureIsFatal(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := seedTree(t, cfg)
	out := filepath.Join(testsupport.BaseDir(cfg), "site.zip")

	_, err := generate.Run(context.Background(), store, generate.Options{
		Source:      cfg.Paths.SourceDir,
		Title:       "Kochbuch",
		Output:      out,
		Config:      cfg,
		Logger:      logging.NewNop(),
		Thumbnailer: failingThumbnailer{},
	})
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Fatal("expected no archive after failure")
	}
	dirs, _ := staging.ListDirectories(cfg.Paths.StagingDir)
	if len(dirs) != 0 {
		t.Fatalf("expected staging cleanup after failure, found %v", dirs)
	}
}

func TestRunRejectsDuplicatePageNumbers(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	base := cfg.Paths.SourceDir
	testsupport.WriteJPEG(t, filepath.Join(base, "Alpha", "AA001-01.jpg"), 8, 8, 1)
	testsupport.WriteJPEG(t, filepath.Join(base, "Alpha", "BB001-01.jpg"), 8, 8, 2)
	store := testsupport.MustOpenCatalog(t, cfg)
	if _, err := reindex.Run(context.Background(), store, reindex.Options{Source: base, Extension: ".jpg", Logger: logging.NewNop()}); err != nil {
		t.Fatalf("reindex: %v", err)
	}

	_, err := generate.Run(context.Background(), store, generate.Options{
		Source: base,
		Title:  "Kochbuch",
		Output: filepath.Join(testsupport.BaseDir(cfg), "site.zip"),
		Config: cfg,
		Logger: logging.NewNop(),
	})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRunRequiresTitleOrOutput(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)
	_, err := generate.Run(context.Background(), store, generate.Options{Config: cfg, Logger: logging.NewNop()})
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestRunRejectsTitlesOutsideRunDir(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)
	out := filepath.Join(testsupport.BaseDir(cfg), "out.zip")

	for _, title := range []string{".", "..", " .. "} {
		_, err := generate.Run(context.Background(), store, generate.Options{
			Source: cfg.Paths.SourceDir,
			Title:  title,
			Output: out,
			Config: cfg,
			Logger: logging.NewNop(),
		})
		if !errors.Is(err, services.ErrConfiguration) {
			t.Fatalf("title %q: expected configuration error, got %v", title, err)
		}
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Fatalf("expected no archive, got %v", err)
	}
	entries, err := os.ReadDir(cfg.Paths.StagingDir)
	if err != nil && !os.IsNotExist(err) {
		t.Fatalf("read staging: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty staging dir, got %d entries", len(entries))
	}
}

func TestOutputPath(t *testing.T) {
	if got := generate.OutputPath("", "Oma's Kochbuch: Band 1"); got != "Oma's Kochbuch- Band 1.zip" {
		t.Fatalf("unexpected default output %q", got)
	}
	if got := generate.OutputPath(" out/site.zip ", "ignored"); !strings.HasSuffix(got, "site.zip") || strings.HasPrefix(got, " ") {
		t.Fatalf("unexpected explicit output %q", got)
	}
}
