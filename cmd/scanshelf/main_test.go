package main

import (
	"archive/zip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"scanshelf/internal/catalog"
	"scanshelf/internal/services"
)

func TestReindexThenGenerate(t *testing.T) {
	env := setupCLITestEnv(t)
	env.writeScan(t, "Alpha/Soups/AA001-01.jpg", 1)
	env.writeScan(t, "Alpha/Soups/AA001-02.jpg", 2)
	env.writeScan(t, "Beta/BB001-01.jpg", 3)

	out, _, err := env.run(t, "reindex")
	if err != nil {
		t.Fatalf("reindex: %v", err)
	}
	requireContains(t, out, "Indexed 3 pictures (0 duplicates, 0 disappeared)")

	out, _, err = env.run(t, "books")
	if err != nil {
		t.Fatalf("books: %v", err)
	}
	requireContains(t, out, "Alpha")
	requireContains(t, out, "Total: 2 books, 3 pages")

	archive := filepath.Join(env.baseDir, "out", "site.zip")
	out, _, err = env.run(t, "generate", "--title", "Kochbuch", "--out", archive)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	requireContains(t, out, "Wrote "+archive+" (2 books, 3 pages)")

	zr, err := zip.OpenReader(archive)
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	defer zr.Close()
	names := map[string]bool{}
	for _, f := range zr.File {
		names[f.Name] = true
	}
	for _, want := range []string{"Kochbuch/index.html", "Kochbuch/Alpha/pages/pg1.html", "Kochbuch/Beta/images/ar-bb-0001.jpg"} {
		if !names[want] {
			t.Fatalf("expected %s in archive, got %v", want, names)
		}
	}
}

func TestReindexReportsDisappearedFiles(t *testing.T) {
	env := setupCLITestEnv(t)
	env.writeScan(t, "Alpha/AA001-01.jpg", 1)
	if _, _, err := env.run(t, "reindex"); err != nil {
		t.Fatalf("first reindex: %v", err)
	}

	env.writeScan(t, "Alpha/AA001-02.jpg", 2)
	if err := os.Remove(filepath.Join(env.cfg.Paths.SourceDir, "Alpha", "AA001-01.jpg")); err != nil {
		t.Fatalf("remove scan: %v", err)
	}

	out, _, err := env.run(t, "reindex")
	if err != nil {
		t.Fatalf("second reindex: %v", err)
	}
	requireContains(t, out, "Image file for entry AA001-01.jpg")
	requireContains(t, out, "disappeared.")
}

func TestGenerateRequiresTitleOrOut(t *testing.T) {
	env := setupCLITestEnv(t)
	env.writeScan(t, "Alpha/AA001-01.jpg", 1)
	if _, _, err := env.run(t, "reindex"); err != nil {
		t.Fatalf("reindex: %v", err)
	}

	_, _, err := env.run(t, "generate")
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestGenerateWithoutCatalogFails(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := env.run(t, "generate", "-t", "Kochbuch")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestPicsEditing(t *testing.T) {
	env := setupCLITestEnv(t)
	env.writeScan(t, "Alpha/AA001-01.jpg", 1)
	env.writeScan(t, "Alpha/AA001-02.jpg", 2)
	if _, _, err := env.run(t, "reindex"); err != nil {
		t.Fatalf("reindex: %v", err)
	}

	out, _, err := env.run(t, "pics", "add", "AA001-01.jpg", "title", "Linsensuppe")
	if err != nil {
		t.Fatalf("pics add: %v", err)
	}
	requireContains(t, out, "Linsensuppe")

	if _, _, err := env.run(t, "pics", "add", "AA001-01.jpg", "book", "Other"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected derived tag to be rejected, got %v", err)
	}
	if _, _, err := env.run(t, "pics", "add", "AA001-01.jpg", "check", "maybe"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected bool validation error, got %v", err)
	}

	titleID := valueID(t, env, "AA001-01.jpg", catalog.TagTitle)
	if _, _, err := env.run(t, "pics", "set", "AA001-01.jpg", strconv.FormatInt(titleID, 10), "Erbsensuppe"); err != nil {
		t.Fatalf("pics set: %v", err)
	}
	out, _, err = env.run(t, "pics", "show", "AA001-01.jpg")
	if err != nil {
		t.Fatalf("pics show: %v", err)
	}
	requireContains(t, out, "Erbsensuppe")

	if _, _, err := env.run(t, "pics", "rm", "AA001-01.jpg", strconv.FormatInt(titleID, 10)); err != nil {
		t.Fatalf("pics rm: %v", err)
	}
	out, _, err = env.run(t, "pics", "show", "AA001-01.jpg")
	if err != nil {
		t.Fatalf("pics show: %v", err)
	}
	if strings.Contains(out, "Erbsensuppe") {
		t.Fatalf("expected title removed, got %q", out)
	}

	out, _, err = env.run(t, "pics", "next", "AA001-01.jpg")
	if err != nil {
		t.Fatalf("pics next: %v", err)
	}
	requireContains(t, out, "AA001-02.jpg  page 2")

	out, _, err = env.run(t, "pics", "next", "AA001-02.jpg")
	if err != nil {
		t.Fatalf("pics next at end: %v", err)
	}
	requireContains(t, out, "No picture after AA001-02.jpg")

	if _, _, err := env.run(t, "pics", "set", "AA001-01.jpg", "abc", "x"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected value id validation error, got %v", err)
	}
}

func TestTagsDefineAndList(t *testing.T) {
	env := setupCLITestEnv(t)
	env.writeScan(t, "Alpha/AA001-01.jpg", 1)
	if _, _, err := env.run(t, "reindex"); err != nil {
		t.Fatalf("reindex: %v", err)
	}

	out, _, err := env.run(t, "tags", "define", "vegetarian", "--type", "bool", "--description", "No meat")
	if err != nil {
		t.Fatalf("tags define: %v", err)
	}
	requireContains(t, out, "Defined tag vegetarian (bool)")

	if _, _, err := env.run(t, "tags", "define", "rating", "--type", "int"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected type validation error, got %v", err)
	}

	out, _, err = env.run(t, "tags", "list")
	if err != nil {
		t.Fatalf("tags list: %v", err)
	}
	requireContains(t, out, "vegetarian")
	requireContains(t, out, "No meat")
	requireContains(t, out, "scanned")
}

func TestDoctorReportsBuiltinTools(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := env.run(t, "doctor")
	if err != nil {
		t.Fatalf("doctor: %v", err)
	}
	requireContains(t, out, "ImageMagick mogrify")
	requireContains(t, out, "No leftover staging runs")
}

func valueID(t *testing.T, env *cliTestEnv, filename, tag string) int64 {
	t.Helper()
	ctx := context.Background()
	store, err := catalog.Open(ctx, env.cfg.Paths.Catalog, catalog.Options{ReadOnly: true})
	if err != nil {
		t.Fatalf("open catalog: %v", err)
	}
	defer store.Close()
	pic, err := store.FindPicture(ctx, filename)
	if err != nil {
		t.Fatalf("find picture: %v", err)
	}
	values, err := store.PictureTags(ctx, pic.ID)
	if err != nil {
		t.Fatalf("picture tags: %v", err)
	}
	for _, v := range values {
		if v.Tag == tag {
			return v.ID
		}
	}
	t.Fatalf("no %s value on %s", tag, filename)
	return 0
}
