package generate

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"scanshelf/internal/archive"
	"scanshelf/internal/catalog"
	"scanshelf/internal/config"
	"scanshelf/internal/fileutil"
	"scanshelf/internal/logging"
	"scanshelf/internal/scan"
	"scanshelf/internal/services"
	"scanshelf/internal/site"
	"scanshelf/internal/staging"
	"scanshelf/internal/textutil"
	"scanshelf/internal/thumbnail"
)

// Options configures one generate run.
type Options struct {
	// Source is the base directory of the scan tree.
	Source string
	// Title is the product title used for headings and the site directory.
	Title string
	// Output is the archive path; defaults to "<Title>.zip".
	Output string
	Config *config.Config
	Logger *slog.Logger
	// Progress receives a hashing progress bar. Nil disables it.
	Progress io.Writer

	Thumbnailer thumbnail.Thumbnailer
	Archiver    archive.Archiver
}

// Result summarizes a finished run.
type Result struct {
	RunID   string
	Archive string
	Books   int
	Pages   int
	// Missing lists catalog pictures with no matching file in the scan tree.
	Missing    []catalog.Picture
	Duplicates []scan.Duplicate
}

// OutputPath resolves the archive path from the output flag and title.
func OutputPath(output, title string) string {
	if output = strings.TrimSpace(output); output != "" {
		return output
	}
	return textutil.SanitizeFileName(title) + ".zip"
}

// siteDir maps title to the single path element that holds the site inside
// the run directory.
func siteDir(title string) (string, bool) {
	name := textutil.SanitizeFileName(title)
	if name == "" || name == "." || name == ".." || !filepath.IsLocal(name) || filepath.Base(name) != name {
		return "", false
	}
	return name, true
}

// Run executes the pipeline against store.
func Run(ctx context.Context, store *catalog.Store, opts Options) (*Result, error) {
	if store == nil {
		return nil, fmt.Errorf("generate: catalog store is nil")
	}
	cfg := opts.Config
	if cfg == nil {
		def := config.Default()
		cfg = &def
	}
	title := strings.TrimSpace(opts.Title)
	if title == "" && strings.TrimSpace(opts.Output) == "" {
		return nil, services.Wrap(services.ErrConfiguration, "generate", "options", "one of --out or --title must be given", nil)
	}
	if title == "" {
		title = cfg.Site.Title
	}
	siteDirName, ok := siteDir(title)
	if !ok {
		return nil, services.Wrap(services.ErrConfiguration, "generate", "options", fmt.Sprintf("title %q is not usable as a directory name", title), nil)
	}
	output, err := filepath.Abs(OutputPath(opts.Output, title))
	if err != nil {
		return nil, fmt.Errorf("resolve output: %w", err)
	}

	thumbs := opts.Thumbnailer
	if thumbs == nil {
		if thumbs, err = thumbnail.New(cfg, opts.Logger); err != nil {
			return nil, err
		}
	}
	archiver := opts.Archiver
	if archiver == nil {
		if archiver, err = archive.New(cfg, opts.Logger); err != nil {
			return nil, err
		}
	}

	lock, err := catalog.AcquireLock(store.Path(), false)
	if err != nil {
		return nil, err
	}
	defer func() { _ = lock.Release() }()

	run, err := staging.NewRun(cfg.Paths.StagingDir)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "generate", "staging", "create run directory", err)
	}
	ctx = services.WithRunID(ctx, run.ID)
	logger := logging.WithContext(ctx, logging.NewComponentLogger(opts.Logger, "generate"))
	defer func() {
		if err := run.Remove(); err != nil {
			logging.WarnWithContext(logger, "staging cleanup failed", "staging_cleanup_failed",
				logging.String("path", run.Dir),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "remove the directory manually"),
			)
		}
	}()

	result := &Result{RunID: run.ID, Archive: output}

	sources, err := scan.Tree(ctx, opts.Source, scan.Options{
		Extension: cfg.Scan.Extension,
		Logger:    opts.Logger,
		Progress:  opts.Progress,
	})
	if err != nil {
		return nil, err
	}
	byHash := make(map[string]scan.Source, len(sources))
	for _, src := range sources {
		if kept, dup := byHash[src.Hash]; dup {
			result.Duplicates = append(result.Duplicates, scan.Duplicate{Kept: kept, Dropped: src})
			continue
		}
		byHash[src.Hash] = src
	}
	for _, dup := range result.Duplicates {
		logging.WarnWithContext(logger, "duplicate scan content", "duplicate_scan",
			logging.String("kept", dup.Kept.RelPath),
			logging.String("dropped", dup.Dropped.RelPath),
			logging.String(logging.FieldImpact, "only the first copy is published"),
		)
	}

	snapshot, err := store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	resolved := make([]catalog.Entry, 0, len(snapshot))
	for _, entry := range snapshot {
		if _, ok := byHash[entry.Hash]; !ok {
			result.Missing = append(result.Missing, entry.Picture)
			logging.WarnWithContext(logger, "catalog picture has no source file", "source_missing",
				logging.String("filename", entry.Filename),
				logging.String("hash", entry.Hash),
				logging.String(logging.FieldBook, entry.Book),
				logging.String(logging.FieldImpact, "page left out of the site"),
				logging.String(logging.FieldErrorHint, "run scanshelf reindex to refresh the catalog"),
			)
			continue
		}
		resolved = append(resolved, entry)
	}

	model, err := site.Assemble(site.Options{Title: title, Archive: filepath.Base(output)}, resolved)
	if err != nil {
		return nil, err
	}
	root := filepath.Join(run.Dir, siteDirName)

	var jobs []thumbnail.Job
	for _, book := range model.Books {
		bookRoot := filepath.Join(root, book.Name)
		for _, page := range book.Pages {
			dst := filepath.Join(bookRoot, filepath.FromSlash(page.Image))
			if err := fileutil.CopyFile(byHash[page.Hash].AbsPath, dst); err != nil {
				return nil, fmt.Errorf("copy %s: %w", byHash[page.Hash].RelPath, err)
			}
			jobs = append(jobs, thumbnail.Job{Image: dst, Dir: filepath.Join(bookRoot, "thumbs")})
		}
		result.Books++
		result.Pages += len(book.Pages)
	}
	logger.Info("images copied", logging.Int("books", result.Books), logging.Int("pages", result.Pages))

	if err := thumbs.Generate(ctx, jobs); err != nil {
		return nil, err
	}
	if err := site.Render(model, root); err != nil {
		return nil, err
	}
	logger.Info("site rendered", logging.String("dir", root))

	if err := archiver.Archive(ctx, root, output); err != nil {
		return nil, err
	}
	logger.Info("archive published",
		logging.String("archive", output),
		logging.Int("missing", len(result.Missing)),
	)
	return result, nil
}
