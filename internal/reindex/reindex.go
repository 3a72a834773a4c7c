// Package reindex synchronizes the catalog with the scan tree.
package reindex

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"scanshelf/internal/catalog"
	"scanshelf/internal/logging"
	"scanshelf/internal/scan"
)

// Options configures a reindex run.
type Options struct {
	Source    string
	Extension string
	ReadEXIF  bool
	Logger    *slog.Logger
	Progress  io.Writer
}

// Report summarizes a reindex run.
type Report struct {
	Scanned    int
	Duplicates []scan.Duplicate
	// Disappeared lists pictures whose file was not found in this run.
	Disappeared []catalog.Picture
	// Collisions lists page numbers claimed by more than one prefix in a book.
	Collisions []Collision
}

// Collision is a page number shared by several files of one book.
type Collision struct {
	Book  string
	Page  int
	Files []string
}

// Run rescans the tree and rewrites the catalog in one transaction: every
// picture is invalidated, derived tag values are dropped, scanned files are
// upserted by content hash with fresh book, category and scan date values, and
// pages are renumbered. The run either lands completely or not at all.
func Run(ctx context.Context, store *catalog.Store, opts Options) (*Report, error) {
	if store == nil {
		return nil, fmt.Errorf("reindex: catalog store is nil")
	}
	logger := logging.NewComponentLogger(opts.Logger, "reindex")

	lock, err := catalog.AcquireLock(store.Path(), true)
	if err != nil {
		return nil, err
	}
	defer func() { _ = lock.Release() }()

	sources, err := scan.Tree(ctx, opts.Source, scan.Options{
		Extension: opts.Extension,
		ReadEXIF:  opts.ReadEXIF,
		Logger:    opts.Logger,
		Progress:  opts.Progress,
	})
	if err != nil {
		return nil, err
	}
	kept, dups := scan.AssignPages(sources)
	report := &Report{Scanned: len(kept), Duplicates: dups}
	for _, dup := range dups {
		logging.WarnWithContext(logger, "duplicate scan content", "duplicate_scan",
			logging.String("kept", dup.Kept.RelPath),
			logging.String("dropped", dup.Dropped.RelPath),
			logging.String(logging.FieldImpact, "duplicate file ignored"),
		)
	}

	err = store.Update(ctx, func(tx *catalog.Tx) error {
		if err := tx.SeedTags(ctx); err != nil {
			return err
		}
		if err := tx.InvalidateAll(ctx); err != nil {
			return err
		}
		if err := tx.DeleteTagValues(ctx, catalog.DerivedTags...); err != nil {
			return err
		}
		derived, err := derivedTagIDs(ctx, tx)
		if err != nil {
			return err
		}
		for _, src := range kept {
			id, err := tx.UpsertPicture(ctx, catalog.Picture{
				Hash:     src.Hash,
				Filename: src.Filename,
				Prefix:   src.Name.Prefix,
				Path:     src.RelPath,
				Book:     src.Book,
				Category: src.Category,
			})
			if err != nil {
				return err
			}
			for name, value := range map[string]string{
				catalog.TagBook:     src.Book,
				catalog.TagCategory: src.Category,
				catalog.TagScanned:  src.ScanDate,
			} {
				if value == "" {
					continue
				}
				if _, err := tx.AddTagValue(ctx, id, derived[name], value); err != nil {
					return err
				}
			}
			if err := tx.SetPage(ctx, id, src.Page); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	report.Collisions = findCollisions(kept)
	for _, c := range report.Collisions {
		logging.WarnWithContext(logger, "page number used twice", "page_collision",
			logging.String(logging.FieldBook, c.Book),
			logging.Int("page", c.Page),
			logging.Any("files", c.Files),
			logging.String(logging.FieldImpact, "generate will refuse this book"),
			logging.String(logging.FieldErrorHint, "use one filename prefix per book"),
		)
	}

	report.Disappeared, err = store.Invalid(ctx)
	if err != nil {
		return nil, err
	}
	for _, pic := range report.Disappeared {
		logger.Info("image file disappeared", logging.String("filename", pic.Filename), logging.String("hash", pic.Hash))
	}
	logger.Info("reindex complete",
		logging.Int("scanned", report.Scanned),
		logging.Int("disappeared", len(report.Disappeared)),
	)
	return report, nil
}

func derivedTagIDs(ctx context.Context, tx *catalog.Tx) (map[string]int64, error) {
	ids := make(map[string]int64, len(catalog.DerivedTags))
	for _, name := range catalog.DerivedTags {
		tag, err := tx.TagByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if tag == nil {
			return nil, fmt.Errorf("seed tag %s missing", name)
		}
		ids[name] = tag.ID
	}
	return ids, nil
}

func findCollisions(sources []scan.Source) []Collision {
	type key struct {
		book string
		page int
	}
	files := make(map[key][]string)
	for _, src := range sources {
		k := key{src.Book, src.Page}
		files[k] = append(files[k], src.RelPath)
	}
	var out []Collision
	for k, names := range files {
		if len(names) > 1 {
			out = append(out, Collision{Book: k.book, Page: k.page, Files: names})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Book != out[j].Book {
			return out[i].Book < out[j].Book
		}
		return out[i].Page < out[j].Page
	})
	return out
}
