package testsupport

import (
	"context"
	"testing"

	"scanshelf/internal/catalog"
	"scanshelf/internal/config"
)

// MustOpenCatalog opens a writable catalog.Store for tests and registers cleanup.
func MustOpenCatalog(t testing.TB, cfg *config.Config) *catalog.Store {
	t.Helper()

	store, err := catalog.Open(context.Background(), cfg.Paths.Catalog, catalog.Options{})
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// PictureSeed describes a catalog row inserted by SeedPicture.
type PictureSeed struct {
	Picture catalog.Picture
	Tags    map[string]string
}

// SeedPicture upserts a picture with a page number and tag values and returns its id.
func SeedPicture(t testing.TB, store *catalog.Store, seed PictureSeed) int64 {
	t.Helper()

	ctx := context.Background()
	var id int64
	err := store.Update(ctx, func(tx *catalog.Tx) error {
		var err error
		id, err = tx.UpsertPicture(ctx, seed.Picture)
		if err != nil {
			return err
		}
		if seed.Picture.Page > 0 {
			if err := tx.SetPage(ctx, id, seed.Picture.Page); err != nil {
				return err
			}
		}
		for name, value := range seed.Tags {
			tag, err := tx.TagByName(ctx, name)
			if err != nil {
				return err
			}
			if tag == nil {
				t.Fatalf("seed picture: unknown tag %q", name)
			}
			if _, err := tx.AddTagValue(ctx, id, tag.ID, value); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("seed picture %s: %v", seed.Picture.Filename, err)
	}
	return id
}
