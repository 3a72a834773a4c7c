package tagging_test

import (
	"context"
	"errors"
	"testing"

	"scanshelf/internal/catalog"
	"scanshelf/internal/services"
	"scanshelf/internal/tagging"
	"scanshelf/internal/testsupport"
)

func seed(t *testing.T) *catalog.Store {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)
	testsupport.SeedPicture(t, store, testsupport.PictureSeed{
		Picture: catalog.Picture{Hash: "aa11bb22cc33", Filename: "AA001-01.jpg", Prefix: "AA", Path: "Alpha/AA001-01.jpg", Book: "Alpha", Page: 1},
		Tags:    map[string]string{"title": "Linsensuppe", "book": "Alpha"},
	})
	testsupport.SeedPicture(t, store, testsupport.PictureSeed{
		Picture: catalog.Picture{Hash: "dd44ee55ff66", Filename: "AA001-02.jpg", Prefix: "AA", Path: "Alpha/AA001-02.jpg", Book: "Alpha", Page: 2},
	})
	testsupport.SeedPicture(t, store, testsupport.PictureSeed{
		Picture: catalog.Picture{Hash: "0099887766aa", Filename: "BB001-01.jpg", Prefix: "BB", Path: "Beta/BB001-01.jpg", Book: "Beta", Page: 1},
	})
	return store
}

func valueOf(values []tagging.Value, tag string) (tagging.Value, bool) {
	for _, v := range values {
		if v.Tag == tag {
			return v, true
		}
	}
	return tagging.Value{}, false
}

func TestSessionChangesStayInMemoryUntilCommit(t *testing.T) {
	store := seed(t)
	ctx := context.Background()

	s, err := tagging.Load(ctx, store, "AA001-01.jpg")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	added, err := s.Add("CHECK", "yes")
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if !added.Pending() || added.Value != "true" || added.Tag != "check" {
		t.Fatalf("unexpected added value %#v", added)
	}
	title, _ := valueOf(s.Values(), "title")
	if _, err := s.Set(title.ID, "Linseneintopf"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if !s.Dirty() {
		t.Fatal("expected session to be dirty")
	}

	stored, err := store.PictureTags(ctx, s.Picture().ID)
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range stored {
		if v.Tag == "check" || v.Value == "Linseneintopf" {
			t.Fatalf("uncommitted change leaked to catalog: %#v", v)
		}
	}

	if err := s.Commit(ctx); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	if s.Dirty() {
		t.Fatal("expected clean session after commit")
	}
	stored, _ = store.PictureTags(ctx, s.Picture().ID)
	got := map[string]string{}
	for _, v := range stored {
		got[v.Tag] = v.Value
	}
	if got["check"] != "true" || got["title"] != "Linseneintopf" {
		t.Fatalf("unexpected committed values %#v", got)
	}
	for _, v := range s.Values() {
		if v.Pending() {
			t.Fatalf("expected committed ids after reload, got %#v", v)
		}
	}
}

func TestSessionDiscardAndRemove(t *testing.T) {
	store := seed(t)
	ctx := context.Background()

	s, err := tagging.Load(ctx, store, "aa11bb")
	if err != nil {
		t.Fatalf("Load by hash prefix failed: %v", err)
	}
	title, ok := valueOf(s.Values(), "title")
	if !ok {
		t.Fatal("expected title value")
	}
	if err := s.Remove(title.ID); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, ok := valueOf(s.Values(), "title"); ok {
		t.Fatal("expected title to be removed from projection")
	}
	s.Discard()
	if _, ok := valueOf(s.Values(), "title"); !ok {
		t.Fatal("expected discard to restore title")
	}

	if err := s.Remove(title.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.Commit(ctx); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	stored, _ := store.PictureTags(ctx, s.Picture().ID)
	for _, v := range stored {
		if v.Tag == "title" {
			t.Fatal("expected title to be deleted")
		}
	}
}

func TestSessionRejectsInvalidEdits(t *testing.T) {
	store := seed(t)
	ctx := context.Background()
	s, err := tagging.Load(ctx, store, "AA001-01.jpg")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := s.Add("rating", "5"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected unknown tag error, got %v", err)
	}
	if _, err := s.Add("check", "maybe"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected bool validation error, got %v", err)
	}
	if _, err := s.Add("category", "Soups"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected derived tag to be rejected, got %v", err)
	}
	book, _ := valueOf(s.Values(), "book")
	if _, err := s.Set(book.ID, "Gamma"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected derived value to be read-only, got %v", err)
	}
	if err := s.Remove(424242); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected unknown value error, got %v", err)
	}
	if s.Dirty() {
		t.Fatal("rejected edits must not dirty the session")
	}
}

func TestLoadUnknownPicture(t *testing.T) {
	store := seed(t)
	if _, err := tagging.Load(context.Background(), store, "ZZ999-99.jpg"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestNormalizeValue(t *testing.T) {
	cases := []struct {
		kind    catalog.TagType
		in      string
		want    string
		wantErr bool
	}{
		{catalog.TagBool, "Yes", "true", false},
		{catalog.TagBool, " 0 ", "false", false},
		{catalog.TagBool, "off", "false", false},
		{catalog.TagBool, "", "", true},
		{catalog.TagText, " keep spacing ", " keep spacing ", false},
	}
	for _, tc := range cases {
		got, err := tagging.NormalizeValue(tc.kind, tc.in)
		if (err != nil) != tc.wantErr {
			t.Fatalf("NormalizeValue(%s, %q) error = %v", tc.kind, tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("NormalizeValue(%s, %q) = %q, want %q", tc.kind, tc.in, got, tc.want)
		}
	}
}

func TestNavigatorOrdersByFilename(t *testing.T) {
	store := seed(t)
	ctx := context.Background()

	nav, err := tagging.NewNavigator(ctx, store, "")
	if err != nil {
		t.Fatal(err)
	}
	if nav.Len() != 3 {
		t.Fatalf("expected 3 pictures, got %d", nav.Len())
	}
	first, ok := nav.First()
	if !ok || first.Filename != "AA001-01.jpg" {
		t.Fatalf("unexpected first picture %#v", first)
	}
	second, ok := nav.Next(first.ID)
	if !ok || second.Filename != "AA001-02.jpg" {
		t.Fatalf("unexpected next picture %#v", second)
	}
	if _, ok := nav.Prev(first.ID); ok {
		t.Fatal("first picture has no predecessor")
	}
	third, _ := nav.Next(second.ID)
	if _, ok := nav.Next(third.ID); ok {
		t.Fatal("last picture has no successor")
	}

	beta, err := tagging.NewNavigator(ctx, store, "Beta")
	if err != nil {
		t.Fatal(err)
	}
	if beta.Len() != 1 {
		t.Fatalf("expected book filter, got %d pictures", beta.Len())
	}
}
