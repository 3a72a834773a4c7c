package site

import (
	"fmt"
	"path"
	"sort"

	"scanshelf/internal/catalog"
	"scanshelf/internal/scan"
	"scanshelf/internal/services"
	"scanshelf/internal/textutil"
)

// Options describes the archive being assembled.
type Options struct {
	Title   string
	Archive string
}

// Assemble builds the site model from catalog entries. Every entry must have
// a page number and page numbers must be unique within a book, since each one
// names a detail file.
func Assemble(opts Options, entries []catalog.Entry) (*Site, error) {
	s := &Site{Title: opts.Title, Archive: opts.Archive}

	byBook := make(map[string][]catalog.Entry)
	for _, e := range entries {
		byBook[e.Book] = append(byBook[e.Book], e)
	}
	names := make([]string, 0, len(byBook))
	for name := range byBook {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		book, err := assembleBook(name, byBook[name])
		if err != nil {
			return nil, err
		}
		s.Books = append(s.Books, book)
		s.Index = append(s.Index, book.Index...)
	}
	sortEntries(s.Index)
	return s, nil
}

func assembleBook(name string, entries []catalog.Entry) (*Book, error) {
	book := &Book{Name: name}
	seen := make(map[int]catalog.Entry, len(entries))
	for _, e := range entries {
		if e.Page <= 0 {
			return nil, services.Wrap(services.ErrValidation, "site", "assemble",
				fmt.Sprintf("%s in %s has no page number (run reindex)", e.Filename, name), nil)
		}
		if other, dup := seen[e.Page]; dup {
			return nil, services.Wrap(services.ErrValidation, "site", "assemble",
				fmt.Sprintf("%s and %s are both page %d of %s", other.Filename, e.Filename, e.Page, name), nil)
		}
		seen[e.Page] = e

		page := &Page{
			Number:   e.Page,
			Book:     name,
			Category: e.Category,
			Hash:     e.Hash,
			Image:    scan.ImagePath(e.Prefix, e.Page, path.Ext(e.Filename)),
			Thumb:    scan.ThumbPath(e.Prefix, e.Page),
			Titles:   e.Values(catalog.TagTitle),
		}
		for _, tv := range e.Tags {
			if tv.Value != "" {
				page.Values = append(page.Values, tv.Value)
			}
		}
		book.Pages = append(book.Pages, page)
		for _, title := range page.Titles {
			book.Index = append(book.Index, Entry{Title: title, Book: name, Page: page.Number})
		}
	}

	sort.Slice(book.Pages, func(i, j int) bool { return book.Pages[i].Number < book.Pages[j].Number })
	for i, page := range book.Pages {
		if i > 0 {
			page.Prev = book.Pages[i-1]
		}
		if i < len(book.Pages)-1 {
			page.Next = book.Pages[i+1]
		}
	}
	sortEntries(book.Index)
	book.Categories = assembleCategories(book.Pages)
	return book, nil
}

func assembleCategories(pages []*Page) []*Category {
	byName := make(map[string]*Category)
	var names []string
	for _, page := range pages {
		if page.Category == "" {
			continue
		}
		cat, ok := byName[page.Category]
		if !ok {
			cat = &Category{Name: page.Category}
			byName[page.Category] = cat
			names = append(names, page.Category)
		}
		cat.Pages = append(cat.Pages, page)
	}
	sort.Strings(names)

	taken := make(map[string]bool)
	out := make([]*Category, 0, len(names))
	for _, name := range names {
		cat := byName[name]
		base := textutil.SanitizeToken(name)
		token := base
		for n := 2; taken[token]; n++ {
			token = fmt.Sprintf("%s-%d", base, n)
		}
		taken[token] = true
		cat.File = "pages-" + token + ".html"
		out = append(out, cat)
	}
	return out
}

// sortEntries orders by title, then book, then page.
func sortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Title != b.Title {
			return a.Title < b.Title
		}
		if a.Book != b.Book {
			return a.Book < b.Book
		}
		return a.Page < b.Page
	})
}
