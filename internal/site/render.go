package site

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/url"
	"os"
	"path"
	"path/filepath"
)

//go:embed templates/*.html templates/style.css
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type link struct {
	Name string
	Href string
}

type thumb struct {
	Number int
	Thumb  string
	Href   string
}

type bookLinks struct {
	Name       string
	Index      string
	Pages      string
	Categories []link
}

type mainIndexView struct {
	Title   string
	Archive string
	Books   []bookLinks
	Entries []link
}

type bookIndexView struct {
	Title   string
	Book    string
	Entries []link
}

type bookSection struct {
	Name   string
	Anchor string
	Pages  []thumb
}

type mainPagesView struct {
	Title string
	Books []bookSection
}

type pageListView struct {
	Title    string
	Book     string
	Category string
	Pages    []thumb
}

type pageView struct {
	Title        string
	Book         string
	Number       int
	Category     string
	CategoryHref string
	Values       []string
	Image        string
	Prev         *thumb
	Next         *thumb
}

// bookDir is the URL path segment of a book directory.
func bookDir(name string) string {
	return url.PathEscape(name)
}

// Anchor is the fragment id of a book section in the overall page list.
func Anchor(book string) string {
	return "pages-" + url.PathEscape(book)
}

// Render writes the site into root. Book directories are created below root
// using the raw book names.
func Render(s *Site, root string) error {
	r := renderer{root: root}

	main := mainIndexView{Title: s.Title}
	if s.Archive != "" {
		main.Archive = "../" + url.PathEscape(s.Archive)
	}
	overall := mainPagesView{Title: s.Title}
	for _, e := range s.Index {
		main.Entries = append(main.Entries, link{Name: e.Title, Href: path.Join(bookDir(e.Book), e.File())})
	}

	for _, book := range s.Books {
		dir := bookDir(book.Name)
		links := bookLinks{
			Name:  book.Name,
			Index: path.Join(dir, "index.html"),
			Pages: path.Join(dir, "pages.html"),
		}
		section := bookSection{Name: book.Name, Anchor: Anchor(book.Name)}
		for _, cat := range book.Categories {
			links.Categories = append(links.Categories, link{Name: cat.Name, Href: path.Join(dir, cat.File)})
		}
		for _, page := range book.Pages {
			section.Pages = append(section.Pages, thumb{
				Number: page.Number,
				Thumb:  path.Join(dir, page.Thumb),
				Href:   path.Join(dir, page.File()),
			})
		}
		main.Books = append(main.Books, links)
		overall.Books = append(overall.Books, section)

		if err := r.book(s.Title, book); err != nil {
			return err
		}
	}

	r.execute("main_index.html", "index.html", main)
	r.execute("main_pages.html", "pages.html", overall)
	if r.err == nil {
		css, err := templateFS.ReadFile("templates/style.css")
		if err != nil {
			return fmt.Errorf("read stylesheet: %w", err)
		}
		r.write("style.css", css)
	}
	return r.err
}

type renderer struct {
	root string
	err  error
}

func (r *renderer) book(title string, book *Book) error {
	index := bookIndexView{Title: title, Book: book.Name}
	for _, e := range book.Index {
		index.Entries = append(index.Entries, link{Name: e.Title, Href: e.File()})
	}
	r.execute("book_index.html", path.Join(book.Name, "index.html"), index)
	r.execute("book_pages.html", path.Join(book.Name, "pages.html"),
		pageListView{Title: title, Book: book.Name, Pages: bookThumbs(book.Pages)})

	for _, cat := range book.Categories {
		r.execute("category_pages.html", path.Join(book.Name, cat.File),
			pageListView{Title: title, Book: book.Name, Category: cat.Name, Pages: bookThumbs(cat.Pages)})
	}

	for _, page := range book.Pages {
		view := pageView{
			Title:    title,
			Book:     book.Name,
			Number:   page.Number,
			Category: page.Category,
			Values:   page.Values,
			Image:    "../" + page.Image,
			Prev:     detailNav(page.Prev),
			Next:     detailNav(page.Next),
		}
		if cat := book.Category(page.Category); cat != nil {
			view.CategoryHref = "../" + cat.File
		}
		r.execute("page.html", path.Join(book.Name, page.File()), view)
	}
	return r.err
}

// bookThumbs links pages from a listing inside the book directory.
func bookThumbs(pages []*Page) []thumb {
	out := make([]thumb, 0, len(pages))
	for _, p := range pages {
		out = append(out, thumb{Number: p.Number, Thumb: p.Thumb, Href: p.File()})
	}
	return out
}

// detailNav links a neighbour from inside the pages directory.
func detailNav(p *Page) *thumb {
	if p == nil {
		return nil
	}
	return &thumb{Number: p.Number, Thumb: "../" + p.Thumb, Href: path.Base(p.File())}
}

func (r *renderer) execute(name, target string, data any) {
	if r.err != nil {
		return
	}
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		r.err = fmt.Errorf("render %s: %w", target, err)
		return
	}
	r.write(target, buf.Bytes())
}

func (r *renderer) write(target string, content []byte) {
	if r.err != nil {
		return
	}
	full := filepath.Join(r.root, filepath.FromSlash(target))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		r.err = fmt.Errorf("create %s: %w", filepath.Dir(full), err)
		return
	}
	if err := os.WriteFile(full, content, 0o644); err != nil {
		r.err = fmt.Errorf("write %s: %w", target, err)
	}
}
