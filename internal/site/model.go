package site

import (
	"fmt"
	"path"
)

// Site is the assembled archive.
type Site struct {
	Title string
	// Archive is the file name of the downloadable zip, linked from the main index.
	Archive string
	Books   []*Book
	// Index lists titled pages of every book sorted by title.
	Index []Entry
}

// Book groups the pages of one scanned book.
type Book struct {
	Name       string
	Pages      []*Page
	Index      []Entry
	Categories []*Category
}

// Category is the listing of one category inside a book.
type Category struct {
	Name string
	// File is the listing file name relative to the book directory.
	File  string
	Pages []*Page
}

// Page is one scan inside a book.
type Page struct {
	Number   int
	Book     string
	Category string
	Hash     string
	// Image and Thumb are relative to the book directory.
	Image  string
	Thumb  string
	Titles []string
	// Values are all non-empty tag values of the page in catalog order.
	Values []string
	Prev   *Page
	Next   *Page
}

// File is the detail page location relative to the book directory.
func (p *Page) File() string {
	return path.Join("pages", fmt.Sprintf("pg%d.html", p.Number))
}

// Entry is one line of a title index.
type Entry struct {
	Title string
	Book  string
	Page  int
}

// File is the linked detail page relative to the book directory.
func (e Entry) File() string {
	return path.Join("pages", fmt.Sprintf("pg%d.html", e.Page))
}

// Book returns the named book or nil.
func (s *Site) Book(name string) *Book {
	for _, b := range s.Books {
		if b.Name == name {
			return b
		}
	}
	return nil
}

// Category returns the named category or nil.
func (b *Book) Category(name string) *Category {
	for _, c := range b.Categories {
		if c.Name == name {
			return c
		}
	}
	return nil
}
