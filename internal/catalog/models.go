package catalog

import "strings"

// TagType distinguishes free-text tags from boolean flags.
type TagType string

const (
	TagText TagType = "str"
	TagBool TagType = "bool"
)

// Well-known tag names.
const (
	TagTitle    = "title"
	TagCheck    = "check"
	TagBook     = "book"
	TagCategory = "category"
	TagScanned  = "scanned"
)

// DerivedTags are regenerated from the source tree on every reindex.
var DerivedTags = []string{TagBook, TagCategory, TagScanned}

// Tag is a tag definition.
type Tag struct {
	ID          int64
	Name        string
	Type        TagType
	Description string
}

// IsDerived reports whether values of this tag are owned by the reindexer.
func (t Tag) IsDerived() bool {
	return IsDerivedName(t.Name)
}

// IsDerivedName reports whether name is one of DerivedTags, ignoring case.
func IsDerivedName(name string) bool {
	for _, derived := range DerivedTags {
		if strings.EqualFold(name, derived) {
			return true
		}
	}
	return false
}

// Picture is one scanned page image. Category is empty for uncategorized pages.
type Picture struct {
	ID       int64
	Hash     string
	Filename string
	Prefix   string
	Path     string
	Book     string
	Category string
	Page     int
	Valid    bool
}

// HasCategory reports whether the picture belongs to a category.
func (p Picture) HasCategory() bool {
	return p.Category != ""
}

// TagValue attaches a value of one tag definition to a picture.
type TagValue struct {
	ID        int64
	PictureID int64
	TagID     int64
	Tag       string
	Type      TagType
	Value     string
}

// Entry is a picture together with its non-empty tag values.
type Entry struct {
	Picture
	Tags []TagValue
}

// Values returns the values of all tags whose name matches name case-insensitively.
func (e Entry) Values(name string) []string {
	var out []string
	for _, tv := range e.Tags {
		if strings.EqualFold(tv.Tag, name) && tv.Value != "" {
			out = append(out, tv.Value)
		}
	}
	return out
}

// BookSummary describes one book in the catalog.
type BookSummary struct {
	Name  string
	Pages int
}

type seedTag struct {
	name        string
	kind        TagType
	description string
}

var seedTagDefs = []seedTag{
	{TagTitle, TagText, "Image Title"},
	{TagCheck, TagBool, "Checked"},
	{TagBook, TagText, "Book"},
	{TagCategory, TagText, "Category"},
	{TagScanned, TagText, "Scan date"},
}
