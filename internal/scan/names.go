package scan

import (
	"fmt"
	"path"
	"regexp"
	"strconv"
	"strings"

	"scanshelf/internal/services"
)

// stemPattern splits a file stem into prefix, series and index.
var stemPattern = regexp.MustCompile(`^(.*?)([0-9]+)-([0-9]+)$`)

// Name is the parsed form of a scan filename.
type Name struct {
	Prefix string
	Series int
	Index  int
	Ext    string
}

// ParseName parses "<prefix><series>-<index><ext>". The extension must match
// ext case-insensitively.
func ParseName(filename, ext string) (Name, error) {
	actual := path.Ext(filename)
	if !strings.EqualFold(actual, ext) {
		return Name{}, services.Wrap(services.ErrValidation, "scan", "parse name",
			fmt.Sprintf("can't parse image filename %q: expected extension %s", filename, ext), nil)
	}
	m := stemPattern.FindStringSubmatch(strings.TrimSuffix(filename, actual))
	if m == nil {
		return Name{}, services.Wrap(services.ErrValidation, "scan", "parse name",
			fmt.Sprintf("can't parse image filename %q: expected <prefix><series>-<index>%s", filename, ext), nil)
	}
	series, err := strconv.Atoi(m[2])
	if err != nil {
		return Name{}, services.Wrap(services.ErrValidation, "scan", "parse name", fmt.Sprintf("series of %q", filename), err)
	}
	index, err := strconv.Atoi(m[3])
	if err != nil {
		return Name{}, services.Wrap(services.ErrValidation, "scan", "parse name", fmt.Sprintf("index of %q", filename), err)
	}
	return Name{Prefix: m[1], Series: series, Index: index, Ext: actual}, nil
}

// DeriveLocation maps the slash-separated directory of a file relative to the
// scan base onto book and category. The first component names the book, the
// second the category. Files directly in the base belong to a book named
// after baseName.
func DeriveLocation(relDir, baseName string) (book, category string) {
	relDir = strings.Trim(path.Clean("/"+relDir), "/")
	if relDir == "" {
		return baseName, ""
	}
	parts := strings.Split(relDir, "/")
	book = parts[0]
	if len(parts) > 1 {
		category = parts[1]
	}
	return book, category
}

// ImagePath is the book-relative location of the published copy of a scan.
func ImagePath(prefix string, page int, ext string) string {
	return path.Join("images", fmt.Sprintf("ar-%s-%04d%s", strings.ToLower(prefix), page, strings.ToLower(ext)))
}

// ThumbPath is the book-relative location of the thumbnail of a scan.
func ThumbPath(prefix string, page int) string {
	return path.Join("thumbs", fmt.Sprintf("ar-%s-%04d.png", strings.ToLower(prefix), page))
}
