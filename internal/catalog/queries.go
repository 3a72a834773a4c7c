package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"scanshelf/internal/services"
)

// Text columns are coalesced so catalogs written by other tools may leave them NULL.
const pictureColumns = "id, sha3, COALESCE(filename, ''), COALESCE(prefix, ''), COALESCE(path, ''), COALESCE(book, ''), category, pgnum, COALESCE(valid, 0)"

type rowScanner interface{ Scan(dest ...any) error }

func scanPicture(scanner rowScanner) (Picture, error) {
	var (
		pic      Picture
		category sql.NullString
		page     sql.NullInt64
		valid    int
	)
	if err := scanner.Scan(&pic.ID, &pic.Hash, &pic.Filename, &pic.Prefix, &pic.Path, &pic.Book, &category, &page, &valid); err != nil {
		return Picture{}, err
	}
	pic.Category = category.String
	pic.Page = int(page.Int64)
	pic.Valid = valid != 0
	return pic, nil
}

func collectPictures(rows *sql.Rows) ([]Picture, error) {
	defer rows.Close()
	var out []Picture
	for rows.Next() {
		pic, err := scanPicture(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, pic)
	}
	return out, rows.Err()
}

// PictureFilter narrows picture listings.
type PictureFilter struct {
	Book           string
	IncludeInvalid bool
}

// Pictures lists pictures ordered by filename.
func (s *Store) Pictures(ctx context.Context, filter PictureFilter) ([]Picture, error) {
	var (
		clauses []string
		args    []any
	)
	if !filter.IncludeInvalid {
		clauses = append(clauses, "valid = 1")
	}
	if filter.Book != "" {
		clauses = append(clauses, "book = ?")
		args = append(args, filter.Book)
	}
	query := "SELECT " + pictureColumns + " FROM pics"
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY filename, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list pictures: %w", err)
	}
	pics, err := collectPictures(rows)
	if err != nil {
		return nil, fmt.Errorf("scan pictures: %w", err)
	}
	return pics, nil
}

// Invalid returns pictures whose source file disappeared during the last reindex.
func (s *Store) Invalid(ctx context.Context) ([]Picture, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+pictureColumns+" FROM pics WHERE valid = 0 ORDER BY filename, id")
	if err != nil {
		return nil, fmt.Errorf("list invalid pictures: %w", err)
	}
	pics, err := collectPictures(rows)
	if err != nil {
		return nil, fmt.Errorf("scan invalid pictures: %w", err)
	}
	return pics, nil
}

// minHashPrefix is the shortest hash prefix accepted as a picture reference.
const minHashPrefix = 6

// FindPicture resolves ref as an exact filename or, failing that, a hash prefix.
func (s *Store) FindPicture(ctx context.Context, ref string) (*Picture, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, services.Wrap(services.ErrValidation, "catalog", "find picture", "empty picture reference", nil)
	}

	rows, err := s.db.QueryContext(ctx, "SELECT "+pictureColumns+" FROM pics WHERE filename = ? ORDER BY valid DESC, id", ref)
	if err != nil {
		return nil, fmt.Errorf("find picture by filename: %w", err)
	}
	matches, err := collectPictures(rows)
	if err != nil {
		return nil, fmt.Errorf("scan pictures: %w", err)
	}

	if len(matches) == 0 && isHashPrefix(ref) {
		prefix := strings.ToLower(ref)
		rows, err = s.db.QueryContext(ctx, "SELECT "+pictureColumns+" FROM pics WHERE substr(sha3, 1, ?) = ? ORDER BY id", len(prefix), prefix)
		if err != nil {
			return nil, fmt.Errorf("find picture by hash: %w", err)
		}
		matches, err = collectPictures(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pictures: %w", err)
		}
	}

	switch len(matches) {
	case 0:
		return nil, services.Wrap(services.ErrNotFound, "catalog", "find picture", fmt.Sprintf("no picture matches %q", ref), nil)
	case 1:
		return &matches[0], nil
	default:
		return nil, services.Wrap(services.ErrValidation, "catalog", "find picture",
			fmt.Sprintf("%q matches %d pictures; use a longer hash prefix", ref, len(matches)), nil)
	}
}

// isHashPrefix reports whether ref is a hex string long enough to name a hash.
func isHashPrefix(ref string) bool {
	if len(ref) < minHashPrefix {
		return false
	}
	for _, r := range ref {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}

// Books lists the distinct books of valid pictures in lexicographic order.
func (s *Store) Books(ctx context.Context) ([]BookSummary, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT book, COUNT(1) FROM pics WHERE valid = 1 GROUP BY book ORDER BY book")
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()
	var out []BookSummary
	for rows.Next() {
		var b BookSummary
		if err := rows.Scan(&b.Name, &b.Pages); err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Tags lists all tag definitions by name.
func (s *Store) Tags(ctx context.Context) ([]Tag, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, COALESCE(type, 'str'), COALESCE(description, '') FROM tags ORDER BY name COLLATE NOCASE")
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()
	var out []Tag
	for rows.Next() {
		var tag Tag
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.Type, &tag.Description); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		out = append(out, tag)
	}
	return out, rows.Err()
}

// TagByName looks up a tag definition case-insensitively. It returns nil when absent.
func (s *Store) TagByName(ctx context.Context, name string) (*Tag, error) {
	return tagByName(ctx, s.db, name)
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func tagByName(ctx context.Context, q queryRower, name string) (*Tag, error) {
	var tag Tag
	err := q.QueryRowContext(ctx, "SELECT id, name, COALESCE(type, 'str'), COALESCE(description, '') FROM tags WHERE name = ?", strings.TrimSpace(name)).
		Scan(&tag.ID, &tag.Name, &tag.Type, &tag.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get tag: %w", err)
	}
	return &tag, nil
}

const tagValueQuery = `SELECT pic_tags.id, pic_tags.pic, pic_tags.tag, tags.name, tags.type, COALESCE(pic_tags.value, '')
	FROM pic_tags JOIN tags ON tags.id = pic_tags.tag`

func scanTagValues(rows *sql.Rows) ([]TagValue, error) {
	defer rows.Close()
	var out []TagValue
	for rows.Next() {
		var tv TagValue
		if err := rows.Scan(&tv.ID, &tv.PictureID, &tv.TagID, &tv.Tag, &tv.Type, &tv.Value); err != nil {
			return nil, err
		}
		out = append(out, tv)
	}
	return out, rows.Err()
}

// PictureTags lists every tag value of a picture, including empty ones, in creation order.
func (s *Store) PictureTags(ctx context.Context, pictureID int64) ([]TagValue, error) {
	rows, err := s.db.QueryContext(ctx, tagValueQuery+" WHERE pic_tags.pic = ? ORDER BY pic_tags.id", pictureID)
	if err != nil {
		return nil, fmt.Errorf("list picture tags: %w", err)
	}
	values, err := scanTagValues(rows)
	if err != nil {
		return nil, fmt.Errorf("scan picture tags: %w", err)
	}
	return values, nil
}

// Snapshot loads every valid picture ordered by book and page together with
// its non-empty tag values.
func (s *Store) Snapshot(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+pictureColumns+" FROM pics WHERE valid = 1 ORDER BY book, pgnum, prefix, id")
	if err != nil {
		return nil, fmt.Errorf("snapshot pictures: %w", err)
	}
	pics, err := collectPictures(rows)
	if err != nil {
		return nil, fmt.Errorf("scan pictures: %w", err)
	}

	index := make(map[int64]int, len(pics))
	entries := make([]Entry, len(pics))
	for i, pic := range pics {
		entries[i] = Entry{Picture: pic}
		index[pic.ID] = i
	}

	rows, err = s.db.QueryContext(ctx, tagValueQuery+
		" JOIN pics ON pics.id = pic_tags.pic WHERE pics.valid = 1 AND pic_tags.value IS NOT NULL AND pic_tags.value != '' ORDER BY pic_tags.id")
	if err != nil {
		return nil, fmt.Errorf("snapshot tags: %w", err)
	}
	values, err := scanTagValues(rows)
	if err != nil {
		return nil, fmt.Errorf("scan tags: %w", err)
	}
	for _, tv := range values {
		if i, ok := index[tv.PictureID]; ok {
			entries[i].Tags = append(entries[i].Tags, tv)
		}
	}
	return entries, nil
}
