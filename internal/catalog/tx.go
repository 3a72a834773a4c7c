package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"scanshelf/internal/services"
)

// Tx exposes catalog mutations bound to one transaction. Obtain it through Store.Update.
type Tx struct {
	tx *sql.Tx
}

func seedTags(ctx context.Context, tx *sql.Tx) error {
	for _, def := range seedTagDefs {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO tags (type, name, description) VALUES (?, ?, ?) ON CONFLICT(name) DO NOTHING",
			string(def.kind), def.name, def.description,
		); err != nil {
			return fmt.Errorf("seed tag %s: %w", def.name, err)
		}
	}
	return nil
}

// SeedTags inserts the built-in tag definitions that are missing.
func (t *Tx) SeedTags(ctx context.Context) error {
	return seedTags(ctx, t.tx)
}

// InvalidateAll marks every picture as disappeared.
func (t *Tx) InvalidateAll(ctx context.Context) error {
	if _, err := t.tx.ExecContext(ctx, "UPDATE pics SET valid = 0"); err != nil {
		return fmt.Errorf("invalidate pictures: %w", err)
	}
	return nil
}

// DeleteTagValues removes every value of the named tags from all pictures.
func (t *Tx) DeleteTagValues(ctx context.Context, names ...string) error {
	for _, name := range names {
		if _, err := t.tx.ExecContext(ctx,
			"DELETE FROM pic_tags WHERE tag IN (SELECT id FROM tags WHERE name = ?)", name,
		); err != nil {
			return fmt.Errorf("delete %s values: %w", name, err)
		}
	}
	return nil
}

// UpsertPicture inserts or refreshes a picture keyed by its content hash,
// marks it valid and returns its id.
func (t *Tx) UpsertPicture(ctx context.Context, pic Picture) (int64, error) {
	var id int64
	err := t.tx.QueryRowContext(ctx, `INSERT INTO pics (filename, prefix, sha3, path, book, category, valid)
		VALUES (?, ?, ?, ?, ?, ?, 1)
		ON CONFLICT(sha3) DO UPDATE SET
			filename = excluded.filename,
			prefix = excluded.prefix,
			path = excluded.path,
			book = excluded.book,
			category = excluded.category,
			valid = 1
		RETURNING id`,
		pic.Filename, pic.Prefix, pic.Hash, pic.Path, pic.Book, nullableString(pic.Category),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upsert picture %s: %w", pic.Filename, err)
	}
	return id, nil
}

// SetPage stores the page number of a picture.
func (t *Tx) SetPage(ctx context.Context, pictureID int64, page int) error {
	if _, err := t.tx.ExecContext(ctx, "UPDATE pics SET pgnum = ? WHERE id = ?", page, pictureID); err != nil {
		return fmt.Errorf("set page: %w", err)
	}
	return nil
}

// TagByName looks up a tag definition inside the transaction.
func (t *Tx) TagByName(ctx context.Context, name string) (*Tag, error) {
	return tagByName(ctx, t.tx, name)
}

// DefineTag creates a tag definition or updates the type and description of an existing one.
func (t *Tx) DefineTag(ctx context.Context, tag Tag) (*Tag, error) {
	name := strings.TrimSpace(tag.Name)
	if name == "" {
		return nil, services.Wrap(services.ErrValidation, "catalog", "define tag", "tag name is empty", nil)
	}
	if tag.Type != TagText && tag.Type != TagBool {
		return nil, services.Wrap(services.ErrValidation, "catalog", "define tag",
			fmt.Sprintf("tag type %q must be %q or %q", tag.Type, TagText, TagBool), nil)
	}
	if _, err := t.tx.ExecContext(ctx, `INSERT INTO tags (type, name, description) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET type = excluded.type, description = excluded.description`,
		string(tag.Type), name, tag.Description,
	); err != nil {
		return nil, fmt.Errorf("define tag %s: %w", name, err)
	}
	return tagByName(ctx, t.tx, name)
}

// AddTagValue attaches a new value of tagID to a picture and returns the value id.
func (t *Tx) AddTagValue(ctx context.Context, pictureID, tagID int64, value string) (int64, error) {
	res, err := t.tx.ExecContext(ctx, "INSERT INTO pic_tags (pic, tag, value) VALUES (?, ?, ?)", pictureID, tagID, value)
	if err != nil {
		return 0, fmt.Errorf("add tag value: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("tag value id: %w", err)
	}
	return id, nil
}

// UpdateTagValue replaces the value stored under valueID.
func (t *Tx) UpdateTagValue(ctx context.Context, valueID int64, value string) error {
	res, err := t.tx.ExecContext(ctx, "UPDATE pic_tags SET value = ? WHERE id = ?", value, valueID)
	if err != nil {
		return fmt.Errorf("update tag value: %w", err)
	}
	return requireAffected(res, "update tag value", valueID)
}

// DeleteTagValue removes the value stored under valueID.
func (t *Tx) DeleteTagValue(ctx context.Context, valueID int64) error {
	res, err := t.tx.ExecContext(ctx, "DELETE FROM pic_tags WHERE id = ?", valueID)
	if err != nil {
		return fmt.Errorf("delete tag value: %w", err)
	}
	return requireAffected(res, "delete tag value", valueID)
}

func requireAffected(res sql.Result, op string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return services.Wrap(services.ErrNotFound, "catalog", op, fmt.Sprintf("tag value %d does not exist", id), nil)
	}
	return nil
}
