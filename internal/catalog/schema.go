package catalog

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema changes.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

func (s *Store) initSchema(ctx context.Context, create bool) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		if !create {
			return s.checkTables(ctx)
		}
		return s.createSchema(ctx)
	}

	var version int
	err = s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	if version != schemaVersion {
		return fmt.Errorf("%w: catalog has version %d, expected %d", ErrSchemaMismatch, version, schemaVersion)
	}
	return nil
}

// requiredColumns are the columns read by the generator and the tagging
// commands. Catalogs without a schema_version row are accepted read-only when
// they carry all of them.
var requiredColumns = []struct {
	table   string
	columns []string
}{
	{"pics", []string{"id", "filename", "prefix", "sha3", "pgnum", "path", "book", "category", "valid"}},
	{"tags", []string{"id", "type", "name", "description"}},
	{"pic_tags", []string{"id", "pic", "tag", "value"}},
}

func (s *Store) checkTables(ctx context.Context) error {
	for _, want := range requiredColumns {
		rows, err := s.db.QueryContext(ctx, "SELECT name FROM pragma_table_info(?)", want.table)
		if err != nil {
			return fmt.Errorf("inspect table %s: %w", want.table, err)
		}
		have := map[string]bool{}
		for rows.Next() {
			var name string
			if err := rows.Scan(&name); err != nil {
				rows.Close()
				return fmt.Errorf("inspect table %s: %w", want.table, err)
			}
			have[strings.ToLower(name)] = true
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return fmt.Errorf("inspect table %s: %w", want.table, err)
		}
		if len(have) == 0 {
			return fmt.Errorf("%w: catalog %s has no %s table (run 'scanshelf reindex' first)", ErrSchemaMismatch, s.path, want.table)
		}
		for _, column := range want.columns {
			if !have[column] {
				return fmt.Errorf("%w: catalog %s: table %s lacks column %s", ErrSchemaMismatch, s.path, want.table, column)
			}
		}
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := seedTags(ctx, tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}
