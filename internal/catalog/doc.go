// Package catalog persists scanned pictures, tag definitions and tag values
// in a SQLite database.
//
// The schema has three relations: pics (one row per distinct image content,
// keyed by its SHA3-256 digest), tags (definitions with a str or bool type)
// and pic_tags (values attaching tags to pictures). Reads go through Store;
// writes are grouped in Store.Update so a reindex or a tagging commit either
// lands completely or not at all.
package catalog
