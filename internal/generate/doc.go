// Package generate renders the catalog into a zipped static site.
//
// A run hashes the scan tree, matches files to catalog rows by content hash,
// copies and thumbnails the images into a per-run staging tree, renders the
// HTML pages and packs everything into one archive. Catalog rows whose file
// cannot be found are reported and left out; everything else is fatal.
package generate
