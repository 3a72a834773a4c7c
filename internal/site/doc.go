// Package site assembles the static HTML archive from a catalog snapshot.
//
// Assemble turns catalog entries into a navigable model: books in name order,
// per-book page lists ordered by page number, category listings, a title index
// and a doubly linked chain of detail pages. Render writes that model through
// the embedded templates:
//
//	index.html                    site index with every book and titled page
//	pages.html                    every page grouped by book
//	style.css
//	<book>/index.html             titled pages of the book
//	<book>/pages.html             all pages of the book
//	<book>/pages-<category>.html  one listing per category
//	<book>/pages/pg<N>.html       detail view with prev/next navigation
//
// Images and thumbnails are expected in <book>/images and <book>/thumbs.
package site
