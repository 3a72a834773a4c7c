// Package scan enumerates scanned page images and derives their catalog identity.
//
// A scan tree looks like
//
//	<base>/<book>/[<category>/]<prefix><series>-<index>.jpg
//
// Every file is identified by the SHA3-256 digest of its contents, so renaming
// or moving a scan keeps its catalog row and tags. Page numbers are assigned
// per filename prefix by sorting on the numeric (series, index) pair.
package scan
