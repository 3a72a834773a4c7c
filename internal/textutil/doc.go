// Package textutil provides text helpers for turning catalog values into safe
// file names and URL tokens.
//
// SanitizeToken is used for generated file names such as category listings,
// where "Süße Speisen" must become a stable ASCII token ("susse-speisen").
// SanitizeFileName only strips characters that are unsafe on common
// filesystems and keeps everything else as typed.
package textutil
