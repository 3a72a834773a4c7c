package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// fileNameReplacer replaces filesystem-unsafe characters with safe alternatives.
var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// SanitizeFileName replaces filesystem-unsafe characters in a filename.
// Slashes, backslashes, colons, and asterisks become dashes; other unsafe
// characters are removed. The result is trimmed of leading/trailing whitespace.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return strings.TrimSpace(fileNameReplacer.Replace(name))
}

// foldReplacer spells out letters that have no decomposed form.
var foldReplacer = strings.NewReplacer(
	"ß", "ss",
	"æ", "ae",
	"Æ", "ae",
	"ø", "o",
	"Ø", "o",
	"œ", "oe",
	"Œ", "oe",
	"ł", "l",
	"Ł", "l",
)

// Fold strips diacritics so "Süße Speisen" becomes "Susse Speisen".
func Fold(value string) string {
	chain := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(chain, foldReplacer.Replace(value))
	if err != nil {
		return value
	}
	return folded
}

// SanitizeToken converts a string to a lowercase ASCII token usable in file
// names and URLs. Diacritics are folded, letters and digits are kept, every
// other run of characters collapses into a single hyphen. Returns "unknown"
// for input that has no usable characters.
func SanitizeToken(value string) string {
	value = strings.TrimSpace(Fold(value))
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(value) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		default:
			pendingDash = true
		}
	}
	if b.Len() == 0 {
		return "unknown"
	}
	return b.String()
}
