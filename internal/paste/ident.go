package paste

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// ValidIdent reports whether s spells an identifier: `_` or a letter first,
// then letters, digits, combining marks and connector punctuation. Keywords
// are accepted; a lone `_` is valid.
func ValidIdent(s string) bool {
	if s == "" || !utf8.ValidString(s) {
		return false
	}
	for i, r := range s {
		if i == 0 {
			if r != '_' && !unicode.IsLetter(r) {
				return false
			}
			continue
		}
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.In(r, unicode.Mn, unicode.Mc, unicode.Pc) {
			return false
		}
	}
	return true
}

// normalizeIdent returns s in Unicode normalization form C.
func normalizeIdent(s string) string {
	return norm.NFC.String(s)
}
