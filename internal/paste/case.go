package paste

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Lower applies full Unicode lowercasing.
func Lower(s string) string {
	return cases.Lower(language.Und).String(s)
}

// Upper applies full Unicode uppercasing; "ß" becomes "SS".
func Upper(s string) string {
	return cases.Upper(language.Und).String(s)
}

// Snake inserts `_` before every uppercase letter not already preceded by
// `_`, then lowercases: "FooBar" -> "foo_bar", "ABC" -> "a_b_c".
func Snake(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 4)
	prev := '_'
	for _, ch := range s {
		if unicode.IsUpper(ch) && prev != '_' {
			sb.WriteByte('_')
		}
		sb.WriteRune(ch)
		prev = ch
	}
	return Lower(sb.String())
}

// Camel drops underscores and uppercases the letter after each one (and the
// first letter). A letter following an uppercase letter is lowercased, the
// rest are kept: "foo_bar" -> "FooBar", "FOO" -> "Foo".
// Snake and Camel are not inverses of each other.
func Camel(s string) string {
	upper := cases.Upper(language.Und)
	lower := cases.Lower(language.Und)
	var sb strings.Builder
	sb.Grow(len(s))
	prev := '_'
	for _, ch := range s {
		if ch != '_' {
			switch {
			case prev == '_':
				sb.WriteString(upper.String(string(ch)))
			case unicode.IsUpper(prev):
				sb.WriteString(lower.String(string(ch)))
			default:
				sb.WriteRune(ch)
			}
		}
		prev = ch
	}
	return sb.String()
}

// modifiers maps modifier names to their conversions.
var modifiers = map[string]func(string) string{
	"lower": Lower,
	"upper": Upper,
	"snake": Snake,
	"camel": Camel,
}
