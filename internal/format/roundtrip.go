package format

import (
	"fmt"

	"splice/internal/diag"
	"splice/internal/lexer"
	"splice/internal/token"
)

// CheckRoundTrip prints s with invisible delimiters shown, lexes the text
// back and checks that the same token trees come out, ignoring spans.
func CheckRoundTrip(s token.Stream, opt Options) (ok bool, msg string) {
	opt.ShowInvisible = true
	text := String(s, opt)
	bag := diag.NewBag(16)
	_, again := lexer.ParseString("roundtrip", text, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	if bag.HasErrors() {
		return false, "fmt-check: reparse failed: " + bag.Items()[0].Message
	}
	if path, same := SameTokens(s, again); !same {
		return false, fmt.Sprintf("fmt-check: token %s differs after round-trip in %q", path, text)
	}
	return true, "fmt-check: OK"
}

// SameTokens compares two streams ignoring spans. On mismatch it returns the
// index path of the first differing tree, e.g. "2.0".
func SameTokens(a, b token.Stream) (string, bool) {
	for i := range max(len(a), len(b)) {
		if i >= len(a) || i >= len(b) {
			return fmt.Sprint(i), false
		}
		x, y := a[i], b[i]
		if x.Kind != y.Kind || x.Text != y.Text || x.Delim != y.Delim {
			return fmt.Sprint(i), false
		}
		if x.Kind == token.PunctTree && x.Spacing != y.Spacing {
			return fmt.Sprint(i), false
		}
		if x.Kind == token.GroupTree {
			if path, same := SameTokens(x.Stream, y.Stream); !same {
				return fmt.Sprintf("%d.%s", i, path), false
			}
		}
	}
	return "", true
}
