package corpora_test

import (
	"strings"
	"testing"

	"github.com/fatih/color"

	"splice/internal/corpora"
)

func TestDiff(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	if d := corpora.Diff("same\n", "same\n"); d != "" {
		t.Fatalf("expected no diff, got %q", d)
	}
	d := corpora.Diff("a\nc\n", "a\nb\n")
	for _, want := range []string{"--- want", "+++ got", "-b", "+c"} {
		if !strings.Contains(d, want) {
			t.Errorf("diff missing %q:\n%s", want, d)
		}
	}
}
