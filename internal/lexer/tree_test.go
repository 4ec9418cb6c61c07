package lexer_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"splice/internal/diag"
	"splice/internal/lexer"
	"splice/internal/token"
)

func parse(t *testing.T, input string, docs bool) (token.Stream, *testReporter) {
	t.Helper()
	reporter := &testReporter{}
	_, stream := lexer.ParseString("test.rs", input, lexer.Options{Reporter: reporter, DocComments: docs})
	return stream, reporter
}

func TestParseNestsGroups(t *testing.T) {
	stream, reporter := parse(t, "a (b [c]) {}", false)
	if len(reporter.diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", reporter.ErrorMessages())
	}
	if len(stream) != 3 {
		t.Fatalf("expected 3 trees, got %d", len(stream))
	}
	paren := stream[1]
	if !paren.IsGroup(token.Parenthesis) || len(paren.Stream) != 2 {
		t.Fatalf("expected (b [c]), got %+v", paren)
	}
	if paren.Span.Start != 2 || paren.Span.End != 9 {
		t.Errorf("group span must cover both delimiters, got %v", paren.Span)
	}
	if inner := paren.Stream[1]; !inner.IsGroup(token.Bracket) || !inner.Stream[0].IsIdent("c") {
		t.Errorf("expected [c], got %+v", inner)
	}
	if brace := stream[2]; !brace.IsGroup(token.Brace) || len(brace.Stream) != 0 {
		t.Errorf("expected empty brace group, got %+v", brace)
	}
}

func TestParseInvisibleGroup(t *testing.T) {
	stream, _ := parse(t, "«x::y»", false)
	if len(stream) != 1 || !stream[0].IsGroup(token.None) || len(stream[0].Stream) != 4 {
		t.Fatalf("expected one invisible group of 4 tokens, got %+v", stream)
	}
}

func TestParseDelimiterErrors(t *testing.T) {
	tests := []struct {
		input  string
		codes  []diag.Code
		groups int
	}{
		{"(a", []diag.Code{diag.SynUnclosedDelimiter}, 1},
		{"a)", []diag.Code{diag.SynUnexpectedDelimiter}, 0},
		{"(a]", []diag.Code{diag.SynMismatchedDelimiter, diag.SynUnclosedDelimiter}, 1},
		{"([a)", []diag.Code{diag.SynUnclosedDelimiter}, 1},
	}
	for _, tt := range tests {
		stream, reporter := parse(t, tt.input, false)
		got := reporter.codes()
		if len(got) != len(tt.codes) {
			t.Errorf("%q: expected %v, got %v", tt.input, tt.codes, reporter.ErrorMessages())
			continue
		}
		for i := range got {
			if got[i] != tt.codes[i] {
				t.Errorf("%q: diagnostic %d: expected %s, got %s", tt.input, i, tt.codes[i].ID(), got[i].ID())
			}
		}
		groups := 0
		for _, tree := range stream {
			if tree.Kind == token.GroupTree {
				groups++
			}
		}
		if groups != tt.groups {
			t.Errorf("%q: expected %d top-level groups, got %d", tt.input, tt.groups, groups)
		}
	}
}

func TestParseRecoversNestedGroup(t *testing.T) {
	stream, _ := parse(t, "([a)", false)
	outer := stream[0]
	if !outer.IsGroup(token.Parenthesis) || len(outer.Stream) != 1 || !outer.Stream[0].IsGroup(token.Bracket) {
		t.Fatalf("expected ([a]), got %+v", outer)
	}
}

func TestDocCommentsDesugar(t *testing.T) {
	stream, _ := parse(t, "/// hi \"there\"\nfn", true)
	if len(stream) != 3 {
		t.Fatalf("expected # [..] fn, got %d trees", len(stream))
	}
	if !stream[0].IsPunct('#') {
		t.Errorf("expected #, got %+v", stream[0])
	}
	attr := stream[1]
	if !attr.IsGroup(token.Bracket) || len(attr.Stream) != 3 {
		t.Fatalf("expected [doc = ..], got %+v", attr)
	}
	if !attr.Stream[0].IsIdent("doc") || !attr.Stream[1].IsPunct('=') {
		t.Errorf("unexpected attribute head %+v", attr.Stream[:2])
	}
	if lit := attr.Stream[2]; lit.Kind != token.LiteralTree || lit.Text != `" hi \"there\""` {
		t.Errorf("unexpected doc literal %q", lit.Text)
	}
	if !stream[2].IsIdent("fn") {
		t.Errorf("expected fn, got %+v", stream[2])
	}
}

func TestInnerDocAndBlockDoc(t *testing.T) {
	stream, _ := parse(t, "//! top\n/** x */", true)
	if len(stream) != 5 {
		t.Fatalf("expected #![..] #[..], got %d trees", len(stream))
	}
	if !stream[0].IsJointPunct('#') || !stream[1].IsPunct('!') || !stream[2].IsGroup(token.Bracket) {
		t.Errorf("expected #![doc], got %+v", stream[:3])
	}
	if lit := stream[4].Stream[2]; lit.Text != `" x "` {
		t.Errorf("unexpected block doc literal %q", lit.Text)
	}
}

func TestDocCommentsKeptAsTrivia(t *testing.T) {
	stream, _ := parse(t, "/// hi\nfn", false)
	if len(stream) != 1 || !stream[0].IsIdent("fn") {
		t.Fatalf("expected only fn, got %+v", stream)
	}
}

func TestBuildMatchesParse(t *testing.T) {
	const input = "/// doc\nfn f() { [<a b>] } )"
	opts := lexer.Options{DocComments: true}
	fs, parsed := lexer.ParseString("test.rs", input, opts)

	tokens := lexer.New(fs.Get(0), opts).All()
	reporter := &testReporter{}
	opts.Reporter = reporter
	built := lexer.Build(tokens, opts)
	if diff := cmp.Diff(parsed, built); diff != "" {
		t.Fatalf("Build differs from Parse (-parse +build):\n%s", diff)
	}
	if codes := reporter.codes(); len(codes) != 1 || codes[0] != diag.SynUnexpectedDelimiter {
		t.Errorf("expected one unexpected-delimiter report, got %v", codes)
	}
	if got := lexer.Build(nil, lexer.Options{}); len(got) != 0 {
		t.Errorf("empty token list must build an empty stream, got %v", got)
	}
}
