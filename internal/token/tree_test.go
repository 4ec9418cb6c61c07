package token_test

import (
	"testing"

	"splice/internal/source"
	"splice/internal/token"
)

func sp(start, end uint32) source.Span {
	return source.Span{File: 0, Start: start, End: end}
}

func TestTreePredicates(t *testing.T) {
	colon := token.NewPunct(':', token.Joint, sp(0, 1))
	if !colon.IsPunct(':') || !colon.IsJointPunct(':') || colon.Char() != ':' {
		t.Fatalf("joint colon predicates failed: %+v", colon)
	}
	alone := token.NewPunct(':', token.Alone, sp(1, 2))
	if alone.IsJointPunct(':') {
		t.Fatal("alone colon must not be joint")
	}
	ident := token.NewIdent("env", sp(2, 5))
	if !ident.IsIdent("env") || ident.IsIdent("Env") || ident.IsPunct('e') || ident.Char() != 0 {
		t.Fatalf("ident predicates failed: %+v", ident)
	}
	group := token.NewGroup(token.None, token.Stream{ident}, sp(0, 10))
	if !group.IsGroup(token.None) || group.IsGroup(token.Bracket) {
		t.Fatal("group predicate failed")
	}
}

func TestStreamCloneIsDeep(t *testing.T) {
	inner := token.Stream{token.NewIdent("a", sp(1, 2))}
	s := token.Stream{token.NewGroup(token.Bracket, inner, sp(0, 3))}
	c := s.Clone()
	c[0].Stream[0].Text = "b"
	if s[0].Stream[0].Text != "a" {
		t.Fatal("Clone shares nested group storage")
	}
	if token.Stream(nil).Clone() != nil {
		t.Fatal("Clone(nil) must stay nil")
	}
}

func TestStreamSpanAndWalk(t *testing.T) {
	s := token.Stream{
		token.NewIdent("a", sp(4, 5)),
		token.NewGroup(token.Parenthesis, token.Stream{
			token.NewLiteral(`"x"`, sp(7, 10)),
		}, sp(6, 11)),
	}
	if got := s.Span(); got != sp(4, 11) {
		t.Errorf("Span() = %v", got)
	}

	var kinds []token.TreeKind
	s.Walk(func(tr token.Tree) bool {
		kinds = append(kinds, tr.Kind)
		return true
	})
	want := []token.TreeKind{token.IdentTree, token.GroupTree, token.LiteralTree}
	if len(kinds) != len(want) {
		t.Fatalf("Walk visited %v", kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("visit %d: got %v, want %v", i, kinds[i], want[i])
		}
	}
}

func TestDelimiterOf(t *testing.T) {
	cases := map[string]token.Delimiter{
		"(": token.Parenthesis, "}": token.Brace, "[": token.Bracket,
		token.InvisibleOpen: token.None, token.InvisibleClose: token.None,
	}
	for text, want := range cases {
		got, ok := token.DelimiterOf(text)
		if !ok || got != want {
			t.Errorf("DelimiterOf(%q) = %v, %v", text, got, ok)
		}
	}
	if _, ok := token.DelimiterOf("<"); ok {
		t.Error("'<' is not a delimiter")
	}
	if token.None.Open() != "" || token.Bracket.Close() != "]" {
		t.Error("delimiter text mismatch")
	}
}

func TestTriviaDocText(t *testing.T) {
	line := token.Trivia{Kind: token.TriviaDocLine, Text: "/// hello"}
	if line.DocText() != " hello" || line.IsInnerDoc() {
		t.Errorf("outer doc line: %q inner=%v", line.DocText(), line.IsInnerDoc())
	}
	inner := token.Trivia{Kind: token.TriviaDocLine, Text: "//! crate docs"}
	if !inner.IsInnerDoc() {
		t.Error("//! must be inner doc")
	}
	block := token.Trivia{Kind: token.TriviaDocBlock, Text: "/** block */"}
	if block.DocText() != " block " {
		t.Errorf("doc block text = %q", block.DocText())
	}
	plain := token.Trivia{Kind: token.TriviaLineComment, Text: "// no"}
	if plain.IsDoc() || plain.DocText() != "" {
		t.Error("plain comment is not a doc comment")
	}
}
