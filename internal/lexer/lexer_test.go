package lexer_test

import (
	"fmt"
	"strings"
	"testing"

	"splice/internal/diag"
	"splice/internal/lexer"
	"splice/internal/source"
	"splice/internal/token"
)

// testReporter собирает все диагностики, полученные от лексера
type testReporter struct {
	diagnostics []diag.Diagnostic
}

func (r *testReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note) {
	r.diagnostics = append(r.diagnostics, diag.Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  msg,
		Primary:  primary,
		Notes:    notes,
	})
}

func (r *testReporter) codes() []diag.Code {
	out := make([]diag.Code, 0, len(r.diagnostics))
	for _, d := range r.diagnostics {
		out = append(out, d.Code)
	}
	return out
}

func (r *testReporter) ErrorMessages() []string {
	messages := make([]string, 0, len(r.diagnostics))
	for _, d := range r.diagnostics {
		messages = append(messages, fmt.Sprintf("[%s] %s: %s", d.Code.ID(), d.Severity, d.Message))
	}
	return messages
}

func makeTestLexer(input string) (*lexer.Lexer, *testReporter) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.rs", []byte(input))
	reporter := &testReporter{}
	return lexer.New(fs.Get(fileID), lexer.Options{Reporter: reporter}), reporter
}

// lexAll возвращает токены без EOF
func lexAll(input string) ([]token.Token, *testReporter) {
	lx, reporter := makeTestLexer(input)
	tokens := lx.All()
	return tokens[:len(tokens)-1], reporter
}

func tokensToString(tokens []token.Token) string {
	parts := make([]string, len(tokens))
	for i, tok := range tokens {
		parts[i] = fmt.Sprintf("%v(%q)", tok.Kind, tok.Text)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func expectSingleToken(t *testing.T, input string, kind token.Kind, text string) {
	t.Helper()
	tokens, reporter := lexAll(input)
	if len(tokens) != 1 {
		t.Fatalf("%q: expected 1 token, got %s (errors: %v)", input, tokensToString(tokens), reporter.ErrorMessages())
	}
	if tokens[0].Kind != kind || tokens[0].Text != text {
		t.Errorf("%q: expected %v(%q), got %v(%q)", input, kind, text, tokens[0].Kind, tokens[0].Text)
	}
	if len(reporter.diagnostics) != 0 {
		t.Errorf("%q: unexpected diagnostics %v", input, reporter.ErrorMessages())
	}
}

func TestIdentifiers(t *testing.T) {
	for _, input := range []string{"foo", "_", "_private", "Foo42", "r#type", "r", "b", "br", "c", "привет", "r#fn"} {
		expectSingleToken(t, input, token.Ident, input)
	}
}

func TestLiterals(t *testing.T) {
	tests := []string{
		`"plain"`,
		`"esc\"aped\\"`,
		"\"multi\nline\"",
		`r"raw"`,
		`r#"has "quotes""#`,
		`br##"a"#b"##`,
		`b"bytes"`,
		`c"cstr"`,
		`cr#"raw c"#`,
		`'a'`,
		`'\n'`,
		`'\''`,
		`'\u{1F600}'`,
		`'я'`,
		`b'x'`,
		`b'\x7f'`,
		"1",
		"1u8",
		"1_000",
		"1.5",
		"1.5e10f64",
		"2E-3",
		"0x_FF",
		"0b1010i32",
		"0o17",
		"1.",
		`"suffix"ident`,
	}
	for _, input := range tests {
		expectSingleToken(t, input, token.Literal, input)
	}
}

func TestNumbersNextToDots(t *testing.T) {
	tokens, _ := lexAll("1..2 x.0 1.max")
	want := []string{"1", ".", ".", "2", "x", ".", "0", "1", ".", "max"}
	if len(tokens) != len(want) {
		t.Fatalf("expected %d tokens, got %s", len(want), tokensToString(tokens))
	}
	for i, tok := range tokens {
		if tok.Text != want[i] {
			t.Errorf("token %d: expected %q, got %q", i, want[i], tok.Text)
		}
	}
}

func TestPunctSpacing(t *testing.T) {
	tests := []struct {
		input string
		want  []token.Spacing
	}{
		{"::", []token.Spacing{token.Joint, token.Alone}},
		{": :", []token.Spacing{token.Alone, token.Alone}},
		{"->", []token.Spacing{token.Joint, token.Alone}},
		{"#!", []token.Spacing{token.Joint, token.Alone}},
		{"+=;", []token.Spacing{token.Joint, token.Joint, token.Alone}},
		{"&'a", []token.Spacing{token.Alone, token.Joint}},
		{"=// c", []token.Spacing{token.Alone}},
		{",)", []token.Spacing{token.Alone}},
	}
	for _, tt := range tests {
		tokens, _ := lexAll(tt.input)
		var got []token.Spacing
		for _, tok := range tokens {
			if tok.Kind == token.Punct {
				got = append(got, tok.Spacing)
			}
		}
		if fmt.Sprint(got) != fmt.Sprint(tt.want) {
			t.Errorf("%q: expected spacing %v, got %v (%s)", tt.input, tt.want, got, tokensToString(tokens))
		}
	}
}

func TestLifetime(t *testing.T) {
	tokens, reporter := lexAll("'static 'a'")
	if len(reporter.diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", reporter.ErrorMessages())
	}
	if len(tokens) != 3 {
		t.Fatalf("expected 3 tokens, got %s", tokensToString(tokens))
	}
	if !tokens[0].IsPunct('\'') || tokens[0].Spacing != token.Joint {
		t.Errorf("expected joint quote, got %v(%q) %v", tokens[0].Kind, tokens[0].Text, tokens[0].Spacing)
	}
	if tokens[1].Kind != token.Ident || tokens[1].Text != "static" {
		t.Errorf("expected lifetime name, got %v(%q)", tokens[1].Kind, tokens[1].Text)
	}
	if tokens[2].Kind != token.Literal || tokens[2].Text != "'a'" {
		t.Errorf("expected char literal, got %v(%q)", tokens[2].Kind, tokens[2].Text)
	}
}

func TestDelimiters(t *testing.T) {
	tokens, _ := lexAll("([{«x»}])")
	kinds := []token.Kind{token.Open, token.Open, token.Open, token.Open, token.Ident, token.Close, token.Close, token.Close, token.Close}
	if len(tokens) != len(kinds) {
		t.Fatalf("expected %d tokens, got %s", len(kinds), tokensToString(tokens))
	}
	for i, tok := range tokens {
		if tok.Kind != kinds[i] {
			t.Errorf("token %d: expected %v, got %v", i, kinds[i], tok.Kind)
		}
	}
	if tokens[3].Text != token.InvisibleOpen || tokens[5].Text != token.InvisibleClose {
		t.Errorf("invisible delimiters lexed as %q and %q", tokens[3].Text, tokens[5].Text)
	}
}

func TestTrivia(t *testing.T) {
	lx, _ := makeTestLexer("/// doc\n//// plain\n//! inner\n/** block */ /*! in */ /*** no */ foo // tail")
	tok := lx.Next()
	if tok.Kind != token.Ident || tok.Text != "foo" {
		t.Fatalf("expected foo, got %v(%q)", tok.Kind, tok.Text)
	}
	var kinds []token.TriviaKind
	for _, tr := range tok.Leading {
		if tr.Kind != token.TriviaSpace && tr.Kind != token.TriviaNewline {
			kinds = append(kinds, tr.Kind)
		}
	}
	want := []token.TriviaKind{
		token.TriviaDocLine, token.TriviaLineComment, token.TriviaDocLine,
		token.TriviaDocBlock, token.TriviaDocBlock, token.TriviaBlockComment,
	}
	if fmt.Sprint(kinds) != fmt.Sprint(want) {
		t.Errorf("expected trivia %v, got %v", want, kinds)
	}

	eof := lx.Next()
	if eof.Kind != token.EOF {
		t.Fatalf("expected EOF, got %v", eof.Kind)
	}
	if n := len(eof.Leading); n != 2 || eof.Leading[1].Kind != token.TriviaLineComment {
		t.Errorf("expected trailing comment on EOF, got %+v", eof.Leading)
	}
}

func TestNestedBlockComment(t *testing.T) {
	expectSingleToken(t, "/* a /* b */ c */ x", token.Ident, "x")
}

func TestLexErrors(t *testing.T) {
	tests := []struct {
		input string
		code  diag.Code
	}{
		{`"open`, diag.LexUnterminatedString},
		{`r#"open`, diag.LexUnterminatedString},
		{`r##x`, diag.LexBadRawString},
		{"/* open", diag.LexUnterminatedBlockComment},
		{"`", diag.LexUnknownChar},
		{"' ", diag.LexBadLifetime},
		{"'\\n", diag.LexUnterminatedChar},
		{"0x", diag.LexBadNumber},
	}
	for _, tt := range tests {
		_, reporter := lexAll(tt.input)
		codes := reporter.codes()
		if len(codes) != 1 || codes[0] != tt.code {
			t.Errorf("%q: expected [%s], got %v", tt.input, tt.code.ID(), reporter.ErrorMessages())
		}
	}
}

func TestSpans(t *testing.T) {
	tokens, _ := lexAll("ab  'c'")
	if tokens[0].Span.Start != 0 || tokens[0].Span.End != 2 {
		t.Errorf("ident span %v", tokens[0].Span)
	}
	if tokens[1].Span.Start != 4 || tokens[1].Span.End != 7 {
		t.Errorf("char span %v", tokens[1].Span)
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	lx, _ := makeTestLexer("a b")
	if p := lx.Peek(); p.Text != "a" {
		t.Fatalf("peek: %q", p.Text)
	}
	if n := lx.Next(); n.Text != "a" {
		t.Fatalf("next after peek: %q", n.Text)
	}
	if n := lx.Next(); n.Text != "b" {
		t.Fatalf("second: %q", n.Text)
	}
	if n := lx.Next(); n.Kind != token.EOF {
		t.Fatalf("expected EOF, got %v", n.Kind)
	}
	if n := lx.Next(); n.Kind != token.EOF {
		t.Fatalf("EOF must repeat, got %v", n.Kind)
	}
}
