package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"splice/internal/source"
	"splice/internal/token"
)

// SpanJSON is a raw span.
type SpanJSON struct {
	File  uint32 `json:"file"`
	Start uint32 `json:"start"`
	End   uint32 `json:"end"`
}

func spanJSON(sp source.Span) SpanJSON {
	return SpanJSON{File: uint32(sp.File), Start: sp.Start, End: sp.End}
}

// TokenOutput is one flat token.
type TokenOutput struct {
	Kind    string   `json:"kind"`
	Text    string   `json:"text,omitempty"`
	Span    SpanJSON `json:"span"`
	Spacing string   `json:"spacing,omitempty"`
	Leading []string `json:"leading,omitempty"`
}

// TreeOutput is one token tree with its children.
type TreeOutput struct {
	Kind     string       `json:"kind"`
	Text     string       `json:"text,omitempty"`
	Span     SpanJSON     `json:"span"`
	Spacing  string       `json:"spacing,omitempty"`
	Delim    string       `json:"delim,omitempty"`
	Children []TreeOutput `json:"children,omitempty"`
}

func leadingKinds(tok token.Token) []string {
	var out []string
	for _, tr := range tok.Leading {
		out = append(out, tr.Kind.String())
	}
	return out
}

// FormatTokensPretty prints one flat token per line with its position.
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	for i, tok := range tokens {
		start, end := fs.Resolve(tok.Span)
		var b strings.Builder
		fmt.Fprintf(&b, "%3d: %-8s", i+1, tok.Kind)
		if tok.Text != "" {
			fmt.Fprintf(&b, " %q", tok.Text)
		}
		if tok.Kind == token.Punct {
			fmt.Fprintf(&b, " %s", tok.Spacing)
		}
		fmt.Fprintf(&b, " at %d:%d-%d:%d", start.Line, start.Col, end.Line, end.Col)
		if lead := leadingKinds(tok); len(lead) > 0 {
			fmt.Fprintf(&b, " (leading: %s)", strings.Join(lead, ", "))
		}
		if _, err := fmt.Fprintln(w, b.String()); err != nil {
			return err
		}
		if tok.Kind == token.EOF {
			break
		}
	}
	return nil
}

// FormatTokensJSON writes flat tokens as a JSON array.
func FormatTokensJSON(w io.Writer, tokens []token.Token) error {
	out := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		to := TokenOutput{
			Kind:    tok.Kind.String(),
			Text:    tok.Text,
			Span:    spanJSON(tok.Span),
			Leading: leadingKinds(tok),
		}
		if tok.Kind == token.Punct {
			to.Spacing = tok.Spacing.String()
		}
		out = append(out, to)
		if tok.Kind == token.EOF {
			break
		}
	}
	return encodeIndented(w, out)
}

// BuildTreeOutput converts a stream into its JSON shape.
func BuildTreeOutput(s token.Stream) []TreeOutput {
	out := make([]TreeOutput, 0, len(s))
	for _, tr := range s {
		to := TreeOutput{Kind: tr.Kind.String(), Span: spanJSON(tr.Span)}
		switch tr.Kind {
		case token.GroupTree:
			to.Delim = tr.Delim.String()
			to.Children = BuildTreeOutput(tr.Stream)
		case token.PunctTree:
			to.Text = tr.Text
			to.Spacing = tr.Spacing.String()
		default:
			to.Text = tr.Text
		}
		out = append(out, to)
	}
	return out
}

// FormatTreeJSON writes a token stream as nested JSON.
func FormatTreeJSON(w io.Writer, s token.Stream) error {
	return encodeIndented(w, BuildTreeOutput(s))
}

// FormatTreePretty prints a token stream as an indented outline.
func FormatTreePretty(w io.Writer, s token.Stream, fs *source.FileSet) error {
	var b strings.Builder
	writeTree(&b, s, fs, 0)
	_, err := io.WriteString(w, b.String())
	return err
}

func writeTree(b *strings.Builder, s token.Stream, fs *source.FileSet, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, tr := range s {
		pos := ""
		if fs != nil {
			start, _ := fs.Resolve(tr.Span)
			pos = fmt.Sprintf(" @%d:%d", start.Line, start.Col)
		}
		switch tr.Kind {
		case token.GroupTree:
			fmt.Fprintf(b, "%sGroup %s%s\n", indent, tr.Delim, pos)
			writeTree(b, tr.Stream, fs, depth+1)
		case token.PunctTree:
			fmt.Fprintf(b, "%sPunct %q %s%s\n", indent, tr.Text, tr.Spacing, pos)
		default:
			fmt.Fprintf(b, "%s%s %q%s\n", indent, tr.Kind, tr.Text, pos)
		}
	}
}

func encodeIndented(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
