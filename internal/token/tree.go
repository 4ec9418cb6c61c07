package token

import (
	"splice/internal/source"
)

// Tree is one token tree: an identifier, literal, punctuation character or a
// delimited group. Only the fields relevant to Kind are set.
type Tree struct {
	Kind    TreeKind
	Span    source.Span
	Text    string    // Ident and Literal text; the character for Punct
	Spacing Spacing   // Punct only
	Delim   Delimiter // Group only
	Stream  Stream    // Group only
}

// Stream is an ordered sequence of token trees.
type Stream []Tree

func NewIdent(text string, span source.Span) Tree {
	return Tree{Kind: IdentTree, Text: text, Span: span}
}

func NewLiteral(text string, span source.Span) Tree {
	return Tree{Kind: LiteralTree, Text: text, Span: span}
}

func NewPunct(ch rune, spacing Spacing, span source.Span) Tree {
	return Tree{Kind: PunctTree, Text: string(ch), Spacing: spacing, Span: span}
}

func NewGroup(delim Delimiter, stream Stream, span source.Span) Tree {
	return Tree{Kind: GroupTree, Delim: delim, Stream: stream, Span: span}
}

// IsPunct reports whether t is the punctuation character ch.
func (t Tree) IsPunct(ch byte) bool {
	return t.Kind == PunctTree && len(t.Text) == 1 && t.Text[0] == ch
}

// IsJointPunct reports whether t is ch with Joint spacing.
func (t Tree) IsJointPunct(ch byte) bool {
	return t.IsPunct(ch) && t.Spacing == Joint
}

// IsIdent reports whether t is an identifier spelled text.
func (t Tree) IsIdent(text string) bool {
	return t.Kind == IdentTree && t.Text == text
}

// IsGroup reports whether t is a group with the given delimiter.
func (t Tree) IsGroup(delim Delimiter) bool {
	return t.Kind == GroupTree && t.Delim == delim
}

// Char returns the punctuation character, or 0 when t is not a Punct.
func (t Tree) Char() byte {
	if t.Kind != PunctTree || len(t.Text) == 0 {
		return 0
	}
	return t.Text[0]
}

// Clone returns a deep copy of the stream; nested group streams are copied too.
func (s Stream) Clone() Stream {
	if s == nil {
		return nil
	}
	out := make(Stream, len(s))
	for i, t := range s {
		if t.Kind == GroupTree {
			t.Stream = t.Stream.Clone()
		}
		out[i] = t
	}
	return out
}

// Span returns the span covering every tree in the stream. It is the zero span
// for an empty stream.
func (s Stream) Span() source.Span {
	if len(s) == 0 {
		return source.Span{}
	}
	sp := s[0].Span
	for _, t := range s[1:] {
		sp = sp.Cover(t.Span)
	}
	return sp
}

// Walk calls fn for every tree in depth-first order, entering groups after
// visiting them. Returning false from fn skips the group's contents.
func (s Stream) Walk(fn func(Tree) bool) {
	for _, t := range s {
		if fn(t) && t.Kind == GroupTree {
			t.Stream.Walk(fn)
		}
	}
}
