package token

import (
	"splice/internal/source"
)

// Token represents a single flat source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Spacing Spacing // meaningful for Punct only
	Leading []Trivia
}

// IsPunct reports whether the token is the punctuation character ch.
func (t Token) IsPunct(ch byte) bool {
	return t.Kind == Punct && len(t.Text) == 1 && t.Text[0] == ch
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }
