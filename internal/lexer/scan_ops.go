package lexer

import (
	"splice/internal/diag"
	"splice/internal/token"
)

// scanPunct reads one punctuation character or an ASCII delimiter.
// Multi-character operators are never glued: `::` is two Punct tokens, the
// first one Joint.
func (lx *Lexer) scanPunct() token.Token {
	start := lx.cursor.Mark()
	ch := lx.cursor.Peek()

	switch ch {
	case '(', '[', '{':
		lx.cursor.Bump()
		return lx.emit(token.Open, start)
	case ')', ']', '}':
		lx.cursor.Bump()
		return lx.emit(token.Close, start)
	}

	if !token.IsPunctChar(ch) {
		lx.cursor.Bump()
		tok := lx.emit(token.Invalid, start)
		lx.errLex(diag.LexUnknownChar, tok.Span, "unknown character")
		return tok
	}

	lx.cursor.Bump()
	tok := lx.emit(token.Punct, start)
	if lx.joinsNext() {
		tok.Spacing = token.Joint
	}
	return tok
}

// joinsNext reports whether the byte at the cursor continues a punctuation
// run. A quote (char literal or lifetime) and a comment opener do not.
func (lx *Lexer) joinsNext() bool {
	next := lx.cursor.Peek()
	if next == '\'' || !token.IsPunctChar(next) {
		return false
	}
	if next == '/' {
		if after := lx.cursor.PeekAt(1); after == '/' || after == '*' {
			return false
		}
	}
	return true
}

// scanDelimiter reads the invisible delimiters « and ».
func (lx *Lexer) scanDelimiter() token.Token {
	start := lx.cursor.Mark()
	if lx.cursor.HasPrefix(token.InvisibleOpen) {
		lx.cursor.BumpN(uint32(len(token.InvisibleOpen)))
		return lx.emit(token.Open, start)
	}
	lx.cursor.BumpN(uint32(len(token.InvisibleClose)))
	return lx.emit(token.Close, start)
}
