package lexer

import (
	"splice/internal/diag"
	"splice/internal/token"
)

// scanIdent читает идентификатор (ASCII или Unicode letter/digit/_).
func (lx *Lexer) scanIdent() token.Token {
	start := lx.cursor.Mark()
	r, n := lx.peekRune()
	if !isIdentStartRune(r) {
		lx.cursor.BumpN(max(n, 1))
		tok := lx.emit(token.Invalid, start)
		lx.errLex(diag.LexUnknownChar, tok.Span, "unknown character")
		return tok
	}
	lx.cursor.BumpN(n)
	lx.eatIdentContinue()
	return lx.emit(token.Ident, start)
}

// scanPrefixed handles tokens that start with r, b or c but are not plain
// identifiers: raw identifiers (r#name) and prefixed string, byte and raw
// string literals. ok is false when the input is an ordinary identifier.
func (lx *Lexer) scanPrefixed() (tok token.Token, ok bool) {
	start := lx.cursor.Mark()
	b0 := lx.cursor.Peek()
	b1 := lx.cursor.PeekAt(1)

	switch b0 {
	case 'r':
		switch {
		case b1 == '"':
			return lx.scanRawString(start, 1), true
		case b1 == '#' && lx.cursor.PeekAt(2) != '#' && lx.cursor.PeekAt(2) != '"':
			if !lx.atIdentStart(2) {
				return token.Token{}, false
			}
			lx.cursor.BumpN(2)
			lx.scanIdentBody()
			return lx.emit(token.Ident, start), true
		case b1 == '#':
			return lx.scanRawString(start, 1), true
		}
	case 'b':
		switch {
		case b1 == '"':
			lx.cursor.Bump()
			return lx.scanString(start), true
		case b1 == '\'':
			lx.cursor.Bump()
			return lx.scanChar(start), true
		case b1 == 'r' && (lx.cursor.PeekAt(2) == '"' || lx.cursor.PeekAt(2) == '#'):
			return lx.scanRawString(start, 2), true
		}
	case 'c':
		switch {
		case b1 == '"':
			lx.cursor.Bump()
			return lx.scanString(start), true
		case b1 == 'r' && (lx.cursor.PeekAt(2) == '"' || lx.cursor.PeekAt(2) == '#'):
			return lx.scanRawString(start, 2), true
		}
	}
	return token.Token{}, false
}

func (lx *Lexer) scanIdentBody() {
	_, n := lx.peekRune()
	lx.cursor.BumpN(n)
	lx.eatIdentContinue()
}
