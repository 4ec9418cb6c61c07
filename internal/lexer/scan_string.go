package lexer

import (
	"splice/internal/diag"
	"splice/internal/token"
)

// scanString reads "..." with escapes; the opening quote is at the cursor and
// start may precede it to cover a b or c prefix. A type suffix is kept.
func (lx *Lexer) scanString(start Mark) token.Token {
	lx.cursor.Bump() // opening "
	for {
		if lx.cursor.EOF() {
			tok := lx.emit(token.Literal, start)
			lx.errLex(diag.LexUnterminatedString, tok.Span, "unterminated string literal")
			return tok
		}
		switch lx.cursor.Bump() {
		case '\\':
			lx.cursor.Bump()
		case '"':
			lx.eatIdentContinue()
			return lx.emit(token.Literal, start)
		}
	}
}

// scanRawString reads r#"..."#, br"...", cr##"..."## and friends. prefix is
// the number of letters before the hashes.
func (lx *Lexer) scanRawString(start Mark, prefix uint32) token.Token {
	lx.cursor.BumpN(prefix)
	hashes := 0
	for lx.cursor.Eat('#') {
		hashes++
	}
	if !lx.cursor.Eat('"') {
		tok := lx.emit(token.Invalid, start)
		lx.errLex(diag.LexBadRawString, tok.Span, "expected `\"` in raw string literal")
		return tok
	}
	for !lx.cursor.EOF() {
		if lx.cursor.Bump() != '"' {
			continue
		}
		n := 0
		for n < hashes && lx.cursor.Peek() == '#' {
			lx.cursor.Bump()
			n++
		}
		if n == hashes {
			lx.eatIdentContinue()
			return lx.emit(token.Literal, start)
		}
	}
	tok := lx.emit(token.Literal, start)
	lx.errLex(diag.LexUnterminatedString, tok.Span, "unterminated raw string literal")
	return tok
}

// scanQuote distinguishes char literals from lifetimes. A lifetime yields
// only the `'` punct (always Joint); its name is lexed as the next Ident.
func (lx *Lexer) scanQuote() token.Token {
	start := lx.cursor.Mark()
	if lx.cursor.PeekAt(1) == '\\' {
		return lx.scanChar(start)
	}

	lx.cursor.Bump()
	r, n := lx.peekRune()
	if n > 0 && r != '\'' && lx.cursor.PeekAt(n) == '\'' {
		lx.cursor.Reset(start)
		return lx.scanChar(start)
	}
	if n > 0 && isIdentStartRune(r) {
		tok := lx.emit(token.Punct, start)
		tok.Spacing = token.Joint
		return tok
	}
	tok := lx.emit(token.Invalid, start)
	lx.errLex(diag.LexBadLifetime, tok.Span, "expected a lifetime name or character literal after `'`")
	return tok
}

// scanChar reads '...' with the opening quote at the cursor; start may cover a b prefix.
func (lx *Lexer) scanChar(start Mark) token.Token {
	lx.cursor.Bump() // opening '
	switch lx.cursor.Peek() {
	case '\\':
		lx.cursor.Bump()
		esc := lx.cursor.Bump()
		switch esc {
		case 'x':
			lx.cursor.BumpN(2)
		case 'u':
			for !lx.cursor.EOF() && lx.cursor.Peek() != '}' && lx.cursor.Peek() != '\'' {
				lx.cursor.Bump()
			}
			lx.cursor.Eat('}')
		}
	case '\'', '\n', 0:
	default:
		_, n := lx.peekRune()
		if n == 0 {
			n = 1
		}
		lx.cursor.BumpN(n)
	}
	if !lx.cursor.Eat('\'') {
		tok := lx.emit(token.Literal, start)
		lx.errLex(diag.LexUnterminatedChar, tok.Span, "unterminated character literal")
		return tok
	}
	lx.eatIdentContinue()
	return lx.emit(token.Literal, start)
}

