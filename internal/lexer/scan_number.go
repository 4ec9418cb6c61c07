package lexer

import (
	"splice/internal/diag"
	"splice/internal/token"
)

// scanNumber reads an integer or float literal with an optional type suffix.
// Поддерживает: 0x.., 0b.., 0o.., десятичные, дробные, экспоненты, `_`.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()

	if lx.cursor.Peek() == '0' {
		var radix func(byte) bool
		switch lx.cursor.PeekAt(1) {
		case 'x', 'X':
			radix = isHex
		case 'b', 'B':
			radix = func(b byte) bool { return b == '0' || b == '1' }
		case 'o', 'O':
			radix = func(b byte) bool { return b >= '0' && b <= '7' }
		}
		if radix != nil {
			lx.cursor.BumpN(2)
			digits := lx.eatDigits(radix)
			if digits == 0 {
				lx.eatIdentContinue()
				tok := lx.emit(token.Literal, start)
				lx.errLex(diag.LexBadNumber, tok.Span, "expected digits after base prefix")
				return tok
			}
			lx.eatIdentContinue()
			return lx.emit(token.Literal, start)
		}
	}

	lx.eatDigits(isDec)

	// `1.2` is a float, `1..2` is a range, `1.foo` is a field or method access.
	if lx.cursor.Peek() == '.' {
		next := lx.cursor.PeekAt(1)
		switch {
		case isDec(next):
			lx.cursor.Bump()
			lx.eatDigits(isDec)
		case next == '.' || lx.atIdentStart(1):
		default:
			lx.cursor.Bump()
			return lx.emit(token.Literal, start)
		}
	}

	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		n := uint32(1)
		if s := lx.cursor.PeekAt(1); s == '+' || s == '-' {
			n = 2
		}
		if isDec(lx.cursor.PeekAt(n)) || lx.cursor.PeekAt(n) == '_' {
			lx.cursor.BumpN(n)
			lx.eatDigits(isDec)
		}
	}

	lx.eatIdentContinue()
	return lx.emit(token.Literal, start)
}

// eatDigits consumes digits accepted by ok and `_` separators, returning the
// number of real digits read.
func (lx *Lexer) eatDigits(ok func(byte) bool) int {
	count := 0
	for {
		b := lx.cursor.Peek()
		switch {
		case b == '_':
			lx.cursor.Bump()
		case ok(b):
			lx.cursor.Bump()
			count++
		default:
			return count
		}
	}
}
