package lexer

import (
	"unicode"
	"unicode/utf8"
)

const utf8RuneSelf = utf8.RuneSelf

func isDec(b byte) bool { return b >= '0' && b <= '9' }

func isHex(b byte) bool {
	return isDec(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func isIdentStartByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentContinueByte(b byte) bool {
	return isIdentStartByte(b) || isDec(b)
}

func isIdentStartRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentContinueRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) ||
		unicode.In(r, unicode.Mn, unicode.Mc, unicode.Pc)
}

// peekRune decodes the rune at the cursor without consuming it.
func (lx *Lexer) peekRune() (r rune, size uint32) {
	if lx.cursor.EOF() {
		return utf8.RuneError, 0
	}
	r, n := utf8.DecodeRune(lx.file.Content[lx.cursor.Off:lx.cursor.Limit])
	return r, uint32(n) // #nosec G115 -- n <= utf8.UTFMax
}

// atIdentStart reports whether an identifier starts n bytes ahead.
func (lx *Lexer) atIdentStart(n uint32) bool {
	b := lx.cursor.PeekAt(n)
	if b < utf8RuneSelf {
		return isIdentStartByte(b)
	}
	off := lx.cursor.Off + n
	if off >= lx.cursor.Limit {
		return false
	}
	r, _ := utf8.DecodeRune(lx.file.Content[off:lx.cursor.Limit])
	return isIdentStartRune(r)
}

// eatIdentContinue consumes identifier continuation characters.
func (lx *Lexer) eatIdentContinue() {
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b < utf8RuneSelf {
			if !isIdentContinueByte(b) {
				return
			}
			lx.cursor.Bump()
			continue
		}
		r, n := lx.peekRune()
		if !isIdentContinueRune(r) {
			return
		}
		lx.cursor.BumpN(n)
	}
}
