package lexer

import (
	"splice/internal/source"
	"splice/internal/token"
)

type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	look   *token.Token   // 1 элементный буфер для токена
	hold   []token.Trivia // накопленные leading trivia
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
	}
}

// Next returns the next significant token with its Leading trivia attached.
// Trivia before the end of input is attached to the EOF token. After EOF it
// keeps returning EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	lx.collectLeadingTrivia()

	var tok token.Token
	if lx.cursor.EOF() {
		tok = token.Token{Kind: token.EOF, Span: lx.emptySpan()}
	} else {
		tok = lx.scan()
	}
	if len(lx.hold) > 0 {
		tok.Leading = append([]token.Trivia(nil), lx.hold...)
	}
	lx.hold = lx.hold[:0]
	return tok
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

// All lexes the remaining input, including the final EOF token.
func (lx *Lexer) All() []token.Token {
	var out []token.Token
	for {
		tok := lx.Next()
		out = append(out, tok)
		if tok.Kind == token.EOF {
			return out
		}
	}
}

func (lx *Lexer) scan() token.Token {
	ch := lx.cursor.Peek()
	switch {
	case ch == 'r' || ch == 'b' || ch == 'c':
		if tok, ok := lx.scanPrefixed(); ok {
			return tok
		}
		return lx.scanIdent()
	case isIdentStartByte(ch):
		return lx.scanIdent()
	case ch >= utf8RuneSelf:
		if lx.cursor.HasPrefix(token.InvisibleOpen) || lx.cursor.HasPrefix(token.InvisibleClose) {
			return lx.scanDelimiter()
		}
		return lx.scanIdent()
	case isDec(ch):
		return lx.scanNumber()
	case ch == '"':
		return lx.scanString(lx.cursor.Mark())
	case ch == '\'':
		return lx.scanQuote()
	default:
		return lx.scanPunct()
	}
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

func (lx *Lexer) text(sp source.Span) string {
	return string(lx.file.Content[sp.Start:sp.End])
}

func (lx *Lexer) emit(kind token.Kind, m Mark) token.Token {
	sp := lx.cursor.SpanFrom(m)
	return token.Token{Kind: kind, Span: sp, Text: lx.text(sp)}
}
