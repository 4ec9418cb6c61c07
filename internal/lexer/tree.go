package lexer

import (
	"splice/internal/diag"
	"splice/internal/source"
	"splice/internal/token"
)

// Parse lexes file and nests its tokens into a token stream. Delimiter errors
// are reported through opts.Reporter; unclosed groups are closed at end of
// input and stray closers are dropped, so a stream is always returned.
func Parse(file *source.File, opts Options) token.Stream {
	lx := New(file, opts)
	b := treeBuilder{next: lx.Next, opts: opts}
	return b.build()
}

// Build nests already lexed tokens. tokens should end with EOF; a missing
// EOF is treated as end of input.
func Build(tokens []token.Token, opts Options) token.Stream {
	i := 0
	next := func() token.Token {
		if i >= len(tokens) {
			return token.Token{Kind: token.EOF}
		}
		tok := tokens[i]
		i++
		return tok
	}
	b := treeBuilder{next: next, opts: opts}
	return b.build()
}

// ParseString registers text as a virtual file and parses it.
func ParseString(name, text string, opts Options) (*source.FileSet, token.Stream) {
	fs := source.NewFileSet()
	id := fs.AddVirtual(name, []byte(text))
	return fs, Parse(fs.Get(id), opts)
}

type frame struct {
	delim  token.Delimiter
	open   token.Token
	stream token.Stream
}

type treeBuilder struct {
	next  func() token.Token
	opts  Options
	stack []frame
	root  token.Stream
}

func (b *treeBuilder) build() token.Stream {
	for {
		tok := b.next()
		if b.opts.DocComments {
			b.desugarDocs(tok.Leading)
		}
		switch tok.Kind {
		case token.EOF:
			for len(b.stack) > 0 {
				top := b.stack[len(b.stack)-1]
				b.report(diag.SynUnclosedDelimiter, top.open.Span, "unclosed delimiter `"+top.open.Text+"`")
				b.closeTop(tok.Span)
			}
			return b.root
		case token.Invalid:
			// already reported by the lexer
		case token.Ident:
			b.push(token.NewIdent(tok.Text, tok.Span))
		case token.Literal:
			b.push(token.NewLiteral(tok.Text, tok.Span))
		case token.Punct:
			b.push(token.NewPunct(rune(tok.Text[0]), tok.Spacing, tok.Span))
		case token.Open:
			delim, _ := token.DelimiterOf(tok.Text)
			b.stack = append(b.stack, frame{delim: delim, open: tok})
		case token.Close:
			b.close(tok)
		}
	}
}

func (b *treeBuilder) close(tok token.Token) {
	delim, _ := token.DelimiterOf(tok.Text)
	if len(b.stack) == 0 {
		b.report(diag.SynUnexpectedDelimiter, tok.Span, "unexpected closing delimiter `"+tok.Text+"`")
		return
	}
	if b.stack[len(b.stack)-1].delim == delim {
		b.closeTop(tok.Span)
		return
	}
	// ищем подходящую открывающую скобку глубже по стеку
	depth := -1
	for i := len(b.stack) - 2; i >= 0; i-- {
		if b.stack[i].delim == delim {
			depth = i
			break
		}
	}
	top := b.stack[len(b.stack)-1]
	if depth < 0 {
		diag.ReportError(b.opts.Reporter, diag.SynMismatchedDelimiter, tok.Span,
			"mismatched closing delimiter `"+tok.Text+"`").
			WithNote(top.open.Span, "unclosed delimiter `"+top.open.Text+"`").
			Emit()
		return
	}
	for len(b.stack)-1 > depth {
		inner := b.stack[len(b.stack)-1]
		b.report(diag.SynUnclosedDelimiter, inner.open.Span, "unclosed delimiter `"+inner.open.Text+"`")
		b.closeTop(tok.Span.First())
	}
	b.closeTop(tok.Span)
}

func (b *treeBuilder) closeTop(end source.Span) {
	top := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	b.push(token.NewGroup(top.delim, top.stream, top.open.Span.Cover(end)))
}

func (b *treeBuilder) push(t token.Tree) {
	if n := len(b.stack); n > 0 {
		b.stack[n-1].stream = append(b.stack[n-1].stream, t)
		return
	}
	b.root = append(b.root, t)
}

func (b *treeBuilder) report(code diag.Code, sp source.Span, msg string) {
	if b.opts.Reporter != nil {
		diag.ReportError(b.opts.Reporter, code, sp, msg).Emit()
	}
}

// desugarDocs emits `#[doc = "..."]` (or `#![doc = "..."]`) for every doc
// comment in trivia. All synthesized tokens carry the comment's span.
func (b *treeBuilder) desugarDocs(trivia []token.Trivia) {
	for _, tr := range trivia {
		if !tr.IsDoc() {
			continue
		}
		for _, t := range DocAttribute(tr) {
			b.push(t)
		}
	}
}

// DocAttribute returns the attribute tokens equivalent to a doc comment.
func DocAttribute(tr token.Trivia) token.Stream {
	sp := tr.Span
	var out token.Stream
	if tr.IsInnerDoc() {
		out = append(out, token.NewPunct('#', token.Joint, sp), token.NewPunct('!', token.Alone, sp))
	} else {
		out = append(out, token.NewPunct('#', token.Alone, sp))
	}
	body := token.Stream{
		token.NewIdent("doc", sp),
		token.NewPunct('=', token.Alone, sp),
		token.NewLiteral(token.Quote(tr.DocText()), sp),
	}
	return append(out, token.NewGroup(token.Bracket, body, sp))
}
