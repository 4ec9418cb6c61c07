package paste

import (
	"strings"

	"splice/internal/diag"
	"splice/internal/source"
	"splice/internal/token"
)

type segmentKind uint8

const (
	segString segmentKind = iota
	segApostrophe
	segEnv
	segModifier
)

// segment is one contribution to a pasted identifier.
type segment struct {
	kind segmentKind
	// text is the fragment for segString, the variable name for segEnv and
	// the modifier name for segModifier.
	text string
	// span locates the apostrophe, the env! string literal or the modifier name.
	span source.Span
	// colon locates the `:` of a modifier.
	colon source.Span
}

// cursor walks a token stream with one token of lookahead.
type cursor struct {
	toks token.Stream
	pos  int
}

func (c *cursor) peek() (token.Tree, bool) {
	if c.pos >= len(c.toks) {
		return token.Tree{}, false
	}
	return c.toks[c.pos], true
}

func (c *cursor) next() (token.Tree, bool) {
	tt, ok := c.peek()
	if ok {
		c.pos++
	}
	return tt, ok
}

// parseBracketAsSegments parses `< segments >`; scope is the bracket group's
// span, used when there is no token to point at.
func parseBracketAsSegments(input token.Stream, scope source.Span) ([]segment, error) {
	c := &cursor{toks: input}

	switch tt, ok := c.next(); {
	case !ok:
		return nil, newError(diag.PasteMalformed, scope, "expected `[< ... >]`")
	case !tt.IsPunct('<'):
		return nil, newError(diag.PasteMalformed, tt.Span, "expected `<`")
	}

	segments, err := parseSegments(c, scope)
	if err != nil {
		return nil, err
	}

	switch tt, ok := c.next(); {
	case !ok:
		return nil, newError(diag.PasteMalformed, scope, "expected `[< ... >]`")
	case !tt.IsPunct('>'):
		return nil, newError(diag.PasteMalformed, tt.Span, "expected `>`")
	}

	if tt, ok := c.next(); ok {
		return nil, newError(diag.PasteMalformed, tt.Span, "unexpected input, expected `[< ... >]`")
	}
	return segments, nil
}

// parseSegments consumes segments up to a `>` or the end of input.
func parseSegments(c *cursor, scope source.Span) ([]segment, error) {
	var segments []segment
	for {
		tt, ok := c.peek()
		if !ok || tt.IsPunct('>') {
			return segments, nil
		}
		c.next()

		switch tt.Kind {
		case token.IdentTree:
			fragment := strings.TrimPrefix(tt.Text, "r#")
			if next, ok := c.peek(); fragment == "env" && ok && next.IsPunct('!') {
				c.next()
				seg, err := parseEnv(c, tt, scope)
				if err != nil {
					return nil, err
				}
				segments = append(segments, seg)
				continue
			}
			segments = append(segments, segment{kind: segString, text: fragment, span: tt.Span})

		case token.LiteralTree:
			if strings.ContainsAny(tt.Text, `#\.+`) {
				return nil, newError(diag.PasteUnsupportedLiteral, tt.Span, "unsupported literal")
			}
			text := strings.NewReplacer(`"`, "", "'", "", "-", "_").Replace(tt.Text)
			segments = append(segments, segment{kind: segString, text: text, span: tt.Span})

		case token.PunctTree:
			switch tt.Char() {
			case '_':
				segments = append(segments, segment{kind: segString, text: "_", span: tt.Span})
			case '\'':
				segments = append(segments, segment{kind: segApostrophe, span: tt.Span})
			case ':':
				name, ok := c.next()
				if !ok || name.Kind != token.IdentTree {
					sp := scope
					if ok {
						sp = name.Span
					}
					return nil, newError(diag.PasteDanglingModifier, sp, "expected identifier after `:`")
				}
				segments = append(segments, segment{kind: segModifier, text: name.Text, span: name.Span, colon: tt.Span})
			default:
				return nil, newError(diag.PasteUnexpectedToken, tt.Span, "unexpected punct")
			}

		case token.GroupTree:
			if tt.Delim != token.None {
				return nil, newError(diag.PasteUnexpectedToken, tt.Span, "unexpected token")
			}
			inner := &cursor{toks: tt.Stream}
			nested, err := parseSegments(inner, tt.Span)
			if err != nil {
				return nil, err
			}
			if rest, ok := inner.next(); ok {
				return nil, newError(diag.PasteUnexpectedToken, rest.Span, "unexpected token")
			}
			segments = append(segments, nested...)
		}
	}
}

// parseEnv parses the `(...)` after `env!`. envIdent is the `env` identifier.
func parseEnv(c *cursor, envIdent token.Tree, scope source.Span) (segment, error) {
	group, ok := c.next()
	switch {
	case !ok:
		return segment{}, newError(diag.PasteEnvArgument, scope, "expected `(` after `env!`")
	case !group.IsGroup(token.Parenthesis):
		return segment{}, newError(diag.PasteEnvArgument, group.Span, "expected `(`")
	}

	if len(group.Stream) == 0 {
		return segment{}, newError2(diag.PasteEnvArgument, envIdent.Span, group.Span,
			"expected string literal as argument to env! macro")
	}
	lit := group.Stream[0]
	if lit.Kind != token.LiteralTree {
		return segment{}, newError(diag.PasteEnvArgument, lit.Span, "expected string literal")
	}
	text := lit.Text
	if len(text) < 2 || text[0] != '"' || text[len(text)-1] != '"' {
		return segment{}, newError(diag.PasteEnvArgument, lit.Span, "expected string literal")
	}
	if len(group.Stream) > 1 {
		return segment{}, newError(diag.PasteEnvArgument, group.Stream[1].Span, "unexpected token in env! macro")
	}
	return segment{kind: segEnv, text: text[1 : len(text)-1], span: lit.Span}, nil
}
