package paste

import (
	"strconv"
	"strings"

	"splice/internal/token"
)

// IsPasteOperation reports whether the contents of a bracket group are
// `< ... >` with at least one token in between and nothing after the first `>`.
func IsPasteOperation(input token.Stream) bool {
	if len(input) == 0 || !input[0].IsPunct('<') {
		return false
	}
	for i := 1; i < len(input); i++ {
		if input[i].IsPunct('>') {
			return i > 1 && i == len(input)-1
		}
	}
	return false
}

type flatState uint8

const (
	flatInit flatState = iota
	flatIdent
	flatLiteral
	flatApostrophe
	flatLifetime
	flatColon1
	flatColon2
)

// IsFlatGroup reports whether an invisible group's contents are a single
// identifier, a single literal, a lifetime, or an `a::b::c` path.
func IsFlatGroup(input token.Stream) bool {
	state := flatInit
	for _, tt := range input {
		switch {
		case state == flatInit && tt.Kind == token.IdentTree:
			state = flatIdent
		case state == flatInit && tt.Kind == token.LiteralTree:
			state = flatLiteral
		case state == flatInit && tt.IsPunct('\''):
			state = flatApostrophe
		case state == flatApostrophe && tt.Kind == token.IdentTree:
			state = flatLifetime
		case state == flatIdent && tt.IsJointPunct(':'):
			state = flatColon1
		case state == flatColon1 && tt.IsPunct(':') && tt.Spacing == token.Alone:
			state = flatColon2
		case state == flatColon2 && tt.Kind == token.IdentTree:
			state = flatIdent
		default:
			return false
		}
	}
	return state == flatIdent || state == flatLiteral || state == flatLifetime
}

type docState uint8

const (
	docInit docState = iota
	docDoc
	docEqual
	docFirst
	docRest
)

// IsPastedDoc reports whether attribute contents look like
// `doc = "..." "..."`: a doc attribute whose value is two or more string-like
// tokens meant to be concatenated.
func IsPastedDoc(input token.Stream) bool {
	state := docInit
	for _, tt := range input {
		_, stringlike := stringLikeValue(tt)
		switch {
		case state == docInit && tt.IsIdent("doc"):
			state = docDoc
		case state == docDoc && tt.IsPunct('='):
			state = docEqual
		case state == docEqual && stringlike:
			state = docFirst
		case (state == docFirst || state == docRest) && stringlike:
			state = docRest
		default:
			return false
		}
	}
	return state == docRest
}

// stringLikeValue returns the escaped text a token contributes to a pasted
// doc string. Byte strings, chars and punctuation are not string-like.
func stringLikeValue(tt token.Tree) (string, bool) {
	switch tt.Kind {
	case token.IdentTree:
		return tt.Text, true
	case token.LiteralTree:
		repr := tt.Text
		switch {
		case strings.HasPrefix(repr, "b"), strings.HasPrefix(repr, "'"):
			return "", false
		case strings.HasPrefix(repr, `"`):
			if len(repr) < 2 {
				return "", false
			}
			return repr[1 : len(repr)-1], true
		case strings.HasPrefix(repr, "r"):
			begin := strings.IndexByte(repr, '"')
			end := strings.LastIndexByte(repr, '"')
			if begin < 0 || end <= begin {
				return "", false
			}
			quoted := strconv.Quote(repr[begin+1 : end])
			return quoted[1 : len(quoted)-1], true
		default:
			return repr, true
		}
	case token.GroupTree:
		if tt.Delim != token.None || len(tt.Stream) != 1 {
			return "", false
		}
		return stringLikeValue(tt.Stream[0])
	default:
		return "", false
	}
}
