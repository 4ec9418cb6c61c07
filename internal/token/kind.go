package token

import "fmt"

// Kind is the category of a flat lexical Token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of input.
	EOF
	// Ident is an identifier, keyword, `_` or raw identifier `r#name`.
	Ident
	// Literal is a string, char, byte, or numeric literal kept verbatim.
	Literal
	// Punct is a single punctuation character.
	Punct
	// Open is an opening delimiter: ( [ { «
	Open
	// Close is a closing delimiter: ) ] } »
	Close
)

func (k Kind) String() string {
	switch k {
	case Invalid:
		return "Invalid"
	case EOF:
		return "EOF"
	case Ident:
		return "Ident"
	case Literal:
		return "Literal"
	case Punct:
		return "Punct"
	case Open:
		return "Open"
	case Close:
		return "Close"
	default:
		return fmt.Sprintf("token.Kind(%d)", int(k))
	}
}

// TreeKind is the category of a token Tree.
type TreeKind uint8

const (
	IdentTree TreeKind = iota + 1
	LiteralTree
	PunctTree
	GroupTree
)

func (k TreeKind) String() string {
	switch k {
	case IdentTree:
		return "Ident"
	case LiteralTree:
		return "Literal"
	case PunctTree:
		return "Punct"
	case GroupTree:
		return "Group"
	default:
		return fmt.Sprintf("token.TreeKind(%d)", int(k))
	}
}

// Spacing tells whether a Punct is immediately followed by more punctuation.
type Spacing uint8

const (
	// Alone: whitespace or a non-punctuation token follows.
	Alone Spacing = iota
	// Joint: another punctuation character follows with no whitespace, e.g. the
	// first ':' of "::".
	Joint
)

func (s Spacing) String() string {
	if s == Joint {
		return "Joint"
	}
	return "Alone"
}

// Delimiter is the bracket kind of a Group.
type Delimiter uint8

const (
	// Parenthesis is ( ... ).
	Parenthesis Delimiter = iota + 1
	// Brace is { ... }.
	Brace
	// Bracket is [ ... ].
	Bracket
	// None is an invisible delimiter produced by macro substitution. The lexer
	// accepts « ... » for it.
	None
)

func (d Delimiter) String() string {
	switch d {
	case Parenthesis:
		return "Parenthesis"
	case Brace:
		return "Brace"
	case Bracket:
		return "Bracket"
	case None:
		return "None"
	default:
		return fmt.Sprintf("token.Delimiter(%d)", int(d))
	}
}

// Open returns the opening delimiter text ("" for None).
func (d Delimiter) Open() string {
	switch d {
	case Parenthesis:
		return "("
	case Brace:
		return "{"
	case Bracket:
		return "["
	default:
		return ""
	}
}

// Close returns the closing delimiter text ("" for None).
func (d Delimiter) Close() string {
	switch d {
	case Parenthesis:
		return ")"
	case Brace:
		return "}"
	case Bracket:
		return "]"
	default:
		return ""
	}
}

// DelimiterOf maps an Open or Close token text to its Delimiter.
func DelimiterOf(text string) (Delimiter, bool) {
	switch text {
	case "(", ")":
		return Parenthesis, true
	case "{", "}":
		return Brace, true
	case "[", "]":
		return Bracket, true
	case InvisibleOpen, InvisibleClose:
		return None, true
	default:
		return 0, false
	}
}

const (
	// InvisibleOpen and InvisibleClose spell an invisible group in source text.
	InvisibleOpen  = "«" // «
	InvisibleClose = "»" // »
)

// IsPunctChar reports whether ch is a punctuation character that lexes as a Punct.
func IsPunctChar(ch byte) bool {
	switch ch {
	case '=', '<', '>', '!', '~', '+', '-', '*', '/', '%', '^', '&', '|', '@',
		'.', ',', ';', ':', '#', '$', '?', '\'':
		return true
	default:
		return false
	}
}
