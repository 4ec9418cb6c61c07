package token

import "splice/internal/source"

type TriviaKind uint8

const (
	TriviaSpace TriviaKind = iota
	TriviaNewline
	TriviaLineComment
	TriviaBlockComment
	// TriviaDocLine is /// or //! (inner when Text starts with //!).
	TriviaDocLine
	// TriviaDocBlock is /** */ or /*! */.
	TriviaDocBlock
)

func (k TriviaKind) String() string {
	switch k {
	case TriviaSpace:
		return "Space"
	case TriviaNewline:
		return "Newline"
	case TriviaLineComment:
		return "LineComment"
	case TriviaBlockComment:
		return "BlockComment"
	case TriviaDocLine:
		return "DocLine"
	case TriviaDocBlock:
		return "DocBlock"
	default:
		return "Unknown"
	}
}

type Trivia struct {
	Kind TriviaKind
	Span source.Span
	Text string
}

// IsDoc reports whether the trivia is a doc comment.
func (t Trivia) IsDoc() bool {
	return t.Kind == TriviaDocLine || t.Kind == TriviaDocBlock
}

// IsInnerDoc reports whether a doc comment documents the enclosing item (//! or /*!).
func (t Trivia) IsInnerDoc() bool {
	return t.IsDoc() && len(t.Text) >= 3 && t.Text[2] == '!'
}

// DocText returns the comment body without its markers.
func (t Trivia) DocText() string {
	switch t.Kind {
	case TriviaDocLine:
		return t.Text[3:]
	case TriviaDocBlock:
		if len(t.Text) < 5 {
			return ""
		}
		body := t.Text[3:]
		if len(body) >= 2 && body[len(body)-2:] == "*/" {
			body = body[:len(body)-2]
		}
		return body
	default:
		return ""
	}
}
