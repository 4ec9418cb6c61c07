package paste

import (
	"fmt"
	"strings"

	"splice/internal/diag"
	"splice/internal/source"
	"splice/internal/token"
)

// pasteSegments evaluates segments left to right and returns the resulting
// identifier, or `'` + identifier for a lifetime. Every produced token
// carries span, the span of the whole paste operation.
func (e *Expander) pasteSegments(span source.Span, segments []segment) (token.Stream, error) {
	evaluated := make([]string, 0, len(segments))
	isLifetime := false

	for _, seg := range segments {
		switch seg.kind {
		case segString:
			evaluated = append(evaluated, seg.text)

		case segApostrophe:
			if isLifetime {
				return nil, newError(diag.PasteDuplicateLifetime, seg.span, "unexpected lifetime")
			}
			isLifetime = true

		case segEnv:
			resolved, ok := e.lookupEnv(seg.text)
			if !ok {
				return nil, newError(diag.PasteEnvMissing, seg.span, fmt.Sprintf("no such env var: %q", seg.text))
			}
			evaluated = append(evaluated, strings.ReplaceAll(resolved, "-", "_"))

		case segModifier:
			if len(evaluated) == 0 {
				return nil, newError2(diag.PasteDanglingModifier, seg.colon, seg.span, "unexpected modifier")
			}
			convert, ok := modifiers[seg.text]
			if !ok {
				return nil, newError2(diag.PasteUnknownModifier, seg.colon, seg.span, "unsupported modifier")
			}
			last := len(evaluated) - 1
			evaluated[last] = convert(evaluated[last])
		}
	}

	pasted := normalizeIdent(strings.Join(evaluated, ""))
	if !ValidIdent(pasted) {
		return nil, newError(diag.PasteInvalidIdent, span, fmt.Sprintf("`%s` is not a valid identifier", pasted))
	}
	ident := token.NewIdent(pasted, span)
	if isLifetime {
		return token.Stream{token.NewPunct('\'', token.Joint, span), ident}, nil
	}
	return token.Stream{ident}, nil
}
