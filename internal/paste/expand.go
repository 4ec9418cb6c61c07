package paste

import (
	"errors"
	"os"

	"splice/internal/diag"
	"splice/internal/token"
	"splice/internal/trace"
)

// Options configures an Expander. The zero value reads the process
// environment and does not trace.
type Options struct {
	// LookupEnv resolves env!("NAME") segments. Defaults to os.LookupEnv.
	LookupEnv func(name string) (string, bool)
	// Tracer receives a node-level point event per paste and stitch.
	Tracer trace.Tracer
	// Parent is the trace span the events belong to.
	Parent uint64
}

// Expander rewrites paste operations in token streams. It holds no state
// between calls and may be reused.
type Expander struct {
	opts Options
}

func NewExpander(opts Options) *Expander {
	if opts.LookupEnv == nil {
		opts.LookupEnv = os.LookupEnv
	}
	if opts.Tracer == nil {
		opts.Tracer = trace.Nop
	}
	return &Expander{opts: opts}
}

// Expand expands input with default options.
func Expand(input token.Stream) (token.Stream, error) {
	return NewExpander(Options{}).Expand(input)
}

// Expand returns input with every paste operation replaced by its pasted
// token and every invisible-group stitch resolved. The input is not
// modified; unchanged subtrees are shared with the result.
func (e *Expander) Expand(input token.Stream) (token.Stream, error) {
	out, _, err := e.ExpandChanged(input)
	return out, err
}

// ExpandChanged is Expand that also reports whether anything was rewritten.
func (e *Expander) ExpandChanged(input token.Stream) (token.Stream, bool, error) {
	changed := false
	out, err := e.expand(input, &changed)
	if err != nil {
		return nil, false, err
	}
	return out, changed, nil
}

// Paste expands input and, on failure, returns the compile_error! tokens of
// the error instead.
func (e *Expander) Paste(input token.Stream) token.Stream {
	out, err := e.Expand(input)
	if err != nil {
		var perr *Error
		if errors.As(err, &perr) {
			return perr.CompileError()
		}
		return (&Error{Code: diag.PasteMalformed, Msg: err.Error(), Primary: input.Span()}).CompileError()
	}
	return out
}

func (e *Expander) expand(input token.Stream, changed *bool) (token.Stream, error) {
	out := make(token.Stream, 0, len(input))
	look := lookOther
	// invisible group held back until we know whether `::` follows it
	var pending *token.Tree

	for i := 0; ; i++ {
		if pending != nil {
			if i+1 < len(input) && input[i].IsJointPunct(':') && input[i+1].IsPunct(':') {
				out = append(out, pending.Stream...)
				*changed = true
				e.event("stitch", "group::")
			} else {
				out = append(out, *pending)
			}
			pending = nil
		}
		if i >= len(input) {
			return out, nil
		}

		tt := input[i]
		switch tt.Kind {
		case token.GroupTree:
			switch {
			case tt.Delim == token.Bracket && IsPasteOperation(tt.Stream):
				segments, err := parseBracketAsSegments(tt.Stream, tt.Span)
				if err != nil {
					return nil, err
				}
				pasted, err := e.pasteSegments(tt.Span, segments)
				if err != nil {
					return nil, err
				}
				out = append(out, pasted...)
				*changed = true
				e.event("paste", pasted[len(pasted)-1].Text)

			case tt.Delim == token.None && IsFlatGroup(tt.Stream):
				out = append(out, tt.Stream...)
				*changed = true
				e.event("unwrap", "flat group")

			case tt.Delim == token.Bracket && look.attribute() && IsPastedDoc(tt.Stream):
				return nil, newError(diag.PastePastedDoc, tt.Span, "pasted doc attributes are not supported")

			default:
				groupChanged := false
				nested, err := e.expand(tt.Stream, &groupChanged)
				if err != nil {
					return nil, err
				}
				group := tt
				if groupChanged {
					group = token.NewGroup(tt.Delim, nested, tt.Span)
					*changed = true
				}
				switch {
				case group.Delim != token.None:
					out = append(out, group)
				case look == lookDoubleColon:
					out = append(out, group.Stream...)
					*changed = true
					e.event("stitch", "::group")
				default:
					pending = &group
				}
			}
			look = lookOther

		case token.PunctTree:
			look = look.next(tt)
			out = append(out, tt)

		default:
			look = lookOther
			out = append(out, tt)
		}
	}
}

func (e *Expander) lookupEnv(name string) (string, bool) {
	return e.opts.LookupEnv(name)
}

func (e *Expander) event(name, detail string) {
	trace.Point(e.opts.Tracer, trace.ScopeNode, name, e.opts.Parent, detail)
}
