package paste

import (
	"splice/internal/diag"
	"splice/internal/source"
	"splice/internal/token"
)

// Error is a failed paste operation. It points at one source range, or at a
// pair of ranges when the problem spans two tokens (e.g. `:` and the modifier
// name after it).
type Error struct {
	Code         diag.Code
	Msg          string
	Primary      source.Span
	Secondary    source.Span
	HasSecondary bool
}

func newError(code diag.Code, sp source.Span, msg string) *Error {
	return &Error{Code: code, Msg: msg, Primary: sp}
}

func newError2(code diag.Code, first, second source.Span, msg string) *Error {
	return &Error{Code: code, Msg: msg, Primary: first, Secondary: second, HasSecondary: true}
}

func (e *Error) Error() string {
	return e.Msg
}

// Span covers every position the error points at.
func (e *Error) Span() source.Span {
	if e.HasSecondary {
		return e.Primary.Cover(e.Secondary)
	}
	return e.Primary
}

// Diagnostic converts the error into a diagnostic spanning both positions.
func (e *Error) Diagnostic() diag.Diagnostic {
	return diag.NewError(e.Code, e.Span(), e.Msg)
}

// Report sends the error to r.
func (e *Error) Report(r diag.Reporter) {
	diag.ReportError(r, e.Code, e.Span(), e.Msg).Emit()
}

// CompileError returns `compile_error!("msg")` tokens that make a host
// compiler report the error at the original position.
func (e *Error) CompileError() token.Stream {
	last := e.Primary
	if e.HasSecondary {
		last = e.Secondary
	}
	msg := token.Stream{token.NewLiteral(token.Quote(e.Msg), last)}
	return token.Stream{
		token.NewIdent("compile_error", e.Primary),
		token.NewPunct('!', token.Alone, e.Primary),
		token.NewGroup(token.Parenthesis, msg, last),
	}
}
