package lexer

import (
	"splice/internal/diag"
	"splice/internal/source"
)

type Options struct {
	// Reporter может быть nil, тогда ошибки игнорируем (но продолжаем лексить).
	Reporter diag.Reporter
	// DocComments turns ///, //!, /** */ and /*! */ into #[doc = "..."] and
	// #![doc = "..."] attributes when building token trees.
	DocComments bool
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		diag.ReportError(lx.opts.Reporter, code, sp, msg).Emit()
	}
}
