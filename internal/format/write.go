package format

// Writer accumulates formatted output and tracks indentation.
type Writer struct {
	opt         Options
	buf         []byte
	indentLevel int
	atLineStart bool
}

// NewWriter creates a new formatting writer.
func NewWriter(opt Options) *Writer {
	return &Writer{opt: opt, atLineStart: true}
}

// Bytes returns the accumulated formatted output.
func (w *Writer) Bytes() []byte {
	return w.buf
}

func (w *Writer) writeIndent() {
	if !w.atLineStart {
		return
	}
	for range w.indentLevel {
		w.buf = append(w.buf, w.opt.Indent...)
	}
	w.atLineStart = false
}

// WriteString writes s, indenting first when at the start of a line.
func (w *Writer) WriteString(s string) {
	if s == "" {
		return
	}
	w.writeIndent()
	w.buf = append(w.buf, s...)
}

// Space writes a single space unless the line is empty so far.
func (w *Writer) Space() {
	if w.atLineStart || len(w.buf) == 0 {
		return
	}
	w.buf = append(w.buf, ' ')
}

// Newline ends the current line; empty lines are never produced.
func (w *Writer) Newline() {
	if w.atLineStart {
		return
	}
	w.buf = append(w.buf, '\n')
	w.atLineStart = true
}

// Indent changes the indentation level for following lines.
func (w *Writer) Indent(delta int) {
	w.indentLevel = max(w.indentLevel+delta, 0)
}

// Multiline reports whether line breaks are enabled.
func (w *Writer) Multiline() bool {
	return w.opt.Indent != ""
}
