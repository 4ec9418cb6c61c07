package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"splice/internal/diag"
	"splice/internal/source"
)

type palette struct {
	err, warn, info, note, gutter, caret, bold *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		err:    mk(color.FgRed, color.Bold),
		warn:   mk(color.FgYellow, color.Bold),
		info:   mk(color.FgCyan, color.Bold),
		note:   mk(color.FgBlue, color.Bold),
		gutter: mk(color.FgBlue),
		caret:  mk(color.FgRed),
		bold:   mk(color.Bold),
	}
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	}
	return p.info
}

// Pretty writes each diagnostic of bag as
//
//	path:line:col: ERROR PST3007: message
//	   |
//	 3 | let x = [<env!("NOPE")>];
//	   |           ^~~~~~~~~~~~
//
// followed by its notes when opts.ShowNotes is set. Call bag.Sort first for
// a stable order.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil || fs == nil {
		return
	}
	p := newPalette(opts.Color)
	items := bag.Items()
	if opts.Max > 0 && len(items) > opts.Max {
		items = items[:opts.Max]
	}
	for i, d := range items {
		if i > 0 {
			fmt.Fprintln(w)
		}
		f := fileOf(fs, d.Primary.File)
		if f == nil {
			fmt.Fprintf(w, "%s %s: %s\n", p.severity(d.Severity).Sprint(d.Severity), d.Code.ID(), d.Message)
			continue
		}
		start, _ := fs.Resolve(d.Primary)
		fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
			displayPath(f, fs, opts.PathMode), start.Line, start.Col,
			p.severity(d.Severity).Sprint(d.Severity), d.Code.ID(), p.bold.Sprint(d.Message))
		writeSnippet(w, p, f, fs, d.Primary, opts.Context, p.caret)

		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			nf := fileOf(fs, n.Span.File)
			if nf == nil {
				fmt.Fprintf(w, "  %s: %s\n", p.note.Sprint("note"), n.Msg)
				continue
			}
			ns, _ := fs.Resolve(n.Span)
			fmt.Fprintf(w, "  %s: %s:%d:%d: %s\n", p.note.Sprint("note"),
				displayPath(nf, fs, opts.PathMode), ns.Line, ns.Col, n.Msg)
			writeSnippet(w, p, nf, fs, n.Span, 0, p.note)
		}
	}
}

// writeSnippet prints the first line of span with context lines above it and
// a caret underline sized in display cells.
func writeSnippet(w io.Writer, p palette, f *source.File, fs *source.FileSet, span source.Span, context int, mark *color.Color) {
	start, end := fs.Resolve(span)
	if start.Line == 0 {
		return
	}
	first := start.Line
	if context > 0 && uint32(context) < first {
		first -= uint32(context)
	} else if context > 0 {
		first = 1
	}
	width := len(fmt.Sprint(start.Line))
	pad := strings.Repeat(" ", width)

	fmt.Fprintf(w, "%s %s\n", pad, p.gutter.Sprint("|"))
	for ln := first; ln <= start.Line; ln++ {
		text := expandTabs(f.GetLine(ln))
		fmt.Fprintf(w, "%s %s %s\n", p.gutter.Sprintf("%*d", width, ln), p.gutter.Sprint("|"), text)
	}

	line := f.GetLine(start.Line)
	col := min(int(start.Col)-1, len(line))
	before := runewidth.StringWidth(expandTabs(line[:col]))
	var under int
	if end.Line == start.Line && int(end.Col)-1 <= len(line) {
		under = runewidth.StringWidth(expandTabs(line[col : int(end.Col)-1]))
	} else {
		under = runewidth.StringWidth(expandTabs(line[col:]))
	}
	marks := "^"
	if under > 1 {
		marks += strings.Repeat("~", under-1)
	}
	fmt.Fprintf(w, "%s %s %s%s\n", pad, p.gutter.Sprint("|"), strings.Repeat(" ", before), mark.Sprint(marks))
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}

// Summary writes "N errors, M warnings" style totals for bag.
func Summary(w io.Writer, bag *diag.Bag, colored bool) {
	if bag == nil || bag.Len() == 0 {
		return
	}
	var errs, warns int
	for _, d := range bag.Items() {
		switch d.Severity {
		case diag.SevError:
			errs++
		case diag.SevWarning:
			warns++
		}
	}
	p := newPalette(colored)
	parts := make([]string, 0, 2)
	if errs > 0 {
		parts = append(parts, p.err.Sprint(plural(errs, "error")))
	}
	if warns > 0 {
		parts = append(parts, p.warn.Sprint(plural(warns, "warning")))
	}
	if len(parts) > 0 {
		fmt.Fprintf(w, "%s emitted\n", strings.Join(parts, ", "))
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}
