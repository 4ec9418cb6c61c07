package diag

import (
	"cmp"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"splice/internal/source"
)

// goldenLine is one rendered line of FormatGoldenDiagnostics.
type goldenLine struct {
	kind      string // error, warning, info or note
	code      string
	path      string
	line, col uint32
	msg       string
}

func (g goldenLine) String() string {
	return fmt.Sprintf("%s %s %s:%d:%d %s", g.kind, g.code, g.path, g.line, g.col, g.msg)
}

// FormatGoldenDiagnostics renders diagnostics one per line in a stable order,
// suitable for golden files:
//
//	error PST3007 testdata/env.rs:3:9 no such env var: "MISSING"
//
// Paths are relative to the FileSet base directory. Notes become "note" lines
// when includeNotes is set; positions in unknown files are skipped.
func FormatGoldenDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if fs == nil || len(diags) == 0 {
		return ""
	}
	var lines []goldenLine
	add := func(kind string, code Code, sp source.Span, msg string) {
		if int(sp.File) >= fs.Len() {
			return
		}
		start, _ := fs.Resolve(sp)
		path := filepath.ToSlash(fs.Get(sp.File).DisplayPath(fs.BaseDir()))
		for strings.HasPrefix(path, "./") {
			path = path[2:]
		}
		lines = append(lines, goldenLine{kind: kind, code: code.ID(), path: path, line: start.Line, col: start.Col, msg: flatten(msg)})
	}
	for i := range diags {
		d := &diags[i]
		add(strings.ToLower(d.Severity.String()), d.Code, d.Primary, d.Message)
		if includeNotes {
			for _, n := range d.Notes {
				add("note", d.Code, n.Span, n.Msg)
			}
		}
	}

	slices.SortStableFunc(lines, func(a, b goldenLine) int {
		return cmp.Or(
			cmp.Compare(a.path, b.path),
			cmp.Compare(a.line, b.line),
			cmp.Compare(a.col, b.col),
			cmp.Compare(a.kind, b.kind),
			cmp.Compare(a.code, b.code),
			cmp.Compare(a.msg, b.msg),
		)
	})
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.String()
	}
	return strings.Join(out, "\n")
}

// flatten puts a message on one line.
func flatten(msg string) string {
	msg = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ").Replace(msg)
	return strings.TrimSpace(msg)
}
