package format

import (
	"io"

	"splice/internal/token"
)

type Options struct {
	// ShowInvisible prints invisible groups between « and ».
	ShowInvisible bool
	// Indent enables line breaks after `;`, braces and attributes, indenting
	// brace bodies by this string. Empty prints everything on one line.
	Indent string
}

type atomKind uint8

const (
	atomIdent atomKind = iota
	atomLiteral
	atomPunct
	atomOpen
	atomClose
)

// atom is one printed piece: a leaf token or a delimiter.
type atom struct {
	kind    atomKind
	text    string
	spacing token.Spacing
	delim   token.Delimiter
	// attr marks the closing bracket of `#[...]` / `#![...]`.
	attr bool
	// empty marks an Open whose group prints no content.
	empty bool
	// pathSep marks the second `:` of `::`.
	pathSep bool
	// macroBang marks the `!` of a macro call such as `vec![..]`.
	macroBang bool
}

// notMacro lists identifiers that take a `!` operand rather than name a macro.
var notMacro = map[string]bool{
	"if": true, "while": true, "match": true, "return": true, "in": true,
	"let": true, "else": true, "mut": true, "break": true,
}

// String prints s to a string.
func String(s token.Stream, opt Options) string {
	return string(Bytes(s, opt))
}

// Bytes prints s.
func Bytes(s token.Stream, opt Options) []byte {
	var atoms []atom
	atoms = flatten(atoms, s, opt)
	w := NewWriter(opt)
	var prev *atom
	for i := range atoms {
		cur := &atoms[i]
		layout(w, prev, cur)
		w.WriteString(cur.text)
		if cur.kind == atomOpen && cur.delim == token.Brace && w.Multiline() && !cur.empty {
			w.Indent(1)
			w.Newline()
		}
		prev = cur
	}
	if w.Multiline() {
		w.Newline()
	}
	return w.Bytes()
}

// Stream prints s to out.
func Stream(out io.Writer, s token.Stream, opt Options) error {
	_, err := out.Write(Bytes(s, opt))
	return err
}

func flatten(atoms []atom, s token.Stream, opt Options) []atom {
	for i, tt := range s {
		switch tt.Kind {
		case token.IdentTree:
			atoms = append(atoms, atom{kind: atomIdent, text: tt.Text})
		case token.LiteralTree:
			atoms = append(atoms, atom{kind: atomLiteral, text: tt.Text})
		case token.PunctTree:
			a := atom{kind: atomPunct, text: tt.Text, spacing: tt.Spacing}
			if n := len(atoms); tt.IsPunct(':') && n > 0 && atoms[n-1].text == ":" && atoms[n-1].spacing == token.Joint {
				a.pathSep = true
			}
			if tt.IsPunct('!') && i > 0 && i+1 < len(s) && s[i-1].Kind == token.IdentTree &&
				!notMacro[s[i-1].Text] && s[i+1].Kind == token.GroupTree && s[i+1].Delim != token.None {
				a.macroBang = true
			}
			atoms = append(atoms, a)
		case token.GroupTree:
			open, closing := tt.Delim.Open(), tt.Delim.Close()
			if tt.Delim == token.None {
				if !opt.ShowInvisible {
					atoms = flatten(atoms, tt.Stream, opt)
					continue
				}
				open, closing = token.InvisibleOpen, token.InvisibleClose
			}
			openIdx := len(atoms)
			atoms = append(atoms, atom{kind: atomOpen, text: open, delim: tt.Delim})
			atoms = flatten(atoms, tt.Stream, opt)
			atoms[openIdx].empty = len(atoms) == openIdx+1
			atoms = append(atoms, atom{kind: atomClose, text: closing, delim: tt.Delim, attr: isAttribute(s, i)})
		}
	}
	return atoms
}

// isAttribute reports whether s[i] is the bracket group of `#[..]` or `#![..]`.
func isAttribute(s token.Stream, i int) bool {
	if !s[i].IsGroup(token.Bracket) || i == 0 {
		return false
	}
	if s[i-1].IsPunct('#') {
		return true
	}
	return i >= 2 && s[i-1].IsPunct('!') && s[i-2].IsPunct('#')
}

// layout writes the whitespace between prev and cur. Two punctuation
// characters are separated unless the first is Joint, so printed output
// lexes back to the same spacing.
func layout(w *Writer, prev, cur *atom) {
	if prev == nil {
		return
	}
	if w.Multiline() {
		switch {
		case cur.kind == atomClose && cur.delim == token.Brace && !(prev.kind == atomOpen && prev.delim == token.Brace):
			w.Indent(-1)
			w.Newline()
			return
		case prev.kind == atomPunct && prev.text == ";" && prev.spacing == token.Alone && cur.kind != atomClose:
			w.Newline()
			return
		case prev.kind == atomClose && prev.attr:
			w.Newline()
			return
		case prev.kind == atomClose && prev.delim == token.Brace && braceEndsLine(cur):
			w.Newline()
			return
		}
	}

	switch {
	case prev.kind == atomOpen:
		if prev.delim == token.Brace && !prev.empty {
			w.Space()
		}
	case cur.kind == atomClose:
		if cur.delim == token.Brace {
			w.Space()
		}
	case prev.kind == atomPunct && prev.spacing == token.Joint:
	case prev.kind == atomPunct && cur.kind == atomPunct:
		w.Space()
	case cur.kind == atomPunct && (cur.text == "," || cur.text == ";") && prev.kind != atomPunct:
	case cur.kind == atomPunct && cur.text == ":" && prev.kind == atomIdent:
	case cur.macroBang:
	case prev.pathSep && cur.kind == atomIdent:
	case prev.kind == atomPunct && (prev.text == "#" || prev.text == "!") && cur.kind == atomOpen:
	case prev.kind == atomIdent && cur.kind == atomOpen && cur.delim == token.Parenthesis:
	case cur.kind == atomPunct && cur.text == "." && (prev.kind == atomIdent || prev.kind == atomClose):
	case prev.kind == atomPunct && prev.text == "." && cur.kind == atomIdent:
	default:
		w.Space()
	}
}

// braceEndsLine reports whether a line break belongs after `}` when cur follows.
func braceEndsLine(cur *atom) bool {
	switch cur.kind {
	case atomPunct, atomClose:
		return false
	case atomIdent:
		return cur.text != "else"
	default:
		return true
	}
}
