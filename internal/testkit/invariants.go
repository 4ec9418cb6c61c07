// Package testkit holds checks shared by tests of several packages.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"splice/internal/source"
	"splice/internal/token"
)

// CheckStreamSpans runs span invariants on a stream lexed from f:
// 1) every span points at f and lies within its content
// 2) siblings start in source order
// 3) a group span contains the spans of its children
func CheckStreamSpans(s token.Stream, f *source.File) error {
	if f == nil {
		return fmt.Errorf("nil file")
	}
	size, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		return fmt.Errorf("file too large: %w", err)
	}
	return checkLevel(s, f.ID, size, nil, "")
}

func checkLevel(s token.Stream, file source.FileID, size uint32, parent *source.Span, path string) error {
	var prevStart uint32
	for i, tr := range s {
		where := fmt.Sprintf("%s[%d]", path, i)
		sp := tr.Span
		if sp.File != file {
			return fmt.Errorf("%s %s: span points to file %d, want %d", where, tr.Kind, sp.File, file)
		}
		if sp.Start > sp.End || sp.End > size {
			return fmt.Errorf("%s %s: span %v outside file of %d bytes", where, tr.Kind, sp, size)
		}
		if i > 0 && sp.Start < prevStart {
			return fmt.Errorf("%s %s: starts at %d before previous sibling at %d", where, tr.Kind, sp.Start, prevStart)
		}
		prevStart = sp.Start
		if parent != nil && !parent.Contains(sp) {
			return fmt.Errorf("%s %s: span %v escapes its group %v", where, tr.Kind, sp, *parent)
		}
		if tr.Kind == token.GroupTree {
			if err := checkLevel(tr.Stream, file, size, &sp, where); err != nil {
				return err
			}
		}
	}
	return nil
}
