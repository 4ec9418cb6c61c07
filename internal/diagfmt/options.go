// Package diagfmt renders diagnostics and token dumps for the terminal and
// for machines.
package diagfmt

import (
	"path/filepath"

	"splice/internal/source"
)

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto prints relative paths for files under the base directory
	// and the basename of long absolute paths.
	PathModeAuto PathMode = iota
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// PrettyOpts configures human-readable diagnostics.
type PrettyOpts struct {
	Color     bool
	Context   int // lines of source shown before the primary line
	PathMode  PathMode
	ShowNotes bool
	Max       int // 0 = all
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	IncludePositions bool // добавить line/col
	PathMode         PathMode
	Max              int // обрезка вывода, не Bag
	IncludeNotes     bool
}

// longPath is the length above which PathModeAuto shortens absolute paths.
const longPath = 48

func displayPath(f *source.File, fs *source.FileSet, mode PathMode) string {
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(f.Path); err == nil {
			return filepath.ToSlash(abs)
		}
		return f.Path
	case PathModeRelative:
		return f.DisplayPath(fs.BaseDir())
	case PathModeBasename:
		return filepath.Base(f.Path)
	}
	p := f.DisplayPath(fs.BaseDir())
	if filepath.IsAbs(p) && len(p) > longPath {
		return filepath.Base(p)
	}
	return p
}

func fileOf(fs *source.FileSet, id source.FileID) *source.File {
	if int(id) >= fs.Len() {
		return nil
	}
	return fs.Get(id)
}
