// Package corpora runs table-driven tests whose table lives on disk: every
// input file under a root is a case, and its expected outputs sit next to
// it as <input>.<ext> files.
package corpora

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"testing"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fatih/color"
	"github.com/pmezard/go-difflib/difflib"
)

// Corpus is one directory of test cases.
type Corpus struct {
	// Root is relative to the directory of the test file calling Run.
	Root string
	// Refresh names an environment variable holding a glob; matching cases
	// have their expected files rewritten instead of compared.
	Refresh string
	// Extension of case files, without the dot.
	Extension string
	// Outputs are compared in order with the strings Test returns. A missing
	// expected file means the output must be empty.
	Outputs []Output
	// Test runs one case. path is relative to the test file directory.
	Test func(t *testing.T, path, text string) []string
}

// Output is one expected file per case.
type Output struct {
	Extension string
	// Compare returns "" on match, otherwise a description of the mismatch.
	// nil means byte equality with a unified diff on failure.
	Compare func(got, want string) string
}

// Run executes every case of the corpus as a subtest.
func (c Corpus) Run(t *testing.T) {
	t.Helper()
	base := callerDir()
	root := filepath.Join(base, c.Root)

	cases, err := c.collect(root)
	if err != nil {
		t.Fatalf("corpora: listing %s: %v", root, err)
	}
	if len(cases) == 0 {
		t.Fatalf("corpora: no .%s files under %s", c.Extension, root)
	}

	var refresh string
	if c.Refresh != "" {
		refresh = os.Getenv(c.Refresh)
		if refresh != "" && !doublestar.ValidatePattern(refresh) {
			t.Fatalf("corpora: %s=%q is not a valid glob", c.Refresh, refresh)
		}
	}
	if refresh != "" {
		// a refresh run must never pass silently
		t.Logf("corpora: refreshing cases matching %s=%s", c.Refresh, refresh)
		t.Fail()
	}

	for _, path := range cases {
		name, _ := filepath.Rel(base, path)
		name = filepath.ToSlash(name)
		t.Run(name, func(t *testing.T) {
			input, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("corpora: reading %s: %v", path, err)
			}
			results := c.Test(t, name, string(input))
			if len(results) != len(c.Outputs) {
				t.Fatalf("corpora: test returned %d outputs, corpus declares %d", len(results), len(c.Outputs))
			}
			rewrite := false
			if refresh != "" {
				rewrite, _ = doublestar.Match(refresh, name)
			}
			for i, out := range c.Outputs {
				expected := path + "." + out.Extension
				if rewrite {
					if err := store(expected, results[i]); err != nil {
						t.Errorf("corpora: %v", err)
					}
					continue
				}
				want, err := os.ReadFile(expected)
				if err != nil && !errors.Is(err, os.ErrNotExist) {
					t.Errorf("corpora: reading %s: %v", expected, err)
					continue
				}
				compare := out.Compare
				if compare == nil {
					compare = Diff
				}
				if msg := compare(results[i], string(want)); msg != "" {
					t.Errorf("mismatch for %s:\n%s", expected, msg)
				}
			}
		})
	}
}

func (c Corpus) collect(root string) ([]string, error) {
	var cases []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.TrimPrefix(filepath.Ext(p), ".") == c.Extension {
			cases = append(cases, p)
		}
		return nil
	})
	sort.Strings(cases)
	return cases, err
}

// store writes content to path, or removes path when content is empty.
func store(path, content string) error {
	if content == "" {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("removing %s: %w", path, err)
		}
		return nil
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

var (
	added   = color.New(color.FgHiGreen, color.Bold)
	removed = color.New(color.FgHiRed, color.Bold)
)

// Diff returns "" when got == want, otherwise a colored unified diff.
func Diff(got, want string) string {
	if got == want {
		return ""
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: "want",
		ToFile:   "got",
		Context:  2,
	})
	if err != nil {
		return err.Error()
	}
	lines := strings.Split(diff, "\n")
	for i, l := range lines {
		switch {
		case strings.HasPrefix(l, "+"):
			lines[i] = added.Sprint(l)
		case strings.HasPrefix(l, "-"):
			lines[i] = removed.Sprint(l)
		}
	}
	return strings.Join(lines, "\n")
}

// callerDir is the directory of the file that called Run.
func callerDir() string {
	_, file, _, ok := runtime.Caller(2)
	if !ok {
		panic("corpora: cannot locate caller")
	}
	return filepath.Dir(file)
}
