package diagfmt_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"splice/internal/diag"
	"splice/internal/diagfmt"
	"splice/internal/lexer"
	"splice/internal/source"
)

const envSource = "fn main() {\n    let x = [<env!(\"NOPE\")>];\n}\n"

func envBag(t *testing.T) (*diag.Bag, *source.FileSet, source.Span) {
	t.Helper()
	fs := source.NewFileSetWithBase("/proj")
	id := fs.AddVirtual("/proj/src/main.rs", []byte(envSource))
	start := strings.Index(envSource, "[<")
	end := strings.Index(envSource, ">]") + 2
	span := source.Span{File: id, Start: uint32(start), End: uint32(end)}
	bag := diag.NewBag(0)
	bag.Add(diag.NewError(diag.PasteEnvMissing, span, `no such env var: "NOPE"`).
		WithNote(span.First(), "while pasting here"))
	return bag, fs, span
}

func TestPrettySnippet(t *testing.T) {
	bag, fs, _ := envBag(t)
	var buf bytes.Buffer
	diagfmt.Pretty(&buf, bag, fs, diagfmt.PrettyOpts{})

	want := "src/main.rs:2:13: ERROR PST3007: no such env var: \"NOPE\"\n" +
		"  |\n" +
		"2 |     let x = [<env!(\"NOPE\")>];\n" +
		"  |             ^~~~~~~~~~~~~~~\n"
	if got := buf.String(); got != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrettyContextAndNotes(t *testing.T) {
	bag, fs, _ := envBag(t)
	var buf bytes.Buffer
	diagfmt.Pretty(&buf, bag, fs, diagfmt.PrettyOpts{Context: 1, ShowNotes: true})
	out := buf.String()
	if !strings.Contains(out, "1 | fn main() {") {
		t.Errorf("context line missing:\n%s", out)
	}
	if !strings.Contains(out, "note: src/main.rs:2:13: while pasting here") {
		t.Errorf("note missing:\n%s", out)
	}
}

func TestPrettyPathModes(t *testing.T) {
	bag, fs, _ := envBag(t)
	cases := []struct {
		mode diagfmt.PathMode
		want string
	}{
		{diagfmt.PathModeRelative, "src/main.rs:2:13"},
		{diagfmt.PathModeBasename, "main.rs:2:13"},
		{diagfmt.PathModeAbsolute, "/proj/src/main.rs:2:13"},
	}
	for _, c := range cases {
		var buf bytes.Buffer
		diagfmt.Pretty(&buf, bag, fs, diagfmt.PrettyOpts{PathMode: c.mode})
		if !strings.HasPrefix(buf.String(), c.want) {
			t.Errorf("mode %d: got %q", c.mode, buf.String())
		}
	}
}

func TestPrettyWideCharacters(t *testing.T) {
	fs := source.NewFileSet()
	text := "let 名前 = [<a b>];\n"
	id := fs.AddVirtual("w.rs", []byte(text))
	start := strings.Index(text, "[<")
	span := source.Span{File: id, Start: uint32(start), End: uint32(start + 2)}
	bag := diag.NewBag(0)
	bag.Add(diag.NewError(diag.PasteMalformed, span, "bad"))

	var buf bytes.Buffer
	diagfmt.Pretty(&buf, bag, fs, diagfmt.PrettyOpts{})
	lines := strings.Split(buf.String(), "\n")
	// "let " + two wide runes (4 cells) + " = " puts the caret at cell 11
	if lines[3] != "  | "+strings.Repeat(" ", 11)+"^~" {
		t.Fatalf("caret line = %q", lines[3])
	}
}

func TestSummary(t *testing.T) {
	bag, _, span := envBag(t)
	bag.Add(diag.New(diag.SevWarning, diag.CfgInfo, span, "w"))
	var buf bytes.Buffer
	diagfmt.Summary(&buf, bag, false)
	if got := buf.String(); got != "1 error, 1 warning emitted\n" {
		t.Fatalf("summary = %q", got)
	}
}

func TestJSONDiagnostics(t *testing.T) {
	bag, fs, _ := envBag(t)
	var buf bytes.Buffer
	if err := diagfmt.JSON(&buf, bag, fs, diagfmt.JSONOpts{IncludePositions: true, IncludeNotes: true, PathMode: diagfmt.PathModeRelative}); err != nil {
		t.Fatal(err)
	}
	var out diagfmt.DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Count != 1 {
		t.Fatalf("count = %d", out.Count)
	}
	d := out.Diagnostics[0]
	if d.Code != "PST3007" || d.Severity != "ERROR" || d.Location.File != "src/main.rs" {
		t.Errorf("unexpected diagnostic %+v", d)
	}
	if d.Location.StartLine != 2 || d.Location.StartCol != 13 {
		t.Errorf("position %+v", d.Location)
	}
	if len(d.Notes) != 1 || d.Notes[0].Message != "while pasting here" {
		t.Errorf("notes %+v", d.Notes)
	}
}

func TestTokenDumps(t *testing.T) {
	fs, stream := lexer.ParseString("t.rs", "a::b(1)", lexer.Options{})

	var tree bytes.Buffer
	if err := diagfmt.FormatTreePretty(&tree, stream, fs); err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		`Ident "a" @1:1`,
		`Punct ":" Joint @1:2`,
		`Punct ":" Alone @1:3`,
		`Ident "b" @1:4`,
		`Group Parenthesis @1:5`,
		`  Literal "1" @1:6`,
		``,
	}, "\n")
	if tree.String() != want {
		t.Fatalf("tree dump:\n%s\nwant:\n%s", tree.String(), want)
	}

	var js bytes.Buffer
	if err := diagfmt.FormatTreeJSON(&js, stream); err != nil {
		t.Fatal(err)
	}
	var nodes []diagfmt.TreeOutput
	if err := json.Unmarshal(js.Bytes(), &nodes); err != nil {
		t.Fatal(err)
	}
	if len(nodes) != 5 || nodes[4].Delim != "Parenthesis" || len(nodes[4].Children) != 1 {
		t.Fatalf("json tree %+v", nodes)
	}
}
