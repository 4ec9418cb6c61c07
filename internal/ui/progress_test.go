package ui

import (
	"strings"
	"testing"

	"splice/internal/pipeline"
)

func TestModelTracksFiles(t *testing.T) {
	events := make(chan pipeline.Event)
	m := NewProgressModel("expanding src", []string{"a.rs", "b.rs"}, events)

	if f := m.Fraction(); f != 0 {
		t.Fatalf("fresh model fraction = %v", f)
	}
	m.Update(eventMsg(pipeline.Event{File: "a.rs", Stage: pipeline.StageExpand, Status: pipeline.StatusWorking}))
	mid := m.Fraction()
	if mid <= 0 || mid >= 0.5 {
		t.Fatalf("working fraction = %v", mid)
	}
	m.Update(eventMsg(pipeline.Event{File: "a.rs", Stage: pipeline.StageWrite, Status: pipeline.StatusDone}))
	m.Update(eventMsg(pipeline.Event{File: "b.rs", Stage: pipeline.StageLex, Status: pipeline.StatusError}))
	m.Update(eventMsg(pipeline.Event{File: "unknown.rs", Status: pipeline.StatusDone}))
	if f := m.Fraction(); f != 1 {
		t.Fatalf("final fraction = %v", f)
	}

	view := m.View()
	for _, want := range []string{"expanding src", "1 failed", "a.rs", "b.rs", "done", "error"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestModelInterrupted(t *testing.T) {
	events := make(chan pipeline.Event)
	m := NewProgressModel("x", nil, events)
	if !m.Interrupted() {
		t.Fatalf("model without a closed stream must count as interrupted")
	}
	m.Update(closedMsg{})
	if m.Interrupted() {
		t.Fatalf("closed stream still reported as interrupted")
	}
}

func TestTruncate(t *testing.T) {
	cases := []struct {
		in    string
		width int
		want  string
	}{
		{"short.rs", 20, "short.rs"},
		{"src/very/long/path.rs", 10, "src/ver..."},
		{"abcdef", 3, "abc"},
		{"abc", 0, "abc"},
	}
	for _, c := range cases {
		if got := Truncate(c.in, c.width); got != c.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", c.in, c.width, got, c.want)
		}
	}
}
