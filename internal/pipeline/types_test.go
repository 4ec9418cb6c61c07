package pipeline_test

import (
	"testing"
	"time"

	"splice/internal/pipeline"
)

func TestTimingsAccumulate(t *testing.T) {
	var tm pipeline.Timings
	tm.Add(pipeline.StageExpand, 2*time.Millisecond)
	tm.Add(pipeline.StageLex, time.Millisecond)
	tm.Add(pipeline.StageExpand, 3*time.Millisecond)

	if got := tm.Duration(pipeline.StageExpand); got != 5*time.Millisecond {
		t.Fatalf("expand = %v", got)
	}
	if tm.Has(pipeline.StagePrint) {
		t.Fatal("print not recorded")
	}
	if got := tm.Total(); got != 6*time.Millisecond {
		t.Fatalf("total = %v", got)
	}
	rec := tm.Recorded()
	if len(rec) != 2 || rec[0] != pipeline.StageLex || rec[1] != pipeline.StageExpand {
		t.Fatalf("recorded order = %v", rec)
	}

	var other pipeline.Timings
	other.Add(pipeline.StageLex, time.Millisecond)
	tm.Merge(other)
	if got := tm.Duration(pipeline.StageLex); got != 2*time.Millisecond {
		t.Fatalf("merged lex = %v", got)
	}

	var nilTimings *pipeline.Timings
	nilTimings.Add(pipeline.StageLex, time.Second)
}

func TestStageWeight(t *testing.T) {
	if pipeline.StageLex.Weight() != 0 {
		t.Fatal("first stage starts at zero")
	}
	if !(pipeline.StageExpand.Weight() > pipeline.StageTree.Weight()) {
		t.Fatal("weights must grow with stage order")
	}
	if !pipeline.StatusCached.Final() || pipeline.StatusWorking.Final() {
		t.Fatal("unexpected Final")
	}
}

func TestSinks(t *testing.T) {
	ch := make(chan pipeline.Event, 4)
	var rec pipeline.Recorder
	pipeline.EmitQueued(pipeline.ChannelSink{Ch: ch}, []string{"a.rs", "b.rs"})
	pipeline.Emit(&rec, pipeline.Event{File: "a.rs", Status: pipeline.StatusDone})
	pipeline.Emit(nil, pipeline.Event{})

	if len(ch) != 2 {
		t.Fatalf("channel got %d events", len(ch))
	}
	if ev := <-ch; ev.File != "a.rs" || ev.Status != pipeline.StatusQueued {
		t.Fatalf("unexpected event %+v", ev)
	}
	if evs := rec.Events(); len(evs) != 1 || evs[0].Status != pipeline.StatusDone {
		t.Fatalf("recorder = %+v", evs)
	}

	var got []string
	pipeline.FuncSink(func(e pipeline.Event) { got = append(got, e.File) }).OnEvent(pipeline.Event{File: "x"})
	if len(got) != 1 {
		t.Fatal("func sink not called")
	}
}
