// Package pipeline holds the progress vocabulary shared by the driver, the
// progress UI and the CLI: which pass a file is in and how it went.
package pipeline

import (
	"sort"
	"time"
)

// Stage is one pass over a file.
type Stage string

const (
	StageLex    Stage = "lex"
	StageTree   Stage = "tree"
	StageExpand Stage = "expand"
	StagePrint  Stage = "print"
	StageWrite  Stage = "write"
)

// Stages lists the passes in execution order.
var Stages = []Stage{StageLex, StageTree, StageExpand, StagePrint, StageWrite}

// Weight is the fraction of a file's work finished once stage starts.
func (s Stage) Weight() float64 {
	for i, st := range Stages {
		if st == s {
			return float64(i) / float64(len(Stages))
		}
	}
	return 0
}

// Status is the state of a file within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusCached  Status = "cached"
	StatusError   Status = "error"
)

// Final reports whether no further events follow for the file.
func (s Status) Final() bool {
	return s == StatusDone || s == StatusCached || s == StatusError
}

// Event reports progress of one file, or of the whole run when File is empty.
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. Implementations must be safe for
// concurrent use: ExpandDir reports from every worker.
type ProgressSink interface {
	OnEvent(Event)
}

// Timings accumulates per-stage durations. The zero value is ready to use;
// a nil *Timings ignores writes.
type Timings struct {
	stages map[Stage]time.Duration
}

// Add adds dur to stage.
func (t *Timings) Add(stage Stage, dur time.Duration) {
	if t == nil {
		return
	}
	if t.stages == nil {
		t.stages = make(map[Stage]time.Duration, len(Stages))
	}
	t.stages[stage] += dur
}

// Merge adds every duration recorded in o.
func (t *Timings) Merge(o Timings) {
	for st, d := range o.stages {
		t.Add(st, d)
	}
}

// Has reports whether stage was recorded.
func (t Timings) Has(stage Stage) bool {
	_, ok := t.stages[stage]
	return ok
}

// Duration returns the recorded duration for stage.
func (t Timings) Duration(stage Stage) time.Duration {
	return t.stages[stage]
}

// Total sums all recorded stages.
func (t Timings) Total() time.Duration {
	var total time.Duration
	for _, d := range t.stages {
		total += d
	}
	return total
}

// Recorded returns the recorded stages in execution order; unknown stages
// follow, sorted by name.
func (t Timings) Recorded() []Stage {
	out := make([]Stage, 0, len(t.stages))
	for _, st := range Stages {
		if t.Has(st) {
			out = append(out, st)
		}
	}
	var extra []Stage
	for st := range t.stages {
		if st.Weight() == 0 && st != Stages[0] {
			extra = append(extra, st)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	return append(out, extra...)
}
