package main

import (
	"fmt"
	"io"
	"time"

	"splice/internal/pipeline"
)

// printStageTimings writes one line per recorded stage and a total.
func printStageTimings(out io.Writer, timings pipeline.Timings) {
	if out == nil {
		return
	}
	for _, st := range timings.Recorded() {
		fmt.Fprintf(out, "%-7s %8.1f ms\n", st, toMillis(timings.Duration(st)))
	}
	fmt.Fprintf(out, "%-7s %8.1f ms\n", "total", toMillis(timings.Total()))
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
