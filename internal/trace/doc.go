// Package trace is the structured logging layer of splice.
//
// Events are spans (begin/end pairs) and points, each tagged with a Scope.
// The Level decides which scopes reach the output.
//
// # Usage
//
//	splice expand --trace=- --trace-level=detail src/
//
// # Tracers
//
//   - Nop: zero-overhead tracer when disabled
//   - StreamTracer: immediate write to a file or stderr, text or NDJSON
//   - RingTracer: last N events in memory, dumped on failure
//   - MultiTracer: fans out to several tracers
//
// # Levels
//
//   - LevelOff: no tracing
//   - LevelError: ring buffer only, dumped when a command fails
//   - LevelPhase: driver and pass boundaries
//   - LevelDetail: per-file events
//   - LevelDebug: everything, including single paste operations
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopePass, "expand", parentID)
//	defer span.End("")
package trace
