// Package diag defines the diagnostic model shared by every phase of splice.
//
// # Purpose
//
//   - Deterministic data structures for findings produced by the lexer, the
//     token-tree builder and the paste expander.
//   - Light-weight utilities (Reporter, Bag) so producers emit diagnostics without
//     coupling to storage or formatting.
//
// Package diag does no formatting beyond the single-line golden form and no IO.
// Rendering lives in internal/diagfmt; orchestration lives in internal/driver.
//
// # Data model
//
// Diagnostic carries a Severity, a Code (see codes.go; the ID prefix names the
// phase: LEX, SYN, PST, IO, CFG), a short Message, the Primary span and optional
// Notes. Paste errors that point at two positions (a `:` and the modifier name
// after it) report one primary span covering both.
//
// # Emitting diagnostics
//
// Phases take a diag.Reporter. ReportError returns a ReportBuilder; chain
// WithNote and call Emit. DedupReporter drops repeats before they reach a
// BagReporter, and a Bag sorts its diagnostics for stable output.
package diag
