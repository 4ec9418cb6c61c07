// Package paste expands identifier-pasting operations in token streams.
//
// A paste operation is a bracket group whose contents are `< ... >`, for
// example `[<get_ field>]`. Its segments (identifiers, literals, `env!("VAR")`
// lookups, `'` lifetime markers and `:lower`, `:upper`, `:snake`, `:camel`
// modifiers) are concatenated into a single identifier or lifetime that
// replaces the group. Invisible groups holding a flat identifier, literal,
// lifetime or `a::b` path are unwrapped, and an invisible group adjacent to a
// `::` path separator is stitched into the surrounding stream.
//
// The walk is synchronous and pure: the input stream is never modified, and
// the first failing operation aborts the whole call with an *Error.
package paste
