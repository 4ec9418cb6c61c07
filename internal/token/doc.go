// Package token defines the token model splice operates on.
//
// There are two layers:
//   - Token is a flat lexical token produced by the lexer. Token.Text is the exact
//     source slice and Token.Span matches it byte for byte. Comments and whitespace
//     travel as leading Trivia and never appear as tokens.
//   - Tree is a token tree: an Ident, Literal, Punct or a delimited Group holding a
//     nested Stream. This is the shape macro-style transformers consume and produce.
//
// Invariants:
//   - A Punct holds exactly one character. Multi-character operators like `::` are
//     sequences of Punct trees where every character but the last is Joint.
//   - A lifetime `'a` is a Joint apostrophe Punct followed by an Ident.
//   - A Group's Span covers its opening and closing delimiters. Invisible groups
//     (Delimiter None) have no delimiter characters in printed output.
package token
