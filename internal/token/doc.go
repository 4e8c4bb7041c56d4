// Package token defines lexical token kinds and trivia for the Verilog
// front end.
// Invariants:
//   - Token.Text is the source text of the token; Span matches it exactly.
//   - Escaped identifiers keep the leading backslash in Text; Name strips it.
//   - System names ($clog2, $bits) are SystemIdent, never Ident.
//   - Compiler directives (`define, `ifdef, ...) arrive as Directive tokens
//     and are consumed by the preprocessor before parsing.
package token
