// Package diag defines the diagnostic model shared by all front-end phases.
//
// Diagnostic is the central record: Severity (note, warning, error, fatal),
// a numeric Code with a stable string ID, a short Message, the Primary
// source.Span and optional Notes. Phases emit through a Reporter; BagReporter
// stores into a Bag, which the driver merges in input-file order.
//
// Package diag does no formatting beyond the one-line FormatShort used by
// tests and quiet CLI output. Human and JSON rendering live in
// internal/diagfmt.
//
// A Bag never drops errors or fatal diagnostics, even past its limit: the
// success decision and the process exit code are computed from it.
package diag
