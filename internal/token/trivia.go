package token

import "svdump/internal/source"

type TriviaKind uint8

const (
	TriviaSpace TriviaKind = iota
	TriviaNewline
	TriviaLineComment
	TriviaBlockComment
	// TriviaContinuation is a backslash-newline pair.
	TriviaContinuation
)

type Trivia struct {
	Kind TriviaKind
	Span source.Span
	Text string
}
