// Package preproc applies compiler directives to a lexed token stream.
package preproc

import (
	"fmt"
	"strings"
)

// DefaultMaxIncludeDepth bounds `include nesting.
const DefaultMaxIncludeDepth = 32

// Define is a command-line macro definition (-D NAME[=VALUE]).
type Define struct {
	Name  string
	Value string
}

// ParseDefine splits "NAME=VALUE"; a bare NAME defines it as 1.
func ParseDefine(s string) (Define, error) {
	name, value, hasValue := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !validMacroName(name) {
		return Define{}, fmt.Errorf("invalid macro name %q", name)
	}
	if !hasValue {
		value = "1"
	}
	return Define{Name: name, Value: value}, nil
}

func validMacroName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c == '_', 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case i > 0 && ('0' <= c && c <= '9' || c == '$'):
		default:
			return false
		}
	}
	return true
}

type Options struct {
	Defines         []Define
	IncludeDirs     []string
	MaxIncludeDepth int
	// MaxTokens is forwarded to the lexer for included files.
	MaxTokens int
}
