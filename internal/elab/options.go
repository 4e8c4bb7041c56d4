package elab

import (
	"svdump/internal/ast"
	"svdump/internal/diag"
	"svdump/internal/source"
)

const (
	DefaultMaxInstanceDepth      = 128
	DefaultMaxGenerateIterations = 1 << 16
)

type Options struct {
	// Tops names the top-level modules; empty means every module that is
	// never instantiated.
	Tops                  []string
	MaxInstanceDepth      int
	MaxGenerateIterations int
	Reporter              diag.Reporter
}

// Input is one command-line source file. Unit is nil when the file could
// not be loaded.
type Input struct {
	File source.FileID
	Unit *ast.Unit
}

func (o *Options) normalize() {
	if o.MaxInstanceDepth <= 0 {
		o.MaxInstanceDepth = DefaultMaxInstanceDepth
	}
	if o.MaxGenerateIterations <= 0 {
		o.MaxGenerateIterations = DefaultMaxGenerateIterations
	}
	if o.Reporter == nil {
		o.Reporter = diag.NopReporter{}
	}
}
