// Package driver runs the front end over the command-line inputs and
// decides whether the compilation succeeded. It never prints and never
// exits; the caller renders diagnostics and writes the document.
package driver

import (
	"context"
	"fmt"

	"svdump/internal/diag"
	"svdump/internal/source"
	"svdump/internal/tree"
)

// Result is the outcome of one compilation. Tree is set even when OK is
// false, so the document can still be written.
type Result struct {
	Tree    *tree.Tree
	Root    tree.NodeID
	Bag     *diag.Bag
	FileSet *source.FileSet
	OK      bool
}

// Run compiles paths with the reference front end. The error is non-nil
// only when ctx is canceled; source problems are diagnostics in Bag.
func Run(ctx context.Context, opts Options, paths []string) (*Result, error) {
	fs := source.NewFileSet()
	fe := newFrontEnd(fs, paths, opts)
	res, err := Compile(ctx, fe)
	if err != nil {
		return nil, err
	}
	if fe.err != nil {
		return nil, fmt.Errorf("compile: %w", fe.err)
	}
	res.FileSet = fs
	fe.phases.log(&opts)
	opts.debug("diagnostics", "errors", res.Bag.Count(diag.SevError)+res.Bag.Count(diag.SevFatal),
		"warnings", res.Bag.Count(diag.SevWarning))
	return res, nil
}

// Compile drives any FrontEnd: parse, build the tree, collect the log.
// The tree is built even when parsing failed.
func Compile(ctx context.Context, fe FrontEnd) (*Result, error) {
	parsed := fe.ParseAllSources(ctx)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t, root := fe.CreateCompilationTree()
	bag := fe.CollectDiagnostics()
	ok := parsed && t != nil && root.IsValid() && !bag.HasErrors()
	return &Result{Tree: t, Root: root, Bag: bag, OK: ok}, nil
}
