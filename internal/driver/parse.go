package driver

import (
	"context"

	"fortio.org/safecast"
	"golang.org/x/sync/errgroup"

	"svdump/internal/ast"
	"svdump/internal/diag"
	"svdump/internal/parser"
)

// parseAll parses the preprocessed streams in parallel, one ast.Builder
// per file.
func (fe *frontEnd) parseAll(ctx context.Context) error {
	maxErrors, err := safecast.Conv[uint](max(fe.opts.MaxDiagnostics, 0))
	if err != nil {
		maxErrors = 0
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fe.opts.jobs(len(fe.files)))
	for _, f := range fe.files {
		if !f.loaded {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			b := ast.NewBuilder(ast.Hints{})
			file := parser.ParseFile(f.id, f.toks, b, parser.Options{
				Reporter:  &diag.BagReporter{Bag: f.bag},
				MaxErrors: maxErrors,
			})
			f.unit = &ast.Unit{File: file, Builder: b}
			f.toks = nil
			return nil
		})
	}
	return g.Wait()
}
