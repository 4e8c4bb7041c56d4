package driver

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"svdump/internal/diag"
	"svdump/internal/lexer"
	"svdump/internal/token"
)

// jobs returns the worker limit for n files.
func (o *Options) jobs(n int) int {
	j := o.Jobs
	if j <= 0 {
		j = runtime.GOMAXPROCS(0)
	}
	return max(1, min(j, n))
}

// tokenizeAll lexes every loaded file in parallel. Each worker owns its
// slot in files, so no locking is needed.
func (fe *frontEnd) tokenizeAll(ctx context.Context) error {
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
			rep := &diag.BagReporter{Bag: f.bag}
			f.toks = lexer.New(fe.fs.Get(f.id), lexer.Options{Reporter: rep}).All()
			return nil
		})
	}
	return g.Wait()
}

// preprocessAll runs directives file by file. Includes are loaded into the
// shared FileSet, so this stage is sequential.
func (fe *frontEnd) preprocessAll(ctx context.Context) error {
	for _, f := range fe.files {
		if !f.loaded {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		f.toks = fe.pp.Process(f.toks, &diag.BagReporter{Bag: f.bag})
	}
	return nil
}

func countTokens(files []*fileState) int {
	n := 0
	for _, f := range files {
		for _, t := range f.toks {
			if t.Kind != token.EOF {
				n++
			}
		}
	}
	return n
}
