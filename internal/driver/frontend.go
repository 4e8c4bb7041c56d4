package driver

import (
	"context"
	"fmt"

	"svdump/internal/ast"
	"svdump/internal/diag"
	"svdump/internal/elab"
	"svdump/internal/preproc"
	"svdump/internal/source"
	"svdump/internal/token"
	"svdump/internal/tree"
)

// FrontEnd is the compiler engine seen by the orchestrator.
type FrontEnd interface {
	// ParseAllSources loads, preprocesses and parses every input. It
	// reports false when any input produced an error.
	ParseAllSources(ctx context.Context) bool
	// CreateCompilationTree elaborates the parsed inputs. It must be
	// called after ParseAllSources and always returns a tree.
	CreateCompilationTree() (*tree.Tree, tree.NodeID)
	// CollectDiagnostics returns every diagnostic so far, in input-file
	// order. Diagnostics in an included file stay with the input that
	// included it.
	CollectDiagnostics() *diag.Bag
}

type fileState struct {
	path   string
	id     source.FileID
	loaded bool
	toks   []token.Token
	bag    *diag.Bag
	unit   *ast.Unit
}

type frontEnd struct {
	fs     *source.FileSet
	paths  []string
	opts   Options
	pp     *preproc.Preprocessor
	files  []*fileState
	elab   *diag.Bag
	phases *phases
	err    error
}

// NewFrontEnd returns the reference front end over paths. Files are read
// into fs when ParseAllSources runs.
func NewFrontEnd(fs *source.FileSet, paths []string, opts Options) FrontEnd {
	return newFrontEnd(fs, paths, opts)
}

func newFrontEnd(fs *source.FileSet, paths []string, opts Options) *frontEnd {
	return &frontEnd{fs: fs, paths: paths, opts: opts, phases: newPhases(opts.Observer)}
}

func (fe *frontEnd) ParseAllSources(ctx context.Context) bool {
	end := fe.phases.begin(PhaseLoad)
	fe.load()
	end(fmt.Sprintf("%d files", len(fe.files)))

	fe.pp = preproc.New(fe.fs, preproc.Options{
		Defines:     fe.opts.Defines,
		IncludeDirs: fe.opts.IncludeDirs,
	})

	end = fe.phases.begin(PhaseLex)
	if fe.err = fe.tokenizeAll(ctx); fe.err != nil {
		end("canceled")
		return false
	}
	end("")

	end = fe.phases.begin(PhasePreprocess)
	if fe.err = fe.preprocessAll(ctx); fe.err != nil {
		end("canceled")
		return false
	}
	end(fmt.Sprintf("%d tokens", countTokens(fe.files)))

	end = fe.phases.begin(PhaseParse)
	if fe.err = fe.parseAll(ctx); fe.err != nil {
		end("canceled")
		return false
	}
	end("")

	for _, f := range fe.files {
		if f.bag.HasErrors() {
			return false
		}
	}
	return true
}

// load registers every path in input order. An unreadable file becomes a
// missing entry with a fatal diagnostic, so it still owns its FileID.
func (fe *frontEnd) load() {
	fe.files = make([]*fileState, len(fe.paths))
	for i, path := range fe.paths {
		f := &fileState{path: path, bag: diag.NewBag(fe.opts.MaxDiagnostics)}
		id, err := fe.fs.Load(path)
		if err != nil {
			f.id = fe.fs.AddMissing(path)
			diag.NewReportBuilder(&diag.BagReporter{Bag: f.bag}, diag.SevFatal, diag.IOLoadFileError,
				source.Span{File: f.id}, "cannot read source file: "+err.Error()).Emit()
		} else {
			f.id = id
			f.loaded = true
		}
		fe.files[i] = f
	}
}

func (fe *frontEnd) CreateCompilationTree() (*tree.Tree, tree.NodeID) {
	end := fe.phases.begin(PhaseElaborate)
	inputs := make([]elab.Input, len(fe.files))
	for i, f := range fe.files {
		inputs[i] = elab.Input{File: f.id, Unit: f.unit}
	}
	fe.elab = diag.NewBag(fe.opts.MaxDiagnostics)
	t, root := elab.Elaborate(fe.fs, inputs, elab.Options{
		Tops:             fe.opts.Tops,
		MaxInstanceDepth: fe.opts.MaxInstanceDepth,
		Reporter:         &diag.BagReporter{Bag: fe.elab},
	})
	end(fmt.Sprintf("%d nodes", t.Len()))
	return t, root
}

func (fe *frontEnd) CollectDiagnostics() *diag.Bag {
	total := diag.NewBag(fe.opts.MaxDiagnostics)
	late := diag.NewBag(0)
	late.Merge(fe.elab)
	for _, f := range fe.files {
		total.Merge(f.bag)
		total.Merge(late.Extract(func(d *diag.Diagnostic) bool {
			return fe.fs.Origin(d.Primary.File) == f.id
		}))
	}
	total.Merge(late)
	return total
}
