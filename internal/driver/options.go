package driver

import (
	"github.com/charmbracelet/log"

	"svdump/internal/preproc"
)

// Options are the front-end settings of one compilation.
type Options struct {
	Tops             []string
	Defines          []preproc.Define
	IncludeDirs      []string
	MaxInstanceDepth int
	// MaxDiagnostics bounds notes and warnings kept per file; errors are
	// always kept.
	MaxDiagnostics int
	// Jobs is the number of parallel lex/parse workers; 0 means GOMAXPROCS.
	Jobs int
	// Logger receives phase timings at debug level. It may be nil.
	Logger *log.Logger
	// Observer, if set, is called at every phase boundary.
	Observer PhaseObserver
}

func (o *Options) debug(msg string, keyvals ...any) {
	if o.Logger != nil {
		o.Logger.Debug(msg, keyvals...)
	}
}
