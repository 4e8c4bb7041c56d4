package main

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"svdump/internal/driver"
	"svdump/internal/ui"
)

type compileOutcome struct {
	res *driver.Result
	err error
}

// runCompileWithUI compiles in the background while a progress view draws
// on out. A UI failure is logged; the compile outcome still decides the
// exit status.
func runCompileWithUI(ctx context.Context, out io.Writer, opts driver.Options, paths []string) (*driver.Result, error) {
	phases := driver.Phases()
	// two events per phase, so the observer never blocks even after the
	// program has quit
	events := make(chan driver.PhaseEvent, 2*len(phases)+2)
	outcomeCh := make(chan compileOutcome, 1)

	next := opts.Observer
	opts.Observer = func(ev driver.PhaseEvent) {
		if next != nil {
			next(ev)
		}
		select {
		case events <- ev:
		default:
		}
	}
	go func() {
		res, err := compileSources(ctx, opts, paths)
		outcomeCh <- compileOutcome{res: res, err: err}
		close(events)
	}()

	title := fmt.Sprintf("compiling %d file(s)", len(paths))
	program := tea.NewProgram(ui.NewProgressModel(title, phases, events), tea.WithOutput(out), tea.WithInput(nil))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		loggerFromContext(ctx).Warn("progress view failed", "err", uiErr)
	}
	return outcome.res, outcome.err
}
