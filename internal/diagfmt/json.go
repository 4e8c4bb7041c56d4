package diagfmt

import (
	"encoding/json"
	"io"

	"svdump/internal/diag"
	"svdump/internal/source"
)

// LocationJSON - байтовый диапазон и, по желанию, line/col.
type LocationJSON struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

type NoteJSON struct {
	Message  string        `json:"message"`
	Location *LocationJSON `json:"location,omitempty"`
}

type DiagnosticJSON struct {
	Severity string        `json:"severity"`
	Code     string        `json:"code"`
	Message  string        `json:"message"`
	Location *LocationJSON `json:"location,omitempty"`
	Notes    []NoteJSON    `json:"notes,omitempty"`
}

// DiagnosticsOutput is the top-level object written by JSON.
// Diagnostics is never nil so an empty run encodes as [].
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
	Dropped     int              `json:"dropped,omitempty"`
}

type locator struct {
	fs   *source.FileSet
	opts JSONOpts
}

// at returns nil for detached spans and unknown files. Missing files keep
// their path but never get line/col.
func (l locator) at(sp source.Span) *LocationJSON {
	if l.fs == nil || sp.IsDetached() {
		return nil
	}
	f := l.fs.Get(sp.File)
	if f == nil {
		return nil
	}
	loc := LocationJSON{File: formatPath(f, l.fs, l.opts.PathMode), StartByte: sp.Start, EndByte: sp.End}
	if l.opts.IncludePositions && !f.Missing() {
		from, to := l.fs.Resolve(sp)
		loc.StartLine, loc.StartCol = from.Line, from.Col
		loc.EndLine, loc.EndCol = to.Line, to.Col
	}
	return &loc
}

func (l locator) diagnostic(d *diag.Diagnostic) DiagnosticJSON {
	out := DiagnosticJSON{
		Severity: d.Severity.String(),
		Code:     d.Code.ID(),
		Message:  d.Message,
		Location: l.at(d.Primary),
	}
	if !l.opts.IncludeNotes {
		return out
	}
	for _, n := range d.Notes {
		out.Notes = append(out.Notes, NoteJSON{Message: n.Msg, Location: l.at(n.Span)})
	}
	return out
}

// BuildDiagnosticsOutput converts bag without encoding it. Items past
// opts.Max are counted in Dropped together with those the bag refused.
func BuildDiagnosticsOutput(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) DiagnosticsOutput {
	items := bag.Items()
	keep := len(items)
	if opts.Max > 0 {
		keep = min(keep, opts.Max)
	}
	l := locator{fs: fs, opts: opts}
	out := DiagnosticsOutput{
		Diagnostics: make([]DiagnosticJSON, keep),
		Count:       keep,
		Dropped:     bag.Dropped() + len(items) - keep,
	}
	for i := range keep {
		out.Diagnostics[i] = l.diagnostic(&items[i])
	}
	return out
}

// JSON пишет диагностики с отступом в два пробела.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildDiagnosticsOutput(bag, fs, opts))
}
