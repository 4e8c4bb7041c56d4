package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"svdump/internal/diag"
	"svdump/internal/source"
)

type palette struct {
	sev      map[diag.Severity]*color.Color
	code     *color.Color
	location *color.Color
	gutter   *color.Color
	caret    *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		sev: map[diag.Severity]*color.Color{
			diag.SevNote:    color.New(color.FgCyan, color.Bold),
			diag.SevWarning: color.New(color.FgYellow, color.Bold),
			diag.SevError:   color.New(color.FgRed, color.Bold),
			diag.SevFatal:   color.New(color.FgMagenta, color.Bold),
		},
		code:     color.New(color.Faint),
		location: color.New(color.Bold),
		gutter:   color.New(color.FgBlue),
		caret:    color.New(color.FgGreen, color.Bold),
	}
	all := []*color.Color{p.code, p.location, p.gutter, p.caret}
	for _, c := range p.sev {
		all = append(all, c)
	}
	for _, c := range all {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() в том порядке, в каком их собрал driver.
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		sev := p.sev[d.Severity]
		if sev == nil {
			sev = p.code
		}
		loc := location(d.Primary, fs, opts.PathMode)
		if loc != "" {
			fmt.Fprintf(w, "%s: ", p.location.Sprint(loc))
		}
		fmt.Fprintf(w, "%s %s: %s\n", sev.Sprint(d.Severity.String()), p.code.Sprint(d.Code.ID()), d.Message)
		excerpt(w, d.Primary, fs, opts, p)
		for _, n := range d.Notes {
			noteLoc := location(n.Span, fs, opts.PathMode)
			if noteLoc != "" {
				noteLoc += ": "
			}
			fmt.Fprintf(w, "  %s %s%s\n", p.sev[diag.SevNote].Sprint("note:"), noteLoc, n.Msg)
			if opts.ShowNotes {
				excerpt(w, n.Span, fs, opts, p)
			}
		}
	}
	if opts.Summary {
		fmt.Fprintln(w, Summary(bag))
	}
}

// Summary renders "N errors, M warnings", with the dropped count when
// the bag hit its limit.
func Summary(bag *diag.Bag) string {
	errs := bag.Count(diag.SevError) + bag.Count(diag.SevFatal)
	s := plural(errs, "error") + ", " + plural(bag.Count(diag.SevWarning), "warning")
	if n := bag.Dropped(); n > 0 {
		s += " (" + strconv.Itoa(n) + " not shown)"
	}
	return s
}

func plural(n int, word string) string {
	if n != 1 {
		word += "s"
	}
	return strconv.Itoa(n) + " " + word
}

// location renders path:line:col, just path for files without content, or
// "" for detached spans.
func location(sp source.Span, fs *source.FileSet, mode PathMode) string {
	if sp.IsDetached() || fs == nil {
		return ""
	}
	f := fs.Get(sp.File)
	if f == nil {
		return ""
	}
	path := formatPath(f, fs, mode)
	if f.Missing() {
		return path
	}
	start, _ := fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", path, start.Line, start.Col)
}

func formatPath(f *source.File, fs *source.FileSet, mode PathMode) string {
	switch mode {
	case PathModeAbsolute:
		return f.FormatPath("absolute", "")
	case PathModeRelative:
		return f.FormatPath("relative", fs.BaseDir())
	case PathModeBasename:
		return f.FormatPath("basename", "")
	default:
		return f.FormatPath("auto", "")
	}
}

// excerpt prints the source line of sp with a caret underline. Columns
// are display cells, so wide runes and tabs keep the caret aligned.
func excerpt(w io.Writer, sp source.Span, fs *source.FileSet, opts PrettyOpts, p palette) {
	if sp.IsDetached() || fs == nil {
		return
	}
	f := fs.Get(sp.File)
	if f == nil || f.Missing() || len(f.Content) == 0 {
		return
	}
	start, end := fs.Resolve(sp)
	gutterWidth := len(strconv.FormatUint(uint64(start.Line), 10))

	first := start.Line
	if opts.Context > 0 && uint32(opts.Context) < first {
		first -= uint32(opts.Context)
	} else if opts.Context > 0 {
		first = 1
	}
	for ln := first; ln < start.Line; ln++ {
		fmt.Fprintf(w, " %s %s\n", p.gutter.Sprintf("%*d |", gutterWidth, ln), clip(f.GetLine(ln), opts.Width))
	}

	line := f.GetLine(start.Line)
	fmt.Fprintf(w, " %s %s\n", p.gutter.Sprintf("%*d |", gutterWidth, start.Line), clip(line, opts.Width))

	col := int(start.Col) - 1
	col = max(0, min(col, len(line)))
	stop := len(line)
	if end.Line == start.Line {
		stop = max(col, min(int(end.Col)-1, len(line)))
	}
	pad := indent(line[:col])
	width := max(1, runewidth.StringWidth(line[col:stop]))
	underline := "^" + strings.Repeat("~", width-1)
	fmt.Fprintf(w, " %s %s%s\n", p.gutter.Sprintf("%*s |", gutterWidth, ""), pad, p.caret.Sprint(underline))
}

// indent reproduces the whitespace shape of prefix: tabs stay tabs,
// everything else becomes spaces of the same display width.
func indent(prefix string) string {
	var sb strings.Builder
	for _, r := range prefix {
		if r == '\t' {
			sb.WriteByte('\t')
			continue
		}
		sb.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	return sb.String()
}

func clip(line string, width uint8) string {
	if width == 0 || runewidth.StringWidth(line) <= int(width) {
		return line
	}
	return runewidth.Truncate(line, int(width), "…")
}
