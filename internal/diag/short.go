package diag

import (
	"fmt"
	"strings"

	"svdump/internal/source"
)

// FormatShort renders one line per diagnostic:
//
//	<severity> <CODE> <path>:<line>:<col> <message>
//
// Order is the bag order. Diagnostics without a location print "-" as path.
func FormatShort(diags []Diagnostic, fs *source.FileSet) string {
	var b strings.Builder
	for i, d := range diags {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s %s %s %s", strings.ToLower(d.Severity.String()), d.Code.ID(), shortLocation(d.Primary, fs), d.Message)
	}
	return b.String()
}

func shortLocation(sp source.Span, fs *source.FileSet) string {
	if fs == nil || sp.IsDetached() {
		return "-"
	}
	f := fs.Get(sp.File)
	if f == nil {
		return "-"
	}
	if f.Missing() {
		return f.Path
	}
	start, _ := fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", f.Path, start.Line, start.Col)
}
