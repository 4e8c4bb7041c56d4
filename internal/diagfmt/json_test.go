package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"svdump/internal/diag"
	"svdump/internal/source"
)

// TestJSONBasic проверяет базовое JSON форматирование
func TestJSONBasic(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("module m;\n  wire \"unterminated\nendmodule\n")
	fileID := fs.AddVirtual("rtl/test.sv", content)

	bag := diag.NewBag(10)
	d := diag.New(
		diag.SevError,
		diag.LexUnterminatedString,
		source.Span{File: fileID, Start: 17, End: 30},
		"Unterminated string literal",
	).WithNote(source.Span{File: fileID, Start: 0, End: 6}, "inside this module")
	bag.Add(d)

	var buf bytes.Buffer
	opts := JSONOpts{
		IncludePositions: true,
		PathMode:         PathModeBasename,
		IncludeNotes:     true,
	}
	if err := JSON(&buf, bag, fs, opts); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Invalid JSON output: %v\nOutput: %s", err, buf.String())
	}
	if output.Count != 1 || len(output.Diagnostics) != 1 {
		t.Fatalf("Expected 1 diagnostic, got %d", output.Count)
	}

	got := output.Diagnostics[0]
	if got.Severity != "ERROR" || got.Code != "LEX1002" || got.Message != "Unterminated string literal" {
		t.Errorf("unexpected header: %+v", got)
	}
	if got.Location == nil {
		t.Fatal("Expected a location")
	}
	if got.Location.File != "test.sv" {
		t.Errorf("Expected file=test.sv, got %s", got.Location.File)
	}
	if got.Location.StartByte != 17 || got.Location.EndByte != 30 {
		t.Errorf("bytes = %d..%d", got.Location.StartByte, got.Location.EndByte)
	}
	if got.Location.StartLine != 2 || got.Location.StartCol != 8 {
		t.Errorf("position = %d:%d, want 2:8", got.Location.StartLine, got.Location.StartCol)
	}
	if len(got.Notes) != 1 || got.Notes[0].Message != "inside this module" {
		t.Errorf("notes = %+v", got.Notes)
	}
}

// TestJSONWithoutPositions проверяет, что line/col опускаются
func TestJSONWithoutPositions(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("a.sv", []byte("module a;\n"))
	bag := diag.NewBag(10)
	bag.Add(diag.New(diag.SevWarning, diag.SemaUnusedPort, source.Span{File: fileID, Start: 7, End: 8}, "w"))

	var buf bytes.Buffer
	opts := JSONOpts{PathMode: PathModeBasename}
	if err := JSON(&buf, bag, fs, opts); err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(buf.Bytes(), []byte("start_line")) {
		t.Errorf("start_line should be omitted:\n%s", buf.String())
	}
}

// TestJSONDetachedAndMissing: у span без файла нет location, у
// отсутствующего файла есть только путь.
func TestJSONDetachedAndMissing(t *testing.T) {
	fs := source.NewFileSet()
	missing := fs.AddMissing("gone.sv")
	bag := diag.NewBag(10)
	bag.Add(diag.New(diag.SevFatal, diag.IOLoadFileError, source.Span{File: missing}, "cannot read source file"))
	bag.Add(diag.New(diag.SevError, diag.SemaUnknownTop, source.Detached(), "unknown top module 'x'"))

	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{IncludePositions: true})
	if out.Count != 2 {
		t.Fatalf("count = %d", out.Count)
	}
	first := out.Diagnostics[0]
	if first.Location == nil || first.Location.File != "gone.sv" || first.Location.StartLine != 0 {
		t.Errorf("missing file location = %+v", first.Location)
	}
	if first.Severity != "FATAL" {
		t.Errorf("severity = %s", first.Severity)
	}
	if out.Diagnostics[1].Location != nil {
		t.Errorf("detached diagnostic has location %+v", out.Diagnostics[1].Location)
	}
}

// TestJSONMaxLimit проверяет ограничение количества диагностик
func TestJSONMaxLimit(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.sv", []byte("module m; endmodule\n"))

	bag := diag.NewBag(100)
	for i := range uint32(10) {
		bag.Add(diag.New(diag.SevWarning, diag.LexUnknownChar, source.Span{File: fileID, Start: i, End: i + 1}, "Test warning"))
	}

	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 5})
	if out.Count != 5 || len(out.Diagnostics) != 5 {
		t.Errorf("Expected 5 diagnostics, got %d", out.Count)
	}
	if out.Dropped != 5 {
		t.Errorf("dropped = %d, want 5", out.Dropped)
	}
}

// TestJSONEmptyBag проверяет пустой вывод: массив, а не null
func TestJSONEmptyBag(t *testing.T) {
	var buf bytes.Buffer
	if err := JSON(&buf, diag.NewBag(10), source.NewFileSet(), JSONOpts{}); err != nil {
		t.Fatal(err)
	}
	want := "{\n  \"diagnostics\": [],\n  \"count\": 0\n}\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}
