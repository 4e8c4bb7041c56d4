package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"svdump/internal/diag"
	"svdump/internal/document"
	"svdump/internal/driver"
	"svdump/internal/source"
	"svdump/internal/tree"
	"svdump/internal/version"
)

const (
	leafSrc = "module leaf(input a); endmodule\n"
	topSrc  = "module top; wire x; leaf u(.a(x)); endmodule\n"
	badSrc  = "module top; assign q = 1'b0; endmodule\n"
)

// workdir creates a temp dir with files and makes it the working
// directory for the rest of the test.
func workdir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, src := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	t.Chdir(dir)
	return dir
}

func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := execute(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func readDoc(t *testing.T, path string) document.Value {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read document: %v", err)
	}
	v, err := document.ParseJSON(data)
	if err != nil {
		t.Fatalf("parse document: %v\n%s", err, data)
	}
	return v
}

func rootKind(v document.Value) string {
	k, _ := v.Get("kind")
	return k.AsString()
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func TestHelpAndVersionWriteNoDocument(t *testing.T) {
	workdir(t, map[string]string{"top.sv": topSrc})

	code, out, _ := run(t, "--help")
	if code != exitOK || !strings.Contains(out, "Usage:") {
		t.Errorf("--help: code=%d out=%q", code, out)
	}
	code, out, _ = run(t, "--version")
	if code != exitOK || out != "svdump "+version.Version+"\n" {
		t.Errorf("--version: code=%d out=%q", code, out)
	}
	if exists("output.json") {
		t.Error("help/version must not write a document")
	}
}

func TestSuccessWritesDocument(t *testing.T) {
	workdir(t, map[string]string{"leaf.sv": leafSrc, "top.sv": topSrc})

	code, _, errOut := run(t, "leaf.sv", "top.sv")
	if code != exitOK {
		t.Fatalf("code = %d, stderr:\n%s", code, errOut)
	}
	if errOut != "" {
		t.Errorf("clean compile printed diagnostics:\n%s", errOut)
	}
	doc := readDoc(t, "output.json")
	if rootKind(doc) != "Root" {
		t.Errorf("root kind = %q", rootKind(doc))
	}
	data, _ := os.ReadFile("output.json")
	if !bytes.HasSuffix(data, []byte("}\n")) || !bytes.Contains(data, []byte("\n  ")) {
		t.Errorf("default output should be indented JSON:\n%s", data)
	}
	if !bytes.Contains(data, []byte(`"location"`)) {
		t.Error("locations are on by default")
	}
}

func TestCompileFailureStillWritesDocument(t *testing.T) {
	workdir(t, map[string]string{"bad.sv": badSrc})

	code, _, errOut := run(t, "-o", "bad.json", "bad.sv")
	if code != exitCompile {
		t.Fatalf("code = %d, want %d", code, exitCompile)
	}
	if !strings.Contains(errOut, "ERROR SEM3005") || !strings.Contains(errOut, "1 error") {
		t.Errorf("stderr:\n%s", errOut)
	}
	if rootKind(readDoc(t, "bad.json")) != "Root" {
		t.Error("document missing after failed compile")
	}
}

func TestQuietShowsOnlyErrors(t *testing.T) {
	workdir(t, map[string]string{"bad.sv": badSrc})

	code, _, errOut := run(t, "--quiet", "bad.sv")
	if code != exitCompile {
		t.Fatalf("code = %d", code)
	}
	if !strings.Contains(errOut, "SEM3005") {
		t.Errorf("error hidden by --quiet:\n%s", errOut)
	}
	if strings.Contains(errOut, "1 error,") {
		t.Errorf("--quiet printed the summary:\n%s", errOut)
	}
}

func TestDiagnosticsAsJSON(t *testing.T) {
	workdir(t, map[string]string{"bad.sv": badSrc})

	code, _, errOut := run(t, "--diag-format", "json", "bad.sv")
	if code != exitCompile {
		t.Fatalf("code = %d", code)
	}
	v, err := document.ParseJSON([]byte(errOut))
	if err != nil {
		t.Fatalf("stderr is not JSON: %v\n%s", err, errOut)
	}
	if n, _ := v.Get("count"); n.AsInt() < 1 {
		t.Errorf("count = %v\n%s", n, errOut)
	}
}

func TestUsageErrors(t *testing.T) {
	workdir(t, map[string]string{"top.sv": topSrc})

	tests := []struct {
		name string
		args []string
	}{
		{"unknown flag", []string{"--frobnicate", "top.sv"}},
		{"bad int", []string{"--jobs", "many", "top.sv"}},
		{"missing input", []string{"nope.sv"}},
		{"directory input", []string{"."}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, errOut := run(t, tt.args...)
			if code != exitUsage {
				t.Errorf("code = %d, want %d; stderr:\n%s", code, exitUsage, errOut)
			}
			if !strings.HasPrefix(errOut, "svdump: ") {
				t.Errorf("stderr = %q", errOut)
			}
		})
	}
	if exists("output.json") {
		t.Error("document written despite usage error")
	}
}

func TestOptionErrors(t *testing.T) {
	workdir(t, map[string]string{
		"top.sv":             topSrc,
		"broken/svdump.toml": "[output\n",
		"extra/svdump.toml":  "[output]\nformat = \"json\"\nflavour = \"mild\"\n",
	})

	tests := []struct {
		name string
		args []string
	}{
		{"no inputs", []string{}},
		{"bad format", []string{"--format", "xml", "top.sv"}},
		{"bad color", []string{"--color", "rainbow", "top.sv"}},
		{"bad diag format", []string{"--diag-format", "sarif", "top.sv"}},
		{"bad define", []string{"-D", "1WIDTH=8", "top.sv"}},
		{"bad depth", []string{"--max-instance-depth", "0", "top.sv"}},
		{"bad file names", []string{"--file-names", "short", "top.sv"}},
		{"bad ui", []string{"--ui", "fancy", "top.sv"}},
		{"invalid config", []string{"--config", "broken/svdump.toml", "top.sv"}},
		{"unknown config key", []string{"--config", "extra/svdump.toml", "top.sv"}},
		{"missing config", []string{"--config", "absent.toml", "top.sv"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, errOut := run(t, tt.args...)
			if code != exitOptions {
				t.Errorf("code = %d, want %d; stderr:\n%s", code, exitOptions, errOut)
			}
		})
	}
	if exists("output.json") {
		t.Error("document written despite option error")
	}
}

func TestOutputFailure(t *testing.T) {
	workdir(t, map[string]string{"top.sv": topSrc, "leaf.sv": leafSrc})

	code, _, errOut := run(t, "-o", filepath.Join("no", "such", "dir", "out.json"), "leaf.sv", "top.sv")
	if code != exitOutput {
		t.Fatalf("code = %d, want %d; stderr:\n%s", code, exitOutput, errOut)
	}
	if !strings.Contains(errOut, "create output") {
		t.Errorf("stderr = %q", errOut)
	}
}

func TestInvariantViolationWritesNothing(t *testing.T) {
	workdir(t, map[string]string{"top.sv": topSrc})
	orig := compileSources
	t.Cleanup(func() { compileSources = orig })
	compileSources = func(ctx context.Context, opts driver.Options, paths []string) (*driver.Result, error) {
		tr := tree.New(1)
		tr.Add(tree.KindRoot)
		return &driver.Result{Tree: tr, Root: tree.NodeID(42), Bag: diag.NewBag(0), FileSet: source.NewFileSet(), OK: true}, nil
	}

	code, _, errOut := run(t, "top.sv")
	if code != exitInternal {
		t.Fatalf("code = %d, want %d", code, exitInternal)
	}
	if !strings.Contains(errOut, "serializer invariant violated") || !strings.Contains(errOut, "invalid root") {
		t.Errorf("stderr:\n%s", errOut)
	}
	if exists("output.json") {
		t.Error("document written despite invariant violation")
	}
}

func TestCompactWithoutLocations(t *testing.T) {
	workdir(t, map[string]string{"leaf.sv": leafSrc, "top.sv": topSrc})

	code, _, errOut := run(t, "--compact", "--no-locations", "-o", "c.json", "leaf.sv", "top.sv")
	if code != exitOK {
		t.Fatalf("code = %d\n%s", code, errOut)
	}
	data, err := os.ReadFile("c.json")
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(data, []byte("\n")) || bytes.Contains(data, []byte(": ")) {
		t.Errorf("compact output has whitespace: %.80s", data)
	}
	if bytes.Contains(data, []byte(`"location"`)) {
		t.Error("--no-locations kept locations")
	}
}

func locationFiles(t *testing.T, path string) []string {
	t.Helper()
	var files []string
	walkDoc(readDoc(t, path), func(v document.Value) {
		if loc, ok := v.Get("location"); ok {
			f, _ := loc.Get("file")
			files = append(files, f.AsString())
		}
	})
	if len(files) == 0 {
		t.Fatalf("%s has no locations", path)
	}
	return files
}

func TestFileNamesMode(t *testing.T) {
	workdir(t, map[string]string{"rtl/leaf.sv": leafSrc, "rtl/top.sv": topSrc})

	if code, _, errOut := run(t, "--ui", "off", "-o", "full.json", "rtl/leaf.sv", "rtl/top.sv"); code != exitOK {
		t.Fatalf("full: code = %d\n%s", code, errOut)
	}
	for _, f := range locationFiles(t, "full.json") {
		if !strings.HasPrefix(f, "rtl/") {
			t.Fatalf("full mode file = %q", f)
		}
	}

	if code, _, errOut := run(t, "--file-names", "basename", "-o", "base.json", "rtl/leaf.sv", "rtl/top.sv"); code != exitOK {
		t.Fatalf("basename: code = %d\n%s", code, errOut)
	}
	for _, f := range locationFiles(t, "base.json") {
		if f != "leaf.sv" && f != "top.sv" {
			t.Fatalf("basename mode file = %q", f)
		}
	}
}

func TestMsgpackOutput(t *testing.T) {
	workdir(t, map[string]string{"leaf.sv": leafSrc, "top.sv": topSrc})

	if code, _, errOut := run(t, "-o", "doc.json", "leaf.sv", "top.sv"); code != exitOK {
		t.Fatalf("json run: %d\n%s", code, errOut)
	}
	if code, _, errOut := run(t, "--format", "msgpack", "-o", "doc.msgpack", "leaf.sv", "top.sv"); code != exitOK {
		t.Fatalf("msgpack run: %d\n%s", code, errOut)
	}
	f, err := os.Open("doc.msgpack")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	mp, err := document.ReadMsgpack(f)
	if err != nil {
		t.Fatal(err)
	}
	js := readDoc(t, "doc.json")
	if string(document.MarshalJSON(mp, false)) != string(document.MarshalJSON(js, false)) {
		t.Error("msgpack and JSON documents differ")
	}
}

func TestDefinesReachPreprocessor(t *testing.T) {
	workdir(t, map[string]string{
		"w.sv": "module top; wire [`WIDTH-1:0] bus; endmodule\n",
	})
	code, _, errOut := run(t, "-D", "WIDTH=8", "--no-locations", "w.sv")
	if code != exitOK {
		t.Fatalf("code = %d\n%s", code, errOut)
	}
	data, _ := os.ReadFile("output.json")
	if !bytes.Contains(data, []byte(`"logic[7:0]"`)) {
		t.Errorf("define not applied:\n%s", data)
	}
}

func TestVersionCommand(t *testing.T) {
	workdir(t, nil)

	code, out, _ := run(t, "version")
	if code != exitOK || !strings.HasPrefix(out, "svdump "+version.Version+" (") {
		t.Errorf("version: code=%d out=%q", code, out)
	}
	code, out, _ = run(t, "version", "--format", "json", "--full")
	if code != exitOK {
		t.Fatalf("code = %d", code)
	}
	v, err := document.ParseJSON([]byte(out))
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"tool", "version", "tagline", "git_commit", "git_message", "build_date"} {
		if _, ok := v.Get(key); !ok {
			t.Errorf("payload misses %q: %s", key, out)
		}
	}
	if code, _, _ := run(t, "version", "--format", "yaml"); code != exitOptions {
		t.Errorf("bad version format: code = %d", code)
	}
}

func TestExitStatus(t *testing.T) {
	if code, msg := exitStatus(nil); code != exitOK || msg != "" {
		t.Errorf("nil: %d %q", code, msg)
	}
	if code, msg := exitStatus(silentExit(exitCompile)); code != exitCompile || msg != "" {
		t.Errorf("silent: %d %q", code, msg)
	}
	wrapped := errors.Join(errors.New("ctx"), exitErrorf(exitOutput, "disk full"))
	if code, _ := exitStatus(wrapped); code != exitOutput {
		t.Errorf("wrapped: %d", code)
	}
	if code, msg := exitStatus(errors.New("unknown command")); code != exitUsage || msg != "unknown command" {
		t.Errorf("plain: %d %q", code, msg)
	}
}

func TestHeapProfileFlag(t *testing.T) {
	workdir(t, map[string]string{"leaf.sv": leafSrc, "top.sv": topSrc})

	if code, _, errOut := run(t, "--mem-profile", "mem.pprof", "leaf.sv", "top.sv"); code != exitOK {
		t.Fatalf("code = %d\n%s", code, errOut)
	}
	if !exists("mem.pprof") {
		t.Error("heap profile not written")
	}
}

// walkDoc visits every object in v, depth first.
func walkDoc(v document.Value, visit func(document.Value)) {
	switch v.Kind() {
	case document.KindObject:
		visit(v)
		for _, m := range v.Members() {
			walkDoc(m.Value, visit)
		}
	case document.KindArray:
		for _, item := range v.Items() {
			walkDoc(item, visit)
		}
	}
}

func attrName(v document.Value) string {
	attrs, ok := v.Get("attributes")
	if !ok {
		return ""
	}
	name, _ := attrs.Get("name")
	return name.AsString()
}

func TestSingleModuleDocument(t *testing.T) {
	workdir(t, map[string]string{"m.sv": "module m; endmodule\n"})

	code, _, errOut := run(t, "m.sv")
	if code != exitOK || errOut != "" {
		t.Fatalf("code = %d\n%s", code, errOut)
	}
	doc := readDoc(t, "output.json")
	children, _ := doc.Get("children")
	defs := 0
	for _, c := range children.Items() {
		if rootKind(c) == "Definition" {
			defs++
			if attrName(c) != "m" {
				t.Errorf("definition name = %q", attrName(c))
			}
		}
	}
	if defs != 1 {
		t.Errorf("root has %d definitions, want 1", defs)
	}
}

func TestRecursiveInstantiationUsesPointers(t *testing.T) {
	workdir(t, map[string]string{"r.sv": `
module r #(parameter N = 3) ();
  if (N > 0) begin : g
    r #(N - 1) sub();
  end
endmodule
module top; r u(); endmodule
`})
	code, _, errOut := run(t, "--compact", "r.sv")
	if code != exitOK {
		t.Fatalf("code = %d\n%s", code, errOut)
	}
	doc := readDoc(t, "output.json")

	var defID string
	expanded := 0
	walkDoc(doc, func(v document.Value) {
		if rootKind(v) == "Definition" && attrName(v) == "r" {
			expanded++
			id, _ := v.Get("id")
			defID = id.AsString()
		}
	})
	if expanded != 1 || defID == "" {
		t.Fatalf("definition r expanded %d times", expanded)
	}
	pointers := 0
	walkDoc(doc, func(v document.Value) {
		if ref, ok := v.Get("ref"); ok && v.Len() == 1 && ref.AsString() == defID {
			pointers++
		}
	})
	// every instance and instance body points back at the definition
	if pointers != 8 {
		t.Errorf("pointers to r = %d, want 8", pointers)
	}
}
