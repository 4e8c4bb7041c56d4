package main

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, configFileName)
	src := `
[compile]
top = ["top"]
defines = { WIDTH = "8", DEBUG = "1" }
include_dirs = ["rtl/include", "/abs/inc"]

[output]
path = "build/out.json"
pretty = false
file_names = "basename"

[diagnostics]
color = "off"

[ui]
mode = "off"
`
	if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg := defaultConfig()
	if err := loadConfig(path, &cfg); err != nil {
		t.Fatal(err)
	}

	if !slices.Equal(cfg.Compile.Top, []string{"top"}) {
		t.Errorf("top = %v", cfg.Compile.Top)
	}
	wantInc := []string{filepath.Join(dir, "rtl", "include"), filepath.FromSlash("/abs/inc")}
	if !slices.Equal(cfg.Compile.IncludeDirs, wantInc) {
		t.Errorf("include_dirs = %v, want %v", cfg.Compile.IncludeDirs, wantInc)
	}
	if got := cfg.Compile.defineArgs(); !slices.Equal(got, []string{"DEBUG=1", "WIDTH=8"}) {
		t.Errorf("defines = %v", got)
	}
	if cfg.Output.Path != filepath.Join(dir, "build", "out.json") {
		t.Errorf("output path = %s", cfg.Output.Path)
	}
	if cfg.Output.Pretty {
		t.Error("pretty should be overridden to false")
	}
	// keys absent from the file keep their defaults
	if cfg.Output.Format != formatJSON || !cfg.Output.Locations || cfg.Diagnostics.Max != 100 || cfg.Compile.MaxInstanceDepth != 128 {
		t.Errorf("defaults lost: %+v", cfg)
	}
	if cfg.Diagnostics.Color != "off" {
		t.Errorf("color = %s", cfg.Diagnostics.Color)
	}
	if cfg.Output.FileNames != "basename" || cfg.UI.Mode != "off" {
		t.Errorf("file_names = %q, ui.mode = %q", cfg.Output.FileNames, cfg.UI.Mode)
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), configFileName)
	src := "[compile]\ntops = [\"a\"]\n[linting]\nstrict = true\n"
	if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg := defaultConfig()
	err := loadConfig(path, &cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	for _, key := range []string{"compile.tops", "linting"} {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("error %q does not name %s", err, key)
		}
	}
}

func TestFindConfigWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(root, configFileName)
	if err := os.WriteFile(want, []byte("[output]\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	got, ok, err := findConfig(nested)
	if err != nil || !ok {
		t.Fatalf("findConfig: ok=%v err=%v", ok, err)
	}
	gotReal, _ := filepath.EvalSymlinks(got)
	wantReal, _ := filepath.EvalSymlinks(want)
	if gotReal != wantReal {
		t.Errorf("found %s, want %s", got, want)
	}
}

func TestConfigPrecedence(t *testing.T) {
	dir := workdir(t, map[string]string{
		"svdump.toml": "[output]\npath = \"from-config.json\"\npretty = false\n[compile]\ndefines = { WIDTH = \"2\" }\n",
		"rtl/top.sv":  "module top; wire [`WIDTH-1:0] bus; endmodule\n",
	})
	t.Chdir(filepath.Join(dir, "rtl"))

	// the project file is found from a subdirectory; its output path is
	// relative to the file
	if code, _, errOut := run(t, "top.sv"); code != exitOK {
		t.Fatalf("code = %d\n%s", code, errOut)
	}
	data, err := os.ReadFile(filepath.Join(dir, "from-config.json"))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "\n") {
		t.Error("pretty = false in config was ignored")
	}
	if !strings.Contains(string(data), `"logic[1:0]"`) {
		t.Error("config define not applied")
	}

	// explicit flags win
	if code, _, errOut := run(t, "-o", "flag.json", "-D", "WIDTH=4", "top.sv"); code != exitOK {
		t.Fatalf("code = %d\n%s", code, errOut)
	}
	data, err = os.ReadFile("flag.json")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"logic[3:0]"`) {
		t.Error("-D did not override the config define")
	}
	if strings.Contains(string(data), "\n") {
		t.Error("unset --compact must not override the config")
	}
}

func TestMergeDefines(t *testing.T) {
	got, err := mergeDefines([]string{"A=1", "B=2"}, []string{"B=3", "C"})
	if err != nil {
		t.Fatal(err)
	}
	var parts []string
	for _, d := range got {
		parts = append(parts, d.Name+"="+d.Value)
	}
	if want := "A=1 B=3 C=1"; strings.Join(parts, " ") != want {
		t.Errorf("defines = %s, want %s", strings.Join(parts, " "), want)
	}
	if _, err := mergeDefines([]string{"=x"}); err == nil {
		t.Error("empty macro name accepted")
	}
}
