package driver_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"svdump/internal/diag"
	"svdump/internal/driver"
	"svdump/internal/preproc"
	"svdump/internal/source"
	"svdump/internal/tree"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, src := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(src), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestRunSuccess(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"leaf.sv": "module leaf(input a); endmodule\n",
		"top.sv":  "module top; wire x; leaf u(.a(x)); endmodule\n",
	})
	res, err := driver.Run(context.Background(), driver.Options{Jobs: 2},
		[]string{filepath.Join(dir, "leaf.sv"), filepath.Join(dir, "top.sv")})
	if err != nil {
		t.Fatal(err)
	}
	if !res.OK || res.Bag.Len() != 0 {
		t.Fatalf("OK=%v diagnostics=%s", res.OK, diag.FormatShort(res.Bag.Items(), res.FileSet))
	}
	var kinds []string
	for _, c := range res.Tree.Get(res.Root).Children {
		kinds = append(kinds, res.Tree.Get(c).Kind.String())
	}
	if want := "CompilationUnit CompilationUnit Definition Definition Instance"; strings.Join(kinds, " ") != want {
		t.Errorf("root children = %s", strings.Join(kinds, " "))
	}
}

func TestRunMergesDiagnosticsInFileOrder(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.sv": "module a; assign q = 1'b0; wire ; endmodule\n",
		"b.sv": "module b; wire [3:0] v; wire o = v[9]; assign z = 0; endmodule\n",
	})
	paths := []string{filepath.Join(dir, "a.sv"), filepath.Join(dir, "b.sv")}
	for _, jobs := range []int{1, 4} {
		res, err := driver.Run(context.Background(), driver.Options{Jobs: jobs}, paths)
		if err != nil {
			t.Fatal(err)
		}
		if res.OK {
			t.Fatal("expected failure")
		}
		items := res.Bag.Items()
		for i := 1; i < len(items); i++ {
			if items[i-1].Primary.File > items[i].Primary.File {
				t.Fatalf("jobs=%d: diagnostics out of file order:\n%s", jobs, diag.FormatShort(items, res.FileSet))
			}
		}
		// Within b.sv the warning on v[9] comes before the error on z.
		var inB []diag.Code
		for _, d := range items {
			if f := res.FileSet.Get(d.Primary.File); f != nil && strings.HasSuffix(f.Path, "b.sv") {
				inB = append(inB, d.Code)
			}
		}
		if len(inB) != 2 || inB[0] != diag.SemaIndexOutOfRange || inB[1] != diag.SemaUndeclaredIdentifier {
			t.Errorf("jobs=%d: b.sv diagnostics = %v", jobs, inB)
		}
	}
}

func TestIncludedDiagnosticsStayWithIncluder(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.sv":    "module a;\n`include \"bad.svh\"\nendmodule\n",
		"bad.svh": "assign q = 1'b0;\n",
		"b.sv":    "module b; assign z = 0; endmodule\n",
	})
	res, err := driver.Run(context.Background(), driver.Options{},
		[]string{filepath.Join(dir, "a.sv"), filepath.Join(dir, "b.sv")})
	if err != nil {
		t.Fatal(err)
	}
	var files []string
	for _, d := range res.Bag.Items() {
		files = append(files, filepath.Base(res.FileSet.Get(d.Primary.File).Path))
	}
	if got := strings.Join(files, " "); got != "bad.svh b.sv" {
		t.Fatalf("diagnostic files = %s\n%s", got, diag.FormatShort(res.Bag.Items(), res.FileSet))
	}
}

func TestRunMissingFile(t *testing.T) {
	dir := writeFiles(t, map[string]string{"ok.sv": "module m; endmodule\n"})
	res, err := driver.Run(context.Background(), driver.Options{},
		[]string{filepath.Join(dir, "nope.sv"), filepath.Join(dir, "ok.sv")})
	if err != nil {
		t.Fatal(err)
	}
	if res.OK || !res.Bag.HasFatal() {
		t.Fatalf("OK=%v fatal=%v", res.OK, res.Bag.HasFatal())
	}
	if d := res.Bag.Items()[0]; d.Code != diag.IOLoadFileError {
		t.Errorf("first diagnostic = %s", d.Code.ID())
	}
	cu := res.Tree.Get(res.Root).Children[0]
	if v, _ := res.Tree.Get(cu).Attr("missing"); !v.Bool {
		t.Error("first compilation unit should be marked missing")
	}
	if !hasKind(res.Tree, res.Root, tree.KindInstance) {
		t.Error("the readable file should still be elaborated")
	}
}

func hasKind(t *tree.Tree, root tree.NodeID, kind tree.Kind) bool {
	for _, c := range t.Get(root).Children {
		if t.Get(c).Kind == kind {
			return true
		}
	}
	return false
}

func TestRunDefinesAndObserver(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"m.sv": "module m; localparam W = `WIDTH; endmodule\n",
	})
	var events []string
	opts := driver.Options{
		Defines: []preproc.Define{{Name: "WIDTH", Value: "12"}},
		Observer: func(ev driver.PhaseEvent) {
			if ev.Status == driver.PhaseStart {
				events = append(events, ev.Name)
			}
		},
	}
	res, err := driver.Run(context.Background(), opts, []string{filepath.Join(dir, "m.sv")})
	if err != nil {
		t.Fatal(err)
	}
	if !res.OK {
		t.Fatalf("diagnostics: %s", diag.FormatShort(res.Bag.Items(), res.FileSet))
	}
	if want := "load lex preprocess parse elaborate"; strings.Join(events, " ") != want {
		t.Errorf("phases = %s", strings.Join(events, " "))
	}
}

func TestRunCanceled(t *testing.T) {
	dir := writeFiles(t, map[string]string{"m.sv": "module m; endmodule\n"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := driver.Run(ctx, driver.Options{}, []string{filepath.Join(dir, "m.sv")})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
}

type fakeFrontEnd struct {
	parsed bool
	bag    *diag.Bag
	built  bool
}

func (f *fakeFrontEnd) ParseAllSources(context.Context) bool { return f.parsed }

func (f *fakeFrontEnd) CreateCompilationTree() (*tree.Tree, tree.NodeID) {
	f.built = true
	t := tree.New(1)
	return t, t.Add(tree.KindRoot)
}

func (f *fakeFrontEnd) CollectDiagnostics() *diag.Bag { return f.bag }

func TestCompileSuccessPolicy(t *testing.T) {
	warn := diag.NewBag(10)
	warn.Add(diag.New(diag.SevWarning, diag.SemaUnusedPort, source.Detached(), "w"))
	failed := diag.NewBag(10)
	failed.Add(diag.NewError(diag.SemaError, source.Detached(), "e"))

	tests := []struct {
		name   string
		parsed bool
		bag    *diag.Bag
		want   bool
	}{
		{"clean", true, diag.NewBag(10), true},
		{"warnings only", true, warn, true},
		{"error diagnostic", true, failed, false},
		{"parse failed", false, diag.NewBag(10), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fe := &fakeFrontEnd{parsed: tt.parsed, bag: tt.bag}
			res, err := driver.Compile(context.Background(), fe)
			if err != nil {
				t.Fatal(err)
			}
			if res.OK != tt.want {
				t.Errorf("OK = %v, want %v", res.OK, tt.want)
			}
			if !fe.built || res.Tree == nil {
				t.Error("the tree must be built whatever the outcome")
			}
		})
	}
}

func TestCompileWithNewFrontEnd(t *testing.T) {
	dir := writeFiles(t, map[string]string{"m.sv": "module m; wire w; endmodule\n"})
	fs := source.NewFileSet()
	fe := driver.NewFrontEnd(fs, []string{filepath.Join(dir, "m.sv")}, driver.Options{})
	res, err := driver.Compile(context.Background(), fe)
	if err != nil {
		t.Fatal(err)
	}
	if !res.OK || fs.Len() != 1 {
		t.Fatalf("OK=%v files=%d diagnostics=%s", res.OK, fs.Len(), diag.FormatShort(res.Bag.Items(), fs))
	}
	if !hasKind(res.Tree, res.Root, tree.KindInstance) {
		t.Error("top module m should be instantiated")
	}
}
