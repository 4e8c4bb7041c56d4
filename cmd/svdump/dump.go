package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"svdump/internal/diag"
	"svdump/internal/diagfmt"
	"svdump/internal/driver"
	"svdump/internal/preproc"
	"svdump/internal/prof"
	"svdump/internal/serialize"
)

// compileSources runs the front end; tests swap it to feed crafted trees.
var compileSources = driver.Run

// plan is a fully validated invocation.
type plan struct {
	driver    driver.Options
	serialize serialize.Options

	output string
	format string
	pretty bool

	color      bool
	quiet      bool
	diagFormat string
	ui         uiMode
}

func runDump(cmd *cobra.Command, opts *rootOptions, args []string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	if len(args) == 0 {
		return exitErrorf(exitOptions, "no input files")
	}
	cfg, err := resolveConfig(cmd, opts)
	if err != nil {
		return withExit(exitOptions, err)
	}
	p, err := buildPlan(cfg, opts, cmd.ErrOrStderr())
	if err != nil {
		return withExit(exitOptions, err)
	}
	if err := checkInputs(args); err != nil {
		return withExit(exitUsage, err)
	}
	p.driver.Logger = logger

	session, err := prof.Start(opts.profile)
	if err != nil {
		return withExit(exitOutput, err)
	}
	defer func() {
		if err := session.Stop(); err != nil {
			logger.Warn("profiling", "err", err)
		}
	}()

	var res *driver.Result
	if shouldUseTUI(p.ui, cmd.OutOrStdout()) {
		res, err = runCompileWithUI(ctx, cmd.OutOrStdout(), p.driver, args)
	} else {
		res, err = compileSources(ctx, p.driver, args)
	}
	if err != nil {
		return err
	}
	if err := reportDiagnostics(cmd.ErrOrStderr(), res, p); err != nil {
		return withExit(exitOutput, fmt.Errorf("write diagnostics: %w", err))
	}

	doc, err := serialize.Serialize(res.Tree, res.Root, p.serialize)
	if err != nil {
		var iv *serialize.InvariantViolation
		if errors.As(err, &iv) {
			logger.Error("serializer invariant violated",
				"kind", iv.Kind.String(), "node", iv.Node, "target", iv.Target, "edge", iv.Edge, "detail", iv.Detail)
		} else {
			logger.Error("serialize failed", "err", err)
		}
		return silentExit(exitInternal)
	}
	if err := writeDocument(p.output, doc, p.format, p.pretty); err != nil {
		return withExit(exitOutput, err)
	}
	logger.Debug("document written", "path", p.output, "format", p.format)

	if !res.OK {
		return silentExit(exitCompile)
	}
	return nil
}

// resolveConfig layers defaults, the project file and explicitly set
// flags, in that order.
func resolveConfig(cmd *cobra.Command, opts *rootOptions) (config, error) {
	cfg := defaultConfig()
	path := opts.configPath
	if path == "" {
		found, ok, err := findConfig(".")
		if err != nil {
			return config{}, err
		}
		if ok {
			path = found
		}
	}
	if path != "" {
		if err := loadConfig(path, &cfg); err != nil {
			return config{}, err
		}
		loggerFromContext(cmd.Context()).Debug("loaded config", "path", path)
	}

	f := cmd.Flags()
	if f.Changed("top") {
		cfg.Compile.Top = opts.tops
	}
	if f.Changed("include-directory") {
		cfg.Compile.IncludeDirs = opts.includeDirs
	}
	if f.Changed("max-instance-depth") {
		cfg.Compile.MaxInstanceDepth = opts.maxInstanceDepth
	}
	if f.Changed("output") {
		cfg.Output.Path = opts.output
	}
	if f.Changed("format") {
		cfg.Output.Format = opts.format
	}
	if f.Changed("compact") {
		cfg.Output.Pretty = !opts.compact
	}
	if f.Changed("no-locations") {
		cfg.Output.Locations = !opts.noLocations
	}
	if f.Changed("max-diagnostics") {
		cfg.Diagnostics.Max = opts.maxDiagnostics
	}
	if f.Changed("color") {
		cfg.Diagnostics.Color = opts.color
	}
	if f.Changed("diag-format") {
		cfg.Diagnostics.Format = opts.diagFormat
	}
	if f.Changed("file-names") {
		cfg.Output.FileNames = opts.fileNames
	}
	if f.Changed("ui") {
		cfg.UI.Mode = opts.ui
	}
	return cfg, nil
}

func buildPlan(cfg config, opts *rootOptions, stderr io.Writer) (plan, error) {
	p := plan{
		output: cfg.Output.Path,
		format: strings.ToLower(cfg.Output.Format),
		pretty: cfg.Output.Pretty,
		quiet:  opts.quiet,
	}
	switch p.format {
	case formatJSON, formatMsgpack:
	default:
		return plan{}, fmt.Errorf("invalid --format %q (must be json or msgpack)", cfg.Output.Format)
	}
	p.diagFormat = strings.ToLower(cfg.Diagnostics.Format)
	switch p.diagFormat {
	case "pretty", "json":
	default:
		return plan{}, fmt.Errorf("invalid --diag-format %q (must be pretty or json)", cfg.Diagnostics.Format)
	}
	color, err := useColor(cfg.Diagnostics.Color, stderr)
	if err != nil {
		return plan{}, err
	}
	p.color = color

	if strings.TrimSpace(p.output) == "" {
		return plan{}, errors.New("empty output path")
	}
	if cfg.Compile.MaxInstanceDepth <= 0 {
		return plan{}, fmt.Errorf("invalid --max-instance-depth %d (must be positive)", cfg.Compile.MaxInstanceDepth)
	}
	if cfg.Diagnostics.Max < 0 {
		return plan{}, fmt.Errorf("invalid --max-diagnostics %d", cfg.Diagnostics.Max)
	}
	if opts.jobs < 0 {
		return plan{}, fmt.Errorf("invalid --jobs %d", opts.jobs)
	}

	defines, err := mergeDefines(cfg.Compile.defineArgs(), opts.defines)
	if err != nil {
		return plan{}, err
	}
	p.driver = driver.Options{
		Tops:             cfg.Compile.Top,
		Defines:          defines,
		IncludeDirs:      cfg.Compile.IncludeDirs,
		MaxInstanceDepth: cfg.Compile.MaxInstanceDepth,
		MaxDiagnostics:   cfg.Diagnostics.Max,
		Jobs:             opts.jobs,
	}
	p.serialize = serialize.DefaultOptions()
	p.serialize.IncludeLocations = cfg.Output.Locations
	if p.serialize.FileNames, err = readFileNames(cfg.Output.FileNames); err != nil {
		return plan{}, err
	}
	if p.ui, err = readUIMode(cfg.UI.Mode); err != nil {
		return plan{}, err
	}
	return p, nil
}

func readFileNames(value string) (serialize.FileNames, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "full":
		return serialize.FileNamesFull, nil
	case "basename":
		return serialize.FileNamesBase, nil
	default:
		return 0, fmt.Errorf("invalid --file-names %q (must be full or basename)", value)
	}
}

// mergeDefines parses config defines followed by -D flags; a later
// definition of the same name replaces the earlier one in place.
func mergeDefines(lists ...[]string) ([]preproc.Define, error) {
	var out []preproc.Define
	index := make(map[string]int)
	for _, list := range lists {
		for _, s := range list {
			d, err := preproc.ParseDefine(s)
			if err != nil {
				return nil, fmt.Errorf("invalid define %q: %w", s, err)
			}
			if i, ok := index[d.Name]; ok {
				out[i] = d
				continue
			}
			index[d.Name] = len(out)
			out = append(out, d)
		}
	}
	return out, nil
}

// checkInputs rejects inputs that cannot be opened before any compile
// work starts.
func checkInputs(paths []string) error {
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			return fmt.Errorf("cannot read input: %w", err)
		}
		info, err := f.Stat()
		_ = f.Close()
		if err != nil {
			return fmt.Errorf("cannot read input: %w", err)
		}
		if info.IsDir() {
			return fmt.Errorf("cannot read input %s: is a directory", p)
		}
	}
	return nil
}

func reportDiagnostics(w io.Writer, res *driver.Result, p plan) error {
	bag := res.Bag
	if p.quiet {
		bag = errorsOnly(bag)
	}
	if p.diagFormat == "json" {
		return diagfmt.JSON(w, bag, res.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         diagfmt.PathModeAuto,
			IncludeNotes:     true,
		})
	}
	if bag.Len() == 0 && bag.Dropped() == 0 {
		return nil
	}
	diagfmt.Pretty(w, bag, res.FileSet, diagfmt.PrettyOpts{
		Color:     p.color,
		Context:   1,
		PathMode:  diagfmt.PathModeAuto,
		ShowNotes: true,
		Summary:   !p.quiet,
	})
	return nil
}

func errorsOnly(bag *diag.Bag) *diag.Bag {
	out := diag.NewBag(bag.Len())
	for _, d := range bag.Items() {
		if d.Severity.IsError() {
			out.Add(d)
		}
	}
	return out
}
