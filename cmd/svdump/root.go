package main

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"svdump/internal/prof"
	"svdump/internal/version"
)

// rootOptions holds raw flag values. They only override the config file
// when set explicitly on the command line.
type rootOptions struct {
	configPath string

	tops             []string
	defines          []string
	includeDirs      []string
	maxInstanceDepth int
	jobs             int

	output      string
	format      string
	compact     bool
	noLocations bool
	fileNames   string

	color          string
	quiet          bool
	maxDiagnostics int
	diagFormat     string
	verbose        bool
	ui             string

	profile prof.Options
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	def := defaultConfig()

	cmd := &cobra.Command{
		Use:   "svdump [flags] <file>...",
		Short: "Compile SystemVerilog sources and dump the elaborated tree",
		Long: `svdump compiles Verilog/SystemVerilog sources into an elaborated program tree
and writes it as JSON or MessagePack. Diagnostics go to stderr; the tree is
written even when compilation reports errors.`,
		Version:       version.Version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := log.InfoLevel
			if opts.verbose {
				level = log.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(cmd.ErrOrStderr(), level)))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(cmd, opts, args)
		},
	}
	cmd.SetVersionTemplate("svdump {{.Version}}\n")
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return withExit(exitUsage, err)
	})

	// Глобальные флаги
	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.color, "color", def.Diagnostics.Color, "colorize output (auto|on|off)")
	pf.BoolVar(&opts.quiet, "quiet", false, "show only errors, without the summary line")
	pf.IntVar(&opts.maxDiagnostics, "max-diagnostics", def.Diagnostics.Max, "maximum number of warnings and notes kept per file")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose logging")
	pf.StringVar(&opts.profile.CPU, "cpu-profile", "", "write a CPU profile to this file")
	pf.StringVar(&opts.profile.Mem, "mem-profile", "", "write a heap profile to this file on exit")
	pf.StringVar(&opts.profile.Trace, "runtime-trace", "", "write a runtime trace to this file")
	for _, name := range []string{"cpu-profile", "mem-profile", "runtime-trace"} {
		_ = pf.MarkHidden(name)
	}

	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "project config file (default: svdump.toml searched upward)")
	f.StringArrayVar(&opts.tops, "top", nil, "top-level module to elaborate (repeatable)")
	f.StringArrayVarP(&opts.defines, "define", "D", nil, "define a macro, NAME[=VALUE] (repeatable)")
	f.StringArrayVarP(&opts.includeDirs, "include-directory", "I", nil, "add an include search directory (repeatable)")
	f.IntVar(&opts.maxInstanceDepth, "max-instance-depth", def.Compile.MaxInstanceDepth, "maximum depth of the instance hierarchy")
	f.IntVar(&opts.jobs, "jobs", 0, "parallel lex/parse workers (0 = number of CPUs)")
	f.StringVarP(&opts.output, "output", "o", def.Output.Path, "output file")
	f.StringVar(&opts.format, "format", def.Output.Format, "document encoding (json|msgpack)")
	f.BoolVar(&opts.compact, "compact", false, "write compact JSON instead of indented")
	f.BoolVar(&opts.noLocations, "no-locations", false, "omit source locations from the document")
	f.StringVar(&opts.fileNames, "file-names", def.Output.FileNames, "file paths in document locations (full|basename)")
	f.StringVar(&opts.diagFormat, "diag-format", def.Diagnostics.Format, "diagnostics format (pretty|json)")
	f.StringVar(&opts.ui, "ui", def.UI.Mode, "progress view on stdout (auto|on|off)")

	cmd.AddCommand(newVersionCmd(opts))
	return cmd
}
