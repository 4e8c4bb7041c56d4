package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"svdump/internal/version"
)

const versionTagline = "elaborated trees, straight to disk"

// buildFact is one optional line of `svdump version`.
type buildFact struct {
	label string // pretty: "commit"
	key   string // json: "git_commit"
	value string
}

// versionReport holds what was asked for; facts stay in flag order.
type versionReport struct {
	version string
	facts   []buildFact
}

func newVersionCmd(root *rootOptions) *cobra.Command {
	var (
		format              string
		hash, message, date bool
		full                bool
	)
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show svdump build fingerprints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(format)
			if format != "pretty" && format != "json" {
				return exitErrorf(exitOptions, "unsupported format %q (must be pretty or json)", format)
			}
			rep := newVersionReport(hash || full, message || full, date || full)
			out := cmd.OutOrStdout()
			if format == "json" {
				return rep.writeJSON(out)
			}
			colored, err := useColor(root.color, out)
			if err != nil {
				return withExit(exitOptions, err)
			}
			rep.writePretty(out, colored)
			return nil
		},
	}
	f := cmd.Flags()
	f.BoolVar(&hash, "hash", false, "include git commit hash")
	f.BoolVar(&message, "message", false, "include git commit message")
	f.BoolVar(&date, "date", false, "include build timestamp")
	f.BoolVar(&full, "full", false, "show every recorded bit of build metadata")
	f.StringVar(&format, "format", "pretty", "output format (pretty|json)")
	return cmd
}

func newVersionReport(hash, message, date bool) versionReport {
	rep := versionReport{version: strings.TrimSpace(version.Version)}
	if rep.version == "" {
		rep.version = "dev"
	}
	add := func(on bool, label, key, v string) {
		if on {
			rep.facts = append(rep.facts, buildFact{label: label, key: key, value: valueOrUnknown(v)})
		}
	}
	add(hash, "commit", "git_commit", version.GitCommit)
	add(message, "message", "git_message", version.GitMessage)
	add(date, "built", "build_date", version.BuildDate)
	return rep
}

func (r versionReport) writePretty(w io.Writer, colored bool) {
	fmt.Fprintf(w, "svdump %s (%s)\n", version.Colored(r.version, colored), versionTagline)
	if len(r.facts) == 0 {
		fmt.Fprintln(w, "set --hash, --message, --date, or --full for more build trivia")
		return
	}
	for _, f := range r.facts {
		fmt.Fprintf(w, "%-8s %s\n", f.label+":", f.value)
	}
}

type versionPayload struct {
	Tool       string `json:"tool"`
	Version    string `json:"version"`
	Tagline    string `json:"tagline"`
	GitCommit  string `json:"git_commit,omitempty"`
	GitMessage string `json:"git_message,omitempty"`
	BuildDate  string `json:"build_date,omitempty"`
}

func (r versionReport) writeJSON(w io.Writer) error {
	p := versionPayload{Tool: "svdump", Version: r.version, Tagline: versionTagline}
	for _, f := range r.facts {
		switch f.key {
		case "git_commit":
			p.GitCommit = f.value
		case "git_message":
			p.GitMessage = f.value
		case "build_date":
			p.BuildDate = f.value
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}

func valueOrUnknown(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return "unknown"
	}
	return s
}
