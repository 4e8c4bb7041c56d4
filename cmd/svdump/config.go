package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
)

const configFileName = "svdump.toml"

// config mirrors svdump.toml. Values not present in the file keep the
// defaults they were decoded over.
type config struct {
	Compile     compileConfig     `toml:"compile"`
	Output      outputConfig      `toml:"output"`
	Diagnostics diagnosticsConfig `toml:"diagnostics"`
	UI          uiConfig          `toml:"ui"`
}

type compileConfig struct {
	Top              []string          `toml:"top"`
	Defines          map[string]string `toml:"defines"`
	IncludeDirs      []string          `toml:"include_dirs"`
	MaxInstanceDepth int               `toml:"max_instance_depth"`
}

type outputConfig struct {
	Path      string `toml:"path"`
	Format    string `toml:"format"`
	Pretty    bool   `toml:"pretty"`
	Locations bool   `toml:"locations"`
	FileNames string `toml:"file_names"`
}

type uiConfig struct {
	Mode string `toml:"mode"`
}

type diagnosticsConfig struct {
	Max    int    `toml:"max"`
	Color  string `toml:"color"`
	Format string `toml:"format"`
}

func defaultConfig() config {
	return config{
		Compile: compileConfig{MaxInstanceDepth: 128},
		Output: outputConfig{
			Path:      "output.json",
			Format:    formatJSON,
			Pretty:    true,
			Locations: true,
			FileNames: "full",
		},
		Diagnostics: diagnosticsConfig{
			Max:    100,
			Color:  "auto",
			Format: "pretty",
		},
		UI: uiConfig{Mode: string(uiModeAuto)},
	}
}

// findConfig walks up from startDir looking for svdump.toml.
func findConfig(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, configFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// loadConfig decodes path over cfg. Unknown keys are rejected; relative
// include directories and output path are taken relative to the file.
func loadConfig(path string, cfg *config) error {
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	base := filepath.Dir(path)
	for i, dir := range cfg.Compile.IncludeDirs {
		cfg.Compile.IncludeDirs[i] = relativeTo(base, dir)
	}
	if meta.IsDefined("output", "path") {
		if strings.TrimSpace(cfg.Output.Path) == "" {
			return fmt.Errorf("%s: [output].path is empty", path)
		}
		cfg.Output.Path = relativeTo(base, cfg.Output.Path)
	}
	return nil
}

func relativeTo(base, p string) string {
	p = filepath.FromSlash(p)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// defineArgs renders the [compile].defines table as NAME=VALUE in name
// order.
func (c *compileConfig) defineArgs() []string {
	names := make([]string, 0, len(c.Defines))
	for name := range c.Defines {
		names = append(names, name)
	}
	slices.Sort(names)
	out := make([]string, len(names))
	for i, name := range names {
		out[i] = name + "=" + c.Defines[name]
	}
	return out
}
