package version

import (
	"strings"
	"testing"
)

func TestVersion_DefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
	if strings.Contains(Version, "\x1b[") {
		t.Errorf("Version must be plain text, got %q", Version)
	}
}

func TestVersion_CanBeOverridden(t *testing.T) {
	origVersion, origGitCommit, origBuildDate := Version, GitCommit, BuildDate
	t.Cleanup(func() {
		Version, GitCommit, BuildDate = origVersion, origGitCommit, origBuildDate
	})

	// simulating build-time ldflags
	Version = "1.2.3"
	GitCommit = "abc123def456"
	BuildDate = "2024-01-15T10:30:00Z"

	if Version != "1.2.3" {
		t.Errorf("Version = %q, want %q", Version, "1.2.3")
	}
	if GitCommit != "abc123def456" {
		t.Errorf("GitCommit = %q, want %q", GitCommit, "abc123def456")
	}
	if BuildDate != "2024-01-15T10:30:00Z" {
		t.Errorf("BuildDate = %q, want %q", BuildDate, "2024-01-15T10:30:00Z")
	}
}

func TestColored(t *testing.T) {
	tests := []struct {
		in      string
		enabled bool
		plain   bool
	}{
		{"0.1.0-dev", false, true},
		{"0.1.0-dev", true, false},
		{"1.2.3", true, false},
		{"dev", true, true},
		{"1.2", true, true},
	}
	for _, tt := range tests {
		got := Colored(tt.in, tt.enabled)
		if tt.plain && got != tt.in {
			t.Errorf("Colored(%q, %v) = %q, want unchanged", tt.in, tt.enabled, got)
		}
		if !tt.plain {
			if !strings.Contains(got, "\x1b[") {
				t.Errorf("Colored(%q) has no escapes: %q", tt.in, got)
			}
			if strip(got) != tt.in {
				t.Errorf("Colored(%q) text = %q", tt.in, strip(got))
			}
		}
	}
}

// strip removes SGR escape sequences.
func strip(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\x1b' {
			for i < len(s) && s[i] != 'm' {
				i++
			}
			continue
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}
