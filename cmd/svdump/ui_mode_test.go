package main

import (
	"bytes"
	"testing"
)

func TestReadUIMode(t *testing.T) {
	tests := []struct {
		in   string
		want uiMode
	}{
		{"", uiModeAuto},
		{"auto", uiModeAuto},
		{" ON ", uiModeOn},
		{"off", uiModeOff},
	}
	for _, tt := range tests {
		got, err := readUIMode(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("readUIMode(%q) = %q, %v", tt.in, got, err)
		}
	}
	if _, err := readUIMode("fancy"); err == nil {
		t.Error("expected an error for an unknown mode")
	}
}

func TestShouldUseTUI(t *testing.T) {
	var buf bytes.Buffer
	if shouldUseTUI(uiModeAuto, &buf) {
		t.Error("auto must stay off for a non-terminal writer")
	}
	if !shouldUseTUI(uiModeOn, &buf) || shouldUseTUI(uiModeOff, &buf) {
		t.Error("on/off must be honored as given")
	}
}
