package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestWrapANSICarriesStyles(t *testing.T) {
	red, bg := "\x1b[31m", "\x1b[40m"
	lines := wrapANSI(red+bg+strings.Repeat("lesson ", 20)+"\x1b[0m", 30)
	if len(lines) < 2 {
		t.Fatalf("expected wrapping, got %d lines", len(lines))
	}
	for i, line := range lines {
		if ansi.StringWidth(line) > 30 {
			t.Errorf("line %d is %d cells wide", i, ansi.StringWidth(line))
		}
		if i > 0 && !strings.HasPrefix(line, red+bg) {
			t.Errorf("line %d does not reopen the style: %q", i, line)
		}
		if i < len(lines)-1 && !strings.HasSuffix(line, ansi.ResetStyle) {
			t.Errorf("line %d does not close the style: %q", i, line)
		}
	}
}

func TestWrapANSIAfterReset(t *testing.T) {
	lines := wrapANSI("\x1b[31maaaa\x1b[0m "+strings.Repeat("b", 30), 10)
	for i := 1; i < len(lines); i++ {
		if strings.Contains(lines[i], "\x1b[31m") {
			t.Errorf("line %d kept red after reset: %q", i, lines[i])
		}
	}
}

func TestWrapANSIPlain(t *testing.T) {
	for i, line := range wrapANSI("plain text wraps without any escape codes", 12) {
		if strings.Contains(line, "\x1b") {
			t.Errorf("line %d: unexpected escape: %q", i, line)
		}
	}
}

func TestFit(t *testing.T) {
	pad := func(s string) string { return s }
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"abc", 5, "abc  "},
		{"abcdef", 4, "abcd"},
		{"abc", 0, ""},
		{"", 2, "  "},
	}
	for _, tt := range tests {
		if got := fit(tt.in, tt.width, pad); got != tt.want {
			t.Errorf("fit(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
