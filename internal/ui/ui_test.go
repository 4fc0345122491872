package ui

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestParseHex(t *testing.T) {
	tests := []struct {
		in      string
		r, g, b int
		ok      bool
	}{
		{"#ff0000", 255, 0, 0, true},
		{"#777777", 119, 119, 119, true},
		{"#0a0", 0, 170, 0, true},
		{"#12345", 0, 0, 0, false},
		{"#zzzzzz", 0, 0, 0, false},
		{"red", 0, 0, 0, false},
	}
	for _, tt := range tests {
		r, g, b, ok := ParseHex(tt.in)
		if ok != tt.ok || r != tt.r || g != tt.g || b != tt.b {
			t.Errorf("ParseHex(%q) = %d,%d,%d,%v; want %d,%d,%d,%v", tt.in, r, g, b, ok, tt.r, tt.g, tt.b, tt.ok)
		}
	}
}

func TestSwatch(t *testing.T) {
	old := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = old }()

	for _, v := range []string{"#ff0000", "white", "chartreuse"} {
		got := Swatch(v)
		if !strings.HasSuffix(got, " "+v) {
			t.Errorf("Swatch(%q) = %q", v, got)
		}
	}
}

func TestVisibleLen(t *testing.T) {
	if n := visibleLen("\x1b[31mred\x1b[0m"); n != 3 {
		t.Errorf("expected 3, got %d", n)
	}
	if n := visibleLen("██ #fff"); n != 7 {
		t.Errorf("expected 7, got %d", n)
	}
	if got := pad("ab", 4); got != "ab  " {
		t.Errorf("pad: got %q", got)
	}
}
