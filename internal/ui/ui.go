package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
)

// Brand colors
var (
	Brand  = color.New(color.FgHiCyan, color.Bold)
	Subtle = color.New(color.FgHiBlack)
	Warn   = color.New(color.FgYellow)
	Info   = color.New(color.FgCyan)
	Good   = color.New(color.FgGreen)
	Bad    = color.New(color.FgRed)
)

const Mark = "\u25C9" // ◉

// Setup turns colored output on or off. NO_COLOR always wins.
func Setup(enabled bool) {
	if !enabled {
		color.NoColor = true
	}
}

// Banner prints the flowdesigner banner.
func Banner(subtitle string) {
	fmt.Printf("%s %s: %s\n\n", Mark, Brand.Sprint("flowdesigner"), subtitle)
}

// Table prints a simple aligned table.
func Table(headers []string, rows [][]string) {
	if len(rows) == 0 {
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && visibleLen(cell) > widths[i] {
				widths[i] = visibleLen(cell)
			}
		}
	}

	headerLine := "  "
	sepLine := "  "
	for i, h := range headers {
		headerLine += pad(h, widths[i]) + "  "
		sepLine += strings.Repeat("─", widths[i]) + "  "
	}
	Subtle.Println(strings.TrimRight(headerLine, " "))
	Subtle.Println(strings.TrimRight(sepLine, " "))

	for _, row := range rows {
		line := "  "
		for i, cell := range row {
			if i < len(widths) {
				line += pad(cell, widths[i]) + "  "
			}
		}
		fmt.Println(strings.TrimRight(line, " "))
	}
}

// pad right-pads s to width w, ignoring color escape sequences.
func pad(s string, w int) string {
	if n := visibleLen(s); n < w {
		return s + strings.Repeat(" ", w-n)
	}
	return s
}

// visibleLen counts runes outside ANSI escape sequences.
func visibleLen(s string) int {
	n := 0
	inEscape := false
	for _, r := range s {
		switch {
		case inEscape:
			if r == 'm' {
				inEscape = false
			}
		case r == '\x1b':
			inEscape = true
		default:
			n++
		}
	}
	return n
}

// StatusIcon returns a status icon string.
func StatusIcon(ok bool) string {
	if ok {
		return Good.Sprint("✓")
	}
	return Bad.Sprint("✗")
}

// WarnIcon returns a warning icon.
func WarnIcon() string {
	return Warn.Sprint("⚠")
}

var named = map[string]color.Attribute{
	"black":   color.FgBlack,
	"red":     color.FgRed,
	"green":   color.FgGreen,
	"yellow":  color.FgYellow,
	"blue":    color.FgBlue,
	"magenta": color.FgMagenta,
	"cyan":    color.FgCyan,
	"white":   color.FgWhite,
	"grey":    color.FgHiBlack,
	"gray":    color.FgHiBlack,
}

// Swatch renders a colored block followed by the color value. Hex colors
// (#rgb or #rrggbb) use 24-bit color; CSS basic names map to the terminal
// palette; anything else is shown uncolored.
func Swatch(value string) string {
	const block = "██"
	if r, g, b, ok := ParseHex(value); ok {
		return color.RGB(r, g, b).Sprint(block) + " " + value
	}
	if attr, ok := named[strings.ToLower(value)]; ok {
		return color.New(attr).Sprint(block) + " " + value
	}
	return block + " " + value
}

// ParseHex parses #rgb and #rrggbb colors.
func ParseHex(s string) (r, g, b int, ok bool) {
	if !strings.HasPrefix(s, "#") {
		return 0, 0, 0, false
	}
	h := s[1:]
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff), true
}
