package formatter

import (
	"strings"
)

// Color is a named text color from the fixed palette.
type Color string

// Palette colors. The zero Color means "no color".
const (
	ColorNone   Color = ""
	ColorRed    Color = "red"
	ColorBlue   Color = "blue"
	ColorGreen  Color = "green"
	ColorOrange Color = "orange"
	ColorPurple Color = "purple"
	ColorGrey   Color = "grey"
	ColorBlack  Color = "black"
)

var palette = map[string]Color{
	"red":    ColorRed,
	"blue":   ColorBlue,
	"green":  ColorGreen,
	"orange": ColorOrange,
	"purple": ColorPurple,
	"grey":   ColorGrey,
	"black":  ColorBlack,
}

// LookupColor returns the palette color for name, ignoring case.
func LookupColor(name string) (Color, bool) {
	c, ok := palette[strings.ToLower(strings.TrimSpace(name))]
	return c, ok
}

// Style is the set of inline attributes applied to a run.
type Style struct {
	Bold          bool
	Italic        bool
	Strikethrough bool
	Underline     bool
	Highlight     bool
	Color         Color
}

// Plain reports whether the style carries no attributes.
func (s Style) Plain() bool {
	return s == Style{}
}

// Run is a contiguous span of text sharing one Style.
type Run struct {
	Text  string
	Style Style
}

// Line is one parsed input line.
type Line struct {
	// Heading is the heading level, 0 for body text.
	Heading int
	// List is true when the line carried a list marker.
	List bool
	Runs []Run
}

// Text returns the line's visible text with all markers removed.
func (l Line) Text() string {
	var sb strings.Builder
	for _, r := range l.Runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// Format parses raw into one Line per input line. A single trailing newline
// does not produce an extra empty line.
func Format(raw string) []Line {
	raw = strings.TrimSuffix(raw, "\n")
	parts := strings.Split(raw, "\n")

	lines := make([]Line, 0, len(parts))
	for _, p := range parts {
		lines = append(lines, ParseLine(strings.TrimSuffix(p, "\r")))
	}
	return lines
}

// ParseLine parses a single line without any newline characters.
func ParseLine(s string) Line {
	var line Line

	if level, rest, ok := cutHeading(s); ok {
		line.Heading = level
		s = rest
	}
	if rest, ok := cutListMarker(s); ok {
		line.List = true
		s = rest
	}

	line.Runs = scan(s)
	return line
}

// PlainText joins the visible text of lines with newlines.
func PlainText(lines []Line) string {
	texts := make([]string, len(lines))
	for i, l := range lines {
		texts[i] = l.Text()
	}
	return strings.Join(texts, "\n")
}

func cutHeading(s string) (int, string, bool) {
	n := 0
	for n < len(s) && s[n] == '#' {
		n++
	}
	if n == 0 || n > 6 || n >= len(s) || !isSpace(s[n]) {
		return 0, s, false
	}
	return n, strings.TrimLeft(s[n:], " \t"), true
}

func cutListMarker(s string) (string, bool) {
	if len(s) < 2 || (s[0] != '-' && s[0] != '*') || !isSpace(s[1]) {
		return s, false
	}
	return strings.TrimLeft(s[1:], " \t"), true
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t'
}
