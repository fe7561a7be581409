package formatter

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// matcher tries to recognize one inline marker starting at s[i]. On success
// it returns the inner text, its style, the index just past the closing
// marker, and whether the style applies (false for an unknown color, whose
// markers are consumed but whose text stays plain).
type matcher func(s string, i int) (inner string, style Style, end int, styled bool, ok bool)

// matchers are tried in precedence order at each position.
var matchers = []matcher{
	matchBold,
	matchItalic,
	delimited("~~", "~~", Style{Strikethrough: true}),
	delimited("<u>", "</u>", Style{Underline: true}),
	delimited("==", "==", Style{Highlight: true}),
	matchColor,
}

// scan splits s into styled runs in a single left-to-right pass.
func scan(s string) []Run {
	if s == "" {
		return nil
	}

	var (
		runs  []Run
		plain strings.Builder
	)
	flush := func() {
		if plain.Len() > 0 {
			runs = append(runs, Run{Text: plain.String()})
			plain.Reset()
		}
	}

	for i := 0; i < len(s); {
		matched := false
		for _, m := range matchers {
			inner, style, end, styled, ok := m(s, i)
			if !ok {
				continue
			}
			if styled {
				flush()
				runs = append(runs, Run{Text: inner, Style: style})
			} else {
				plain.WriteString(inner)
			}
			i = end
			matched = true
			break
		}
		if matched {
			continue
		}

		_, size := utf8.DecodeRuneInString(s[i:])
		plain.WriteString(s[i : i+size])
		i += size
	}
	flush()

	return runs
}

// delimited matches open + inner + close with a non-empty inner text.
func delimited(open, closer string, style Style) matcher {
	return func(s string, i int) (string, Style, int, bool, bool) {
		if !strings.HasPrefix(s[i:], open) {
			return "", Style{}, 0, false, false
		}
		start := i + len(open)
		j := strings.Index(s[start:], closer)
		if j <= 0 {
			return "", Style{}, 0, false, false
		}
		return s[start : start+j], style, start + j + len(closer), true, true
	}
}

func matchBold(s string, i int) (string, Style, int, bool, bool) {
	bold := Style{Bold: true}
	if strings.HasPrefix(s[i:], "**") {
		return delimited("**", "**", bold)(s, i)
	}
	if strings.HasPrefix(s[i:], "__") && wordBoundaryBefore(s, i) {
		inner, style, end, styled, ok := delimited("__", "__", bold)(s, i)
		if ok && wordBoundaryAfter(s, end) {
			return inner, style, end, styled, ok
		}
	}
	return "", Style{}, 0, false, false
}

func matchItalic(s string, i int) (string, Style, int, bool, bool) {
	italic := Style{Italic: true}
	switch {
	case strings.HasPrefix(s[i:], "*"):
		inner, style, end, styled, ok := delimited("*", "*", italic)(s, i)
		// "**" at i is bold or nothing; an inner starting with a space is a
		// stray asterisk, not emphasis.
		if ok && !strings.HasPrefix(inner, "*") && !strings.HasPrefix(inner, " ") {
			return inner, style, end, styled, ok
		}
	case strings.HasPrefix(s[i:], "_") && wordBoundaryBefore(s, i):
		inner, style, end, styled, ok := delimited("_", "_", italic)(s, i)
		if ok && !strings.HasPrefix(inner, "_") && wordBoundaryAfter(s, end) {
			return inner, style, end, styled, ok
		}
	}
	return "", Style{}, 0, false, false
}

const (
	colorOpen  = "[color:"
	colorClose = "[/color]"
)

func matchColor(s string, i int) (string, Style, int, bool, bool) {
	if !strings.HasPrefix(s[i:], colorOpen) {
		return "", Style{}, 0, false, false
	}
	nameStart := i + len(colorOpen)
	nameLen := strings.IndexByte(s[nameStart:], ']')
	if nameLen <= 0 {
		return "", Style{}, 0, false, false
	}
	name := s[nameStart : nameStart+nameLen]

	innerStart := nameStart + nameLen + 1
	j := strings.Index(s[innerStart:], colorClose)
	if j <= 0 {
		return "", Style{}, 0, false, false
	}
	inner := s[innerStart : innerStart+j]
	end := innerStart + j + len(colorClose)

	c, known := LookupColor(name)
	if !known {
		return inner, Style{}, end, false, true
	}
	return inner, Style{Color: c}, end, true, true
}

func wordBoundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return !isWordRune(r)
}

func wordBoundaryAfter(s string, end int) bool {
	if end >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[end:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
