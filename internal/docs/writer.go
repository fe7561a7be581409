package docs

import (
	"strconv"
	"strings"
	"unicode/utf16"

	docs "google.golang.org/api/docs/v1"

	"github.com/enzocage/Notion-Mediator/internal/formatter"
)

const bulletPreset = "BULLET_DISC_CIRCLE_SQUARE"

// resetFields clears every inline attribute the writer may set.
const resetFields = "bold,italic,strikethrough,underline,foregroundColor,backgroundColor"

var (
	highlightColor = rgb(1, 0.95, 0.4)

	palette = map[formatter.Color]*docs.OptionalColor{
		formatter.ColorRed:    rgb(0.85, 0.1, 0.1),
		formatter.ColorBlue:   rgb(0.1, 0.35, 0.85),
		formatter.ColorGreen:  rgb(0.1, 0.6, 0.2),
		formatter.ColorOrange: rgb(0.95, 0.55, 0.1),
		formatter.ColorPurple: rgb(0.55, 0.2, 0.75),
		formatter.ColorGrey:   rgb(0.5, 0.5, 0.5),
		formatter.ColorBlack:  rgb(0, 0, 0),
	}
)

func rgb(r, g, b float64) *docs.OptionalColor {
	return &docs.OptionalColor{
		Color: &docs.Color{
			RgbColor: &docs.RgbColor{Red: r, Green: g, Blue: b},
		},
	}
}

// utf16Len returns the length of s in UTF-16 code units, the unit of every
// Docs API index.
func utf16Len(s string) int64 {
	return int64(len(utf16.Encode([]rune(s))))
}

// batch accumulates batchUpdate requests while tracking the insertion
// cursor. Requests are applied in order, so each index refers to the
// document as left by the requests before it.
type batch struct {
	requests []*docs.Request
	cursor   int64
}

func newBatch(cursor int64) *batch {
	return &batch{cursor: cursor}
}

// writeLines inserts one paragraph per line at the cursor. Every line but
// the first is preceded by a newline; the first one is too when
// leadingNewline is set, which starts a new paragraph after existing text.
func (b *batch) writeLines(lines []formatter.Line, leadingNewline bool) {
	for i, line := range lines {
		text := line.Text()

		insert := text
		if i > 0 || leadingNewline {
			insert = "\n" + text
		}
		start := b.cursor + utf16Len(insert) - utf16Len(text)

		if insert != "" {
			b.requests = append(b.requests, &docs.Request{
				InsertText: &docs.InsertTextRequest{
					Location: &docs.Location{Index: b.cursor},
					Text:     insert,
				},
			})
			b.cursor += utf16Len(insert)
		}

		b.styleLine(start, line)
	}
}

// styleLine styles the paragraph whose text starts at start. The character
// at start+len(text) is the paragraph's newline, so the paragraph range is
// never empty.
func (b *batch) styleLine(start int64, line formatter.Line) {
	n := utf16Len(line.Text())

	paragraphRange := &docs.Range{StartIndex: start, EndIndex: start + n + 1}
	b.requests = append(b.requests, &docs.Request{
		UpdateParagraphStyle: &docs.UpdateParagraphStyleRequest{
			Range:          paragraphRange,
			ParagraphStyle: &docs.ParagraphStyle{NamedStyleType: namedStyle(line.Heading)},
			Fields:         "namedStyleType",
		},
	})
	// A paragraph split off a bulleted one keeps its bullet.
	if line.List {
		b.requests = append(b.requests, &docs.Request{
			CreateParagraphBullets: &docs.CreateParagraphBulletsRequest{
				Range:        paragraphRange,
				BulletPreset: bulletPreset,
			},
		})
	} else {
		b.requests = append(b.requests, &docs.Request{
			DeleteParagraphBullets: &docs.DeleteParagraphBulletsRequest{Range: paragraphRange},
		})
	}

	if n == 0 {
		return
	}

	// Inserted text inherits the style at the insertion point.
	b.requests = append(b.requests, &docs.Request{
		UpdateTextStyle: &docs.UpdateTextStyleRequest{
			Range:     &docs.Range{StartIndex: start, EndIndex: start + n},
			TextStyle: &docs.TextStyle{},
			Fields:    resetFields,
		},
	})

	offset := start
	for _, run := range line.Runs {
		length := utf16Len(run.Text)
		if style, fields := textStyle(run.Style); fields != "" {
			b.requests = append(b.requests, &docs.Request{
				UpdateTextStyle: &docs.UpdateTextStyleRequest{
					Range:     &docs.Range{StartIndex: offset, EndIndex: offset + length},
					TextStyle: style,
					Fields:    fields,
				},
			})
		}
		offset += length
	}
}

func namedStyle(heading int) string {
	if heading < 1 || heading > 6 {
		return "NORMAL_TEXT"
	}
	return "HEADING_" + strconv.Itoa(heading)
}

// textStyle converts a run style into a TextStyle and its field mask.
func textStyle(s formatter.Style) (*docs.TextStyle, string) {
	style := &docs.TextStyle{}
	var fields []string

	if s.Bold {
		style.Bold = true
		fields = append(fields, "bold")
	}
	if s.Italic {
		style.Italic = true
		fields = append(fields, "italic")
	}
	if s.Strikethrough {
		style.Strikethrough = true
		fields = append(fields, "strikethrough")
	}
	if s.Underline {
		style.Underline = true
		fields = append(fields, "underline")
	}
	if s.Highlight {
		style.BackgroundColor = highlightColor
		fields = append(fields, "backgroundColor")
	}
	if c, ok := palette[s.Color]; ok {
		style.ForegroundColor = c
		fields = append(fields, "foregroundColor")
	}

	return style, strings.Join(fields, ",")
}
