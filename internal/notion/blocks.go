package notion

import (
	"strings"

	"github.com/jomei/notionapi"

	"github.com/enzocage/Notion-Mediator/internal/formatter"
)

const (
	// maxRichTextLength is the API limit for the content of one rich text
	// object, in characters.
	maxRichTextLength = 2000

	// maxChildrenPerRequest is the API limit for blocks appended in one call.
	maxChildrenPerRequest = 100
)

var colors = map[formatter.Color]notionapi.Color{
	formatter.ColorRed:    notionapi.ColorRed,
	formatter.ColorBlue:   notionapi.ColorBlue,
	formatter.ColorGreen:  notionapi.ColorGreen,
	formatter.ColorOrange: notionapi.ColorOrange,
	formatter.ColorPurple: notionapi.ColorPurple,
	formatter.ColorGrey:   notionapi.ColorGray,
	formatter.ColorBlack:  notionapi.ColorDefault,
}

// linesToBlocks converts formatted lines into blocks ready to append.
// Headings above level 3 (levels 4 to 6) are clamped to heading_3.
func linesToBlocks(lines []formatter.Line) []notionapi.Block {
	blocks := make([]notionapi.Block, 0, len(lines))
	for _, line := range lines {
		blocks = append(blocks, lineToBlock(line))
	}
	return blocks
}

func lineToBlock(line formatter.Line) notionapi.Block {
	text := runsToRichText(line.Runs)

	switch {
	case line.Heading == 1:
		return &notionapi.Heading1Block{
			BasicBlock: basicBlock(notionapi.BlockTypeHeading1),
			Heading1:   notionapi.Heading{RichText: text},
		}
	case line.Heading == 2:
		return &notionapi.Heading2Block{
			BasicBlock: basicBlock(notionapi.BlockTypeHeading2),
			Heading2:   notionapi.Heading{RichText: text},
		}
	case line.Heading >= 3:
		return &notionapi.Heading3Block{
			BasicBlock: basicBlock(notionapi.BlockTypeHeading3),
			Heading3:   notionapi.Heading{RichText: text},
		}
	case line.List:
		return &notionapi.BulletedListItemBlock{
			BasicBlock:       basicBlock(notionapi.BlockTypeBulletedListItem),
			BulletedListItem: notionapi.ListItem{RichText: text},
		}
	default:
		return &notionapi.ParagraphBlock{
			BasicBlock: basicBlock(notionapi.BlockTypeParagraph),
			Paragraph:  notionapi.Paragraph{RichText: text},
		}
	}
}

func basicBlock(t notionapi.BlockType) notionapi.BasicBlock {
	return notionapi.BasicBlock{Object: notionapi.ObjectTypeBlock, Type: t}
}

// linesToRichText flattens lines into the rich text of a single block,
// separating lines with newlines. Heading and list markers are dropped.
func linesToRichText(lines []formatter.Line) []notionapi.RichText {
	var runs []formatter.Run
	for i, line := range lines {
		if i > 0 {
			runs = append(runs, formatter.Run{Text: "\n"})
		}
		runs = append(runs, line.Runs...)
	}
	return runsToRichText(runs)
}

// runsToRichText converts styled runs into rich text objects. Runs longer
// than the API limit are split into several objects with the same
// annotations. The result is never nil.
func runsToRichText(runs []formatter.Run) []notionapi.RichText {
	out := []notionapi.RichText{}
	for _, run := range runs {
		for _, chunk := range chunk(run.Text, maxRichTextLength) {
			out = append(out, notionapi.RichText{
				Type:        notionapi.ObjectTypeText,
				Text:        &notionapi.Text{Content: chunk},
				Annotations: annotations(run.Style),
			})
		}
	}
	return out
}

func annotations(style formatter.Style) *notionapi.Annotations {
	a := &notionapi.Annotations{
		Bold:          style.Bold,
		Italic:        style.Italic,
		Strikethrough: style.Strikethrough,
		Underline:     style.Underline,
		Color:         notionapi.ColorDefault,
	}
	if style.Highlight {
		a.Color = notionapi.ColorYellowBackground
	}
	if c, ok := colors[style.Color]; ok {
		a.Color = c
	}
	return a
}

// chunk splits s into pieces of at most n runes.
func chunk(s string, n int) []string {
	if s == "" {
		return nil
	}

	var out []string
	runes := []rune(s)
	for len(runes) > n {
		out = append(out, string(runes[:n]))
		runes = runes[n:]
	}
	return append(out, string(runes))
}

// batches splits blocks into groups accepted by a single append call.
func batches(blocks []notionapi.Block, size int) [][]notionapi.Block {
	var out [][]notionapi.Block
	for len(blocks) > size {
		out = append(out, blocks[:size])
		blocks = blocks[size:]
	}
	if len(blocks) > 0 {
		out = append(out, blocks)
	}
	return out
}

// blockToMarkdown renders a text-bearing block in the formatter's dialect.
// It reports false for block types that carry no text.
func blockToMarkdown(block notionapi.Block) (string, bool) {
	var (
		prefix string
		text   []notionapi.RichText
	)

	switch b := block.(type) {
	case *notionapi.ParagraphBlock:
		text = b.Paragraph.RichText
	case *notionapi.Heading1Block:
		prefix, text = "# ", b.Heading1.RichText
	case *notionapi.Heading2Block:
		prefix, text = "## ", b.Heading2.RichText
	case *notionapi.Heading3Block:
		prefix, text = "### ", b.Heading3.RichText
	case *notionapi.BulletedListItemBlock:
		prefix, text = "- ", b.BulletedListItem.RichText
	case *notionapi.NumberedListItemBlock:
		prefix, text = "- ", b.NumberedListItem.RichText
	case *notionapi.QuoteBlock:
		text = b.Quote.RichText
	case *notionapi.ToDoBlock:
		text = b.ToDo.RichText
	default:
		return "", false
	}

	return prefix + richTextToMarkdown(text), true
}

// richTextToMarkdown wraps each styled segment in a single marker pair,
// keeping surrounding whitespace outside of it.
func richTextToMarkdown(text []notionapi.RichText) string {
	var md strings.Builder
	for _, rt := range text {
		content := rt.PlainText
		if content == "" && rt.Text != nil {
			content = rt.Text.Content
		}

		open, closer := markers(rt.Annotations)
		trimmed := strings.TrimSpace(content)
		if open == "" || trimmed == "" {
			md.WriteString(content)
			continue
		}

		lead := content[:strings.Index(content, trimmed)]
		md.WriteString(lead)
		md.WriteString(open)
		md.WriteString(trimmed)
		md.WriteString(closer)
		md.WriteString(content[len(lead)+len(trimmed):])
	}
	return md.String()
}

func markers(a *notionapi.Annotations) (string, string) {
	switch {
	case a == nil:
		return "", ""
	case a.Bold:
		return "**", "**"
	case a.Italic:
		return "*", "*"
	case a.Strikethrough:
		return "~~", "~~"
	case a.Underline:
		return "<u>", "</u>"
	case a.Color == notionapi.ColorYellowBackground:
		return "==", "=="
	default:
		for fc, nc := range colors {
			if a.Color == nc && nc != notionapi.ColorDefault {
				return "[color:" + string(fc) + "]", "[/color]"
			}
		}
		return "", ""
	}
}

// setRichText replaces the rich text of an editable block and returns the
// matching update request. It reports false for blocks that cannot be
// edited as text.
func setRichText(block notionapi.Block, text []notionapi.RichText) (*notionapi.BlockUpdateRequest, bool) {
	switch b := block.(type) {
	case *notionapi.ParagraphBlock:
		return &notionapi.BlockUpdateRequest{Paragraph: &notionapi.Paragraph{RichText: text, Color: b.Paragraph.Color}}, true
	case *notionapi.Heading1Block:
		return &notionapi.BlockUpdateRequest{Heading1: &notionapi.Heading{RichText: text, Color: b.Heading1.Color}}, true
	case *notionapi.Heading2Block:
		return &notionapi.BlockUpdateRequest{Heading2: &notionapi.Heading{RichText: text, Color: b.Heading2.Color}}, true
	case *notionapi.Heading3Block:
		return &notionapi.BlockUpdateRequest{Heading3: &notionapi.Heading{RichText: text, Color: b.Heading3.Color}}, true
	case *notionapi.BulletedListItemBlock:
		return &notionapi.BlockUpdateRequest{BulletedListItem: &notionapi.ListItem{RichText: text, Color: b.BulletedListItem.Color}}, true
	case *notionapi.NumberedListItemBlock:
		return &notionapi.BlockUpdateRequest{NumberedListItem: &notionapi.ListItem{RichText: text, Color: b.NumberedListItem.Color}}, true
	default:
		return nil, false
	}
}
