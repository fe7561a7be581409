package docs

import (
	"fmt"
	"strconv"
	"strings"

	docs "google.golang.org/api/docs/v1"
)

// EmptyDocument is returned by Read for a document without text.
const EmptyDocument = "[Document is empty]"

// paragraph is a non-blank body paragraph with its position in the document.
type paragraph struct {
	// Index counts non-blank paragraphs from zero.
	Index      int
	StartIndex int64
	EndIndex   int64
	Paragraph  *docs.Paragraph
}

// bodyParagraphs returns the non-blank paragraphs of the document body in
// order. Blank paragraphs do not receive an index, so indices stay stable
// across edits that only add or remove empty lines.
func bodyParagraphs(doc *docs.Document) []paragraph {
	if doc == nil || doc.Body == nil {
		return nil
	}

	var out []paragraph
	for _, element := range doc.Body.Content {
		if element.Paragraph == nil {
			continue
		}
		if strings.TrimSpace(paragraphText(element.Paragraph)) == "" {
			continue
		}
		out = append(out, paragraph{
			Index:      len(out),
			StartIndex: element.StartIndex,
			EndIndex:   element.EndIndex,
			Paragraph:  element.Paragraph,
		})
	}
	return out
}

// findParagraph returns the paragraph with the given index.
func findParagraph(doc *docs.Document, index int) (paragraph, bool) {
	for _, p := range bodyParagraphs(doc) {
		if p.Index == index {
			return p, true
		}
	}
	return paragraph{}, false
}

// bodyEndIndex returns the end index of the last structural element.
func bodyEndIndex(doc *docs.Document) int64 {
	if doc == nil || doc.Body == nil || len(doc.Body.Content) == 0 {
		return 1
	}
	return doc.Body.Content[len(doc.Body.Content)-1].EndIndex
}

// paragraphText concatenates the text runs of a paragraph.
func paragraphText(para *docs.Paragraph) string {
	var sb strings.Builder
	for _, elem := range para.Elements {
		if elem.TextRun != nil {
			sb.WriteString(elem.TextRun.Content)
		}
	}
	return sb.String()
}

// DocumentToMarkdown renders every non-blank body paragraph as
// "[PARAGRAPH:n] <markdown>" on its own line.
func DocumentToMarkdown(doc *docs.Document) (string, error) {
	if doc == nil {
		return "", fmt.Errorf("document is nil")
	}

	paragraphs := bodyParagraphs(doc)
	if len(paragraphs) == 0 {
		return EmptyDocument, nil
	}

	var md strings.Builder
	for i, p := range paragraphs {
		if i > 0 {
			md.WriteString("\n")
		}
		md.WriteString("[PARAGRAPH:")
		md.WriteString(strconv.Itoa(p.Index))
		md.WriteString("] ")
		md.WriteString(ParagraphToMarkdown(p.Paragraph))
	}
	return md.String(), nil
}

// ParagraphToMarkdown renders a paragraph in the formatter's dialect, so
// that text read from a document can be written back unchanged.
func ParagraphToMarkdown(para *docs.Paragraph) string {
	if para == nil {
		return ""
	}

	var md strings.Builder

	if level := headingLevel(para.ParagraphStyle); level > 0 {
		md.WriteString(strings.Repeat("#", level))
		md.WriteString(" ")
	}
	if para.Bullet != nil {
		md.WriteString("- ")
	}

	for _, elem := range para.Elements {
		if elem.TextRun != nil {
			writeTextRun(&md, elem.TextRun)
		}
	}

	return strings.TrimRight(md.String(), "\n")
}

func headingLevel(style *docs.ParagraphStyle) int {
	if style == nil {
		return 0
	}
	level, ok := strings.CutPrefix(style.NamedStyleType, "HEADING_")
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(level)
	if err != nil || n < 1 || n > 6 {
		return 0
	}
	return n
}

// writeTextRun wraps a run in one marker pair. The dialect has no nesting,
// so a run carrying several styles keeps only the first of bold, italic,
// strikethrough and underline.
func writeTextRun(md *strings.Builder, run *docs.TextRun) {
	content := strings.TrimSuffix(run.Content, "\n")
	if content == "" {
		return
	}

	open, closer := markers(run.TextStyle)
	if open == "" {
		md.WriteString(content)
		return
	}

	// Surrounding whitespace stays outside the markers.
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		md.WriteString(content)
		return
	}
	lead := content[:strings.Index(content, trimmed)]
	trail := content[len(lead)+len(trimmed):]

	md.WriteString(lead)
	md.WriteString(open)
	md.WriteString(trimmed)
	md.WriteString(closer)
	md.WriteString(trail)
}

func markers(style *docs.TextStyle) (string, string) {
	switch {
	case style == nil:
		return "", ""
	case style.Bold:
		return "**", "**"
	case style.Italic:
		return "*", "*"
	case style.Strikethrough:
		return "~~", "~~"
	case style.Underline && style.Link == nil:
		return "<u>", "</u>"
	default:
		return "", ""
	}
}
