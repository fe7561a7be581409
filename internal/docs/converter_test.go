package docs

import (
	"testing"

	docs "google.golang.org/api/docs/v1"

	"github.com/enzocage/Notion-Mediator/internal/formatter"
)

func textPara(start, end int64, style string, bullet bool, runs ...*docs.TextRun) *docs.StructuralElement {
	p := &docs.Paragraph{}
	if style != "" {
		p.ParagraphStyle = &docs.ParagraphStyle{NamedStyleType: style}
	}
	if bullet {
		p.Bullet = &docs.Bullet{ListId: "list-1"}
	}
	for _, r := range runs {
		p.Elements = append(p.Elements, &docs.ParagraphElement{TextRun: r})
	}
	return &docs.StructuralElement{StartIndex: start, EndIndex: end, Paragraph: p}
}

func run(content string, style *docs.TextStyle) *docs.TextRun {
	return &docs.TextRun{Content: content, TextStyle: style}
}

func TestDocumentToMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		doc      *docs.Document
		expected string
		wantErr  bool
	}{
		{
			name:    "nil document",
			doc:     nil,
			wantErr: true,
		},
		{
			name: "new document",
			doc: &docs.Document{Body: &docs.Body{Content: []*docs.StructuralElement{
				{EndIndex: 1, SectionBreak: &docs.SectionBreak{}},
				textPara(1, 2, "NORMAL_TEXT", false, run("\n", nil)),
			}}},
			expected: EmptyDocument,
		},
		{
			name: "blank paragraphs are not numbered",
			doc: &docs.Document{Body: &docs.Body{Content: []*docs.StructuralElement{
				textPara(1, 7, "", false, run("Intro\n", nil)),
				textPara(7, 8, "", false, run("\n", nil)),
				textPara(8, 11, "", false, run("  \n", nil)),
				textPara(11, 17, "", false, run("Outro\n", nil)),
			}}},
			expected: "[PARAGRAPH:0] Intro\n[PARAGRAPH:1] Outro",
		},
		{
			name: "headings and bullets",
			doc: &docs.Document{Body: &docs.Body{Content: []*docs.StructuralElement{
				textPara(1, 7, "HEADING_1", false, run("Title\n", nil)),
				textPara(7, 11, "HEADING_3", false, run("Sub\n", nil)),
				textPara(11, 16, "NORMAL_TEXT", true, run("Item\n", nil)),
			}}},
			expected: "[PARAGRAPH:0] # Title\n[PARAGRAPH:1] ### Sub\n[PARAGRAPH:2] - Item",
		},
		{
			name: "inline styles",
			doc: &docs.Document{Body: &docs.Body{Content: []*docs.StructuralElement{
				textPara(1, 40, "", false,
					run("bold ", &docs.TextStyle{Bold: true}),
					run("and ", nil),
					run("slanted", &docs.TextStyle{Italic: true}),
					run(" gone", &docs.TextStyle{Strikethrough: true}),
					run(" under\n", &docs.TextStyle{Underline: true}),
				),
			}}},
			expected: "[PARAGRAPH:0] **bold** and *slanted* ~~gone~~ <u>under</u>",
		},
		{
			name: "tables are skipped",
			doc: &docs.Document{Body: &docs.Body{Content: []*docs.StructuralElement{
				{StartIndex: 1, EndIndex: 10, Table: &docs.Table{}},
				textPara(10, 15, "", false, run("Text\n", nil)),
			}}},
			expected: "[PARAGRAPH:0] Text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := DocumentToMarkdown(tt.doc)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DocumentToMarkdown() error = %v, wantErr %v", err, tt.wantErr)
			}
			if result != tt.expected {
				t.Errorf("DocumentToMarkdown() =\n%q\nwant\n%q", result, tt.expected)
			}
		})
	}
}

func TestParagraphToMarkdown_RoundTrip(t *testing.T) {
	para := textPara(1, 30, "HEADING_2", false,
		run("Plan ", nil),
		run("now", &docs.TextStyle{Bold: true, Italic: true}),
		run(" later\n", &docs.TextStyle{Italic: true}),
	).Paragraph

	md := ParagraphToMarkdown(para)
	if md != "## Plan **now** *later*" {
		t.Fatalf("ParagraphToMarkdown() = %q", md)
	}

	lines := formatter.Format(md)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0].Heading != 2 {
		t.Errorf("heading = %d, want 2", lines[0].Heading)
	}
	if lines[0].Text() != "Plan now later" {
		t.Errorf("text = %q", lines[0].Text())
	}
}

func TestHeadingLevel(t *testing.T) {
	tests := []struct {
		style string
		want  int
	}{
		{"HEADING_1", 1},
		{"HEADING_6", 6},
		{"HEADING_7", 0},
		{"TITLE", 0},
		{"NORMAL_TEXT", 0},
		{"", 0},
	}

	for _, tt := range tests {
		t.Run(tt.style, func(t *testing.T) {
			if got := headingLevel(&docs.ParagraphStyle{NamedStyleType: tt.style}); got != tt.want {
				t.Errorf("headingLevel(%q) = %d, want %d", tt.style, got, tt.want)
			}
		})
	}
}
