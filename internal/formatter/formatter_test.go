package formatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat_PlainTextIsIdempotent(t *testing.T) {
	lines := Format("plain text")

	require.Len(t, lines, 1)
	assert.Equal(t, 0, lines[0].Heading)
	assert.False(t, lines[0].List)
	assert.Equal(t, []Run{{Text: "plain text"}}, lines[0].Runs)
}

func TestFormat_BoldAndItalic(t *testing.T) {
	lines := Format("**bold** and *italic*")

	require.Len(t, lines, 1)
	assert.Equal(t, []Run{
		{Text: "bold", Style: Style{Bold: true}},
		{Text: " and "},
		{Text: "italic", Style: Style{Italic: true}},
	}, lines[0].Runs)
}

func TestFormat_HeadingAndList(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		heading int
		list    bool
		text    string
	}{
		{"heading 1", "# Title", 1, false, "Title"},
		{"heading 3", "### Sub", 3, false, "Sub"},
		{"heading 6", "###### Deep", 6, false, "Deep"},
		{"seven hashes is text", "####### Seven", 0, false, "####### Seven"},
		{"hash without space", "#hashtag", 0, false, "#hashtag"},
		{"dash list", "- item", 0, true, "item"},
		{"star list", "* item", 0, true, "item"},
		{"heading list", "## - both", 2, true, "both"},
		{"tab after marker", "#\tTabbed", 1, false, "Tabbed"},
		{"dash without space", "-item", 0, false, "-item"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := Format(tt.input)
			require.Len(t, lines, 1)
			assert.Equal(t, tt.heading, lines[0].Heading)
			assert.Equal(t, tt.list, lines[0].List)
			assert.Equal(t, tt.text, lines[0].Text())
		})
	}
}

func TestFormat_ListItemRuns(t *testing.T) {
	lines := Format("- item")

	require.Len(t, lines, 1)
	assert.True(t, lines[0].List)
	assert.Equal(t, []Run{{Text: "item"}}, lines[0].Runs)
}

func TestFormat_InlineMarkers(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Run
	}{
		{
			name:  "underscore bold",
			input: "__strong__",
			want:  []Run{{Text: "strong", Style: Style{Bold: true}}},
		},
		{
			name:  "underscore italic",
			input: "_soft_",
			want:  []Run{{Text: "soft", Style: Style{Italic: true}}},
		},
		{
			name:  "strikethrough",
			input: "a ~~gone~~ b",
			want: []Run{
				{Text: "a "},
				{Text: "gone", Style: Style{Strikethrough: true}},
				{Text: " b"},
			},
		},
		{
			name:  "underline",
			input: "<u>under</u>",
			want:  []Run{{Text: "under", Style: Style{Underline: true}}},
		},
		{
			name:  "highlight",
			input: "==mark==",
			want:  []Run{{Text: "mark", Style: Style{Highlight: true}}},
		},
		{
			name:  "known color",
			input: "[color:red]alert[/color]",
			want:  []Run{{Text: "alert", Style: Style{Color: ColorRed}}},
		},
		{
			name:  "color name is case insensitive",
			input: "[color:Blue]calm[/color]",
			want:  []Run{{Text: "calm", Style: Style{Color: ColorBlue}}},
		},
		{
			name:  "unknown color stays plain",
			input: "[color:pink]x[/color]",
			want:  []Run{{Text: "x"}},
		},
		{
			name:  "unknown color merges with neighbours",
			input: "a [color:pink]x[/color] b",
			want:  []Run{{Text: "a x b"}},
		},
		{
			name:  "snake case is not italic",
			input: "call snake_case_name now",
			want:  []Run{{Text: "call snake_case_name now"}},
		},
		{
			name:  "unclosed bold is literal",
			input: "**open",
			want:  []Run{{Text: "**open"}},
		},
		{
			name:  "empty markers are literal",
			input: "a ** b",
			want:  []Run{{Text: "a ** b"}},
		},
		{
			name:  "spaced asterisks are literal",
			input: "2 * 3 * 4",
			want:  []Run{{Text: "2 * 3 * 4"}},
		},
		{
			name:  "nested markers are not interpreted",
			input: "**a *b* c**",
			want:  []Run{{Text: "a *b* c", Style: Style{Bold: true}}},
		},
		{
			name:  "earliest marker wins",
			input: "~~s~~ **b**",
			want: []Run{
				{Text: "s", Style: Style{Strikethrough: true}},
				{Text: " "},
				{Text: "b", Style: Style{Bold: true}},
			},
		},
		{
			name:  "multibyte text survives",
			input: "größe **fett** ✓",
			want: []Run{
				{Text: "größe "},
				{Text: "fett", Style: Style{Bold: true}},
				{Text: " ✓"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := Format(tt.input)
			require.Len(t, lines, 1)
			assert.Equal(t, tt.want, lines[0].Runs)
		})
	}
}

func TestFormat_MultipleLines(t *testing.T) {
	lines := Format("# Title\r\nbody **x**\n\n- one\n")

	require.Len(t, lines, 4)
	assert.Equal(t, 1, lines[0].Heading)
	assert.Equal(t, "Title", lines[0].Text())
	assert.Equal(t, "body x", lines[1].Text())
	assert.Empty(t, lines[2].Runs)
	assert.True(t, lines[3].List)
	assert.Equal(t, "Title\nbody x\n\none", PlainText(lines))
}

func TestStylePlain(t *testing.T) {
	assert.True(t, Style{}.Plain())
	assert.False(t, Style{Bold: true}.Plain())
	assert.False(t, Style{Color: ColorGrey}.Plain())
}

func TestLookupColor(t *testing.T) {
	for _, name := range []string{"red", "blue", "green", "orange", "purple", "grey", "black"} {
		c, ok := LookupColor(name)
		assert.True(t, ok, name)
		assert.Equal(t, Color(name), c)
	}

	_, ok := LookupColor("pink")
	assert.False(t, ok)
}
