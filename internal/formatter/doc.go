// Package formatter converts the restricted markdown dialect written by the
// planner into paragraph records made of styled text runs.
//
// Each input line is parsed on its own:
//
//   - a leading heading marker (1 to 6 '#' followed by whitespace) sets the heading level
//   - a leading list marker ('-' or '*' followed by whitespace) marks a list item
//   - the remaining text is scanned once, left to right, for inline markers
//
// Recognized inline markers, in precedence order when two could start at the
// same position:
//
//	**bold** __bold__
//	*italic* _italic_
//	~~strikethrough~~
//	<u>underline</u>
//	==highlight==
//	[color:NAME]text[/color]
//
// Markers do not nest; the text between an opening and closing marker is
// taken literally. Backends translate the resulting Lines into their native
// rich text and are responsible for tracking their own insertion cursor.
package formatter
