// Package notion implements the Notion backend on top of the Notion blocks
// API.
//
// A page is read as one "[BLOCK_ID:<id>] <markdown>" line per text-bearing
// child block. Appended text is run through the formatter and becomes
// heading, bulleted list and paragraph blocks; an update replaces the rich
// text of a single block in place.
package notion
