package tools

import (
	"fmt"

	"github.com/enzocage/Notion-Mediator/internal/backend"
)

// Arity is the argument shape of a tool, which is also the backend
// operation it runs.
type Arity string

const (
	ArityRead   Arity = "read"
	ArityAppend Arity = "append"
	ArityUpdate Arity = "update"
)

// Param describes one tool argument for prompts and tool listings.
type Param struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	Description string `yaml:"description"`
}

// Descriptor is one tool bound to a backend document.
type Descriptor struct {
	Name        string
	Arity       Arity
	Description string
	Backend     backend.Backend
	Alias       string
	Params      []Param
}

// Kind returns the kind of the bound backend.
func (d Descriptor) Kind() backend.Kind {
	return d.Backend.Kind()
}

// LocatorKey returns the backend-specific name of the locator argument of
// update tools.
func LocatorKey(kind backend.Kind) string {
	if kind == backend.KindGoogle {
		return "paragraphIndex"
	}
	return "blockId"
}

const markdownHint = "Markdown is supported: # headings, - lists, **bold**, *italic*, " +
	"~~strikethrough~~, <u>underline</u>, ==highlight== and [color:red]text[/color]."

// describe returns the three tools of one backend document.
func describe(b backend.Backend, alias string) []Descriptor {
	if b.Kind() == backend.KindGoogle {
		return []Descriptor{
			{
				Name:        "read_doc_" + alias,
				Arity:       ArityRead,
				Description: fmt.Sprintf("Read Google Doc %s. Every paragraph is returned as [PARAGRAPH:<index>] <text>.", alias),
			},
			{
				Name:        "write_doc_" + alias,
				Arity:       ArityAppend,
				Description: fmt.Sprintf("Append text to the end of Google Doc %s. %s", alias, markdownHint),
				Params: []Param{
					{Name: "text", Type: "string", Description: "The text to append. args may also be the text itself."},
				},
			},
			{
				Name:        "update_doc_" + alias,
				Arity:       ArityUpdate,
				Description: fmt.Sprintf("Replace the text of one paragraph of Google Doc %s. Read the document first to learn the paragraph indices. %s", alias, markdownHint),
				Params: []Param{
					{Name: "paragraphIndex", Type: "integer", Description: "The index from a [PARAGRAPH:<index>] marker."},
					{Name: "text", Type: "string", Description: "The replacement text."},
				},
			},
		}
	}

	return []Descriptor{
		{
			Name:        "read_page_" + alias,
			Arity:       ArityRead,
			Description: fmt.Sprintf("Read Notion page %s. Every text block is returned as [BLOCK_ID:<id>] <text>.", alias),
		},
		{
			Name:        "write_page_" + alias,
			Arity:       ArityAppend,
			Description: fmt.Sprintf("Append text to the end of Notion page %s. %s", alias, markdownHint),
			Params: []Param{
				{Name: "text", Type: "string", Description: "The text to append. args may also be the text itself."},
			},
		},
		{
			Name:        "update_block_page_" + alias,
			Arity:       ArityUpdate,
			Description: fmt.Sprintf("Replace the text of one block of Notion page %s. Read the page first to learn the block IDs. %s", alias, markdownHint),
			Params: []Param{
				{Name: "blockId", Type: "string", Description: "The ID from a [BLOCK_ID:<id>] marker."},
				{Name: "text", Type: "string", Description: "The replacement text."},
			},
		},
	}
}
