package agent

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/enzocage/Notion-Mediator/internal/backend"
	"github.com/enzocage/Notion-Mediator/internal/tools"
)

//go:embed system_prompt.tmpl
var systemTemplateContent string

var systemTemplate = template.Must(template.New("system").Parse(systemTemplateContent))

// systemPromptData is passed to the system prompt template.
type systemPromptData struct {
	Documents string
	Catalog   string
	Colors    string
}

// catalogEntry is the YAML shape of one tool in the system prompt.
type catalogEntry struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Args        []tools.Param `yaml:"args,omitempty"`
}

// SystemPrompt renders the system instruction for the tools of reg.
func SystemPrompt(reg *tools.Registry) (string, error) {
	catalog, err := renderCatalog(reg.Tools())
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	err = systemTemplate.Execute(&buf, systemPromptData{
		Documents: documentsPhrase(reg),
		Catalog:   catalog,
		Colors:    "red, blue, green, orange, purple, grey, black",
	})
	if err != nil {
		return "", fmt.Errorf("failed to render system prompt: %w", err)
	}
	return buf.String(), nil
}

func renderCatalog(descriptors []tools.Descriptor) (string, error) {
	entries := make([]catalogEntry, len(descriptors))
	for i, d := range descriptors {
		entries[i] = catalogEntry{Name: d.Name, Description: d.Description, Args: d.Params}
	}

	out, err := yaml.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("failed to render tool catalog: %w", err)
	}
	return string(out), nil
}

// documentsPhrase names the documents of reg, e.g. "Notion pages 1 and 2".
func documentsPhrase(reg *tools.Registry) string {
	noun := "Notion page"
	if reg.Mode() == backend.KindGoogle {
		noun = "Google Doc"
	}

	var aliases []string
	seen := map[string]bool{}
	for _, d := range reg.Tools() {
		if !seen[d.Alias] {
			seen[d.Alias] = true
			aliases = append(aliases, d.Alias)
		}
	}

	switch len(aliases) {
	case 0:
		return "no " + noun + "s"
	case 1:
		return noun + " " + aliases[0]
	default:
		last := len(aliases) - 1
		return noun + "s " + strings.Join(aliases[:last], ", ") + " and " + aliases[last]
	}
}
