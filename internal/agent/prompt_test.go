package agent

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/enzocage/Notion-Mediator/internal/backend"
	"github.com/enzocage/Notion-Mediator/internal/tools"
)

func TestSystemPrompt_Google(t *testing.T) {
	reg, err := tools.NewRegistry(newRecordingBackend(backend.KindGoogle))
	require.NoError(t, err)

	prompt, err := SystemPrompt(reg)
	require.NoError(t, err)

	assert.Contains(t, prompt, "Google Docs 1 and 2")
	assert.Contains(t, prompt, "paragraphIndex")
	assert.NotContains(t, prompt, "read_page_1")
	assert.Contains(t, prompt, "red, blue, green, orange, purple, grey, black")
}

func TestRenderCatalog_IsYAML(t *testing.T) {
	reg, err := tools.NewRegistry(newRecordingBackend(backend.KindNotion))
	require.NoError(t, err)

	out, err := renderCatalog(reg.Tools())
	require.NoError(t, err)

	var entries []catalogEntry
	require.NoError(t, yaml.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 6)
	assert.Equal(t, "read_page_1", entries[0].Name)
	assert.Empty(t, entries[0].Args)
	assert.Equal(t, "update_block_page_1", entries[2].Name)
	require.Len(t, entries[2].Args, 2)
	assert.Equal(t, "blockId", entries[2].Args[0].Name)
	assert.True(t, strings.HasPrefix(entries[1].Description, "Append text to the end of Notion page 1."))
}

func TestDocumentsPhrase(t *testing.T) {
	one, err := tools.NewRegistry(&singleAlias{recordingBackend: newRecordingBackend(backend.KindNotion)})
	require.NoError(t, err)
	assert.Equal(t, "Notion page 2", documentsPhrase(one))
}

// singleAlias exposes only alias 2 of a recording backend.
type singleAlias struct {
	*recordingBackend
}

func (s *singleAlias) Aliases() []string { return []string{"2"} }
