package agent

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"no fence", `{"tool": null}`, `{"tool": null}`},
		{"json fence", "```json\n{\"tool\": null}\n```", `{"tool": null}`},
		{"bare fence", "```\n{\"tool\": null}\n```", `{"tool": null}`},
		{"single line", "```json {\"tool\": null}```", `{"tool": null}`},
		{"fence with padding", "  \n```json\n{}\n```  \n", `{}`},
		{"content on opening line", "```{\"a\": 1}\n```", `{"a": 1}`},
		{"json tag and content on opening line", "```json {\"tool\": null, \"response\": \"ok\"}\n```", `{"tool": null, "response": "ok"}`},
		{"upper case json tag", "```JSON\n[1, 2]\n```", `[1, 2]`},
		{"other language tag", "```text\n{}\n```", `{}`},
		{"prose", "  hello  ", "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripFences(tt.input))
		})
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		kind  DecisionKind
		plan  Plan
		text  string
	}{
		{
			name:  "tool call",
			reply: `{"tool": "write_page_1", "args": "hello", "response": null}`,
			kind:  DecisionPlan,
			plan:  Plan{Tool: "write_page_1", Args: json.RawMessage(`"hello"`)},
		},
		{
			name:  "object args",
			reply: `{"tool": "update_doc_1", "args": {"paragraphIndex": 2, "text": "x"}}`,
			kind:  DecisionPlan,
			plan:  Plan{Tool: "update_doc_1", Args: json.RawMessage(`{"paragraphIndex": 2, "text": "x"}`)},
		},
		{
			name:  "final answer",
			reply: `{"tool": null, "args": null, "response": "Done."}`,
			kind:  DecisionPlan,
			plan:  Plan{Args: json.RawMessage(`null`), Response: "Done."},
		},
		{
			name:  "false tool",
			reply: `{"tool": false, "response": "All set."}`,
			kind:  DecisionPlan,
			plan:  Plan{Response: "All set."},
		},
		{
			name:  "fenced with tag on opening line",
			reply: "```json {\"tool\": null, \"response\": \"ok\"}\n```",
			kind:  DecisionPlan,
			plan:  Plan{Response: "ok"},
		},
		{
			name:  "numeric response",
			reply: `{"response": 42}`,
			kind:  DecisionPlan,
			plan:  Plan{Response: "42"},
		},
		{
			name:  "not json",
			reply: "Here you go!",
			kind:  DecisionPlainText,
			text:  "Here you go!",
		},
		{
			name:  "truncated json",
			reply: `{"tool": "read_page_1"`,
			kind:  DecisionPlainText,
			text:  `{"tool": "read_page_1"`,
		},
		{
			name:  "string json",
			reply: `"just a string"`,
			kind:  DecisionPlainText,
			text:  `"just a string"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decode(tt.reply)
			assert.Equal(t, tt.kind, d.Kind)
			if tt.kind == DecisionPlan {
				assert.Equal(t, tt.plan, d.Plan)
			} else {
				assert.Equal(t, tt.text, d.Text)
			}
		})
	}
}
