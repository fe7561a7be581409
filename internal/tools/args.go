package tools

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/enzocage/Notion-Mediator/internal/backend"
)

var errMissingText = errors.New("text argument is required")

// updateArgs are the decoded arguments of an update tool.
type updateArgs struct {
	Locator backend.Locator
	Text    string
}

// updateSchema returns the JSON Schema of update arguments. The locator may
// be given under the backend-specific key or the generic "locator" key.
func updateSchema(locatorKey string) map[string]any {
	locator := map[string]any{"type": []any{"string", "integer"}}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			locatorKey: locator,
			"locator":  locator,
			"text":     map[string]any{"type": "string"},
		},
		"required": []any{"text"},
		"anyOf": []any{
			map[string]any{"required": []any{locatorKey}},
			map[string]any{"required": []any{"locator"}},
		},
	}
}

// compileSchema compiles a raw schema map.
func compileSchema(raw map[string]any) (*jsonschema.Schema, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource("schema.json", doc); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}

	schema, err := c.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	return schema, nil
}

// decodeUpdate validates raw against schema and extracts the locator and
// text. A JSON string holding an encoded object is accepted too.
func decodeUpdate(raw json.RawMessage, schema *jsonschema.Schema, locatorKey string) (updateArgs, error) {
	if s, ok := asString(raw); ok {
		raw = json.RawMessage(s)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return updateArgs{}, errors.New("arguments are required")
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return updateArgs{}, fmt.Errorf("invalid arguments: %w", err)
	}
	if err := schema.Validate(inst); err != nil {
		return updateArgs{}, fmt.Errorf("invalid arguments: %w", err)
	}

	obj := inst.(map[string]any)
	value, ok := obj[locatorKey]
	if !ok {
		value = obj["locator"]
	}

	return updateArgs{
		Locator: backend.Locator(scalarString(value)),
		Text:    obj["text"].(string),
	}, nil
}

// appendText extracts the text payload of an append tool. A string is used
// as is, an object with a string "text" field uses that field, and any other
// value is used as its JSON text.
func appendText(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", errMissingText
	}

	if s, ok := asString(trimmed); ok {
		return s, nil
	}

	var obj struct {
		Text *string `json:"text"`
	}
	if trimmed[0] == '{' && json.Unmarshal(trimmed, &obj) == nil && obj.Text != nil {
		return *obj.Text, nil
	}

	return string(trimmed), nil
}

func asString(raw json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func scalarString(v any) string {
	switch v := v.(type) {
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
