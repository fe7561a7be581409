package agent

import (
	"bytes"
	"encoding/json"
	"strings"
)

// DecisionKind tags the outcome of decoding a model reply.
type DecisionKind int

const (
	// DecisionPlainText is a reply that is not a JSON object. Its text is the
	// final answer.
	DecisionPlainText DecisionKind = iota
	// DecisionPlan is a reply that decoded into a Plan.
	DecisionPlan
)

// Plan is one structured step proposed by the model.
type Plan struct {
	// Tool is the tool to invoke; empty means the run is done.
	Tool string
	// Args is the raw tool argument, a string payload or an object.
	Args json.RawMessage
	// Response is the final answer when Tool is empty.
	Response string
}

// Decision is the tagged result of Decode.
type Decision struct {
	Kind DecisionKind
	Plan Plan
	// Text is the stripped reply, set for DecisionPlainText.
	Text string
}

// Decode strips an enclosing code fence from reply and decodes it.
//
// A tool that is null, false, missing or the empty string means "no tool".
// A response that is not a string is kept as its JSON text.
func Decode(reply string) Decision {
	text := stripFences(reply)

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &fields); err != nil || fields == nil {
		return Decision{Kind: DecisionPlainText, Text: text}
	}

	return Decision{
		Kind: DecisionPlan,
		Plan: Plan{
			Tool:     toolName(fields["tool"]),
			Args:     fields["args"],
			Response: rawString(fields["response"]),
		},
		Text: text,
	}
}

// rawString returns a JSON string's value, "" for null or a missing value,
// and the JSON text of anything else.
func rawString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func toolName(raw json.RawMessage) string {
	if bytes.Equal(bytes.TrimSpace(raw), []byte("false")) {
		return ""
	}
	return rawString(raw)
}

// stripFences removes a ``` or ```json fence enclosing the whole reply.
func stripFences(reply string) string {
	text := strings.TrimSpace(reply)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	body := strings.TrimPrefix(text, "```")
	if len(body) >= 4 && strings.EqualFold(body[:4], "json") {
		if rest := strings.TrimLeft(body[4:], " \t"); rest == "" || strings.IndexByte("{[\r\n", rest[0]) >= 0 {
			body = rest
		}
	}
	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		// The rest of the opening line is a language tag.
		if tag := strings.TrimSpace(body[:nl]); !strings.ContainsAny(tag, "{[\"") {
			body = body[nl+1:]
		}
	}
	body = strings.TrimSuffix(strings.TrimSpace(body), "```")
	return strings.TrimSpace(body)
}
