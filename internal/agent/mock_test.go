package agent

import (
	"context"
	"errors"

	"github.com/tmc/langchaingo/llms"

	"github.com/enzocage/Notion-Mediator/internal/backend"
)

// mockModel replays queued replies and records every request.
type mockModel struct {
	replies   []string
	errs      map[int]error
	raw       map[int]*llms.ContentResponse
	callCount int

	// CapturedMessages holds the messages of each GenerateContent call.
	CapturedMessages [][]llms.MessageContent
}

func newMockModel(replies ...string) *mockModel {
	return &mockModel{replies: replies, errs: map[int]error{}, raw: map[int]*llms.ContentResponse{}}
}

// failAt makes call n (zero-based) return err.
func (m *mockModel) failAt(n int, err error) *mockModel {
	m.errs[n] = err
	return m
}

// rawAt makes call n return resp as is.
func (m *mockModel) rawAt(n int, resp *llms.ContentResponse) *mockModel {
	m.raw[n] = resp
	return m
}

func (m *mockModel) GenerateContent(_ context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	n := m.callCount
	m.callCount++
	m.CapturedMessages = append(m.CapturedMessages, messages)

	if err, ok := m.errs[n]; ok {
		return nil, err
	}
	if resp, ok := m.raw[n]; ok {
		return resp, nil
	}
	if n >= len(m.replies) {
		return nil, errors.New("mock model: no more replies")
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: m.replies[n]}}}, nil
}

func (m *mockModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

// lastHuman returns the text of the last human message of call n.
func (m *mockModel) lastHuman(n int) string {
	msgs := m.CapturedMessages[n]
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == llms.ChatMessageTypeHuman {
			return msgs[i].Parts[0].(llms.TextContent).Text
		}
	}
	return ""
}

type backendCall struct {
	Op      string
	Alias   string
	Locator backend.Locator
	Text    string
}

// recordingBackend is an in-memory backend that records every call.
type recordingBackend struct {
	kind    backend.Kind
	content map[string]string
	calls   []backendCall
	err     error
}

func newRecordingBackend(kind backend.Kind) *recordingBackend {
	return &recordingBackend{kind: kind, content: map[string]string{"1": "", "2": ""}}
}

func (b *recordingBackend) Kind() backend.Kind { return b.kind }
func (b *recordingBackend) Aliases() []string  { return []string{"1", "2"} }

func (b *recordingBackend) Read(_ context.Context, alias string) (string, error) {
	b.calls = append(b.calls, backendCall{Op: "read", Alias: alias})
	if b.err != nil {
		return "", b.err
	}
	return b.content[alias], nil
}

func (b *recordingBackend) Append(_ context.Context, alias, text string) (string, error) {
	b.calls = append(b.calls, backendCall{Op: "append", Alias: alias, Text: text})
	if b.err != nil {
		return "", b.err
	}
	b.content[alias] += text
	return "Successfully appended text.", nil
}

func (b *recordingBackend) Update(_ context.Context, alias string, locator backend.Locator, text string) (string, error) {
	b.calls = append(b.calls, backendCall{Op: "update", Alias: alias, Locator: locator, Text: text})
	if b.err != nil {
		return "", b.err
	}
	return "Successfully updated.", nil
}
