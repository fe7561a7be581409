package tools

import (
	"context"
	"fmt"

	"github.com/enzocage/Notion-Mediator/internal/backend"
)

// call is one recorded backend operation.
type call struct {
	Op      string
	Alias   string
	Locator backend.Locator
	Text    string
}

// fakeBackend records calls and answers with canned output.
type fakeBackend struct {
	kind    backend.Kind
	aliases []string
	calls   []call
	err     error
}

func (f *fakeBackend) Kind() backend.Kind { return f.kind }
func (f *fakeBackend) Aliases() []string  { return f.aliases }

func (f *fakeBackend) Read(_ context.Context, alias string) (string, error) {
	f.calls = append(f.calls, call{Op: "read", Alias: alias})
	if f.err != nil {
		return "", f.err
	}
	return fmt.Sprintf("content of %s", alias), nil
}

func (f *fakeBackend) Append(_ context.Context, alias, text string) (string, error) {
	f.calls = append(f.calls, call{Op: "append", Alias: alias, Text: text})
	if f.err != nil {
		return "", f.err
	}
	return "Successfully appended text.", nil
}

func (f *fakeBackend) Update(_ context.Context, alias string, locator backend.Locator, text string) (string, error) {
	f.calls = append(f.calls, call{Op: "update", Alias: alias, Locator: locator, Text: text})
	if f.err != nil {
		return "", f.err
	}
	return "Successfully updated.", nil
}
