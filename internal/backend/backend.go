package backend

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Kind identifies a backend variant. It doubles as the mode name requested
// by callers.
type Kind string

const (
	KindNotion Kind = "notion"
	KindGoogle Kind = "google"
)

// ParseKind returns the Kind named by s.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindNotion, KindGoogle:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

var (
	ErrUnknownMode     = errors.New("unknown mode")
	ErrUnknownAlias    = errors.New("unknown document alias")
	ErrLocatorNotFound = errors.New("locator not found")
	ErrAccessDenied    = errors.New("access denied")
	ErrInvalidLocator  = errors.New("invalid locator")
)

// Locator addresses one replaceable part of a document.
type Locator string

// Index interprets the locator as a zero-based paragraph index.
func (l Locator) Index() (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(string(l)))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %q is not a paragraph index", ErrInvalidLocator, string(l))
	}
	return n, nil
}

// Backend is the narrow document capability the planner depends on.
//
// Aliases are the short document names ("1", "2") bound to configured
// document IDs. All methods are safe for concurrent use.
type Backend interface {
	Kind() Kind
	Aliases() []string
	Read(ctx context.Context, alias string) (string, error)
	Append(ctx context.Context, alias, text string) (string, error)
	Update(ctx context.Context, alias string, locator Locator, text string) (string, error)
}

// Documents maps aliases to remote document IDs.
type Documents map[string]string

// Resolve returns the document ID for alias.
func (d Documents) Resolve(alias string) (string, error) {
	id, ok := d[alias]
	if !ok || id == "" {
		return "", fmt.Errorf("%w: %s", ErrUnknownAlias, alias)
	}
	return id, nil
}

// Aliases returns the configured aliases in sorted order.
func (d Documents) Aliases() []string {
	out := make([]string, 0, len(d))
	for alias, id := range d {
		if id != "" {
			out = append(out, alias)
		}
	}
	slices.Sort(out)
	return out
}
