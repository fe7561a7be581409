package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/enzocage/Notion-Mediator/internal/backend"
	"github.com/enzocage/Notion-Mediator/internal/instrumentation"
)

// ErrUnknownTool is returned by Invoke for a name the registry does not hold.
var ErrUnknownTool = errors.New("unknown tool")

// Option configures registries built by NewRegistry and NewResolver.
type Option func(*options)

type options struct {
	metrics *instrumentation.Metrics
	audit   *instrumentation.AuditLogger
}

// WithMetrics records tool invocation metrics on m.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithAuditLogger writes audit records for mutating tools to al.
func WithAuditLogger(al *instrumentation.AuditLogger) Option {
	return func(o *options) { o.audit = al }
}

type tool struct {
	Descriptor
	schema *jsonschema.Schema
}

// Registry is the immutable tool catalog of one mode. It is safe for
// concurrent use.
type Registry struct {
	mode   backend.Kind
	tools  []*tool
	byName map[string]*tool
	opts   options
}

// NewRegistry builds the catalog for b: three tools per configured alias.
func NewRegistry(b backend.Backend, opts ...Option) (*Registry, error) {
	r := &Registry{
		mode:   b.Kind(),
		byName: make(map[string]*tool),
	}
	for _, opt := range opts {
		opt(&r.opts)
	}

	schema, err := compileSchema(updateSchema(LocatorKey(b.Kind())))
	if err != nil {
		return nil, fmt.Errorf("failed to build %s tools: %w", b.Kind(), err)
	}

	for _, alias := range b.Aliases() {
		for _, d := range describe(b, alias) {
			d.Backend = b
			d.Alias = alias

			t := &tool{Descriptor: d}
			if d.Arity == ArityUpdate {
				t.schema = schema
			}
			r.tools = append(r.tools, t)
			r.byName[d.Name] = t
		}
	}
	return r, nil
}

// Mode returns the mode the registry serves.
func (r *Registry) Mode() backend.Kind {
	return r.mode
}

// Tools returns the descriptors in catalog order.
func (r *Registry) Tools() []Descriptor {
	out := make([]Descriptor, len(r.tools))
	for i, t := range r.tools {
		out[i] = t.Descriptor
	}
	return out
}

// Lookup reports whether name is a tool of this registry.
func (r *Registry) Lookup(name string) (Descriptor, bool) {
	t, ok := r.byName[name]
	if !ok {
		return Descriptor{}, false
	}
	return t.Descriptor, true
}

// Invoke decodes rawArgs according to the tool's arity and runs the backend
// operation. Argument errors are returned like backend errors.
func (r *Registry) Invoke(ctx context.Context, name string, rawArgs json.RawMessage) (string, error) {
	t, ok := r.byName[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	return r.instrumented(ctx, t, rawArgs)
}

// call runs the tool and returns the output together with the locator and
// text it wrote, for auditing.
func (r *Registry) call(ctx context.Context, t *tool, rawArgs json.RawMessage) (out, locator, text string, err error) {
	switch t.Arity {
	case ArityRead:
		out, err = t.Backend.Read(ctx, t.Alias)
		return out, "", "", err

	case ArityAppend:
		text, err = appendText(rawArgs)
		if err != nil {
			return "", "", "", err
		}
		out, err = t.Backend.Append(ctx, t.Alias, text)
		return out, "", text, err

	case ArityUpdate:
		args, err := decodeUpdate(rawArgs, t.schema, LocatorKey(t.Kind()))
		if err != nil {
			return "", "", "", err
		}
		out, err = t.Backend.Update(ctx, t.Alias, args.Locator, args.Text)
		return out, string(args.Locator), args.Text, err

	default:
		return "", "", "", fmt.Errorf("tool %s has unsupported arity %q", t.Name, t.Arity)
	}
}

// Resolver maps mode names to registries. All registries are built by
// NewResolver; Resolve does no I/O.
type Resolver struct {
	registries map[backend.Kind]*Registry
}

// NewResolver builds one registry per backend. Backends of the same kind
// replace earlier ones.
func NewResolver(backends []backend.Backend, opts ...Option) (*Resolver, error) {
	r := &Resolver{registries: make(map[backend.Kind]*Registry, len(backends))}
	for _, b := range backends {
		reg, err := NewRegistry(b, opts...)
		if err != nil {
			return nil, err
		}
		r.registries[b.Kind()] = reg
	}
	return r, nil
}

// Resolve returns the registry for mode.
func (r *Resolver) Resolve(mode string) (*Registry, error) {
	kind, err := backend.ParseKind(mode)
	if err != nil {
		return nil, err
	}
	reg, ok := r.registries[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s is not configured", backend.ErrUnknownMode, kind)
	}
	return reg, nil
}

// Modes returns the configured modes in sorted order.
func (r *Resolver) Modes() []backend.Kind {
	out := make([]backend.Kind, 0, len(r.registries))
	for k := range r.registries {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
