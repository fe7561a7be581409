package server

import (
	"context"
	"sync"

	"github.com/enzocage/Notion-Mediator/internal/tools"
)

// ServerContext holds the state shared by the HTTP handlers for the life of
// the process.
type ServerContext struct {
	ctx      context.Context
	cancel   context.CancelFunc
	resolver *tools.Resolver
	mu       sync.RWMutex
	shutdown bool
}

// NewServerContext creates a new server context. resolver may be nil, in
// which case no mode is served.
func NewServerContext(ctx context.Context, resolver *tools.Resolver) *ServerContext {
	shutdownCtx, cancel := context.WithCancel(ctx)
	return &ServerContext{
		ctx:      shutdownCtx,
		cancel:   cancel,
		resolver: resolver,
	}
}

// Context returns the server context. It is canceled by Shutdown.
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Modes returns the configured modes in sorted order.
func (sc *ServerContext) Modes() []string {
	if sc.resolver == nil {
		return []string{}
	}
	kinds := sc.resolver.Modes()
	out := make([]string, len(kinds))
	for i, k := range kinds {
		out[i] = string(k)
	}
	return out
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown marks the context as shut down and cancels it. It is safe to
// call more than once.
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
