package instrumentation

import (
	"context"
	"errors"
)

// Cardinality helpers keep label values drawn from small, fixed sets.
// Raw request paths, document IDs and error strings must never become
// label values.

// RouteLabel returns the label used for an HTTP route. Requests that matched
// no route share a single value.
//
// Example:
//
//	RouteLabel("/api/chat")  // "/api/chat"
//	RouteLabel("")           // "unmatched"
func RouteLabel(route string) string {
	if route == "" {
		return "unmatched"
	}
	return route
}

// StatusFromError maps an operation result to a status label.
func StatusFromError(err error) string {
	switch {
	case err == nil:
		return StatusSuccess
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return StatusCanceled
	default:
		return StatusError
	}
}

// Document operation types.
// Status, backend, and exporter constants are defined in config.go.
const (
	OperationRead   = "read"
	OperationAppend = "append"
	OperationUpdate = "update"
)
