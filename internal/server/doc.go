// Package server exposes the planner over HTTP.
//
// NewAPI builds an echo instance with two routes:
//
//	POST /api/chat    {"prompt": "...", "mode": "notion"|"google"} -> {"response": "..."}
//	GET  /api/config  configured document IDs and modes
//
// A missing or blank prompt, a malformed body and an unknown or
// unconfigured mode are answered with 400 and {"error": "..."}. Every chat
// reply carries the run ID in the X-Run-ID header; the same ID appears in
// the planner's logs and spans.
//
// The health endpoints (/healthz, /readyz, /healthz/detailed) are served on
// the API port. MetricsServer serves /metrics on a separate port so that
// operational metrics are not reachable through the public listener.
package server
