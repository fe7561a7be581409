// Package instrumentation provides OpenTelemetry metrics, tracing and audit
// logging for the mediator.
//
// # Metrics
//
// HTTP:
//   - http_requests_total: requests by method, route and status
//   - http_request_duration_seconds: request durations
//
// Model transport:
//   - llm_requests_total: model round-trips by provider and status
//   - llm_request_duration_seconds: round-trip durations
//
// Planner:
//   - agent_runs_total: runs by mode and outcome
//   - agent_run_rounds: rounds consumed per run
//
// Tools and documents:
//   - tool_invocations_total / tool_duration_seconds: tool calls by tool and status
//   - document_api_operations_total / document_api_operation_duration_seconds:
//     backend calls by backend, operation and status
//
// # Tracing
//
// Spans are created for a planner run (agent.run), each tool invocation
// (tool.<name>) and each document API call (<backend>.<operation>).
//
// # Configuration
//
// DefaultConfig reads:
//   - INSTRUMENTATION_ENABLED (default: true)
//   - METRICS_EXPORTER: prometheus, otlp, stdout (default: prometheus)
//   - TRACING_EXPORTER: otlp, stdout, none (default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT, OTEL_EXPORTER_OTLP_INSECURE
//   - OTEL_TRACES_SAMPLER_ARG (default: 0.1)
//   - OTEL_SERVICE_NAME (default: mediator)
//   - AUDIT_LOGGING_ENABLED, AUDIT_LOGGING_INCLUDE_CONTENT
//
// # Example Usage
//
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	recorder := provider.Metrics()
//	recorder.RecordDocumentOperation(ctx, "google", "append", "1", "success", time.Since(start))
package instrumentation
