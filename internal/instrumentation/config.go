package instrumentation

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/viper"
)

// Exporter names accepted by Config.
const (
	ExporterPrometheus = "prometheus"
	ExporterOTLP       = "otlp"
	ExporterStdout     = "stdout"
	ExporterNone       = "none"
)

// Metric label values.
const (
	StatusSuccess  = "success"
	StatusError    = "error"
	StatusCanceled = "canceled"

	BackendNotion = "notion"
	BackendGoogle = "google"
)

var (
	metricsExporters = []string{ExporterPrometheus, ExporterOTLP, ExporterStdout}
	tracingExporters = []string{ExporterOTLP, ExporterStdout, ExporterNone}
)

// Config controls which telemetry the mediator emits and where it goes.
type Config struct {
	ServiceName    string
	ServiceVersion string
	// ServiceInstanceID falls back to the hostname when empty.
	ServiceInstanceID string

	// Enabled turns metrics and tracing on. Audit logging is configured
	// separately and works either way.
	Enabled bool

	MetricsExporter string
	TracingExporter string

	// OTLPEndpoint is a host:port without scheme, e.g. "localhost:4318".
	OTLPEndpoint string
	// OTLPInsecure disables TLS towards the collector. Development only.
	OTLPInsecure bool

	TraceSamplingRate float64

	PrometheusEndpoint string

	// DetailedLabels adds the document alias to document API metrics.
	DetailedLabels bool

	AuditLogging AuditLoggingConfig
}

// AuditLoggingConfig controls the audit trail of document writes.
type AuditLoggingConfig struct {
	Enabled bool

	// IncludeContent adds the locator and an excerpt of the written text to
	// audit records. Document text may be sensitive.
	IncludeContent bool

	// LogLevel is one of debug, info, warn, error.
	LogLevel string
}

// instrumentationDefaults maps environment variable names to their defaults.
var instrumentationDefaults = map[string]any{
	"OTEL_SERVICE_NAME":             "mediator",
	"OTEL_SERVICE_INSTANCE_ID":      "",
	"INSTRUMENTATION_ENABLED":       true,
	"METRICS_EXPORTER":              ExporterPrometheus,
	"TRACING_EXPORTER":              ExporterNone,
	"OTEL_EXPORTER_OTLP_ENDPOINT":   "",
	"OTEL_EXPORTER_OTLP_INSECURE":   false,
	"OTEL_TRACES_SAMPLER_ARG":       0.1,
	"PROMETHEUS_ENDPOINT":           "/metrics",
	"METRICS_DETAILED_LABELS":       false,
	"AUDIT_LOGGING_ENABLED":         true,
	"AUDIT_LOGGING_INCLUDE_CONTENT": false,
	"AUDIT_LOGGING_LEVEL":           "info",
}

// DefaultConfig reads the instrumentation settings from the environment.
// Unset or empty variables keep their defaults.
func DefaultConfig() Config {
	v := viper.New()
	for key, def := range instrumentationDefaults {
		v.SetDefault(key, def)
		_ = v.BindEnv(key)
	}

	return Config{
		ServiceName:        v.GetString("OTEL_SERVICE_NAME"),
		ServiceVersion:     "unknown",
		ServiceInstanceID:  v.GetString("OTEL_SERVICE_INSTANCE_ID"),
		Enabled:            v.GetBool("INSTRUMENTATION_ENABLED"),
		MetricsExporter:    strings.ToLower(v.GetString("METRICS_EXPORTER")),
		TracingExporter:    strings.ToLower(v.GetString("TRACING_EXPORTER")),
		OTLPEndpoint:       v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
		OTLPInsecure:       v.GetBool("OTEL_EXPORTER_OTLP_INSECURE"),
		TraceSamplingRate:  v.GetFloat64("OTEL_TRACES_SAMPLER_ARG"),
		PrometheusEndpoint: v.GetString("PROMETHEUS_ENDPOINT"),
		DetailedLabels:     v.GetBool("METRICS_DETAILED_LABELS"),
		AuditLogging: AuditLoggingConfig{
			Enabled:        v.GetBool("AUDIT_LOGGING_ENABLED"),
			IncludeContent: v.GetBool("AUDIT_LOGGING_INCLUDE_CONTENT"),
			LogLevel:       v.GetString("AUDIT_LOGGING_LEVEL"),
		},
	}
}

// Validate rejects settings NewProvider cannot honor. Empty exporter names
// are left to NewProvider.
func (c *Config) Validate() error {
	if c.TraceSamplingRate < 0 || c.TraceSamplingRate > 1 {
		return fmt.Errorf("trace sampling rate must be between 0.0 and 1.0, got %f", c.TraceSamplingRate)
	}
	if c.MetricsExporter != "" && !slices.Contains(metricsExporters, c.MetricsExporter) {
		return fmt.Errorf("invalid metrics exporter %q, must be one of: %s", c.MetricsExporter, strings.Join(metricsExporters, ", "))
	}
	if c.TracingExporter != "" && !slices.Contains(tracingExporters, c.TracingExporter) {
		return fmt.Errorf("invalid tracing exporter %q, must be one of: %s", c.TracingExporter, strings.Join(tracingExporters, ", "))
	}
	if c.OTLPEndpoint == "" {
		if c.TracingExporter == ExporterOTLP {
			return fmt.Errorf("OTLP endpoint is required when using OTLP tracing exporter")
		}
		if c.MetricsExporter == ExporterOTLP {
			return fmt.Errorf("OTLP endpoint is required when using OTLP metrics exporter")
		}
	}
	return nil
}
