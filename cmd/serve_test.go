package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enzocage/Notion-Mediator/internal/server"
)

func TestParseCommaSeparatedList(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", nil},
		{",  , , ", nil},
		{"http://localhost:5173", []string{"http://localhost:5173"}},
		{"  http://localhost:5173  ,https://chat.example.com", []string{"http://localhost:5173", "https://chat.example.com"}},
		{",http://a,,http://b,", []string{"http://a", "http://b"}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseCommaSeparatedList(tt.input), "input %q", tt.input)
	}
}

func TestServeOptions(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		args        []string
		wantOrigins []string
		wantMetrics MetricsConfig
	}{
		{
			name:        "defaults",
			wantMetrics: MetricsConfig{Enabled: true, Addr: server.DefaultMetricsAddr},
		},
		{
			name: "environment",
			env: map[string]string{
				"CORS_ORIGINS":    "http://localhost:5173, https://chat.example.com",
				"METRICS_ENABLED": "false",
				"METRICS_ADDR":    ":9100",
			},
			wantOrigins: []string{"http://localhost:5173", "https://chat.example.com"},
			wantMetrics: MetricsConfig{Enabled: false, Addr: ":9100"},
		},
		{
			name: "flags override environment",
			env: map[string]string{
				"CORS_ORIGINS":    "http://env.example.com",
				"METRICS_ENABLED": "false",
			},
			args:        []string{"--cors-origins", "http://flag.example.com", "--metrics-enabled=true"},
			wantOrigins: []string{"http://flag.example.com"},
			wantMetrics: MetricsConfig{Enabled: true, Addr: server.DefaultMetricsAddr},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range []string{"CORS_ORIGINS", "METRICS_ENABLED", "METRICS_ADDR"} {
				t.Setenv(key, tt.env[key])
			}

			cmd := newServeCmd()
			require.NoError(t, cmd.Flags().Parse(tt.args))

			origins, metrics := serveOptions(cmd.Flags())
			assert.Equal(t, tt.wantOrigins, origins)
			assert.Equal(t, tt.wantMetrics, metrics)
		})
	}
}
