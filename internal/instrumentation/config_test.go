package instrumentation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	for _, k := range []string{"OTEL_SERVICE_NAME", "INSTRUMENTATION_ENABLED", "METRICS_EXPORTER", "TRACING_EXPORTER", "PUSHGATEWAY_URL", "OTEL_TRACES_SAMPLER_ARG"} {
		t.Setenv(k, "")
	}

	config := DefaultConfig()

	assert.Equal(t, "duesync", config.ServiceName)
	assert.False(t, config.Enabled, "instrumentation is opt-in for the CLI")
	assert.Equal(t, ExporterPrometheus, config.MetricsExporter)
	assert.Equal(t, ExporterNone, config.TracingExporter)
	assert.Equal(t, 1.0, config.TraceSamplingRate)
	assert.Equal(t, "duesync", config.PushJob)
	assert.Empty(t, config.PushgatewayURL)
}

func TestDefaultConfig_FromEnv(t *testing.T) {
	t.Setenv("OTEL_SERVICE_NAME", "test-service")
	t.Setenv("INSTRUMENTATION_ENABLED", "true")
	t.Setenv("METRICS_EXPORTER", "stdout")
	t.Setenv("TRACING_EXPORTER", "stdout")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "0.5")
	t.Setenv("PUSHGATEWAY_URL", "http://pushgateway:9091")

	config := DefaultConfig()

	assert.Equal(t, "test-service", config.ServiceName)
	assert.True(t, config.Enabled)
	assert.Equal(t, "stdout", config.MetricsExporter)
	assert.Equal(t, "stdout", config.TracingExporter)
	assert.Equal(t, 0.5, config.TraceSamplingRate)
	assert.Equal(t, "http://pushgateway:9091", config.PushgatewayURL)
}

func TestDefaultConfig_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("INSTRUMENTATION_ENABLED", "maybe")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "lots")

	config := DefaultConfig()

	assert.False(t, config.Enabled)
	assert.Equal(t, 1.0, config.TraceSamplingRate)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"valid defaults", Config{MetricsExporter: ExporterPrometheus, TracingExporter: ExporterNone, TraceSamplingRate: 1}, false},
		{"sampling rate too high", Config{TraceSamplingRate: 1.5}, true},
		{"sampling rate negative", Config{TraceSamplingRate: -0.1}, true},
		{"unknown metrics exporter", Config{MetricsExporter: "graphite"}, true},
		{"unknown tracing exporter", Config{TracingExporter: "jaeger"}, true},
		{"otlp tracing without endpoint", Config{TracingExporter: ExporterOTLP}, true},
		{"otlp metrics without endpoint", Config{MetricsExporter: ExporterOTLP}, true},
		{"otlp with endpoint", Config{MetricsExporter: ExporterOTLP, TracingExporter: ExporterOTLP, OTLPEndpoint: "localhost:4318"}, false},
		{"pushgateway with stdout exporter", Config{MetricsExporter: ExporterStdout, PushgatewayURL: "http://pg:9091"}, true},
		{"pushgateway with prometheus", Config{MetricsExporter: ExporterPrometheus, PushgatewayURL: "http://pg:9091"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
