package instrumentation

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_ZeroValueIsNoop(t *testing.T) {
	ctx := context.Background()
	m := &Metrics{}

	// Should not panic
	m.RecordAPIOperation(ctx, ServiceClassroom, OperationList, StatusSuccess, time.Second)
	m.RecordOAuthAuth(ctx, OAuthResultSuccess)
	m.RecordOAuthTokenRefresh(ctx, OAuthResultFailure)
	m.RecordCard(ctx, "created")
	m.RecordAssignmentSkipped(ctx, "missing_due_date")

	var nilMetrics *Metrics
	nilMetrics.RecordCard(ctx, "exists")
}

func TestMetrics_Observe(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	provider, err := NewProvider(ctx, Config{
		ServiceName:       "test-service",
		Enabled:           true,
		MetricsExporter:   ExporterPrometheus,
		TraceSamplingRate: 1,
	})
	require.NoError(t, err)
	defer func() { _ = provider.Shutdown(ctx) }()

	m := provider.Metrics()

	assert.NoError(t, m.Observe(ctx, ServiceClassroom, OperationList, func() error { return nil }))

	boom := errors.New("boom")
	assert.ErrorIs(t, m.Observe(ctx, ServiceTrello, OperationCreate, func() error { return boom }), boom)

	families, err := provider.Gatherer().Gather()
	require.NoError(t, err)

	found := false
	for _, f := range families {
		if strings.HasPrefix(f.GetName(), "api_operations_total") {
			found = true
			assert.Len(t, f.GetMetric(), 2)
		}
	}
	assert.True(t, found, "api_operations_total should be exported")
}
