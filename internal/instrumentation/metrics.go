package instrumentation

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	attrStatus    = "status"
	attrOperation = "operation"
	attrService   = "service"
	attrResult    = "result"
	attrOutcome   = "outcome"
	attrReason    = "reason"
)

// Metrics records duesync's metrics. The zero value is a no-op recorder,
// which is what a disabled Provider hands out.
type Metrics struct {
	apiOperationsTotal   metric.Int64Counter
	apiOperationDuration metric.Float64Histogram

	oauthAuthTotal         metric.Int64Counter
	oauthTokenRefreshTotal metric.Int64Counter

	cardsTotal              metric.Int64Counter
	assignmentsSkippedTotal metric.Int64Counter
}

// NewMetrics creates a new Metrics instance with all instruments initialized.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	m.apiOperationsTotal, err = meter.Int64Counter(
		"api_operations_total",
		metric.WithDescription("Total number of remote API operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create api_operations_total counter: %w", err)
	}

	m.apiOperationDuration, err = meter.Float64Histogram(
		"api_operation_duration_seconds",
		metric.WithDescription("Remote API operation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create api_operation_duration_seconds histogram: %w", err)
	}

	m.oauthAuthTotal, err = meter.Int64Counter(
		"oauth_auth_total",
		metric.WithDescription("Total number of interactive OAuth logins"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create oauth_auth_total counter: %w", err)
	}

	m.oauthTokenRefreshTotal, err = meter.Int64Counter(
		"oauth_token_refresh_total",
		metric.WithDescription("Total number of OAuth token refresh attempts"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create oauth_token_refresh_total counter: %w", err)
	}

	m.cardsTotal, err = meter.Int64Counter(
		"cards_total",
		metric.WithDescription("Cards processed by outcome (created, exists, partial)"),
		metric.WithUnit("{card}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create cards_total counter: %w", err)
	}

	m.assignmentsSkippedTotal, err = meter.Int64Counter(
		"assignments_skipped_total",
		metric.WithDescription("Assignments excluded before syncing, by reason"),
		metric.WithUnit("{assignment}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create assignments_skipped_total counter: %w", err)
	}

	return m, nil
}

// RecordAPIOperation records a Classroom or Trello call.
//
// Parameters:
//   - service: ServiceClassroom or ServiceTrello
//   - operation: OperationList, OperationCreate or OperationUpdate
//   - status: StatusSuccess or StatusError
func (m *Metrics) RecordAPIOperation(ctx context.Context, service, operation, status string, duration time.Duration) {
	if m == nil || m.apiOperationsTotal == nil || m.apiOperationDuration == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(attrService, service),
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	)
	m.apiOperationsTotal.Add(ctx, 1, attrs)
	m.apiOperationDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordOAuthAuth records an interactive login with its result.
func (m *Metrics) RecordOAuthAuth(ctx context.Context, result string) {
	if m == nil || m.oauthAuthTotal == nil {
		return
	}
	m.oauthAuthTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrResult, result)))
}

// RecordOAuthTokenRefresh records a token refresh with its result.
func (m *Metrics) RecordOAuthTokenRefresh(ctx context.Context, result string) {
	if m == nil || m.oauthTokenRefreshTotal == nil {
		return
	}
	m.oauthTokenRefreshTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrResult, result)))
}

// RecordCard records the outcome of syncing one assignment to a card.
func (m *Metrics) RecordCard(ctx context.Context, outcome string) {
	if m == nil || m.cardsTotal == nil {
		return
	}
	m.cardsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrOutcome, outcome)))
}

// RecordAssignmentSkipped records an assignment dropped by normalization.
func (m *Metrics) RecordAssignmentSkipped(ctx context.Context, reason string) {
	if m == nil || m.assignmentsSkippedTotal == nil {
		return
	}
	m.assignmentsSkippedTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrReason, reason)))
}

// Observe times fn as an API operation and records its result. It returns
// fn's error unchanged.
func (m *Metrics) Observe(ctx context.Context, service, operation string, fn func() error) error {
	start := time.Now()
	err := fn()
	status := StatusSuccess
	if err != nil {
		status = StatusError
	}
	m.RecordAPIOperation(ctx, service, operation, status, time.Since(start))
	return err
}
