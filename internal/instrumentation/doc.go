// Package instrumentation provides OpenTelemetry metrics and tracing for duesync.
//
// # Metrics
//
//   - api_operations_total / api_operation_duration_seconds: Classroom and
//     Trello calls by service, operation and status
//   - oauth_auth_total: interactive logins by result
//   - oauth_token_refresh_total: token refreshes by result
//   - cards_total: synced assignments by outcome (created, exists, partial)
//   - assignments_skipped_total: assignments excluded before syncing, by reason
//
// # Tracing
//
// Spans are created for each remote call (api.<service>.<operation>) and for
// the sync run as a whole.
//
// # Configuration
//
// Instrumentation is off unless INSTRUMENTATION_ENABLED=true. Other variables:
//   - METRICS_EXPORTER: prometheus (default), otlp, stdout
//   - TRACING_EXPORTER: none (default), otlp, stdout
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint for traces/metrics
//   - PUSHGATEWAY_URL: Pushgateway that receives the prometheus registry at shutdown
//
// The prometheus exporter never serves /metrics; its registry is pushed to
// PUSHGATEWAY_URL when the provider shuts down.
package instrumentation
