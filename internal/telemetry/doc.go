// Package telemetry holds the process-wide observability setup:
//
//   - logging.go: slog handler selection and run-scoped loggers
//   - metrics.go: Prometheus collectors exported on /metrics
//   - tracing.go: OpenTelemetry spans around pipeline stages
package telemetry
