// Package metrics aggregates health check outcomes per endpoint.
//
// It uses a channel-based event pipeline to asynchronously collect:
//   - Check counts per endpoint
//   - Transport failures (no response obtained)
//   - Response times with percentile calculations (P50, P95, P99)
//   - HTTP status code distribution
//   - Last observed health
//
// Metrics are keyed by the endpoint descriptor, so the same URL checked
// against two expected status codes is tracked twice.
//
// The collector runs in a dedicated goroutine. Producers send events with
// non-blocking semantics so that a slow collector never delays a check.
//
// Example usage:
//
//	collector := metrics.NewCollector(1000, logger)
//	collector.Start(ctx)
//
//	collector.EventChannel() <- metrics.MetricEvent{
//		Type:       metrics.EventCheckCompleted,
//		Endpoint:   "http://localhost:8081/health (expect 200)",
//		Duration:   150 * time.Millisecond,
//		StatusCode: 200,
//		Healthy:    true,
//	}
//
//	snapshot := collector.Snapshot()
//
// Remaining events are drained when the context is cancelled.
package metrics
