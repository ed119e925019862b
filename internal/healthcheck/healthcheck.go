package healthcheck

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/angeloszaimis/health-check/internal/endpoint"
	"github.com/angeloszaimis/health-check/internal/metrics"
)

const maxDrainBytes = 64 << 10

// Evaluator performs the HTTP exchange for each descriptor. It is safe for
// sequential reuse; the underlying client keeps its connection pool between
// calls.
type Evaluator struct {
	client  *http.Client
	timeout time.Duration
	logger  *slog.Logger
	events  chan<- metrics.MetricEvent
}

type Option func(*Evaluator)

// WithClient replaces the default client. Its redirect policy and transport
// are used as is.
func WithClient(client *http.Client) Option {
	return func(e *Evaluator) {
		e.client = client
	}
}

// WithTimeout bounds every request. Zero leaves the transport default in place,
// which means no deadline.
func WithTimeout(timeout time.Duration) Option {
	return func(e *Evaluator) {
		e.timeout = timeout
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(e *Evaluator) {
		e.logger = logger
	}
}

// WithEvents makes the evaluator emit one metric event per check. Events are
// dropped when the channel is full.
func WithEvents(events chan<- metrics.MetricEvent) Option {
	return func(e *Evaluator) {
		e.events = events
	}
}

func NewEvaluator(opts ...Option) *Evaluator {
	e := &Evaluator{
		client: &http.Client{},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Evaluate sends one GET to the descriptor's URL and reports whether the
// response carried the expected status code. Transport failures are returned
// inside the result, never as an error.
func (e *Evaluator) Evaluate(ctx context.Context, d endpoint.Descriptor) Result {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	result := Result{
		Endpoint:  d,
		CheckedAt: time.Now(),
	}

	statusCode, err := e.do(ctx, d.URL())
	result.Duration = time.Since(result.CheckedAt)

	if err != nil {
		result.ActualStatusCode = NoResponse
		result.Err = &TransportError{URL: d.URL(), Err: err}

		e.logger.Warn("Endpoint unreachable",
			slog.String("url", d.URL()),
			slog.Int("expected", int(d.ExpectedStatusCode())),
			slog.String("error", err.Error()))

		e.emitEvent(metrics.MetricEvent{
			Type:      metrics.EventTransportFailure,
			Timestamp: result.CheckedAt,
			Endpoint:  d.String(),
			Duration:  result.Duration,
		})
		return result
	}

	result.ActualStatusCode = statusCode
	result.Healthy = statusCode == d.ExpectedStatusCode()

	if result.Healthy {
		e.logger.Debug("Endpoint healthy",
			slog.String("url", d.URL()),
			slog.Int("status", int(statusCode)),
			slog.Duration("duration", result.Duration))
	} else {
		e.logger.Warn("Endpoint returned unexpected status",
			slog.String("url", d.URL()),
			slog.Int("expected", int(d.ExpectedStatusCode())),
			slog.Int("actual", int(statusCode)))
	}

	e.emitEvent(metrics.MetricEvent{
		Type:       metrics.EventCheckCompleted,
		Timestamp:  result.CheckedAt,
		Endpoint:   d.String(),
		Duration:   result.Duration,
		StatusCode: int(statusCode),
		Healthy:    result.Healthy,
	})

	return result
}

// EvaluateBatch evaluates the descriptors one after another. The result at
// index i always belongs to descriptors[i].
func (e *Evaluator) EvaluateBatch(ctx context.Context, descriptors []endpoint.Descriptor) []Result {
	results := make([]Result, 0, len(descriptors))

	for _, d := range descriptors {
		results = append(results, e.Evaluate(ctx, d))
	}

	e.logger.Info("Health check batch completed",
		slog.Int("endpoints", len(results)),
		slog.Int("unhealthy", Summarize(results).Unhealthy))

	return results
}

func (e *Evaluator) do(ctx context.Context, rawURL string) (uint16, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return NoResponse, err
	}

	res, err := e.client.Do(req)
	if err != nil {
		return NoResponse, err
	}
	defer res.Body.Close()

	// drain so the connection can be reused by the next check
	_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, maxDrainBytes))

	return uint16(res.StatusCode), nil
}

func (e *Evaluator) emitEvent(event metrics.MetricEvent) {
	if e.events == nil {
		return
	}

	select {
	case e.events <- event:
	default:
	}
}
