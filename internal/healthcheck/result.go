package healthcheck

import (
	"time"

	"github.com/angeloszaimis/health-check/internal/endpoint"
)

// NoResponse is the status code recorded when no HTTP response was obtained.
const NoResponse uint16 = 0

// TransportError wraps the client error of a request that produced no response.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Result is the outcome of evaluating one descriptor.
type Result struct {
	Endpoint         endpoint.Descriptor
	Healthy          bool
	ActualStatusCode uint16
	Err              error
	Duration         time.Duration
	CheckedAt        time.Time
}

// Failure describes the transport failure, or returns "" if a response was
// received.
func (r Result) Failure() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// TransportFailed reports whether the check obtained no response at all.
func (r Result) TransportFailed() bool {
	return r.Err != nil
}

type Summary struct {
	Total             int
	Healthy           int
	Unhealthy         int
	TransportFailures int
	AllHealthy        bool
}

func Summarize(results []Result) Summary {
	s := Summary{Total: len(results)}

	for _, r := range results {
		if r.Healthy {
			s.Healthy++
			continue
		}
		s.Unhealthy++
		if r.TransportFailed() {
			s.TransportFailures++
		}
	}

	s.AllHealthy = s.Unhealthy == 0
	return s
}
