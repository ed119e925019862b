package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/angeloszaimis/health-check/internal/endpoint"
	"github.com/angeloszaimis/health-check/internal/healthcheck"
	"github.com/angeloszaimis/health-check/internal/report"
)

type StatusHandler struct {
	logger      *slog.Logger
	evaluator   *healthcheck.Evaluator
	descriptors []endpoint.Descriptor
	invalid     []error
	limiter     *rate.Limiter
	minInterval time.Duration

	// evaluator's client is only used sequentially
	mutex sync.Mutex
}

// NewStatusHandler serves the health of descriptors. Batches are started at
// most once per minInterval; zero disables throttling.
func NewStatusHandler(logger *slog.Logger, evaluator *healthcheck.Evaluator, descriptors []endpoint.Descriptor, invalid []error, minInterval time.Duration) *StatusHandler {
	limit := rate.Inf
	if minInterval > 0 {
		limit = rate.Every(minInterval)
	}

	return &StatusHandler{
		logger:      logger,
		evaluator:   evaluator,
		descriptors: descriptors,
		invalid:     invalid,
		limiter:     rate.NewLimiter(limit, 1),
		minInterval: minInterval,
	}
}

func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if !h.limiter.Allow() {
		h.logger.Warn("Health check throttled",
			slog.String("from", r.RemoteAddr),
			slog.Duration("min_interval", h.minInterval))
		w.Header().Set("Retry-After", strconv.Itoa(int(h.minInterval.Round(time.Second).Seconds())))
		http.Error(w, "health check requested too often", http.StatusTooManyRequests)
		return
	}

	h.mutex.Lock()
	results := h.evaluator.EvaluateBatch(r.Context(), h.descriptors)
	h.mutex.Unlock()

	rep := report.Build(results, h.invalid)

	status := http.StatusOK
	if !rep.AllHealthy {
		status = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(rep); err != nil {
		h.logger.Error("Failed to write health report", slog.Any("err", err))
	}
}
