package main

import (
	"net/http"

	"github.com/angeloszaimis/health-check/internal/handler"
	"github.com/angeloszaimis/health-check/internal/metrics"
)

func setupRouter(statusHandler *handler.StatusHandler, metricsCollector *metrics.Collector) *http.ServeMux {
	mux := http.NewServeMux()

	mux.Handle("/health", statusHandler)
	mux.HandleFunc("/metrics", metricsCollector.Handler())

	return mux
}
