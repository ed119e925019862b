// Mockservice is a small HTTP server to try the health checker against.
//
// Usage:
//
//	go run ./scripts/mockservice -port 8081
//
// Routes:
//
//	/health          always 200
//	/status/{code}   answers with the given status code
//	/redirect        301 to /health
//	/slow?delay=3s   waits before answering 200
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/angeloszaimis/health-check/pkg/logger"
)

func newMux(log *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("GET /status/{code}", func(w http.ResponseWriter, r *http.Request) {
		code, err := strconv.Atoi(r.PathValue("code"))
		if err != nil || code < 100 || code > 599 {
			http.Error(w, "invalid status code", http.StatusBadRequest)
			return
		}
		w.WriteHeader(code)
	})

	mux.HandleFunc("GET /redirect", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/health", http.StatusMovedPermanently)
	})

	mux.HandleFunc("GET /slow", func(w http.ResponseWriter, r *http.Request) {
		delay, err := time.ParseDuration(r.URL.Query().Get("delay"))
		if err != nil {
			delay = 3 * time.Second
		}

		select {
		case <-time.After(delay):
			w.WriteHeader(http.StatusOK)
		case <-r.Context().Done():
		}
	})

	return logRequests(log, mux)
}

func logRequests(log *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Info("Received request",
			slog.String("from", r.RemoteAddr),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("user_agent", r.UserAgent()))
		next.ServeHTTP(w, r)
	})
}

func main() {
	port := flag.Int("port", 8081, "port to listen on")
	flag.Parse()

	log := logger.New(os.Stderr, "info", false, "dev")

	addr := fmt.Sprintf(":%d", *port)
	log.Info("Starting mock service", slog.String("address", addr))
	if err := http.ListenAndServe(addr, newMux(log)); err != nil {
		log.Error("Mock service failed", slog.Any("err", err))
		os.Exit(1)
	}
}
