// Package httpserver runs the status server of serve mode: an http.Server with
// a validated listen address, fixed timeouts and graceful shutdown.
package httpserver
