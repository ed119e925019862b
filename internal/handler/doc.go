// Package handler implements the HTTP status endpoint of serve mode. Each
// request runs the configured batch of checks and answers with the report.
package handler
