// Package logger builds the structured slog logger used across the health
// checker: JSON records in prod, human-readable text elsewhere.
package logger
