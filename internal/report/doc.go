// Package report renders health check results for the caller: an overall
// completion flag, summary counts and one record per endpoint with its URL,
// health, expected code and actual code or failure description.
package report
