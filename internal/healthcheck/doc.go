// Package healthcheck evaluates endpoint descriptors with a single HTTP GET
// each and classifies the outcome. Transport failures are reported inside the
// result with status code 0 and never abort a batch.
package healthcheck
