// Package endpoint defines the descriptor of an HTTP endpoint whose health is
// checked: its absolute URL and the status code it is expected to answer with.
// Descriptors are validated when they are built and are immutable afterwards.
package endpoint
