package main

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/angeloszaimis/health-check/config"
	"github.com/angeloszaimis/health-check/internal/endpoint"
)

var errNoEndpoints = errors.New("no endpoints configured")

// buildDescriptors validates the configured endpoints followed by the ones
// given on the command line. Invalid entries are logged and returned
// separately; they never stop the others from being checked.
func buildDescriptors(log *slog.Logger, configured []config.EndpointConfig, args []string) ([]endpoint.Descriptor, []error) {
	var (
		descriptors []endpoint.Descriptor
		invalid     []error
	)

	add := func(rawURL string, code int) {
		d, err := endpoint.New(rawURL, code)
		if err != nil {
			log.Error("Skipping invalid endpoint",
				slog.String("url", rawURL),
				slog.Int("expected", code),
				slog.String("error", err.Error()))
			invalid = append(invalid, err)
			return
		}
		descriptors = append(descriptors, d)
	}

	for _, ec := range configured {
		add(ec.URL, ec.StatusCode())
	}

	for _, arg := range args {
		rawURL, code := parseEndpointArg(arg)
		add(rawURL, code)
	}

	return descriptors, invalid
}

// parseEndpointArg splits "code=url". A URL starts with its scheme, so only
// a leading run of digits before the first "=" is taken as the status code;
// anything else is the URL with the default status code.
func parseEndpointArg(arg string) (string, int) {
	prefix, rawURL, found := strings.Cut(arg, "=")
	if !found || prefix == "" || strings.TrimLeft(prefix, "0123456789") != "" {
		return arg, config.DefaultExpectedStatusCode
	}

	code, err := strconv.Atoi(prefix)
	if err != nil {
		return arg, config.DefaultExpectedStatusCode
	}

	return rawURL, code
}
