package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/angeloszaimis/health-check/internal/healthcheck"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML:
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown report format %q", s)
	}
}

type Entry struct {
	URL      string `json:"url" yaml:"url"`
	Healthy  bool   `json:"healthy" yaml:"healthy"`
	Expected uint16 `json:"expected" yaml:"expected"`
	Actual   uint16 `json:"actual" yaml:"actual"`
	Error    string `json:"error,omitempty" yaml:"error,omitempty"`
}

type Summary struct {
	Total             int `json:"total" yaml:"total"`
	Healthy           int `json:"healthy" yaml:"healthy"`
	Unhealthy         int `json:"unhealthy" yaml:"unhealthy"`
	TransportFailures int `json:"transport_failures" yaml:"transport_failures"`
	Invalid           int `json:"invalid" yaml:"invalid"`
}

type Report struct {
	Completed  bool     `json:"completed" yaml:"completed"`
	AllHealthy bool     `json:"all_healthy" yaml:"all_healthy"`
	Summary    Summary  `json:"summary" yaml:"summary"`
	Endpoints  []Entry  `json:"endpoints" yaml:"endpoints"`
	Invalid    []string `json:"invalid,omitempty" yaml:"invalid,omitempty"`
}

// Build assembles the report of a finished batch. invalid holds the errors of
// descriptors rejected before evaluation.
func Build(results []healthcheck.Result, invalid []error) Report {
	s := healthcheck.Summarize(results)

	r := Report{
		Completed:  true,
		AllHealthy: s.AllHealthy && len(invalid) == 0,
		Summary: Summary{
			Total:             s.Total,
			Healthy:           s.Healthy,
			Unhealthy:         s.Unhealthy,
			TransportFailures: s.TransportFailures,
			Invalid:           len(invalid),
		},
		Endpoints: make([]Entry, 0, len(results)),
	}

	for _, res := range results {
		r.Endpoints = append(r.Endpoints, Entry{
			URL:      res.Endpoint.URL(),
			Healthy:  res.Healthy,
			Expected: res.Endpoint.ExpectedStatusCode(),
			Actual:   res.ActualStatusCode,
			Error:    res.Failure(),
		})
	}

	for _, err := range invalid {
		r.Invalid = append(r.Invalid, err.Error())
	}

	return r
}

func Write(w io.Writer, r Report, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	case FormatText, "":
		return writeText(w, r)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

func writeText(w io.Writer, r Report) error {
	var b strings.Builder

	for _, e := range r.Endpoints {
		fmt.Fprintf(&b, "%s\n", Line(e))
	}
	for _, msg := range r.Invalid {
		fmt.Fprintf(&b, "invalid: %s\n", msg)
	}

	fmt.Fprintf(&b, "summary: %d/%d healthy", r.Summary.Healthy, r.Summary.Total)
	if r.Summary.TransportFailures > 0 {
		fmt.Fprintf(&b, ", %d unreachable", r.Summary.TransportFailures)
	}
	if r.Summary.Invalid > 0 {
		fmt.Fprintf(&b, ", %d invalid", r.Summary.Invalid)
	}
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// Line renders one endpoint entry on a single line.
func Line(e Entry) string {
	actual := fmt.Sprintf("%d", e.Actual)
	if e.Error != "" {
		actual = "error: " + e.Error
	}

	return fmt.Sprintf("endpoint: %s, healthy: %t, expected: %d, actual: %s",
		e.URL, e.Healthy, e.Expected, actual)
}
