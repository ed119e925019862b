package endpoint

import (
	"fmt"
	"net/url"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	MinStatusCode = 100
	MaxStatusCode = 599
)

// Descriptor identifies an endpoint and the status code it must return to be
// considered healthy. The zero value is not a valid descriptor; use New.
type Descriptor struct {
	url                string
	expectedStatusCode uint16
}

// ValidationError is returned by New when the URL or the expected status code
// is rejected. The offending descriptor is never evaluated.
type ValidationError struct {
	URL   string
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid endpoint %q: %s: %v", e.URL, e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// New validates rawURL and expectedStatusCode and returns the descriptor.
func New(rawURL string, expectedStatusCode int) (Descriptor, error) {
	if err := validation.Validate(rawURL,
		validation.Required,
		validation.By(validateEndpointURL),
	); err != nil {
		return Descriptor{}, &ValidationError{URL: rawURL, Field: "url", Err: err}
	}

	if err := validation.Validate(expectedStatusCode,
		validation.Required,
		validation.Min(MinStatusCode),
		validation.Max(MaxStatusCode),
	); err != nil {
		return Descriptor{}, &ValidationError{URL: rawURL, Field: "expected_status_code", Err: err}
	}

	return Descriptor{
		url:                rawURL,
		expectedStatusCode: uint16(expectedStatusCode),
	}, nil
}

// MustNew is like New but panics on invalid input. Meant for tests and
// static tables.
func MustNew(rawURL string, expectedStatusCode int) Descriptor {
	d, err := New(rawURL, expectedStatusCode)
	if err != nil {
		panic(err)
	}
	return d
}

// URL returns the endpoint address as it was supplied.
func (d Descriptor) URL() string {
	return d.url
}

// ExpectedStatusCode returns the status code that marks the endpoint healthy.
func (d Descriptor) ExpectedStatusCode() uint16 {
	return d.expectedStatusCode
}

func (d Descriptor) Equal(other Descriptor) bool {
	return d == other
}

func (d Descriptor) String() string {
	return d.url + " (expect " + strconv.Itoa(int(d.expectedStatusCode)) + ")"
}

func validateEndpointURL(value interface{}) error {
	rawURL, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return validation.NewError("validation_invalid_url", "must be a valid URL")
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return validation.NewError("validation_invalid_scheme", "URL must use http or https scheme")
	}

	if parsedURL.Host == "" {
		return validation.NewError("validation_missing_host", "URL must have a host")
	}

	return nil
}
