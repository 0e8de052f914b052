// Package atlaserrors provides structured error types for oasatlas.
//
// These error types enable programmatic error handling via errors.Is() and
// errors.As(), allowing callers to distinguish between different categories
// of errors and implement appropriate recovery strategies.
//
// # Error Categories
//
//   - DocumentError: the primary document is malformed (not a mapping, no paths)
//   - FetchError: an HTTP fetch failed (spec download, docs schema)
//   - ProbeError: authenticating against or calling a live API failed
//
// Only DocumentError is fatal to a dataset build. Fetch failures for the
// docs-embedded schema are recoverable: the build proceeds without
// synthesized examples.
//
// # Usage with errors.Is
//
//	ds, err := b.Build(doc, schema)
//	if errors.Is(err, atlaserrors.ErrDocument) {
//	    // the input was not a usable OpenAPI document
//	}
package atlaserrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
// These allow quick checks without type assertions.
var (
	// ErrDocument indicates an invalid or malformed OpenAPI document.
	ErrDocument = errors.New("document error")

	// ErrFetch indicates an HTTP fetch failure.
	ErrFetch = errors.New("fetch error")

	// ErrProbe indicates an endpoint probing failure.
	ErrProbe = errors.New("probe error")
)

// DocumentError represents an input document that cannot be used as an
// OpenAPI source: not parseable, not a mapping, or missing the paths section.
type DocumentError struct {
	// Path is the file path or URL the document was loaded from
	Path string
	// Message describes what is wrong with the document
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *DocumentError) Error() string {
	msg := "document error"
	if e.Path != "" {
		msg += " in " + e.Path
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *DocumentError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *DocumentError) Is(target error) bool {
	return target == ErrDocument
}

// FetchError represents a failed HTTP fetch. Callers treat fetch failures
// for the docs-embedded schema as recoverable.
type FetchError struct {
	// URL is the URL that failed to fetch
	URL string
	// StatusCode is the HTTP status received (0 if the request never completed)
	StatusCode int
	// Message provides additional context about the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *FetchError) Error() string {
	msg := "fetch error"
	if e.URL != "" {
		msg += " for " + e.URL
	}
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *FetchError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *FetchError) Is(target error) bool {
	return target == ErrFetch
}

// ProbeError represents a failure while authenticating against or calling
// a live API during endpoint probing.
type ProbeError struct {
	// Operation identifies the probing step: "authenticate", "call", or "save"
	Operation string
	// Endpoint is the "{METHOD} {path}" identifier, when calling an endpoint
	Endpoint string
	// StatusCode is the HTTP status received (0 if the request never completed)
	StatusCode int
	// Message describes the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ProbeError) Error() string {
	msg := "probe error"
	if e.Operation != "" {
		msg += " during " + e.Operation
	}
	if e.Endpoint != "" {
		msg += " for " + e.Endpoint
	}
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ProbeError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ProbeError) Is(target error) bool {
	return target == ErrProbe
}
