// Package httputil provides HTTP-related constants and helpers shared by the
// dataset builder and the endpoint prober.
package httputil

// HTTP method constants, in OpenAPI's lowercase operation-key form.
const (
	MethodGet     = "get"
	MethodPost    = "post"
	MethodPut     = "put"
	MethodPatch   = "patch"
	MethodDelete  = "delete"
	MethodHead    = "head"
	MethodOptions = "options"
)

// OperationMethods lists the recognized HTTP methods in the order operations
// are flattened into endpoint records.
var OperationMethods = []string{
	MethodGet,
	MethodPost,
	MethodPut,
	MethodPatch,
	MethodDelete,
	MethodHead,
	MethodOptions,
}

// SeedMethods lists the methods considered when choosing a seed operation
// for the docs-schema fetch.
var SeedMethods = []string{
	MethodGet,
	MethodPost,
	MethodPut,
	MethodPatch,
	MethodDelete,
}

// JSONMediaKeys lists JSON media types in preference order when choosing one
// media entry from a response's content mapping.
var JSONMediaKeys = []string{
	"application/json",
	"application/*+json",
}

// PreferredExampleStatuses lists response statuses, in fixed priority order,
// tried when synthesizing an example from the docs-embedded schema.
var PreferredExampleStatuses = []string{"200", "201", "202", "default"}

// SafeProbeMethods is the set of methods considered safe to call
// automatically against a live API.
var SafeProbeMethods = map[string]bool{
	"GET":     true,
	"HEAD":    true,
	"OPTIONS": true,
}

// IsSuccess reports whether an HTTP status code is in the 2xx range.
func IsSuccess(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}
