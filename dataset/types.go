package dataset

import (
	"encoding/json"
	"fmt"

	"github.com/erraggy/oasatlas/document"
)

// Param describes one parameter of an endpoint, scoped to that endpoint.
type Param struct {
	// Name is the parameter name as declared in the source document
	Name string `json:"name"`
	// In is the declared location: "query", "path", or "header"
	In string `json:"in"`
	// Required reflects the declared required flag (false when absent)
	Required bool `json:"required"`
	// Description is the declared description, "" when absent
	Description string `json:"description"`
	// Schema is the raw schema payload, coerced to a JSON-safe form; nil
	// when the parameter declares no schema
	Schema any `json:"schema"`
}

// ResponseExample is one response's example value for an endpoint.
type ResponseExample struct {
	// Status is the response status code key, e.g. "200" or "default"
	Status string `json:"status"`
	// Description is the response description, "" when absent
	Description string `json:"description"`
	// Example is the example value (author-supplied or synthesized)
	Example any `json:"example"`
}

// Endpoint is a flattened record for one (method, path) operation.
// Records are created once during flattening and never mutated afterwards.
type Endpoint struct {
	// ID is the operationId when present and non-blank, else "{METHOD} {path}"
	ID string `json:"id"`
	// Method is the upper-case HTTP method
	Method string `json:"method"`
	// Path is the path template, e.g. "/v1/items/{id}"
	Path string `json:"path"`
	// Summary is the operation summary, "" when absent
	Summary string `json:"summary"`
	// Description is the operation description, "" when absent
	Description string `json:"description"`
	// Tags are the operation's tags in declaration order, duplicates kept
	Tags []string `json:"tags"`
	// QueryParams, PathParams, and HeaderParams partition the merged
	// path-level and operation-level parameters by declared location
	QueryParams  []Param `json:"queryParams"`
	PathParams   []Param `json:"pathParams"`
	HeaderParams []Param `json:"headerParams"`
	// ResponseExamples holds one entry per response that produced an example
	ResponseExamples []ResponseExample `json:"responseExamples"`
	// SchemaRefs is the sorted set of component schema names referenced by
	// any response of this operation
	SchemaRefs []string `json:"schemaRefs"`
}

// EdgeType is the relation kind that produced an edge.
type EdgeType string

const (
	// EdgeTypeTag connects endpoints sharing a tag
	EdgeTypeTag EdgeType = "tag"
	// EdgeTypeSchema connects endpoints referencing the same response schema
	EdgeTypeSchema EdgeType = "schema"
)

// Edge connects two endpoint IDs that share a grouping key. Direction is an
// artifact of lexicographic sort order and carries no semantics.
type Edge struct {
	Source string   `json:"source"`
	Target string   `json:"target"`
	Type   EdgeType `json:"type"`
	// Key is the tag name or schema name that produced the edge
	Key string `json:"key"`
}

// Dataset is the complete build output.
type Dataset struct {
	// Info is the source document's info object, coerced to a JSON-safe form
	Info any `json:"info"`
	// Endpoints holds one record per recognized operation, in source order
	Endpoints []Endpoint `json:"endpoints"`
	// Edges is the relationship graph over endpoint IDs
	Edges []Edge `json:"edges"`
}

// MarshalIndent serializes the dataset as pretty-printed JSON with two-space
// indentation, preserving non-ASCII characters.
func (d *Dataset) MarshalIndent() ([]byte, error) {
	return document.EncodeJSON(d)
}

// Unmarshal decodes a previously serialized dataset.
func Unmarshal(data []byte) (*Dataset, error) {
	var d Dataset
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("dataset: failed to decode: %w", err)
	}
	return &d, nil
}
