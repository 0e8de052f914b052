// Package dataset builds a normalized, graph-annotated endpoint dataset from
// an OpenAPI document.
//
// The builder flattens every recognized operation into an Endpoint record,
// extracts or synthesizes one example per response, collects referenced
// component schema names, and derives a relationship graph over endpoints
// that share tags or response schemas. Building is a pure function of its
// inputs: no network calls, no mutation of the source documents, and
// byte-identical output for identical inputs.
package dataset

import (
	"sort"
	"strings"

	"github.com/erraggy/oasatlas/atlaserrors"
	"github.com/erraggy/oasatlas/document"
	"github.com/erraggy/oasatlas/internal/httputil"
)

// Builder builds endpoint datasets from OpenAPI documents.
type Builder struct {
	// Logger is the structured logger for debug output.
	// If nil, logging is disabled (default).
	Logger Logger
	// MaxDepth overrides the example synthesis recursion cap.
	// Zero means the default of 6.
	MaxDepth int
}

// New creates a new Builder with default settings.
func New() *Builder {
	return &Builder{}
}

// log returns the configured logger, or a no-op logger if none is set.
func (b *Builder) log() Logger {
	if b.Logger != nil {
		return b.Logger
	}
	return NopLogger{}
}

// Build flattens the primary document into a Dataset. docsSchema is the
// optional docs-embedded schema document used only to synthesize response
// examples for operations whose published spec has none; nil skips synthesis.
//
// The only fatal condition is a primary document that is not a mapping with
// a paths mapping. Everything else (missing docs schema, unresolvable refs,
// cyclic schemas) degrades to endpoints without examples.
func (b *Builder) Build(primary *document.Document, docsSchema *document.Map) (*Dataset, error) {
	if err := primary.Require(); err != nil {
		return nil, err
	}
	root := primary.Root
	paths := root.Map("paths")
	if paths == nil {
		return nil, &atlaserrors.DocumentError{Path: primary.SourcePath, Message: "paths is not a mapping"}
	}

	docsPaths := docsSchema.Map("paths")
	docsSchemas := docsSchema.Map("components").Map("schemas")
	examples := newExampleBuilder(docsSchemas, b.MaxDepth, b.log())

	endpoints := make([]Endpoint, 0)
	tagGroups := make(map[string]map[string]bool)
	schemaGroups := make(map[string]map[string]bool)

	for _, path := range paths.Keys() {
		pathItem := paths.Map(path)
		if pathItem == nil {
			continue
		}
		commonParams := paramMaps(pathItem)

		for _, method := range httputil.OperationMethods {
			op := pathItem.Map(method)
			if op == nil {
				continue
			}

			ep := b.flattenOperation(path, method, op, commonParams, docsPaths, examples)
			endpoints = append(endpoints, ep)

			for _, tag := range ep.Tags {
				addToGroup(tagGroups, tag, ep.ID)
			}
			for _, name := range ep.SchemaRefs {
				addToGroup(schemaGroups, name, ep.ID)
			}
		}
	}

	edges := chainEdges(tagGroups, EdgeTypeTag)
	edges = append(edges, chainEdges(schemaGroups, EdgeTypeSchema)...)

	var info any = document.NewMap()
	if root.Has("info") {
		info = document.JSONSafe(root.Value("info"))
	}

	b.log().Debug("dataset built", "endpoints", len(endpoints), "edges", len(edges))
	return &Dataset{Info: info, Endpoints: endpoints, Edges: edges}, nil
}

// flattenOperation produces the Endpoint record for one (method, path) pair.
func (b *Builder) flattenOperation(path, method string, op *document.Map, commonParams []*document.Map, docsPaths *document.Map, examples *exampleBuilder) Endpoint {
	id := op.String("operationId")
	if strings.TrimSpace(id) == "" {
		id = strings.ToUpper(method) + " " + path
	}

	tags := make([]string, 0)
	for _, v := range op.Slice("tags") {
		if tag, ok := v.(string); ok {
			tags = append(tags, tag)
		}
	}

	merged := append(append(make([]*document.Map, 0, len(commonParams)), commonParams...), paramMaps(op)...)

	queryParams := make([]Param, 0)
	pathParams := make([]Param, 0)
	headerParams := make([]Param, 0)
	for _, p := range merged {
		whereValue, _ := p.Get("in")
		where, whereOK := whereValue.(string)
		nameValue, _ := p.Get("name")
		name, nameOK := nameValue.(string)
		if !whereOK || !nameOK {
			continue
		}

		item := Param{
			Name:        name,
			In:          where,
			Required:    truthy(p.Value("required")),
			Description: p.String("description"),
		}
		if p.Has("schema") {
			item.Schema = document.JSONSafe(p.Value("schema"))
		}

		switch where {
		case "query":
			queryParams = append(queryParams, item)
		case "path":
			pathParams = append(pathParams, item)
		case "header":
			headerParams = append(headerParams, item)
		}
	}

	responses := op.Map("responses")
	responseExamples := make([]ResponseExample, 0)
	refs := make(map[string]bool)

	for _, status := range responses.Keys() {
		resp := responses.Map(status)
		if resp == nil {
			continue
		}

		example := pickResponseExample(resp)

		if content := resp.Map("content"); content != nil {
			for _, mediaKey := range content.Keys() {
				if schema := content.Map(mediaKey).Map("schema"); schema != nil {
					collectSchemaRefs(schema, refs)
				}
			}
		}

		if example != nil {
			responseExamples = append(responseExamples, ResponseExample{
				Status:      status,
				Description: resp.String("description"),
				Example:     document.JSONSafe(example),
			})
		}
	}

	// The published spec carried no example for any status: synthesize one
	// from the docs-embedded schema for the same (path, method), if present.
	if len(responseExamples) == 0 && docsPaths != nil {
		if synthesized, ok := b.synthesizeExample(path, method, docsPaths, examples); ok {
			responseExamples = append(responseExamples, synthesized)
		}
	}

	schemaRefs := make([]string, 0, len(refs))
	for name := range refs {
		schemaRefs = append(schemaRefs, name)
	}
	sort.Strings(schemaRefs)

	return Endpoint{
		ID:               id,
		Method:           strings.ToUpper(method),
		Path:             path,
		Summary:          op.String("summary"),
		Description:      op.String("description"),
		Tags:             tags,
		QueryParams:      queryParams,
		PathParams:       pathParams,
		HeaderParams:     headerParams,
		ResponseExamples: responseExamples,
		SchemaRefs:       schemaRefs,
	}
}

// synthesizeExample looks up (path, method) in the docs-embedded schema,
// chooses a response by fixed status preference, and synthesizes an example
// from its media schema. Degenerately empty results are reported as absent.
func (b *Builder) synthesizeExample(path, method string, docsPaths *document.Map, examples *exampleBuilder) (ResponseExample, bool) {
	docsOp := docsPaths.Map(path).Map(method)
	if docsOp == nil {
		return ResponseExample{}, false
	}
	docsResponses := docsOp.Map("responses")

	var chosenStatus string
	var chosenResp *document.Map
	for _, status := range httputil.PreferredExampleStatuses {
		if resp := docsResponses.Map(status); resp != nil {
			chosenStatus, chosenResp = status, resp
			break
		}
	}
	if chosenResp == nil {
		for _, status := range docsResponses.Keys() {
			if resp := docsResponses.Map(status); resp != nil {
				chosenStatus, chosenResp = status, resp
				break
			}
		}
	}
	if chosenResp == nil {
		return ResponseExample{}, false
	}

	schema := mediaSchema(chosenResp)
	if schema == nil {
		return ResponseExample{}, false
	}

	example := examples.build(schema, 0)
	if isDegenerate(example) {
		b.log().Debug("discarded degenerate synthesized example", "path", path, "method", method)
		return ResponseExample{}, false
	}

	if chosenStatus == "" {
		chosenStatus = "200"
	}
	return ResponseExample{
		Status:      chosenStatus,
		Description: chosenResp.String("description"),
		Example:     document.JSONSafe(example),
	}, true
}

// chooseMedia picks one media entry from a content mapping: JSON media types
// in preference order, else the first entry in source order. Returns nil when
// the chosen entry is not a mapping.
func chooseMedia(content *document.Map) *document.Map {
	for _, key := range httputil.JSONMediaKeys {
		if v, ok := content.Get(key); ok {
			m, _ := v.(*document.Map)
			return m
		}
	}
	_, first, ok := content.First()
	if !ok {
		return nil
	}
	m, _ := first.(*document.Map)
	return m
}

// pickResponseExample extracts an author-supplied example from a response:
// the chosen media's inline example, else the first entry of its examples
// mapping. Returns nil when no example is present.
func pickResponseExample(resp *document.Map) any {
	content := resp.Map("content")
	if content == nil {
		return nil
	}
	media := chooseMedia(content)
	if media == nil {
		return nil
	}

	if v, ok := media.Get("example"); ok {
		return v
	}

	examples := media.Map("examples")
	if examples.Len() > 0 {
		// First entry in source order wins, not alphabetical.
		if _, first, ok := examples.First(); ok {
			if fm, isMap := first.(*document.Map); isMap && fm.Has("value") {
				return fm.Value("value")
			}
		}
	}
	return nil
}

// mediaSchema extracts the chosen media entry's schema from a response.
func mediaSchema(resp *document.Map) *document.Map {
	content := resp.Map("content")
	if content == nil {
		return nil
	}
	return chooseMedia(content).Map("schema")
}

// paramMaps returns the mapping-valued entries of a node's parameters list.
func paramMaps(node *document.Map) []*document.Map {
	raw := node.Slice("parameters")
	params := make([]*document.Map, 0, len(raw))
	for _, v := range raw {
		if p, ok := v.(*document.Map); ok {
			params = append(params, p)
		}
	}
	return params
}

// truthy converts a declared flag value to a bool: explicit booleans are
// taken as-is, and other scalar values follow truthiness (non-empty, non-zero).
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case int:
		return t != 0
	case int64:
		return t != 0
	case float64:
		return t != 0
	case *document.Map:
		return t.Len() > 0
	case []any:
		return len(t) > 0
	default:
		return true
	}
}
