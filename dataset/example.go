package dataset

import "github.com/erraggy/oasatlas/document"

// defaultMaxDepth is the synthesis recursion cap. Self-referential schemas
// bottom out as nil instead of recursing without bound.
const defaultMaxDepth = 6

// exampleBuilder synthesizes representative example values from schemas,
// resolving local component references against a flat schema mapping.
type exampleBuilder struct {
	schemas  *document.Map
	maxDepth int
	log      Logger
}

func newExampleBuilder(schemas *document.Map, maxDepth int, log Logger) *exampleBuilder {
	if maxDepth <= 0 {
		maxDepth = defaultMaxDepth
	}
	return &exampleBuilder{schemas: schemas, maxDepth: maxDepth, log: log}
}

// resolveRef dereferences a local component schema reference. Unresolvable
// refs (unknown name, foreign pointer shape, non-mapping target) return the
// original node unchanged.
func (e *exampleBuilder) resolveRef(schema *document.Map) *document.Map {
	ref, ok := schema.Get("$ref")
	refStr, isStr := ref.(string)
	if !ok || !isStr {
		return schema
	}
	name := schemaRefName(refStr)
	if name == "" {
		return schema
	}
	if resolved := e.schemas.Map(name); resolved != nil {
		return resolved
	}
	e.log.Debug("unresolved schema ref", "ref", refStr)
	return schema
}

// build produces an example value for schema. Priority order: explicit
// example, first enum value, oneOf/anyOf first option, allOf shallow merge,
// object properties, array items, then primitive defaults.
func (e *exampleBuilder) build(schema *document.Map, depth int) any {
	if depth > e.maxDepth {
		return nil
	}

	schema = e.resolveRef(schema)

	if v, ok := schema.Get("example"); ok {
		return v
	}

	if enum := schema.Slice("enum"); len(enum) > 0 {
		return enum[0]
	}

	for _, combiner := range []string{"oneOf", "anyOf"} {
		options := schema.Slice(combiner)
		if len(options) == 0 {
			continue
		}
		if first, ok := options[0].(*document.Map); ok {
			return e.build(first, depth+1)
		}
	}

	if allOf := schema.Slice("allOf"); len(allOf) > 0 {
		merged := document.NewMap()
		for _, part := range allOf {
			pm, ok := part.(*document.Map)
			if !ok {
				continue
			}
			if ex, ok := e.build(pm, depth+1).(*document.Map); ok {
				for _, key := range ex.Keys() {
					merged.Set(key, ex.Value(key))
				}
			}
		}
		if merged.Len() > 0 {
			return merged
		}
		if first, ok := allOf[0].(*document.Map); ok {
			return e.build(first, depth+1)
		}
	}

	typeValue, hasType := schema.Get("type")
	schemaType, _ := typeValue.(string)

	properties := schema.Map("properties")
	if schemaType == "object" || properties != nil {
		result := document.NewMap()
		for _, prop := range properties.Keys() {
			propSchema := properties.Map(prop)
			if propSchema == nil {
				continue
			}
			if value := e.build(propSchema, depth+1); value != nil {
				result.Set(prop, value)
			}
		}
		// A schema with no declared properties still yields an empty mapping.
		return result
	}

	if schemaType == "array" {
		items := schema.Map("items")
		if items == nil {
			return []any{}
		}
		if itemExample := e.build(items, depth+1); itemExample != nil {
			return []any{itemExample}
		}
		return []any{}
	}

	switch {
	case schemaType == "integer" || schemaType == "number":
		return 0
	case schemaType == "boolean":
		return true
	case schemaType == "string" || !hasType || typeValue == nil:
		return ""
	default:
		// Unrecognized or non-string type payloads (e.g. OAS 3.1 type arrays).
		return nil
	}
}

// isDegenerate reports whether a synthesized example carries no information:
// nil, an empty mapping, or an empty sequence. Such examples are discarded
// rather than recorded.
func isDegenerate(example any) bool {
	switch t := example.(type) {
	case nil:
		return true
	case *document.Map:
		return t.Len() == 0
	case []any:
		return len(t) == 0
	default:
		return false
	}
}
