package dataset

import (
	"regexp"

	"github.com/erraggy/oasatlas/document"
)

// schemaRefPattern matches local component schema references. Only
// "#/components/schemas/<Name>" style refs are understood; external-file and
// other JSON-pointer refs do not match and pass through as opaque nodes.
var schemaRefPattern = regexp.MustCompile(`#/components/schemas/([^/]+)$`)

// schemaRefName extracts the component schema name from a ref string,
// returning "" when the ref is not a local component schema reference.
func schemaRefName(ref string) string {
	m := schemaRefPattern.FindStringSubmatch(ref)
	if m == nil {
		return ""
	}
	return m[1]
}

// collectSchemaRefs walks a schema tree depth-first with an explicit stack
// and records every referenced component schema name into refs.
func collectSchemaRefs(schema any, refs map[string]bool) {
	stack := []any{schema}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch t := node.(type) {
		case *document.Map:
			if ref, ok := t.Get("$ref"); ok {
				if refStr, ok := ref.(string); ok {
					if name := schemaRefName(refStr); name != "" {
						refs[name] = true
					}
				}
			}
			for _, key := range t.Keys() {
				stack = append(stack, t.Value(key))
			}
		case []any:
			stack = append(stack, t...)
		}
	}
}
