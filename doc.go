// Package oasatlas builds normalized, graph-annotated endpoint datasets from
// OpenAPI Specification (OAS) documents.
//
// oasatlas ingests an OpenAPI v3 document and produces a single JSON dataset
// describing every operation: merged parameters, response examples, referenced
// schema names, and a relationship graph connecting endpoints that share tags
// or response schemas. When a published spec ships without response examples,
// oasatlas can synthesize plausible ones from a richer docs-embedded schema
// source fetched once per build.
//
// # Packages
//
//   - document: order-preserving YAML/JSON document loading
//   - dataset: the core builder (flattening, example synthesis, edges)
//   - docsfetch: fetches the docs-embedded schema used for synthesis
//   - specfetch: downloads OpenAPI specs to disk
//   - probe: calls the safe subset of endpoints and records raw responses
//   - atlaserrors: structured error types for programmatic handling
//
// # Quick Start
//
// Build a dataset from a spec file:
//
//	doc, err := document.Load("api.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	b := dataset.New()
//	ds, err := b.Build(doc, nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	data, _ := ds.MarshalIndent()
//	os.WriteFile("endpoints.json", data, 0600)
//
// With example synthesis from a docs source:
//
//	var f docsfetch.Fetcher
//	schema, err := f.FetchSchema(ctx, seedURL)
//	if err != nil {
//		log.Printf("docs schema unavailable: %v", err) // build proceeds without it
//	}
//	ds, err := b.Build(doc, schema)
//
// The build is a pure function of its inputs: identical documents always
// produce byte-identical datasets.
//
// # Command-Line Interface
//
// The oasatlas CLI wraps the library:
//
//	# Build the dataset
//	oasatlas build -o endpoints.json api.yaml
//
//	# Download a spec
//	oasatlas fetch -o api.yaml https://example.com/openapi/api.yaml
//
//	# Call every safe endpoint and save raw responses
//	oasatlas probe -dataset endpoints.json -out data/responses
//
//	# Serve the dataset over MCP (stdio)
//	oasatlas mcp
//
// Install the CLI:
//
//	go install github.com/erraggy/oasatlas/cmd/oasatlas@latest
package oasatlas
