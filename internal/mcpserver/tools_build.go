package mcpserver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/oasatlas/dataset"
	"github.com/erraggy/oasatlas/docsfetch"
	"github.com/erraggy/oasatlas/document"
)

type buildDatasetInput struct {
	Spec           specInput `json:"spec"                       jsonschema:"The OpenAPI document to build from"`
	DocsBase       string    `json:"docs_base,omitempty"        jsonschema:"Hosted docs reference base URL used to fetch the docs-embedded schema for example synthesis"`
	NoDocsExamples bool      `json:"no_docs_examples,omitempty" jsonschema:"Skip docs-schema fetch and example synthesis"`
	Output         string    `json:"output,omitempty"           jsonschema:"File path to write the dataset JSON to"`
	MaxDepth       int       `json:"max_depth,omitempty"        jsonschema:"Example synthesis recursion cap (default from OASATLAS_MAX_DEPTH)"`
}

type buildDatasetOutput struct {
	Endpoints        int    `json:"endpoints"`
	Edges            int    `json:"edges"`
	DocsSchemaLoaded bool   `json:"docs_schema_loaded"`
	DocsSchemaError  string `json:"docs_schema_error,omitempty"`
	Output           string `json:"output,omitempty"`
	Dataset          string `json:"dataset,omitempty"`
}

func handleBuildDataset(ctx context.Context, _ *mcp.CallToolRequest, input buildDatasetInput) (*mcp.CallToolResult, buildDatasetOutput, error) {
	doc, err := input.Spec.resolve()
	if err != nil {
		return errResult(err), buildDatasetOutput{}, nil
	}

	output := buildDatasetOutput{}

	var docsSchema *document.Map
	if input.DocsBase != "" && !input.NoDocsExamples {
		if doc.Root != nil {
			if slug, ok := docsfetch.SeedSlug(doc.Root); ok {
				var fetcher docsfetch.Fetcher
				schema, fetchErr := fetcher.FetchSchema(ctx, docsfetch.SeedURL(input.DocsBase, slug))
				if fetchErr != nil {
					// Degrade: examples may be empty but the build proceeds.
					output.DocsSchemaError = sanitizeError(fetchErr)
				} else {
					docsSchema = schema
					output.DocsSchemaLoaded = true
				}
			}
		}
	}

	maxDepth := input.MaxDepth
	if maxDepth <= 0 {
		maxDepth = cfg.MaxDepth
	}
	builder := &dataset.Builder{MaxDepth: maxDepth}
	ds, err := builder.Build(doc, docsSchema)
	if err != nil {
		return errResult(err), buildDatasetOutput{}, nil
	}

	output.Endpoints = len(ds.Endpoints)
	output.Edges = len(ds.Edges)

	encoded, err := ds.MarshalIndent()
	if err != nil {
		return errResult(err), buildDatasetOutput{}, nil
	}

	if input.Output != "" {
		if dir := filepath.Dir(input.Output); dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return errResult(fmt.Errorf("failed to create output directory: %w", err)), buildDatasetOutput{}, nil
			}
		}
		if err := os.WriteFile(input.Output, append(encoded, '\n'), 0o600); err != nil {
			return errResult(fmt.Errorf("failed to write dataset: %w", err)), buildDatasetOutput{}, nil
		}
		output.Output = input.Output
	} else {
		output.Dataset = string(encoded)
	}

	return nil, output, nil
}
