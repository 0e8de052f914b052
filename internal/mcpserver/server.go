// Package mcpserver implements an MCP (Model Context Protocol) server that
// exposes endpoint-dataset capabilities as MCP tools over stdio.
package mcpserver

import (
	"context"
	"regexp"

	"github.com/erraggy/oasatlas"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `oasatlas MCP server — builds and queries endpoint datasets derived from OpenAPI documents.

Configuration: All defaults are configurable via OASATLAS_* environment variables set in your MCP client config.

Key settings:
- OASATLAS_DATASET_FILE — default dataset path when a tool call omits one
- OASATLAS_LIST_LIMIT (default: 100) — default result limit for list_endpoints
- OASATLAS_DETAIL_LIMIT (default: 25) — default limit in detail mode
- OASATLAS_MAX_LIMIT (default: 500) — hard cap on any requested limit
- OASATLAS_MAX_DEPTH (default: 6) — example synthesis recursion cap for build_dataset

Workflow: run build_dataset once against a spec (optionally with docs_base for example synthesis), then explore the result with list_endpoints, get_endpoint, and related_endpoints. Datasets are cached per session keyed by file mtime.`

// Run starts the MCP server over stdio and blocks until the client
// disconnects or the context is cancelled.
func Run(ctx context.Context) error {
	server := mcp.NewServer(
		&mcp.Implementation{Name: "oasatlas", Version: oasatlas.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "build_dataset",
		Description: "Build a normalized endpoint dataset from an OpenAPI document. Flattens every operation into an endpoint record, extracts or synthesizes a response example per endpoint, collects referenced component schema names, and derives tag/schema relationship edges. Provide docs_base (a hosted docs reference base URL) to synthesize examples for operations whose published spec has none. Use output to write the dataset to a file for later list/get/related calls.",
	}, handleBuildDataset)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_endpoints",
		Description: "List endpoints from a built dataset. Filter by method, tag, or a path substring. Returns summaries (id, method, path, summary, tags) by default or full endpoint records with detail=true. Use offset/limit to paginate. Default limit is configurable via OASATLAS_LIST_LIMIT (100, 25 in detail mode).",
	}, handleListEndpoints)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_endpoint",
		Description: "Get one endpoint record from a built dataset by id, including parameters, response examples, referenced schema names, and a humanized display title.",
	}, handleGetEndpoint)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "related_endpoints",
		Description: "Find endpoints related to a given endpoint through shared tags or shared response schemas, using the dataset's relationship edges. Filter by relation type (tag or schema). Results name the relation key that connects each pair.",
	}, handleRelatedEndpoints)
}

// paginate applies offset/limit pagination to a slice, returning the
// requested page. A non-positive limit defaults to cfg.ListLimit.
func paginate[T any](items []T, offset, limit int) []T {
	if limit <= 0 {
		limit = cfg.ListLimit
	}
	if limit > cfg.MaxLimit {
		limit = cfg.MaxLimit
	}
	if offset < 0 || offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end < offset || end > len(items) { // overflow or beyond slice
		end = len(items)
	}
	return items[offset:end]
}

// detailLimit returns a lower default limit for detail mode output.
func detailLimit(limit int) int {
	if limit <= 0 {
		return cfg.DetailLimit
	}
	return limit
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}
