package mcpserver

import (
	"context"
	"slices"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/oasatlas/dataset"
)

type listEndpointsInput struct {
	Dataset      string `json:"dataset,omitempty"       jsonschema:"Path to the dataset JSON file (default from OASATLAS_DATASET_FILE)"`
	Method       string `json:"method,omitempty"        jsonschema:"Filter by HTTP method (case-insensitive)"`
	Tag          string `json:"tag,omitempty"           jsonschema:"Filter by tag"`
	PathContains string `json:"path_contains,omitempty" jsonschema:"Filter by path substring"`
	Detail       bool   `json:"detail,omitempty"        jsonschema:"Return full endpoint records instead of summaries"`
	Offset       int    `json:"offset,omitempty"        jsonschema:"Number of results to skip"`
	Limit        int    `json:"limit,omitempty"         jsonschema:"Maximum results to return"`
}

type endpointSummary struct {
	ID      string   `json:"id"`
	Method  string   `json:"method"`
	Path    string   `json:"path"`
	Summary string   `json:"summary,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

type listEndpointsOutput struct {
	Total     int                `json:"total"`
	Returned  int                `json:"returned"`
	Offset    int                `json:"offset"`
	Items     []endpointSummary  `json:"items,omitempty"`
	Endpoints []dataset.Endpoint `json:"endpoints,omitempty"`
}

func handleListEndpoints(_ context.Context, _ *mcp.CallToolRequest, input listEndpointsInput) (*mcp.CallToolResult, listEndpointsOutput, error) {
	ds, err := datasets.load(input.Dataset)
	if err != nil {
		return errResult(err), listEndpointsOutput{}, nil
	}

	matched := make([]dataset.Endpoint, 0, len(ds.Endpoints))
	for _, ep := range ds.Endpoints {
		if input.Method != "" && !strings.EqualFold(ep.Method, input.Method) {
			continue
		}
		if input.Tag != "" && !slices.Contains(ep.Tags, input.Tag) {
			continue
		}
		if input.PathContains != "" && !strings.Contains(ep.Path, input.PathContains) {
			continue
		}
		matched = append(matched, ep)
	}

	output := listEndpointsOutput{Total: len(matched), Offset: input.Offset}

	if input.Detail {
		page := paginate(matched, input.Offset, detailLimit(input.Limit))
		output.Endpoints = page
		output.Returned = len(page)
		return nil, output, nil
	}

	page := paginate(matched, input.Offset, input.Limit)
	for _, ep := range page {
		output.Items = append(output.Items, endpointSummary{
			ID:      ep.ID,
			Method:  ep.Method,
			Path:    ep.Path,
			Summary: ep.Summary,
			Tags:    ep.Tags,
		})
	}
	output.Returned = len(output.Items)
	return nil, output, nil
}
