package mcpserver

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/erraggy/oasatlas/dataset"
)

type getEndpointInput struct {
	Dataset string `json:"dataset,omitempty" jsonschema:"Path to the dataset JSON file (default from OASATLAS_DATASET_FILE)"`
	ID      string `json:"id"                jsonschema:"Endpoint id (operationId or 'METHOD /path')"`
}

type getEndpointOutput struct {
	Title    string           `json:"title"`
	Endpoint dataset.Endpoint `json:"endpoint"`
}

func handleGetEndpoint(_ context.Context, _ *mcp.CallToolRequest, input getEndpointInput) (*mcp.CallToolResult, getEndpointOutput, error) {
	ds, err := datasets.load(input.Dataset)
	if err != nil {
		return errResult(err), getEndpointOutput{}, nil
	}

	ep, err := findEndpoint(ds, input.ID)
	if err != nil {
		return errResult(err), getEndpointOutput{}, nil
	}

	return nil, getEndpointOutput{
		Title:    displayTitle(ep),
		Endpoint: *ep,
	}, nil
}

var titleCaser = cases.Title(language.English)

// displayTitle derives a human-readable title for an endpoint: its summary
// when present, otherwise the method plus the path segments title-cased with
// parameter braces stripped ("GET /v1/user-accounts/{id}" becomes
// "Get V1 User Accounts Id").
func displayTitle(ep *dataset.Endpoint) string {
	if ep.Summary != "" {
		return ep.Summary
	}

	words := []string{strings.ToLower(ep.Method)}
	for _, seg := range strings.Split(strings.Trim(ep.Path, "/"), "/") {
		seg = strings.Trim(seg, "{}")
		for _, word := range strings.FieldsFunc(seg, func(r rune) bool {
			return r == '-' || r == '_' || r == '.'
		}) {
			words = append(words, strings.ToLower(word))
		}
	}
	return titleCaser.String(strings.Join(words, " "))
}
