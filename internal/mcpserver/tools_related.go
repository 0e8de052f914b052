package mcpserver

import (
	"context"
	"fmt"
	"sort"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/oasatlas/dataset"
)

type relatedEndpointsInput struct {
	Dataset string `json:"dataset,omitempty" jsonschema:"Path to the dataset JSON file (default from OASATLAS_DATASET_FILE)"`
	ID      string `json:"id"                jsonschema:"Endpoint id to find relations for"`
	Type    string `json:"type,omitempty"    jsonschema:"Filter by relation type: tag or schema"`
	Limit   int    `json:"limit,omitempty"   jsonschema:"Maximum results to return"`
}

type relatedEndpoint struct {
	ID   string   `json:"id"`
	Type string   `json:"type"`
	Keys []string `json:"keys"`
}

type relatedEndpointsOutput struct {
	Total    int               `json:"total"`
	Returned int               `json:"returned"`
	Items    []relatedEndpoint `json:"items,omitempty"`
}

func handleRelatedEndpoints(_ context.Context, _ *mcp.CallToolRequest, input relatedEndpointsInput) (*mcp.CallToolResult, relatedEndpointsOutput, error) {
	switch input.Type {
	case "", string(dataset.EdgeTypeTag), string(dataset.EdgeTypeSchema):
	default:
		return errResult(fmt.Errorf("invalid type %q; valid values: tag, schema", input.Type)), relatedEndpointsOutput{}, nil
	}

	ds, err := datasets.load(input.Dataset)
	if err != nil {
		return errResult(err), relatedEndpointsOutput{}, nil
	}
	if _, err := findEndpoint(ds, input.ID); err != nil {
		return errResult(err), relatedEndpointsOutput{}, nil
	}

	// Edges chain group members rather than forming cliques, so related
	// endpoints are recovered by group key: first the (type, key) groups the
	// endpoint belongs to, then every other member of those groups.
	type groupKey struct {
		edgeType dataset.EdgeType
		key      string
	}
	memberOf := make(map[groupKey]bool)
	for _, edge := range ds.Edges {
		if input.Type != "" && string(edge.Type) != input.Type {
			continue
		}
		if edge.Source == input.ID || edge.Target == input.ID {
			memberOf[groupKey{edge.Type, edge.Key}] = true
		}
	}

	related := make(map[string]map[groupKey]bool)
	for _, edge := range ds.Edges {
		gk := groupKey{edge.Type, edge.Key}
		if !memberOf[gk] {
			continue
		}
		for _, id := range []string{edge.Source, edge.Target} {
			if id == input.ID {
				continue
			}
			if related[id] == nil {
				related[id] = make(map[groupKey]bool)
			}
			related[id][gk] = true
		}
	}

	items := make([]relatedEndpoint, 0, len(related))
	for id, groups := range related {
		byType := make(map[dataset.EdgeType][]string)
		for gk := range groups {
			byType[gk.edgeType] = append(byType[gk.edgeType], gk.key)
		}
		for edgeType, keys := range byType {
			sort.Strings(keys)
			items = append(items, relatedEndpoint{ID: id, Type: string(edgeType), Keys: keys})
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].ID != items[j].ID {
			return items[i].ID < items[j].ID
		}
		return items[i].Type < items[j].Type
	})

	output := relatedEndpointsOutput{Total: len(items)}
	limit := input.Limit
	if limit <= 0 {
		limit = cfg.ListLimit
	}
	if limit > len(items) {
		limit = len(items)
	}
	output.Items = items[:limit]
	output.Returned = len(output.Items)
	return nil, output, nil
}
