package mcpserver

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oasatlas/dataset"
)

func TestGetEndpointTool(t *testing.T) {
	path := writeTestDataset(t)

	result, output, err := handleGetEndpoint(context.Background(), &mcp.CallToolRequest{}, getEndpointInput{Dataset: path, ID: "getItem"})
	require.NoError(t, err)
	require.Nil(t, result)

	assert.Equal(t, "getItem", output.Endpoint.ID)
	assert.Equal(t, "GET", output.Endpoint.Method)
	assert.Equal(t, "/items/{id}", output.Endpoint.Path)
	// No summary: the title is derived from method and path.
	assert.Equal(t, "Get Items Id", output.Title)
}

func TestGetEndpointTool_SummaryTitle(t *testing.T) {
	path := writeTestDataset(t)

	_, output, err := handleGetEndpoint(context.Background(), &mcp.CallToolRequest{}, getEndpointInput{Dataset: path, ID: "listItems"})
	require.NoError(t, err)
	assert.Equal(t, "List items", output.Title)
}

func TestGetEndpointTool_NotFound(t *testing.T) {
	path := writeTestDataset(t)

	result, _, err := handleGetEndpoint(context.Background(), &mcp.CallToolRequest{}, getEndpointInput{Dataset: path, ID: "nope"})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
}

func TestDisplayTitle(t *testing.T) {
	tests := []struct {
		name string
		ep   dataset.Endpoint
		want string
	}{
		{"summary wins", dataset.Endpoint{Summary: "Do the thing", Method: "GET", Path: "/x"}, "Do the thing"},
		{"hyphenated segments", dataset.Endpoint{Method: "GET", Path: "/v1/user-accounts/{accountId}"}, "Get V1 User Accounts Accountid"},
		{"underscores and dots", dataset.Endpoint{Method: "POST", Path: "/batch_jobs/run.now"}, "Post Batch Jobs Run Now"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, displayTitle(&tt.ep))
		})
	}
}
