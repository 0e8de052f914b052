package mcpserver

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListEndpointsTool_All(t *testing.T) {
	path := writeTestDataset(t)

	result, output, err := handleListEndpoints(context.Background(), &mcp.CallToolRequest{}, listEndpointsInput{Dataset: path})
	require.NoError(t, err)
	require.Nil(t, result)

	assert.Equal(t, 4, output.Total)
	assert.Equal(t, 4, output.Returned)
	require.Len(t, output.Items, 4)
	assert.Equal(t, "listItems", output.Items[0].ID)
	assert.Equal(t, "GET", output.Items[0].Method)
	assert.Equal(t, "List items", output.Items[0].Summary)
	assert.Empty(t, output.Endpoints)
}

func TestListEndpointsTool_Filters(t *testing.T) {
	path := writeTestDataset(t)

	t.Run("method", func(t *testing.T) {
		_, output, err := handleListEndpoints(context.Background(), &mcp.CallToolRequest{}, listEndpointsInput{Dataset: path, Method: "post"})
		require.NoError(t, err)
		require.Len(t, output.Items, 1)
		assert.Equal(t, "createItem", output.Items[0].ID)
	})

	t.Run("tag", func(t *testing.T) {
		_, output, err := handleListEndpoints(context.Background(), &mcp.CallToolRequest{}, listEndpointsInput{Dataset: path, Tag: "items"})
		require.NoError(t, err)
		assert.Equal(t, 3, output.Total)
	})

	t.Run("path substring", func(t *testing.T) {
		_, output, err := handleListEndpoints(context.Background(), &mcp.CallToolRequest{}, listEndpointsInput{Dataset: path, PathContains: "{id}"})
		require.NoError(t, err)
		require.Len(t, output.Items, 1)
		assert.Equal(t, "getItem", output.Items[0].ID)
	})

	t.Run("no matches", func(t *testing.T) {
		_, output, err := handleListEndpoints(context.Background(), &mcp.CallToolRequest{}, listEndpointsInput{Dataset: path, Method: "DELETE"})
		require.NoError(t, err)
		assert.Zero(t, output.Total)
		assert.Empty(t, output.Items)
	})
}

func TestListEndpointsTool_Pagination(t *testing.T) {
	path := writeTestDataset(t)

	_, output, err := handleListEndpoints(context.Background(), &mcp.CallToolRequest{}, listEndpointsInput{Dataset: path, Offset: 1, Limit: 2})
	require.NoError(t, err)

	assert.Equal(t, 4, output.Total)
	assert.Equal(t, 2, output.Returned)
	assert.Equal(t, 1, output.Offset)
	require.Len(t, output.Items, 2)
	assert.Equal(t, "createItem", output.Items[0].ID)
	assert.Equal(t, "getItem", output.Items[1].ID)
}

func TestListEndpointsTool_Detail(t *testing.T) {
	path := writeTestDataset(t)

	_, output, err := handleListEndpoints(context.Background(), &mcp.CallToolRequest{}, listEndpointsInput{Dataset: path, Detail: true, Method: "GET", PathContains: "{id}"})
	require.NoError(t, err)

	assert.Empty(t, output.Items)
	require.Len(t, output.Endpoints, 1)
	ep := output.Endpoints[0]
	assert.Equal(t, "getItem", ep.ID)
	require.Len(t, ep.PathParams, 1)
	assert.Equal(t, "id", ep.PathParams[0].Name)
	assert.Equal(t, []string{"Item"}, ep.SchemaRefs)
}

func TestListEndpointsTool_MissingDataset(t *testing.T) {
	result, _, err := handleListEndpoints(context.Background(), &mcp.CallToolRequest{}, listEndpointsInput{Dataset: "/nonexistent/endpoints.json"})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
}
