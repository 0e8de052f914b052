package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const buildTestSpecYAML = `openapi: "3.0.0"
info:
  title: Pet Store
  version: "1.0.0"
paths:
  /pets:
    get:
      summary: List pets
      operationId: listPets
      tags: [pets]
      responses:
        "200":
          description: OK
          content:
            application/json:
              example: [{"name": "rex"}]
  /pets/{id}:
    get:
      summary: Get a pet
      operationId: getPet
      tags: [pets]
      responses:
        "200":
          description: OK
`

func TestBuildDatasetTool_Inline(t *testing.T) {
	input := buildDatasetInput{
		Spec: specInput{Content: buildTestSpecYAML},
	}
	result, output, err := handleBuildDataset(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	require.Nil(t, result)

	assert.Equal(t, 2, output.Endpoints)
	assert.Equal(t, 1, output.Edges)
	assert.False(t, output.DocsSchemaLoaded)
	assert.Empty(t, output.Output)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(output.Dataset), &decoded))
	assert.Contains(t, decoded, "endpoints")
	assert.Contains(t, decoded, "edges")
}

func TestBuildDatasetTool_WriteFile(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "data", "endpoints.json")
	input := buildDatasetInput{
		Spec:   specInput{Content: buildTestSpecYAML},
		Output: outPath,
	}
	result, output, err := handleBuildDataset(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	require.Nil(t, result)

	assert.Equal(t, outPath, output.Output)
	assert.Empty(t, output.Dataset)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
}

func TestBuildDatasetTool_DocsBase(t *testing.T) {
	const docsPage = `<div data-initial-props="{&quot;document&quot;:{&quot;api&quot;:{&quot;schema&quot;:{&quot;paths&quot;:{&quot;/pets/{id}&quot;:{&quot;get&quot;:{&quot;responses&quot;:{&quot;200&quot;:{&quot;content&quot;:{&quot;application/json&quot;:{&quot;schema&quot;:{&quot;type&quot;:&quot;object&quot;,&quot;properties&quot;:{&quot;name&quot;:{&quot;type&quot;:&quot;string&quot;,&quot;example&quot;:&quot;rex&quot;}}}}}}}}}}}}}}"></div>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, docsPage)
	}))
	defer srv.Close()

	input := buildDatasetInput{
		Spec:     specInput{Content: buildTestSpecYAML},
		DocsBase: srv.URL,
	}
	result, output, err := handleBuildDataset(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	require.Nil(t, result)

	assert.True(t, output.DocsSchemaLoaded)
	assert.Empty(t, output.DocsSchemaError)
	// getPet had no example in the published spec; it is synthesized from
	// the docs schema.
	assert.Contains(t, output.Dataset, `"rex"`)
}

func TestBuildDatasetTool_DocsFetchFailureDegrades(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	input := buildDatasetInput{
		Spec:     specInput{Content: buildTestSpecYAML},
		DocsBase: srv.URL,
	}
	result, output, err := handleBuildDataset(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	require.Nil(t, result)

	assert.False(t, output.DocsSchemaLoaded)
	assert.NotEmpty(t, output.DocsSchemaError)
	assert.Equal(t, 2, output.Endpoints)
}

func TestBuildDatasetTool_InvalidSpec(t *testing.T) {
	input := buildDatasetInput{
		Spec: specInput{Content: "just a scalar"},
	}
	result, _, err := handleBuildDataset(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
}
