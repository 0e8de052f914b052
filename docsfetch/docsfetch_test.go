package docsfetch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oasatlas/atlaserrors"
	"github.com/erraggy/oasatlas/document"
)

func TestEndpointSlug(t *testing.T) {
	tests := []struct {
		method string
		path   string
		want   string
	}{
		{"GET", "/users", "get_users"},
		{"get", "/users/{userId}", "get_users-userid"},
		{"POST", "/users/{ userId }/orders", "post_users-userid-orders"},
		{"DELETE", "/Admin/Keys/", "delete_admin-keys"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, EndpointSlug(tt.method, tt.path))
		})
	}
}

func TestSeedSlug(t *testing.T) {
	doc, err := document.ParseBytes([]byte(`
paths:
  /zebras:
    get: {}
  /apples/{id}:
    delete: {}
    post: {}
`))
	require.NoError(t, err)

	// Paths sort first, then methods follow the fixed preference order:
	// post beats delete even though delete appears first in the source.
	slug, ok := SeedSlug(doc.Root)
	require.True(t, ok)
	assert.Equal(t, "post_apples-id", slug)
}

func TestSeedSlugNoOperations(t *testing.T) {
	doc, err := document.ParseBytes([]byte("paths: {}\n"))
	require.NoError(t, err)

	_, ok := SeedSlug(doc.Root)
	assert.False(t, ok)

	_, ok = SeedSlug(nil)
	assert.False(t, ok)
}

func TestSeedURL(t *testing.T) {
	assert.Equal(t, "https://docs.example.com/reference/get_users", SeedURL("https://docs.example.com/reference/", "get_users"))
	assert.Equal(t, "https://docs.example.com/reference/get_users", SeedURL("https://docs.example.com/reference", "get_users"))
}

const docsPage = `<!doctype html>
<html><body>
<div id="ssr-props" data-initial-props="{&quot;document&quot;:{&quot;api&quot;:{&quot;schema&quot;:{&quot;openapi&quot;:&quot;3.0.0&quot;,&quot;components&quot;:{&quot;schemas&quot;:{&quot;Pet&quot;:{&quot;type&quot;:&quot;object&quot;}}}}}}}"></div>
</body></html>`

func TestFetchSchema(t *testing.T) {
	var gotUserAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		fmt.Fprint(w, docsPage)
	}))
	defer srv.Close()

	var f Fetcher
	schema, err := f.FetchSchema(context.Background(), srv.URL)
	require.NoError(t, err)
	require.NotNil(t, schema)
	assert.Equal(t, "3.0.0", schema.String("openapi"))
	assert.Equal(t, "object", schema.Map("components").Map("schemas").Map("Pet").String("type"))
	assert.Contains(t, gotUserAgent, "oasatlas/")
}

func TestFetchSchemaFailures(t *testing.T) {
	tests := []struct {
		name string
		body string
		code int
	}{
		{"not found", "gone", http.StatusNotFound},
		{"no props attribute", "<html><body>nothing embedded</body></html>", http.StatusOK},
		{"invalid embedded json", `<div data-initial-props="{&quot;document&quot;:"></div>`, http.StatusOK},
		{"no schema in props", `<div data-initial-props="{&quot;document&quot;:{}}"></div>`, http.StatusOK},
		{"schema not a mapping", `<div data-initial-props="{&quot;document&quot;:{&quot;api&quot;:{&quot;schema&quot;:[1]}}}"></div>`, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.code)
				fmt.Fprint(w, tt.body)
			}))
			defer srv.Close()

			var f Fetcher
			schema, err := f.FetchSchema(context.Background(), srv.URL)
			assert.Nil(t, schema)
			assert.ErrorIs(t, err, atlaserrors.ErrFetch)
		})
	}
}
