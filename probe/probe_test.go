package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oasatlas/atlaserrors"
	"github.com/erraggy/oasatlas/dataset"
)

func TestTargets(t *testing.T) {
	endpoints := []dataset.Endpoint{
		{ID: "safe", Method: "GET", Path: "/items"},
		{ID: "head-ok", Method: "HEAD", Path: "/items"},
		{ID: "mutating", Method: "POST", Path: "/items"},
		{ID: "path-param", Method: "GET", Path: "/items/{id}", PathParams: []dataset.Param{{Name: "id", In: "path"}}},
		{ID: "required-query", Method: "GET", Path: "/search", QueryParams: []dataset.Param{{Name: "q", In: "query", Required: true}}},
		{ID: "optional-query", Method: "GET", Path: "/list", QueryParams: []dataset.Param{{Name: "limit", In: "query"}}},
	}

	var ids []string
	for _, ep := range Targets(endpoints) {
		ids = append(ids, ep.ID)
	}
	assert.Equal(t, []string{"safe", "head-ok", "optional-query"}, ids)
}

func TestSafeFileName(t *testing.T) {
	tests := []struct {
		method string
		path   string
		want   string
	}{
		{"GET", "/v1/naturezas/{codigoNatureza}", "GET_v1_naturezas_codigoNatureza.json"},
		{"get", "/items", "GET_items.json"},
		{"OPTIONS", "/a b/c!d", "OPTIONS_a_b_c_d.json"},
		{"HEAD", "/x//y", "HEAD_x_y.json"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, SafeFileName(tt.method, tt.path))
		})
	}
}

func TestAuthenticateJSONResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/authenticate", r.URL.Path)
		require.Equal(t, "erp-tok", r.Header.Get("X-Token"))
		require.NoError(t, r.ParseForm())
		require.Equal(t, "cid", r.PostForm.Get("client_id"))
		require.Equal(t, "secret", r.PostForm.Get("client_secret"))
		require.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token": "tok-json"}`)
	}))
	defer srv.Close()

	cfg := &Config{BaseURL: srv.URL + "/", ClientID: "cid", ClientSecret: "secret", ERPToken: "erp-tok"}
	token, err := Authenticate(context.Background(), nil, cfg)
	require.NoError(t, err)
	assert.Equal(t, "tok-json", token)
}

func TestAuthenticateFormResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/x-www-form-urlencoded")
		fmt.Fprint(w, "token_type=bearer&access_token=tok-form")
	}))
	defer srv.Close()

	cfg := &Config{BaseURL: srv.URL}
	token, err := Authenticate(context.Background(), nil, cfg)
	require.NoError(t, err)
	assert.Equal(t, "tok-form", token)
}

func TestAuthenticateFailures(t *testing.T) {
	t.Run("http error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "denied", http.StatusUnauthorized)
		}))
		defer srv.Close()

		_, err := Authenticate(context.Background(), nil, &Config{BaseURL: srv.URL})
		require.ErrorIs(t, err, atlaserrors.ErrProbe)

		var probeErr *atlaserrors.ProbeError
		require.ErrorAs(t, err, &probeErr)
		assert.Equal(t, http.StatusUnauthorized, probeErr.StatusCode)
	})

	t.Run("missing token", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"token_type": "bearer"}`)
		}))
		defer srv.Close()

		_, err := Authenticate(context.Background(), nil, &Config{BaseURL: srv.URL})
		assert.ErrorIs(t, err, atlaserrors.ErrProbe)
	})
}

func TestRunSavesSuccessfulResponses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/items":
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"items": []}`)
		case "/status":
			fmt.Fprint(w, "plain text body")
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	endpoints := []dataset.Endpoint{
		{ID: "listItems", Method: "GET", Path: "/items"},
		{ID: "status", Method: "GET", Path: "/status"},
		{ID: "missing", Method: "GET", Path: "/gone"},
		{ID: "skipped", Method: "POST", Path: "/items"},
	}

	outDir := filepath.Join(t.TempDir(), "responses")
	p := &Prober{BaseURL: srv.URL, Token: "tok", Delay: -1}
	summary, err := p.Run(context.Background(), endpoints, outDir)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Called)
	assert.Equal(t, 2, summary.OK)
	assert.Equal(t, 1, summary.Failed)

	// JSON body saved structurally.
	data, err := os.ReadFile(filepath.Join(outDir, "GET_items.json"))
	require.NoError(t, err)
	var record struct {
		Request struct {
			Method string `json:"method"`
			Path   string `json:"path"`
			URL    string `json:"url"`
		} `json:"request"`
		Response struct {
			Status int            `json:"status"`
			JSON   map[string]any `json:"json"`
			Text   string         `json:"text"`
		} `json:"response"`
	}
	require.NoError(t, json.Unmarshal(data, &record))
	assert.Equal(t, "GET", record.Request.Method)
	assert.Equal(t, "/items", record.Request.Path)
	assert.Equal(t, srv.URL+"/items", record.Request.URL)
	assert.Equal(t, http.StatusOK, record.Response.Status)
	assert.Contains(t, record.Response.JSON, "items")
	assert.Empty(t, record.Response.Text)

	// Non-JSON body saved as wrapped text.
	data, err = os.ReadFile(filepath.Join(outDir, "GET_status.json"))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &record))
	assert.Equal(t, "plain text body", record.Response.Text)

	// Failed call saved nothing.
	_, statErr := os.Stat(filepath.Join(outDir, "GET_gone.json"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := &Prober{BaseURL: "http://localhost:0", Delay: -1}
	summary, err := p.Run(ctx, []dataset.Endpoint{{ID: "e", Method: "GET", Path: "/x"}}, t.TempDir())
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, summary.Called)
}

func TestLoadDotenv(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte(`
# comment line
OASATLAS_TEST_A = alpha
OASATLAS_TEST_B=beta=with=equals
not a pair
=no-key

OASATLAS_TEST_C=from-file
`), 0o600))

	t.Setenv("OASATLAS_TEST_C", "from-shell")
	require.NoError(t, os.Unsetenv("OASATLAS_TEST_A"))
	require.NoError(t, os.Unsetenv("OASATLAS_TEST_B"))
	t.Cleanup(func() {
		_ = os.Unsetenv("OASATLAS_TEST_A")
		_ = os.Unsetenv("OASATLAS_TEST_B")
	})

	require.NoError(t, LoadDotenv(envPath))

	assert.Equal(t, "alpha", os.Getenv("OASATLAS_TEST_A"))
	assert.Equal(t, "beta=with=equals", os.Getenv("OASATLAS_TEST_B"))
	// Shell value wins over file value.
	assert.Equal(t, "from-shell", os.Getenv("OASATLAS_TEST_C"))
}

func TestLoadDotenvMissingFile(t *testing.T) {
	assert.NoError(t, LoadDotenv(filepath.Join(t.TempDir(), "nope.env")))
}

func TestConfigFromEnv(t *testing.T) {
	t.Run("full credentials", func(t *testing.T) {
		t.Setenv(EnvBaseURL, "https://api.example.com")
		t.Setenv(EnvClientID, "cid")
		t.Setenv(EnvClientSecret, "secret")
		t.Setenv(EnvERPToken, "erp")

		cfg, err := ConfigFromEnv()
		require.NoError(t, err)
		assert.Equal(t, "https://api.example.com", cfg.BaseURL)
		assert.Equal(t, "cid", cfg.ClientID)
	})

	t.Run("access token skips credential requirement", func(t *testing.T) {
		t.Setenv(EnvBaseURL, "https://api.example.com")
		t.Setenv(EnvAccessToken, "tok")

		cfg, err := ConfigFromEnv()
		require.NoError(t, err)
		assert.Equal(t, "tok", cfg.AccessToken)
	})

	t.Run("missing base url", func(t *testing.T) {
		t.Setenv(EnvBaseURL, "")
		_, err := ConfigFromEnv()
		require.Error(t, err)
		assert.Contains(t, err.Error(), EnvBaseURL)
	})

	t.Run("missing client secret", func(t *testing.T) {
		t.Setenv(EnvBaseURL, "https://api.example.com")
		t.Setenv(EnvClientID, "cid")
		t.Setenv(EnvClientSecret, "")
		t.Setenv(EnvERPToken, "erp")
		t.Setenv(EnvAccessToken, "")

		_, err := ConfigFromEnv()
		require.Error(t, err)
		assert.Contains(t, err.Error(), EnvClientSecret)
	})
}
