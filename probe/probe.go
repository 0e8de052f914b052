// Package probe calls the safe read-only subset of a built dataset's
// endpoints against a live API and saves the raw responses.
//
// Safety rules are conservative: only GET, HEAD, and OPTIONS operations with
// no path parameters and no required query parameters are called, so a probe
// run can never mutate server state or fabricate parameter values.
package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/erraggy/oasatlas/atlaserrors"
	"github.com/erraggy/oasatlas/dataset"
	"github.com/erraggy/oasatlas/document"
	"github.com/erraggy/oasatlas/internal/httputil"
)

// defaultDelay is the pause between endpoint calls.
const defaultDelay = 150 * time.Millisecond

// defaultTimeout is used when no HTTPClient is configured.
const defaultTimeout = 30 * time.Second

// Prober calls dataset endpoints against a live API.
type Prober struct {
	// BaseURL is the API base URL; endpoint paths are appended to it.
	BaseURL string
	// Token is the bearer token sent as Authorization on each call.
	Token string
	// HTTPClient is the client used for requests.
	// If nil, a default client with a 30-second timeout is used.
	HTTPClient *http.Client
	// Delay is the pause between calls. Zero means the 150ms default;
	// negative disables the pause.
	Delay time.Duration
	// Logger is the structured logger for per-call output.
	// If nil, logging is disabled (default).
	Logger dataset.Logger
}

// Summary reports the outcome of a probe run.
type Summary struct {
	// Called is the number of endpoints attempted
	Called int
	// OK is the number of 2xx responses saved
	OK int
	// Failed is the number of non-2xx responses and transport errors
	Failed int
}

// Targets filters endpoints down to the safe auto-callable subset: GET, HEAD,
// or OPTIONS with no path parameters and no required query parameters.
func Targets(endpoints []dataset.Endpoint) []dataset.Endpoint {
	targets := make([]dataset.Endpoint, 0)
	for _, ep := range endpoints {
		if !httputil.SafeProbeMethods[strings.ToUpper(ep.Method)] {
			continue
		}
		if len(ep.PathParams) > 0 {
			continue
		}
		required := false
		for _, p := range ep.QueryParams {
			if p.Required {
				required = true
				break
			}
		}
		if required {
			continue
		}
		targets = append(targets, ep)
	}
	return targets
}

// SafeFileName derives a filesystem-friendly response file name for an
// operation: method and path joined by underscores, parameter braces
// stripped, anything outside [alphanumeric _ - .] replaced by underscores,
// and runs of underscores collapsed. "GET /v1/users/{id}" becomes
// "GET_v1_users_id.json".
func SafeFileName(method, path string) string {
	name := strings.ToUpper(method) + "_" + strings.Trim(path, "/")
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "{", "")
	name = strings.ReplaceAll(name, "}", "")

	var b strings.Builder
	for _, ch := range name {
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
			b.WriteRune(ch)
		case ch == '_' || ch == '-' || ch == '.':
			b.WriteRune(ch)
		default:
			b.WriteRune('_')
		}
	}
	cleaned := b.String()
	for strings.Contains(cleaned, "__") {
		cleaned = strings.ReplaceAll(cleaned, "__", "_")
	}
	return cleaned + ".json"
}

// Authenticate exchanges client credentials for a bearer token: a form POST
// to {base}/authenticate with the installation token in the X-Token header.
// The token endpoint nominally returns form-encoded output but many
// deployments return JSON; both are handled.
func Authenticate(ctx context.Context, client *http.Client, cfg *Config) (string, error) {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}

	form := url.Values{}
	form.Set("client_id", cfg.ClientID)
	form.Set("client_secret", cfg.ClientSecret)
	form.Set("grant_type", "client_credentials")

	authURL := strings.TrimRight(cfg.BaseURL, "/") + "/authenticate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, authURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("probe: failed to create auth request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-Token", cfg.ERPToken)

	resp, err := client.Do(req)
	if err != nil {
		return "", &atlaserrors.ProbeError{Operation: "authenticate", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &atlaserrors.ProbeError{Operation: "authenticate", Cause: err}
	}
	if resp.StatusCode != http.StatusOK {
		return "", &atlaserrors.ProbeError{Operation: "authenticate", StatusCode: resp.StatusCode, Message: "authentication failed"}
	}

	var token string
	if strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		var payload struct {
			AccessToken string `json:"access_token"`
		}
		if err := json.Unmarshal(body, &payload); err != nil {
			return "", &atlaserrors.ProbeError{Operation: "authenticate", Message: "invalid JSON token response", Cause: err}
		}
		token = payload.AccessToken
	} else {
		values, err := url.ParseQuery(string(body))
		if err == nil {
			token = values.Get("access_token")
		}
	}

	if token == "" {
		return "", &atlaserrors.ProbeError{Operation: "authenticate", Message: "access_token not found in response"}
	}
	return token, nil
}

// Run calls every target endpoint in order, saving each 2xx response under
// outDir as a pretty-printed JSON record of the request and response. Non-2xx
// statuses and transport errors are counted as failures, logged, and do not
// stop the run. Run returns early only when ctx is canceled.
func (p *Prober) Run(ctx context.Context, endpoints []dataset.Endpoint, outDir string) (*Summary, error) {
	client := p.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	delay := p.Delay
	if delay == 0 {
		delay = defaultDelay
	}

	targets := Targets(endpoints)
	p.log().Info("probing safe endpoint subset", "targets", len(targets), "total", len(endpoints))

	summary := &Summary{}
	for i, ep := range targets {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		summary.Called++
		callURL := strings.TrimRight(p.BaseURL, "/") + ep.Path

		status, err := p.callAndSave(ctx, client, ep, callURL, outDir)
		switch {
		case err != nil:
			summary.Failed++
			p.log().Warn("probe call failed", "index", i+1, "targets", len(targets), "method", ep.Method, "path", ep.Path, "error", err)
		case httputil.IsSuccess(status):
			summary.OK++
			p.log().Info("probe call saved", "index", i+1, "targets", len(targets), "method", ep.Method, "path", ep.Path, "status", status)
		default:
			summary.Failed++
			p.log().Info("probe call not saved", "index", i+1, "targets", len(targets), "method", ep.Method, "path", ep.Path, "status", status)
		}

		if delay > 0 && i+1 < len(targets) {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return summary, ctx.Err()
			}
		}
	}

	p.log().Info("probe run complete", "ok", summary.OK, "failed", summary.Failed)
	return summary, nil
}

// callAndSave performs one endpoint call and writes the response record when
// the status is 2xx. It returns the HTTP status, or an error for transport
// and filesystem failures.
func (p *Prober) callAndSave(ctx context.Context, client *http.Client, ep dataset.Endpoint, callURL, outDir string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, strings.ToUpper(ep.Method), callURL, nil)
	if err != nil {
		return 0, &atlaserrors.ProbeError{Operation: "call", Endpoint: ep.ID, Cause: err}
	}
	if p.Token != "" {
		req.Header.Set("Authorization", "Bearer "+p.Token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, &atlaserrors.ProbeError{Operation: "call", Endpoint: ep.ID, Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, &atlaserrors.ProbeError{Operation: "call", Endpoint: ep.ID, Cause: err}
	}

	if !httputil.IsSuccess(resp.StatusCode) {
		return resp.StatusCode, nil
	}

	record := responseRecord(ep, callURL, resp, body)
	encoded, err := document.EncodeJSON(record)
	if err != nil {
		return 0, &atlaserrors.ProbeError{Operation: "save", Endpoint: ep.ID, Cause: err}
	}

	if err := os.MkdirAll(outDir, 0o750); err != nil {
		return 0, &atlaserrors.ProbeError{Operation: "save", Endpoint: ep.ID, Cause: err}
	}
	outPath := filepath.Join(outDir, SafeFileName(ep.Method, ep.Path))
	if err := os.WriteFile(outPath, append(encoded, '\n'), 0o600); err != nil {
		return 0, &atlaserrors.ProbeError{Operation: "save", Endpoint: ep.ID, Cause: err}
	}
	return resp.StatusCode, nil
}

// responseRecord assembles the saved JSON document for one successful call.
// JSON bodies are embedded as structured data; anything else is wrapped as
// text so the record itself stays valid JSON.
func responseRecord(ep dataset.Endpoint, callURL string, resp *http.Response, body []byte) *document.Map {
	request := document.NewMap()
	request.Set("method", strings.ToUpper(ep.Method))
	request.Set("path", ep.Path)
	request.Set("url", callURL)

	headers := document.NewMap()
	names := make([]string, 0, len(resp.Header))
	for name := range resp.Header {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		headers.Set(name, resp.Header.Get(name))
	}

	response := document.NewMap()
	response.Set("status", resp.StatusCode)
	response.Set("headers", headers)
	if decoded, err := document.DecodeJSON(body); err == nil {
		response.Set("json", decoded)
	} else {
		response.Set("text", string(body))
	}

	record := document.NewMap()
	record.Set("request", request)
	record.Set("response", response)
	return record
}

func (p *Prober) log() dataset.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return dataset.NopLogger{}
}
