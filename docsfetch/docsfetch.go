// Package docsfetch retrieves the docs-embedded schema that hosted API
// reference pages carry in their server-rendered HTML.
//
// Hosted docs render one page per endpoint and embed the full OpenAPI schema
// as an HTML-escaped JSON blob in a data-initial-props attribute. Fetching
// any single endpoint page therefore yields the schema for the whole API;
// the seed helpers pick a deterministic first endpoint to fetch.
package docsfetch

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/erraggy/oasatlas"
	"github.com/erraggy/oasatlas/atlaserrors"
	"github.com/erraggy/oasatlas/dataset"
	"github.com/erraggy/oasatlas/document"
	"github.com/erraggy/oasatlas/internal/httputil"
)

// propsPattern extracts the embedded JSON state. The attribute value can span
// many lines, hence (?s).
var propsPattern = regexp.MustCompile(`(?s)data-initial-props="(.*?)"`)

// defaultTimeout is used when no HTTPClient is configured.
const defaultTimeout = 30 * time.Second

// Fetcher fetches docs-embedded schemas. The zero value is usable.
type Fetcher struct {
	// HTTPClient is the client used for requests.
	// If nil, a default client with a 30-second timeout is used.
	HTTPClient *http.Client
	// UserAgent is sent with each request. Defaults to oasatlas.UserAgent().
	UserAgent string
	// Logger is the structured logger for debug output.
	// If nil, logging is disabled (default).
	Logger dataset.Logger
}

// FetchSchema downloads a docs page and extracts the embedded OpenAPI schema
// from its data-initial-props attribute. All failure modes return a
// FetchError; callers that treat the schema as optional should degrade to a
// nil schema rather than abort.
func (f *Fetcher) FetchSchema(ctx context.Context, pageURL string) (*document.Map, error) {
	client := f.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("docsfetch: failed to create request: %w", err)
	}
	userAgent := f.UserAgent
	if userAgent == "" {
		userAgent = oasatlas.UserAgent()
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, &atlaserrors.FetchError{URL: pageURL, Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &atlaserrors.FetchError{URL: pageURL, StatusCode: resp.StatusCode, Message: "unexpected status"}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &atlaserrors.FetchError{URL: pageURL, Cause: err}
	}

	m := propsPattern.FindSubmatch(body)
	if m == nil {
		return nil, &atlaserrors.FetchError{URL: pageURL, Message: "no data-initial-props attribute found"}
	}

	props, err := document.DecodeJSON([]byte(html.UnescapeString(string(m[1]))))
	if err != nil {
		return nil, &atlaserrors.FetchError{URL: pageURL, Message: "embedded props are not valid JSON", Cause: err}
	}

	propsMap, _ := props.(*document.Map)
	schema := propsMap.Map("document").Map("api").Map("schema")
	if schema == nil {
		return nil, &atlaserrors.FetchError{URL: pageURL, Message: "embedded props carry no schema"}
	}

	f.log().Debug("fetched docs schema", "url", pageURL, "bytes", len(body))
	return schema, nil
}

func (f *Fetcher) log() dataset.Logger {
	if f.Logger != nil {
		return f.Logger
	}
	return dataset.NopLogger{}
}

// EndpointSlug derives the docs page slug for an operation: the lowercased
// method, an underscore, then the path segments lowercased and joined with
// hyphens. Parameter braces are stripped ("/users/{userId}" yields
// "get_users-userid").
func EndpointSlug(method, path string) string {
	var parts []string
	for _, seg := range strings.Split(strings.Trim(path, "/"), "/") {
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
			seg = strings.TrimSpace(seg[1 : len(seg)-1])
		}
		parts = append(parts, strings.ToLower(seg))
	}
	return strings.ToLower(method) + "_" + strings.Join(parts, "-")
}

// SeedSlug picks the slug of the first operation in the document: paths in
// sorted order, methods in a fixed preference order. Returns false when the
// document declares no operations.
func SeedSlug(root *document.Map) (string, bool) {
	paths := root.Map("paths")
	sorted := append([]string(nil), paths.Keys()...)
	sort.Strings(sorted)

	for _, path := range sorted {
		pathItem := paths.Map(path)
		if pathItem == nil {
			continue
		}
		for _, method := range httputil.SeedMethods {
			if pathItem.Map(method) != nil {
				return EndpointSlug(method, path), true
			}
		}
	}
	return "", false
}

// SeedURL joins a docs base URL and a page slug.
func SeedURL(docsBase, slug string) string {
	return strings.TrimRight(docsBase, "/") + "/" + slug
}
