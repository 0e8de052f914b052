// Package document loads OpenAPI documents from files, URLs, or raw bytes
// into an order-preserving generic model.
//
// Unlike a plain map[string]any, the model keeps every mapping's source key
// order, which downstream consumers rely on when "first entry" semantics
// matter (response examples, media type fallback). See Map for details.
package document

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/erraggy/oasatlas"
	"github.com/erraggy/oasatlas/atlaserrors"
)

// SourceFormat represents the format of a source document.
type SourceFormat string

const (
	// SourceFormatYAML indicates the source was in YAML format
	SourceFormatYAML SourceFormat = "yaml"
	// SourceFormatJSON indicates the source was in JSON format
	SourceFormatJSON SourceFormat = "json"
	// SourceFormatUnknown indicates the source format could not be determined
	SourceFormatUnknown SourceFormat = "unknown"
)

// Document is a loaded OpenAPI document. Root is nil only when the source
// decoded to a non-mapping value.
type Document struct {
	// SourcePath is the file path or URL the document was loaded from
	SourcePath string
	// SourceFormat is the detected format of the source (JSON or YAML)
	SourceFormat SourceFormat
	// SourceSize is the size of the source data in bytes
	SourceSize int64
	// Root is the top-level mapping of the document
	Root *Map
}

// Require verifies that the document is usable as a primary OpenAPI input:
// a mapping with a paths section. It returns a DocumentError otherwise.
func (d *Document) Require() error {
	if d == nil || d.Root == nil {
		path := ""
		if d != nil {
			path = d.SourcePath
		}
		return &atlaserrors.DocumentError{Path: path, Message: "not a mapping"}
	}
	if !d.Root.Has("paths") {
		return &atlaserrors.DocumentError{Path: d.SourcePath, Message: "not an OpenAPI document: missing paths"}
	}
	return nil
}

// Loader loads OpenAPI documents. The zero value is usable.
type Loader struct {
	// HTTPClient is the client used for URL sources.
	// If nil, a default client with a 30-second timeout is used.
	HTTPClient *http.Client
	// UserAgent is sent when fetching URLs. Defaults to oasatlas.UserAgent().
	UserAgent string
}

// defaultHTTPTimeout is used when no HTTPClient is configured.
const defaultHTTPTimeout = 30 * time.Second

// Load reads a document from a file path or an http(s) URL.
func (l *Loader) Load(sourcePath string) (*Document, error) {
	if isURL(sourcePath) {
		return l.LoadURL(sourcePath)
	}

	data, err := os.ReadFile(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("document: failed to read file: %w", err)
	}

	doc, err := l.parse(data, detectFormatFromPath(sourcePath))
	if err != nil {
		return nil, &atlaserrors.DocumentError{Path: sourcePath, Cause: err}
	}
	doc.SourcePath = sourcePath
	return doc, nil
}

// LoadURL fetches a document over HTTP(S) and parses it.
func (l *Loader) LoadURL(url string) (*Document, error) {
	client := l.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("document: failed to create request: %w", err)
	}
	userAgent := l.UserAgent
	if userAgent == "" {
		userAgent = oasatlas.UserAgent()
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, &atlaserrors.FetchError{URL: url, Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &atlaserrors.FetchError{URL: url, StatusCode: resp.StatusCode, Message: "unexpected status"}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &atlaserrors.FetchError{URL: url, Cause: err}
	}

	format := detectFormatFromPath(url)
	if format == SourceFormatUnknown {
		format = detectFormatFromContentType(resp.Header.Get("Content-Type"))
	}
	doc, err := l.parse(data, format)
	if err != nil {
		return nil, &atlaserrors.DocumentError{Path: url, Cause: err}
	}
	doc.SourcePath = url
	return doc, nil
}

// ParseBytes parses a document from a byte slice, detecting the format
// from the content.
func (l *Loader) ParseBytes(data []byte) (*Document, error) {
	return l.parse(data, SourceFormatUnknown)
}

func (l *Loader) parse(data []byte, format SourceFormat) (*Document, error) {
	if format == SourceFormatUnknown {
		format = detectFormatFromContent(data)
	}

	var value any
	var err error
	switch format {
	case SourceFormatJSON:
		value, err = DecodeJSON(data)
	default:
		// YAML is a superset of JSON, so it is also the unknown-format path.
		format = SourceFormatYAML
		value, err = DecodeYAML(data)
	}
	if err != nil {
		return nil, err
	}

	root, _ := value.(*Map)
	return &Document{
		SourceFormat: format,
		SourceSize:   int64(len(data)),
		Root:         root,
	}, nil
}

// Load reads a document from a file path or URL using a default Loader.
func Load(sourcePath string) (*Document, error) {
	var l Loader
	return l.Load(sourcePath)
}

// ParseBytes parses a document from bytes using a default Loader.
func ParseBytes(data []byte) (*Document, error) {
	var l Loader
	return l.ParseBytes(data)
}

// detectFormatFromPath detects the source format from a file path or URL.
func detectFormatFromPath(path string) SourceFormat {
	switch filepath.Ext(path) {
	case ".json":
		return SourceFormatJSON
	case ".yaml", ".yml":
		return SourceFormatYAML
	default:
		return SourceFormatUnknown
	}
}

// detectFormatFromContentType detects the source format from a Content-Type header.
func detectFormatFromContentType(contentType string) SourceFormat {
	switch {
	case strings.Contains(contentType, "json"):
		return SourceFormatJSON
	case strings.Contains(contentType, "yaml"), strings.Contains(contentType, "yml"):
		return SourceFormatYAML
	default:
		return SourceFormatUnknown
	}
}

// detectFormatFromContent attempts to detect the format from the content bytes.
// JSON documents start with '{' or '['; YAML documents generally do not.
func detectFormatFromContent(data []byte) SourceFormat {
	trimmed := bytes.TrimLeft(data, " \t\n\r")
	if len(trimmed) == 0 {
		return SourceFormatUnknown
	}
	if trimmed[0] == '{' || trimmed[0] == '[' {
		return SourceFormatJSON
	}
	return SourceFormatYAML
}

// isURL determines if the given path is a URL (http:// or https://).
func isURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}
