// Package specfetch downloads published OpenAPI spec files to disk.
package specfetch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/erraggy/oasatlas"
	"github.com/erraggy/oasatlas/atlaserrors"
	"github.com/erraggy/oasatlas/dataset"
)

// defaultTimeout is used when no HTTPClient is configured. Spec files can be
// several megabytes, so this is longer than the usual request timeout.
const defaultTimeout = 60 * time.Second

// Result describes one completed download.
type Result struct {
	// URL the spec was downloaded from
	URL string
	// Path the spec was written to
	Path string
	// Size of the downloaded content in bytes
	Size int64
	// SHA256 is the hex digest of the downloaded content
	SHA256 string
}

// Fetcher downloads spec files. The zero value is usable.
type Fetcher struct {
	// HTTPClient is the client used for downloads.
	// If nil, a default client with a 60-second timeout is used.
	HTTPClient *http.Client
	// UserAgent is sent with each request. Defaults to oasatlas.UserAgent().
	UserAgent string
	// Logger is the structured logger for progress output.
	// If nil, logging is disabled (default).
	Logger dataset.Logger
}

// Download fetches url and writes its body to outPath, creating parent
// directories as needed. The file is written only after the full body has
// been received.
func (f *Fetcher) Download(ctx context.Context, url, outPath string) (*Result, error) {
	client := f.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("specfetch: failed to create request: %w", err)
	}
	userAgent := f.UserAgent
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

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &atlaserrors.FetchError{URL: url, Cause: err}
	}

	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("specfetch: failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(outPath, content, 0o600); err != nil {
		return nil, fmt.Errorf("specfetch: failed to write %s: %w", outPath, err)
	}

	digest := sha256.Sum256(content)
	result := &Result{
		URL:    url,
		Path:   outPath,
		Size:   int64(len(content)),
		SHA256: hex.EncodeToString(digest[:]),
	}
	f.log().Info("downloaded spec", "url", url, "path", outPath, "bytes", result.Size, "sha256", result.SHA256[:12])
	return result, nil
}

func (f *Fetcher) log() dataset.Logger {
	if f.Logger != nil {
		return f.Logger
	}
	return dataset.NopLogger{}
}
