package mcpserver

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/erraggy/oasatlas/dataset"
	"github.com/erraggy/oasatlas/document"
)

// specInput represents the three ways an OpenAPI document can be provided to
// a tool. Exactly one of File, URL, or Content must be set.
type specInput struct {
	File    string `json:"file,omitempty"    jsonschema:"Path to an OpenAPI file on disk"`
	URL     string `json:"url,omitempty"     jsonschema:"URL to fetch an OpenAPI document from"`
	Content string `json:"content,omitempty" jsonschema:"Inline OpenAPI document content (JSON or YAML)"`
}

// resolve loads the document from whichever source is set.
func (s specInput) resolve() (*document.Document, error) {
	set := 0
	for _, v := range []string{s.File, s.URL, s.Content} {
		if v != "" {
			set++
		}
	}
	if set != 1 {
		return nil, fmt.Errorf("exactly one of file, url, or content must be provided")
	}

	switch {
	case s.Content != "":
		return document.ParseBytes([]byte(s.Content))
	case s.URL != "":
		return document.Load(s.URL)
	default:
		return document.Load(s.File)
	}
}

// datasetEntry holds a cached dataset keyed by file modification time.
type datasetEntry struct {
	dataset *dataset.Dataset
	modTime time.Time
}

// datasetStore caches loaded datasets per session so repeated list/get calls
// against the same file do not re-read and re-decode it. Entries are
// invalidated when the file's mtime changes.
type datasetStore struct {
	mu      sync.Mutex
	entries map[string]*datasetEntry
}

var datasets = &datasetStore{entries: make(map[string]*datasetEntry)}

// load returns the dataset at path, reusing the cached decode when the file
// has not changed since it was last read. An empty path falls back to the
// configured default dataset file.
func (s *datasetStore) load(path string) (*dataset.Dataset, error) {
	if path == "" {
		path = cfg.DatasetFile
	}
	if path == "" {
		return nil, fmt.Errorf("no dataset file provided and OASATLAS_DATASET_FILE is not set")
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat dataset: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.entries[path]; ok && entry.modTime.Equal(info.ModTime()) {
		return entry.dataset, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}
	ds, err := dataset.Unmarshal(data)
	if err != nil {
		return nil, err
	}

	s.entries[path] = &datasetEntry{dataset: ds, modTime: info.ModTime()}
	return ds, nil
}

// findEndpoint returns the endpoint with the given id, or an error naming it.
func findEndpoint(ds *dataset.Dataset, id string) (*dataset.Endpoint, error) {
	for i := range ds.Endpoints {
		if ds.Endpoints[i].ID == id {
			return &ds.Endpoints[i], nil
		}
	}
	return nil, fmt.Errorf("endpoint %q not found in dataset", id)
}
