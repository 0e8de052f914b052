package mcpserver

import (
	"log/slog"
	"os"
	"strconv"
)

// serverConfig holds all configurable MCP server defaults.
// Loaded once at startup from environment variables via loadConfig().
type serverConfig struct {
	// DatasetFile is the default dataset path when a tool call omits one.
	DatasetFile string

	// ListLimit is the default result limit for list tools.
	ListLimit int
	// DetailLimit is the default limit in detail mode.
	DetailLimit int
	// MaxLimit caps any requested limit.
	MaxLimit int

	// MaxDepth is the default example synthesis recursion cap for build_dataset.
	MaxDepth int
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// loadConfig reads configuration from OASATLAS_* environment variables.
// Invalid values log a warning and fall back to the hardcoded default.
func loadConfig() *serverConfig {
	return &serverConfig{
		DatasetFile: os.Getenv("OASATLAS_DATASET_FILE"),
		ListLimit:   envInt("OASATLAS_LIST_LIMIT", 100),
		DetailLimit: envInt("OASATLAS_DETAIL_LIMIT", 25),
		MaxLimit:    envInt("OASATLAS_MAX_LIMIT", 500),
		MaxDepth:    envInt("OASATLAS_MAX_DEPTH", 6),
	}
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return n
}
