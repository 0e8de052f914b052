package probe

import (
	"fmt"
	"os"
	"strings"
)

// Environment variable names understood by ConfigFromEnv.
const (
	// EnvBaseURL is the API base URL to probe
	EnvBaseURL = "OASATLAS_BASE_URL"
	// EnvClientID is the OAuth client id used to authenticate
	EnvClientID = "OASATLAS_CLIENT_ID"
	// EnvClientSecret is the OAuth client secret used to authenticate
	EnvClientSecret = "OASATLAS_CLIENT_SECRET"
	// EnvERPToken is the installation token sent as the X-Token header
	EnvERPToken = "OASATLAS_ERP_TOKEN"
	// EnvAccessToken is a pre-issued bearer token; when set, authentication is skipped
	EnvAccessToken = "OASATLAS_ACCESS_TOKEN"
)

// Config carries the credentials needed to authenticate and probe an API.
type Config struct {
	// BaseURL is the API base URL, without a trailing slash requirement
	BaseURL string
	// ClientID is the OAuth client id
	ClientID string
	// ClientSecret is the OAuth client secret
	ClientSecret string
	// ERPToken is the installation token sent as X-Token during authentication
	ERPToken string
	// AccessToken is an optional pre-issued bearer token. When non-empty the
	// authentication call is skipped.
	AccessToken string
}

// LoadDotenv reads a .env file and sets each KEY=VALUE pair into the process
// environment. Variables already set by the shell win over file values. A
// missing file is not an error.
func LoadDotenv(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("probe: failed to read %s: %w", path, err)
	}

	for _, rawLine := range strings.Split(string(data), "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key == "" {
			continue
		}
		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return fmt.Errorf("probe: failed to set %s: %w", key, err)
		}
	}
	return nil
}

// ConfigFromEnv builds a Config from the process environment. BaseURL is
// always required; the credential trio is required only when no pre-issued
// access token is present.
func ConfigFromEnv() (*Config, error) {
	cfg := &Config{
		BaseURL:      os.Getenv(EnvBaseURL),
		ClientID:     os.Getenv(EnvClientID),
		ClientSecret: os.Getenv(EnvClientSecret),
		ERPToken:     os.Getenv(EnvERPToken),
		AccessToken:  os.Getenv(EnvAccessToken),
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("probe: missing env var: %s", EnvBaseURL)
	}
	if cfg.AccessToken == "" {
		required := []struct{ name, value string }{
			{EnvClientID, cfg.ClientID},
			{EnvClientSecret, cfg.ClientSecret},
			{EnvERPToken, cfg.ERPToken},
		}
		for _, v := range required {
			if v.value == "" {
				return nil, fmt.Errorf("probe: missing env var: %s", v.name)
			}
		}
	}
	return cfg, nil
}
