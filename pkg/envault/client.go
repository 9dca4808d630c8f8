package envault

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// Version is the client library version reported in the User-Agent header.
const Version = "1.2.0"

const (
	// DefaultBaseURL is the production Envault API host.
	DefaultBaseURL = "https://api.envault.systmms.dev"

	// DefaultTimeout bounds every request unless overridden.
	DefaultTimeout = 30 * time.Second

	// EnvBaseURL overrides the API host when the Config field is empty.
	EnvBaseURL = "ENVAULT_API_URL"

	// EnvCacheTTL sets the export cache TTL in whole seconds when the
	// Config field is zero.
	EnvCacheTTL = "ENVAULT_CACHE_TTL"
)

// Config configures a Client. Token is the only required field.
type Config struct {
	// Token is the bearer token, either a user token or a service token.
	Token string

	// BaseURL overrides the API host. Defaults to the ENVAULT_API_URL
	// environment variable, then DefaultBaseURL.
	BaseURL string

	// Timeout bounds each request end to end. Defaults to DefaultTimeout.
	Timeout time.Duration

	// CacheTTL enables the export cache when positive. Defaults to the
	// ENVAULT_CACHE_TTL environment variable (seconds); zero or negative
	// disables caching.
	CacheTTL time.Duration

	// HTTPClient replaces the underlying transport, mainly for tests.
	// The client's own timeout handling still applies.
	HTTPClient *http.Client

	// EnvWriter receives variables written by LoadEnv. Defaults to the
	// ambient process environment.
	EnvWriter EnvWriter
}

// Client talks to the Envault API. Each instance owns its export cache;
// two clients never share cached entries. All methods are safe for
// concurrent use.
type Client struct {
	token      string
	baseURL    string
	userAgent  string
	timeout    time.Duration
	httpClient *http.Client
	envWriter  EnvWriter
	cache      *exportCache
}

// New creates a Client from cfg. It fails if the token is empty.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, fmt.Errorf("envault: token is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = os.Getenv(EnvBaseURL)
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	ttl := cfg.CacheTTL
	if ttl == 0 {
		if raw := os.Getenv(EnvCacheTTL); raw != "" {
			if secs, err := strconv.Atoi(raw); err == nil {
				ttl = time.Duration(secs) * time.Second
			}
		}
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	envWriter := cfg.EnvWriter
	if envWriter == nil {
		envWriter = osEnvWriter{}
	}

	return &Client{
		token:      cfg.Token,
		baseURL:    baseURL,
		userAgent:  "envault-go/" + Version,
		timeout:    timeout,
		httpClient: httpClient,
		envWriter:  envWriter,
		cache:      newExportCache(ttl),
	}, nil
}

// BaseURL returns the resolved API host.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// CacheTTL returns the export cache validity window; zero means caching is
// disabled.
func (c *Client) CacheTTL() time.Duration {
	return c.cache.ttl
}
