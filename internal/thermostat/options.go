package thermostat

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the vendor cloud API root.
	DefaultBaseURL = "https://developer-api.nest.com"

	// DefaultTimeout bounds each HTTP exchange. Every redirect hop is its own
	// exchange, so one call can take up to (MaxRedirects+1) times this.
	DefaultTimeout = 30 * time.Second

	// MaxRedirects is how many 307 redirects a single call follows before giving up.
	MaxRedirects = 3
)

// ClientOption configures a Client.
type ClientOption func(*clientConfig) error

type clientConfig struct {
	baseURL      string
	timeout      time.Duration
	maxRedirects int
	userAgent    string
	httpClient   *http.Client
}

func defaultConfig() *clientConfig {
	return &clientConfig{
		baseURL:      DefaultBaseURL,
		timeout:      DefaultTimeout,
		maxRedirects: MaxRedirects,
	}
}

// WithBaseURL points the client at a different API root, e.g. a staging
// endpoint or a test server. Default is DefaultBaseURL.
func WithBaseURL(raw string) ClientOption {
	return func(c *clientConfig) error {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return nil
		}
		u, err := url.Parse(raw)
		if err != nil {
			return err
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return errors.New("base URL must use http or https")
		}
		if u.Host == "" {
			return errors.New("base URL must include a host")
		}
		c.baseURL = strings.TrimRight(raw, "/")
		return nil
	}
}

// WithTimeout sets the HTTP client timeout, applied to each request and to
// each redirect hop separately. Default is 30 seconds.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *clientConfig) error {
		if d <= 0 {
			return errors.New("timeout must be positive")
		}
		c.timeout = d
		return nil
	}
}

// WithHTTPClient sets the underlying HTTP client. Its transport is wrapped to
// add the bearer token and its redirect policy is replaced, since the client
// follows 307 responses itself.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *clientConfig) error {
		if hc == nil {
			return errors.New("http client must not be nil")
		}
		c.httpClient = hc
		return nil
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) ClientOption {
	return func(c *clientConfig) error {
		c.userAgent = strings.TrimSpace(ua)
		return nil
	}
}

// withMaxRedirects overrides the redirect cap. Tests only.
func withMaxRedirects(n int) ClientOption {
	return func(c *clientConfig) error {
		if n < 0 {
			return errors.New("max redirects must not be negative")
		}
		c.maxRedirects = n
		return nil
	}
}
