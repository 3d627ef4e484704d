package thermostat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/muurk/nestctl/internal/logging"
)

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 1 << 20

// Client talks to the thermostat cloud API on behalf of a single device.
// Client instances are safe for concurrent use.
type Client struct {
	baseURL      string
	device       string
	maxRedirects int
	userAgent    string
	httpClient   *http.Client
}

// NewClient creates a client for device authenticated with a pre-provisioned
// bearer token.
func NewClient(device, token string, opts ...ClientOption) (*Client, error) {
	if strings.TrimSpace(device) == "" {
		return nil, errors.New("device id is required")
	}
	if strings.TrimSpace(token) == "" {
		return nil, errors.New("access token is required")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	var hc http.Client
	if cfg.httpClient != nil {
		hc = *cfg.httpClient
	}
	if hc.Timeout == 0 {
		hc.Timeout = cfg.timeout
	}
	base := hc.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	hc.Transport = &oauth2.Transport{
		Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}),
		Base:   base,
	}
	// Redirects are followed by do() so the counter stays per call and the
	// Authorization header survives cross-host hops.
	hc.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	return &Client{
		baseURL:      cfg.baseURL,
		device:       device,
		maxRedirects: cfg.maxRedirects,
		userAgent:    cfg.userAgent,
		httpClient:   &hc,
	}, nil
}

// Device returns the thermostat id the client was created for.
func (c *Client) Device() string {
	return c.device
}

// request is an immutable description of one logical API call. Every
// redirect hop builds a fresh *http.Request from it.
type request struct {
	method string
	url    string
	header http.Header
	body   []byte
}

func (r request) build(ctx context.Context, target string) (*http.Request, error) {
	var body io.Reader
	if r.body != nil {
		body = bytes.NewReader(r.body)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		return nil, err
	}
	for k, v := range r.header {
		req.Header[k] = append([]string(nil), v...)
	}
	return req, nil
}

// Read returns the device's current target temperature from the account snapshot.
func (c *Client) Read(ctx context.Context) (float64, error) {
	body, err := c.do(ctx, "read", request{
		method: http.MethodGet,
		url:    c.baseURL + "/",
		header: c.header(),
	})
	if err != nil {
		return 0, err
	}

	tempF, err := ParseTargetTemperature(body, c.device)
	if err != nil {
		return 0, c.annotate(err, c.baseURL+"/")
	}
	return tempF, nil
}

// Write sends a single PUT containing exactly the fields set in u.
func (c *Client) Write(ctx context.Context, u Update) error {
	if u.IsEmpty() {
		return NewValidationError("update has no fields to write")
	}
	if u.TargetTemperatureF != nil {
		if err := ValidateTemperature(*u.TargetTemperatureF); err != nil {
			return err
		}
	}
	if u.HVACMode != nil {
		if _, err := ValidateMode(string(*u.HVACMode)); err != nil {
			return err
		}
	}

	data, err := json.Marshal(u)
	if err != nil {
		return NewParseError("failed to encode update", err)
	}

	header := c.header()
	header.Set("Content-Type", "application/json")

	body, err := c.do(ctx, "write "+u.String(), request{
		method: http.MethodPut,
		url:    c.deviceURL(),
		header: header,
		body:   data,
	})
	if err != nil {
		return err
	}

	logging.Debug("Write acknowledged", zap.String("device", c.device), zap.String("body", string(body)))
	return nil
}

func (c *Client) header() http.Header {
	h := make(http.Header)
	if c.userAgent != "" {
		h.Set("User-Agent", c.userAgent)
	}
	return h
}

func (c *Client) deviceURL() string {
	return c.baseURL + "/devices/thermostats/" + url.PathEscape(c.device)
}

// do runs the redirect-following request cycle for one logical call and
// returns the body of the final 2xx response.
func (c *Client) do(ctx context.Context, operation string, r request) ([]byte, error) {
	callID := uuid.NewString()
	target := r.url

	for hop := 0; ; hop++ {
		req, err := r.build(ctx, target)
		if err != nil {
			return nil, c.annotate(NewNetworkError(fmt.Sprintf("failed to create %s request", r.method), err), target)
		}

		logging.LogRequest(callID, r.method, target, hop)
		start := time.Now()

		resp, err := c.httpClient.Do(req)
		if err != nil {
			derr := c.annotate(NewNetworkError(fmt.Sprintf("%s request failed", r.method), err), target)
			logging.LogCallFailed(callID, operation, derr)
			return nil, derr
		}
		body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
		_ = resp.Body.Close()
		logging.LogResponse(callID, resp.StatusCode, time.Since(start))

		switch {
		case resp.StatusCode == http.StatusTemporaryRedirect:
			if hop >= c.maxRedirects {
				derr := c.annotate(NewRedirectLimitError(target), target)
				logging.LogCallFailed(callID, operation, derr)
				return nil, derr
			}
			next, err := resolveLocation(target, resp.Header.Get("Location"))
			if err != nil {
				derr := c.annotate(NewHTTPError(resp.StatusCode, err.Error()), target)
				logging.LogCallFailed(callID, operation, derr)
				return nil, derr
			}
			logging.LogRedirect(callID, target, next, hop+1)
			target = next
			continue

		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			if readErr != nil {
				return nil, c.annotate(NewNetworkError("failed to read response body", readErr), target)
			}
			if len(body) > maxResponseBytes {
				derr := c.annotate(NewParseError(fmt.Sprintf("response body exceeds %d bytes", maxResponseBytes), nil), target)
				logging.LogCallFailed(callID, operation, derr)
				return nil, derr
			}
			return body, nil
		}

		derr := c.annotate(classifyStatus(resp, body), target)
		logging.LogCallFailed(callID, operation, derr)
		return nil, derr
	}
}

func (c *Client) annotate(err error, target string) error {
	var e *Error
	if errors.As(err, &e) {
		if e.Device == "" {
			e.Device = c.device
		}
		if e.URL == "" {
			e.URL = target
		}
	}
	return err
}

// classifyStatus maps a non-2xx, non-307 response onto the error taxonomy.
func classifyStatus(resp *http.Response, body []byte) *Error {
	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		return NewRateLimitError(parseRetryAfter(resp.Header.Get("Retry-After"), time.Now()))
	case http.StatusUnauthorized, http.StatusForbidden:
		return NewAuthError(resp.StatusCode, "access token rejected (check token in config)")
	}

	msg := fmt.Sprintf("unexpected status code: %d", resp.StatusCode)
	if detail := apiErrorMessage(body); detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, detail)
	}
	return NewHTTPError(resp.StatusCode, msg)
}

// apiErrorMessage extracts the "error" or "message" field the API puts in
// failure bodies, falling back to the trimmed raw body.
func apiErrorMessage(body []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	text := strings.TrimSpace(string(body))
	if len(text) > 200 {
		text = text[:200] + "..."
	}
	return text
}

// resolveLocation resolves a Location header against the URL that produced it.
func resolveLocation(current, location string) (string, error) {
	if strings.TrimSpace(location) == "" {
		return "", errors.New("redirect response without Location header")
	}
	base, err := url.Parse(current)
	if err != nil {
		return "", fmt.Errorf("invalid request URL: %w", err)
	}
	ref, err := url.Parse(location)
	if err != nil {
		return "", fmt.Errorf("invalid Location header %q: %w", location, err)
	}
	return base.ResolveReference(ref).String(), nil
}

// parseRetryAfter accepts both delta-seconds and HTTP-date forms.
func parseRetryAfter(value string, now time.Time) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	if secs, err := strconv.Atoi(value); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(value); err == nil {
		if d := at.Sub(now); d > 0 {
			return d.Round(time.Second)
		}
	}
	return 0
}
