package thermostat

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"syscall"
	"time"
)

// ErrorType represents the category of error that occurred
type ErrorType int

const (
	// ErrTypeNetwork indicates a network-level error (unreachable host, reset connection, etc.)
	ErrTypeNetwork ErrorType = iota
	// ErrTypeTimeout indicates a request timeout
	ErrTypeTimeout
	// ErrTypeConnectionRefused indicates the API endpoint refused the connection
	ErrTypeConnectionRefused
	// ErrTypeDNS indicates a DNS resolution failure
	ErrTypeDNS
	// ErrTypeAuth indicates the bearer token was rejected
	ErrTypeAuth
	// ErrTypeHTTP indicates an unexpected HTTP status code
	ErrTypeHTTP
	// ErrTypeRateLimit indicates the API answered 429 Too Many Requests
	ErrTypeRateLimit
	// ErrTypeRedirectLimit indicates a call was redirected more than MaxRedirects times
	ErrTypeRedirectLimit
	// ErrTypeParse indicates a malformed response body
	ErrTypeParse
	// ErrTypeLookup indicates the configured device is absent from the account snapshot
	ErrTypeLookup
	// ErrTypeValidation indicates an invalid temperature or mode
	ErrTypeValidation
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeNetwork:
		return "Network Error"
	case ErrTypeTimeout:
		return "Timeout"
	case ErrTypeConnectionRefused:
		return "Connection Refused"
	case ErrTypeDNS:
		return "DNS Error"
	case ErrTypeAuth:
		return "Authentication Error"
	case ErrTypeHTTP:
		return "HTTP Error"
	case ErrTypeRateLimit:
		return "Rate Limited"
	case ErrTypeRedirectLimit:
		return "Redirect Limit"
	case ErrTypeParse:
		return "Parse Error"
	case ErrTypeLookup:
		return "Lookup Error"
	case ErrTypeValidation:
		return "Validation Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// Error is returned by every Client operation.
type Error struct {
	Type       ErrorType     // Category of error
	Message    string        // Human-readable error message
	StatusCode int           // HTTP status code (if applicable)
	Err        error         // Underlying error (if any)
	Device     string        // Thermostat id the call was made for
	URL        string        // Last URL requested
	RetryAfter time.Duration // Server-advertised backoff for rate limits
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *Error) Unwrap() error {
	return e.Err
}

// ClassifyNetworkError analyzes a transport error and returns a more specific error type
func ClassifyNetworkError(err error) *Error {
	if err == nil {
		return nil
	}

	if os.IsTimeout(err) {
		return &Error{Type: ErrTypeTimeout, Message: "Request timed out", Err: err}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &Error{
			Type:    ErrTypeDNS,
			Message: fmt.Sprintf("DNS resolution failed for %s", dnsErr.Name),
			Err:     err,
		}
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if errors.Is(opErr.Err, syscall.ECONNREFUSED) {
			return &Error{Type: ErrTypeConnectionRefused, Message: "API endpoint refused connection", Err: err}
		}
		if errors.Is(opErr.Err, syscall.EHOSTUNREACH) || errors.Is(opErr.Err, syscall.ENETUNREACH) {
			return &Error{Type: ErrTypeNetwork, Message: "Host unreachable", Err: err}
		}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return ClassifyNetworkError(urlErr.Err)
	}

	return &Error{Type: ErrTypeNetwork, Message: "Network error occurred", Err: err}
}

// NewNetworkError creates a network-level error with automatic classification
func NewNetworkError(message string, err error) *Error {
	classified := ClassifyNetworkError(err)
	if classified == nil {
		return &Error{Type: ErrTypeNetwork, Message: message}
	}
	classified.Message = message
	return classified
}

// NewAuthError creates an authentication error
func NewAuthError(statusCode int, message string) *Error {
	return &Error{Type: ErrTypeAuth, Message: message, StatusCode: statusCode}
}

// NewHTTPError creates an HTTP-level error
func NewHTTPError(statusCode int, message string) *Error {
	return &Error{Type: ErrTypeHTTP, Message: message, StatusCode: statusCode}
}

// NewRateLimitError creates a rate limit error. retryAfter may be zero.
func NewRateLimitError(retryAfter time.Duration) *Error {
	msg := "rate limited by thermostat API"
	if retryAfter > 0 {
		msg = fmt.Sprintf("rate limited by thermostat API (retry after %s)", retryAfter)
	}
	return &Error{
		Type:       ErrTypeRateLimit,
		Message:    msg,
		StatusCode: http.StatusTooManyRequests,
		RetryAfter: retryAfter,
	}
}

// NewRedirectLimitError creates the error returned once a call exhausts its redirects
func NewRedirectLimitError(lastURL string) *Error {
	return &Error{
		Type:       ErrTypeRedirectLimit,
		Message:    "Too many redirects!",
		StatusCode: http.StatusTemporaryRedirect,
		URL:        lastURL,
	}
}

// NewParseError creates a parsing error
func NewParseError(message string, err error) *Error {
	return &Error{Type: ErrTypeParse, Message: message, Err: err}
}

// NewLookupError creates the error returned when a device is missing from a snapshot
func NewLookupError(device string) *Error {
	return &Error{
		Type:    ErrTypeLookup,
		Message: fmt.Sprintf("thermostat %q not found in account snapshot", device),
		Device:  device,
	}
}

// NewValidationError creates a validation error
func NewValidationError(message string) *Error {
	return &Error{Type: ErrTypeValidation, Message: message}
}

func errorType(err error) (ErrorType, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Type, true
	}
	return 0, false
}

func isType(err error, types ...ErrorType) bool {
	t, ok := errorType(err)
	if !ok {
		return false
	}
	for _, want := range types {
		if t == want {
			return true
		}
	}
	return false
}

// IsNetworkError checks if an error is a network error (including timeout, connection refused, DNS)
func IsNetworkError(err error) bool {
	return isType(err, ErrTypeNetwork, ErrTypeTimeout, ErrTypeConnectionRefused, ErrTypeDNS)
}

// IsAuthError checks if an error is an authentication error
func IsAuthError(err error) bool { return isType(err, ErrTypeAuth) }

// IsHTTPError checks if an error is an HTTP error
func IsHTTPError(err error) bool { return isType(err, ErrTypeHTTP) }

// IsRateLimitError checks if an error is a 429 rate limit error
func IsRateLimitError(err error) bool { return isType(err, ErrTypeRateLimit) }

// IsRedirectLimitError checks if a call gave up after too many redirects
func IsRedirectLimitError(err error) bool { return isType(err, ErrTypeRedirectLimit) }

// IsParseError checks if an error is a parse error
func IsParseError(err error) bool { return isType(err, ErrTypeParse) }

// IsLookupError checks if the device was missing from the account snapshot
func IsLookupError(err error) bool { return isType(err, ErrTypeLookup) }

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool { return isType(err, ErrTypeValidation) }

// GetTroubleshootingHint returns user-friendly troubleshooting advice for an error
func GetTroubleshootingHint(err error) []string {
	var e *Error
	if !errors.As(err, &e) {
		return nil
	}

	switch e.Type {
	case ErrTypeTimeout:
		return []string{
			"The thermostat API did not respond in time",
			"Check your internet connection",
			"Try again with a larger --timeout",
		}
	case ErrTypeConnectionRefused, ErrTypeNetwork:
		return []string{
			"Check your internet connection",
			"Verify base_url in your config if you overrode it",
		}
	case ErrTypeDNS:
		return []string{
			"Could not resolve the API hostname",
			"Check your network DNS settings",
		}
	case ErrTypeAuth:
		return []string{
			"The access token was rejected",
			"Generate a new token and update the token field in config.json",
		}
	case ErrTypeRateLimit:
		hint := []string{"The API is throttling this account"}
		if e.RetryAfter > 0 {
			hint = append(hint, fmt.Sprintf("Wait %s before trying again", e.RetryAfter))
		} else {
			hint = append(hint, "Wait a minute before trying again")
		}
		return hint
	case ErrTypeRedirectLimit:
		return []string{
			fmt.Sprintf("The API redirected the request more than %d times", MaxRedirects),
			"This is usually transient; try again shortly",
		}
	case ErrTypeLookup:
		return []string{
			"The device id in config.json does not match any thermostat on the account",
			"Copy the thermostat id from the account snapshot into the device field",
		}
	case ErrTypeParse:
		return []string{"The API returned a response this tool does not understand"}
	case ErrTypeHTTP:
		if e.StatusCode >= 500 {
			return []string{
				fmt.Sprintf("The API returned a server error (HTTP %d)", e.StatusCode),
				"Try again later",
			}
		}
		return []string{fmt.Sprintf("The API rejected the request (HTTP %d)", e.StatusCode)}
	}
	return nil
}

// GetShortErrorMessage returns a concise, user-friendly error message
func GetShortErrorMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}

	switch e.Type {
	case ErrTypeTimeout:
		return "Thermostat API not responding (timeout)"
	case ErrTypeConnectionRefused:
		return "Thermostat API refused connection"
	case ErrTypeDNS:
		return "Cannot resolve thermostat API hostname"
	case ErrTypeNetwork:
		return "Network error - check connection"
	case ErrTypeAuth:
		return "Authentication failed - check token"
	case ErrTypeHTTP:
		return fmt.Sprintf("Thermostat API error (HTTP %d)", e.StatusCode)
	case ErrTypeParse:
		return "Failed to parse thermostat API response"
	default:
		return e.Message
	}
}
