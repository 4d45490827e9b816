package gateway

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/prilive-com/onboardiq/internal/resilience"
)

// Sentinel errors - use with errors.Is()
var (
	ErrTransport   = errors.New("gateway: transport failure")
	ErrTimeout     = errors.New("gateway: attempt timed out")
	ErrAuth        = errors.New("gateway: authentication failed")
	ErrNotFound    = errors.New("gateway: not found")
	ErrRateLimited = errors.New("gateway: rate limited")
	ErrCircuitOpen = errors.New("gateway: circuit breaker open")
	ErrRejected    = errors.New("gateway: request rejected")

	ErrInvalidConfig = errors.New("gateway: invalid configuration")
	ErrTypeMismatch  = errors.New("gateway: result type mismatch")
)

// Kind classifies a failed call.
type Kind int

const (
	KindUnknown Kind = iota
	KindTransport
	KindTimeout
	KindAuth
	KindNotFound
	KindRateLimited
	KindCircuitOpen
	KindRejected
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindTimeout:
		return "timeout"
	case KindAuth:
		return "auth"
	case KindNotFound:
		return "not_found"
	case KindRateLimited:
		return "rate_limited"
	case KindCircuitOpen:
		return "circuit_open"
	case KindRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Retryable reports whether a failure of this kind is worth another attempt.
func (k Kind) Retryable() bool {
	switch k {
	case KindTransport, KindTimeout, KindRateLimited:
		return true
	default:
		return false
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindTransport:
		return ErrTransport
	case KindTimeout:
		return ErrTimeout
	case KindAuth:
		return ErrAuth
	case KindNotFound:
		return ErrNotFound
	case KindRateLimited:
		return ErrRateLimited
	case KindCircuitOpen:
		return ErrCircuitOpen
	case KindRejected:
		return ErrRejected
	default:
		return nil
	}
}

// CallError is returned by Execute when a call fails.
// Use errors.Is() with the Err* sentinels to match the kind and errors.As()
// to reach the operation's own error.
type CallError struct {
	Kind       Kind
	Key        string
	Attempts   int
	Elapsed    time.Duration
	StatusCode int           // HTTP-equivalent status, if the operation reported one
	RetryAfter time.Duration // Server-suggested delay, if any
	Err        error         // Underlying cause
}

func (e *CallError) Error() string {
	var b strings.Builder
	b.WriteString("gateway: ")
	if e.Key != "" {
		b.WriteString(e.Key)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.String())
	if e.Attempts > 0 {
		fmt.Fprintf(&b, " after %d attempt(s) in %s", e.Attempts, e.Elapsed.Round(time.Millisecond))
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes both the kind sentinel and the underlying cause.
func (e *CallError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if s := e.Kind.sentinel(); s != nil {
		errs = append(errs, s)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// Retryable reports whether the error is temporary and may succeed on retry.
func (e *CallError) Retryable() bool { return e.Kind.Retryable() }

// StatusError is an HTTP-style failure an operation can return to let the
// gateway classify it by status code.
type StatusError struct {
	Code       int
	Message    string
	RetryAfter time.Duration
}

func (e *StatusError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Code)
	}
	if e.RetryAfter > 0 {
		return fmt.Sprintf("HTTP %d: %s (retry_after=%s)", e.Code, msg, e.RetryAfter)
	}
	return fmt.Sprintf("HTTP %d: %s", e.Code, msg)
}

// Kind returns the failure kind implied by the status code.
func (e *StatusError) Kind() Kind { return KindFromStatus(e.Code) }

// NewStatusError creates a StatusError.
func NewStatusError(code int, message string) *StatusError {
	return &StatusError{Code: code, Message: message}
}

// KindFromStatus maps an HTTP status code to a failure kind.
func KindFromStatus(code int) Kind {
	switch {
	case code == http.StatusUnauthorized, code == http.StatusForbidden:
		return KindAuth
	case code == http.StatusNotFound, code == http.StatusGone:
		return KindNotFound
	case code == http.StatusTooManyRequests:
		return KindRateLimited
	case code == http.StatusRequestTimeout, code == http.StatusGatewayTimeout:
		return KindTimeout
	case code >= 500:
		return KindTransport
	case code >= 400:
		return KindRejected
	default:
		return KindTransport
	}
}

// Permanent marks err as not retryable.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &CallError{Kind: KindRejected, Err: err}
}

// Classify converts an operation error into a CallError.
// It never returns a CallError the caller already holds; existing ones are copied.
func Classify(err error) *CallError {
	if err == nil {
		return nil
	}

	var callErr *CallError
	if errors.As(err, &callErr) {
		c := *callErr
		return &c
	}

	if resilience.IsRejection(err) {
		return &CallError{Kind: KindCircuitOpen, Err: err}
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return &CallError{
			Kind:       statusErr.Kind(),
			StatusCode: statusErr.Code,
			RetryAfter: statusErr.RetryAfter,
			Err:        err,
		}
	}

	for _, k := range []Kind{KindAuth, KindNotFound, KindRateLimited, KindTimeout, KindRejected, KindCircuitOpen, KindTransport} {
		if errors.Is(err, k.sentinel()) {
			return &CallError{Kind: k, Err: err}
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &CallError{Kind: KindTimeout, Err: err}
	}

	return &CallError{Kind: KindTransport, Err: err}
}

// KindOf returns the failure kind of err, or KindUnknown for nil.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	return Classify(err).Kind
}

func timeoutError(timeout time.Duration, cause error) *CallError {
	if cause != nil {
		return &CallError{Kind: KindTimeout, Err: fmt.Errorf("no result within %s: %v", timeout, cause)}
	}
	return &CallError{Kind: KindTimeout, Err: fmt.Errorf("no result within %s", timeout)}
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Key     string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("gateway: config: %s - %s", e.Key, e.Message)
}

// Unwrap returns ErrInvalidConfig.
func (e *ConfigError) Unwrap() error { return ErrInvalidConfig }

func newConfigError(key, message string) *ConfigError {
	return &ConfigError{Key: key, Message: message}
}
