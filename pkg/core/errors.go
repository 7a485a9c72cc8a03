package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel errors for common failure conditions.
var (
	// ErrClientClosed is returned when attempting to use a closed client.
	ErrClientClosed = errors.New("client is closed")
	// ErrCircuitBreakerOpen is returned when the circuit breaker is open.
	ErrCircuitBreakerOpen = errors.New("circuit breaker is open")
	// ErrNoCredentials is returned when no API credentials are configured.
	ErrNoCredentials = errors.New("no credentials configured")
)

// retryableSignatures is the fixed list of transient-failure signatures.
// Matching is substring based and case sensitive. The raw errno-style
// tokens cover errors whose text was produced upstream of Go's net
// package; the rest match the wording of Go's own transport errors.
var retryableSignatures = []string{
	"ETIMEDOUT",
	"ESOCKETTIMEDOUT",
	"ECONNRESET",
	"ECONNREFUSED",
	"ENOTFOUND",
	"i/o timeout",
	"connection reset",
	"connection refused",
	"no such host",
	"context deadline exceeded",
}

// TraderError is a classified failure surfaced by the adapter.
// Retryable marks transient conditions (network faults, rate limiting,
// timestamp drift, server-side errors) that the retry helper may safely
// re-attempt. Everything else is fatal: retrying a fatal error would
// resubmit an invalid order or loop forever. The original error text is
// always preserved.
type TraderError struct {
	// Exchange identifies which adapter produced this error.
	Exchange string `json:"exchange"`
	// StatusCode is the HTTP status code, 0 when not applicable.
	StatusCode int `json:"status_code"`
	// Code is the exchange-specific error code, 0 when not applicable.
	Code int `json:"code"`
	// Message is the human-readable error description.
	Message string `json:"message"`
	// Retryable reports whether the operation may be re-attempted.
	Retryable bool `json:"retryable"`
	// Timestamp is when the error was classified.
	Timestamp time.Time `json:"timestamp"`

	cause error
}

// Error implements the error interface. The message is prefixed with
// the exchange identifier for traceability.
func (e *TraderError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("[%s] %d: %s", e.Exchange, e.Code, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Exchange, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *TraderError) Unwrap() error {
	return e.cause
}

// NewAPIError classifies an error payload returned by the exchange.
// Binance code -1021 (timestamp drift), HTTP 429 and any HTTP 5xx are
// transient; every other API error is fatal.
func NewAPIError(exchange string, statusCode, code int, message string) *TraderError {
	return &TraderError{
		Exchange:   exchange,
		StatusCode: statusCode,
		Code:       code,
		Message:    message,
		Retryable:  code == -1021 || statusCode == 429 || statusCode >= 500,
		Timestamp:  time.Now(),
	}
}

// NewTransientError marks err retryable regardless of its text, for
// conditions known to be transient by construction.
func NewTransientError(exchange string, err error) *TraderError {
	return &TraderError{
		Exchange:  exchange,
		Message:   err.Error(),
		Retryable: true,
		Timestamp: time.Now(),
		cause:     err,
	}
}

// Classify wraps err into a TraderError, deciding retryability from the
// fixed signature list. Already-classified errors pass through
// unchanged so a verdict is never re-derived. Unmatched errors are
// fatal by default: the conservative choice, since a blind retry could
// submit a duplicate order.
func Classify(exchange string, err error) *TraderError {
	if err == nil {
		return nil
	}

	var te *TraderError
	if errors.As(err, &te) {
		return te
	}

	msg := err.Error()
	return &TraderError{
		Exchange:  exchange,
		Message:   msg,
		Retryable: matchesRetryableSignature(msg),
		Timestamp: time.Now(),
		cause:     err,
	}
}

func matchesRetryableSignature(msg string) bool {
	for _, sig := range retryableSignatures {
		if strings.Contains(msg, sig) {
			return true
		}
	}
	return false
}

// IsRetryable reports whether err has been classified as transient.
// This is the only retryability test callers may rely on.
func IsRetryable(err error) bool {
	var te *TraderError
	if errors.As(err, &te) {
		return te.Retryable
	}
	return false
}
