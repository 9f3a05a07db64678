package etevents

import (
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// DeliveryFailure is a failed delivery attempt that may succeed if it is tried again: a network
// error, a server error, or a request to slow down.
type DeliveryFailure struct {
	// StatusCode is the HTTP status received, or zero if no response was received.
	StatusCode int
	// Err is the underlying network error, if any.
	Err error
}

func (e *DeliveryFailure) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("event delivery failed: %v", e.Err)
	}
	return fmt.Sprintf("event delivery failed with HTTP status %d", e.StatusCode)
}

func (e *DeliveryFailure) Unwrap() error {
	return e.Err
}

// PermanentDeliveryFailure is a failed delivery attempt that would fail the same way if it were
// repeated, such as an HTTP 4xx status other than 408 or 429.
type PermanentDeliveryFailure struct {
	StatusCode int
}

func (e *PermanentDeliveryFailure) Error() string {
	return fmt.Sprintf("event rejected with HTTP status %d%s", e.StatusCode, describeStatus(e.StatusCode))
}

func describeStatus(statusCode int) string {
	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return " (invalid API key)"
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return " (malformed event)"
	default:
		return ""
	}
}

func isHTTPSuccess(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}

// Tests whether an HTTP error status represents a condition that might resolve on its own if we retry.
func isHTTPErrorRecoverable(statusCode int) bool {
	if statusCode >= 400 && statusCode < 500 {
		switch statusCode {
		case 408: // request timeout
			return true
		case 429: // too many requests
			return true
		default:
			return false // all other 4xx errors are unrecoverable
		}
	}
	return true
}

// parseRetryAfter reads a Retry-After header in either of its two forms, delay-seconds or
// HTTP-date. It returns zero if the header is absent, malformed, or in the past.
func parseRetryAfter(value string, now time.Time) time.Duration {
	if value == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds <= 0 {
			return 0
		}
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(value); err == nil {
		if d := t.Sub(now); d > 0 {
			return d
		}
	}
	return 0
}
