package resilience

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"
)

// StatusError reports an HTTP response whose status the client treats as a
// failure (any 4xx or 5xx).
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http %d from %s", e.StatusCode, e.URL)
}

// NewStatusError builds a StatusError for the given response status and URL.
func NewStatusError(statusCode int, url string) *StatusError {
	return &StatusError{StatusCode: statusCode, URL: url}
}

// IsFailureStatus reports whether a status code is an error status.
func IsFailureStatus(statusCode int) bool {
	return statusCode >= 400
}

// FailureKind names the broad cause of a transport failure.
type FailureKind string

// Transport failure kinds.
const (
	KindTimeout   FailureKind = "timeout"
	KindCanceled  FailureKind = "canceled"
	KindDNS       FailureKind = "dns"
	KindRefused   FailureKind = "connection_refused"
	KindReset     FailureKind = "connection_reset"
	KindStatus    FailureKind = "http_status"
	KindTransport FailureKind = "transport"
)

// Classify returns the FailureKind for a transport-level error. Unknown
// errors are reported as KindTransport.
func Classify(err error) FailureKind {
	if err == nil {
		return ""
	}

	var se *StatusError
	if errors.As(err, &se) {
		return KindStatus
	}

	if errors.Is(err, context.Canceled) {
		return KindCanceled
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return KindDNS
	}

	switch {
	case errors.Is(err, syscall.ECONNREFUSED):
		return KindRefused
	case errors.Is(err, syscall.ECONNRESET), errors.Is(err, syscall.ECONNABORTED):
		return KindReset
	}

	// Wrapped client errors sometimes only survive as text.
	msg := strings.ToLower(err.Error())
	patterns := []struct {
		text string
		kind FailureKind
	}{
		{"i/o timeout", KindTimeout},
		{"tls handshake timeout", KindTimeout},
		{"client.timeout exceeded", KindTimeout},
		{"no such host", KindDNS},
		{"temporary failure in name resolution", KindDNS},
		{"connection refused", KindRefused},
		{"connection reset by peer", KindReset},
		{"broken pipe", KindReset},
		{"server closed idle connection", KindReset},
	}
	for _, p := range patterns {
		if strings.Contains(msg, p.text) {
			return p.kind
		}
	}

	return KindTransport
}
