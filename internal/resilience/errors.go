// Package resilience provides retry and circuit-breaker support for calls
// into the page extraction backend, which fails in bursts (blocks, captchas,
// proxy churn) rather than uniformly.
package resilience

import (
	"errors"
	"net"
	"strings"
	"syscall"
)

// TransientError marks an extraction failure that is safe to retry.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string { return e.Err.Error() }

func (e *TransientError) Unwrap() error { return e.Err }

// NewTransientError wraps an error as retryable.
func NewTransientError(err error) *TransientError {
	return &TransientError{Err: err}
}

// IsTransient reports whether the error, or anything in its chain, looks
// like a condition that clears on its own: network timeouts, connection
// churn, proxy errors, or the extraction surface throttling/blocking the
// session.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var te *TransientError
	if errors.As(err, &te) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	if errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNABORTED) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, p := range []string{
		"connection reset by peer",
		"broken pipe",
		"no such host",
		"i/o timeout",
		"tls handshake timeout",
		"proxy error",
		"captcha",
		"rate limit",
		"too many requests",
		"temporarily blocked",
	} {
		if strings.Contains(msg, p) {
			return true
		}
	}

	return false
}
