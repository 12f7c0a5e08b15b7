package apierr

import (
	"context"
	"errors"
	"io"
	"net/http"
	"syscall"
)

// IsRetryable says "worth another shot?" (backoff is up to the transport).
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	// caller gave up, another attempt won't help
	if errors.Is(err, context.Canceled) {
		return false
	}

	// timeouts from net/http, http2, tls, etc.
	var to interface{ Timeout() bool }
	if errors.As(err, &to) && to.Timeout() {
		return true
	}

	// flaky connections / short reads
	if errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrClosedPipe) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}

	var re *ResponseError
	if errors.As(err, &re) {
		return IsRetryableStatus(re.StatusCode())
	}
	return false
}

// IsRetryableStatus reports whether a response with this status is transient.
func IsRetryableStatus(status int) bool {
	switch status {
	case http.StatusRequestTimeout, // 408
		http.StatusTooEarly,            // 425
		http.StatusTooManyRequests,     // 429
		http.StatusInternalServerError, // 500
		http.StatusBadGateway,          // 502
		http.StatusServiceUnavailable,  // 503
		http.StatusGatewayTimeout:      // 504
		return true
	}
	return false
}
