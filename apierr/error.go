// Package apierr holds the single error shape produced by the client and
// helpers to classify and render it.
package apierr

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
)

const (
	// StatusBadRequest is the status reported for payloads that are not valid JSON.
	StatusBadRequest = "400"

	fallbackReason = "server returned an error response"
	corruptPrefix  = "corrupted response JSON payload received. "
)

// ResponseError is returned by every client call that fails.
//
// Which fields are set tells the failures apart:
//   - transport or local decoding failure: no Status, no Body
//   - malformed response payload: Status "400", no Body
//   - server-reported failure: Status and Body
type ResponseError struct {
	CanonicalReason string          // human-ish summary, always set
	Status          string          // HTTP status as text, "" when absent
	Body            json.RawMessage // untouched server payload, nil when absent

	cause error
}

func (e *ResponseError) Error() string {
	return e.CanonicalReason
}

func (e *ResponseError) Unwrap() error {
	return e.cause
}

func (e *ResponseError) HasStatus() bool { return e.Status != "" }

func (e *ResponseError) HasBody() bool { return e.Body != nil }

// StatusCode returns the numeric status, or 0 when absent.
func (e *ResponseError) StatusCode() int {
	n, err := strconv.Atoi(e.Status)
	if err != nil {
		return 0
	}
	return n
}

// Transport reports a failure before a response was available: invalid
// headers, body encoding, network errors, exhausted retries.
func Transport(reason string, cause error) *ResponseError {
	return &ResponseError{CanonicalReason: reason, cause: cause}
}

// Malformed reports a response whose payload did not parse as JSON. The
// status the server sent is discarded.
func Malformed(cause error) *ResponseError {
	return &ResponseError{
		CanonicalReason: corruptPrefix + cause.Error(),
		Status:          StatusBadRequest,
		cause:           cause,
	}
}

// Server reports a non-2xx response. body is kept as received.
func Server(status int, body json.RawMessage) *ResponseError {
	reason := http.StatusText(status)
	if reason == "" {
		reason = fallbackReason
	}
	return &ResponseError{
		CanonicalReason: reason,
		Status:          strconv.Itoa(status),
		Body:            body,
	}
}

// Decode reports a payload that could not be decoded into the caller's type.
func Decode(cause error) *ResponseError {
	return &ResponseError{CanonicalReason: cause.Error(), cause: cause}
}

// DecodeBadRequest is Decode with status "400" and backslashes stripped
// from the reason.
func DecodeBadRequest(cause error) *ResponseError {
	return &ResponseError{
		CanonicalReason: strings.ReplaceAll(cause.Error(), `\`, ""),
		Status:          StatusBadRequest,
		cause:           cause,
	}
}
