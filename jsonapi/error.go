// Package jsonapi holds the document shapes of the JSON:API specification
// (https://jsonapi.org) used by the client: error objects, failure documents
// and the envelope of successful responses.
package jsonapi

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrorLinks is the links object of an error.
type ErrorLinks struct {
	// About leads to further details about this occurrence of the problem.
	About string `json:"about,omitempty"`
	// Type identifies the kind of error this occurrence is an instance of.
	Type string `json:"type,omitempty"`
}

// ErrorSource references the part of the request that caused the error.
type ErrorSource struct {
	// Pointer is an RFC 6901 JSON Pointer into the request document, e.g. "/data/attributes/title".
	Pointer   string `json:"pointer,omitempty"`
	Parameter string `json:"parameter,omitempty"`
	Header    string `json:"header,omitempty"`
}

// Error is a single JSON:API error object.
//
// Status and Title are always encoded, Title may be empty. Every other field
// is optional and omitted from the encoding when unset.
type Error struct {
	Status string          `json:"status"`
	Title  string          `json:"title"`
	ID     string          `json:"id,omitempty"`
	Code   string          `json:"code,omitempty"`
	Detail string          `json:"detail,omitempty"`
	Meta   json.RawMessage `json:"meta,omitempty"`
	Links  *ErrorLinks     `json:"links,omitempty"`
	Source *ErrorSource    `json:"source,omitempty"`
}

var (
	errMissingStatus = errors.New("jsonapi: error object: missing field `status`")
	errMissingTitle  = errors.New("jsonapi: error object: missing field `title`")
)

// UnmarshalJSON rejects error objects without a status or a title key.
func (e *Error) UnmarshalJSON(data []byte) error {
	type plain Error
	var aux struct {
		plain
		Status *string `json:"status"`
		Title  *string `json:"title"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.Status == nil {
		return errMissingStatus
	}
	if aux.Title == nil {
		return errMissingTitle
	}

	*e = Error(aux.plain)
	e.Status = *aux.Status
	e.Title = *aux.Title
	return nil
}

// String renders the error as "Error(<status>): <title>. <detail>.".
// Empty clauses are dropped; with neither title nor detail the result is
// just "Error(<status>)".
func (e Error) String() string {
	var b strings.Builder
	b.WriteString("Error(")
	b.WriteString(e.Status)
	b.WriteByte(')')

	title := trimSentence(e.Title)
	detail := trimSentence(e.Detail)

	if title != "" {
		b.WriteString(": ")
		b.WriteString(title)
		b.WriteByte('.')
	}
	if detail != "" {
		if title != "" {
			b.WriteByte(' ')
		} else {
			b.WriteString(": ")
		}
		b.WriteString(detail)
		b.WriteByte('.')
	}
	return b.String()
}

// trimSentence strips surrounding whitespace and periods so a closing
// period can be appended exactly once.
func trimSentence(s string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), "."))
}
