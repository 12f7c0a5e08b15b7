package jsonapi

import (
	"encoding/json"
	"errors"
	"strings"
)

// Failure is a JSON:API document carrying errors instead of data.
type Failure struct {
	Errors []Error `json:"errors"`
}

var errMissingErrors = errors.New("jsonapi: failure document: missing field `errors`")

// UnmarshalJSON rejects documents without an errors member.
func (f *Failure) UnmarshalJSON(data []byte) error {
	var aux struct {
		Errors *[]Error `json:"errors"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.Errors == nil {
		return errMissingErrors
	}
	f.Errors = *aux.Errors
	return nil
}

// ParseFailure decodes a failure document.
func ParseFailure(data []byte) (*Failure, error) {
	var f Failure
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// NewFailure builds a document holding a single error.
func NewFailure(status, title string) *Failure {
	return &Failure{Errors: []Error{{Status: status, Title: title}}}
}

// String renders "No errors." for an empty document, otherwise
// "Failure: [<err>, <err>]" in document order.
func (f *Failure) String() string {
	if f == nil || len(f.Errors) == 0 {
		return "No errors."
	}

	parts := make([]string, len(f.Errors))
	for i, e := range f.Errors {
		parts[i] = e.String()
	}
	return "Failure: [" + strings.Join(parts, ", ") + "]"
}

func (f *Failure) Error() string {
	return f.String()
}
