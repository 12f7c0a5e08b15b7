package apierr

import (
	"errors"

	"github.com/bodrovis/tfcx/jsonapi"
)

// Failure converts the error into a JSON:API failure document.
//
// A body is parsed as a failure document; when it doesn't match, the parse
// error becomes the title of a single "400" error. Without a body the
// document holds one error built from Status (default "400") and
// CanonicalReason.
func (e *ResponseError) Failure() *jsonapi.Failure {
	if e.HasBody() {
		f, err := jsonapi.ParseFailure(e.Body)
		if err != nil {
			return jsonapi.NewFailure(StatusBadRequest, err.Error())
		}
		return f
	}

	status := e.Status
	if status == "" {
		status = StatusBadRequest
	}
	return jsonapi.NewFailure(status, e.CanonicalReason)
}

// AsFailure converts any error into a failure document returned as an error.
// Errors other than *ResponseError become a single "400" error titled with
// err.Error(). It returns nil for a nil err.
func AsFailure(err error) error {
	if err == nil {
		return nil
	}
	var re *ResponseError
	if errors.As(err, &re) {
		return re.Failure()
	}
	return jsonapi.NewFailure(StatusBadRequest, err.Error())
}
