package jsonapi_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bodrovis/tfcx/jsonapi"
)

func TestFailure_String(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, "No errors.", (&jsonapi.Failure{}).String())
		assert.Equal(t, "No errors.", (&jsonapi.Failure{Errors: []jsonapi.Error{}}).String())
	})

	t.Run("nil", func(t *testing.T) {
		var f *jsonapi.Failure
		assert.Equal(t, "No errors.", f.String())
	})

	t.Run("two errors in order", func(t *testing.T) {
		f := &jsonapi.Failure{Errors: []jsonapi.Error{
			{Status: "404", Title: "Not Found", Detail: "Resource not found."},
			{Status: "500", Title: "Server Error", Detail: "Unexpected server error."},
		}}
		want := "Failure: [Error(404): Not Found. Resource not found., Error(500): Server Error. Unexpected server error.]"
		assert.Equal(t, want, f.String())
		assert.Equal(t, want, f.Error())
	})

	t.Run("idempotent", func(t *testing.T) {
		f := &jsonapi.Failure{Errors: []jsonapi.Error{{Status: "401", Title: "unauthorized"}}}
		first := f.String()
		assert.Equal(t, first, f.String())
		assert.Equal(t, "Failure: [Error(401): unauthorized.]", first)
	})
}

func TestParseFailure(t *testing.T) {
	f, err := jsonapi.ParseFailure([]byte(`{"errors":[{"status":"401","title":"unauthorized"}]}`))
	require.NoError(t, err)
	require.Len(t, f.Errors, 1)
	assert.Equal(t, "401", f.Errors[0].Status)
	assert.Equal(t, "unauthorized", f.Errors[0].Title)
}

func TestParseFailure_Rejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing errors", `{"data":{"type":"workspaces"}}`},
		{"error without status", `{"errors":[{"title":"oops"}]}`},
		{"error without title", `{"errors":[{"status":"500"}]}`},
		{"not an object", `"boom"`},
		{"garbage", `{oops`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := jsonapi.ParseFailure([]byte(tt.body))
			assert.Error(t, err)
		})
	}
}

func TestFailure_ImplementsError(t *testing.T) {
	var err error = jsonapi.NewFailure("400", "bad request")
	assert.Equal(t, "Failure: [Error(400): bad request.]", err.Error())
}

func TestFailure_MarshalShape(t *testing.T) {
	out, err := json.Marshal(jsonapi.NewFailure("404", "not found"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"errors":[{"status":"404","title":"not found"}]}`, string(out))
}
