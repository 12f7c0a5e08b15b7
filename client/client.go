// Package client sends requests to a JSON:API service with retries and
// reports every failure as an *apierr.ResponseError.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"

	"github.com/bodrovis/tfcx/apierr"
	"github.com/bodrovis/tfcx/internal/utils"
)

// Headers are per-call request headers. They override the client defaults.
type Headers map[string]string

// Query holds URL query parameters.
type Query map[string]string

// HTTPClient is what callers depend on. out is decoded from the JSON
// response and may be nil to discard it.
type HTTPClient interface {
	Get(ctx context.Context, url string, headers Headers, query Query, out any) error
	Post(ctx context.Context, url string, headers Headers, payload, out any) error
	Put(ctx context.Context, url string, headers Headers, payload, out any) error
	Patch(ctx context.Context, url string, headers Headers, payload, out any) error
	Delete(ctx context.Context, url string, headers Headers, payload, out any) error
}

// Client is the retrying HTTPClient built by Builder. It is safe for
// concurrent use.
type Client struct {
	http    *retryablehttp.Client
	headers http.Header
	logger  zerolog.Logger
}

var _ HTTPClient = (*Client)(nil)

var nullPayload = []byte("null")

// Get sends a GET with query appended to the URL.
func (c *Client) Get(ctx context.Context, url string, headers Headers, query Query, out any) error {
	payload, err := c.exec(ctx, http.MethodGet, url, headers, withQuery(query))
	if err != nil {
		return err
	}
	return decodeInto(payload, out, apierr.Decode)
}

// Post sends payload as a JSON body. A nil payload sends no body.
func (c *Client) Post(ctx context.Context, url string, headers Headers, payload, out any) error {
	return c.send(ctx, http.MethodPost, url, headers, payload, out)
}

func (c *Client) Put(ctx context.Context, url string, headers Headers, payload, out any) error {
	return c.send(ctx, http.MethodPut, url, headers, payload, out)
}

func (c *Client) Delete(ctx context.Context, url string, headers Headers, payload, out any) error {
	return c.send(ctx, http.MethodDelete, url, headers, payload, out)
}

// Patch marshals payload up front and sends the bytes as is. A nil payload
// sends no body. A response that doesn't fit out is reported with status "400".
func (c *Client) Patch(ctx context.Context, url string, headers Headers, payload, out any) error {
	var raw []byte
	if payload != nil {
		var err error
		if raw, err = utils.MarshalRawBody(payload); err != nil {
			return apierr.Transport(err.Error(), err)
		}
	}
	resp, err := c.exec(ctx, http.MethodPatch, url, headers, withRawBody(raw))
	if err != nil {
		return err
	}
	return decodeInto(resp, out, apierr.DecodeBadRequest)
}

func (c *Client) send(ctx context.Context, method, url string, headers Headers, payload, out any) error {
	resp, err := c.exec(ctx, method, url, headers, withJSONBody(payload))
	if err != nil {
		return err
	}
	return decodeInto(resp, out, apierr.Decode)
}

// decodeInto leaves out untouched for a null payload (e.g. 204 No Content).
func decodeInto(payload json.RawMessage, out any, wrap func(error) *apierr.ResponseError) error {
	if out == nil || bytes.Equal(payload, nullPayload) {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return wrap(err)
	}
	return nil
}

// Get is the typed form of HTTPClient.Get.
func Get[T any](ctx context.Context, c HTTPClient, url string, headers Headers, query Query) (T, error) {
	var out T
	if err := c.Get(ctx, url, headers, query, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

func Post[T any](ctx context.Context, c HTTPClient, url string, headers Headers, payload any) (T, error) {
	var out T
	if err := c.Post(ctx, url, headers, payload, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

func Put[T any](ctx context.Context, c HTTPClient, url string, headers Headers, payload any) (T, error) {
	var out T
	if err := c.Put(ctx, url, headers, payload, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

func Patch[T any](ctx context.Context, c HTTPClient, url string, headers Headers, payload any) (T, error) {
	var out T
	if err := c.Patch(ctx, url, headers, payload, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

func Delete[T any](ctx context.Context, c HTTPClient, url string, headers Headers, payload any) (T, error) {
	var out T
	if err := c.Delete(ctx, url, headers, payload, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}
