package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/net/http/httpguts"

	"github.com/bodrovis/tfcx/apierr"
	"github.com/bodrovis/tfcx/internal/utils"
)

// rawLogCap bounds the excerpt of a corrupt payload written to the log.
const rawLogCap = 512

type mutationKind int

const (
	attachQuery mutationKind = iota
	attachJSONBody
	attachRawBody
)

// mutation is the single verb-specific change exec applies to a request.
type mutation struct {
	kind  mutationKind
	query Query
	value any
	raw   []byte
}

func withQuery(q Query) mutation { return mutation{kind: attachQuery, query: q} }
func withJSONBody(v any) mutation { return mutation{kind: attachJSONBody, value: v} }
func withRawBody(b []byte) mutation { return mutation{kind: attachRawBody, raw: b} }

func (m mutation) apply(req *retryablehttp.Request) error {
	switch m.kind {
	case attachQuery:
		if len(m.query) == 0 {
			return nil
		}
		q := req.URL.Query()
		for k, v := range m.query {
			q.Set(k, v)
		}
		req.URL.RawQuery = q.Encode()
	case attachJSONBody:
		if m.value == nil {
			return nil
		}
		body, err := utils.EncodeJSONBody(m.value)
		if err != nil {
			return err
		}
		return req.SetBody(body)
	case attachRawBody:
		if m.raw == nil {
			return nil
		}
		return req.SetBody(m.raw)
	}
	return nil
}

// exec sends one logical request and returns the parsed JSON payload of a
// 2xx response. Every failure comes back as *apierr.ResponseError.
func (c *Client) exec(ctx context.Context, method, url string, headers Headers, m mutation) (json.RawMessage, error) {
	log := c.logger.With().Str("method", method).Str("url", url).Logger()

	req, err := retryablehttp.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, apierr.Transport(fmt.Sprintf("create request: %v", err), err)
	}
	for k, vs := range c.headers {
		req.Header[k] = append([]string(nil), vs...)
	}
	if err := applyHeaders(req, headers); err != nil {
		return nil, apierr.Transport(err.Error(), err)
	}
	if err := m.apply(req); err != nil {
		return nil, apierr.Transport(err.Error(), err)
	}

	log.Debug().Msg("sending request")
	resp, err := c.http.Do(req)
	if err != nil {
		log.Debug().Err(err).Msg("request failed")
		return nil, apierr.Transport(err.Error(), err)
	}
	defer resp.Body.Close()

	status := resp.StatusCode
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apierr.Transport(fmt.Sprintf("read response: %v", err), err)
	}

	log.Debug().Int("status", status).Msg("response received")
	success := status >= 200 && status <= 299

	// An empty 2xx body (e.g. 204) reads as null; an empty error response
	// carries no body at all.
	if len(bytes.TrimSpace(raw)) == 0 {
		if !success {
			return nil, apierr.Server(status, nil)
		}
		return json.RawMessage(nullPayload), nil
	}

	payload, err := parsePayload(raw)
	if err != nil {
		log.Error().Err(err).Int("status", status).Bytes("raw", excerpt(raw)).Msg("corrupt response payload")
		return nil, apierr.Malformed(err)
	}

	if !success {
		return nil, apierr.Server(status, payload)
	}
	return payload, nil
}

// applyHeaders sets the caller's headers, rejecting anything that can't be
// sent on the wire.
func applyHeaders(req *retryablehttp.Request, headers Headers) error {
	for k, v := range headers {
		if !httpguts.ValidHeaderFieldName(k) {
			return fmt.Errorf("invalid HTTP header name %q", k)
		}
		if !httpguts.ValidHeaderFieldValue(v) {
			return fmt.Errorf("invalid HTTP header value for %q", k)
		}
		req.Header.Set(k, v)
	}
	return nil
}

// parsePayload validates raw as JSON.
func parsePayload(raw []byte) (json.RawMessage, error) {
	var payload json.RawMessage
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func excerpt(raw []byte) []byte {
	if len(raw) > rawLogCap {
		return raw[:rawLogCap]
	}
	return raw
}
