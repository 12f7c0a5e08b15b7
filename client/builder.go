package client

import (
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/net/http/httpguts"
)

const (
	DefaultTimeout          = 30 * time.Second
	DefaultMinRetryInterval = 100 * time.Millisecond
	DefaultMaxRetryInterval = 5 * time.Second
	DefaultMaxRetries       = 3

	// ContentTypeJSONAPI is sent on every request unless a call overrides it.
	ContentTypeJSONAPI = "application/vnd.api+json"
)

// Builder is an immutable client configuration. Every setter returns a copy
// with one field changed and leaves the receiver alone. Values are not
// validated here.
type Builder struct {
	timeout          time.Duration
	minRetryInterval time.Duration
	maxRetryInterval time.Duration
	maxRetries       int

	token     string
	userAgent string
	transport http.RoundTripper
	logger    zerolog.Logger
}

// NewBuilder returns the default configuration: 30s timeout, retries
// backing off from 100ms to 5s, at most 3 retries.
func NewBuilder() Builder {
	return Builder{
		timeout:          DefaultTimeout,
		minRetryInterval: DefaultMinRetryInterval,
		maxRetryInterval: DefaultMaxRetryInterval,
		maxRetries:       DefaultMaxRetries,
		logger:           zerolog.Nop(),
	}
}

// SetTimeout sets the per-attempt timeout, measured from connecting until
// the response body has been read. Zero disables it.
func (b Builder) SetTimeout(d time.Duration) Builder {
	b.timeout = d
	return b
}

func (b Builder) Timeout() time.Duration { return b.timeout }

// SetMinRetryInterval sets the wait before the first retry.
func (b Builder) SetMinRetryInterval(d time.Duration) Builder {
	b.minRetryInterval = d
	return b
}

func (b Builder) MinRetryInterval() time.Duration { return b.minRetryInterval }

// SetMaxRetryInterval caps the wait between two retries.
func (b Builder) SetMaxRetryInterval(d time.Duration) Builder {
	b.maxRetryInterval = d
	return b
}

func (b Builder) MaxRetryInterval() time.Duration { return b.maxRetryInterval }

// SetMaxRetries sets how many extra attempts follow a transient failure.
func (b Builder) SetMaxRetries(n int) Builder {
	b.maxRetries = n
	return b
}

func (b Builder) MaxRetries() int { return b.maxRetries }

// SetToken sets the API token sent as "Authorization: Bearer <token>".
func (b Builder) SetToken(token string) Builder {
	b.token = token
	return b
}

func (b Builder) Token() string { return b.token }

func (b Builder) SetUserAgent(ua string) Builder {
	b.userAgent = ua
	return b
}

func (b Builder) UserAgent() string { return b.userAgent }

// SetTransport replaces the round tripper under the retry layer.
func (b Builder) SetTransport(rt http.RoundTripper) Builder {
	b.transport = rt
	return b
}

func (b Builder) SetLogger(l zerolog.Logger) Builder {
	b.logger = l
	return b
}

// Build returns a client ready to use. It fails when a default header
// can't be sent on the wire.
func (b Builder) Build() (*Client, error) {
	headers := http.Header{}
	headers.Set("Content-Type", ContentTypeJSONAPI)
	if b.token != "" {
		headers.Set("Authorization", "Bearer "+b.token)
	}
	if b.userAgent != "" {
		headers.Set("User-Agent", b.userAgent)
	}
	for k, vs := range headers {
		for _, v := range vs {
			if !httpguts.ValidHeaderFieldValue(v) {
				return nil, fmt.Errorf("build client: invalid value for header %q", k)
			}
		}
	}

	return &Client{
		http:    newTransport(b),
		headers: headers,
		logger:  b.logger.With().Str("component", "client").Logger(),
	}, nil
}
