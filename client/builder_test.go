package client_test

import (
	"testing"
	"time"

	"github.com/bodrovis/tfcx/client"
)

func TestNewBuilder_Defaults(t *testing.T) {
	b := client.NewBuilder()

	if b.Timeout() != 30*time.Second {
		t.Fatalf("Timeout = %v, want 30s", b.Timeout())
	}
	if b.MinRetryInterval() != 100*time.Millisecond {
		t.Fatalf("MinRetryInterval = %v, want 100ms", b.MinRetryInterval())
	}
	if b.MaxRetryInterval() != 5*time.Second {
		t.Fatalf("MaxRetryInterval = %v, want 5s", b.MaxRetryInterval())
	}
	if b.MaxRetries() != 3 {
		t.Fatalf("MaxRetries = %d, want 3", b.MaxRetries())
	}
	if b.Token() != "" || b.UserAgent() != "" {
		t.Fatalf("token/user agent must default to empty")
	}
}

func TestBuilder_SettersChangeOneFieldOnly(t *testing.T) {
	base := client.NewBuilder()

	cases := []struct {
		name  string
		apply func(client.Builder) client.Builder
		check func(t *testing.T, got client.Builder)
	}{
		{
			name:  "timeout",
			apply: func(b client.Builder) client.Builder { return b.SetTimeout(50 * time.Millisecond) },
			check: func(t *testing.T, got client.Builder) {
				if got.Timeout() != 50*time.Millisecond {
					t.Fatalf("Timeout = %v", got.Timeout())
				}
				assertSame(t, base.SetTimeout(got.Timeout()), got)
			},
		},
		{
			name:  "min retry interval",
			apply: func(b client.Builder) client.Builder { return b.SetMinRetryInterval(50 * time.Millisecond) },
			check: func(t *testing.T, got client.Builder) {
				if got.MinRetryInterval() != 50*time.Millisecond {
					t.Fatalf("MinRetryInterval = %v", got.MinRetryInterval())
				}
				if got.Timeout() != base.Timeout() || got.MaxRetryInterval() != base.MaxRetryInterval() || got.MaxRetries() != base.MaxRetries() {
					t.Fatalf("other fields changed: %+v", got)
				}
			},
		},
		{
			name:  "max retry interval",
			apply: func(b client.Builder) client.Builder { return b.SetMaxRetryInterval(50 * time.Millisecond) },
			check: func(t *testing.T, got client.Builder) {
				if got.MaxRetryInterval() != 50*time.Millisecond {
					t.Fatalf("MaxRetryInterval = %v", got.MaxRetryInterval())
				}
				if got.Timeout() != base.Timeout() || got.MinRetryInterval() != base.MinRetryInterval() || got.MaxRetries() != base.MaxRetries() {
					t.Fatalf("other fields changed: %+v", got)
				}
			},
		},
		{
			name:  "max retries",
			apply: func(b client.Builder) client.Builder { return b.SetMaxRetries(50) },
			check: func(t *testing.T, got client.Builder) {
				if got.MaxRetries() != 50 {
					t.Fatalf("MaxRetries = %d", got.MaxRetries())
				}
				if got.Timeout() != base.Timeout() || got.MinRetryInterval() != base.MinRetryInterval() || got.MaxRetryInterval() != base.MaxRetryInterval() {
					t.Fatalf("other fields changed: %+v", got)
				}
			},
		},
		{
			name:  "token",
			apply: func(b client.Builder) client.Builder { return b.SetToken("tok") },
			check: func(t *testing.T, got client.Builder) {
				if got.Token() != "tok" {
					t.Fatalf("Token = %q", got.Token())
				}
				if got.UserAgent() != base.UserAgent() || got.MaxRetries() != base.MaxRetries() {
					t.Fatalf("other fields changed: %+v", got)
				}
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.apply(base)
			tc.check(t, got)
			// the receiver is never touched
			assertSame(t, client.NewBuilder(), base)
		})
	}
}

func TestBuilder_OutOfRangeValuesAccepted(t *testing.T) {
	b := client.NewBuilder().
		SetMinRetryInterval(time.Second).
		SetMaxRetryInterval(time.Millisecond).
		SetMaxRetries(-1)

	if b.MinRetryInterval() != time.Second || b.MaxRetryInterval() != time.Millisecond || b.MaxRetries() != -1 {
		t.Fatalf("setters must store values as given: %+v", b)
	}
	if _, err := b.Build(); err != nil {
		t.Fatalf("Build: %v", err)
	}
}

func TestBuilder_Build(t *testing.T) {
	c, err := client.NewBuilder().Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if c == nil {
		t.Fatalf("Build returned nil client")
	}
}

func TestBuilder_BuildRejectsInvalidHeaderValues(t *testing.T) {
	if _, err := client.NewBuilder().SetToken("tok\nX-Injected: 1").Build(); err == nil {
		t.Fatalf("expected error for token with a newline")
	}
	if _, err := client.NewBuilder().SetUserAgent("ua\r\n").Build(); err == nil {
		t.Fatalf("expected error for user agent with CRLF")
	}
}

func assertSame(t *testing.T, want, got client.Builder) {
	t.Helper()
	if want.Timeout() != got.Timeout() ||
		want.MinRetryInterval() != got.MinRetryInterval() ||
		want.MaxRetryInterval() != got.MaxRetryInterval() ||
		want.MaxRetries() != got.MaxRetries() ||
		want.Token() != got.Token() ||
		want.UserAgent() != got.UserAgent() {
		t.Fatalf("builders differ:\nwant %+v\ngot  %+v", want, got)
	}
}
