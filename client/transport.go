package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"

	"github.com/bodrovis/tfcx/apierr"
)

// drainCap bounds how much of a discarded body is read before closing it.
const drainCap = 4096

// Interval returns the wait before retry number attempt (0-based):
// min * 2^attempt, clamped to [min, max]. Large attempts saturate at max.
func Interval(minWait, maxWait time.Duration, attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	wait := minWait
	for range attempt {
		if wait >= maxWait || wait > maxWait/2 {
			wait = maxWait
			break
		}
		wait *= 2
	}
	if wait > maxWait {
		wait = maxWait
	}
	if wait < minWait {
		wait = minWait
	}
	return wait
}

// backoff adapts Interval to retryablehttp; the response is not consulted.
func backoff(minWait, maxWait time.Duration, attemptNum int, _ *http.Response) time.Duration {
	return Interval(minWait, maxWait, attemptNum)
}

// retryPolicy retries what retryablehttp considers transient plus the
// statuses and network errors apierr classifies as retryable.
func retryPolicy(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return false, ctxErr
	}

	retry, checkErr := retryablehttp.DefaultRetryPolicy(ctx, resp, err)
	if retry || checkErr != nil {
		return retry, checkErr
	}
	if err != nil {
		return apierr.IsRetryable(err), nil
	}
	if resp != nil {
		return apierr.IsRetryableStatus(resp.StatusCode), nil
	}
	return false, nil
}

// giveUp runs once retries stop without a clean response. A final response
// is handed back so the executor can report its status and body; otherwise
// the last error is returned.
func giveUp(resp *http.Response, err error, numTries int) (*http.Response, error) {
	if err == nil && resp != nil {
		return resp, nil
	}
	if resp != nil {
		drain(resp.Body)
	}
	if err == nil {
		return nil, fmt.Errorf("giving up after %d attempt(s)", numTries)
	}
	if numTries <= 1 {
		return nil, err
	}
	return nil, fmt.Errorf("giving up after %d attempt(s): %w", numTries, err)
}

func drain(body io.ReadCloser) {
	if body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(body, drainCap))
	_ = body.Close()
}

// newTransport builds the retrying HTTP client described by b.
func newTransport(b Builder) *retryablehttp.Client {
	rc := retryablehttp.NewClient()
	rc.HTTPClient.Timeout = b.timeout
	if b.transport != nil {
		rc.HTTPClient.Transport = b.transport
	}
	rc.RetryWaitMin = b.minRetryInterval
	rc.RetryWaitMax = b.maxRetryInterval
	rc.RetryMax = b.maxRetries
	rc.Backoff = backoff
	rc.CheckRetry = retryPolicy
	rc.ErrorHandler = giveUp
	rc.Logger = leveledLogger{l: b.logger.With().Str("component", "transport").Logger()}
	return rc
}

// leveledLogger routes retryablehttp logs into zerolog.
type leveledLogger struct {
	l zerolog.Logger
}

var _ retryablehttp.LeveledLogger = leveledLogger{}

func (z leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	z.l.Error().Fields(keysAndValues).Msg(msg)
}

func (z leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	z.l.Info().Fields(keysAndValues).Msg(msg)
}

func (z leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	z.l.Debug().Fields(keysAndValues).Msg(msg)
}

func (z leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	z.l.Warn().Fields(keysAndValues).Msg(msg)
}
