// Package github is a small GitHub API client with token rotation and
// rate limit aware retries, used for commit author lookups
package github

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	perr "crowdgit/internal/platform/errors"
	"crowdgit/internal/platform/logger"
)

const (
	baseURLDefault   = "https://api.github.com"
	defaultTimeout   = 10 * time.Second
	defaultUA        = "crowdgit"
	defaultMaxRetry  = 3
	defaultRetryBase = 500 * time.Millisecond
	maxBackoff       = 30 * time.Second
)

// Options configures the Client
type Options struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration

	// Retry config for transient and rate limited responses
	MaxRetries int
	RetryBase  time.Duration
}

// Client issues authenticated GitHub requests
type Client struct {
	http   *http.Client
	opts   Options
	tokens *TokenPool
	log    logger.Logger
	now    func() time.Time
	sleep  func(context.Context, time.Duration) error
}

// NewClient creates a Client drawing credentials from tokens
func NewClient(o Options, tokens *TokenPool) *Client {
	if o.BaseURL == "" {
		o.BaseURL = baseURLDefault
	}
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.MaxRetries < 0 {
		o.MaxRetries = 0
	} else if o.MaxRetries == 0 {
		o.MaxRetries = defaultMaxRetry
	}
	if o.RetryBase <= 0 {
		o.RetryBase = defaultRetryBase
	}
	if tokens == nil {
		tokens = NewTokenPool()
	}
	return &Client{
		http:   &http.Client{Timeout: o.Timeout},
		opts:   o,
		tokens: tokens,
		log:    *logger.Named("github"),
		now:    time.Now,
		sleep:  sleepCtx,
	}
}

// Do sends body (may be nil) to path and returns a 2xx response for the caller to close
// 429, 403 and 5xx responses and transport errors are retried with backoff,
// honoring Retry-After and X-RateLimit-Reset
func (c *Client) Do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	url := c.opts.BaseURL + path
	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var rd io.Reader
		if body != nil {
			rd = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, rd)
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "github new request %s", path)
		}
		req.Header.Set("User-Agent", c.opts.UserAgent)
		req.Header.Set("Accept", "application/vnd.github+json")
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if tok := c.tokens.Next(); tok != "" {
			req.Header.Set("Authorization", "bearer "+tok)
		}

		start := c.now()
		resp, err := c.http.Do(req)
		lat := c.now().Sub(start)

		if err != nil {
			if attempt >= c.opts.MaxRetries || ctx.Err() != nil {
				return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "github %s %s", method, path)
			}
			if err := c.wait(ctx, c.backoff(attempt), attempt, "github transport error retrying"); err != nil {
				return nil, err
			}
			continue
		}

		rem, reset, retryAfter := parseRateHeaders(resp.Header)
		c.log.Debug().
			Str("method", method).
			Str("path", path).
			Int("status", resp.StatusCode).
			Int("attempt", attempt).
			Dur("latency", lat).
			Int("rate_remaining", rem).
			Msg("github http response")

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			return resp, nil

		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusForbidden:
			_ = drainAndClose(resp.Body)
			// a 403 without rate limit headers is a permission problem, not throttling
			if resp.StatusCode == http.StatusForbidden && rem != 0 && retryAfter == 0 {
				return nil, perr.Wrapf(&StatusError{Status: resp.StatusCode}, perr.ErrorCodeUnauthorized, "github forbidden %s", path)
			}
			if attempt >= c.opts.MaxRetries {
				return nil, perr.Wrapf(&StatusError{Status: resp.StatusCode}, perr.ErrorCodeTooManyRequests, "github rate limited %s", path)
			}
			w := computeWait(rem, reset, retryAfter, c.now())
			if w <= 0 {
				w = c.backoff(attempt)
			}
			if err := c.wait(ctx, w, attempt, "github rate limited backing off"); err != nil {
				return nil, err
			}

		case resp.StatusCode >= 500:
			_ = drainAndClose(resp.Body)
			if attempt >= c.opts.MaxRetries {
				return nil, perr.Wrapf(&StatusError{Status: resp.StatusCode}, perr.ErrorCodeUnavailable, "github server error %s", path)
			}
			if err := c.wait(ctx, c.backoff(attempt), attempt, "github transient error retrying"); err != nil {
				return nil, err
			}

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
			_ = resp.Body.Close()
			code := perr.ErrorCodeUpstream
			if resp.StatusCode == http.StatusUnauthorized {
				code = perr.ErrorCodeUnauthorized
			} else if resp.StatusCode == http.StatusNotFound {
				code = perr.ErrorCodeNotFound
			}
			return nil, perr.Wrapf(&StatusError{Status: resp.StatusCode, Body: string(b)}, code, "github %s %s", method, path)
		}
	}
}

func (c *Client) wait(ctx context.Context, d time.Duration, attempt int, msg string) error {
	c.log.Warn().Dur("retry_in", d).Int("attempt", attempt).Msg(msg)
	return c.sleep(ctx, d)
}

// backoff is exponential from RetryBase, capped
func (c *Client) backoff(attempt int) time.Duration {
	d := c.opts.RetryBase << uint(attempt)
	if d <= 0 || d > maxBackoff {
		return maxBackoff
	}
	return d
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
