package github

import (
	"io"
	"net/http"
	"strconv"
	"time"
)

// StatusError is a non-2xx GitHub response after retries were exhausted
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return "github: unexpected status " + strconv.Itoa(e.Status) + ": " + e.Body
}

// HTTPStatus returns the response status
func (e *StatusError) HTTPStatus() int { return e.Status }

func parseRateHeaders(h http.Header) (remaining int, reset time.Time, retryAfter int) {
	remaining = atoi(h.Get("X-RateLimit-Remaining"), -1)
	if sec := atoi(h.Get("X-RateLimit-Reset"), 0); sec > 0 {
		reset = time.Unix(int64(sec), 0).UTC()
	}
	retryAfter = atoi(h.Get("Retry-After"), 0)
	return
}

// computeWait prefers Retry-After, then the reset time once the quota is spent
// Zero means no hint was given
func computeWait(remaining int, reset time.Time, retryAfter int, now time.Time) time.Duration {
	if retryAfter > 0 {
		return time.Duration(retryAfter) * time.Second
	}
	if remaining == 0 && reset.After(now) {
		return reset.Sub(now)
	}
	return 0
}

func atoi(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func drainAndClose(rc io.ReadCloser) error {
	_, _ = io.Copy(io.Discard, io.LimitReader(rc, 512))
	return rc.Close()
}
