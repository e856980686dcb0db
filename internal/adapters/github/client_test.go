package github

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	perr "crowdgit/internal/platform/errors"
	"crowdgit/internal/services/identity/domain"
)

func testClient(t *testing.T, h http.HandlerFunc, tokens ...string) (*Client, *[]time.Duration) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c := NewClient(Options{BaseURL: srv.URL, MaxRetries: 2, RetryBase: time.Millisecond}, NewTokenPool(tokens...))
	var slept []time.Duration
	c.sleep = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	return c, &slept
}

func TestTokenPool_RoundRobin(t *testing.T) {
	p := ParseTokenPool(" a, ,b,c ")
	if p.Len() != 3 {
		t.Fatalf("Len = %d", p.Len())
	}
	var got []string
	for i := 0; i < 4; i++ {
		got = append(got, p.Next())
	}
	if got[0] != "a" || got[1] != "b" || got[2] != "c" || got[3] != "a" {
		t.Fatalf("rotation = %v", got)
	}
	var empty *TokenPool
	if empty.Next() != "" || NewTokenPool().Next() != "" {
		t.Fatalf("empty pool should yield no token")
	}
}

func TestDo_RotatesAuthorization(t *testing.T) {
	var seen []string
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}, "t1", "t2")

	for i := 0; i < 3; i++ {
		resp, err := c.Do(context.Background(), http.MethodGet, "/rate_limit", nil)
		if err != nil {
			t.Fatalf("Do: %v", err)
		}
		_ = resp.Body.Close()
	}
	want := []string{"bearer t1", "bearer t2", "bearer t1"}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("auth headers = %v", seen)
		}
	}
}

func TestDo_RetriesRateLimitWithRetryAfter(t *testing.T) {
	var calls atomic.Int32
	c, slept := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "7")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	resp, err := c.Do(context.Background(), http.MethodGet, "/x", nil)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	_ = resp.Body.Close()
	if calls.Load() != 2 || len(*slept) != 1 || (*slept)[0] != 7*time.Second {
		t.Fatalf("calls=%d slept=%v", calls.Load(), *slept)
	}
}

func TestDo_ExhaustedRetries(t *testing.T) {
	var calls atomic.Int32
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})
	_, err := c.Do(context.Background(), http.MethodGet, "/x", nil)
	if !perr.IsCode(err, perr.ErrorCodeUnavailable) || !perr.Retryable(err) {
		t.Fatalf("expected unavailable, got %v", err)
	}
	if calls.Load() != 3 {
		t.Fatalf("calls = %d, want 3", calls.Load())
	}
}

func TestDo_ForbiddenWithoutQuotaHeadersIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(4000))
		w.WriteHeader(http.StatusForbidden)
	})
	_, err := c.Do(context.Background(), http.MethodGet, "/x", nil)
	if !perr.IsCode(err, perr.ErrorCodeUnauthorized) || calls.Load() != 1 {
		t.Fatalf("err=%v calls=%d", err, calls.Load())
	}
}

func TestDo_UnexpectedStatus(t *testing.T) {
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	})
	_, err := c.Do(context.Background(), http.MethodGet, "/x", nil)
	var se *StatusError
	if e, ok := perr.As(err); !ok || e.Code() != perr.ErrorCodeUpstream {
		t.Fatalf("unexpected %v", err)
	}
	if !asStatus(err, &se) || se.Status != http.StatusTeapot || se.Body != "short and stout" {
		t.Fatalf("status error = %+v", se)
	}
}

func asStatus(err error, target **StatusError) bool {
	for err != nil {
		if s, ok := err.(*StatusError); ok {
			*target = s
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

func TestComputeWait(t *testing.T) {
	now := time.Unix(1000, 0)
	if got := computeWait(5, now.Add(time.Minute), 3, now); got != 3*time.Second {
		t.Fatalf("retry-after first, got %v", got)
	}
	if got := computeWait(0, now.Add(time.Minute), 0, now); got != time.Minute {
		t.Fatalf("reset wait, got %v", got)
	}
	if got := computeWait(10, now.Add(time.Minute), 0, now); got != 0 {
		t.Fatalf("quota left, got %v", got)
	}
}

func TestBackoffCapped(t *testing.T) {
	c := NewClient(Options{RetryBase: time.Second}, nil)
	if c.backoff(0) != time.Second || c.backoff(2) != 4*time.Second {
		t.Fatalf("backoff sequence wrong")
	}
	if c.backoff(40) != maxBackoff {
		t.Fatalf("backoff not capped")
	}
}

func TestCommitAccounts(t *testing.T) {
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/graphql" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		b, _ := io.ReadAll(r.Body)
		var req gqlRequest
		if err := json.Unmarshal(b, &req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if req.Variables["owner"] != "crowd" || req.Variables["name"] != "git" || req.Variables["oid"] != "abc" {
			t.Errorf("variables = %v", req.Variables)
		}
		_, _ = w.Write([]byte(`{"data":{"repository":{"object":{"authors":{"nodes":[
			{"name":"Jo","email":"jo@example.com","user":{"login":"jodev","avatarUrl":"https://a/1"}},
			{"name":"Anon","email":"anon@example.com","user":null}
		]}}}}}`))
	})
	got, err := c.CommitAccounts(context.Background(), domain.Repo{Owner: "crowd", Name: "git"}, "abc")
	if err != nil {
		t.Fatalf("CommitAccounts: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("accounts = %+v", got)
	}
	if got[0].User == nil || got[0].User.Login != "jodev" || got[0].User.AvatarURL != "https://a/1" {
		t.Fatalf("first = %+v", got[0])
	}
	if got[1].User != nil {
		t.Fatalf("unlinked author should have no user")
	}
}

func TestCommitAccounts_NotFoundAndErrors(t *testing.T) {
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"repository":null},"errors":[{"type":"NOT_FOUND","message":"Could not resolve"}]}`))
	})
	got, err := c.CommitAccounts(context.Background(), domain.Repo{Owner: "a", Name: "b"}, "x")
	if err != nil || len(got) != 0 {
		t.Fatalf("not found should be empty: %v %v", got, err)
	}

	c, _ = testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"errors":[{"type":"INTERNAL","message":"oops"}]}`))
	})
	_, err = c.CommitAccounts(context.Background(), domain.Repo{Owner: "a", Name: "b"}, "x")
	if !perr.IsCode(err, perr.ErrorCodeUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
}
