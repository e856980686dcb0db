// Package remotes lists the tenant's git repositories from the crowd API
package remotes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	perr "crowdgit/internal/platform/errors"
	"crowdgit/internal/services/ingest/domain"
)

// Options configures the Client
type Options struct {
	// Host is the API host, optionally with a scheme (https is assumed)
	Host     string
	TenantID string
	APIKey   string
	Timeout  time.Duration
}

// Client implements domain.RemoteLister
type Client struct {
	http *http.Client
	url  string
	key  string
}

var _ domain.RemoteLister = (*Client)(nil)

// New builds a Client for GET {host}/api/tenant/{tenant}/git
func New(o Options) (*Client, error) {
	if o.Host == "" || o.TenantID == "" {
		return nil, perr.InvalidArgf("remotes: host and tenant are required")
	}
	if o.Timeout <= 0 {
		o.Timeout = 10 * time.Second
	}
	base := strings.TrimRight(o.Host, "/")
	if !strings.Contains(base, "://") {
		base = "https://" + base
	}
	return &Client{
		http: &http.Client{Timeout: o.Timeout},
		url:  base + "/api/tenant/" + url.PathEscape(o.TenantID) + "/git",
		key:  o.APIKey,
	}, nil
}

// segment accepts both {"integrationId": "...", "remotes": [...]} and a bare remote list
type segment struct {
	IntegrationID string   `json:"integrationId"`
	Remotes       []string `json:"remotes"`
}

func (s *segment) UnmarshalJSON(b []byte) error {
	if b = bytes.TrimSpace(b); len(b) > 0 && b[0] == '[' {
		return json.Unmarshal(b, &s.Remotes)
	}
	type plain segment
	return json.Unmarshal(b, (*plain)(s))
}

// Targets fetches every remote, ordered by segment then remote
func (c *Client) Targets(ctx context.Context) ([]domain.Target, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "remotes request")
	}
	req.Header.Set("Accept", "application/json")
	if c.key != "" {
		req.Header.Set("Authorization", "Bearer "+c.key)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "remotes fetch")
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "remotes read")
	}
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, perr.Newf(perr.ErrorCodeUnauthorized, "remotes: status %d", resp.StatusCode)
	case resp.StatusCode >= 500:
		return nil, perr.Newf(perr.ErrorCodeUnavailable, "remotes: status %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, perr.Newf(perr.ErrorCodeUpstream, "remotes: status %d", resp.StatusCode)
	}

	var bySegment map[string]segment
	if err := json.Unmarshal(b, &bySegment); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeJSON, "remotes decode")
	}

	out := make([]domain.Target, 0, len(bySegment))
	for seg, s := range bySegment {
		for _, r := range s.Remotes {
			if r = strings.TrimSpace(r); r != "" {
				out = append(out, domain.Target{SegmentID: seg, IntegrationID: s.IntegrationID, Remote: r})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SegmentID != out[j].SegmentID {
			return out[i].SegmentID < out[j].SegmentID
		}
		return out[i].Remote < out[j].Remote
	})
	return out, nil
}
