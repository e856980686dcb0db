// Package remote parses repository remote URLs into the coordinates the
// pipeline keys on: host, owner/name, and a filesystem safe short key
package remote

import (
	"net/url"
	"regexp"
	"strings"
)

// GitHubHost is the host whose remotes take part in identity resolution
const GitHubHost = "github.com"

// Remote is a parsed repository location
type Remote struct {
	Raw   string
	Host  string
	Path  []string // lower-cased path segments without the .git suffix
	Owner string
	Name  string
}

// Parse accepts https, http, ssh (git@host:owner/repo) and bare host/path forms
// Parsing never fails; unknown shapes yield a Remote with only Raw and whatever could be read
func Parse(s string) Remote {
	r := Remote{Raw: strings.TrimSpace(s)}
	host, p := splitHostPath(r.Raw)
	r.Host = strings.ToLower(host)

	p = strings.TrimSuffix(strings.Trim(p, "/"), ".git")
	for _, seg := range strings.Split(strings.ToLower(p), "/") {
		if seg != "" {
			r.Path = append(r.Path, seg)
		}
	}
	if n := len(r.Path); n >= 2 {
		r.Owner, r.Name = r.Path[n-2], r.Path[n-1]
	} else if n == 1 {
		r.Name = r.Path[0]
	}
	return r
}

func splitHostPath(s string) (host, path string) {
	switch {
	case strings.Contains(s, "://"):
		if u, err := url.Parse(s); err == nil {
			return u.Hostname(), u.Path
		}
	case strings.Contains(s, "@") && strings.Contains(s, ":"):
		// git@github.com:owner/repo.git
		at := strings.Index(s, "@")
		rest := s[at+1:]
		if i := strings.Index(rest, ":"); i >= 0 {
			return rest[:i], rest[i+1:]
		}
	}
	if i := strings.Index(s, "/"); i > 0 && strings.Contains(s[:i], ".") {
		return s[:i], s[i:]
	}
	return "", s
}

// FullName is "owner/name", or just the name for single-segment paths
func (r Remote) FullName() string {
	if r.Owner == "" {
		return r.Name
	}
	return r.Owner + "/" + r.Name
}

var unsafeKey = regexp.MustCompile(`[^a-z0-9._-]+`)

// Key is the stable short name used for cache files and leases,
// eg "github.com__torvalds__linux"
func (r Remote) Key() string {
	parts := make([]string, 0, len(r.Path)+1)
	if r.Host != "" {
		parts = append(parts, r.Host)
	}
	for _, seg := range r.Path {
		parts = append(parts, unsafeKey.ReplaceAllString(seg, "-"))
	}
	if len(parts) == 0 {
		return unsafeKey.ReplaceAllString(strings.ToLower(r.Raw), "-")
	}
	return strings.Join(parts, "__")
}

// IsGitHub reports whether the remote is hosted on github.com with an owner/name pair
func (r Remote) IsGitHub() bool {
	return r.Host == GitHubHost && r.Owner != "" && r.Name != ""
}

// CommitURL is the canonical GitHub web URL of a commit in this repository
func (r Remote) CommitURL(sha string) string {
	return "https://" + GitHubHost + "/" + r.Owner + "/" + r.Name + "/commit/" + sha
}

// IsGitHubChannel reports whether an activity channel denotes a GitHub repository
func IsGitHubChannel(channel string) bool {
	return Parse(channel).IsGitHub()
}

// Same reports whether two remotes name the same repository, ignoring
// scheme, case, trailing slashes and a .git suffix
func Same(a, b string) bool {
	ra, rb := Parse(a), Parse(b)
	return ra.Key() == rb.Key()
}
