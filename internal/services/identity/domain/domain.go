// Package domain defines the types and ports of the identity service
package domain

import (
	"context"
	"strings"
)

// DefaultBotAccount is the automation account GitHub attributes workflow commits to
const DefaultBotAccount = "github-actions[bot]"

// BotMarker flags app accounts in a login
const BotMarker = "[bot]"

// AccountUser is the platform account nested under a commit author
type AccountUser struct {
	Login     string `json:"login"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// Account is one author of a commit as reported by the platform
// A nil User means the git identity is not linked to any platform account
type Account struct {
	Name  string       `json:"name"`
	Email string       `json:"email"`
	User  *AccountUser `json:"user,omitempty"`
}

// CachedMember is the per-email cache record
// Matched is cache internal and never copied onto activities
type CachedMember struct {
	Username    string   `json:"username"`
	DisplayName string   `json:"displayName"`
	Emails      []string `json:"emails"`
	AvatarURL   string   `json:"avatarUrl,omitempty"`
	Matched     bool     `json:"matched"`
}

// Cache is the full per-repository mapping keyed by raw email
type Cache map[string]CachedMember

// Repo is the repository coordinate used to query the platform
type Repo struct {
	Owner string
	Name  string
}

// AccountsAPI lists the platform accounts behind a commit's authors
type AccountsAPI interface {
	CommitAccounts(ctx context.Context, repo Repo, sha string) ([]Account, error)
}

// CacheStore persists one Cache per repository key
// Load of an unknown key returns an empty Cache and no error
type CacheStore interface {
	Load(ctx context.Context, repoKey string) (Cache, error)
	Save(ctx context.Context, repoKey string, c Cache) error
}

// IsNoReply reports whether an email is a platform no-reply relay address
func IsNoReply(email string) bool {
	e := strings.ToLower(email)
	return strings.Contains(e, "noreply") || strings.Contains(e, "no-reply")
}

// IsBot reports whether a username belongs to an automation account
func IsBot(username, botAccount string) bool {
	if username == "" {
		return false
	}
	return username == botAccount || strings.Contains(strings.ToLower(username), BotMarker)
}
