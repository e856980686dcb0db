package domain

import "crowdgit/internal/services/ingest/guardrails"

// RemoteInput selects a repository by remote URL
type RemoteInput struct {
	Remote string `query:"remote" json:"remote" validate:"required"`
}

// UserInput looks up a contributor of a repository by email
type UserInput struct {
	Email  string `query:"email" json:"email" validate:"required"`
	Remote string `query:"remote" json:"remote" validate:"required"`
}

// Hello is the root payload
type Hello struct {
	Message string `json:"message"`
}

// RepoStats summarizes what we know about one repository
type RepoStats struct {
	Remote        string            `json:"remote"`
	Key           string            `json:"key"`
	NumCommits    int               `json:"num_commits"`
	Lease         guardrails.Status `json:"lease"`
	CachedMembers int               `json:"cached_members"`
	Deliveries    map[string]uint64 `json:"deliveries,omitempty"`
}

// User is a contributor found in a repository's history
type User struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Username string `json:"username,omitempty"`
}

// Reonboard acknowledges a background re-ingest
type Reonboard struct {
	Message string `json:"message"`
	Remote  string `json:"remote"`
}
