package domain

import (
	"context"

	"crowdgit/internal/core/activity"
	delivery "crowdgit/internal/services/delivery/domain"
)

// CommitSource streams the walker output for a remote
// Malformed records reach fn with a non-nil error
type CommitSource interface {
	Commits(ctx context.Context, remote, explicitPath string, fn func(activity.Commit, error) error) error
}

// Resolver reconciles raw identities of one commit's activities
type Resolver interface {
	Resolve(ctx context.Context, channel, sha string, acts []activity.Activity) ([]activity.Activity, error)
}

// Deliverer transmits finished activities
type Deliverer interface {
	Deliver(ctx context.Context, route delivery.Route, acts []activity.Activity) delivery.Report
}

// CacheResetter drops a repository's identity cache
type CacheResetter interface {
	Delete(ctx context.Context, repoKey string) error
}

// RemoteLister returns the tenant's repositories
type RemoteLister interface {
	Targets(ctx context.Context) ([]Target, error)
}
