// Package domain defines the status API types and the ports it reads through
package domain

import (
	"context"

	delivery "crowdgit/internal/services/delivery/domain"
	identity "crowdgit/internal/services/identity/domain"
	ingest "crowdgit/internal/services/ingest/domain"
	"crowdgit/internal/services/ingest/guardrails"
)

// CommitSource reads walker output; unknown remotes are perr NotFound
type CommitSource interface {
	ingest.CommitSource
	Count(ctx context.Context, remote, explicitPath string) (int, error)
}

// Leases reports who holds a repository
type Leases interface {
	Status(ctx context.Context, repoKey string) (guardrails.Status, error)
}

// IdentityCache reads the per repository identity cache
type IdentityCache interface {
	Load(ctx context.Context, repoKey string) (identity.Cache, error)
}

// Ingester runs one repository
type Ingester interface {
	IngestRemote(ctx context.Context, t ingest.Target) (ingest.RunStats, error)
}

// Ports the status service depends on. Remotes and Ledger may be nil
type Ports struct {
	Commits  CommitSource
	Leases   Leases
	Cache    IdentityCache
	Ingester Ingester
	Remotes  ingest.RemoteLister
	Ledger   delivery.LedgerStats
}
