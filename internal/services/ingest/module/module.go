// Package module wires the ingest pipeline: commit source, lease backend and tenant remotes
package module

import (
	"context"

	"crowdgit/internal/adapters/commits"
	"crowdgit/internal/adapters/remotes"
	"crowdgit/internal/modkit"
	perr "crowdgit/internal/platform/errors"
	phttp "crowdgit/internal/platform/net/http"
	"crowdgit/internal/services/ingest/domain"
	"crowdgit/internal/services/ingest/guardrails"
	"crowdgit/internal/services/ingest/service"
)

// Ports exposed by the ingest module. Remotes is nil without CROWD_HOST
type Ports struct {
	Pipeline *service.Pipeline
	Commits  *commits.FileSource
	Leases   guardrails.Leaser
	Remotes  domain.RemoteLister
}

// Module implements the ingest module
type Module struct {
	deps  modkit.Deps
	opts  Options
	ports Ports
}

var _ modkit.Module = (*Module)(nil)

// Collaborators come from the delivery and identity modules
type Collaborators struct {
	Deliverer domain.Deliverer

	// Resolver and Cache are nil when raw identities are sent
	Resolver domain.Resolver
	Cache    domain.CacheResetter

	// Fuzzy forces approximate label matching regardless of CORE_INGEST_FUZZY
	Fuzzy bool
}

// New builds the module around the delivery and identity collaborators
func New(ctx context.Context, deps modkit.Deps, c Collaborators) (*Module, error) {
	opts := FromConfig(deps.Cfg)
	opts.Fuzzy = opts.Fuzzy || c.Fuzzy
	if opts.TenantID == "" {
		return nil, perr.WithField(perr.InvalidArgf("TENANT_ID is required"), "TENANT_ID")
	}

	leaser, err := newLeaser(ctx, deps, opts)
	if err != nil {
		return nil, err
	}

	m := &Module{deps: deps, opts: opts}
	m.ports.Commits = commits.NewFileSource(opts.ReposDir)
	m.ports.Leases = leaser
	if opts.CrowdHost != "" {
		rl, err := remotes.New(remotes.Options{Host: opts.CrowdHost, TenantID: opts.TenantID, APIKey: opts.CrowdAPIKey})
		if err != nil {
			return nil, err
		}
		m.ports.Remotes = rl
	}

	p := service.Ports{
		Commits:   m.ports.Commits,
		Resolver:  c.Resolver,
		Deliverer: c.Deliverer,
		Leaser:    leaser,
		Cache:     c.Cache,
	}
	m.ports.Pipeline = service.New(p, service.Config{
		TenantID:   opts.TenantID,
		LeaseTTL:   opts.LeaseTTL,
		FlushEvery: opts.FlushEvery,
		Fuzzy:      opts.Fuzzy,
	})
	return m, nil
}

func newLeaser(ctx context.Context, deps modkit.Deps, opts Options) (guardrails.Leaser, error) {
	owner := guardrails.DefaultOwner()
	if opts.LeaseBackend != LeasePG {
		return guardrails.NewFileLeaser(opts.LeaseDir, owner)
	}
	if deps.PG == nil {
		return nil, perr.InvalidArgf("lease backend pg needs SERVICE_PGSQL_DBURL")
	}
	l := guardrails.NewPGLeaser(deps.PG, owner)
	if err := l.Migrate(ctx); err != nil {
		return nil, err
	}
	return l, nil
}

// Targets lists the tenant remotes
func (m *Module) Targets(ctx context.Context) ([]domain.Target, error) {
	if m.ports.Remotes == nil {
		return nil, perr.InvalidArgf("CROWD_HOST is required to list tenant remotes")
	}
	return m.ports.Remotes.Targets(ctx)
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "ingest" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(phttp.Router) {}
