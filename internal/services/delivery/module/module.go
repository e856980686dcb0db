// Package module wires the delivery batcher, its queue sender and the optional ledger
package module

import (
	"context"

	"crowdgit/internal/adapters/sqs"
	"crowdgit/internal/modkit"
	phttp "crowdgit/internal/platform/net/http"
	"crowdgit/internal/services/delivery/domain"
	"crowdgit/internal/services/delivery/repo"
	"crowdgit/internal/services/delivery/service"
)

// Ports exposed by the delivery module. Stats is nil without a ledger
type Ports struct {
	Batcher *service.Batcher
	Stats   domain.LedgerStats
}

// Module implements the delivery module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

var _ modkit.Module = (*Module)(nil)

// New builds the module. A nil sender is replaced by the SQS sender from config
// The ledger is enabled when deps.CH is set; a failed migration only disables it
func New(ctx context.Context, deps modkit.Deps, sender domain.Sender) (*Module, error) {
	opts := FromConfig(deps.Cfg)
	if sender == nil {
		s, err := sqs.New(ctx, opts.SQS)
		if err != nil {
			return nil, err
		}
		sender = s
	}

	var bopts []service.Option
	m := &Module{deps: deps}
	if deps.CH != nil {
		ledger := repo.NewCH(deps.CH)
		if err := ledger.Migrate(ctx); err != nil {
			deps.Log.Warn().Err(err).Msg("delivery ledger disabled")
		} else {
			bopts = append(bopts, service.WithLedger(ledger))
			m.ports.Stats = ledger
		}
	}

	m.ports.Batcher = service.New(sender, service.Config{
		MaxPayload:   opts.MaxPayload,
		BatchRecords: opts.BatchRecords,
	}, bopts...)
	return m, nil
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "delivery" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(phttp.Router) {}
