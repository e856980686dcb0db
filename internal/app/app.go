// Package app assembles the store and the modules every crowdgit binary runs on
package app

import (
	"context"
	"errors"

	"crowdgit/internal/modkit"
	"crowdgit/internal/platform/config"
	"crowdgit/internal/platform/logger"
	"crowdgit/internal/platform/store"
	deliverydomain "crowdgit/internal/services/delivery/domain"
	deliverymod "crowdgit/internal/services/delivery/module"
	identitymod "crowdgit/internal/services/identity/module"
	ingestdomain "crowdgit/internal/services/ingest/domain"
	ingestmod "crowdgit/internal/services/ingest/module"
)

// Options tunes Open
type Options struct {
	// Tag names the binary in logs and database client info
	Tag string

	// Sender replaces the SQS sender, eg for dry runs and tests
	Sender deliverydomain.Sender

	// RawIdentities skips identity resolution
	RawIdentities bool

	// Fuzzy turns on approximate trailer label matching
	Fuzzy bool
}

// App holds the opened store and wired modules
type App struct {
	Log      logger.Logger
	Store    *store.Store
	Deps     modkit.Deps
	Delivery *deliverymod.Module
	Identity *identitymod.Module
	Ingest   *ingestmod.Module
}

// StoreConfig enables postgres only for the pg lease backend and
// clickhouse only when a ledger URL is set
func StoreConfig(root config.Conf, tag string) store.Config {
	pg := root.Prefix("SERVICE_PGSQL_")
	ch := root.Prefix("SERVICE_CLICKHOUSE_")
	backend := root.Prefix("CORE_INGEST_").MayEnum("LEASE_BACKEND", ingestmod.LeaseFile, ingestmod.LeaseFile, ingestmod.LeasePG)

	cfg := store.Config{AppName: "crowdgit", Tag: tag}
	if backend == ingestmod.LeasePG {
		cfg.PG = store.PGConfig{
			Enabled:     true,
			URL:         pg.MustString("DBURL"),
			MaxConns:    int32(pg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pg.MayInt("SLOW_MS", 500),
			LogSQL:      pg.MayBool("LOG_SQL", false),
		}
	}
	if url := ch.MayString("DBURL", ""); url != "" {
		cfg.CH = store.CHConfig{Enabled: true, URL: url}
	}
	return cfg
}

// Open connects the store and wires delivery, identity and ingest
func Open(ctx context.Context, root config.Conf, o Options) (*App, error) {
	l := *logger.Named(o.Tag)
	st, err := store.Open(ctx, StoreConfig(root, o.Tag), store.WithLogger(l))
	if err != nil {
		return nil, err
	}
	a := &App{
		Log:   l,
		Store: st,
		Deps:  modkit.Deps{Log: l, Cfg: root, PG: st.PG, CH: st.CH},
	}

	if a.Delivery, err = deliverymod.New(ctx, a.Deps, o.Sender); err != nil {
		return nil, a.fail(ctx, err)
	}
	c := ingestmod.Collaborators{
		Deliverer: modkit.MustPortsOf[ingestdomain.Deliverer](a.Delivery),
		Fuzzy:     o.Fuzzy,
	}
	if !o.RawIdentities {
		if a.Identity, err = identitymod.New(a.Deps); err != nil {
			return nil, a.fail(ctx, err)
		}
		c.Resolver = modkit.MustPortsOf[ingestdomain.Resolver](a.Identity)
		c.Cache = modkit.MustPortsOf[ingestdomain.CacheResetter](a.Identity)
	}
	if a.Ingest, err = ingestmod.New(ctx, a.Deps, c); err != nil {
		return nil, a.fail(ctx, err)
	}
	return a, nil
}

func (a *App) fail(ctx context.Context, err error) error {
	return errors.Join(err, a.Store.Close(ctx))
}

// Modules lists what was wired, in dependency order
func (a *App) Modules() []modkit.Module {
	out := []modkit.Module{a.Delivery}
	if a.Identity != nil {
		out = append(out, a.Identity)
	}
	return append(out, a.Ingest)
}

// Close releases the store
func (a *App) Close(ctx context.Context) error { return a.Store.Close(ctx) }
