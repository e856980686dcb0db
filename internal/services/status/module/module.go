// Package module wires the status API on top of the ingest, identity and delivery ports
package module

import (
	"context"
	"time"

	"crowdgit/internal/modkit"
	phttp "crowdgit/internal/platform/net/http"
	"crowdgit/internal/platform/net/middleware"
	"crowdgit/internal/platform/store"
	"crowdgit/internal/services/status/domain"
	statushttp "crowdgit/internal/services/status/http"
	"crowdgit/internal/services/status/service"
)

// Options holds configuration settings for the status module
type Options struct {
	AuthToken string
	Swagger   bool
}

// FromConfig reads CORE_API_AUTH_TOKEN, which is required, and CORE_API_ENABLE_SWAGGER
func FromConfig(deps modkit.Deps) Options {
	c := deps.Cfg.Prefix("CORE_API_")
	return Options{
		AuthToken: c.MustString("AUTH_TOKEN"),
		Swagger:   c.MayBool("ENABLE_SWAGGER", false),
	}
}

// Module implements the status module
type Module struct {
	deps    modkit.Deps
	opts    Options
	svc     *service.Service
	started time.Time
}

var _ modkit.Module = (*Module)(nil)

// New builds the module; base bounds background re-ingests
func New(base context.Context, deps modkit.Deps, p domain.Ports) *Module {
	return &Module{
		deps:    deps,
		opts:    FromConfig(deps),
		svc:     service.New(base, p),
		started: time.Now(),
	}
}

// MountRoutes mounts the bearer protected status routes and /meta, plus the public /docs when enabled
func (m *Module) MountRoutes(r phttp.Router) {
	phttp.MountSwagger(r, m.opts.Swagger, statushttp.DocName)
	r.Group(func(gr phttp.Router) {
		gr.Use(middleware.StaticBearer(m.opts.AuthToken))
		statushttp.Register(gr, m.svc)
		gr.Route("/meta", func(mr phttp.Router) {
			statushttp.RegisterMeta(mr, statushttp.MetaDeps{
				StartedAt: m.started,
				PG:        pinger(m.deps.PG),
				CH:        pinger(m.deps.CH),
			})
		})
	})
}

func pinger(v any) store.Pinger {
	if p, ok := v.(store.Pinger); ok {
		return p
	}
	return nil
}

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.svc }

// Name satisfies modkit.Module
func (m *Module) Name() string { return "status" }

// Wait blocks until background re-ingests finish
func (m *Module) Wait() { m.svc.Wait() }
