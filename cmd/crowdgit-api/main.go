// Command crowdgit-api serves the bearer protected status API
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crowdgit/internal/app"
	"crowdgit/internal/platform/config"
	"crowdgit/internal/platform/logger"
	phttp "crowdgit/internal/platform/net/http"
	"crowdgit/internal/platform/net/middleware"
	deliverymod "crowdgit/internal/services/delivery/module"
	identitymod "crowdgit/internal/services/identity/module"
	ingestmod "crowdgit/internal/services/ingest/module"
	statusdomain "crowdgit/internal/services/status/domain"
	statusmod "crowdgit/internal/services/status/module"

	"github.com/go-chi/chi/v5"
)

func main() {
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Open(ctx, root, app.Options{Tag: "api"})
	if err != nil {
		l.Fatal().Err(err).Msg("startup failed")
	}
	defer func() {
		if err := a.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	ing := a.Ingest.Ports().(ingestmod.Ports)
	status := statusmod.New(ctx, a.Deps, statusdomain.Ports{
		Commits:  ing.Commits,
		Leases:   ing.Leases,
		Cache:    a.Identity.Ports().(identitymod.Ports).Cache,
		Ingester: ing.Pipeline,
		Remotes:  ing.Remotes,
		Ledger:   a.Delivery.Ports().(deliverymod.Ports).Stats,
	})

	srv := phttp.NewServer(root, func(m *chi.Mux) {
		m.Use(middleware.Defaults(
			apiCfg.MayCSV("CORS_ORIGINS", []string{"*"}),
			apiCfg.MayDuration("SLOW_REQUEST", 500*time.Millisecond),
		)...)
	})
	for _, m := range append(a.Modules(), status) {
		m.MountRoutes(srv.Router())
	}

	if err := srv.Run(ctx); err != nil {
		l.Error().Err(err).Msg("http server stopped")
	}
	status.Wait()
}
