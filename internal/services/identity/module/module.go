// Package module wires identity resolution: the GitHub accounts client and the file cache
package module

import (
	"crowdgit/internal/adapters/github"
	"crowdgit/internal/modkit"
	phttp "crowdgit/internal/platform/net/http"
	"crowdgit/internal/services/identity/cache"
	"crowdgit/internal/services/identity/service"
)

// Ports exposed by the identity module
type Ports struct {
	Resolver *service.Resolver
	Cache    *cache.FileStore
}

// Module implements the identity module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

var _ modkit.Module = (*Module)(nil)

// New builds the module; it fails only when the cache dir cannot be created
func New(deps modkit.Deps) (*Module, error) {
	opts := FromConfig(deps.Cfg)

	store, err := cache.NewFileStore(opts.CacheDir)
	if err != nil {
		return nil, err
	}
	if len(opts.GitHubTokens) == 0 {
		deps.Log.Warn().Msg("no GITHUB_TOKENS set, account lookups run unauthenticated")
	}
	api := github.NewClient(github.Options{
		BaseURL:    opts.GitHubBaseURL,
		Timeout:    opts.GitHubTimeout,
		MaxRetries: opts.GitHubRetries,
	}, github.NewTokenPool(opts.GitHubTokens...))

	return &Module{
		deps: deps,
		ports: Ports{
			Resolver: service.New(api, store, service.Config{BotAccount: opts.BotAccount}),
			Cache:    store,
		},
	}, nil
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "identity" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(phttp.Router) {}
