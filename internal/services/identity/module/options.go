package module

import (
	"time"

	"crowdgit/internal/platform/config"
	"crowdgit/internal/services/identity/domain"
)

// Options holds configuration settings for the identity module
type Options struct {
	CacheDir   string
	BotAccount string

	GitHubTokens  []string
	GitHubBaseURL string
	GitHubTimeout time.Duration
	GitHubRetries int
}

// FromConfig reads CORE_INGEST_CACHE_DIR, CORE_INGEST_BOT_ACCOUNT and GITHUB_*
func FromConfig(cfg config.Conf) Options {
	ic := cfg.Prefix("CORE_INGEST_")
	gc := cfg.Prefix("GITHUB_")
	return Options{
		CacheDir:      ic.MayString("CACHE_DIR", "cache/identities"),
		BotAccount:    ic.MayString("BOT_ACCOUNT", domain.DefaultBotAccount),
		GitHubTokens:  gc.MayCSV("TOKENS", nil),
		GitHubBaseURL: gc.MayString("BASE_URL", ""),
		GitHubTimeout: gc.MayDuration("TIMEOUT", 10*time.Second),
		GitHubRetries: gc.MayInt("RETRIES", 3),
	}
}
