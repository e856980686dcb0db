package module

import (
	"time"

	"crowdgit/internal/platform/config"
	"crowdgit/internal/services/ingest/guardrails"
	"crowdgit/internal/services/ingest/service"
)

// Lease backends
const (
	LeaseFile = "file"
	LeasePG   = "pg"
)

// Options holds configuration settings for the ingest module
type Options struct {
	TenantID string

	ReposDir     string
	LeaseDir     string
	LeaseTTL     time.Duration
	LeaseBackend string
	Fuzzy        bool
	FlushEvery   int

	CrowdHost   string
	CrowdAPIKey string
}

// FromConfig reads TENANT_ID, CROWD_* and CORE_INGEST_*
func FromConfig(cfg config.Conf) Options {
	ic := cfg.Prefix("CORE_INGEST_")
	return Options{
		TenantID:     cfg.MayString("TENANT_ID", ""),
		ReposDir:     ic.MayString("REPOS_DIR", "repos"),
		LeaseDir:     ic.MayString("LEASE_DIR", "."),
		LeaseTTL:     ic.MayDuration("LEASE_TTL", guardrails.DefaultTTL),
		LeaseBackend: ic.MayEnum("LEASE_BACKEND", LeaseFile, LeaseFile, LeasePG),
		Fuzzy:        ic.MayBool("FUZZY", false),
		FlushEvery:   ic.MayInt("FLUSH_EVERY", service.DefaultFlushEvery),
		CrowdHost:    cfg.MayString("CROWD_HOST", ""),
		CrowdAPIKey:  cfg.MayString("CROWD_API_KEY", ""),
	}
}
