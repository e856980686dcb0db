package app

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"crowdgit/internal/platform/config"
	"crowdgit/internal/platform/logger"
	deliverydomain "crowdgit/internal/services/delivery/domain"
	ingestdomain "crowdgit/internal/services/ingest/domain"
	ingestmod "crowdgit/internal/services/ingest/module"

	"github.com/rs/zerolog"
)

func init() { logger.Use(zerolog.New(io.Discard)) }

type countingSender struct {
	mu   sync.Mutex
	msgs []deliverydomain.Message
}

func (s *countingSender) Send(_ context.Context, m deliverydomain.Message) (deliverydomain.Ack, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = append(s.msgs, m)
	return deliverydomain.Ack{MessageID: "m", DeduplicationID: m.DeduplicationID}, nil
}

func env(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("TENANT_ID", "tenant-1")
	t.Setenv("CROWD_HOST", "")
	t.Setenv("CORE_INGEST_REPOS_DIR", filepath.Join(dir, "repos"))
	t.Setenv("CORE_INGEST_CACHE_DIR", filepath.Join(dir, "cache"))
	t.Setenv("CORE_INGEST_LEASE_DIR", dir)
	t.Setenv("CORE_INGEST_LEASE_BACKEND", "file")
	t.Setenv("SERVICE_CLICKHOUSE_DBURL", "")
	if err := os.MkdirAll(filepath.Join(dir, "repos"), 0o755); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestStoreConfig(t *testing.T) {
	env(t)
	cfg := StoreConfig(config.New(), "api")
	if cfg.PG.Enabled || cfg.CH.Enabled || cfg.Tag != "api" {
		t.Fatalf("file backend without ledger should open nothing: %+v", cfg)
	}

	t.Setenv("CORE_INGEST_LEASE_BACKEND", "pg")
	t.Setenv("SERVICE_PGSQL_DBURL", "postgres://u:p@localhost/db")
	t.Setenv("SERVICE_CLICKHOUSE_DBURL", "clickhouse://localhost:9000/default")
	cfg = StoreConfig(config.New(), "api")
	if !cfg.PG.Enabled || cfg.PG.URL != "postgres://u:p@localhost/db" || !cfg.CH.Enabled {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestOpen_IngestsThroughSender(t *testing.T) {
	dir := env(t)
	const rm = "https://git.kernel.org/pub/scm/linux/kernel/git/torvalds/linux.git"
	commits := `[{"hash":"abc","author_name":"Ada","author_email":"ada@x.io",
		"committer_name":"Bob","committer_email":"bob@x.io",
		"datetime":"2024-05-01T10:00:00+02:00",
		"message":["fix", "", "Reviewed-by: Carol <carol@x.io>"]}]`
	path := filepath.Join(dir, "repos", "git.kernel.org__pub__scm__linux__kernel__git__torvalds__linux.json")
	if err := os.WriteFile(path, []byte(commits), 0o644); err != nil {
		t.Fatal(err)
	}

	sender := &countingSender{}
	ctx := context.Background()
	a, err := Open(ctx, config.New(), Options{Tag: "test", Sender: sender})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer func() { _ = a.Close(ctx) }()

	if n := len(a.Modules()); n != 3 {
		t.Fatalf("modules = %d", n)
	}

	p := a.Ingest.Ports().(ingestmod.Ports)
	stats, err := p.Pipeline.IngestRemote(ctx, ingestdomain.Target{SegmentID: "seg", Remote: rm})
	if err != nil {
		t.Fatalf("IngestRemote: %v", err)
	}
	if stats.Commits != 1 || stats.Activities != 3 || stats.Sent != 3 || len(sender.msgs) != 3 {
		t.Fatalf("stats = %+v, sent %d", stats, len(sender.msgs))
	}
	if held, _ := p.Leases.Status(ctx, "git.kernel.org__pub__scm__linux__kernel__git__torvalds__linux"); held.Held {
		t.Fatal("lease should be released after the run")
	}
}

func TestOpen_RequiresTenant(t *testing.T) {
	env(t)
	t.Setenv("TENANT_ID", "")
	if _, err := Open(context.Background(), config.New(), Options{Tag: "test", Sender: &countingSender{}, RawIdentities: true}); err == nil {
		t.Fatal("expected an error without TENANT_ID")
	}
}

func TestOpen_FuzzyOption(t *testing.T) {
	dir := env(t)
	t.Setenv("CORE_INGEST_FUZZY", "false")
	const rm = "https://gitlab.com/acme/widget"
	commits := `[{"hash":"abc","author_name":"Ada","author_email":"ada@x.io",
		"committer_name":"Bob","committer_email":"bob@x.io",
		"datetime":"2024-05-01T10:00:00+02:00",
		"message":["fix", "", "Reviewd by: Carol <carol@x.io>"]}]`
	if err := os.WriteFile(filepath.Join(dir, "repos", "gitlab.com__acme__widget.json"), []byte(commits), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	for _, tc := range []struct {
		fuzzy bool
		sent  int
	}{{false, 2}, {true, 3}} {
		sender := &countingSender{}
		a, err := Open(ctx, config.New(), Options{Tag: "test", Sender: sender, RawIdentities: true, Fuzzy: tc.fuzzy})
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		p := a.Ingest.Ports().(ingestmod.Ports)
		stats, err := p.Pipeline.IngestRemote(ctx, ingestdomain.Target{SegmentID: "seg", Remote: rm})
		_ = a.Close(ctx)
		if err != nil || stats.Sent != tc.sent {
			t.Fatalf("fuzzy=%v: stats=%+v err=%v", tc.fuzzy, stats, err)
		}
	}
}
