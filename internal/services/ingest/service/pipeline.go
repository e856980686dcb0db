// Package service runs the per repository ingest pipeline:
// lease, build, resolve, deliver, release
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"crowdgit/internal/core/activity"
	"crowdgit/internal/core/remote"
	"crowdgit/internal/core/trailer"
	perr "crowdgit/internal/platform/errors"
	"crowdgit/internal/platform/logger"
	delivery "crowdgit/internal/services/delivery/domain"
	"crowdgit/internal/services/ingest/domain"
	"crowdgit/internal/services/ingest/guardrails"
)

// DefaultFlushEvery bounds how many activities are held before delivery
const DefaultFlushEvery = 1000

// Config for the Pipeline
type Config struct {
	TenantID   string
	LeaseTTL   time.Duration
	FlushEvery int

	// Fuzzy matches trailer labels approximately instead of exactly
	Fuzzy bool
}

// Ports are the collaborators the pipeline drives. Resolver and Cache may be nil
type Ports struct {
	Commits   domain.CommitSource
	Resolver  domain.Resolver
	Deliverer domain.Deliverer
	Leaser    guardrails.Leaser
	Cache     domain.CacheResetter
}

// Pipeline ingests repositories one at a time
type Pipeline struct {
	p   Ports
	cfg Config
	now func() time.Time
}

// New constructs a Pipeline
func New(p Ports, cfg Config) *Pipeline {
	if cfg.LeaseTTL <= 0 {
		cfg.LeaseTTL = guardrails.DefaultTTL
	}
	if cfg.FlushEvery <= 0 {
		cfg.FlushEvery = DefaultFlushEvery
	}
	return &Pipeline{p: p, cfg: cfg, now: time.Now}
}

func (pl *Pipeline) builder(rawRemote string) *activity.Builder {
	if pl.cfg.Fuzzy {
		return activity.NewBuilder(rawRemote, activity.WithExtractor(trailer.ExtractFuzzy))
	}
	return activity.NewBuilder(rawRemote)
}

// IngestRemote runs one repository. A held lease yields domain.ErrSkipped
// The lease is released on every path once acquired and renewed while the run lasts
func (pl *Pipeline) IngestRemote(ctx context.Context, t domain.Target) (stats domain.RunStats, err error) {
	start := pl.now()
	key := remote.Parse(t.Remote).Key()
	ctx = logger.WithRepo(ctx, t.Remote, t.SegmentID)
	log := logger.C(ctx)

	lease, err := pl.p.Leaser.Acquire(ctx, key, pl.cfg.LeaseTTL)
	if errors.Is(err, guardrails.ErrBusy) {
		log.Info().Str("lease", key).Msg("repository busy, skipping")
		return stats, domain.ErrSkipped
	}
	if err != nil {
		return stats, perr.WithOp(err, "ingest lease")
	}
	defer func() {
		if rerr := lease.Release(context.WithoutCancel(ctx)); rerr != nil {
			log.Error().Err(rerr).Str("lease", key).Msg("lease release failed")
		}
	}()

	if t.ResetCache && pl.p.Cache != nil {
		if err := pl.p.Cache.Delete(ctx, key); err != nil {
			return stats, perr.WithOp(err, "reset identity cache")
		}
		log.Info().Msg("identity cache dropped")
	}

	b := pl.builder(t.Remote)
	route := delivery.Route{
		TenantID:      pl.cfg.TenantID,
		SegmentID:     t.SegmentID,
		IntegrationID: t.IntegrationID,
		Repo:          t.Remote,
	}

	pending := make([]activity.Activity, 0, pl.cfg.FlushEvery)
	flush := func() {
		if len(pending) == 0 {
			return
		}
		rep := pl.p.Deliverer.Deliver(ctx, route, pending)
		stats.Sent += rep.Sent()
		stats.Failed += len(rep.Failed)
		stats.Unacked = append(stats.Unacked, rep.Failed...)
		stats.Truncated += rep.Truncated
		pending = pending[:0]
	}

	err = pl.p.Commits.Commits(ctx, t.Remote, t.CommitsPath, func(c activity.Commit, derr error) error {
		if derr != nil {
			stats.Skipped++
			log.Error().Err(derr).Msg("malformed commit record skipped")
			return nil
		}
		stats.Commits++
		if err := pl.renew(ctx, lease); err != nil {
			return err
		}

		res := b.Build(c)
		if !res.OK() {
			stats.Skipped++
			log.Error().Err(res.Err).Str("commit", res.Hash).Msg("commit skipped")
			return nil
		}

		acts := pl.resolve(logger.WithCommit(ctx, c.Hash), b.Channel(), c.Hash, res.Activities)
		stats.Activities += len(acts)
		pending = append(pending, acts...)
		if len(pending) >= pl.cfg.FlushEvery {
			flush()
		}
		return ctx.Err()
	})
	if err == nil {
		flush()
	}
	stats.Elapsed = pl.now().Sub(start)

	ev := log.Info()
	if err != nil {
		ev = log.Error().Err(err)
	}
	ev.Int("commits", stats.Commits).
		Int("skipped", stats.Skipped).
		Int("activities", stats.Activities).
		Int("sent", stats.Sent).
		Int("failed", stats.Failed).
		Int("truncated", stats.Truncated).
		Dur("elapsed", stats.Elapsed).
		Msg("ingest finished")
	return stats, err
}

// renew extends the lease once half its ttl has elapsed
// Losing the lease stops the run; other renewal errors are retried on a later commit
func (pl *Pipeline) renew(ctx context.Context, lease guardrails.Lease) error {
	if pl.now().Before(lease.ExpiresAt().Add(-pl.cfg.LeaseTTL / 2)) {
		return nil
	}
	err := lease.Extend(ctx, pl.cfg.LeaseTTL)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, guardrails.ErrBusy):
		return perr.Wrapf(err, perr.ErrorCodeConflict, "ingest lease %s lost", lease.Key())
	default:
		ev := logger.C(ctx).Warn().Err(err).Str("lease", lease.Key())
		if !pl.now().Before(lease.ExpiresAt()) {
			ev = ev.Bool("expired", true)
		}
		ev.Msg("lease renewal failed")
		return nil
	}
}

// resolve keeps the raw activities when resolution fails
func (pl *Pipeline) resolve(ctx context.Context, channel, sha string, acts []activity.Activity) []activity.Activity {
	if pl.p.Resolver == nil {
		return acts
	}
	out, err := pl.p.Resolver.Resolve(ctx, channel, sha, acts)
	if err != nil {
		logger.C(ctx).Warn().Err(err).Msg("identity resolution failed, keeping raw identities")
		return acts
	}
	return out
}

// IngestAll runs every target in order. One repository's failure never stops the rest
// Busy repositories are reported in the runs but are not errors
func (pl *Pipeline) IngestAll(ctx context.Context, targets []domain.Target) ([]domain.Run, error) {
	runs := make([]domain.Run, 0, len(targets))
	var errs []error
	for _, t := range targets {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		stats, err := pl.IngestRemote(ctx, t)
		runs = append(runs, domain.Run{Target: t, Stats: stats, Err: err})
		if err != nil && !errors.Is(err, domain.ErrSkipped) {
			errs = append(errs, fmt.Errorf("%s: %w", t.Remote, err))
		}
	}
	return runs, errors.Join(errs...)
}
