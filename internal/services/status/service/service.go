// Package service answers status queries about ingested repositories and
// starts background re-ingests
package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"crowdgit/internal/core/activity"
	"crowdgit/internal/core/remote"
	"crowdgit/internal/core/trailer"
	perr "crowdgit/internal/platform/errors"
	"crowdgit/internal/platform/logger"
	ingest "crowdgit/internal/services/ingest/domain"
	"crowdgit/internal/services/status/domain"
)

var errFound = errors.New("found")

// Service implements the status endpoints
type Service struct {
	p    domain.Ports
	base context.Context
	wg   sync.WaitGroup
}

// New builds a Service. Background re-ingests derive from base and stop with it
func New(base context.Context, p domain.Ports) *Service {
	return &Service{p: p, base: base}
}

// Hello is the authenticated liveness reply
func (s *Service) Hello(context.Context) domain.Hello {
	return domain.Hello{Message: "Hello World"}
}

// Stats reports the commit count, lease and cache size of a repository
// A repository without walker output is NotFound
func (s *Service) Stats(ctx context.Context, in domain.RemoteInput) (domain.RepoStats, error) {
	key := remote.Parse(in.Remote).Key()
	out := domain.RepoStats{Remote: in.Remote, Key: key}

	n, err := s.p.Commits.Count(ctx, in.Remote, "")
	if err != nil {
		return out, err
	}
	out.NumCommits = n

	if out.Lease, err = s.p.Leases.Status(ctx, key); err != nil {
		return out, err
	}
	cache, err := s.p.Cache.Load(ctx, key)
	if err != nil {
		return out, err
	}
	out.CachedMembers = len(cache)

	if s.p.Ledger != nil {
		// the ledger is advisory; a read failure leaves the field empty
		if counts, lerr := s.p.Ledger.Counts(ctx, in.Remote); lerr != nil {
			logger.C(ctx).Warn().Err(lerr).Msg("ledger counts unavailable")
		} else {
			out.Deliveries = counts
		}
	}
	return out, nil
}

// UserByEmail finds the first commit naming email as author, committer or trailer person
// and reports the name written there, plus the cached login when one was matched
func (s *Service) UserByEmail(ctx context.Context, in domain.UserInput) (domain.User, error) {
	var found *activity.Person
	err := s.p.Commits.Commits(ctx, in.Remote, "", func(c activity.Commit, derr error) error {
		if derr != nil {
			return nil
		}
		if p, ok := personIn(c, in.Email); ok {
			found = &p
			return errFound
		}
		return ctx.Err()
	})
	if err != nil && !errors.Is(err, errFound) {
		return domain.User{}, err
	}
	if found == nil {
		return domain.User{}, perr.NotFoundf("user not found")
	}

	u := domain.User{Email: in.Email, Name: found.Name}
	if cache, cerr := s.p.Cache.Load(ctx, remote.Parse(in.Remote).Key()); cerr == nil {
		if m, ok := cache[found.Email]; ok && m.Matched {
			u.Username = m.Username
		}
	}
	return u, nil
}

func personIn(c activity.Commit, email string) (activity.Person, bool) {
	for _, p := range []activity.Person{c.Author(), c.Committer()} {
		if strings.EqualFold(p.Email, email) {
			return p, true
		}
	}
	for _, ct := range trailer.Extract(c.Message) {
		if strings.EqualFold(ct.Person.Email, email) {
			return ct.Person, true
		}
	}
	return activity.Person{}, false
}

// Reonboard checks the repository is known, then re-ingests it in the background
// under the tenant segment that lists it, dropping its identity cache once the lease is held
func (s *Service) Reonboard(ctx context.Context, in domain.RemoteInput) (domain.Reonboard, error) {
	if s.p.Remotes == nil {
		return domain.Reonboard{}, perr.Unavailablef("tenant remotes are not configured")
	}
	if _, err := s.p.Commits.Count(ctx, in.Remote, ""); err != nil {
		return domain.Reonboard{}, err
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.reonboard(s.base, in.Remote)
	}()
	return domain.Reonboard{Message: "Reonboarding started", Remote: in.Remote}, nil
}

func (s *Service) reonboard(ctx context.Context, raw string) {
	ctx = logger.WithRepo(ctx, raw, "")
	log := logger.C(ctx)

	targets, err := s.p.Remotes.Targets(ctx)
	if err != nil {
		log.Error().Err(err).Msg("reonboard: list tenant remotes failed")
		return
	}
	var matched []ingest.Target
	for _, t := range targets {
		if remote.Same(t.Remote, raw) {
			matched = append(matched, t)
		}
	}
	if len(matched) == 0 {
		log.Warn().Msg("reonboard: remote is not a tenant repository")
		return
	}

	// the cache is dropped by the first run that gets the lease
	reset := true
	for _, t := range matched {
		t.Remote = raw
		t.ResetCache = reset
		_, err := s.p.Ingester.IngestRemote(ctx, t)
		switch {
		case errors.Is(err, ingest.ErrSkipped):
			log.Warn().Str("segment_id", t.SegmentID).Msg("reonboard: repository busy, skipped")
			continue
		case err != nil:
			log.Error().Err(err).Str("segment_id", t.SegmentID).Msg("reonboard: ingest failed")
		}
		reset = false
	}
}

// Wait blocks until background re-ingests finish
func (s *Service) Wait() { s.wg.Wait() }
