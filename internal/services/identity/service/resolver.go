// Package service reconciles raw commit identities with GitHub accounts
package service

import (
	"context"
	"strings"

	"crowdgit/internal/core/activity"
	"crowdgit/internal/core/remote"
	"crowdgit/internal/platform/logger"
	"crowdgit/internal/services/identity/domain"
)

// Config tunes resolution
type Config struct {
	// BotAccount is the automation login that always marks a member as a bot
	BotAccount string
}

// Resolver upgrades activity members using a per-repository cache and the accounts API
// Calls for the same repository must not run concurrently
type Resolver struct {
	api   domain.AccountsAPI
	store domain.CacheStore
	cfg   Config
}

// New builds a Resolver
func New(api domain.AccountsAPI, store domain.CacheStore, cfg Config) *Resolver {
	if cfg.BotAccount == "" {
		cfg.BotAccount = domain.DefaultBotAccount
	}
	return &Resolver{api: api, store: store, cfg: cfg}
}

// Resolve returns copies of acts with members reconciled against the platform
// Only GitHub channels are resolved; others come back unchanged
// A cache failure is returned and acts are left for the caller to send raw
func (r *Resolver) Resolve(ctx context.Context, channel, sha string, acts []activity.Activity) ([]activity.Activity, error) {
	out := make([]activity.Activity, len(acts))
	for i, a := range acts {
		out[i] = a.Clone()
	}

	rm := remote.Parse(channel)
	if !rm.IsGitHub() {
		return out, nil
	}
	key := rm.Key()

	cache, err := r.store.Load(ctx, key)
	if err != nil {
		return nil, err
	}

	if pending := uncached(cache, out); len(pending) > 0 {
		accounts := r.fetch(ctx, rm, sha)
		for _, m := range pending {
			cache[m.PrimaryEmail()] = matchMember(m, accounts)
		}
		if err := r.store.Save(ctx, key, cache); err != nil {
			return nil, err
		}
		// the persisted copy is authoritative
		if cache, err = r.store.Load(ctx, key); err != nil {
			return nil, err
		}
	}

	for i := range out {
		applyCached(&out[i].Member, cache)
		if domain.IsBot(out[i].Member.Username, r.cfg.BotAccount) {
			markBot(&out[i], rm.CommitURL(sha))
		}
	}
	return out, nil
}

// fetch never fails the commit; errors and empty results leave members unmatched
func (r *Resolver) fetch(ctx context.Context, rm remote.Remote, sha string) []domain.Account {
	log := logger.C(ctx)
	accounts, err := r.api.CommitAccounts(ctx, domain.Repo{Owner: rm.Owner, Name: rm.Name}, sha)
	if err != nil {
		log.Warn().Err(err).Str("sha", sha).Msg("identity: commit accounts lookup failed, keeping git identities")
		return nil
	}
	if len(accounts) == 0 {
		log.Warn().Str("sha", sha).Msg("identity: no accounts returned for commit")
	}
	return accounts
}

// uncached returns one member per email missing from the cache, in activity order
func uncached(cache domain.Cache, acts []activity.Activity) []activity.Member {
	var out []activity.Member
	seen := map[string]bool{}
	for _, a := range acts {
		email := a.Member.PrimaryEmail()
		if email == "" || seen[email] {
			continue
		}
		seen[email] = true
		if _, ok := cache[email]; !ok {
			out = append(out, a.Member)
		}
	}
	return out
}

// matchMember applies the matching rules in priority order: email, then display
// name, then username. The first account satisfying a rule wins
func matchMember(m activity.Member, accounts []domain.Account) domain.CachedMember {
	rules := []func(domain.Account) bool{
		func(a domain.Account) bool { return a.Email != "" && a.Email == m.PrimaryEmail() },
		func(a domain.Account) bool { return a.Name != "" && a.Name == m.DisplayName },
		func(a domain.Account) bool { return a.User.Login == m.Username },
	}
	for _, rule := range rules {
		for _, a := range accounts {
			if a.User == nil || a.User.Login == "" {
				continue
			}
			if rule(a) {
				return fromAccount(a)
			}
		}
	}
	return domain.CachedMember{
		Username:    m.Username,
		DisplayName: m.DisplayName,
		Emails:      append([]string(nil), m.Emails...),
	}
}

func fromAccount(a domain.Account) domain.CachedMember {
	display := a.Name
	if display == "" {
		display = a.User.Login
	}
	var emails []string
	if a.Email != "" {
		emails = []string{a.Email}
	}
	return domain.CachedMember{
		Username:    a.User.Login,
		DisplayName: display,
		Emails:      emails,
		AvatarURL:   a.User.AvatarURL,
		Matched:     true,
	}
}

// applyCached merges the cache entry for m's email into m
// The member's own emails always survive; cached additions skip no-reply relays
func applyCached(m *activity.Member, cache domain.Cache) {
	entry, ok := cache[m.PrimaryEmail()]
	if !ok {
		return
	}
	if entry.Matched {
		m.Username = entry.Username
		m.DisplayName = entry.DisplayName
	}
	m.Emails = unionEmails(m.Emails, entry.Emails)
	if entry.AvatarURL != "" {
		if m.Attributes == nil {
			m.Attributes = &activity.MemberAttributes{}
		}
		m.Attributes.AvatarURL = entry.AvatarURL
	}
}

func unionEmails(own, extra []string) []string {
	out := append([]string(nil), own...)
	seen := make(map[string]bool, len(own)+len(extra))
	for _, e := range own {
		seen[strings.ToLower(e)] = true
	}
	for _, e := range extra {
		k := strings.ToLower(e)
		if e == "" || seen[k] || domain.IsNoReply(e) {
			continue
		}
		seen[k] = true
		out = append(out, e)
	}
	return out
}

func markBot(a *activity.Activity, commitURL string) {
	a.Platform = "github"
	a.Channel = commitURL
	a.URL = commitURL
	if a.Member.Attributes == nil {
		a.Member.Attributes = &activity.MemberAttributes{}
	}
	a.Member.Attributes.IsBot = true
}
