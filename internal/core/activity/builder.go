package activity

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"

	"crowdgit/internal/core/trailer"
	perr "crowdgit/internal/platform/errors"
	"crowdgit/internal/platform/validate"
)

// SourceID derives the stable id for a non-root activity
func SourceID(hash, typ, email string) string {
	sum := sha1.Sum([]byte(hash + typ + email))
	return hex.EncodeToString(sum[:])
}

// committedType is the historical spelling hashed into committed-commit ids
// Changing it would re-key every committed activity already delivered
const committedType = "commited-commit"

// BuildError is a commit-scoped failure; other commits are unaffected
type BuildError struct {
	Hash string
	Err  error
}

func (e *BuildError) Error() string {
	if e.Hash == "" {
		return "commit: " + e.Err.Error()
	}
	return "commit " + e.Hash + ": " + e.Err.Error()
}

func (e *BuildError) Unwrap() error { return e.Err }

// Field returns the missing or invalid commit field, when known
func (e *BuildError) Field() string {
	if pe, ok := perr.As(e.Err); ok {
		return pe.Field()
	}
	return ""
}

// Result is the outcome of building one commit
// Exactly one of Activities or Err is meaningful
type Result struct {
	Hash       string
	Activities []Activity
	Err        *BuildError
}

// OK reports whether the commit built
func (r Result) OK() bool { return r.Err == nil }

// Extractor enumerates trailer contributions for message lines
type Extractor func(lines []string) []trailer.Contribution

// Builder builds activities for commits of one repository
type Builder struct {
	remote  string
	channel string
	extract Extractor
}

// Option configures a Builder
type Option func(*Builder)

// WithChannel overrides the channel, which defaults to the remote
func WithChannel(ch string) Option { return func(b *Builder) { b.channel = ch } }

// WithExtractor swaps trailer extraction, eg for fuzzy matching
func WithExtractor(fn Extractor) Option { return func(b *Builder) { b.extract = fn } }

// NewBuilder returns a Builder for the repository at remote
func NewBuilder(remote string, opts ...Option) *Builder {
	b := &Builder{remote: remote, channel: remote, extract: trailer.Extract}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Remote returns the repository remote the builder stamps on activities
func (b *Builder) Remote() string { return b.remote }

// Channel returns the channel stamped on activities
func (b *Builder) Channel() string { return b.channel }

// Build returns the authored, committed and trailer activities for c, in that order
func (b *Builder) Build(c Commit) Result {
	if err := validate.Struct(c, perr.ErrorCodeMalformedCommit); err != nil {
		return Result{Hash: c.Hash, Err: &BuildError{Hash: c.Hash, Err: err}}
	}

	base := b.base(c)
	contribs := b.extract(c.Message)
	out := make([]Activity, 0, 2+len(contribs))

	out = append(out, base.with(TypeAuthored, c.Hash, "", MemberFrom(c.Author())))
	out = append(out, base.with(TypeCommitted, SourceID(c.Hash, committedType, c.CommitterEmail), c.Hash, MemberFrom(c.Committer())))

	for _, ct := range contribs {
		typ := ct.Kind.ActivityType()
		out = append(out, base.with(typ, SourceID(c.Hash, typ, ct.Person.Email), c.Hash, MemberFrom(ct.Person)))
	}
	return Result{Hash: c.Hash, Activities: out}
}

// BuildAll builds every commit, collecting activities and per-commit failures separately
func (b *Builder) BuildAll(commits []Commit) ([]Activity, []*BuildError) {
	var acts []Activity
	var failed []*BuildError
	for _, c := range commits {
		r := b.Build(c)
		if !r.OK() {
			failed = append(failed, r.Err)
			continue
		}
		acts = append(acts, r.Activities...)
	}
	return acts, failed
}

type template struct{ Activity }

func (b *Builder) base(c Commit) template {
	ins, del := intOr(c.Insertions, 0), intOr(c.Deletions, 0)
	return template{Activity{
		Timestamp: c.Datetime,
		Platform:  Platform,
		Channel:   b.channel,
		Body:      strings.Join(c.Message, "\n"),
		URL:       b.remote,
		Attributes: Attributes{
			Insertions:   ins,
			Deletions:    del,
			Lines:        ins - del,
			IsMerge:      boolOr(c.IsMergeCommit, false),
			IsMainBranch: boolOr(c.IsMainBranch, true),
			Timezone:     timezoneOf(c.Datetime),
		},
	}}
}

func (t template) with(typ, sourceID, parentID string, m Member) Activity {
	a := t.Activity
	a.Type = typ
	a.SourceID = sourceID
	a.SourceParentID = parentID
	a.Member = m
	return a
}
