// Package activity turns commits into attributed activity records with
// deterministic source ids
package activity

import (
	"time"

	"crowdgit/internal/core/trailer"
)

// Platform is the origin tag for activities built from git history
const Platform = "git"

// Activity types produced outside the trailer table
const (
	TypeAuthored  = "authored-commit"
	TypeCommitted = "committed-commit"
)

// Person is a raw name and email as written in a commit
type Person = trailer.Person

// Commit is one commit record as produced by the repository walker
// Optional counters use pointers; nil means unknown and takes the documented default
type Commit struct {
	Hash           string   `json:"hash" validate:"required"`
	AuthorName     string   `json:"author_name"`
	AuthorEmail    string   `json:"author_email"`
	CommitterName  string   `json:"committer_name"`
	CommitterEmail string   `json:"committer_email"`
	Datetime       string   `json:"datetime" validate:"required"`
	Message        []string `json:"message" validate:"required"`
	Insertions     *int     `json:"insertions,omitempty"`      // default 0
	Deletions      *int     `json:"deletions,omitempty"`       // default 0
	IsMergeCommit  *bool    `json:"is_merge_commit,omitempty"` // default false
	IsMainBranch   *bool    `json:"is_main_branch,omitempty"`  // default true
}

// Author returns the commit author
func (c Commit) Author() Person { return Person{Name: c.AuthorName, Email: c.AuthorEmail} }

// Committer returns the commit committer
func (c Commit) Committer() Person { return Person{Name: c.CommitterName, Email: c.CommitterEmail} }

func intOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

// Attributes are the numeric and boolean facts copied from the commit
type Attributes struct {
	Insertions   int    `json:"insertions"`
	Deletions    int    `json:"deletions"`
	Lines        int    `json:"lines"`
	IsMerge      bool   `json:"isMerge"`
	IsMainBranch bool   `json:"isMainBranch"`
	Timezone     string `json:"timezone,omitempty"`
}

// MemberAttributes carries platform facts learned during identity resolution
type MemberAttributes struct {
	IsBot     bool   `json:"isBot,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// IsZero reports whether no attribute is set
func (a MemberAttributes) IsZero() bool { return !a.IsBot && a.AvatarURL == "" }

// Member is the person an activity is attributed to
type Member struct {
	Username    string            `json:"username"`
	DisplayName string            `json:"displayName"`
	Emails      []string          `json:"emails"`
	Attributes  *MemberAttributes `json:"attributes,omitempty"`
}

// MemberFrom builds a raw member from a git identity
func MemberFrom(p Person) Member {
	return Member{Username: p.Name, DisplayName: p.Name, Emails: []string{p.Email}}
}

// PrimaryEmail is the email the member was extracted with
func (m Member) PrimaryEmail() string {
	if len(m.Emails) == 0 {
		return ""
	}
	return m.Emails[0]
}

// Clone returns a deep copy
func (m Member) Clone() Member {
	out := m
	out.Emails = append([]string(nil), m.Emails...)
	if m.Attributes != nil {
		a := *m.Attributes
		out.Attributes = &a
	}
	return out
}

// Activity is one attributed contribution derived from a commit
type Activity struct {
	Type           string     `json:"type"`
	Timestamp      string     `json:"timestamp"`
	SourceID       string     `json:"sourceId"`
	SourceParentID string     `json:"sourceParentId"`
	Platform       string     `json:"platform"`
	Channel        string     `json:"channel"`
	Body           string     `json:"body"`
	Attributes     Attributes `json:"attributes"`
	URL            string     `json:"url"`
	Member         Member     `json:"member"`
}

// Clone returns a deep copy
func (a Activity) Clone() Activity {
	out := a
	out.Member = a.Member.Clone()
	return out
}

// timezoneOf returns the numeric offset of an ISO-8601 timestamp, eg "+02:00"
// Unparsable input yields ""
func timezoneOf(datetime string) string {
	for _, layout := range datetimeLayouts {
		if t, err := time.Parse(layout, datetime); err == nil {
			return t.Format("-07:00")
		}
	}
	return ""
}

var datetimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05-0700",
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05-07:00",
}
