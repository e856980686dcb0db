package activity

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"crowdgit/internal/core/trailer"
	perr "crowdgit/internal/platform/errors"
)

const remote = "https://github.com/torvalds/linux"

func ptr[T any](v T) *T { return &v }

func sampleCommit() Commit {
	return Commit{
		Hash:           "abc123",
		AuthorName:     "Arnd Bergmann",
		AuthorEmail:    "arnd@arndb.de",
		CommitterName:  "Linus Torvalds",
		CommitterEmail: "linus@example.com",
		Datetime:       "2023-05-10T17:07:41+02:00",
		Message: []string{
			"arm: fix build",
			"",
			"Signed-off-by: Arnd Bergmann <arnd@arndb.de>",
			"Reported-by: Guenter Roeck <linux@roeck-us.net>",
		},
		Insertions: ptr(10),
		Deletions:  ptr(3),
	}
}

func typesOf(acts []Activity) []string {
	out := make([]string, len(acts))
	for i, a := range acts {
		out[i] = a.Type
	}
	return out
}

func TestBuild_OrderAndIDs(t *testing.T) {
	r := NewBuilder(remote).Build(sampleCommit())
	if !r.OK() {
		t.Fatalf("unexpected error: %v", r.Err)
	}
	want := []string{TypeAuthored, TypeCommitted, "co-authored-commit", "signed-off-commit", "reported-commit"}
	if got := typesOf(r.Activities); !reflect.DeepEqual(got, want) {
		t.Fatalf("types = %v", got)
	}

	authored, committed := r.Activities[0], r.Activities[1]
	if authored.SourceID != "abc123" || authored.SourceParentID != "" {
		t.Fatalf("authored ids = %q/%q", authored.SourceID, authored.SourceParentID)
	}
	if committed.SourceID != "e6e38841ead6360107551c84794516bcf1e2a87a" || committed.SourceParentID != "abc123" {
		t.Fatalf("committed ids = %q/%q", committed.SourceID, committed.SourceParentID)
	}
	signed := r.Activities[3]
	if signed.SourceID != "e7174df3206064b2420c8c94450a82fa92c11421" || signed.SourceParentID != "abc123" {
		t.Fatalf("signed-off ids = %q/%q", signed.SourceID, signed.SourceParentID)
	}
	if signed.Member.Username != "Arnd Bergmann" || signed.Member.Emails[0] != "arnd@arndb.de" {
		t.Fatalf("member = %+v", signed.Member)
	}
}

func TestBuild_SharedFields(t *testing.T) {
	r := NewBuilder(remote).Build(sampleCommit())
	for _, a := range r.Activities {
		if a.Platform != "git" || a.Channel != remote || a.URL != remote {
			t.Fatalf("origin fields wrong: %+v", a)
		}
		if a.Timestamp != "2023-05-10T17:07:41+02:00" {
			t.Fatalf("timestamp = %q", a.Timestamp)
		}
		if !strings.HasPrefix(a.Body, "arm: fix build\n\nSigned-off-by") {
			t.Fatalf("body = %q", a.Body)
		}
		want := Attributes{Insertions: 10, Deletions: 3, Lines: 7, IsMerge: false, IsMainBranch: true, Timezone: "+02:00"}
		if a.Attributes != want {
			t.Fatalf("attributes = %+v", a.Attributes)
		}
	}
}

func TestBuild_EmptyMessageYieldsTwo(t *testing.T) {
	c := Commit{
		Hash:           "deadbeef",
		AuthorName:     "Same",
		AuthorEmail:    "same@example.com",
		CommitterName:  "Same",
		CommitterEmail: "same@example.com",
		Datetime:       "2023-01-01T00:00:00Z",
		Message:        []string{},
	}
	r := NewBuilder(remote).Build(c)
	if !r.OK() || len(r.Activities) != 2 {
		t.Fatalf("got %d activities, err=%v", len(r.Activities), r.Err)
	}
	if r.Activities[0].Type != TypeAuthored || r.Activities[1].Type != TypeCommitted {
		t.Fatalf("types = %v", typesOf(r.Activities))
	}
	if r.Activities[0].Attributes.Lines != 0 || r.Activities[0].Attributes.Timezone != "+00:00" {
		t.Fatalf("defaults wrong: %+v", r.Activities[0].Attributes)
	}
}

func TestBuild_NegativeLinesAndFlags(t *testing.T) {
	c := sampleCommit()
	c.Insertions, c.Deletions = ptr(1), ptr(9)
	c.IsMergeCommit, c.IsMainBranch = ptr(true), ptr(false)
	a := NewBuilder(remote).Build(c).Activities[0]
	if a.Attributes.Lines != -8 || !a.Attributes.IsMerge || a.Attributes.IsMainBranch {
		t.Fatalf("attributes = %+v", a.Attributes)
	}
}

func TestBuild_Idempotent(t *testing.T) {
	b := NewBuilder(remote)
	r1, r2 := b.Build(sampleCommit()), b.Build(sampleCommit())
	if !reflect.DeepEqual(r1, r2) {
		t.Fatalf("builds differ")
	}
	seen := map[string]bool{}
	for _, a := range r1.Activities {
		if seen[a.SourceID] {
			t.Fatalf("duplicate source id %s", a.SourceID)
		}
		seen[a.SourceID] = true
	}
}

func TestBuild_MissingRequiredField(t *testing.T) {
	cases := map[string]func(*Commit){
		"hash":     func(c *Commit) { c.Hash = "" },
		"datetime": func(c *Commit) { c.Datetime = "" },
		"message":  func(c *Commit) { c.Message = nil },
	}
	for field, mutate := range cases {
		c := sampleCommit()
		mutate(&c)
		r := NewBuilder(remote).Build(c)
		if r.OK() || len(r.Activities) != 0 {
			t.Fatalf("%s: expected failure", field)
		}
		if r.Err.Field() != field {
			t.Fatalf("%s: field = %q", field, r.Err.Field())
		}
		if !perr.IsCode(r.Err, perr.ErrorCodeMalformedCommit) {
			t.Fatalf("%s: code = %v", field, perr.CodeOf(r.Err))
		}
	}
}

func TestBuildAll_SkipsBadCommits(t *testing.T) {
	bad := sampleCommit()
	bad.Hash = "bad1"
	bad.Datetime = ""
	acts, failed := NewBuilder(remote).BuildAll([]Commit{sampleCommit(), bad, sampleCommit()})
	if len(acts) != 10 || len(failed) != 1 {
		t.Fatalf("acts=%d failed=%d", len(acts), len(failed))
	}
	if failed[0].Hash != "bad1" || !strings.Contains(failed[0].Error(), "bad1") {
		t.Fatalf("failure = %v", failed[0])
	}
}

func TestBuild_CustomExtractorAndChannel(t *testing.T) {
	b := NewBuilder(remote, WithChannel("linux"), WithExtractor(trailer.ExtractFuzzy))
	c := sampleCommit()
	c.Message = []string{"acked and--reviewed by: Jane Smith <jane@example.com>"}
	r := b.Build(c)
	if len(r.Activities) != 3 || r.Activities[2].Type != "reviewed-commit" {
		t.Fatalf("types = %v", typesOf(r.Activities))
	}
	if r.Activities[0].Channel != "linux" || r.Activities[0].URL != remote {
		t.Fatalf("channel/url = %q/%q", r.Activities[0].Channel, r.Activities[0].URL)
	}
}

func TestActivity_WireShape(t *testing.T) {
	a := NewBuilder(remote).Build(sampleCommit()).Activities[0]
	b, err := json.Marshal(a)
	if err != nil {
		t.Fatal(err)
	}
	s := string(b)
	for _, key := range []string{`"sourceId":"abc123"`, `"sourceParentId":""`, `"isMainBranch":true`, `"displayName":"Arnd Bergmann"`} {
		if !strings.Contains(s, key) {
			t.Fatalf("missing %s in %s", key, s)
		}
	}
	if strings.Contains(s, `"attributes":{"isBot"`) || strings.Contains(s, "avatarUrl") {
		t.Fatalf("raw member should carry no attributes: %s", s)
	}
}

func TestMember_CloneIsDeep(t *testing.T) {
	m := Member{Username: "a", Emails: []string{"a@x"}, Attributes: &MemberAttributes{AvatarURL: "u"}}
	c := m.Clone()
	c.Emails[0] = "b@x"
	c.Attributes.AvatarURL = "v"
	if m.Emails[0] != "a@x" || m.Attributes.AvatarURL != "u" {
		t.Fatalf("clone shares state")
	}
}
