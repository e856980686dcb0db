package service

import (
	"context"
	stderrs "errors"
	"reflect"
	"testing"

	"crowdgit/internal/core/activity"
	perr "crowdgit/internal/platform/errors"
	"crowdgit/internal/services/identity/cache"
	"crowdgit/internal/services/identity/domain"
)

const (
	ghRemote = "https://github.com/crowd/git-integration"
	repoKey  = "github.com__crowd__git-integration"
	sha      = "abc123"
)

type fakeAPI struct {
	accounts []domain.Account
	err      error
	calls    int
	lastRepo domain.Repo
}

func (f *fakeAPI) CommitAccounts(_ context.Context, repo domain.Repo, _ string) ([]domain.Account, error) {
	f.calls++
	f.lastRepo = repo
	return f.accounts, f.err
}

type memStore struct {
	data    map[string]domain.Cache
	loadErr error
	saveErr error
	saves   int
}

func newMem() *memStore { return &memStore{data: map[string]domain.Cache{}} }

func (m *memStore) Load(_ context.Context, key string) (domain.Cache, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	out := domain.Cache{}
	for k, v := range m.data[key] {
		out[k] = v
	}
	return out, nil
}

func (m *memStore) Save(_ context.Context, key string, c domain.Cache) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	cp := domain.Cache{}
	for k, v := range c {
		cp[k] = v
	}
	m.data[key] = cp
	return nil
}

func commitActs(t *testing.T, remote string, lines ...string) []activity.Activity {
	t.Helper()
	r := activity.NewBuilder(remote).Build(activity.Commit{
		Hash:           sha,
		AuthorName:     "Jo Dev",
		AuthorEmail:    "jo@example.com",
		CommitterName:  "GitHub",
		CommitterEmail: "noreply@github.com",
		Datetime:       "2024-02-01T10:00:00Z",
		Message:        append([]string{"subject"}, lines...),
	})
	if !r.OK() {
		t.Fatalf("build: %v", r.Err)
	}
	return r.Activities
}

func TestResolve_NonGitHubChannelUntouched(t *testing.T) {
	api := &fakeAPI{}
	store := newMem()
	in := commitActs(t, "https://git.kernel.org/pub/scm/linux/kernel/git/torvalds/linux.git")
	out, err := New(api, store, Config{}).Resolve(context.Background(), in[0].Channel, sha, in)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("non github activities changed")
	}
	if api.calls != 0 || store.saves != 0 {
		t.Fatalf("api=%d saves=%d", api.calls, store.saves)
	}
}

func TestResolve_MatchByEmailAndCache(t *testing.T) {
	api := &fakeAPI{accounts: []domain.Account{
		{Name: "Jo Developer", Email: "jo@example.com", User: &domain.AccountUser{Login: "jodev", AvatarURL: "https://avatars/1"}},
	}}
	store := newMem()
	res := New(api, store, Config{})
	in := commitActs(t, ghRemote)

	out, err := res.Resolve(context.Background(), ghRemote, sha, in)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if api.calls != 1 || api.lastRepo != (domain.Repo{Owner: "crowd", Name: "git-integration"}) {
		t.Fatalf("api calls=%d repo=%+v", api.calls, api.lastRepo)
	}

	author := out[0].Member
	if author.Username != "jodev" || author.DisplayName != "Jo Developer" {
		t.Fatalf("author = %+v", author)
	}
	if author.Attributes == nil || author.Attributes.AvatarURL != "https://avatars/1" || author.Attributes.IsBot {
		t.Fatalf("author attributes = %+v", author.Attributes)
	}
	if !reflect.DeepEqual(author.Emails, []string{"jo@example.com"}) {
		t.Fatalf("emails = %v", author.Emails)
	}

	committer := out[1].Member
	if committer.Username != "GitHub" || committer.Attributes != nil {
		t.Fatalf("committer should stay raw: %+v", committer)
	}

	c := store.data[repoKey]
	if !c["jo@example.com"].Matched || c["noreply@github.com"].Matched {
		t.Fatalf("cache flags wrong: %+v", c)
	}

	// second commit by the same people hits the cache only
	if _, err := res.Resolve(context.Background(), ghRemote, sha, in); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if api.calls != 1 {
		t.Fatalf("cached emails should not call the api, calls=%d", api.calls)
	}
}

func TestResolve_MatchPriority(t *testing.T) {
	byName := domain.Account{Name: "Jo Dev", Email: "other@example.com", User: &domain.AccountUser{Login: "by-name"}}
	byEmail := domain.Account{Name: "Someone", Email: "jo@example.com", User: &domain.AccountUser{Login: "by-email"}}
	byLogin := domain.Account{Name: "Nope", Email: "n@example.com", User: &domain.AccountUser{Login: "Jo Dev"}}
	unlinked := domain.Account{Name: "Jo Dev", Email: "jo@example.com"}

	tests := []struct {
		name     string
		accounts []domain.Account
		want     string
	}{
		{"email beats earlier name match", []domain.Account{byName, byEmail}, "by-email"},
		{"name when no email match", []domain.Account{byLogin, byName}, "by-name"},
		{"username last", []domain.Account{byLogin}, "Jo Dev"},
		{"accounts without user are skipped", []domain.Account{unlinked}, "Jo Dev"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := activity.MemberFrom(activity.Person{Name: "Jo Dev", Email: "jo@example.com"})
			got := matchMember(m, tc.accounts)
			if got.Username != tc.want {
				t.Fatalf("username = %q, want %q", got.Username, tc.want)
			}
		})
	}
	if got := matchMember(activity.MemberFrom(activity.Person{Name: "Jo Dev", Email: "jo@example.com"}), []domain.Account{unlinked}); got.Matched {
		t.Fatalf("account without user must not match")
	}
}

func TestResolve_EmailUnionDropsNoReply(t *testing.T) {
	store := newMem()
	store.data[repoKey] = domain.Cache{
		"jo@example.com": {Username: "jodev", DisplayName: "Jo", Emails: []string{"jo@work.example", "1+jodev@users.noreply.github.com"}, Matched: true},
	}
	out, err := New(&fakeAPI{}, store, Config{}).Resolve(context.Background(), ghRemote, sha, commitActs(t, ghRemote)[:1])
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := []string{"jo@example.com", "jo@work.example"}
	if got := out[0].Member.Emails; !reflect.DeepEqual(got, want) {
		t.Fatalf("emails = %v", got)
	}
}

func TestResolve_APIFailureIsNotFatal(t *testing.T) {
	api := &fakeAPI{err: perr.Unavailablef("github down")}
	store := newMem()
	in := commitActs(t, ghRemote, "Reviewed-by: Rev Iewer <rev@example.com>")
	out, err := New(api, store, Config{}).Resolve(context.Background(), ghRemote, sha, in)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	for i := range out {
		if out[i].Member.Username != in[i].Member.Username {
			t.Fatalf("member %d changed on api failure", i)
		}
	}
	c := store.data[repoKey]
	if len(c) != 3 {
		t.Fatalf("expected 3 unmatched entries, got %d", len(c))
	}
	for email, e := range c {
		if e.Matched {
			t.Fatalf("%s marked matched", email)
		}
	}
}

func TestResolve_BotAlwaysFlagged(t *testing.T) {
	api := &fakeAPI{err: stderrs.New("boom")}
	r := activity.NewBuilder(ghRemote).Build(activity.Commit{
		Hash:           sha,
		AuthorName:     "github-actions[bot]",
		AuthorEmail:    "41898282+github-actions[bot]@users.noreply.github.com",
		CommitterName:  "GitHub",
		CommitterEmail: "noreply@github.com",
		Datetime:       "2024-02-01T10:00:00Z",
		Message:        []string{"chore: bump"},
	})
	out, err := New(api, newMem(), Config{}).Resolve(context.Background(), ghRemote, sha, r.Activities)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	bot := out[0]
	if bot.Member.Attributes == nil || !bot.Member.Attributes.IsBot {
		t.Fatalf("bot not flagged: %+v", bot.Member)
	}
	wantURL := "https://github.com/crowd/git-integration/commit/abc123"
	if bot.Platform != "github" || bot.Channel != wantURL || bot.URL != wantURL {
		t.Fatalf("bot origin = %s %s %s", bot.Platform, bot.Channel, bot.URL)
	}
	if out[1].Platform != "git" || out[1].Member.Attributes != nil {
		t.Fatalf("human committer touched: %+v", out[1])
	}
}

func TestResolve_ConfiguredBotAccount(t *testing.T) {
	api := &fakeAPI{accounts: []domain.Account{
		{Name: "Jo Dev", Email: "jo@example.com", User: &domain.AccountUser{Login: "release-robot"}},
	}}
	out, err := New(api, newMem(), Config{BotAccount: "release-robot"}).Resolve(context.Background(), ghRemote, sha, commitActs(t, ghRemote))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !out[0].Member.Attributes.IsBot {
		t.Fatalf("resolved automation login not flagged")
	}
}

func TestResolve_CacheFailureReturned(t *testing.T) {
	store := newMem()
	store.loadErr = perr.New(perr.ErrorCodeCache, "disk gone")
	_, err := New(&fakeAPI{}, store, Config{}).Resolve(context.Background(), ghRemote, sha, commitActs(t, ghRemote))
	if !perr.IsCode(err, perr.ErrorCodeCache) {
		t.Fatalf("expected cache error, got %v", err)
	}

	store = newMem()
	store.saveErr = perr.New(perr.ErrorCodeCache, "read only")
	_, err = New(&fakeAPI{}, store, Config{}).Resolve(context.Background(), ghRemote, sha, commitActs(t, ghRemote))
	if !perr.IsCode(err, perr.ErrorCodeCache) || len(store.data) != 0 {
		t.Fatalf("save failure: err=%v data=%v", err, store.data)
	}
}

func TestResolve_SourceIDsStableAcrossRuns(t *testing.T) {
	dir := t.TempDir()
	fs, err := cache.NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	in := commitActs(t, ghRemote, "Signed-off-by: Jo Dev <jo@example.com>")

	first, err := New(&fakeAPI{}, fs, Config{}).Resolve(context.Background(), ghRemote, sha, in)
	if err != nil {
		t.Fatal(err)
	}
	api := &fakeAPI{accounts: []domain.Account{{Name: "Jo", Email: "jo@example.com", User: &domain.AccountUser{Login: "jodev"}}}}
	second, err := New(api, fs, Config{}).Resolve(context.Background(), ghRemote, sha, in)
	if err != nil {
		t.Fatal(err)
	}
	if api.calls != 0 {
		t.Fatalf("unchanged cache should not call api")
	}
	for i := range first {
		if first[i].SourceID != second[i].SourceID || first[i].SourceID != in[i].SourceID {
			t.Fatalf("source id drift at %d", i)
		}
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("same cache produced different output")
	}
}

func TestResolve_DoesNotMutateInput(t *testing.T) {
	api := &fakeAPI{accounts: []domain.Account{{Name: "X", Email: "jo@example.com", User: &domain.AccountUser{Login: "x", AvatarURL: "a"}}}}
	in := commitActs(t, ghRemote)
	snapshot := make([]activity.Activity, len(in))
	for i := range in {
		snapshot[i] = in[i].Clone()
	}
	if _, err := New(api, newMem(), Config{}).Resolve(context.Background(), ghRemote, sha, in); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(in, snapshot) {
		t.Fatalf("input activities mutated")
	}
}
