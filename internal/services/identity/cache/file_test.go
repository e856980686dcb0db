package cache

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	perr "crowdgit/internal/platform/errors"
	"crowdgit/internal/services/identity/domain"
)

func newStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := NewFileStore(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return s
}

func TestLoad_MissingIsEmpty(t *testing.T) {
	s := newStore(t)
	c, err := s.Load(context.Background(), "github.com__a__b")
	if err != nil || c == nil || len(c) != 0 {
		t.Fatalf("got %v, %v", c, err)
	}
}

func TestSaveLoad(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	in := domain.Cache{
		"jo@example.com": {Username: "jo", DisplayName: "Jo", Emails: []string{"jo@example.com"}, AvatarURL: "https://a/1", Matched: true},
		"x@example.com":  {Username: "X", DisplayName: "X", Emails: []string{"x@example.com"}},
	}
	if err := s.Save(ctx, "k", in); err != nil {
		t.Fatalf("Save: %v", err)
	}
	out, err := s.Load(ctx, "k")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("round trip mismatch:\n%v\n%v", in, out)
	}

	// overwrite, not merge
	if err := s.Save(ctx, "k", domain.Cache{"x@example.com": in["x@example.com"]}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	out, _ = s.Load(ctx, "k")
	if len(out) != 1 {
		t.Fatalf("expected overwrite, got %d entries", len(out))
	}

	entries, _ := os.ReadDir(s.dir)
	if len(entries) != 1 {
		t.Fatalf("temp files left behind: %v", entries)
	}
}

func TestLoad_CorruptIsCacheError(t *testing.T) {
	s := newStore(t)
	if err := os.WriteFile(s.Path("bad"), []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := s.Load(context.Background(), "bad")
	if !perr.IsCode(err, perr.ErrorCodeCache) {
		t.Fatalf("expected cache error, got %v", err)
	}
}

func TestSave_FailureKeepsPrevious(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	prev := domain.Cache{"a@x": {Username: "a", Emails: []string{"a@x"}}}
	if err := s.Save(ctx, "k", prev); err != nil {
		t.Fatal(err)
	}
	// make the rename target a directory so the final step fails
	if err := os.Remove(s.Path("k")); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(s.Path("k"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(s.Path("k"), "keep"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	err := s.Save(ctx, "k", domain.Cache{})
	if !perr.IsCode(err, perr.ErrorCodeCache) {
		t.Fatalf("expected cache error, got %v", err)
	}
	matches, _ := filepath.Glob(filepath.Join(s.dir, "*.part"))
	if len(matches) != 0 {
		t.Fatalf("temp file left behind: %v", matches)
	}
}

func TestKeyValidationAndDelete(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	for _, k := range []string{"", "../x", "a/b", ".hidden"} {
		if _, err := s.Load(ctx, k); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
			t.Fatalf("key %q accepted", k)
		}
	}
	if err := s.Delete(ctx, "never-written"); err != nil {
		t.Fatalf("Delete missing: %v", err)
	}
	_ = s.Save(ctx, "k", domain.Cache{"a@x": {}})
	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if c, _ := s.Load(ctx, "k"); len(c) != 0 {
		t.Fatalf("cache survived delete")
	}
}
