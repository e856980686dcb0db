package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"crowdgit/internal/core/activity"
	perr "crowdgit/internal/platform/errors"
	"crowdgit/internal/platform/logger"
	"crowdgit/internal/platform/testkit"

	"github.com/rs/zerolog"
)

func init() { logger.Use(zerolog.New(io.Discard)) }

const commitsJSON = `[
 {"hash":"h1","author_name":"Ada","author_email":"ada@x.io","committer_name":"Ada","committer_email":"ada@x.io",
  "datetime":"2024-01-02T03:04:05-05:00",
  "message":["subject","","Signed-off-by: Bob <bob@x.io>","Reviewd by: Carol <carol@x.io>"]},
 {"hash":"h2","datetime":"2024-01-03T00:00:00+00:00","message":[]}
]`

func files(t *testing.T) (in, out string) {
	t.Helper()
	dir := t.TempDir()
	in = filepath.Join(dir, "commits.json")
	if err := os.WriteFile(in, []byte(commitsJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	return in, filepath.Join(dir, "out.json")
}

func TestRun_Raw(t *testing.T) {
	in, out := files(t)
	if err := run(context.Background(), []string{in, out}, io.Discard, io.Discard); err != nil {
		t.Fatalf("run: %v", err)
	}
	var got map[string][]map[string]map[string]string
	testkit.ReadJSON(t, out, &got)
	if len(got) != 2 || len(got["h2"]) != 0 {
		t.Fatalf("got %+v", got)
	}
	// exact mode drops the misspelled label; signed-off-by maps to two kinds
	if len(got["h1"]) != 2 || got["h1"][0]["Co-authored-by"]["email"] != "bob@x.io" || got["h1"][1]["Signed-off-by"]["name"] != "Bob" {
		t.Fatalf("h1 = %+v", got["h1"])
	}
}

func TestRun_FuzzyCrowdActivities(t *testing.T) {
	in, out := files(t)
	args := []string{"-crowd-activities", "-remote", "https://git.example.org/x.git", "-fuzzy", in, out}
	if err := run(context.Background(), args, io.Discard, io.Discard); err != nil {
		t.Fatalf("run: %v", err)
	}
	var got []activity.Activity
	testkit.ReadJSON(t, out, &got)
	// h1: authored, committed, co-authored, signed-off, reviewed; h2: authored, committed
	if len(got) != 7 {
		t.Fatalf("got %d activities", len(got))
	}
	if got[4].Type != "reviewed-commit" || got[4].Member.PrimaryEmail() != "carol@x.io" {
		t.Fatalf("fuzzy reviewer = %+v", got[4])
	}
}

func TestRun_Match(t *testing.T) {
	var buf bytes.Buffer
	if err := run(context.Background(), []string{"-match", "Reviewd by"}, &buf, io.Discard); err != nil {
		t.Fatalf("run: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got["matched"] != true || got["key"] != "reviewd-by" {
		t.Fatalf("got %+v", got)
	}
}

func TestRun_BadArgs(t *testing.T) {
	cases := [][]string{
		{},
		{"only-one"},
		{"-crowd-activities", "in", "out"},
	}
	for _, args := range cases {
		if err := run(context.Background(), args, io.Discard, io.Discard); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
			t.Fatalf("%v: got %v", args, err)
		}
	}
	if err := run(context.Background(), []string{"missing.json", "out.json"}, io.Discard, io.Discard); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("missing input: %v", err)
	}
}
