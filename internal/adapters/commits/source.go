// Package commits reads commit records produced by the repository walker.
// Files hold either a JSON array of commits or one commit per line
package commits

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"

	"crowdgit/internal/core/activity"
	"crowdgit/internal/core/remote"
	perr "crowdgit/internal/platform/errors"
)

const maxLine = 64 << 20

// Extensions tried, in order, when no explicit path is given
var Extensions = []string{".json", ".ndjson"}

// FileSource locates commit files for a remote under dir
type FileSource struct {
	dir string
}

// NewFileSource reads files from dir
func NewFileSource(dir string) *FileSource { return &FileSource{dir: dir} }

// Path resolves the commits file for a remote. explicit wins when set
func (s *FileSource) Path(rawRemote, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	key := remote.Parse(rawRemote).Key()
	for _, ext := range Extensions {
		p := filepath.Join(s.dir, key+ext)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", perr.NotFoundf("no commits file for %s in %s", key, s.dir)
}

// Commits streams every commit of the remote's file to fn
// Malformed entries reach fn with a non-nil error; a non-nil return from fn stops the walk
func (s *FileSource) Commits(ctx context.Context, rawRemote, explicit string, fn func(activity.Commit, error) error) error {
	p, err := s.Path(rawRemote, explicit)
	if err != nil {
		return err
	}
	f, err := os.Open(p)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeNotFound, "open commits %s", p)
	}
	defer f.Close()
	return Decode(ctx, f, fn)
}

// Count returns the number of well formed commits for the remote
func (s *FileSource) Count(ctx context.Context, rawRemote, explicit string) (int, error) {
	n := 0
	err := s.Commits(ctx, rawRemote, explicit, func(_ activity.Commit, err error) error {
		if err == nil {
			n++
		}
		return nil
	})
	return n, err
}

// Decode sniffs the format of r and streams its commits
func Decode(ctx context.Context, r io.Reader, fn func(activity.Commit, error) error) error {
	br := bufio.NewReaderSize(r, 64<<10)
	first, err := firstByte(br)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeJSON, "read commits")
	}
	if first == '[' {
		return decodeArray(ctx, br, fn)
	}
	return decodeLines(ctx, br, fn)
}

func firstByte(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return b, br.UnreadByte()
	}
}

func decodeArray(ctx context.Context, r io.Reader, fn func(activity.Commit, error) error) error {
	dec := json.NewDecoder(r)
	if _, err := dec.Token(); err != nil {
		return perr.Wrap(err, perr.ErrorCodeJSON, "commits array")
	}
	for i := 0; dec.More(); i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return perr.Wrapf(err, perr.ErrorCodeJSON, "commits array element %d", i)
		}
		if err := emit(raw, i, fn); err != nil {
			return err
		}
	}
	if _, err := dec.Token(); err != nil {
		return perr.Wrap(err, perr.ErrorCodeJSON, "commits array end")
	}
	return nil
}

func decodeLines(ctx context.Context, r io.Reader, fn func(activity.Commit, error) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64<<10), maxLine)
	for i := 0; sc.Scan(); {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		if err := emit(line, i, fn); err != nil {
			return err
		}
		i++
	}
	if err := sc.Err(); err != nil {
		return perr.Wrap(err, perr.ErrorCodeJSON, "commits lines")
	}
	return nil
}

func emit(raw []byte, i int, fn func(activity.Commit, error) error) error {
	var c activity.Commit
	if err := json.Unmarshal(raw, &c); err != nil {
		return fn(activity.Commit{}, perr.WithOp(perr.Wrapf(err, perr.ErrorCodeMalformedCommit, "commit %d", i), "decode"))
	}
	return fn(c, nil)
}
