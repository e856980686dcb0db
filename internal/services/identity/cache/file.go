// Package cache persists identity caches as one JSON object per repository
package cache

import (
	"context"
	"encoding/json"
	stderrs "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	perr "crowdgit/internal/platform/errors"
	"crowdgit/internal/platform/logger"
	"crowdgit/internal/services/identity/domain"
)

// FileStore keeps <dir>/<repoKey>.json, rewritten whole on every Save
// It is not safe for concurrent writers to the same key; the ingest lease provides exclusion
type FileStore struct {
	dir string
}

var _ domain.CacheStore = (*FileStore)(nil)

// NewFileStore returns a store rooted at dir, creating it if needed
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeCache, "create cache dir %s", dir)
	}
	return &FileStore{dir: dir}, nil
}

// Path returns the cache file for repoKey
func (s *FileStore) Path(repoKey string) string {
	return filepath.Join(s.dir, repoKey+".json")
}

// Load reads the cache for repoKey. A missing file is an empty cache
func (s *FileStore) Load(_ context.Context, repoKey string) (domain.Cache, error) {
	if err := checkKey(repoKey); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(s.Path(repoKey))
	if stderrs.Is(err, fs.ErrNotExist) {
		return domain.Cache{}, nil
	}
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeCache, "read identity cache %s", repoKey)
	}
	c := domain.Cache{}
	if len(b) == 0 {
		return c, nil
	}
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeCache, "decode identity cache %s", repoKey)
	}
	return c, nil
}

// Save overwrites the cache for repoKey via a temp file and rename, so a failed
// write leaves the previous file intact
func (s *FileStore) Save(_ context.Context, repoKey string, c domain.Cache) error {
	if err := checkKey(repoKey); err != nil {
		return err
	}
	if c == nil {
		c = domain.Cache{}
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeCache, "encode identity cache %s", repoKey)
	}

	f, err := os.CreateTemp(s.dir, repoKey+".*.part")
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeCache, "create temp cache %s", repoKey)
	}
	tmp := f.Name()
	defer func() {
		// no-op once renamed
		if rerr := os.Remove(tmp); rerr != nil && !stderrs.Is(rerr, fs.ErrNotExist) {
			logger.Named("identity-cache").Warn().Err(rerr).Str("path", tmp).Msg("remove temp cache failed")
		}
	}()

	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return perr.Wrapf(err, perr.ErrorCodeCache, "write identity cache %s", repoKey)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return perr.Wrapf(err, perr.ErrorCodeCache, "sync identity cache %s", repoKey)
	}
	if err := f.Close(); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeCache, "close identity cache %s", repoKey)
	}
	if err := os.Rename(tmp, s.Path(repoKey)); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeCache, "replace identity cache %s", repoKey)
	}
	return nil
}

// Delete removes the cache for repoKey; deleting a missing cache is not an error
func (s *FileStore) Delete(_ context.Context, repoKey string) error {
	if err := checkKey(repoKey); err != nil {
		return err
	}
	err := os.Remove(s.Path(repoKey))
	if err != nil && !stderrs.Is(err, fs.ErrNotExist) {
		return perr.Wrapf(err, perr.ErrorCodeCache, "delete identity cache %s", repoKey)
	}
	return nil
}

func checkKey(repoKey string) error {
	if repoKey == "" || strings.ContainsAny(repoKey, `/\`) || strings.HasPrefix(repoKey, ".") {
		return perr.WithField(perr.InvalidArgf("invalid repository key %q", repoKey), "repo")
	}
	return nil
}
