package guardrails

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	perr "crowdgit/internal/platform/errors"
	"crowdgit/internal/platform/logger"

	"github.com/google/uuid"
)

// FileLeaser keeps one marker file per repository under <dir>/running
type FileLeaser struct {
	dir   string
	owner string
	now   func() time.Time
}

type marker struct {
	Owner     string    `json:"owner"`
	Token     string    `json:"token"`
	ClaimedAt time.Time `json:"claimedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

var _ Leaser = (*FileLeaser)(nil)

// NewFileLeaser creates <dir>/running if needed
func NewFileLeaser(dir, owner string) (*FileLeaser, error) {
	if owner == "" {
		owner = DefaultOwner()
	}
	run := filepath.Join(dir, "running")
	if err := os.MkdirAll(run, 0o755); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "create lease dir %s", run)
	}
	return &FileLeaser{dir: run, owner: owner, now: time.Now}, nil
}

// Path is the marker file for repoKey
func (l *FileLeaser) Path(repoKey string) string { return filepath.Join(l.dir, repoKey) }

// Acquire creates the marker with O_EXCL. An expired or unreadable marker older than ttl is reclaimed
func (l *FileLeaser) Acquire(ctx context.Context, repoKey string, ttl time.Duration) (Lease, error) {
	if err := checkKey(repoKey); err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	p := l.Path(repoKey)

	for attempt := 0; attempt < 2; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		now := l.now().UTC()
		m := marker{Owner: l.owner, Token: uuid.NewString(), ClaimedAt: now, ExpiresAt: now.Add(ttl)}
		err := create(p, m)
		if err == nil {
			return &fileLease{path: p, key: repoKey, m: m, now: l.now}, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "create lease %s", p)
		}

		cur, err := l.read(p, ttl)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if now.Before(cur.ExpiresAt) {
			return nil, ErrBusy
		}
		logger.C(ctx).Warn().
			Str("lease", repoKey).
			Str("owner", cur.Owner).
			Time("expired_at", cur.ExpiresAt).
			Msg("reclaiming expired lease")
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "remove expired lease %s", p)
		}
	}
	return nil, ErrBusy
}

// Status reads the marker without claiming it
func (l *FileLeaser) Status(_ context.Context, repoKey string) (Status, error) {
	if err := checkKey(repoKey); err != nil {
		return Status{}, err
	}
	m, err := l.read(l.Path(repoKey), DefaultTTL)
	if errors.Is(err, fs.ErrNotExist) {
		return Status{}, nil
	}
	if err != nil {
		return Status{}, err
	}
	return Status{Held: l.now().Before(m.ExpiresAt), Owner: m.Owner, ExpiresAt: m.ExpiresAt}, nil
}

// read decodes a marker. A marker that cannot be decoded, eg one left half written
// by a crash, expires ttl after its modification time
func (l *FileLeaser) read(p string, ttl time.Duration) (marker, error) {
	b, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return marker{}, err
		}
		return marker{}, perr.Wrapf(err, perr.ErrorCodeUnavailable, "read lease %s", p)
	}
	var m marker
	if json.Unmarshal(b, &m) == nil && !m.ExpiresAt.IsZero() {
		return m, nil
	}
	fi, err := os.Stat(p)
	if err != nil {
		return marker{}, err
	}
	return marker{ExpiresAt: fi.ModTime().Add(ttl)}, nil
}

func create(p string, m marker) error {
	f, err := os.OpenFile(p, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if err := json.NewEncoder(f).Encode(m); err != nil {
		_ = f.Close()
		_ = os.Remove(p)
		return err
	}
	return f.Close()
}

type fileLease struct {
	path string
	key  string
	now  func() time.Time

	mu   sync.Mutex
	m    marker
	once sync.Once
	err  error
}

func (f *fileLease) Key() string { return f.key }

func (f *fileLease) ExpiresAt() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.m.ExpiresAt
}

// Extend rewrites the marker through a temp file so readers never see it half written
func (f *fileLease) Extend(_ context.Context, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	b, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return ErrBusy
	}
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "read lease %s", f.path)
	}
	var cur marker
	if json.Unmarshal(b, &cur) != nil || cur.Token != f.m.Token {
		return ErrBusy
	}

	next := f.m
	next.ExpiresAt = f.now().UTC().Add(ttl)
	tmp := f.path + ".tmp-" + next.Token
	if err := create(tmp, next); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "write lease %s", tmp)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		_ = os.Remove(tmp)
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "replace lease %s", f.path)
	}
	f.m = next
	return nil
}

// Release removes the marker if it is still ours
func (f *fileLease) Release(_ context.Context) error {
	f.once.Do(func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		b, err := os.ReadFile(f.path)
		if errors.Is(err, fs.ErrNotExist) {
			return
		}
		if err != nil {
			f.err = perr.Wrapf(err, perr.ErrorCodeUnavailable, "read lease %s", f.path)
			return
		}
		var cur marker
		if json.Unmarshal(b, &cur) == nil && cur.Token != f.m.Token {
			return // reclaimed by someone else after expiry
		}
		if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			f.err = perr.Wrapf(err, perr.ErrorCodeUnavailable, "remove lease %s", f.path)
		}
	})
	return f.err
}
