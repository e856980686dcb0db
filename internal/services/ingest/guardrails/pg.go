package guardrails

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	perr "crowdgit/internal/platform/errors"
	"crowdgit/internal/platform/store"

	"github.com/google/uuid"
)

// Schema creates the lease table used by PGLeaser
const Schema = `CREATE TABLE IF NOT EXISTS ingest_leases (
	repo_key   text PRIMARY KEY,
	owner      text NOT NULL,
	token      text NOT NULL,
	claimed_at timestamptz NOT NULL DEFAULT now(),
	expires_at timestamptz NOT NULL
)`

// PGLeaser keeps leases in ingest_leases; expired rows are taken over in place
type PGLeaser struct {
	db    store.TxRunner
	owner string
}

var _ Leaser = (*PGLeaser)(nil)

// NewPGLeaser binds to db
func NewPGLeaser(db store.TxRunner, owner string) *PGLeaser {
	if owner == "" {
		owner = DefaultOwner()
	}
	return &PGLeaser{db: db, owner: owner}
}

// Migrate creates the table if missing
func (l *PGLeaser) Migrate(ctx context.Context) error {
	_, err := store.ExecAffected(ctx, l.db, Schema)
	return err
}

func toInterval(d time.Duration) string { return fmt.Sprintf("%d seconds", int64(d/time.Second)) }

// Acquire claims repoKey unless an unexpired row exists
func (l *PGLeaser) Acquire(ctx context.Context, repoKey string, ttl time.Duration) (Lease, error) {
	if err := checkKey(repoKey); err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	token := uuid.NewString()

	var expires time.Time
	err := l.db.Tx(ctx, func(q store.RowQuerier) error {
		var err error
		expires, err = store.Scalar[time.Time](ctx, q, `
			INSERT INTO ingest_leases (repo_key, owner, token, claimed_at, expires_at)
			VALUES ($1, $2, $3, now(), now() + ($4)::interval)
			ON CONFLICT (repo_key) DO UPDATE
			   SET owner = EXCLUDED.owner,
			       token = EXCLUDED.token,
			       claimed_at = EXCLUDED.claimed_at,
			       expires_at = EXCLUDED.expires_at
			 WHERE ingest_leases.expires_at <= now()
			RETURNING expires_at
		`, repoKey, l.owner, token, toInterval(ttl))
		return err
	})
	if errors.Is(err, store.ErrNoRows) {
		return nil, ErrBusy
	}
	if err != nil {
		return nil, perr.WithOp(err, "lease acquire")
	}
	return &pgLease{db: l.db, key: repoKey, token: token, expires: expires}, nil
}

// Status reads the row for repoKey
func (l *PGLeaser) Status(ctx context.Context, repoKey string) (Status, error) {
	xs, err := store.Many(ctx, l.db, func(r store.Row) (Status, error) {
		var s Status
		err := r.Scan(&s.Owner, &s.ExpiresAt, &s.Held)
		return s, err
	}, `SELECT owner, expires_at, expires_at > now() FROM ingest_leases WHERE repo_key = $1`, repoKey)
	if err != nil {
		return Status{}, err
	}
	if len(xs) == 0 {
		return Status{}, nil
	}
	return xs[0], nil
}

type pgLease struct {
	db      store.RowQuerier
	key     string
	token   string
	mu      sync.Mutex
	expires time.Time
	done    bool
}

func (p *pgLease) Key() string { return p.key }

func (p *pgLease) ExpiresAt() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.expires
}

// Extend moves expires_at forward while the row still carries our token
func (p *pgLease) Extend(ctx context.Context, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done {
		return ErrBusy
	}
	expires, err := store.Scalar[time.Time](ctx, p.db, `
		UPDATE ingest_leases
		   SET expires_at = now() + ($3)::interval
		 WHERE repo_key = $1 AND token = $2
		RETURNING expires_at
	`, p.key, p.token, toInterval(ttl))
	if errors.Is(err, store.ErrNoRows) {
		return ErrBusy
	}
	if err != nil {
		return perr.WithOp(err, "lease extend")
	}
	p.expires = expires
	return nil
}

// Release deletes the row if it still carries our token. Retried on a later call if it fails
func (p *pgLease) Release(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done {
		return nil
	}
	if _, err := store.ExecAffected(ctx, p.db,
		`DELETE FROM ingest_leases WHERE repo_key = $1 AND token = $2`, p.key, p.token); err != nil {
		return perr.WithOp(err, "lease release")
	}
	p.done = true
	return nil
}
