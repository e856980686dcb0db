// Package guardrails keeps two runs from ingesting the same repository at once
package guardrails

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	perr "crowdgit/internal/platform/errors"
)

// DefaultTTL bounds how long a crashed run can block a repository
const DefaultTTL = 6 * time.Hour

// ErrBusy means another run holds an unexpired lease
var ErrBusy = perr.New(perr.ErrorCodeConflict, "repository lease held")

// Lease is a held claim on a repository
type Lease interface {
	Key() string
	ExpiresAt() time.Time
	// Extend pushes the expiry to ttl from now. ErrBusy means the claim was lost
	Extend(ctx context.Context, ttl time.Duration) error
	// Release drops the claim; calling it again is a no-op
	Release(ctx context.Context) error
}

// Status describes the current claim on a repository
type Status struct {
	Held      bool      `json:"held"`
	Owner     string    `json:"owner,omitempty"`
	ExpiresAt time.Time `json:"expiresAt,omitzero"`
}

// Leaser hands out repository leases
type Leaser interface {
	Acquire(ctx context.Context, repoKey string, ttl time.Duration) (Lease, error)
	Status(ctx context.Context, repoKey string) (Status, error)
}

// DefaultOwner is host:pid
func DefaultOwner() string {
	host, _ := os.Hostname()
	if host == "" {
		host = "unknown"
	}
	return fmt.Sprintf("%s:%d", host, os.Getpid())
}

func checkKey(repoKey string) error {
	if repoKey == "" || repoKey == "." || repoKey == ".." || strings.ContainsAny(repoKey, `/\`) {
		return perr.InvalidArgf("invalid lease key %q", repoKey)
	}
	return nil
}
