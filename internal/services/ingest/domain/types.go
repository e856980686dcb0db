// Package domain holds the ingest types and the ports the pipeline drives
package domain

import (
	"time"

	perr "crowdgit/internal/platform/errors"
	delivery "crowdgit/internal/services/delivery/domain"
)

// ErrSkipped is returned when another run holds the repository
var ErrSkipped = perr.New(perr.ErrorCodeConflict, "ingest skipped: repository busy")

// Target is one repository to ingest
type Target struct {
	SegmentID     string `json:"segmentId" validate:"required"`
	IntegrationID string `json:"integrationId"`
	Remote        string `json:"remote" validate:"required"`

	// CommitsPath overrides where the walker output is read from
	CommitsPath string `json:"commitsPath,omitempty"`

	// ResetCache drops the repository's identity cache once the lease is held
	ResetCache bool `json:"-"`
}

// RunStats summarizes one repository run
type RunStats struct {
	Commits    int           `json:"commits"`
	Skipped    int           `json:"skipped"`
	Activities int           `json:"activities"`
	Sent       int           `json:"sent"`
	Failed     int           `json:"failed"`
	Truncated  int           `json:"truncated"`
	Elapsed    time.Duration `json:"elapsed"`

	// Unacked lists the records the queue never acknowledged, for re-driving
	Unacked []delivery.Failure `json:"unacked,omitempty"`
}

// Add accumulates o into s
func (s *RunStats) Add(o RunStats) {
	s.Commits += o.Commits
	s.Skipped += o.Skipped
	s.Activities += o.Activities
	s.Sent += o.Sent
	s.Failed += o.Failed
	s.Truncated += o.Truncated
	s.Elapsed += o.Elapsed
	s.Unacked = append(s.Unacked, o.Unacked...)
}

// Run is the outcome of one target within IngestAll
type Run struct {
	Target Target
	Stats  RunStats
	Err    error
}
