// Package domain holds the delivery types and ports
package domain

import "time"

// Operation and Type are fixed for activity upserts
const (
	Operation   = "upsert_activities_with_members"
	MessageType = "db_operations"
)

// DefaultMaxPayload is 256 KiB minus 1 KiB of margin
const DefaultMaxPayload = 255 * 1024

// Ledger statuses
const (
	StatusSent   = "sent"
	StatusFailed = "failed"
)

// Route addresses records to a tenant segment
type Route struct {
	TenantID      string
	SegmentID     string
	IntegrationID string

	// Repo is informational, used for logs and the ledger
	Repo string
}

// Message is one queue message
type Message struct {
	Body            []byte
	DeduplicationID string
	GroupID         string
}

// Ack is the queue's acknowledgment of a message
type Ack struct {
	MessageID       string `json:"messageId"`
	DeduplicationID string `json:"deduplicationId"`
	Sequence        string `json:"sequence,omitempty"`
}

// Failure is a record that could not be sent
type Failure struct {
	DeduplicationID string `json:"deduplicationId"`
	SourceID        string `json:"sourceId"`
	Err             error  `json:"-"`
}

// Report summarizes a Deliver call
type Report struct {
	Acks      []Ack
	Failed    []Failure
	Truncated int
}

// Sent is the number of acknowledged messages
func (r Report) Sent() int { return len(r.Acks) }

// Outcome is one ledger row
type Outcome struct {
	DeduplicationID string
	GroupID         string
	Repo            string
	SourceID        string
	Status          string
	Error           string
	SentAt          time.Time
}
