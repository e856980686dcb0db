package domain

import "context"

// Sender transmits a single message to the queue
type Sender interface {
	Send(ctx context.Context, m Message) (Ack, error)
}

// Ledger records send outcomes for later audit
type Ledger interface {
	Record(ctx context.Context, xs []Outcome) error
}

// LedgerStats reads aggregate outcomes back
type LedgerStats interface {
	Counts(ctx context.Context, repo string) (map[string]uint64, error)
}
