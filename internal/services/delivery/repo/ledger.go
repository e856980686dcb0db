// Package repo persists delivery outcomes in ClickHouse
package repo

import (
	"context"

	perr "crowdgit/internal/platform/errors"
	"crowdgit/internal/platform/store"
	"crowdgit/internal/services/delivery/domain"
)

// Table is the ledger table name
const Table = "delivery_ledger"

// Schema creates the ledger table
const Schema = `CREATE TABLE IF NOT EXISTS delivery_ledger (
	dedup_id  String,
	group_id  String,
	repo      LowCardinality(String),
	source_id String,
	status    LowCardinality(String),
	error     String,
	sent_at   DateTime64(3, 'UTC')
) ENGINE = MergeTree
ORDER BY (repo, sent_at)`

// CH is the ClickHouse ledger
type CH struct {
	db store.Clickhouse
}

var (
	_ domain.Ledger      = (*CH)(nil)
	_ domain.LedgerStats = (*CH)(nil)
)

// NewCH binds the ledger to a clickhouse seam
func NewCH(db store.Clickhouse) *CH { return &CH{db: db} }

// Migrate creates the table if missing
func (r *CH) Migrate(ctx context.Context) error {
	return perr.WrapIf(r.db.Exec(ctx, Schema), perr.ErrorCodeDB, "create delivery_ledger")
}

// Record implements domain.Ledger
func (r *CH) Record(ctx context.Context, xs []domain.Outcome) error {
	if len(xs) == 0 {
		return nil
	}
	rows := make([][]any, 0, len(xs))
	for _, o := range xs {
		rows = append(rows, []any{
			o.DeduplicationID, o.GroupID, o.Repo, o.SourceID, o.Status, o.Error, o.SentAt.UTC(),
		})
	}
	return perr.WrapIf(r.db.Insert(ctx, Table, rows), perr.ErrorCodeDB, "insert delivery_ledger")
}

// Counts implements domain.LedgerStats
func (r *CH) Counts(ctx context.Context, repo string) (map[string]uint64, error) {
	rows, err := r.db.Query(ctx,
		`SELECT status, count() FROM delivery_ledger WHERE repo = ? GROUP BY status`, repo)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeDB, "query delivery_ledger")
	}
	defer rows.Close()

	out := map[string]uint64{}
	for rows.Next() {
		var (
			status string
			n      uint64
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, perr.Wrap(err, perr.ErrorCodeDB, "scan delivery_ledger")
		}
		out[status] = n
	}
	return out, perr.WrapIf(rows.Err(), perr.ErrorCodeDB, "iterate delivery_ledger")
}
