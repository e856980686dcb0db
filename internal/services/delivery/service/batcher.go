// Package service packs activities into size bounded queue messages and sends them
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"crowdgit/internal/core/activity"
	perr "crowdgit/internal/platform/errors"
	"crowdgit/internal/platform/logger"
	"crowdgit/internal/services/delivery/domain"

	"github.com/google/uuid"
)

// Config for the Batcher
type Config struct {
	// MaxPayload is the exclusive byte ceiling of one message
	MaxPayload int

	// BatchRecords packs as many records per message as fit under MaxPayload
	// instead of sending one record per message
	BatchRecords bool
}

// Batcher delivers activities through a Sender
type Batcher struct {
	sender domain.Sender
	ledger domain.Ledger
	cfg    Config
	newID  func() (uuid.UUID, error)
	now    func() time.Time
}

// Option configures a Batcher
type Option func(*Batcher)

// WithLedger records every send outcome to l
func WithLedger(l domain.Ledger) Option { return func(b *Batcher) { b.ledger = l } }

// New constructs a Batcher
func New(sender domain.Sender, cfg Config, opts ...Option) *Batcher {
	if cfg.MaxPayload <= 0 {
		cfg.MaxPayload = domain.DefaultMaxPayload
	}
	b := &Batcher{sender: sender, cfg: cfg, newID: uuid.NewUUID, now: time.Now}
	for _, o := range opts {
		o(b)
	}
	return b
}

// GroupID scopes message ordering to one logical stream per dedup id
func GroupID(tenantID, dedupID string) string {
	return fmt.Sprintf("%s-%s-%s-%s", tenantID, domain.Operation, activity.Platform, dedupID)
}

// Deliver sends acts to route. A failed record is logged and reported, and the
// remaining records are still sent
func (b *Batcher) Deliver(ctx context.Context, route domain.Route, acts []activity.Activity) domain.Report {
	log := logger.C(ctx)
	var rep domain.Report
	var outcomes []domain.Outcome

	items := make([]fitted, 0, len(acts))
	for _, a := range acts {
		f, err := fit(route, a, b.cfg.MaxPayload)
		if err != nil {
			log.Warn().Err(err).Str("source_id", a.SourceID).Msg("record dropped before send")
			rep.Failed = append(rep.Failed, domain.Failure{SourceID: a.SourceID, Err: err})
			outcomes = append(outcomes, domain.Outcome{
				Repo: route.Repo, SourceID: a.SourceID, Status: domain.StatusFailed,
				Error: err.Error(), SentAt: b.now().UTC(),
			})
			continue
		}
		if f.truncated {
			rep.Truncated++
			log.Warn().
				Str("source_id", f.sourceID).
				Int("size", f.origSize).
				Int("truncated_size", len(f.message)).
				Msg("activity body truncated")
		}
		items = append(items, f)
	}

	for _, batch := range b.pack(route, items) {
		if err := ctx.Err(); err != nil {
			for _, f := range batch.items {
				rep.Failed = append(rep.Failed, domain.Failure{SourceID: f.sourceID, Err: err})
			}
			continue
		}
		outcomes = append(outcomes, b.send(ctx, route, batch, &rep)...)
	}

	if b.ledger != nil && len(outcomes) > 0 {
		if err := b.ledger.Record(ctx, outcomes); err != nil {
			log.Warn().Err(err).Int("rows", len(outcomes)).Msg("delivery ledger write failed")
		}
	}

	log.Debug().
		Int("records", len(acts)).
		Int("sent", rep.Sent()).
		Int("failed", len(rep.Failed)).
		Int("truncated", rep.Truncated).
		Msg("delivery done")
	return rep
}

type batch struct {
	items []fitted
	body  []byte
}

// pack groups items into messages. Without BatchRecords every record is its own message
func (b *Batcher) pack(route domain.Route, items []fitted) []batch {
	if !b.cfg.BatchRecords {
		out := make([]batch, 0, len(items))
		for _, f := range items {
			out = append(out, batch{items: []fitted{f}, body: f.message})
		}
		return out
	}

	empty, err := encodeEnvelope(route, nil)
	if err != nil {
		return nil
	}
	var (
		out  []batch
		cur  []fitted
		size = len(empty)
	)
	flush := func() {
		if len(cur) == 0 {
			return
		}
		if len(cur) == 1 {
			out = append(out, batch{items: cur, body: cur[0].message})
		} else {
			recs := make([]json.RawMessage, len(cur))
			for i, f := range cur {
				recs[i] = f.record
			}
			body, _ := encodeEnvelope(route, recs)
			out = append(out, batch{items: cur, body: body})
		}
		cur, size = nil, len(empty)
	}
	for _, f := range items {
		add := len(f.record)
		if len(cur) > 0 {
			add++ // separator
		}
		if len(cur) > 0 && size+add >= b.cfg.MaxPayload {
			flush()
			add = len(f.record)
		}
		cur = append(cur, f)
		size += add
	}
	flush()
	return out
}

func (b *Batcher) send(ctx context.Context, route domain.Route, bt batch, rep *domain.Report) []domain.Outcome {
	id, err := b.newID()
	if err != nil {
		id = uuid.New()
	}
	dedup := id.String()
	msg := domain.Message{Body: bt.body, DeduplicationID: dedup, GroupID: GroupID(route.TenantID, dedup)}

	ack, err := b.sender.Send(ctx, msg)
	status, errText := domain.StatusSent, ""
	if err != nil {
		if _, ok := perr.As(err); !ok {
			err = perr.Wrap(err, perr.ErrorCodeDelivery, "send message")
		}
		status, errText = domain.StatusFailed, err.Error()
		logger.C(ctx).Warn().
			Err(err).
			Str("dedup_id", dedup).
			Int("records", len(bt.items)).
			Int("bytes", len(bt.body)).
			Msg("queue send failed")
		for _, f := range bt.items {
			rep.Failed = append(rep.Failed, domain.Failure{DeduplicationID: dedup, SourceID: f.sourceID, Err: err})
		}
	} else {
		if ack.DeduplicationID == "" {
			ack.DeduplicationID = dedup
		}
		rep.Acks = append(rep.Acks, ack)
	}

	at := b.now().UTC()
	out := make([]domain.Outcome, 0, len(bt.items))
	for _, f := range bt.items {
		out = append(out, domain.Outcome{
			DeduplicationID: dedup,
			GroupID:         msg.GroupID,
			Repo:            route.Repo,
			SourceID:        f.sourceID,
			Status:          status,
			Error:           errText,
			SentAt:          at,
		})
	}
	return out
}
