// Command crowdgit-ingest delivers the activities of one remote, or of every
// tenant remote when -remote is omitted
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"crowdgit/internal/app"
	"crowdgit/internal/platform/config"
	perr "crowdgit/internal/platform/errors"
	"crowdgit/internal/platform/logger"
	deliverydomain "crowdgit/internal/services/delivery/domain"
	ingestdomain "crowdgit/internal/services/ingest/domain"
	ingestmod "crowdgit/internal/services/ingest/module"

	"github.com/google/uuid"
)

type flags struct {
	remote, segment, integration, commits string
	fuzzy, raw, dryRun                    bool
}

func main() {
	var f flags
	flag.StringVar(&f.remote, "remote", "", "single remote to ingest; all tenant remotes when empty")
	flag.StringVar(&f.segment, "segment", "", "segment id for -remote")
	flag.StringVar(&f.integration, "integration", "", "integration id for -remote")
	flag.StringVar(&f.commits, "commits", "", "explicit commits file for -remote")
	flag.BoolVar(&f.fuzzy, "fuzzy", false, "match trailer labels approximately")
	flag.BoolVar(&f.raw, "raw-identities", false, "skip GitHub identity resolution")
	flag.BoolVar(&f.dryRun, "dry-run", false, "log messages instead of sending them")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, f)
	stop()
	if err != nil {
		logger.Get().Error().Err(err).Msg("crowdgit-ingest failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, f flags) error {
	if f.remote != "" && f.segment == "" {
		return perr.WithField(perr.InvalidArgf("-segment is required with -remote"), "segment")
	}
	l := *logger.Named("ingest")
	opts := app.Options{Tag: "ingest", RawIdentities: f.raw, Fuzzy: f.fuzzy}
	if f.dryRun {
		opts.Sender = dryRun{log: l}
	}
	a, err := app.Open(ctx, config.New(), opts)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	targets := []ingestdomain.Target{{
		SegmentID:     f.segment,
		IntegrationID: f.integration,
		Remote:        f.remote,
		CommitsPath:   f.commits,
	}}
	if f.remote == "" {
		if targets, err = a.Ingest.Targets(ctx); err != nil {
			return err
		}
	}

	runs, err := a.Ingest.Ports().(ingestmod.Ports).Pipeline.IngestAll(ctx, targets)
	var total ingestdomain.RunStats
	for _, r := range runs {
		total.Add(r.Stats)
		reportUnacked(l, r)
	}
	l.Info().
		Int("repos", len(runs)).
		Int("commits", total.Commits).
		Int("activities", total.Activities).
		Int("sent", total.Sent).
		Int("failed", total.Failed).
		Int("unacked", len(total.Unacked)).
		Dur("elapsed", total.Elapsed).
		Msg("ingest complete")
	return err
}

// reportUnacked lists every record the queue did not acknowledge so it can be re-driven
func reportUnacked(l logger.Logger, r ingestdomain.Run) {
	for _, f := range r.Stats.Unacked {
		l.Warn().
			Err(f.Err).
			Str("remote", r.Target.Remote).
			Str("segment_id", r.Target.SegmentID).
			Str("dedup_id", f.DeduplicationID).
			Str("source_id", f.SourceID).
			Msg("unacknowledged record")
	}
}

// dryRun acknowledges every message without sending it
type dryRun struct{ log logger.Logger }

func (d dryRun) Send(_ context.Context, m deliverydomain.Message) (deliverydomain.Ack, error) {
	d.log.Debug().
		Str("dedup_id", m.DeduplicationID).
		Str("group_id", m.GroupID).
		Int("bytes", len(m.Body)).
		Msg("dry run send")
	return deliverydomain.Ack{MessageID: uuid.NewString(), DeduplicationID: m.DeduplicationID}, nil
}
