package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"ShowPulse/internal/canonical"
	"ShowPulse/internal/domain/models"
	"ShowPulse/internal/domain/repository"
	"ShowPulse/pkg/logger"
)

// Rebuilder drives one full analysis pass: quotes, fan-out, merge, score,
// publish. At most one rebuild runs at a time; concurrent callers join the
// in-flight pass and receive its result instead of starting another.
type Rebuilder struct {
	quotes    repository.QuoteSource
	orch      *Orchestrator
	scorer    *Scorer
	store     *SnapshotStore
	archive   repository.SnapshotArchive
	publisher repository.SnapshotPublisher
	metrics   repository.Metrics
	log       *logger.Logger

	topQuotes int
	timeout   time.Duration

	mu  sync.Mutex
	run *rebuildRun
}

type rebuildRun struct {
	done chan struct{}
	snap *models.Snapshot
	err  error
}

func NewRebuilder(
	quotes repository.QuoteSource,
	orch *Orchestrator,
	scorer *Scorer,
	store *SnapshotStore,
	archive repository.SnapshotArchive,
	publisher repository.SnapshotPublisher,
	metrics repository.Metrics,
	log *logger.Logger,
	topQuotes int,
	timeout time.Duration,
) *Rebuilder {
	if topQuotes <= 0 {
		topQuotes = 5
	}
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &Rebuilder{
		quotes:    quotes,
		orch:      orch,
		scorer:    scorer,
		store:     store,
		archive:   archive,
		publisher: publisher,
		metrics:   metrics,
		log:       log,
		topQuotes: topQuotes,
		timeout:   timeout,
	}
}

// Rebuild produces and publishes a fresh snapshot, or joins the rebuild
// already in flight. The caller's context only bounds how long this caller
// waits; the rebuild itself runs to completion on its own deadline so a
// joined caller hanging up cannot abort it.
func (r *Rebuilder) Rebuild(ctx context.Context) (*models.Snapshot, error) {
	r.mu.Lock()
	if r.run != nil {
		run := r.run
		r.mu.Unlock()
		return r.wait(ctx, run)
	}
	run := &rebuildRun{done: make(chan struct{})}
	r.run = run
	r.mu.Unlock()

	go func() {
		runCtx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		run.snap, run.err = r.execute(runCtx)

		r.mu.Lock()
		r.run = nil
		r.mu.Unlock()
		close(run.done)
	}()

	return r.wait(ctx, run)
}

func (r *Rebuilder) wait(ctx context.Context, run *rebuildRun) (*models.Snapshot, error) {
	select {
	case <-run.done:
		return run.snap, run.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (r *Rebuilder) execute(ctx context.Context) (*models.Snapshot, error) {
	start := time.Now()
	rebuildID := uuid.NewString()

	snap, err := r.build(ctx, rebuildID)
	if err != nil {
		r.recordRebuild("error", time.Since(start).Seconds())
		if r.log != nil {
			r.log.Error("rebuild failed",
				logger.String("rebuild_id", rebuildID),
				logger.Error(err))
		}
		return nil, err
	}

	r.store.Publish(snap)
	r.recordRebuild("ok", time.Since(start).Seconds())

	for _, rec := range snap.Records {
		if r.metrics != nil {
			r.metrics.RecordCompositeScore(rec.Show, rec.CompositeScore)
		}
	}

	// archive and publish downstream are best effort; the snapshot is
	// already live either way
	if r.archive != nil {
		if err := r.archive.Store(ctx, snap); err != nil {
			if r.log != nil {
				r.log.Warn("snapshot archive failed", logger.Error(err))
			}
			if r.metrics != nil {
				r.metrics.RecordError("archive")
			}
		}
	}
	if r.publisher != nil {
		if err := r.publisher.Publish(ctx, snap); err != nil {
			if r.log != nil {
				r.log.Warn("snapshot publish failed", logger.Error(err))
			}
			if r.metrics != nil {
				r.metrics.RecordError("publish")
			}
		}
	}

	if r.log != nil {
		r.log.Info("rebuild complete",
			logger.String("rebuild_id", rebuildID),
			logger.Int("shows", len(snap.Records)),
			logger.Duration("elapsed", time.Since(start)))
	}
	return snap, nil
}

// build runs the pipeline stages. Only the quote fetch can fail the pass;
// every provider failure degrades to an absent column.
func (r *Rebuilder) build(ctx context.Context, rebuildID string) (*models.Snapshot, error) {
	quotes, err := r.quotes.TopQuotes(ctx, r.topQuotes)
	if err != nil {
		return nil, fmt.Errorf("fetch quotes: %w", err)
	}
	if len(quotes) == 0 {
		return nil, fmt.Errorf("no open markets for event")
	}

	shows, byShow := canonical.EntitySet(quotes)
	collected := r.orch.Collect(ctx, shows)
	records := Merge(shows, byShow, collected)
	r.scorer.ScoreAll(records)

	return &models.Snapshot{
		RebuildID: rebuildID,
		Timestamp: time.Now().UTC(),
		Records:   records,
	}, nil
}

func (r *Rebuilder) recordRebuild(outcome string, seconds float64) {
	if r.metrics != nil {
		r.metrics.RecordRebuild(outcome, seconds)
	}
}
