package trigger

import (
	"context"
	"log/slog"
	"time"

	"github.com/alexanderramin/cityguide/internal/domain"
)

// SnapshotFunc builds the snapshot for one tick.
type SnapshotFunc func(ctx context.Context) (Snapshot, error)

// SinkFunc receives each new candidate.
type SinkFunc func(ctx context.Context, c domain.TriggerCandidate)

// Runner evaluates the engine on a fixed cadence, independent of queries.
// A candidate identical to the previous one is not re-emitted.
type Runner struct {
	engine   *Engine
	snapshot SnapshotFunc
	sink     SinkFunc
	interval time.Duration
	logger   *slog.Logger
}

func NewRunner(engine *Engine, snapshot SnapshotFunc, sink SinkFunc, interval time.Duration, logger *slog.Logger) *Runner {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{engine: engine, snapshot: snapshot, sink: sink, interval: interval, logger: logger}
}

// Run evaluates once immediately, then on every tick until ctx is done.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	var last *domain.TriggerCandidate
	for {
		last = r.tick(ctx, last)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (r *Runner) tick(ctx context.Context, last *domain.TriggerCandidate) *domain.TriggerCandidate {
	if ctx.Err() != nil {
		return last
	}
	snap, err := r.snapshot(ctx)
	if err != nil {
		r.logger.WarnContext(ctx, "trigger snapshot failed", "error", err)
		return last
	}
	c := r.engine.Evaluate(snap)
	if c == nil {
		return nil
	}
	if last != nil && last.ID == c.ID && last.Priority == c.Priority {
		return last
	}
	r.logger.DebugContext(ctx, "trigger candidate", "id", c.ID, "priority", c.Priority)
	r.sink(ctx, *c)
	return c
}
