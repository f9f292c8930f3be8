// Package interactionlog records finalized assistant decisions off the
// request path. Delivery is at-most-once and best-effort: entries are
// dropped when the queue is full, and write failures are only logged.
package interactionlog

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/cityguide/internal/domain"
	"github.com/google/uuid"
)

// InteractionWriter persists one interaction.
type InteractionWriter interface {
	WriteInteraction(ctx context.Context, in domain.Interaction) error
}

type Options struct {
	QueueSize    int
	WriteTimeout time.Duration
}

func DefaultOptions() Options {
	return Options{QueueSize: 256, WriteTimeout: 2 * time.Second}
}

// Stats counts what happened to published entries.
type Stats struct {
	Published int64
	Written   int64
	Dropped   int64
	Failed    int64
}

// Publisher queues interactions for a single background writer.
type Publisher struct {
	writer  InteractionWriter
	opts    Options
	logger  *slog.Logger
	queue   chan domain.Interaction
	done    chan struct{}
	closeMu sync.RWMutex
	closed  bool

	published atomic.Int64
	written   atomic.Int64
	dropped   atomic.Int64
	failed    atomic.Int64
}

// NewPublisher starts the writer goroutine. Call Close to stop it.
func NewPublisher(writer InteractionWriter, opts Options, logger *slog.Logger) *Publisher {
	def := DefaultOptions()
	if opts.QueueSize <= 0 {
		opts.QueueSize = def.QueueSize
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = def.WriteTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	p := &Publisher{
		writer: writer,
		opts:   opts,
		logger: logger,
		queue:  make(chan domain.Interaction, opts.QueueSize),
		done:   make(chan struct{}),
	}
	go p.run()
	return p
}

// Publish enqueues in without blocking. ID and CreatedAt are filled when
// empty. It reports whether the entry was queued.
func (p *Publisher) Publish(in domain.Interaction) bool {
	if in.ID == "" {
		in.ID = uuid.NewString()
	}
	if in.CreatedAt.IsZero() {
		in.CreatedAt = time.Now().UTC()
	}

	p.closeMu.RLock()
	defer p.closeMu.RUnlock()
	if p.closed {
		p.dropped.Add(1)
		p.logger.Warn("interaction dropped: publisher closed", "id", in.ID)
		return false
	}
	select {
	case p.queue <- in:
		p.published.Add(1)
		return true
	default:
		p.dropped.Add(1)
		p.logger.Warn("interaction dropped: queue full", "id", in.ID, "capacity", p.opts.QueueSize)
		return false
	}
}

func (p *Publisher) run() {
	defer close(p.done)
	for in := range p.queue {
		p.write(in)
	}
}

func (p *Publisher) write(in domain.Interaction) {
	defer func() {
		if r := recover(); r != nil {
			p.failed.Add(1)
			p.logger.Error("interaction write panicked", "id", in.ID, "panic", r)
		}
	}()
	ctx, cancel := context.WithTimeout(context.Background(), p.opts.WriteTimeout)
	defer cancel()
	if err := p.writer.WriteInteraction(ctx, in); err != nil {
		p.failed.Add(1)
		p.logger.Warn("interaction write failed", "id", in.ID, "error", err)
		return
	}
	p.written.Add(1)
}

// Close stops accepting entries and waits for the queue to drain or ctx
// to end, whichever comes first.
func (p *Publisher) Close(ctx context.Context) error {
	p.closeMu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.closeMu.Unlock()

	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Publisher) Stats() Stats {
	return Stats{
		Published: p.published.Load(),
		Written:   p.written.Load(),
		Dropped:   p.dropped.Load(),
		Failed:    p.failed.Load(),
	}
}
