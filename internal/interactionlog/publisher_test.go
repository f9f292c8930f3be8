package interactionlog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/cityguide/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recordingWriter struct {
	mu    sync.Mutex
	got   []domain.Interaction
	err   error
	block chan struct{}
}

func (w *recordingWriter) WriteInteraction(ctx context.Context, in domain.Interaction) error {
	if w.block != nil {
		select {
		case <-w.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if w.err != nil {
		return w.err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.got = append(w.got, in)
	return nil
}

func (w *recordingWriter) entries() []domain.Interaction {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]domain.Interaction(nil), w.got...)
}

func TestPublisher_WritesAndDrains(t *testing.T) {
	w := &recordingWriter{}
	p := NewPublisher(w, DefaultOptions(), nil)

	for i := 0; i < 5; i++ {
		assert.True(t, p.Publish(domain.Interaction{Query: "hol parkolhatok", Intent: "parking"}))
	}
	require.NoError(t, p.Close(context.Background()))

	got := w.entries()
	require.Len(t, got, 5)
	for _, in := range got {
		assert.NotEmpty(t, in.ID)
		assert.False(t, in.CreatedAt.IsZero())
	}
	assert.Equal(t, Stats{Published: 5, Written: 5}, p.Stats())
}

func TestPublisher_KeepsCallerID(t *testing.T) {
	w := &recordingWriter{}
	p := NewPublisher(w, DefaultOptions(), nil)

	p.Publish(domain.Interaction{ID: "fixed", Query: "szia"})
	require.NoError(t, p.Close(context.Background()))

	require.Len(t, w.entries(), 1)
	assert.Equal(t, "fixed", w.entries()[0].ID)
}

func TestPublisher_DropsWhenFull(t *testing.T) {
	w := &recordingWriter{block: make(chan struct{})}
	p := NewPublisher(w, Options{QueueSize: 1, WriteTimeout: time.Second}, nil)

	accepted := 0
	for i := 0; i < 10; i++ {
		if p.Publish(domain.Interaction{Query: "x"}) {
			accepted++
		}
	}
	close(w.block)
	require.NoError(t, p.Close(context.Background()))

	assert.LessOrEqual(t, accepted, 2)
	stats := p.Stats()
	assert.Equal(t, int64(10), stats.Published+stats.Dropped)
	assert.Equal(t, stats.Published, stats.Written)
}

func TestPublisher_WriteErrorsAreSwallowed(t *testing.T) {
	w := &recordingWriter{err: errors.New("db locked")}
	p := NewPublisher(w, DefaultOptions(), nil)

	assert.True(t, p.Publish(domain.Interaction{Query: "x"}))
	require.NoError(t, p.Close(context.Background()))

	assert.Equal(t, int64(1), p.Stats().Failed)
	assert.Empty(t, w.entries())
}

func TestPublisher_PublishAfterCloseDrops(t *testing.T) {
	p := NewPublisher(&recordingWriter{}, DefaultOptions(), nil)
	require.NoError(t, p.Close(context.Background()))
	require.NoError(t, p.Close(context.Background()))

	assert.False(t, p.Publish(domain.Interaction{Query: "x"}))
	assert.Equal(t, int64(1), p.Stats().Dropped)
}

func TestPublisher_CloseHonorsContext(t *testing.T) {
	w := &recordingWriter{block: make(chan struct{})}
	p := NewPublisher(w, Options{QueueSize: 4, WriteTimeout: time.Minute}, nil)
	p.Publish(domain.Interaction{Query: "x"})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, p.Close(ctx), context.DeadlineExceeded)

	close(w.block)
	require.NoError(t, p.Close(context.Background()))
}
