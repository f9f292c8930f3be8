package trigger

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

type collector struct {
	mu  sync.Mutex
	got []domain.TriggerCandidate
}

func (c *collector) sink(_ context.Context, cand domain.TriggerCandidate) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.got = append(c.got, cand)
}

func (c *collector) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.got)
}

func TestRunner_EmitsOnceForUnchangedState(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	calls := make(chan struct{}, 8)
	snap := func(context.Context) (Snapshot, error) {
		select {
		case calls <- struct{}{}:
		default:
		}
		return Snapshot{Now: at(19, 0), AppMode: domain.ModeCity, Movement: domain.MovementStationary}, nil
	}
	c := &collector{}
	r := NewRunner(NewEngine(DefaultConfig()), snap, c.sink, time.Millisecond, nil)

	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	for i := 0; i < 3; i++ {
		<-calls
	}
	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
	assert.Equal(t, 1, c.len())
}

func TestRunner_SnapshotErrorsAreSkipped(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	calls := make(chan struct{}, 8)
	snap := func(context.Context) (Snapshot, error) {
		select {
		case calls <- struct{}{}:
		default:
		}
		return Snapshot{}, errors.New("events backend down")
	}
	c := &collector{}
	r := NewRunner(NewEngine(DefaultConfig()), snap, c.sink, time.Millisecond, nil)

	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	<-calls
	<-calls
	cancel()
	<-done
	assert.Equal(t, 0, c.len())
}

func TestRunner_StopsOnCancelledContext(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := &collector{}
	r := NewRunner(NewEngine(DefaultConfig()), func(context.Context) (Snapshot, error) {
		t.Fatal("snapshot must not be taken after cancel")
		return Snapshot{}, nil
	}, c.sink, time.Hour, nil)

	err := r.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
