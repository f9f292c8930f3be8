package trigger

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/alexanderramin/cityguide/internal/domain"
)

// BehaviorStore persists behavior profiles keyed by session. Load returns
// an empty profile when none is stored.
type BehaviorStore interface {
	LoadBehavior(ctx context.Context, sessionID string) (domain.BehaviorProfile, error)
	SaveBehavior(ctx context.Context, sessionID string, p domain.BehaviorProfile) error
}

// Session owns one user's behavior profile. It is hydrated once and every
// mutation is flushed to the store.
type Session struct {
	mu      sync.Mutex
	id      string
	store   BehaviorStore
	profile domain.BehaviorProfile
	logger  *slog.Logger
}

// OpenSession hydrates the profile for id. A load failure starts the session
// from an empty profile.
func OpenSession(ctx context.Context, store BehaviorStore, id string, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Session{id: id, store: store, logger: logger}
	p, err := store.LoadBehavior(ctx, id)
	if err != nil {
		logger.WarnContext(ctx, "behavior profile load failed", "session", id, "error", err)
		p = domain.BehaviorProfile{}
	}
	s.profile = p.Clone()
	return s
}

func (s *Session) ID() string { return s.id }

// Profile returns a copy of the current profile.
func (s *Session) Profile() domain.BehaviorProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile.Clone()
}

// Accept records that a suggestion of cat was accepted at now.
func (s *Session) Accept(ctx context.Context, cat domain.TriggerCategory, now time.Time) error {
	return s.mutate(ctx, func(p *domain.BehaviorProfile) {
		p.LastShown = now
		p.Accepted[cat]++
	})
}

// Dismiss records that a suggestion of cat was dismissed at now. Later
// candidates of cat are penalized.
func (s *Session) Dismiss(ctx context.Context, cat domain.TriggerCategory, now time.Time) error {
	return s.mutate(ctx, func(p *domain.BehaviorProfile) {
		p.LastShown = now
		p.Ignored[cat] = true
	})
}

// mutate applies fn in memory and flushes. The in-memory state survives a
// failed flush.
func (s *Session) mutate(ctx context.Context, fn func(*domain.BehaviorProfile)) error {
	s.mu.Lock()
	fn(&s.profile)
	snapshot := s.profile.Clone()
	s.mu.Unlock()

	if err := s.store.SaveBehavior(ctx, s.id, snapshot); err != nil {
		s.logger.WarnContext(ctx, "behavior profile flush failed", "session", s.id, "error", err)
		return fmt.Errorf("flushing behavior profile: %w", err)
	}
	return nil
}

// MemoryBehaviorStore keeps profiles in process memory.
type MemoryBehaviorStore struct {
	mu       sync.Mutex
	profiles map[string]domain.BehaviorProfile
}

func NewMemoryBehaviorStore() *MemoryBehaviorStore {
	return &MemoryBehaviorStore{profiles: make(map[string]domain.BehaviorProfile)}
}

func (m *MemoryBehaviorStore) LoadBehavior(_ context.Context, id string) (domain.BehaviorProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.profiles[id].Clone(), nil
}

func (m *MemoryBehaviorStore) SaveBehavior(_ context.Context, id string, p domain.BehaviorProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[id] = p.Clone()
	return nil
}
