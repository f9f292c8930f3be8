package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/alexanderramin/cityguide/internal/domain"
	"github.com/alexanderramin/cityguide/internal/movement"
	"github.com/alexanderramin/cityguide/internal/trigger"
)

const upcomingEventLimit = 20

// TriggerService drives proactive suggestions for client sessions.
type TriggerService struct {
	engine    *trigger.Engine
	store     trigger.BehaviorStore
	events    EventSource
	interests InterestSource
	geometry  movement.CityGeometry
	location  *time.Location
	logger    *slog.Logger
	observer  UseCaseObserver

	// mu serializes profile writes made by this process.
	mu sync.Mutex
}

func NewTriggerService(
	engine *trigger.Engine,
	store trigger.BehaviorStore,
	events EventSource,
	interests InterestSource,
	geometry movement.CityGeometry,
	loc *time.Location,
	logger *slog.Logger,
	observers ...UseCaseObserver,
) *TriggerService {
	if logger == nil {
		logger = slog.Default()
	}
	if loc == nil {
		loc = time.Local
	}
	return &TriggerService{
		engine:    engine,
		store:     store,
		events:    events,
		interests: interests,
		geometry:  geometry,
		location:  loc,
		logger:    logger,
		observer:  useCaseObserverOrNoop(observers),
	}
}

// session hydrates id from the store. The store is the source of truth, so
// feedback written by another process is seen on the next call.
func (s *TriggerService) session(ctx context.Context, id string) *trigger.Session {
	return trigger.OpenSession(ctx, s.store, id, s.logger)
}

// Snapshot builds the engine input for a session. Source failures degrade
// to empty data.
func (s *TriggerService) Snapshot(ctx context.Context, sessionID string, amb domain.AmbientContext) trigger.Snapshot {
	now := amb.Now
	if now.IsZero() {
		now = time.Now()
	}
	// Hour windows and day ids follow the city's clock, not the host's.
	now = now.In(s.location)
	snap := trigger.Snapshot{
		Now:      now,
		AppMode:  movement.ClassifyAppMode(amb.Location, s.geometry),
		Movement: movement.ClassifyMovement(amb.Speed),
		Weather:  amb.Weather,
		Behavior: s.session(ctx, sessionID).Profile(),
	}
	if s.events != nil {
		events, err := s.events.UpcomingEvents(ctx, now, upcomingEventLimit)
		if err != nil {
			s.logger.WarnContext(ctx, "trigger events degraded", "error", err)
		}
		snap.UpcomingEvents = events
	}
	if s.interests != nil && amb.UserID != "" {
		p, err := s.interests.Personalization(ctx, amb.UserID)
		if err != nil {
			s.logger.WarnContext(ctx, "trigger interests degraded", "error", err)
		}
		if p != nil {
			snap.Interests = p.Interests
		}
	}
	return snap
}

// Evaluate returns the suggestion to show now, or nil.
func (s *TriggerService) Evaluate(ctx context.Context, sessionID string, amb domain.AmbientContext) *domain.TriggerCandidate {
	startedAt := time.Now().UTC()
	c := s.engine.Evaluate(s.Snapshot(ctx, sessionID, amb))
	fields := map[string]any{"session": sessionID, "suggested": c != nil}
	if c != nil {
		fields["candidate"] = c.ID
		fields["priority"] = c.Priority
	}
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      "evaluate-trigger",
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Success:   true,
		Fields:    fields,
	})
	return c
}

// SnapshotFunc adapts the service for a trigger.Runner. ambient is called on
// every tick.
func (s *TriggerService) SnapshotFunc(sessionID string, ambient func() domain.AmbientContext) trigger.SnapshotFunc {
	return func(ctx context.Context) (trigger.Snapshot, error) {
		return s.Snapshot(ctx, sessionID, ambient()), nil
	}
}

func (s *TriggerService) Accept(ctx context.Context, sessionID string, cat domain.TriggerCategory, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session(ctx, sessionID).Accept(ctx, cat, now)
}

func (s *TriggerService) Dismiss(ctx context.Context, sessionID string, cat domain.TriggerCategory, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session(ctx, sessionID).Dismiss(ctx, cat, now)
}

// Profile exposes the session's current behavior profile.
func (s *TriggerService) Profile(ctx context.Context, sessionID string) domain.BehaviorProfile {
	return s.session(ctx, sessionID).Profile()
}
