package service

import (
	"context"
	"time"

	"github.com/alexanderramin/cityguide/internal/domain"
)

// ContextLoader assembles backend data for a query.
type ContextLoader interface {
	Load(ctx context.Context, intents domain.IntentSet, query string, amb domain.AmbientContext) *domain.BackendContext
	LoadMenu(ctx context.Context, query string) []domain.MenuItem
}

// InteractionPublisher records finalized decisions without blocking.
type InteractionPublisher interface {
	Publish(in domain.Interaction) bool
}

// EventSource lists upcoming events for the trigger engine.
type EventSource interface {
	UpcomingEvents(ctx context.Context, from time.Time, limit int) ([]domain.Event, error)
}

// InterestSource reads a user's affinity profile.
type InterestSource interface {
	Personalization(ctx context.Context, userID string) (*domain.PersonalizationProfile, error)
}
