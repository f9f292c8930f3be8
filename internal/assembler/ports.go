package assembler

import (
	"context"
	"time"

	"github.com/alexanderramin/cityguide/internal/domain"
)

// UserData reads per-user records from the relational backend.
type UserData interface {
	RecentInteractions(ctx context.Context, userID string, limit int) ([]domain.Interaction, error)
	Profile(ctx context.Context, userID string) (*domain.UserProfile, error)
	Vehicles(ctx context.Context, userID string) ([]domain.Vehicle, error)
	Personalization(ctx context.Context, userID string) (*domain.PersonalizationProfile, error)
}

// LiveData reads the frequently changing datasets from the relational backend.
type LiveData interface {
	UpcomingEvents(ctx context.Context, from time.Time, limit int) ([]domain.Event, error)
	ListRestaurants(ctx context.Context, limit int) ([]domain.Restaurant, error)
	SearchMenu(ctx context.Context, terms []string, limit int) ([]domain.MenuItem, error)
}

// StaticContent serves the curated datasets. Implementations degrade to
// empty values instead of failing.
type StaticContent interface {
	Document(ctx context.Context, name string) string
	Restaurants(ctx context.Context) []domain.Restaurant
	Events(ctx context.Context) []domain.Event
	Parking(ctx context.Context) []domain.ParkingZone
	Places(ctx context.Context, d domain.DataDomain) []domain.Place
}
