package testutil

import (
	"time"

	"github.com/alexanderramin/cityguide/internal/domain"
	"github.com/google/uuid"
)

// Event options
type EventOption func(*domain.Event)

func WithEventEnd(end time.Time) EventOption {
	return func(e *domain.Event) {
		e.EndsAt = &end
	}
}

func WithAllDay() EventOption {
	return func(e *domain.Event) {
		e.AllDay = true
	}
}

func WithVenue(v string) EventOption {
	return func(e *domain.Event) {
		e.Venue = v
	}
}

func NewTestEvent(title string, startsAt time.Time, opts ...EventOption) domain.Event {
	e := domain.Event{
		ID:       uuid.New().String(),
		Title:    title,
		Category: "culture",
		StartsAt: startsAt.UTC(),
	}
	for _, o := range opts {
		o(&e)
	}
	return e
}

// Restaurant options
type RestaurantOption func(*domain.Restaurant)

func WithTier(t domain.Tier) RestaurantOption {
	return func(r *domain.Restaurant) {
		r.Tier = t
	}
}

func WithPromoted() RestaurantOption {
	return func(r *domain.Restaurant) {
		r.Promoted = true
	}
}

func WithDelivery() RestaurantOption {
	return func(r *domain.Restaurant) {
		r.Delivery = true
	}
}

func NewTestRestaurant(name string, opts ...RestaurantOption) domain.Restaurant {
	r := domain.Restaurant{
		ID:      uuid.New().String(),
		Name:    name,
		Cuisine: "hungarian",
		Tier:    domain.TierStandard,
		Lat:     47.389,
		Lng:     16.541,
	}
	for _, o := range opts {
		o(&r)
	}
	return r
}

func NewTestMenuItem(restaurantID, name string, priceHUF int) domain.MenuItem {
	return domain.MenuItem{
		ID:           uuid.New().String(),
		RestaurantID: restaurantID,
		Name:         name,
		PriceHUF:     priceHUF,
		Available:    true,
	}
}

func NewTestUser(name string) domain.UserProfile {
	return domain.UserProfile{
		ID:          uuid.New().String(),
		DisplayName: name,
		Language:    "hu",
		HomeCity:    "Kőszeg",
	}
}

func NewTestVehicle(userID, plate string, isDefault bool) domain.Vehicle {
	return domain.Vehicle{
		ID:           uuid.New().String(),
		UserID:       userID,
		LicensePlate: plate,
		IsDefault:    isDefault,
	}
}

// KoszegCenter is a location inside the city.
func KoszegCenter() *domain.Location {
	return &domain.Location{Lat: 47.3895, Lng: 16.5410}
}

// Budapest is a location far outside the city.
func Budapest() *domain.Location {
	return &domain.Location{Lat: 47.4979, Lng: 19.0402}
}
