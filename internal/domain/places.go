package domain

import "time"

type Tier string

const (
	TierGold     Tier = "gold"
	TierSilver   Tier = "silver"
	TierStandard Tier = "standard"
)

// TierRank orders paid tiers; lower ranks sort first.
func TierRank(t Tier) int {
	switch t {
	case TierGold:
		return 0
	case TierSilver:
		return 1
	default:
		return 2
	}
}

type Event struct {
	ID          string     `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description,omitempty" yaml:"description"`
	Venue       string     `json:"venue,omitempty" yaml:"venue"`
	Category    string     `json:"category,omitempty" yaml:"category"`
	StartsAt    time.Time  `json:"starts_at" yaml:"starts_at"`
	EndsAt      *time.Time `json:"ends_at,omitempty" yaml:"ends_at"`
	AllDay      bool       `json:"all_day,omitempty" yaml:"all_day"`
}

type Restaurant struct {
	ID       string  `json:"id" yaml:"id"`
	Name     string  `json:"name" yaml:"name"`
	Cuisine  string  `json:"cuisine,omitempty" yaml:"cuisine"`
	Address  string  `json:"address,omitempty" yaml:"address"`
	Phone    string  `json:"phone,omitempty" yaml:"phone"`
	Tier     Tier    `json:"tier,omitempty" yaml:"tier"`
	Promoted bool    `json:"promoted,omitempty" yaml:"promoted"`
	Delivery bool    `json:"delivery,omitempty" yaml:"delivery"`
	Lat      float64 `json:"lat,omitempty" yaml:"lat"`
	Lng      float64 `json:"lng,omitempty" yaml:"lng"`
}

type MenuItem struct {
	ID           string `json:"id" yaml:"id"`
	RestaurantID string `json:"restaurant_id" yaml:"restaurant_id"`
	Name         string `json:"name" yaml:"name"`
	PriceHUF     int    `json:"price_huf" yaml:"price_huf"`
	Available    bool   `json:"available" yaml:"available"`
}

// Place covers the static curated datasets (attractions, hotels, leisure, info).
type Place struct {
	ID          string  `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description,omitempty" yaml:"description"`
	Address     string  `json:"address,omitempty" yaml:"address"`
	Phone       string  `json:"phone,omitempty" yaml:"phone"`
	Lat         float64 `json:"lat,omitempty" yaml:"lat"`
	Lng         float64 `json:"lng,omitempty" yaml:"lng"`
}

type ParkingZone struct {
	Code       string  `json:"code" yaml:"code"`
	Name       string  `json:"name" yaml:"name"`
	HourlyHUF  int     `json:"hourly_huf" yaml:"hourly_huf"`
	PaidHours  string  `json:"paid_hours,omitempty" yaml:"paid_hours"`
	MaxMinutes int     `json:"max_minutes,omitempty" yaml:"max_minutes"`
	Lat        float64 `json:"lat,omitempty" yaml:"lat"`
	Lng        float64 `json:"lng,omitempty" yaml:"lng"`
}
