package importer

import (
	"fmt"
	"time"

	"github.com/alexanderramin/cityguide/internal/domain"
	"github.com/google/uuid"
)

// seedNamespace keys the deterministic ids derived from refs.
var seedNamespace = uuid.MustParse("6f1c3a52-8d1e-4c55-9a63-2b7f0e9d4c11")

// Dataset is a converted seed ready for persistence.
type Dataset struct {
	Events          []domain.Event
	Restaurants     []domain.Restaurant
	MenuItems       []domain.MenuItem
	Users           []domain.UserProfile
	Vehicles        []domain.Vehicle
	Personalization []domain.PersonalizationProfile
}

// SeedID derives the stable database id for a record of kind with ref.
func SeedID(kind, ref string) string {
	return uuid.NewSHA1(seedNamespace, []byte(kind+":"+ref)).String()
}

// Convert transforms a validated SeedFile into domain objects. Local times
// are read in loc. Call ValidateSeed first; Convert assumes the seed is valid.
func Convert(seed *SeedFile, loc *time.Location) (*Dataset, error) {
	if loc == nil {
		loc = time.UTC
	}
	ds := &Dataset{}

	for _, e := range seed.Events {
		start, err := parseSeedTime(e.StartsAt, loc)
		if err != nil {
			return nil, fmt.Errorf("event %q: %w", e.Ref, err)
		}
		ev := domain.Event{
			ID:          SeedID("event", e.Ref),
			Title:       e.Title,
			Description: e.Description,
			Venue:       e.Venue,
			Category:    e.Category,
			StartsAt:    start.UTC(),
			AllDay:      e.AllDay,
		}
		if e.EndsAt != nil && *e.EndsAt != "" {
			end, err := parseSeedTime(*e.EndsAt, loc)
			if err != nil {
				return nil, fmt.Errorf("event %q: %w", e.Ref, err)
			}
			end = end.UTC()
			ev.EndsAt = &end
		}
		ds.Events = append(ds.Events, ev)
	}

	for _, r := range seed.Restaurants {
		id := SeedID("restaurant", r.Ref)
		tier := domain.Tier(r.Tier)
		if tier == "" {
			tier = domain.TierStandard
		}
		ds.Restaurants = append(ds.Restaurants, domain.Restaurant{
			ID:       id,
			Name:     r.Name,
			Cuisine:  r.Cuisine,
			Address:  r.Address,
			Phone:    r.Phone,
			Tier:     tier,
			Promoted: r.Promoted,
			Delivery: r.Delivery,
			Lat:      r.Lat,
			Lng:      r.Lng,
		})
		for _, m := range r.Menu {
			available := true
			if m.Available != nil {
				available = *m.Available
			}
			ds.MenuItems = append(ds.MenuItems, domain.MenuItem{
				ID:           SeedID("menu", r.Ref+"/"+m.Name),
				RestaurantID: id,
				Name:         m.Name,
				PriceHUF:     m.PriceHUF,
				Available:    available,
			})
		}
	}

	for _, u := range seed.Users {
		id := SeedID("user", u.Ref)
		ds.Users = append(ds.Users, domain.UserProfile{
			ID:          id,
			DisplayName: u.DisplayName,
			Language:    u.Language,
			HomeCity:    u.HomeCity,
		})
		for _, v := range u.Vehicles {
			plate := NormalizePlate(v.LicensePlate)
			ds.Vehicles = append(ds.Vehicles, domain.Vehicle{
				ID:           SeedID("vehicle", u.Ref+"/"+plate),
				UserID:       id,
				LicensePlate: plate,
				Nickname:     v.Nickname,
				Carrier:      v.Carrier,
				IsDefault:    v.IsDefault,
			})
		}
		if len(u.Interests) > 0 || len(u.Traits) > 0 {
			ds.Personalization = append(ds.Personalization, domain.PersonalizationProfile{
				UserID:    id,
				Interests: u.Interests,
				Traits:    u.Traits,
			})
		}
	}
	return ds, nil
}
