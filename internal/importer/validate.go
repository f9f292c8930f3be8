package importer

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/alexanderramin/cityguide/internal/domain"
)

const localTimeLayout = "2006-01-02 15:04"

var (
	validTiers   = map[string]bool{"": true, string(domain.TierGold): true, string(domain.TierSilver): true, string(domain.TierStandard): true}
	platePattern = regexp.MustCompile(`^([A-Z]{3}-?\d{3}|[A-Z]{2}-?[A-Z]{2}-?\d{3})$`)
)

// ValidateSeed checks the seed for errors before conversion.
// Returns a slice of all validation errors found.
func ValidateSeed(seed *SeedFile) []error {
	var errs []error
	errs = append(errs, validateEvents(seed.Events)...)
	errs = append(errs, validateRestaurants(seed.Restaurants)...)
	errs = append(errs, validateUsers(seed.Users)...)
	return errs
}

func checkRef(prefix, ref string, seen map[string]bool) []error {
	if ref == "" {
		return []error{fmt.Errorf("%s.ref is required", prefix)}
	}
	if seen[ref] {
		return []error{fmt.Errorf("%s.ref: duplicate ref %q", prefix, ref)}
	}
	seen[ref] = true
	return nil
}

func validateEvents(events []EventSeed) []error {
	var errs []error
	refs := make(map[string]bool)

	for i, e := range events {
		prefix := fmt.Sprintf("events[%d]", i)
		errs = append(errs, checkRef(prefix, e.Ref, refs)...)

		if strings.TrimSpace(e.Title) == "" {
			errs = append(errs, fmt.Errorf("%s.title is required", prefix))
		}

		var start time.Time
		if e.StartsAt == "" {
			errs = append(errs, fmt.Errorf("%s.starts_at is required", prefix))
		} else if t, err := parseSeedTime(e.StartsAt, time.UTC); err != nil {
			errs = append(errs, fmt.Errorf("%s.starts_at: %w", prefix, err))
		} else {
			start = t
		}

		if e.EndsAt != nil && *e.EndsAt != "" {
			end, err := parseSeedTime(*e.EndsAt, time.UTC)
			switch {
			case err != nil:
				errs = append(errs, fmt.Errorf("%s.ends_at: %w", prefix, err))
			case !start.IsZero() && !end.After(start):
				errs = append(errs, fmt.Errorf("%s.ends_at %q must be after starts_at %q", prefix, *e.EndsAt, e.StartsAt))
			}
		}
	}
	return errs
}

func validateRestaurants(restaurants []RestaurantSeed) []error {
	var errs []error
	refs := make(map[string]bool)

	for i, r := range restaurants {
		prefix := fmt.Sprintf("restaurants[%d]", i)
		errs = append(errs, checkRef(prefix, r.Ref, refs)...)

		if strings.TrimSpace(r.Name) == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}
		if !validTiers[r.Tier] {
			errs = append(errs, fmt.Errorf("%s.tier: invalid value %q", prefix, r.Tier))
		}
		if r.Lat < -90 || r.Lat > 90 || r.Lng < -180 || r.Lng > 180 {
			errs = append(errs, fmt.Errorf("%s: coordinates out of range", prefix))
		}

		names := make(map[string]bool)
		for j, m := range r.Menu {
			mp := fmt.Sprintf("%s.menu[%d]", prefix, j)
			if strings.TrimSpace(m.Name) == "" {
				errs = append(errs, fmt.Errorf("%s.name is required", mp))
			} else if names[m.Name] {
				errs = append(errs, fmt.Errorf("%s.name: duplicate item %q", mp, m.Name))
			} else {
				names[m.Name] = true
			}
			if m.PriceHUF < 0 {
				errs = append(errs, fmt.Errorf("%s.price_huf must not be negative", mp))
			}
		}
	}
	return errs
}

func validateUsers(users []UserSeed) []error {
	var errs []error
	refs := make(map[string]bool)

	for i, u := range users {
		prefix := fmt.Sprintf("users[%d]", i)
		errs = append(errs, checkRef(prefix, u.Ref, refs)...)

		if strings.TrimSpace(u.DisplayName) == "" {
			errs = append(errs, fmt.Errorf("%s.display_name is required", prefix))
		}

		plates := make(map[string]bool)
		defaults := 0
		for j, v := range u.Vehicles {
			vp := fmt.Sprintf("%s.vehicles[%d]", prefix, j)
			plate := NormalizePlate(v.LicensePlate)
			switch {
			case plate == "":
				errs = append(errs, fmt.Errorf("%s.license_plate is required", vp))
			case !platePattern.MatchString(plate):
				errs = append(errs, fmt.Errorf("%s.license_plate: invalid plate %q", vp, v.LicensePlate))
			case plates[plate]:
				errs = append(errs, fmt.Errorf("%s.license_plate: duplicate plate %q", vp, v.LicensePlate))
			default:
				plates[plate] = true
			}
			if v.IsDefault {
				defaults++
			}
		}
		if defaults > 1 {
			errs = append(errs, fmt.Errorf("%s.vehicles: %d vehicles marked default, at most one allowed", prefix, defaults))
		}

		for k, n := range u.Interests {
			if n < 0 {
				errs = append(errs, fmt.Errorf("%s.interests[%s] must not be negative", prefix, k))
			}
		}
	}
	return errs
}

// NormalizePlate upper-cases a plate and strips spaces.
func NormalizePlate(p string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(p), " ", ""))
}

func parseSeedTime(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(localTimeLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q (expected RFC 3339 or YYYY-MM-DD HH:MM)", s)
	}
	return t, nil
}
