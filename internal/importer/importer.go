// Package importer loads curated backend data (events, restaurants with
// their menus, users with vehicles and interests) from a seed file.
package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alexanderramin/cityguide/internal/db"
	"github.com/alexanderramin/cityguide/internal/repository"
)

// Summary counts the rows written by an import.
type Summary struct {
	Events      int
	Restaurants int
	MenuItems   int
	Users       int
	Vehicles    int
}

// Importer writes seed datasets in a single transaction.
type Importer struct {
	uow     db.UnitOfWork
	dialect db.Dialect
	loc     *time.Location
	logger  *slog.Logger
}

func New(uow db.UnitOfWork, dialect db.Dialect, loc *time.Location, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{uow: uow, dialect: dialect, loc: loc, logger: logger}
}

// ImportFile validates, converts and writes the seed file at path.
func (im *Importer) ImportFile(ctx context.Context, path string) (Summary, error) {
	seed, err := LoadSeedFile(path)
	if err != nil {
		return Summary{}, err
	}
	return im.Import(ctx, seed)
}

// Import writes seed atomically. Validation errors are joined and nothing
// is written.
func (im *Importer) Import(ctx context.Context, seed *SeedFile) (Summary, error) {
	if errs := ValidateSeed(seed); len(errs) > 0 {
		return Summary{}, fmt.Errorf("invalid seed: %w", errors.Join(errs...))
	}
	ds, err := Convert(seed, im.loc)
	if err != nil {
		return Summary{}, err
	}

	var sum Summary
	err = im.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		live := repository.NewLiveRepo(tx, im.dialect)
		users := repository.NewUserRepo(tx, im.dialect)

		for _, e := range ds.Events {
			if err := live.UpsertEvent(ctx, e); err != nil {
				return fmt.Errorf("event %q: %w", e.Title, err)
			}
			sum.Events++
		}
		for _, r := range ds.Restaurants {
			if err := live.UpsertRestaurant(ctx, r); err != nil {
				return fmt.Errorf("restaurant %q: %w", r.Name, err)
			}
			sum.Restaurants++
		}
		for _, m := range ds.MenuItems {
			if err := live.UpsertMenuItem(ctx, m); err != nil {
				return fmt.Errorf("menu item %q: %w", m.Name, err)
			}
			sum.MenuItems++
		}
		for _, u := range ds.Users {
			if err := users.UpsertUser(ctx, u); err != nil {
				return fmt.Errorf("user %q: %w", u.DisplayName, err)
			}
			sum.Users++
		}
		for _, v := range ds.Vehicles {
			if err := users.UpsertVehicle(ctx, v); err != nil {
				return fmt.Errorf("vehicle %q: %w", v.LicensePlate, err)
			}
			sum.Vehicles++
		}
		for _, p := range ds.Personalization {
			if err := users.UpsertPersonalization(ctx, p); err != nil {
				return fmt.Errorf("personalization: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return Summary{}, fmt.Errorf("importing seed: %w", err)
	}

	im.logger.InfoContext(ctx, "seed imported",
		"events", sum.Events, "restaurants", sum.Restaurants, "menu_items", sum.MenuItems,
		"users", sum.Users, "vehicles", sum.Vehicles)
	return sum, nil
}
