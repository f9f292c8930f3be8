package content

import (
	"context"
	"errors"
	"log/slog"

	"github.com/alexanderramin/cityguide/internal/domain"
)

// Knowledge document names.
const (
	CityKnowledgeDoc = "city_knowledge.md"
	FAQDoc           = "faq.md"
)

// Store exposes typed datasets over a Source. Every read degrades to an
// empty value: a missing or broken document is logged, never returned.
type Store struct {
	src    Source
	logger *slog.Logger
}

func NewStore(src Source, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{src: src, logger: logger}
}

// Document returns the named text document or "" when unavailable.
func (s *Store) Document(ctx context.Context, name string) string {
	data, err := s.src.Fetch(ctx, name)
	if err != nil {
		s.logFetch(name, err)
		return ""
	}
	return string(data)
}

func (s *Store) Restaurants(ctx context.Context) []domain.Restaurant {
	return loadDataset[domain.Restaurant](ctx, s, string(domain.DomainRestaurants))
}

func (s *Store) Events(ctx context.Context) []domain.Event {
	return loadDataset[domain.Event](ctx, s, string(domain.DomainEvents))
}

func (s *Store) Parking(ctx context.Context) []domain.ParkingZone {
	return loadDataset[domain.ParkingZone](ctx, s, string(domain.DomainParking))
}

// Places loads one of the place-shaped datasets (attractions, hotels,
// leisure, info).
func (s *Store) Places(ctx context.Context, d domain.DataDomain) []domain.Place {
	return loadDataset[domain.Place](ctx, s, string(d))
}

// loadDataset tries base.json, then base.yaml.
func loadDataset[T any](ctx context.Context, s *Store, base string) []T {
	for _, name := range []string{base + ".json", base + ".yaml"} {
		data, err := s.src.Fetch(ctx, name)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			s.logFetch(name, err)
			return nil
		}
		items, err := DecodeDataset[T](name, data)
		if err != nil {
			s.logger.Warn("static dataset unreadable", "name", name, "error", err)
			return nil
		}
		return items
	}
	s.logger.Debug("static dataset missing", "name", base)
	return nil
}

func (s *Store) logFetch(name string, err error) {
	if errors.Is(err, ErrNotFound) {
		s.logger.Debug("static document missing", "name", name)
		return
	}
	s.logger.Warn("static document fetch failed", "name", name, "error", err)
}
