// Package assembler loads the minimal supporting data for a set of intents.
// Every source is fetched concurrently and degrades to an empty value on
// failure; a partial outage never fails the whole assembly.
package assembler

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/alexanderramin/cityguide/internal/content"
	"github.com/alexanderramin/cityguide/internal/domain"
	"github.com/alexanderramin/cityguide/internal/textnorm"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("cityguide/assembler")

type Options struct {
	FetchTimeout  time.Duration
	RestaurantCap int
	EventCap      int
	HistoryLimit  int
	MenuLimit     int
	Location      *time.Location
	Now           func() time.Time
}

// DefaultOptions returns the production timeouts and caps.
func DefaultOptions() Options {
	return Options{
		FetchTimeout:  3 * time.Second,
		RestaurantCap: 12,
		EventCap:      10,
		HistoryLimit:  5,
		MenuLimit:     15,
		Location:      time.Local,
		Now:           time.Now,
	}
}

type Assembler struct {
	users  UserData
	live   LiveData
	static StaticContent
	opts   Options
	logger *slog.Logger
}

// New builds an assembler. users and live may be nil when no backend is
// configured; their data is then simply absent.
func New(users UserData, live LiveData, static StaticContent, opts Options, logger *slog.Logger) *Assembler {
	def := DefaultOptions()
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = def.FetchTimeout
	}
	if opts.RestaurantCap <= 0 {
		opts.RestaurantCap = def.RestaurantCap
	}
	if opts.EventCap <= 0 {
		opts.EventCap = def.EventCap
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = def.HistoryLimit
	}
	if opts.MenuLimit <= 0 {
		opts.MenuLimit = def.MenuLimit
	}
	if opts.Location == nil {
		opts.Location = def.Location
	}
	if opts.Now == nil {
		opts.Now = def.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{users: users, live: live, static: static, opts: opts, logger: logger}
}

// Load assembles the BackendContext for intents. It waits for every source
// or its timeout. It never fails.
func (a *Assembler) Load(ctx context.Context, intents domain.IntentSet, query string, amb domain.AmbientContext) *domain.BackendContext {
	ctx, span := tracer.Start(ctx, "assembler.Load")
	defer span.End()
	span.SetAttributes(attribute.StringSlice("intents", intents.Strings()))

	now := amb.Now
	if now.IsZero() {
		now = a.opts.Now()
	}

	bc := domain.NewBackendContext()
	var (
		mu       sync.Mutex
		degraded []string
		faq      string
		city     string
	)
	degrade := func(source string, err error) {
		mu.Lock()
		degraded = append(degraded, source)
		mu.Unlock()
		a.logger.WarnContext(ctx, "context source degraded", "source", source, "error", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	if amb.UserID != "" && a.users != nil {
		uid := amb.UserID
		g.Go(func() error {
			v, err := fetch(gctx, a.opts.FetchTimeout, func(c context.Context) ([]domain.Interaction, error) {
				return a.users.RecentInteractions(c, uid, a.opts.HistoryLimit)
			})
			if err != nil {
				degrade("history", err)
			}
			bc.History = v
			return nil
		})
		g.Go(func() error {
			v, err := fetch(gctx, a.opts.FetchTimeout, func(c context.Context) (*domain.UserProfile, error) {
				return a.users.Profile(c, uid)
			})
			if err != nil {
				degrade("profile", err)
			}
			bc.Profile = v
			return nil
		})
		g.Go(func() error {
			v, err := fetch(gctx, a.opts.FetchTimeout, func(c context.Context) ([]domain.Vehicle, error) {
				return a.users.Vehicles(c, uid)
			})
			if err != nil {
				degrade("vehicles", err)
			}
			bc.Vehicles = v
			return nil
		})
		g.Go(func() error {
			v, err := fetch(gctx, a.opts.FetchTimeout, func(c context.Context) (*domain.PersonalizationProfile, error) {
				return a.users.Personalization(c, uid)
			})
			if err != nil {
				degrade("personalization", err)
			}
			bc.Personalization = v
			return nil
		})
	}

	g.Go(func() error {
		city = a.document(gctx, content.CityKnowledgeDoc)
		return nil
	})
	g.Go(func() error {
		faq = a.document(gctx, content.FAQDoc)
		return nil
	})

	for _, intent := range intents {
		for _, d := range domain.DomainsFor(intent) {
			if !bc.Claim(d) {
				continue
			}
			g.Go(func() error {
				a.loadDomain(gctx, bc, d, now, degrade)
				return nil
			})
		}
	}

	_ = g.Wait()

	bc.Knowledge = map[string]string{}
	if city != "" {
		bc.Knowledge[content.CityKnowledgeDoc] = city
	}
	if faq != "" {
		bc.Knowledge[content.FAQDoc] = faq
	}

	span.SetAttributes(attribute.Int("degraded_sources", len(degraded)))
	return bc
}

// loadDomain fills exactly one dataset field of bc.
func (a *Assembler) loadDomain(ctx context.Context, bc *domain.BackendContext, d domain.DataDomain, now time.Time, degrade func(string, error)) {
	switch d {
	case domain.DomainRestaurants:
		var static, live []domain.Restaurant
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			static = a.static.Restaurants(gctx)
			return nil
		})
		if a.live != nil {
			g.Go(func() error {
				v, err := fetch(gctx, a.opts.FetchTimeout, func(c context.Context) ([]domain.Restaurant, error) {
					return a.live.ListRestaurants(c, a.opts.RestaurantCap*2)
				})
				if err != nil {
					degrade("live_restaurants", err)
				}
				live = v
				return nil
			})
		}
		_ = g.Wait()
		bc.Restaurants = mergeRestaurants(static, live, a.opts.RestaurantCap)

	case domain.DomainEvents:
		var static, live []domain.Event
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			static = a.static.Events(gctx)
			return nil
		})
		if a.live != nil {
			g.Go(func() error {
				v, err := fetch(gctx, a.opts.FetchTimeout, func(c context.Context) ([]domain.Event, error) {
					return a.live.UpcomingEvents(c, now, a.opts.EventCap*2)
				})
				if err != nil {
					degrade("live_events", err)
				}
				live = v
				return nil
			})
		}
		_ = g.Wait()
		bc.Events = mergeEvents(static, live, now, a.opts.Location, a.opts.EventCap)

	case domain.DomainParking:
		bc.Parking = a.static.Parking(ctx)
	case domain.DomainAttractions:
		bc.Attractions = a.static.Places(ctx, d)
	case domain.DomainHotels:
		bc.Hotels = a.static.Places(ctx, d)
	case domain.DomainLeisure:
		bc.Leisure = a.static.Places(ctx, d)
	case domain.DomainInfo:
		bc.Info = a.static.Places(ctx, d)
	}
}

// LoadMenu searches live menu items for the words of query. It returns nil
// on any failure.
func (a *Assembler) LoadMenu(ctx context.Context, query string) []domain.MenuItem {
	if a.live == nil {
		return nil
	}
	ctx, span := tracer.Start(ctx, "assembler.LoadMenu")
	defer span.End()

	items, err := fetch(ctx, a.opts.FetchTimeout, func(c context.Context) ([]domain.MenuItem, error) {
		return a.live.SearchMenu(c, MenuTerms(query), a.opts.MenuLimit)
	})
	if err != nil {
		a.logger.WarnContext(ctx, "menu lookup degraded", "error", err)
		return nil
	}
	return items
}

// MenuTerms extracts the searchable words of a query: folded words of at
// least four letters.
func MenuTerms(query string) []string {
	var terms []string
	seen := map[string]bool{}
	for _, w := range strings.Fields(textnorm.Key(query)) {
		if utf8.RuneCountInString(w) < 4 || seen[w] {
			continue
		}
		seen[w] = true
		terms = append(terms, w)
	}
	return terms
}

func (a *Assembler) document(ctx context.Context, name string) string {
	c, cancel := context.WithTimeout(ctx, a.opts.FetchTimeout)
	defer cancel()
	return a.static.Document(c, name)
}

// fetch runs fn under its own timeout. On error it returns the zero value.
func fetch[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	c, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	v, err := fn(c)
	if err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}
