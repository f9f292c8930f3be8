package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/cityguide/internal/db"
	"github.com/alexanderramin/cityguide/internal/domain"
	"github.com/alexanderramin/cityguide/internal/textnorm"
)

// LiveRepo holds the frequently changing datasets: events, restaurants and
// their menus.
type LiveRepo struct {
	conn
}

func NewLiveRepo(tx db.DBTX, dialect db.Dialect) *LiveRepo {
	return &LiveRepo{conn{db: tx, dialect: dialect}}
}

const eventColumns = `id, title, description, venue, category, starts_at, ends_at, all_day`

// UpcomingEvents lists events that have not ended by from, earliest first.
// Events without an end are kept when they started at most a day earlier;
// the caller applies the precise end rule.
func (r *LiveRepo) UpcomingEvents(ctx context.Context, from time.Time, limit int) ([]domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events
		WHERE (ends_at IS NOT NULL AND ends_at > ?)
		   OR (ends_at IS NULL AND starts_at > ?)
		ORDER BY starts_at, id LIMIT ?`
	rows, err := r.db.QueryContext(ctx, r.q(query), formatTime(from), formatTime(from.Add(-24*time.Hour)), limit)
	if err != nil {
		return nil, fmt.Errorf("listing upcoming events: %w", err)
	}
	defer rows.Close()

	var out []domain.Event
	for rows.Next() {
		var e domain.Event
		var starts string
		var ends sql.NullString
		var allDay int
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.Venue, &e.Category, &starts, &ends, &allDay); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		e.StartsAt = parseTime(starts)
		e.EndsAt = parseNullableTime(ends, time.RFC3339)
		e.AllDay = intToBool(allDay)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *LiveRepo) UpsertEvent(ctx context.Context, e domain.Event) error {
	query := `INSERT INTO events (` + eventColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			venue = excluded.venue,
			category = excluded.category,
			starts_at = excluded.starts_at,
			ends_at = excluded.ends_at,
			all_day = excluded.all_day`
	_, err := r.db.ExecContext(ctx, r.q(query),
		e.ID, e.Title, e.Description, e.Venue, e.Category,
		formatTime(e.StartsAt), nullableTimeToString(e.EndsAt), boolToInt(e.AllDay),
	)
	if err != nil {
		return fmt.Errorf("upserting event: %w", err)
	}
	return nil
}

const restaurantColumns = `id, name, cuisine, address, phone, tier, promoted, delivery, lat, lng`

// ListRestaurants lists restaurants by paid tier, then name.
func (r *LiveRepo) ListRestaurants(ctx context.Context, limit int) ([]domain.Restaurant, error) {
	query := `SELECT ` + restaurantColumns + ` FROM restaurants
		ORDER BY CASE tier WHEN 'gold' THEN 0 WHEN 'silver' THEN 1 ELSE 2 END, name LIMIT ?`
	rows, err := r.db.QueryContext(ctx, r.q(query), limit)
	if err != nil {
		return nil, fmt.Errorf("listing restaurants: %w", err)
	}
	defer rows.Close()

	var out []domain.Restaurant
	for rows.Next() {
		var x domain.Restaurant
		var tier string
		var promoted, delivery int
		if err := rows.Scan(&x.ID, &x.Name, &x.Cuisine, &x.Address, &x.Phone, &tier, &promoted, &delivery, &x.Lat, &x.Lng); err != nil {
			return nil, fmt.Errorf("scanning restaurant: %w", err)
		}
		x.Tier = domain.Tier(tier)
		x.Promoted = intToBool(promoted)
		x.Delivery = intToBool(delivery)
		out = append(out, x)
	}
	return out, rows.Err()
}

func (r *LiveRepo) UpsertRestaurant(ctx context.Context, x domain.Restaurant) error {
	tier := x.Tier
	if tier == "" {
		tier = domain.TierStandard
	}
	query := `INSERT INTO restaurants (` + restaurantColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			cuisine = excluded.cuisine,
			address = excluded.address,
			phone = excluded.phone,
			tier = excluded.tier,
			promoted = excluded.promoted,
			delivery = excluded.delivery,
			lat = excluded.lat,
			lng = excluded.lng`
	_, err := r.db.ExecContext(ctx, r.q(query),
		x.ID, x.Name, x.Cuisine, x.Address, x.Phone, string(tier),
		boolToInt(x.Promoted), boolToInt(x.Delivery), x.Lat, x.Lng,
	)
	if err != nil {
		return fmt.Errorf("upserting restaurant: %w", err)
	}
	return nil
}

func (r *LiveRepo) UpsertMenuItem(ctx context.Context, m domain.MenuItem) error {
	query := `INSERT INTO menu_items (id, restaurant_id, name, name_key, price_huf, available)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			restaurant_id = excluded.restaurant_id,
			name = excluded.name,
			name_key = excluded.name_key,
			price_huf = excluded.price_huf,
			available = excluded.available`
	_, err := r.db.ExecContext(ctx, r.q(query),
		m.ID, m.RestaurantID, m.Name, textnorm.Key(m.Name), m.PriceHUF, boolToInt(m.Available),
	)
	if err != nil {
		return fmt.Errorf("upserting menu item: %w", err)
	}
	return nil
}

// SearchMenu returns available items whose folded name contains any of the
// terms. With no terms or no match it falls back to the cheapest available
// items.
func (r *LiveRepo) SearchMenu(ctx context.Context, terms []string, limit int) ([]domain.MenuItem, error) {
	if len(terms) > 0 {
		conds := make([]string, len(terms))
		args := make([]any, 0, len(terms)+1)
		for i, t := range terms {
			conds[i] = `name_key LIKE ?`
			args = append(args, "%"+textnorm.Key(t)+"%")
		}
		args = append(args, limit)
		query := `SELECT id, restaurant_id, name, price_huf, available FROM menu_items
			WHERE available = 1 AND (` + strings.Join(conds, " OR ") + `)
			ORDER BY price_huf, id LIMIT ?`
		items, err := r.menuQuery(ctx, query, args...)
		if err != nil || len(items) > 0 {
			return items, err
		}
	}
	query := `SELECT id, restaurant_id, name, price_huf, available FROM menu_items
		WHERE available = 1 ORDER BY price_huf, id LIMIT ?`
	return r.menuQuery(ctx, query, limit)
}

func (r *LiveRepo) menuQuery(ctx context.Context, query string, args ...any) ([]domain.MenuItem, error) {
	rows, err := r.db.QueryContext(ctx, r.q(query), args...)
	if err != nil {
		return nil, fmt.Errorf("searching menu: %w", err)
	}
	defer rows.Close()

	var out []domain.MenuItem
	for rows.Next() {
		var m domain.MenuItem
		var available int
		if err := rows.Scan(&m.ID, &m.RestaurantID, &m.Name, &m.PriceHUF, &available); err != nil {
			return nil, fmt.Errorf("scanning menu item: %w", err)
		}
		m.Available = intToBool(available)
		out = append(out, m)
	}
	return out, rows.Err()
}
