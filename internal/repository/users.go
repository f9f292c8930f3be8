package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/alexanderramin/cityguide/internal/db"
	"github.com/alexanderramin/cityguide/internal/domain"
)

// UserRepo reads and writes per-user records.
type UserRepo struct {
	conn
}

func NewUserRepo(tx db.DBTX, dialect db.Dialect) *UserRepo {
	return &UserRepo{conn{db: tx, dialect: dialect}}
}

func (r *UserRepo) GetUser(ctx context.Context, id string) (*domain.UserProfile, error) {
	row := r.db.QueryRowContext(ctx, r.q(`SELECT id, display_name, language, home_city FROM users WHERE id = ?`), id)
	var p domain.UserProfile
	if err := row.Scan(&p.ID, &p.DisplayName, &p.Language, &p.HomeCity); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning user: %w", err)
	}
	return &p, nil
}

// Profile returns nil without error for an unknown user.
func (r *UserRepo) Profile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	p, err := r.GetUser(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return p, err
}

func (r *UserRepo) UpsertUser(ctx context.Context, p domain.UserProfile) error {
	lang := p.Language
	if lang == "" {
		lang = "hu"
	}
	query := `INSERT INTO users (id, display_name, language, home_city, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			display_name = excluded.display_name,
			language = excluded.language,
			home_city = excluded.home_city`
	if _, err := r.db.ExecContext(ctx, r.q(query), p.ID, p.DisplayName, lang, p.HomeCity, nowUTC()); err != nil {
		return fmt.Errorf("upserting user: %w", err)
	}
	return nil
}

// Vehicles lists a user's vehicles, default first.
func (r *UserRepo) Vehicles(ctx context.Context, userID string) ([]domain.Vehicle, error) {
	query := `SELECT id, user_id, license_plate, nickname, carrier, is_default
		FROM vehicles WHERE user_id = ? ORDER BY is_default DESC, license_plate`
	rows, err := r.db.QueryContext(ctx, r.q(query), userID)
	if err != nil {
		return nil, fmt.Errorf("listing vehicles: %w", err)
	}
	defer rows.Close()

	var out []domain.Vehicle
	for rows.Next() {
		var v domain.Vehicle
		var isDefault int
		if err := rows.Scan(&v.ID, &v.UserID, &v.LicensePlate, &v.Nickname, &v.Carrier, &isDefault); err != nil {
			return nil, fmt.Errorf("scanning vehicle: %w", err)
		}
		v.IsDefault = intToBool(isDefault)
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *UserRepo) UpsertVehicle(ctx context.Context, v domain.Vehicle) error {
	query := `INSERT INTO vehicles (id, user_id, license_plate, nickname, carrier, is_default)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, license_plate) DO UPDATE SET
			nickname = excluded.nickname,
			carrier = excluded.carrier,
			is_default = excluded.is_default`
	_, err := r.db.ExecContext(ctx, r.q(query), v.ID, v.UserID, v.LicensePlate, v.Nickname, v.Carrier, boolToInt(v.IsDefault))
	if err != nil {
		return fmt.Errorf("upserting vehicle: %w", err)
	}
	return nil
}

// Personalization returns nil without error when none is stored.
func (r *UserRepo) Personalization(ctx context.Context, userID string) (*domain.PersonalizationProfile, error) {
	row := r.db.QueryRowContext(ctx, r.q(`SELECT interests, traits FROM personalization WHERE user_id = ?`), userID)
	var interests, traits string
	if err := row.Scan(&interests, &traits); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scanning personalization: %w", err)
	}
	p := &domain.PersonalizationProfile{UserID: userID}
	if err := json.Unmarshal([]byte(interests), &p.Interests); err != nil {
		return nil, fmt.Errorf("decoding interests: %w", err)
	}
	if err := json.Unmarshal([]byte(traits), &p.Traits); err != nil {
		return nil, fmt.Errorf("decoding traits: %w", err)
	}
	return p, nil
}

func (r *UserRepo) UpsertPersonalization(ctx context.Context, p domain.PersonalizationProfile) error {
	interests := p.Interests
	if interests == nil {
		interests = map[string]int{}
	}
	traits := p.Traits
	if traits == nil {
		traits = []string{}
	}
	ib, err := json.Marshal(interests)
	if err != nil {
		return fmt.Errorf("encoding interests: %w", err)
	}
	tb, err := json.Marshal(traits)
	if err != nil {
		return fmt.Errorf("encoding traits: %w", err)
	}
	query := `INSERT INTO personalization (user_id, interests, traits, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			interests = excluded.interests,
			traits = excluded.traits,
			updated_at = excluded.updated_at`
	if _, err := r.db.ExecContext(ctx, r.q(query), p.UserID, string(ib), string(tb), nowUTC()); err != nil {
		return fmt.Errorf("upserting personalization: %w", err)
	}
	return nil
}

// RecentInteractions returns the user's latest interactions, newest first.
func (r *UserRepo) RecentInteractions(ctx context.Context, userID string, limit int) ([]domain.Interaction, error) {
	query := `SELECT id, user_id, query, intent, response_text, action_type, confidence, created_at
		FROM interactions WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, r.q(query), userID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing interactions: %w", err)
	}
	defer rows.Close()

	var out []domain.Interaction
	for rows.Next() {
		var in domain.Interaction
		var created string
		if err := rows.Scan(&in.ID, &in.UserID, &in.Query, &in.Intent, &in.ResponseText, &in.ActionType, &in.Confidence, &created); err != nil {
			return nil, fmt.Errorf("scanning interaction: %w", err)
		}
		in.CreatedAt = parseTime(created)
		out = append(out, in)
	}
	return out, rows.Err()
}
