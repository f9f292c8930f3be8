package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/cityguide/internal/db"
	"github.com/alexanderramin/cityguide/internal/domain"
	"github.com/redis/go-redis/v9"
)

// SQLBehaviorStore keeps behavior profiles in the relational backend.
type SQLBehaviorStore struct {
	conn
}

func NewSQLBehaviorStore(tx db.DBTX, dialect db.Dialect) *SQLBehaviorStore {
	return &SQLBehaviorStore{conn{db: tx, dialect: dialect}}
}

func (s *SQLBehaviorStore) LoadBehavior(ctx context.Context, sessionID string) (domain.BehaviorProfile, error) {
	row := s.db.QueryRowContext(ctx, s.q(`SELECT profile FROM behavior_profiles WHERE session_id = ?`), sessionID)
	var raw string
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.BehaviorProfile{}, nil
		}
		return domain.BehaviorProfile{}, fmt.Errorf("loading behavior profile: %w", err)
	}
	return decodeBehavior([]byte(raw))
}

func (s *SQLBehaviorStore) SaveBehavior(ctx context.Context, sessionID string, p domain.BehaviorProfile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding behavior profile: %w", err)
	}
	query := `INSERT INTO behavior_profiles (session_id, profile, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			profile = excluded.profile,
			updated_at = excluded.updated_at`
	if _, err := s.db.ExecContext(ctx, s.q(query), sessionID, string(data), nowUTC()); err != nil {
		return fmt.Errorf("saving behavior profile: %w", err)
	}
	return nil
}

func decodeBehavior(data []byte) (domain.BehaviorProfile, error) {
	var p domain.BehaviorProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return domain.BehaviorProfile{}, fmt.Errorf("decoding behavior profile: %w", err)
	}
	return p.Clone(), nil
}

// RedisBehaviorStore shares behavior profiles across processes. Profiles
// expire after TTL without activity.
type RedisBehaviorStore struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
}

func NewRedisBehaviorStore(client redis.Cmdable, prefix string, ttl time.Duration) *RedisBehaviorStore {
	if prefix == "" {
		prefix = "cityguide:behavior:"
	}
	return &RedisBehaviorStore{client: client, prefix: prefix, ttl: ttl}
}

// NewRedisClient opens a client for addr.
func NewRedisClient(addr, password string, dbIndex int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       dbIndex,
	})
}

func (s *RedisBehaviorStore) key(sessionID string) string {
	return s.prefix + sessionID
}

func (s *RedisBehaviorStore) LoadBehavior(ctx context.Context, sessionID string) (domain.BehaviorProfile, error) {
	data, err := s.client.Get(ctx, s.key(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.BehaviorProfile{}, nil
		}
		return domain.BehaviorProfile{}, fmt.Errorf("redis get behavior: %w", err)
	}
	return decodeBehavior(data)
}

func (s *RedisBehaviorStore) SaveBehavior(ctx context.Context, sessionID string, p domain.BehaviorProfile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding behavior profile: %w", err)
	}
	if err := s.client.Set(ctx, s.key(sessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set behavior: %w", err)
	}
	return nil
}
