package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/cityguide/internal/db"
	"github.com/alexanderramin/cityguide/internal/domain"
)

// InteractionRepo appends to the interaction log.
type InteractionRepo struct {
	conn
}

func NewInteractionRepo(tx db.DBTX, dialect db.Dialect) *InteractionRepo {
	return &InteractionRepo{conn{db: tx, dialect: dialect}}
}

func (r *InteractionRepo) WriteInteraction(ctx context.Context, in domain.Interaction) error {
	query := `INSERT INTO interactions (id, user_id, query, intent, response_text, action_type, confidence, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, r.q(query),
		in.ID,
		in.UserID,
		in.Query,
		in.Intent,
		in.ResponseText,
		in.ActionType,
		in.Confidence,
		formatTime(in.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting interaction: %w", err)
	}
	return nil
}
