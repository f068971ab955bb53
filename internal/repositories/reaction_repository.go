package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"rsvp-service/internal/models"
)

var ErrReactionNotFound = errors.New("reaction not found")

// ReactionRepository abstracts emoji reaction persistence.
type ReactionRepository interface {
	CreateReaction(ctx context.Context, reaction models.Reaction) (models.Reaction, error)
	GetReaction(ctx context.Context, reactionID int) (models.Reaction, error)
	ListReactionsForEvent(ctx context.Context, eventID int) ([]models.Reaction, error)
	DeleteReaction(ctx context.Context, activityID int, reactionID int) error
}

// ReactionRepo is a sqlx implementation of ReactionRepository.
type ReactionRepo struct {
	db *sqlx.DB
}

// NewReactionRepo constructs a ReactionRepo.
func NewReactionRepo(db *sqlx.DB) *ReactionRepo {
	return &ReactionRepo{db: db}
}

// CreateReaction stores one reaction. Repeat reactions from the same
// author with the same emoji are allowed; each counts separately.
func (r *ReactionRepo) CreateReaction(ctx context.Context, reaction models.Reaction) (models.Reaction, error) {
	var created models.Reaction
	err := r.db.QueryRowxContext(ctx, `INSERT INTO reactions (activity_id, author, emoji) VALUES ($1, $2, $3) RETURNING id, activity_id, author, emoji`,
		reaction.ActivityID, reaction.Author, reaction.Emoji).
		StructScan(&created)
	return created, err
}

// GetReaction fetches a single reaction.
func (r *ReactionRepo) GetReaction(ctx context.Context, reactionID int) (models.Reaction, error) {
	var reaction models.Reaction
	err := r.db.GetContext(ctx, &reaction, `SELECT id, activity_id, author, emoji FROM reactions WHERE id=$1`, reactionID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Reaction{}, ErrReactionNotFound
	}
	return reaction, err
}

// ListReactionsForEvent returns every reaction attached to the event's
// activities, in insertion order.
func (r *ReactionRepo) ListReactionsForEvent(ctx context.Context, eventID int) ([]models.Reaction, error) {
	var reactions []models.Reaction
	err := r.db.SelectContext(ctx, &reactions, `SELECT re.id, re.activity_id, re.author, re.emoji FROM reactions re
        INNER JOIN activities a ON a.id = re.activity_id WHERE a.event_id=$1 ORDER BY re.id ASC`, eventID)
	return reactions, err
}

// DeleteReaction removes one reaction from an activity.
func (r *ReactionRepo) DeleteReaction(ctx context.Context, activityID int, reactionID int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reactions WHERE id=$1 AND activity_id=$2`, reactionID, activityID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrReactionNotFound
	}
	return nil
}
