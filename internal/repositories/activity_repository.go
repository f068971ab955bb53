package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"rsvp-service/internal/models"
)

var ErrActivityNotFound = errors.New("activity not found")

// ActivityRepository abstracts feed post persistence.
type ActivityRepository interface {
	CreateActivity(ctx context.Context, activity models.Activity) (models.Activity, error)
	GetActivity(ctx context.Context, activityID int) (models.Activity, error)
	ListActivities(ctx context.Context, eventID int) ([]models.Activity, error)
	DeleteActivity(ctx context.Context, activityID int) ([]int, error)
}

// ActivityRepo is a sqlx implementation of ActivityRepository.
type ActivityRepo struct {
	db *sqlx.DB
}

// NewActivityRepo constructs an ActivityRepo.
func NewActivityRepo(db *sqlx.DB) *ActivityRepo {
	return &ActivityRepo{db: db}
}

// CreateActivity persists a post or reply.
func (r *ActivityRepo) CreateActivity(ctx context.Context, activity models.Activity) (models.Activity, error) {
	var created models.Activity
	err := r.db.QueryRowxContext(ctx, `INSERT INTO activities (event_id, author, message, parent_id) VALUES ($1, $2, $3, $4)
        RETURNING id, event_id, author, message, parent_id, created_at`,
		activity.EventID, activity.Author, activity.Message, activity.ParentID).
		StructScan(&created)
	return created, err
}

// GetActivity fetches a single post.
func (r *ActivityRepo) GetActivity(ctx context.Context, activityID int) (models.Activity, error) {
	var activity models.Activity
	err := r.db.GetContext(ctx, &activity, `SELECT id, event_id, author, message, parent_id, created_at FROM activities WHERE id=$1`, activityID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Activity{}, ErrActivityNotFound
	}
	return activity, err
}

// ListActivities returns the event's posts newest first.
func (r *ActivityRepo) ListActivities(ctx context.Context, eventID int) ([]models.Activity, error) {
	var activities []models.Activity
	err := r.db.SelectContext(ctx, &activities, `SELECT id, event_id, author, message, parent_id, created_at FROM activities WHERE event_id=$1 ORDER BY created_at DESC, id DESC`, eventID)
	return activities, err
}

// DeleteActivity removes a post with its whole reply subtree and returns
// the deleted ids. Reactions on the removed rows cascade at the schema
// level.
func (r *ActivityRepo) DeleteActivity(ctx context.Context, activityID int) ([]int, error) {
	query := `WITH RECURSIVE subtree AS (
            SELECT id FROM activities WHERE id=$1
            UNION ALL
            SELECT a.id FROM activities a INNER JOIN subtree s ON a.parent_id = s.id
        )
        DELETE FROM activities WHERE id IN (SELECT id FROM subtree) RETURNING id`

	rows, err := r.db.QueryxContext(ctx, query, activityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deleted []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		deleted = append(deleted, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(deleted) == 0 {
		return nil, ErrActivityNotFound
	}
	return deleted, nil
}
