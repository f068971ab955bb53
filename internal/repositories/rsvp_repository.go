package repositories

import (
	"context"
	"database/sql"
	"sort"

	"github.com/jmoiron/sqlx"

	"rsvp-service/internal/models"
)

// RsvpRepository abstracts guest replies and their date selections.
type RsvpRepository interface {
	CreateRsvp(ctx context.Context, rsvp models.Rsvp, dateOptionIDs []int) (models.RsvpDetail, error)
	ListRsvps(ctx context.Context, eventID int) ([]models.RsvpDetail, error)
	CountRsvps(ctx context.Context, eventID int) (int, error)
	ListSelections(ctx context.Context, eventID int) ([]models.DateSelection, error)
}

// RsvpRepo is a sqlx implementation of RsvpRepository.
type RsvpRepo struct {
	db *sqlx.DB
}

// NewRsvpRepo constructs an RsvpRepo.
func NewRsvpRepo(db *sqlx.DB) *RsvpRepo {
	return &RsvpRepo{db: db}
}

// CreateRsvp stores the reply and its date selections atomically. Every
// selected option must belong to the rsvp's event, otherwise the whole
// insert rolls back.
func (r *RsvpRepo) CreateRsvp(ctx context.Context, rsvp models.Rsvp, dateOptionIDs []int) (models.RsvpDetail, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.RsvpDetail{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var created models.Rsvp
	if err = tx.QueryRowxContext(ctx, `INSERT INTO rsvps (event_id, guest_name, message, email, wants_updates) VALUES ($1, $2, $3, $4, $5)
        RETURNING id, event_id, guest_name, message, email, wants_updates, created_at`,
		rsvp.EventID, rsvp.GuestName, rsvp.Message, rsvp.Email, rsvp.WantsUpdates).
		StructScan(&created); err != nil {
		return models.RsvpDetail{}, err
	}

	// dedupe selected options
	optionSet := map[int]struct{}{}
	for _, id := range dateOptionIDs {
		optionSet[id] = struct{}{}
	}
	ids := make([]int, 0, len(optionSet))
	for id := range optionSet {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	for _, optionID := range ids {
		var res sql.Result
		if res, err = tx.ExecContext(ctx, `INSERT INTO date_selections (rsvp_id, date_option_id)
            SELECT $1, id FROM date_options WHERE id=$2 AND event_id=$3`, created.ID, optionID, created.EventID); err != nil {
			return models.RsvpDetail{}, err
		}
		var count int64
		if count, err = res.RowsAffected(); err != nil {
			return models.RsvpDetail{}, err
		}
		if count == 0 {
			err = ErrDateOptionNotFound
			return models.RsvpDetail{}, err
		}
	}

	if err = tx.Commit(); err != nil {
		return models.RsvpDetail{}, err
	}
	return models.RsvpDetail{Rsvp: created, DateOptionIDs: ids}, nil
}

// ListRsvps returns the event's replies newest first, each with the option
// ids the guest picked.
func (r *RsvpRepo) ListRsvps(ctx context.Context, eventID int) ([]models.RsvpDetail, error) {
	var rsvps []models.Rsvp
	err := r.db.SelectContext(ctx, &rsvps, `SELECT id, event_id, guest_name, message, email, wants_updates, created_at FROM rsvps WHERE event_id=$1 ORDER BY created_at DESC, id DESC`, eventID)
	if err != nil {
		return nil, err
	}

	selections, err := r.ListSelections(ctx, eventID)
	if err != nil {
		return nil, err
	}
	optionsByRsvp := map[int][]int{}
	for _, sel := range selections {
		optionsByRsvp[sel.RsvpID] = append(optionsByRsvp[sel.RsvpID], sel.DateOptionID)
	}

	result := make([]models.RsvpDetail, 0, len(rsvps))
	for _, rsvp := range rsvps {
		ids := optionsByRsvp[rsvp.ID]
		if ids == nil {
			ids = []int{}
		}
		result = append(result, models.RsvpDetail{Rsvp: rsvp, DateOptionIDs: ids})
	}
	return result, nil
}

// CountRsvps returns the number of replies for an event.
func (r *RsvpRepo) CountRsvps(ctx context.Context, eventID int) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM rsvps WHERE event_id=$1`, eventID)
	return count, err
}

// ListSelections returns every date selection across the event's rsvps.
func (r *RsvpRepo) ListSelections(ctx context.Context, eventID int) ([]models.DateSelection, error) {
	var selections []models.DateSelection
	err := r.db.SelectContext(ctx, &selections, `SELECT ds.rsvp_id, ds.date_option_id FROM date_selections ds
        INNER JOIN rsvps r ON r.id = ds.rsvp_id WHERE r.event_id=$1 ORDER BY ds.rsvp_id ASC, ds.date_option_id ASC`, eventID)
	return selections, err
}
