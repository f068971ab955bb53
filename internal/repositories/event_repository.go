package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"rsvp-service/internal/models"
)

var (
	ErrEventNotFound      = errors.New("event not found")
	ErrDateOptionNotFound = errors.New("date option not found")
)

// EventRepository abstracts event and date-option persistence.
type EventRepository interface {
	CreateEvent(ctx context.Context, event models.Event) (models.Event, error)
	GetEvent(ctx context.Context, eventID int) (models.Event, error)
	UpdateEvent(ctx context.Context, event models.Event) (models.Event, error)
	SetFinalDate(ctx context.Context, eventID int, dateOptionID int) error
	CreateDateOption(ctx context.Context, option models.DateOption) (models.DateOption, error)
	GetDateOption(ctx context.Context, optionID int) (models.DateOption, error)
	ListDateOptions(ctx context.Context, eventID int) ([]models.DateOption, error)
	DeleteDateOption(ctx context.Context, eventID int, optionID int) error
}

// EventRepo is a sqlx implementation of EventRepository.
type EventRepo struct {
	db *sqlx.DB
}

// NewEventRepo constructs an EventRepo.
func NewEventRepo(db *sqlx.DB) *EventRepo {
	return &EventRepo{db: db}
}

// CreateEvent persists a new event.
func (r *EventRepo) CreateEvent(ctx context.Context, event models.Event) (models.Event, error) {
	var created models.Event
	err := r.db.QueryRowxContext(ctx, `INSERT INTO events (title, description, image_url, location, location_note) VALUES ($1, $2, $3, $4, $5)
        RETURNING id, title, description, image_url, location, location_note, final_date_option_id, created_at`,
		event.Title, event.Description, event.ImageURL, event.Location, event.LocationNote).
		StructScan(&created)
	return created, err
}

// GetEvent fetches an event by id.
func (r *EventRepo) GetEvent(ctx context.Context, eventID int) (models.Event, error) {
	var event models.Event
	err := r.db.GetContext(ctx, &event, `SELECT id, title, description, image_url, location, location_note, final_date_option_id, created_at FROM events WHERE id=$1`, eventID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Event{}, ErrEventNotFound
	}
	return event, err
}

// UpdateEvent overwrites the event's editable fields (last write wins).
func (r *EventRepo) UpdateEvent(ctx context.Context, event models.Event) (models.Event, error) {
	var updated models.Event
	err := r.db.QueryRowxContext(ctx, `UPDATE events SET title=$2, description=$3, image_url=$4, location=$5, location_note=$6 WHERE id=$1
        RETURNING id, title, description, image_url, location, location_note, final_date_option_id, created_at`,
		event.ID, event.Title, event.Description, event.ImageURL, event.Location, event.LocationNote).
		StructScan(&updated)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Event{}, ErrEventNotFound
	}
	return updated, err
}

// SetFinalDate locks in the chosen date option. The option must belong to
// the event; cross-event references leave the row untouched.
func (r *EventRepo) SetFinalDate(ctx context.Context, eventID int, dateOptionID int) error {
	res, err := r.db.ExecContext(ctx, `UPDATE events SET final_date_option_id=$2 WHERE id=$1
        AND EXISTS (SELECT 1 FROM date_options WHERE id=$2 AND event_id=$1)`, eventID, dateOptionID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrDateOptionNotFound
	}
	return nil
}

// CreateDateOption adds a candidate date to an event.
func (r *EventRepo) CreateDateOption(ctx context.Context, option models.DateOption) (models.DateOption, error) {
	var created models.DateOption
	err := r.db.QueryRowxContext(ctx, `INSERT INTO date_options (event_id, date, time) VALUES ($1, $2, $3) RETURNING id, event_id, date, time`,
		option.EventID, option.Date, option.Time).
		StructScan(&created)
	return created, err
}

// GetDateOption fetches a single date option.
func (r *EventRepo) GetDateOption(ctx context.Context, optionID int) (models.DateOption, error) {
	var option models.DateOption
	err := r.db.GetContext(ctx, &option, `SELECT id, event_id, date, time FROM date_options WHERE id=$1`, optionID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DateOption{}, ErrDateOptionNotFound
	}
	return option, err
}

// ListDateOptions returns the event's candidate dates in creation order.
func (r *EventRepo) ListDateOptions(ctx context.Context, eventID int) ([]models.DateOption, error) {
	var options []models.DateOption
	err := r.db.SelectContext(ctx, &options, `SELECT id, event_id, date, time FROM date_options WHERE event_id=$1 ORDER BY id ASC`, eventID)
	return options, err
}

// DeleteDateOption removes a date option; its selections cascade. An event
// whose final date pointed at the option loses that choice.
func (r *EventRepo) DeleteDateOption(ctx context.Context, eventID int, optionID int) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var res sql.Result
	if res, err = tx.ExecContext(ctx, `DELETE FROM date_options WHERE id=$1 AND event_id=$2`, optionID, eventID); err != nil {
		return err
	}
	var count int64
	if count, err = res.RowsAffected(); err != nil {
		return err
	}
	if count == 0 {
		err = ErrDateOptionNotFound
		return err
	}

	if _, err = tx.ExecContext(ctx, `UPDATE events SET final_date_option_id=NULL WHERE id=$1 AND final_date_option_id=$2`, eventID, optionID); err != nil {
		return err
	}

	return tx.Commit()
}
