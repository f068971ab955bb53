package models

import "time"

// Event is a gathering a host proposes with one or more candidate dates.
type Event struct {
	ID                int       `db:"id" json:"id"`
	Title             string    `db:"title" json:"title"`
	Description       string    `db:"description" json:"description"`
	ImageURL          string    `db:"image_url" json:"image_url"`
	Location          string    `db:"location" json:"location"`
	LocationNote      string    `db:"location_note" json:"location_note"`
	FinalDateOptionID *int      `db:"final_date_option_id" json:"final_date_option_id"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
}

// DateOption is a candidate date/time slot for an event.
type DateOption struct {
	ID      int    `db:"id" json:"id"`
	EventID int    `db:"event_id" json:"event_id"`
	Date    string `db:"date" json:"date"`
	Time    string `db:"time" json:"time"`
}

// DateOptionTally is a date option scored against the guests' selections.
type DateOptionTally struct {
	DateOption
	Votes      int     `json:"votes"`
	Percentage float64 `json:"percentage"`
}

// EventDetail is the API view of an event with its scored date options.
type EventDetail struct {
	Event       Event             `json:"event"`
	DateOptions []DateOptionTally `json:"date_options"`
	RsvpCount   int               `json:"rsvp_count"`
}

// UpdateNotice is broadcast through websockets after each mutation.
type UpdateNotice struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// Notice types fanned out to event subscribers.
const (
	NoticeEventUpdated      = "event_updated"
	NoticeDateOptionCreated = "date_option_created"
	NoticeDateOptionDeleted = "date_option_deleted"
	NoticeRsvpCreated       = "rsvp_created"
	NoticeActivityCreated   = "activity_created"
	NoticeActivityDeleted   = "activity_deleted"
	NoticeReactionAdded     = "reaction_added"
	NoticeReactionRemoved   = "reaction_removed"
)
