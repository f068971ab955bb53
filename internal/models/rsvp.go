package models

import "time"

// Rsvp is a guest's reply to an event.
type Rsvp struct {
	ID           int       `db:"id" json:"id"`
	EventID      int       `db:"event_id" json:"event_id"`
	GuestName    string    `db:"guest_name" json:"guest_name"`
	Message      string    `db:"message" json:"message"`
	Email        string    `db:"email" json:"email"`
	WantsUpdates bool      `db:"wants_updates" json:"wants_updates"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// DateSelection marks that a guest can attend a specific date option.
// Composite-keyed join row, no identity of its own.
type DateSelection struct {
	RsvpID       int `db:"rsvp_id" json:"rsvp_id"`
	DateOptionID int `db:"date_option_id" json:"date_option_id"`
}

// RsvpDetail is the API view of a reply with the option ids the guest picked.
type RsvpDetail struct {
	Rsvp
	DateOptionIDs []int `json:"date_option_ids"`
}
