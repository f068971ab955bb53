package models

import "time"

// Activity is a post or reply in the event's public feed. ParentID forms a
// tree inside a single event: nil for top-level posts, otherwise the id of
// another activity of the same event.
type Activity struct {
	ID        int       `db:"id" json:"id"`
	EventID   int       `db:"event_id" json:"event_id"`
	Author    string    `db:"author" json:"author"`
	Message   string    `db:"message" json:"message"`
	ParentID  *int      `db:"parent_id" json:"parent_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Reaction is an emoji response attached to one activity. The same author
// may react multiple times with the same emoji; each row counts.
type Reaction struct {
	ID         int    `db:"id" json:"id"`
	ActivityID int    `db:"activity_id" json:"activity_id"`
	Author     string `db:"author" json:"author"`
	Emoji      string `db:"emoji" json:"emoji"`
}

// ReactionSummary aggregates reactions on one activity by emoji.
type ReactionSummary struct {
	Emoji string `json:"emoji"`
	Count int    `json:"count"`
}

// ActivityNode is an activity with its direct replies expanded recursively
// and its reactions grouped by emoji.
type ActivityNode struct {
	Activity
	Replies   []ActivityNode    `json:"replies"`
	Reactions []ReactionSummary `json:"reactions"`
}
