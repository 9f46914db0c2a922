package models

import "time"

// NATS subjects for domain events
const (
	EventUserSignedUp   = "user.signed_up"
	EventTheatreCreated = "theatre.created"
	EventTheatreUpdated = "theatre.updated"
	EventTheatreDeleted = "theatre.deleted"
	EventShowCreated    = "show.created"
	EventShowUpdated    = "show.updated"
	EventShowDeleted    = "show.deleted"
)

// AllEventSubjects lists every subject the consumers service listens to.
var AllEventSubjects = []string{
	EventUserSignedUp,
	EventTheatreCreated,
	EventTheatreUpdated,
	EventTheatreDeleted,
	EventShowCreated,
	EventShowUpdated,
	EventShowDeleted,
}

// UserSignedUpEvent never carries credentials.
type UserSignedUpEvent struct {
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Timestamp time.Time `json:"timestamp"`
}

// TheatreEvent is published after a theatre is created, updated or deleted.
// Theatre is nil for deletions.
type TheatreEvent struct {
	TheatreID string    `json:"theatre_id"`
	Theatre   *Theatre  `json:"theatre,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ShowEvent is published after a show is created, updated or deleted.
type ShowEvent struct {
	ShowID    string    `json:"show_id"`
	Show      *Show     `json:"show,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
