package models

import (
	"encoding/json"
	"time"
)

// User represents an account. Usernames are not unique.
type User struct {
	ID           string    `json:"_id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Admin        bool      `json:"admin" db:"admin_status"`
	CreatedAt    time.Time `json:"-" db:"created_at"`
}

// Theatre is a venue that owns shows. Capacity is stored as text.
type Theatre struct {
	ID       string `json:"_id" db:"id"`
	Name     string `json:"name" db:"name"`
	Place    string `json:"place" db:"place"`
	Capacity string `json:"capacity" db:"capacity"`
}

// Show belongs to exactly one theatre.
type Show struct {
	ID          string  `json:"_id" db:"id"`
	Name        string  `json:"name" db:"name"`
	Rating      *string `json:"rating" db:"rating"`
	Tags        string  `json:"tags" db:"tags"`
	TicketPrice int     `json:"ticketPrice" db:"ticket_price"`
	TheatreID   string  `json:"theatre_id" db:"theatre_id"`
}

// ActivityRecord is one domain event persisted by the consumers service.
type ActivityRecord struct {
	ID         int64           `json:"id" db:"id"`
	Subject    string          `json:"subject" db:"subject"`
	EntityID   string          `json:"entity_id" db:"entity_id"`
	Payload    json.RawMessage `json:"payload" db:"payload"`
	OccurredAt time.Time       `json:"occurred_at" db:"occurred_at"`
	RecordedAt time.Time       `json:"recorded_at" db:"recorded_at"`
}

// ApplyPatch overwrites every field present in req. Empty strings count
// as absent.
func (t *Theatre) ApplyPatch(req *UpdateTheatreRequest) {
	if v := nonEmpty(req.Name); v != nil {
		t.Name = *v
	}
	if v := nonEmpty(req.Place); v != nil {
		t.Place = *v
	}
	if req.Capacity != nil && *req.Capacity != "" {
		t.Capacity = req.Capacity.String()
	}
}

// ApplyPatch overwrites every field present in req. Empty strings count
// as absent; a present ticketPrice is applied even when zero.
func (s *Show) ApplyPatch(req *UpdateShowRequest) {
	if v := nonEmpty(req.Name); v != nil {
		s.Name = *v
	}
	if v := nonEmpty(req.Rating); v != nil {
		rating := *v
		s.Rating = &rating
	}
	if v := nonEmpty(req.Tags); v != nil {
		s.Tags = *v
	}
	if req.TicketPrice != nil {
		s.TicketPrice = *req.TicketPrice
	}
	if v := nonEmpty(req.TheatreID); v != nil {
		s.TheatreID = *v
	}
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
