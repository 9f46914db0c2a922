package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FlexibleString accepts either a JSON string or a JSON number and keeps
// the textual form, so {"capacity": 200} and {"capacity": "200"} are equal.
type FlexibleString string

// UnmarshalJSON поддерживает строки и числа
func (fs *FlexibleString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*fs = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*fs = FlexibleString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid text value: %s", data)
	}
	*fs = FlexibleString(n.String())
	return nil
}

func (fs FlexibleString) String() string {
	return string(fs)
}

// CredentialsRequest - тело signup и login
type CredentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthUser carries the token pair; the password is never echoed back.
type AuthUser struct {
	Access   string `json:"access"`
	Refresh  string `json:"refresh"`
	Username string `json:"username"`
}

// AuthResponse - ответ signup и login
type AuthResponse struct {
	User AuthUser `json:"user"`
}

// CreateTheatreRequest - модель для создания театра. Поля _id нет,
// поэтому клиентский _id игнорируется.
type CreateTheatreRequest struct {
	Name     string         `json:"name" binding:"required"`
	Place    string         `json:"place" binding:"required"`
	Capacity FlexibleString `json:"capacity" binding:"required"`
}

// UpdateTheatreRequest - частичное обновление театра
type UpdateTheatreRequest struct {
	Name     *string         `json:"name"`
	Place    *string         `json:"place"`
	Capacity *FlexibleString `json:"capacity"`
}

// CreateShowRequest - модель для создания шоу. theatre_id берется из пути.
type CreateShowRequest struct {
	Name        string  `json:"name" binding:"required"`
	Rating      *string `json:"rating"`
	Tags        string  `json:"tags" binding:"required"`
	TicketPrice *int    `json:"ticketPrice" binding:"required"`
}

// UpdateShowRequest - частичное обновление шоу
type UpdateShowRequest struct {
	Name        *string `json:"name"`
	Rating      *string `json:"rating"`
	Tags        *string `json:"tags"`
	TicketPrice *int    `json:"ticketPrice"`
	TheatreID   *string `json:"theatre_id"`
}

// DeleteRequest identifies the record to delete by its _id.
type DeleteRequest struct {
	ID string `json:"_id" binding:"required"`
}

// DeleteResponse is returned whether or not a row matched.
type DeleteResponse struct {
	Error bool `json:"error"`
}

// DataResponse wraps collections and freshly created records.
type DataResponse[T any] struct {
	Data []T `json:"data"`
}
