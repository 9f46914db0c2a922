package repository

import (
	"strings"

	"bookit/internal/database"

	"github.com/google/uuid"
)

type Repositories struct {
	Users    *UserRepository
	Theatres *TheatreRepository
	Shows    *ShowRepository
	Activity *ActivityRepository
}

func NewRepositories(db *database.DB) *Repositories {
	return &Repositories{
		Users:    NewUserRepository(db),
		Theatres: NewTheatreRepository(db),
		Shows:    NewShowRepository(db),
		Activity: NewActivityRepository(db),
	}
}

// maxIDLen matches the VARCHAR(50) id columns.
const maxIDLen = 50

// NewID returns an opaque 32-character hex identifier.
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
