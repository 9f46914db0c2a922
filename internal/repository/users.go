package repository

import (
	"context"

	"bookit/internal/database"
	"bookit/internal/models"
)

type UserRepository struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create assigns a new ID and inserts the user. The caller hashes the password.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	user.ID = NewID()
	query := `
		INSERT INTO users (id, username, password_hash, admin_status)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		user.ID,
		user.Username,
		user.PasswordHash,
		user.Admin,
	).Scan(&user.CreatedAt)

	return translate(err, "create user")
}

// GetByUsername returns the oldest user with this username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, username, password_hash, admin_status, created_at
		FROM users
		WHERE username = $1
		ORDER BY created_at ASC, id ASC
		LIMIT 1`

	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.Admin,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, translate(err, "get user by username")
	}

	return user, nil
}
