package repository

import (
	"context"
	"database/sql"
	"fmt"

	"bookit/internal/database"
	apperrors "bookit/internal/errors"
	"bookit/internal/models"
)

type ShowRepository struct {
	db *database.DB
}

func NewShowRepository(db *database.DB) *ShowRepository {
	return &ShowRepository{db: db}
}

const showColumns = `id, name, rating, tags, ticket_price, theatre_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanShow(row rowScanner) (models.Show, error) {
	var (
		s      models.Show
		rating sql.NullString
	)
	err := row.Scan(&s.ID, &s.Name, &rating, &s.Tags, &s.TicketPrice, &s.TheatreID)
	if rating.Valid {
		s.Rating = &rating.String
	}
	return s, err
}

// Create assigns a fresh ID. An unknown theatre_id yields ErrConflict.
func (r *ShowRepository) Create(ctx context.Context, show *models.Show) error {
	if err := checkTheatreRef(show.TheatreID, "create show"); err != nil {
		return err
	}
	show.ID = NewID()
	query := `
		INSERT INTO shows (` + showColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, query,
		show.ID,
		show.Name,
		show.Rating,
		show.Tags,
		show.TicketPrice,
		show.TheatreID,
	)

	return translate(err, "create show")
}

// checkTheatreRef reports ids longer than the id column as dangling
// references.
func checkTheatreRef(theatreID, op string) error {
	if len(theatreID) > maxIDLen {
		return fmt.Errorf("%s: unknown theatre: %w", op, apperrors.ErrConflict)
	}
	return nil
}

// List returns every show, or only those of theatreID when it is not empty.
func (r *ShowRepository) List(ctx context.Context, theatreID string) ([]models.Show, error) {
	query := `SELECT ` + showColumns + ` FROM shows`
	var args []any
	if theatreID != "" {
		query += ` WHERE theatre_id = $1`
		args = append(args, theatreID)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translate(err, "list shows")
	}
	defer rows.Close()

	shows := []models.Show{}
	for rows.Next() {
		s, err := scanShow(rows)
		if err != nil {
			return nil, translate(err, "scan show")
		}
		shows = append(shows, s)
	}

	return shows, translate(rows.Err(), "list shows")
}

func (r *ShowRepository) GetByID(ctx context.Context, id string) (*models.Show, error) {
	query := `SELECT ` + showColumns + ` FROM shows WHERE id = $1`

	s, err := scanShow(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translate(err, "get show")
	}

	return &s, nil
}

func (r *ShowRepository) Update(ctx context.Context, show *models.Show) error {
	if err := checkTheatreRef(show.TheatreID, "update show"); err != nil {
		return err
	}
	query := `
		UPDATE shows
		SET name = $1, rating = $2, tags = $3, ticket_price = $4, theatre_id = $5
		WHERE id = $6
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		show.Name,
		show.Rating,
		show.Tags,
		show.TicketPrice,
		show.TheatreID,
		show.ID,
	).Scan(&show.ID)

	return translate(err, "update show")
}

func (r *ShowRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM shows WHERE id = $1`, id)
	if err != nil {
		return false, translate(err, "delete show")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, translate(err, "delete show")
	}
	return n > 0, nil
}
