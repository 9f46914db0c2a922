package repository

import (
	"context"

	"bookit/internal/database"
	"bookit/internal/models"
)

type TheatreRepository struct {
	db *database.DB
}

func NewTheatreRepository(db *database.DB) *TheatreRepository {
	return &TheatreRepository{db: db}
}

// Create always assigns a fresh ID, overwriting whatever theatre.ID held.
func (r *TheatreRepository) Create(ctx context.Context, theatre *models.Theatre) error {
	theatre.ID = NewID()
	query := `
		INSERT INTO theatres (id, name, place, capacity)
		VALUES ($1, $2, $3, $4)`

	_, err := r.db.ExecContext(ctx, query,
		theatre.ID,
		theatre.Name,
		theatre.Place,
		theatre.Capacity,
	)

	return translate(err, "create theatre")
}

func (r *TheatreRepository) List(ctx context.Context) ([]models.Theatre, error) {
	query := `SELECT id, name, place, capacity FROM theatres`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, translate(err, "list theatres")
	}
	defer rows.Close()

	theatres := []models.Theatre{}
	for rows.Next() {
		var t models.Theatre
		if err := rows.Scan(&t.ID, &t.Name, &t.Place, &t.Capacity); err != nil {
			return nil, translate(err, "scan theatre")
		}
		theatres = append(theatres, t)
	}

	return theatres, translate(rows.Err(), "list theatres")
}

func (r *TheatreRepository) GetByID(ctx context.Context, id string) (*models.Theatre, error) {
	t := &models.Theatre{}
	query := `SELECT id, name, place, capacity FROM theatres WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(&t.ID, &t.Name, &t.Place, &t.Capacity)
	if err != nil {
		return nil, translate(err, "get theatre")
	}

	return t, nil
}

func (r *TheatreRepository) Update(ctx context.Context, theatre *models.Theatre) error {
	query := `
		UPDATE theatres
		SET name = $1, place = $2, capacity = $3
		WHERE id = $4
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		theatre.Name,
		theatre.Place,
		theatre.Capacity,
		theatre.ID,
	).Scan(&theatre.ID)

	return translate(err, "update theatre")
}

// Delete removes zero or one theatre. Theatres that still own shows are
// protected by ON DELETE RESTRICT and yield ErrConflict.
func (r *TheatreRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM theatres WHERE id = $1`, id)
	if err != nil {
		return false, translate(err, "delete theatre")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, translate(err, "delete theatre")
	}
	return n > 0, nil
}
