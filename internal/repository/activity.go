package repository

import (
	"context"

	"bookit/internal/database"
	"bookit/internal/models"
)

// ActivityRepository stores the domain events seen by the consumers service.
type ActivityRepository struct {
	db *database.DB
}

func NewActivityRepository(db *database.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Record(ctx context.Context, rec *models.ActivityRecord) error {
	query := `
		INSERT INTO activity_log (subject, entity_id, payload, occurred_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, recorded_at`

	err := r.db.QueryRowContext(ctx, query,
		rec.Subject,
		rec.EntityID,
		string(rec.Payload),
		rec.OccurredAt,
	).Scan(&rec.ID, &rec.RecordedAt)

	return translate(err, "record activity")
}

// ListByEntity returns the history of one entity, oldest first.
func (r *ActivityRepository) ListByEntity(ctx context.Context, entityID string) ([]models.ActivityRecord, error) {
	query := `
		SELECT id, subject, entity_id, payload, occurred_at, recorded_at
		FROM activity_log
		WHERE entity_id = $1
		ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, entityID)
	if err != nil {
		return nil, translate(err, "list activity")
	}
	defer rows.Close()

	var records []models.ActivityRecord
	for rows.Next() {
		var rec models.ActivityRecord
		var payload []byte
		if err := rows.Scan(&rec.ID, &rec.Subject, &rec.EntityID, &payload, &rec.OccurredAt, &rec.RecordedAt); err != nil {
			return nil, translate(err, "scan activity")
		}
		rec.Payload = payload
		records = append(records, rec)
	}

	return records, translate(rows.Err(), "list activity")
}
