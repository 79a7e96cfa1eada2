package postgres

import (
	"context"
	"fmt"

	"crm-service/internal/domain/activity"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ActivityRepository struct {
	db *pgxpool.Pool
}

func NewActivityRepository(db *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Create(ctx context.Context, e *activity.Entry) error {
	query := `INSERT INTO activity_timeline (customer_id, action) VALUES ($1, $2) RETURNING id, created_at`

	if err := r.db.QueryRow(ctx, query, e.CustomerID, e.Action).Scan(&e.ID, &e.Timestamp); err != nil {
		return fmt.Errorf("failed to record activity: %w", err)
	}
	return nil
}

// ListByCustomer returns the timeline newest first.
func (r *ActivityRepository) ListByCustomer(ctx context.Context, customerID int64, limit int) ([]activity.Entry, error) {
	if limit < 1 {
		limit = 100
	}
	query := `
		SELECT id, customer_id, action, created_at
		FROM activity_timeline
		WHERE customer_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, customerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer rows.Close()

	entries := []activity.Entry{}
	for rows.Next() {
		var e activity.Entry
		if err := rows.Scan(&e.ID, &e.CustomerID, &e.Action, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
