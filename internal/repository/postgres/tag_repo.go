package postgres

import (
	"context"
	"fmt"

	"crm-service/internal/domain/tag"

	"github.com/jackc/pgx/v5/pgxpool"
)

type TagRepository struct {
	db *pgxpool.Pool
}

func NewTagRepository(db *pgxpool.Pool) *TagRepository {
	return &TagRepository{db: db}
}

// Create inserts a tag row. Duplicate labels are allowed.
func (r *TagRepository) Create(ctx context.Context, t *tag.Tag) error {
	query := `INSERT INTO customer_tags (customer_id, tag) VALUES ($1, $2) RETURNING id, created_at`

	if err := r.db.QueryRow(ctx, query, t.CustomerID, t.Tag).Scan(&t.ID, &t.Timestamp); err != nil {
		return fmt.Errorf("failed to create tag: %w", err)
	}
	return nil
}

func (r *TagRepository) ListByCustomer(ctx context.Context, customerID int64) ([]tag.Tag, error) {
	query := `
		SELECT id, customer_id, tag, created_at
		FROM customer_tags
		WHERE customer_id = $1
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.db.Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	defer rows.Close()

	tags := []tag.Tag{}
	for rows.Next() {
		var t tag.Tag
		if err := rows.Scan(&t.ID, &t.CustomerID, &t.Tag, &t.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, t)
	}

	return tags, rows.Err()
}
