package postgres

import (
	"context"
	"fmt"
	"time"

	"crm-service/internal/domain/message"

	"github.com/jackc/pgx/v5/pgxpool"
)

type MessageRepository struct {
	db *pgxpool.Pool
}

func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create appends a message to the customer's history
func (r *MessageRepository) Create(ctx context.Context, m *message.Message) error {
	query := `
		INSERT INTO messages (customer_id, message_text, direction)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query, m.CustomerID, m.MessageText, m.Direction).Scan(&m.ID, &m.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}

	return nil
}

// ListByCustomer returns a customer's messages oldest first.
func (r *MessageRepository) ListByCustomer(ctx context.Context, customerID int64) ([]message.Message, error) {
	query := `
		SELECT id, customer_id, message_text, direction, created_at
		FROM messages
		WHERE customer_id = $1
		ORDER BY created_at ASC, id ASC
	`
	return r.list(ctx, query, customerID)
}

// ListAll returns every message, used by the CSV export.
func (r *MessageRepository) ListAll(ctx context.Context) ([]message.Message, error) {
	query := `
		SELECT id, customer_id, message_text, direction, created_at
		FROM messages
		ORDER BY id
	`
	return r.list(ctx, query)
}

func (r *MessageRepository) list(ctx context.Context, query string, args ...any) ([]message.Message, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	messages := []message.Message{}
	for rows.Next() {
		var m message.Message
		if err := rows.Scan(&m.ID, &m.CustomerID, &m.MessageText, &m.Direction, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, m)
	}

	return messages, rows.Err()
}

// LatestAt returns the timestamp of the newest message, or the zero time if there is none.
func (r *MessageRepository) LatestAt(ctx context.Context, customerID int64) (time.Time, error) {
	var latest *time.Time
	err := r.db.QueryRow(ctx, `SELECT MAX(created_at) FROM messages WHERE customer_id = $1`, customerID).Scan(&latest)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read latest message: %w", err)
	}
	if latest == nil {
		return time.Time{}, nil
	}
	return *latest, nil
}
