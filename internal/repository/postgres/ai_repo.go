package postgres

import (
	"context"
	"fmt"

	"crm-service/internal/domain/ai"
	xerrors "crm-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

// AIRepository stores generated replies and summaries.
type AIRepository struct {
	db *pgxpool.Pool
}

func NewAIRepository(db *pgxpool.Pool) *AIRepository {
	return &AIRepository{db: db}
}

// FindReply looks up the cached reply for an exact (customer, message) pair.
// The hash narrows the index lookup; the text comparison keeps it exact.
func (r *AIRepository) FindReply(ctx context.Context, customerID int64, msg string) (*ai.ReplyCacheEntry, error) {
	query := `
		SELECT id, customer_id, message, tone, reply, created_at
		FROM ai_replies
		WHERE customer_id = $1 AND message_hash = $2 AND message = $3
	`

	var e ai.ReplyCacheEntry
	err := r.db.QueryRow(ctx, query, customerID, ai.MessageHash(msg), msg).Scan(
		&e.ID, &e.CustomerID, &e.Message, &e.Tone, &e.Reply, &e.Timestamp,
	)
	if isNoRows(err) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find cached reply: %w", err)
	}
	return &e, nil
}

// SaveReply stores a reply. If another writer stored one first, that row wins
// and is loaded into e.
func (r *AIRepository) SaveReply(ctx context.Context, e *ai.ReplyCacheEntry) error {
	query := `
		INSERT INTO ai_replies (customer_id, message, message_hash, tone, reply)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (customer_id, message_hash) DO NOTHING
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query, e.CustomerID, e.Message, ai.MessageHash(e.Message), e.Tone, e.Reply).Scan(&e.ID, &e.Timestamp)
	if isNoRows(err) {
		existing, findErr := r.FindReply(ctx, e.CustomerID, e.Message)
		if findErr != nil {
			return findErr
		}
		*e = *existing
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to save reply: %w", err)
	}
	return nil
}

// LatestSummary returns the newest summary for the customer.
func (r *AIRepository) LatestSummary(ctx context.Context, customerID int64) (*ai.Summary, error) {
	query := `
		SELECT id, customer_id, summary_text, created_at
		FROM ai_summaries
		WHERE customer_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`

	var s ai.Summary
	err := r.db.QueryRow(ctx, query, customerID).Scan(&s.ID, &s.CustomerID, &s.SummaryText, &s.Timestamp)
	if isNoRows(err) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find summary: %w", err)
	}
	return &s, nil
}

func (r *AIRepository) SaveSummary(ctx context.Context, s *ai.Summary) error {
	query := `INSERT INTO ai_summaries (customer_id, summary_text) VALUES ($1, $2) RETURNING id, created_at`

	if err := r.db.QueryRow(ctx, query, s.CustomerID, s.SummaryText).Scan(&s.ID, &s.Timestamp); err != nil {
		return fmt.Errorf("failed to save summary: %w", err)
	}
	return nil
}
