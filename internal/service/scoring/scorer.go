package scoring

import (
	"context"
	"errors"
	"fmt"

	"crm-service/internal/domain/customer"
	xerrors "crm-service/internal/pkg/errors"

	"go.uber.org/zap"
)

type CountReader interface {
	Counts(ctx context.Context, customerID int64) (orders, messages int64, err error)
}

type CategoryWriter interface {
	UpdateCategory(ctx context.Context, customerID int64, tier customer.Tier) error
}

type Repository interface {
	CountReader
	CategoryWriter
}

// Score is a computed lead score.
type Score struct {
	CustomerID int64         `json:"customer_id"`
	Orders     int64         `json:"orders"`
	Messages   int64         `json:"messages"`
	Points     int64         `json:"points"`
	Tier       customer.Tier `json:"tier"`
}

// Scorer classifies customers from live counts. Nothing is cached.
type Scorer struct {
	repo   Repository
	logger *zap.Logger
}

func NewScorer(repo Repository, logger *zap.Logger) *Scorer {
	return &Scorer{repo: repo, logger: logger}
}

// Score reads the counts and classifies. Unknown customers have zero counts and score Lead.
func (s *Scorer) Score(ctx context.Context, customerID int64) (*Score, error) {
	orders, messages, err := s.repo.Counts(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to score customer: %w", err)
	}

	return &Score{
		CustomerID: customerID,
		Orders:     orders,
		Messages:   messages,
		Points:     customer.Points(orders, messages),
		Tier:       customer.TierFor(orders, messages),
	}, nil
}

// Refresh recomputes the tier and persists it as the customer's category.
func (s *Scorer) Refresh(ctx context.Context, customerID int64) (customer.Tier, error) {
	score, err := s.Score(ctx, customerID)
	if err != nil {
		return "", err
	}

	if err := s.repo.UpdateCategory(ctx, customerID, score.Tier); err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return score.Tier, err
		}
		return "", fmt.Errorf("failed to persist category: %w", err)
	}

	s.logger.Debug("customer category refreshed",
		zap.Int64("customer_id", customerID),
		zap.Int64("points", score.Points),
		zap.String("tier", string(score.Tier)),
	)
	return score.Tier, nil
}
