package activity

import (
	"context"
	"fmt"

	"crm-service/internal/domain/activity"

	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, e *activity.Entry) error
	ListByCustomer(ctx context.Context, customerID int64, limit int) ([]activity.Entry, error)
}

// Publisher receives every entry after it is stored.
type Publisher interface {
	PublishActivity(e *activity.Entry)
}

type ActivityService struct {
	repo      Repository
	publisher Publisher
	logger    *zap.Logger
}

// NewActivityService builds the timeline writer. publisher may be nil.
func NewActivityService(repo Repository, publisher Publisher, logger *zap.Logger) *ActivityService {
	return &ActivityService{repo: repo, publisher: publisher, logger: logger}
}

// Record appends an entry to the customer's timeline and fans it out.
func (s *ActivityService) Record(ctx context.Context, customerID int64, action string) (*activity.Entry, error) {
	e := &activity.Entry{CustomerID: customerID, Action: action}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("failed to record activity: %w", err)
	}

	s.logger.Debug("activity recorded",
		zap.Int64("customer_id", customerID),
		zap.String("action", action),
	)

	if s.publisher != nil {
		s.publisher.PublishActivity(e)
	}
	return e, nil
}

// List returns the newest entries first.
func (s *ActivityService) List(ctx context.Context, customerID int64, limit int) ([]activity.Entry, error) {
	entries, err := s.repo.ListByCustomer(ctx, customerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	return entries, nil
}
