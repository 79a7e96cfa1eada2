package customer

import (
	"context"
	"errors"
	"fmt"

	"crm-service/internal/domain/activity"
	"crm-service/internal/domain/ai"
	"crm-service/internal/domain/customer"
	"crm-service/internal/domain/message"
	"crm-service/internal/domain/order"
	"crm-service/internal/domain/reminder"
	xerrors "crm-service/internal/pkg/errors"

	"go.uber.org/zap"
)

const profileActivityLimit = 50

type MessageLister interface {
	ListByCustomer(ctx context.Context, customerID int64) ([]message.Message, error)
}

type OrderLister interface {
	ListByCustomer(ctx context.Context, customerID int64) ([]order.Order, error)
}

type ReminderLister interface {
	ListByCustomer(ctx context.Context, customerID int64, status reminder.Status) ([]reminder.Reminder, error)
}

type ActivityLister interface {
	ListByCustomer(ctx context.Context, customerID int64, limit int) ([]activity.Entry, error)
}

type SummaryReader interface {
	LatestSummary(ctx context.Context, customerID int64) (*ai.Summary, error)
}

// ProfileService assembles the single-customer view.
type ProfileService struct {
	customers Repository
	messages  MessageLister
	orders    OrderLister
	reminders ReminderLister
	activity  ActivityLister
	summaries SummaryReader
	logger    *zap.Logger
}

func NewProfileService(
	customers Repository,
	messages MessageLister,
	orders OrderLister,
	reminders ReminderLister,
	activity ActivityLister,
	summaries SummaryReader,
	logger *zap.Logger,
) *ProfileService {
	return &ProfileService{
		customers: customers,
		messages:  messages,
		orders:    orders,
		reminders: reminders,
		activity:  activity,
		summaries: summaries,
		logger:    logger,
	}
}

// GetProfile returns ErrNotFound for unknown customers. The AI summary is
// only read, never generated.
func (s *ProfileService) GetProfile(ctx context.Context, id int64) (*customer.Profile, error) {
	summary, err := s.customers.SummaryByID(ctx, id)
	if err != nil {
		return nil, err
	}

	p := &customer.Profile{Summary: *summary}

	if p.Messages, err = s.messages.ListByCustomer(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}
	if p.Orders, err = s.orders.ListByCustomer(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}
	if p.Reminders, err = s.reminders.ListByCustomer(ctx, id, ""); err != nil {
		return nil, fmt.Errorf("failed to load reminders: %w", err)
	}
	if p.Activity, err = s.activity.ListByCustomer(ctx, id, profileActivityLimit); err != nil {
		return nil, fmt.Errorf("failed to load activity: %w", err)
	}

	latest, err := s.summaries.LatestSummary(ctx, id)
	switch {
	case err == nil:
		p.AISummary = latest
	case errors.Is(err, xerrors.ErrNotFound):
	default:
		s.logger.Warn("failed to load AI summary for profile", zap.Int64("customer_id", id), zap.Error(err))
	}

	return p, nil
}
