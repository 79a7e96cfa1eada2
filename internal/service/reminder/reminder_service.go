package reminder

import (
	"context"
	"fmt"

	"crm-service/internal/domain/activity"
	"crm-service/internal/domain/reminder"
	xerrors "crm-service/internal/pkg/errors"

	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, r *reminder.Reminder) error
	ListByCustomer(ctx context.Context, customerID int64, status reminder.Status) ([]reminder.Reminder, error)
	MarkDone(ctx context.Context, id int64) (*reminder.Reminder, error)
}

type CustomerChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type ActivityRecorder interface {
	Record(ctx context.Context, customerID int64, action string) (*activity.Entry, error)
}

type ReminderService struct {
	repo      Repository
	customers CustomerChecker
	activity  ActivityRecorder
	logger    *zap.Logger
}

func NewReminderService(repo Repository, customers CustomerChecker, activity ActivityRecorder, logger *zap.Logger) *ReminderService {
	return &ReminderService{repo: repo, customers: customers, activity: activity, logger: logger}
}

// CreateReminder schedules a pending follow-up and notes it on the timeline.
func (s *ReminderService) CreateReminder(ctx context.Context, customerID int64, req *reminder.CreateReminderRequest) (*reminder.Reminder, error) {
	r, err := reminder.New(customerID, req)
	if err != nil {
		return nil, err
	}

	exists, err := s.customers.Exists(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: customer %d", xerrors.ErrNotFound, customerID)
	}

	if err := s.repo.Create(ctx, r); err != nil {
		return nil, err
	}

	if _, err := s.activity.Record(ctx, customerID, activity.ReminderSet(r.ReminderText, r.ReminderDate)); err != nil {
		s.logger.Error("failed to record reminder activity", zap.Int64("customer_id", customerID), zap.Error(err))
	}

	s.logger.Info("reminder created",
		zap.Int64("reminder_id", r.ID),
		zap.Int64("customer_id", customerID),
		zap.Time("due", r.ReminderDate),
	)
	return r, nil
}

// ListReminders returns reminders soonest first, optionally narrowed by status.
func (s *ReminderService) ListReminders(ctx context.Context, customerID int64, filters *reminder.ListFilters) ([]reminder.Reminder, error) {
	var status reminder.Status
	if filters != nil && filters.Status != "" {
		parsed, err := reminder.ParseStatus(filters.Status)
		if err != nil {
			return nil, err
		}
		status = parsed
	}
	return s.repo.ListByCustomer(ctx, customerID, status)
}

func (s *ReminderService) CompleteReminder(ctx context.Context, id int64) (*reminder.Reminder, error) {
	r, err := s.repo.MarkDone(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := s.activity.Record(ctx, r.CustomerID, activity.ReminderDone(r.ReminderText)); err != nil {
		s.logger.Error("failed to record reminder activity", zap.Int64("reminder_id", id), zap.Error(err))
	}

	return r, nil
}
