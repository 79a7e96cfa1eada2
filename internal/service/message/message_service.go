package message

import (
	"context"
	"fmt"

	"crm-service/internal/domain/customer"
	"crm-service/internal/domain/message"
	"crm-service/internal/domain/tag"
	xerrors "crm-service/internal/pkg/errors"

	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, m *message.Message) error
	ListByCustomer(ctx context.Context, customerID int64) ([]message.Message, error)
}

type CustomerChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type Tagger interface {
	Apply(ctx context.Context, customerID int64, text string) ([]tag.Tag, error)
}

type CategoryRefresher interface {
	Refresh(ctx context.Context, customerID int64) (customer.Tier, error)
}

type MessageService struct {
	repo            Repository
	customers       CustomerChecker
	tagger          Tagger
	scorer          CategoryRefresher
	autoTagOutbound bool
	logger          *zap.Logger
}

func NewMessageService(
	repo Repository,
	customers CustomerChecker,
	tagger Tagger,
	scorer CategoryRefresher,
	autoTagOutbound bool,
	logger *zap.Logger,
) *MessageService {
	return &MessageService{
		repo:            repo,
		customers:       customers,
		tagger:          tagger,
		scorer:          scorer,
		autoTagOutbound: autoTagOutbound,
		logger:          logger,
	}
}

// AddMessage appends a message, auto-tags it and refreshes the customer's category.
// Tagging and scoring failures are logged; the stored message is still returned.
func (s *MessageService) AddMessage(ctx context.Context, customerID int64, req *message.CreateMessageRequest) (*message.Created, error) {
	m, err := message.New(customerID, req)
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

	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}

	created := &message.Created{Message: m, Tags: []tag.Tag{}}

	if m.Direction == message.DirectionInbound || s.autoTagOutbound {
		tags, err := s.tagger.Apply(ctx, customerID, m.MessageText)
		if err != nil {
			s.logger.Error("auto-tagging failed", zap.Int64("customer_id", customerID), zap.Error(err))
		}
		created.Tags = append(created.Tags, tags...)
	}

	if _, err := s.scorer.Refresh(ctx, customerID); err != nil {
		s.logger.Error("failed to refresh category", zap.Int64("customer_id", customerID), zap.Error(err))
	}

	s.logger.Info("message added",
		zap.Int64("customer_id", customerID),
		zap.Int64("message_id", m.ID),
		zap.String("direction", string(m.Direction)),
		zap.Int("tags", len(created.Tags)),
	)

	return created, nil
}

// ListMessages returns the conversation oldest first. Unknown customers have none.
func (s *MessageService) ListMessages(ctx context.Context, customerID int64) ([]message.Message, error) {
	return s.repo.ListByCustomer(ctx, customerID)
}
