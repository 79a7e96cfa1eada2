package tagging

import (
	"context"
	"fmt"
	"strings"

	"crm-service/internal/domain/activity"
	"crm-service/internal/domain/tag"
	xerrors "crm-service/internal/pkg/errors"

	"go.uber.org/zap"
)

type TagRepository interface {
	TagWriter
	ListByCustomer(ctx context.Context, customerID int64) ([]tag.Tag, error)
}

type CustomerChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// TagService handles tags added by staff.
type TagService struct {
	repo      TagRepository
	customers CustomerChecker
	activity  ActivityRecorder
	logger    *zap.Logger
}

func NewTagService(repo TagRepository, customers CustomerChecker, activity ActivityRecorder, logger *zap.Logger) *TagService {
	return &TagService{repo: repo, customers: customers, activity: activity, logger: logger}
}

func (s *TagService) AddTag(ctx context.Context, customerID int64, req *tag.AddTagRequest) (*tag.Tag, error) {
	label := strings.TrimSpace(req.Tag)
	if label == "" {
		return nil, xerrors.Invalid("tag is required")
	}

	exists, err := s.customers.Exists(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: customer %d", xerrors.ErrNotFound, customerID)
	}

	t := &tag.Tag{CustomerID: customerID, Tag: label}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to add tag: %w", err)
	}

	if _, err := s.activity.Record(ctx, customerID, activity.Tagged(label)); err != nil {
		s.logger.Error("failed to record tag activity", zap.Int64("customer_id", customerID), zap.Error(err))
	}
	return t, nil
}

func (s *TagService) ListTags(ctx context.Context, customerID int64) ([]tag.Tag, error) {
	return s.repo.ListByCustomer(ctx, customerID)
}
