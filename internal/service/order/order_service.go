package order

import (
	"context"
	"fmt"

	"crm-service/internal/domain/activity"
	"crm-service/internal/domain/customer"
	"crm-service/internal/domain/order"
	xerrors "crm-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type Repository interface {
	CreateWithTx(ctx context.Context, tx pgx.Tx, o *order.Order) error
	UpdateStatus(ctx context.Context, id int64, status order.Status) (*order.Order, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]order.Order, error)
}

type CustomerStore interface {
	Exists(ctx context.Context, id int64) (bool, error)
	UpdateStageWithTx(ctx context.Context, tx pgx.Tx, id int64, stage customer.Stage) error
}

type TxBeginner interface {
	BeginTx(ctx context.Context) (pgx.Tx, error)
}

type CategoryRefresher interface {
	Refresh(ctx context.Context, customerID int64) (customer.Tier, error)
}

type ActivityRecorder interface {
	Record(ctx context.Context, customerID int64, action string) (*activity.Entry, error)
}

type OrderService struct {
	db        TxBeginner
	repo      Repository
	customers CustomerStore
	scorer    CategoryRefresher
	activity  ActivityRecorder
	logger    *zap.Logger
}

func NewOrderService(
	db TxBeginner,
	repo Repository,
	customers CustomerStore,
	scorer CategoryRefresher,
	activity ActivityRecorder,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		db:        db,
		repo:      repo,
		customers: customers,
		scorer:    scorer,
		activity:  activity,
		logger:    logger,
	}
}

// CreateOrder inserts the order and moves the customer to stage Ordered in one transaction.
func (s *OrderService) CreateOrder(ctx context.Context, customerID int64, req *order.CreateOrderRequest) (*order.Order, error) {
	o, err := order.New(customerID, req)
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

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.repo.CreateWithTx(ctx, tx, o); err != nil {
		return nil, err
	}

	if err := s.customers.UpdateStageWithTx(ctx, tx, customerID, customer.StageOrdered); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	if _, err := s.scorer.Refresh(ctx, customerID); err != nil {
		s.logger.Error("failed to refresh category", zap.Int64("customer_id", customerID), zap.Error(err))
	}
	if _, err := s.activity.Record(ctx, customerID, activity.OrderPlaced(o.ProductName, o.Quantity)); err != nil {
		s.logger.Error("failed to record order activity", zap.Int64("customer_id", customerID), zap.Error(err))
	}

	s.logger.Info("order created",
		zap.Int64("order_id", o.ID),
		zap.Int64("customer_id", customerID),
		zap.String("product", o.ProductName),
		zap.Float64("price", o.Price),
	)

	return o, nil
}

// UpdateStatus moves an order to a new status
func (s *OrderService) UpdateStatus(ctx context.Context, orderID int64, req *order.UpdateStatusRequest) (*order.Order, error) {
	status, err := order.ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}

	o, err := s.repo.UpdateStatus(ctx, orderID, status)
	if err != nil {
		return nil, err
	}

	if _, err := s.activity.Record(ctx, o.CustomerID, activity.OrderStatusChanged(o.ID, string(o.Status))); err != nil {
		s.logger.Error("failed to record order activity", zap.Int64("order_id", o.ID), zap.Error(err))
	}

	s.logger.Info("order status updated", zap.Int64("order_id", o.ID), zap.String("status", string(o.Status)))

	return o, nil
}

// ListOrders returns the customer's orders newest first.
func (s *OrderService) ListOrders(ctx context.Context, customerID int64) ([]order.Order, error) {
	return s.repo.ListByCustomer(ctx, customerID)
}
