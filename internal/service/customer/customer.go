package customer

import (
	"context"
	"fmt"

	"crm-service/internal/domain/customer"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, c *customer.Customer) error
	FindByID(ctx context.Context, id int64) (*customer.Customer, error)
	Update(ctx context.Context, c *customer.Customer) error
	DeleteWithTx(ctx context.Context, tx pgx.Tx, id int64) error
	Search(ctx context.Context, filters *customer.CustomerListFilters) ([]customer.Customer, error)
	Summaries(ctx context.Context) ([]customer.Summary, error)
	SummaryByID(ctx context.Context, id int64) (*customer.Summary, error)
	Totals(ctx context.Context) (customers, messages, orders int64, err error)
}

type TxBeginner interface {
	BeginTx(ctx context.Context) (pgx.Tx, error)
}

// CacheInvalidator drops derived data held outside Postgres for a deleted customer.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, customerID int64) error
}

type CustomerService struct {
	db          TxBeginner
	repo        Repository
	invalidator CacheInvalidator
	logger      *zap.Logger
}

// NewCustomerService builds the service. invalidator may be nil.
func NewCustomerService(db TxBeginner, repo Repository, invalidator CacheInvalidator, logger *zap.Logger) *CustomerService {
	return &CustomerService{
		db:          db,
		repo:        repo,
		invalidator: invalidator,
		logger:      logger,
	}
}

// CreateCustomer registers a new customer as a Lead in stage New
func (s *CustomerService) CreateCustomer(ctx context.Context, req *customer.CreateCustomerRequest) (*customer.Customer, error) {
	c, err := customer.New(req)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, c); err != nil {
		s.logger.Warn("failed to create customer", zap.String("instagram_handle", c.InstagramHandle), zap.Error(err))
		return nil, err
	}

	s.logger.Info("customer created",
		zap.Int64("customer_id", c.ID),
		zap.String("instagram_handle", c.InstagramHandle),
	)

	return c, nil
}

// GetCustomer retrieves a customer by ID
func (s *CustomerService) GetCustomer(ctx context.Context, id int64) (*customer.Customer, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateCustomer applies a partial edit. A handle taken by another customer is a conflict.
func (s *CustomerService) UpdateCustomer(ctx context.Context, id int64, req *customer.UpdateCustomerRequest) (*customer.Customer, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := c.Apply(req); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info("customer updated", zap.Int64("customer_id", id))

	return c, nil
}

// DeleteCustomer removes the customer and all of its child rows in one transaction.
func (s *CustomerService) DeleteCustomer(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.repo.DeleteWithTx(ctx, tx, id); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	if s.invalidator != nil {
		if err := s.invalidator.Invalidate(ctx, id); err != nil {
			s.logger.Warn("failed to invalidate reply cache", zap.Int64("customer_id", id), zap.Error(err))
		}
	}

	s.logger.Info("customer deleted", zap.Int64("customer_id", id))

	return nil
}

// SearchCustomers matches name or handle substrings
func (s *CustomerService) SearchCustomers(ctx context.Context, filters *customer.CustomerListFilters) ([]customer.Customer, error) {
	customers, err := s.repo.Search(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to search customers: %w", err)
	}
	return customers, nil
}

// Dashboard returns global totals and every customer with its recomputed tier and CLV.
func (s *CustomerService) Dashboard(ctx context.Context) (*customer.Dashboard, error) {
	totalCustomers, totalMessages, totalOrders, err := s.repo.Totals(ctx)
	if err != nil {
		return nil, err
	}

	summaries, err := s.repo.Summaries(ctx)
	if err != nil {
		return nil, err
	}

	return &customer.Dashboard{
		TotalCustomers: totalCustomers,
		TotalMessages:  totalMessages,
		TotalOrders:    totalOrders,
		Customers:      summaries,
	}, nil
}
