package order

import (
	"strings"
	"time"

	xerrors "crm-service/internal/pkg/errors"
)

type Status string

const (
	StatusPending   Status = "Pending"
	StatusCompleted Status = "Completed"
	StatusShipped   Status = "Shipped"
)

// ParseStatus validates an order status. Empty means Pending.
func ParseStatus(s string) (Status, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return StatusPending, nil
	}
	for _, st := range []Status{StatusPending, StatusCompleted, StatusShipped} {
		if strings.EqualFold(s, string(st)) {
			return st, nil
		}
	}
	return "", xerrors.Invalid("unknown order status %q", s)
}

type Order struct {
	ID          int64     `json:"id" db:"id"`
	CustomerID  int64     `json:"customer_id" db:"customer_id"`
	ProductName string    `json:"product_name" db:"product_name"`
	Quantity    int       `json:"quantity" db:"quantity"`
	Price       float64   `json:"price" db:"price"` // unit price
	Status      Status    `json:"status" db:"status"`
	Timestamp   time.Time `json:"timestamp" db:"created_at"`
}

// New builds a validated order for customerID.
func New(customerID int64, req *CreateOrderRequest) (*Order, error) {
	if customerID <= 0 {
		return nil, xerrors.Invalid("customer_id is required")
	}
	product := strings.TrimSpace(req.ProductName)
	if product == "" {
		return nil, xerrors.Invalid("product_name is required")
	}
	if req.Quantity < 1 {
		return nil, xerrors.Invalid("quantity must be at least 1")
	}
	if req.Price < 0 {
		return nil, xerrors.Invalid("price cannot be negative")
	}
	status, err := ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}
	return &Order{
		CustomerID:  customerID,
		ProductName: product,
		Quantity:    req.Quantity,
		Price:       req.Price,
		Status:      status,
	}, nil
}
