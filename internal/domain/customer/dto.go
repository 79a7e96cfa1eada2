package customer

import (
	"github.com/lib/pq"
)

type CreateCustomerRequest struct {
	Name            string `json:"name" form:"name" binding:"required,max=255"`
	InstagramHandle string `json:"instagram_handle" form:"instagram_handle" binding:"required,max=100"`
	Email           string `json:"email" form:"email" binding:"omitempty,email,max=255"`
	Phone           string `json:"phone" form:"phone" binding:"max=30"`
	Notes           string `json:"notes" form:"notes"`
}

type UpdateCustomerRequest struct {
	Name            *string `json:"name" binding:"omitempty,max=255"`
	InstagramHandle *string `json:"instagram_handle" binding:"omitempty,max=100"`
	Email           *string `json:"email" binding:"omitempty,max=255"`
	Phone           *string `json:"phone" binding:"omitempty,max=30"`
	Notes           *string `json:"notes"`
	Stage           *string `json:"stage"`
}

type CustomerListFilters struct {
	Search string   `form:"q"` // name or handle substring
	Tags   []string `form:"tags"`
	Limit  int      `form:"limit" binding:"omitempty,min=1,max=500"`
}

// Summary is one dashboard row: the customer plus everything derived from its children.
type Summary struct {
	Customer
	Tier         Tier           `json:"tier"`
	Points       int64          `json:"points"`
	OrderCount   int64          `json:"order_count"`
	MessageCount int64          `json:"message_count"`
	CLV          float64        `json:"clv"`
	Tags         pq.StringArray `json:"tags"`
}

type Dashboard struct {
	TotalCustomers int64     `json:"total_customers"`
	TotalMessages  int64     `json:"total_messages"`
	TotalOrders    int64     `json:"total_orders"`
	Customers      []Summary `json:"customers"`
}
