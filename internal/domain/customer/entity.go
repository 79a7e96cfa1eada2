package customer

import (
	"strings"
	"time"

	xerrors "crm-service/internal/pkg/errors"
)

// Stage is the pipeline position of a customer's sales journey.
type Stage string

const (
	StageNew       Stage = "New"
	StageContacted Stage = "Contacted"
	StageOrdered   Stage = "Ordered"
	StageClosed    Stage = "Closed"
)

// ParseStage validates a stage name.
func ParseStage(s string) (Stage, error) {
	switch Stage(strings.TrimSpace(s)) {
	case StageNew, StageContacted, StageOrdered, StageClosed:
		return Stage(strings.TrimSpace(s)), nil
	}
	return "", xerrors.Invalid("unknown stage %q", s)
}

type Customer struct {
	ID              int64   `json:"id" db:"id"`
	Name            string  `json:"name" db:"name"`
	InstagramHandle string  `json:"instagram_handle" db:"instagram_handle"`
	Email           *string `json:"email,omitempty" db:"email"`
	Phone           *string `json:"phone,omitempty" db:"phone"`
	Notes           *string `json:"notes,omitempty" db:"notes"`

	// Category is derived from order and message counts; see TierFor.
	Category Tier  `json:"category" db:"category"`
	Stage    Stage `json:"stage" db:"stage"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// New builds a validated customer from a create request.
func New(req *CreateCustomerRequest) (*Customer, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, xerrors.Invalid("name is required")
	}
	handle := NormalizeHandle(req.InstagramHandle)
	if handle == "" {
		return nil, xerrors.Invalid("instagram_handle is required")
	}

	return &Customer{
		Name:            name,
		InstagramHandle: handle,
		Email:           optional(req.Email),
		Phone:           optional(req.Phone),
		Notes:           optional(req.Notes),
		Category:        TierLead,
		Stage:           StageNew,
	}, nil
}

// Apply merges the non-nil fields of an update request into c.
func (c *Customer) Apply(req *UpdateCustomerRequest) error {
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return xerrors.Invalid("name cannot be empty")
		}
		c.Name = name
	}
	if req.InstagramHandle != nil {
		handle := NormalizeHandle(*req.InstagramHandle)
		if handle == "" {
			return xerrors.Invalid("instagram_handle cannot be empty")
		}
		c.InstagramHandle = handle
	}
	if req.Email != nil {
		c.Email = optional(*req.Email)
	}
	if req.Phone != nil {
		c.Phone = optional(*req.Phone)
	}
	if req.Notes != nil {
		c.Notes = optional(*req.Notes)
	}
	if req.Stage != nil {
		stage, err := ParseStage(*req.Stage)
		if err != nil {
			return err
		}
		c.Stage = stage
	}
	return nil
}

// NormalizeHandle trims whitespace and a leading "@".
func NormalizeHandle(h string) string {
	return strings.TrimPrefix(strings.TrimSpace(h), "@")
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
