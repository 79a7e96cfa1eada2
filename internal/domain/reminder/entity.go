package reminder

import (
	"strings"
	"time"

	xerrors "crm-service/internal/pkg/errors"
)

type Status string

const (
	StatusPending Status = "Pending"
	StatusDone    Status = "Done"
)

type Reminder struct {
	ID           int64     `json:"id" db:"id"`
	CustomerID   int64     `json:"customer_id" db:"customer_id"`
	ReminderText string    `json:"reminder_text" db:"reminder_text"`
	ReminderDate time.Time `json:"reminder_date" db:"reminder_date"`
	Status       Status    `json:"status" db:"status"`
}

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

// ParseDate accepts RFC3339, HTML datetime-local and plain dates.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, xerrors.Invalid("reminder_date %q is not a valid date", s)
}

// New builds a validated pending reminder for customerID.
func New(customerID int64, req *CreateReminderRequest) (*Reminder, error) {
	if customerID <= 0 {
		return nil, xerrors.Invalid("customer_id is required")
	}
	text := strings.TrimSpace(req.ReminderText)
	if text == "" {
		return nil, xerrors.Invalid("reminder_text is required")
	}
	due, err := ParseDate(req.ReminderDate)
	if err != nil {
		return nil, err
	}
	return &Reminder{
		CustomerID:   customerID,
		ReminderText: text,
		ReminderDate: due,
		Status:       StatusPending,
	}, nil
}

// ParseStatus validates a status name; matching is case-insensitive.
func ParseStatus(s string) (Status, error) {
	for _, st := range []Status{StatusPending, StatusDone} {
		if strings.EqualFold(strings.TrimSpace(s), string(st)) {
			return st, nil
		}
	}
	return "", xerrors.Invalid("unknown reminder status %q", s)
}
