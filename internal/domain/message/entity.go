package message

import (
	"strings"
	"time"

	xerrors "crm-service/internal/pkg/errors"
)

// Direction tells who authored a message.
type Direction string

const (
	DirectionInbound  Direction = "inbound"
	DirectionOutbound Direction = "outbound"
)

// ParseDirection validates a direction; matching is case-insensitive.
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToLower(strings.TrimSpace(s))); d {
	case DirectionInbound, DirectionOutbound:
		return d, nil
	}
	return "", xerrors.Invalid("direction must be inbound or outbound, got %q", s)
}

type Message struct {
	ID          int64     `json:"id" db:"id"`
	CustomerID  int64     `json:"customer_id" db:"customer_id"`
	MessageText string    `json:"message_text" db:"message_text"`
	Direction   Direction `json:"direction" db:"direction"`
	Timestamp   time.Time `json:"timestamp" db:"created_at"`
}

// New builds a validated message for customerID.
func New(customerID int64, req *CreateMessageRequest) (*Message, error) {
	if customerID <= 0 {
		return nil, xerrors.Invalid("customer_id is required")
	}
	text := strings.TrimSpace(req.Message)
	if text == "" {
		return nil, xerrors.Invalid("message is required")
	}
	dir, err := ParseDirection(req.Direction)
	if err != nil {
		return nil, err
	}
	return &Message{CustomerID: customerID, MessageText: text, Direction: dir}, nil
}
