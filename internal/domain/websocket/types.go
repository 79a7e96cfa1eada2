package websocket

import (
	"encoding/json"
	"time"

	"github.com/oklog/ulid/v2"
)

// EventType represents different real-time event types
type EventType string

const (
	// Connection events
	EventTypePing         EventType = "ping"
	EventTypePong         EventType = "pong"
	EventTypeConnected    EventType = "connected"
	EventTypeDisconnected EventType = "disconnected"
	EventTypeError        EventType = "error"

	// Timeline events (server -> client)
	EventTypeActivity EventType = "activity"

	// Timeline requests (client -> server)
	EventTypeActivityHistory EventType = "activity_history"

	// Subscription events
	EventTypeSubscribe   EventType = "subscribe"
	EventTypeUnsubscribe EventType = "unsubscribe"
)

// WSMessage is the universal message format
type WSMessage struct {
	Type      EventType   `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	ID        string      `json:"id,omitempty"`
}

// ChannelType names a stream clients can subscribe to.
type ChannelType string

const (
	ChannelActivity ChannelType = "activity"
	ChannelSystem   ChannelType = "system"
)

// SubscribeRequest sent by client to subscribe to channels. A non-empty
// CustomerIDs narrows activity events to those customers.
type SubscribeRequest struct {
	Channels    []ChannelType `json:"channels"`
	CustomerIDs []int64       `json:"customer_ids,omitempty"`
}

// UnsubscribeRequest sent by client to unsubscribe from channels
type UnsubscribeRequest struct {
	Channels []ChannelType `json:"channels"`
}

// ErrorData for error events
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ActivityData mirrors an activity timeline entry.
type ActivityData struct {
	ID         int64     `json:"id"`
	CustomerID int64     `json:"customer_id"`
	Action     string    `json:"action"`
	Timestamp  time.Time `json:"timestamp"`
}

// ActivityHistoryRequest asks for the latest timeline entries of one customer.
type ActivityHistoryRequest struct {
	CustomerID int64 `json:"customer_id"`
	Limit      int   `json:"limit"`
}

// Helper to create messages
func NewMessage(eventType EventType, data interface{}) *WSMessage {
	return &WSMessage{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now(),
		ID:        ulid.Make().String(),
	}
}

func (m *WSMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ParseMessage(data []byte) (*WSMessage, error) {
	var msg WSMessage
	err := json.Unmarshal(data, &msg)
	return &msg, err
}
