package customer

import (
	"crm-service/internal/domain/activity"
	"crm-service/internal/domain/ai"
	"crm-service/internal/domain/message"
	"crm-service/internal/domain/order"
	"crm-service/internal/domain/reminder"
)

// Profile is everything known about one customer.
type Profile struct {
	Summary
	Messages  []message.Message   `json:"messages"`
	Orders    []order.Order       `json:"orders"`
	Reminders []reminder.Reminder `json:"reminders"`
	Activity  []activity.Entry    `json:"activity"`
	AISummary *ai.Summary         `json:"ai_summary,omitempty"`
}
