package activity

import (
	"fmt"
	"time"
)

// Entry is one line of a customer's append-only activity timeline.
type Entry struct {
	ID         int64     `json:"id" db:"id"`
	CustomerID int64     `json:"customer_id" db:"customer_id"`
	Action     string    `json:"action" db:"action"`
	Timestamp  time.Time `json:"timestamp" db:"created_at"`
}

func AutoTagged(tag string) string {
	return fmt.Sprintf("Auto-tagged: %s", tag)
}

func ReminderSet(text string, due time.Time) string {
	return fmt.Sprintf("Reminder set: %s (due %s)", text, due.Format("2006-01-02"))
}

func ReminderDone(text string) string {
	return fmt.Sprintf("Reminder completed: %s", text)
}

func Tagged(tag string) string {
	return fmt.Sprintf("Tagged: %s", tag)
}

func OrderPlaced(product string, quantity int) string {
	return fmt.Sprintf("Order placed: %s x%d", product, quantity)
}

func OrderStatusChanged(orderID int64, status string) string {
	return fmt.Sprintf("Order #%d marked %s", orderID, status)
}
