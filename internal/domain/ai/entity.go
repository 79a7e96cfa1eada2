package ai

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// ReplyCacheEntry is a generated reply keyed by (customer_id, message).
type ReplyCacheEntry struct {
	ID         int64     `json:"id" db:"id"`
	CustomerID int64     `json:"customer_id" db:"customer_id"`
	Message    string    `json:"message" db:"message"`
	Tone       Tone      `json:"tone" db:"tone"`
	Reply      string    `json:"reply" db:"reply"`
	Timestamp  time.Time `json:"timestamp" db:"created_at"`
}

// MessageHash is the hex sha256 of the message exactly as sent. Reply storage
// is unique on (customer_id, MessageHash) so arbitrarily long messages fit an index.
func MessageHash(msg string) string {
	sum := sha256.Sum256([]byte(msg))
	return hex.EncodeToString(sum[:])
}

// Summary is a generated conversation summary; only the latest per customer is read.
type Summary struct {
	ID          int64     `json:"id" db:"id"`
	CustomerID  int64     `json:"customer_id" db:"customer_id"`
	SummaryText string    `json:"summary_text" db:"summary_text"`
	Timestamp   time.Time `json:"timestamp" db:"created_at"`
}
