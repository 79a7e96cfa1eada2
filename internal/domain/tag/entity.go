package tag

import "time"

// Labels emitted by the auto-tagger.
const (
	Interested   = "Interested"
	HotLead      = "Hot Lead"
	ReadyToOrder = "Ready to Order"
)

// Tag is a free-text label on a customer. Duplicates are allowed.
type Tag struct {
	ID         int64     `json:"id" db:"id"`
	CustomerID int64     `json:"customer_id" db:"customer_id"`
	Tag        string    `json:"tag" db:"tag"`
	Timestamp  time.Time `json:"timestamp" db:"created_at"`
}

type AddTagRequest struct {
	Tag string `json:"tag" form:"tag" binding:"required,max=100"`
}
