package ai

import "time"

type ReplyRequest struct {
	Message string `json:"message" form:"message" binding:"required"`
	Tone    string `json:"tone" form:"tone"`
}

// ReplyResult always carries text to show the user. Degraded replies were not generated
// by the model and were not cached.
type ReplyResult struct {
	Reply    string      `json:"reply"`
	Tone     Tone        `json:"tone"`
	Cached   bool        `json:"cached"`
	Degraded bool        `json:"degraded"`
	Failure  FailureKind `json:"failure,omitempty"`
}

type SummaryResult struct {
	Summary     string    `json:"summary"`
	Cached      bool      `json:"cached"`
	GeneratedAt time.Time `json:"generated_at"`
}
