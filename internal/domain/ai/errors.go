package ai

import (
	"errors"
	"fmt"
)

var (
	ErrAIDisabled    = errors.New("AI summaries are disabled")
	ErrAIRateLimited = errors.New("AI service is rate limited, try again later")
	ErrAIProvider    = errors.New("AI provider error")
)

// FailureKind classifies a failed completion call.
type FailureKind string

const (
	FailureNone        FailureKind = ""
	FailureRateLimited FailureKind = "rate_limited"
	FailureProvider    FailureKind = "provider_error"
)

// RateLimitedReply is returned in place of a generated reply when the provider throttles us.
const RateLimitedReply = "The AI assistant is busy right now. Please reply to this customer manually."

// ProviderErrorReply describes a provider failure in place of a generated reply.
func ProviderErrorReply(msg string) string {
	return fmt.Sprintf("AI reply unavailable: %s", msg)
}
