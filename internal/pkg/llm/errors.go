package llm

import (
	"errors"
	"fmt"
)

// RateLimitError is returned when the provider answers HTTP 429.
type RateLimitError struct {
	Status int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited (HTTP %d)", e.Status)
}

// ProviderError covers every other failed completion call. Status is zero for
// transport failures.
type ProviderError struct {
	Status  int
	Message string
}

func (e *ProviderError) Error() string {
	if e.Status == 0 {
		return e.Message
	}
	return fmt.Sprintf("provider returned HTTP %d: %s", e.Status, e.Message)
}

func IsRateLimit(err error) bool {
	var rl *RateLimitError
	return errors.As(err, &rl)
}
