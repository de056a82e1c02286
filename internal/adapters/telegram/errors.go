package telegram

import (
	"errors"
	"fmt"
)

// Sentinel errors for the telegram adapter.
var (
	// ErrMissingToken indicates the bot token was not configured.
	ErrMissingToken = errors.New("missing bot token")
)

// APIError represents a Telegram Bot API error response.
type APIError struct {
	Code        int
	Description string
	RetryAfter  int
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("telegram api error %d: %s", e.Code, e.Description)
}
