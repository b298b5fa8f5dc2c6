package notion

import (
	"errors"
	"fmt"
)

// ErrUnauthorized indicates the integration token is invalid or expired
var ErrUnauthorized = errors.New("invalid or expired Notion token")

// ErrRateLimited indicates the API rate limit was exceeded
var ErrRateLimited = errors.New("notion API rate limit exceeded")

// ErrNotFound indicates the requested page, block, or database does not exist
// or is not shared with the integration
var ErrNotFound = errors.New("notion object not found")

// ServerError represents a 5xx error from the Notion API
type ServerError struct {
	StatusCode int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("Notion server error: HTTP %d", e.StatusCode)
}
