package llm

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	// ErrRateLimited marks a provider rejection due to quota or request rate.
	ErrRateLimited = errors.New("rate limited by provider")
	// ErrNoClient is returned when no LLM client is configured.
	ErrNoClient = errors.New("no LLM client configured")
)

// APICallError represents a failed call to the provider.
type APICallError struct {
	Message  string
	Attempts int
	Cause    error
}

func (e *APICallError) Error() string {
	msg := e.Message
	if e.Attempts > 1 {
		msg = fmt.Sprintf("%s after %d attempts", msg, e.Attempts)
	}
	if e.Cause != nil {
		return fmt.Sprintf("API call failed: %s: %v", msg, e.Cause)
	}
	return fmt.Sprintf("API call failed: %s", msg)
}

func (e *APICallError) Unwrap() error {
	return e.Cause
}

// IsRateLimited reports whether err signals a provider rate limit.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == http.StatusTooManyRequests {
		return true
	}
	if status.Code(err) == codes.ResourceExhausted {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "RESOURCE_EXHAUSTED") || strings.Contains(msg, "Error 429")
}

// IsTransient reports whether err is a provider-side timeout or outage worth retrying.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code >= http.StatusInternalServerError {
		return true
	}
	switch status.Code(err) {
	case codes.Unavailable, codes.DeadlineExceeded:
		return true
	}
	return false
}
