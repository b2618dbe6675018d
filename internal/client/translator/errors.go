package translator

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/techurbanist/duread/internal/common"
)

// APIError is a failed exchange with the model endpoint. StatusCode is 0
// when no HTTP response was received at all.
type APIError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("translation api unreachable: %s", e.Message)
	}
	return fmt.Sprintf("translation api error (status %d): %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error { return e.Err }

// Is makes every APIError match common.ErrTranslationAPI.
func (e *APIError) Is(target error) bool {
	return target == common.ErrTranslationAPI
}

// IsTransient reports whether err is worth retrying: transport failures,
// timeouts, rate limiting and server-side errors.
func IsTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == 0 ||
		apiErr.StatusCode == http.StatusTooManyRequests ||
		apiErr.StatusCode >= http.StatusInternalServerError
}

// Describe renders err as the short message stored on a failed sentence.
func Describe(err error) string {
	var apiErr *APIError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "translation timed out"
	case errors.Is(err, common.ErrCredentialMissing):
		return "API key not configured"
	case errors.Is(err, common.ErrTranslationParse):
		return "Failed to parse translation response"
	case errors.As(err, &apiErr) && apiErr.StatusCode == 0:
		return "network error: " + apiErr.Message
	case errors.As(err, &apiErr):
		return apiErr.Message
	default:
		return err.Error()
	}
}
