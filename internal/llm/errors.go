package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Callers match these with errors.Is; every failed call wraps exactly one.
var (
	ErrNotConfigured  = errors.New("llm not configured")
	ErrUnavailable    = errors.New("llm backend unreachable")
	ErrTimeout        = errors.New("llm call timed out")
	ErrInvalidOutput  = errors.New("llm returned unusable output")
	ErrRetryExhausted = errors.New("llm call failed after retries")
)

// permanentError stops the retry loop. Backends wrap rejections that a
// second attempt cannot fix, such as a bad API key or an unknown model.
type permanentError struct{ err error }

func (e permanentError) Error() string { return e.err.Error() }
func (e permanentError) Unwrap() error { return e.err }

func isPermanentStatus(code int) bool {
	switch code {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		return true
	}
	return false
}

// classifyFailure maps the last backend error onto one of the sentinels.
func classifyFailure(ctx context.Context, last error) error {
	var netErr *net.OpError
	switch {
	case ctx.Err() != nil:
		return ErrTimeout
	case errors.As(last, &netErr):
		return ErrUnavailable
	case errors.Is(last, ErrInvalidOutput):
		return last
	}
	return fmt.Errorf("%w: %v", ErrRetryExhausted, last)
}

// errorCode is the stable label reported in LLMCallEvent.ErrorCode.
func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrInvalidOutput):
		return "INVALID_OUTPUT"
	case errors.Is(err, ErrRetryExhausted):
		return "RETRY_EXHAUSTED"
	}
	return "UNKNOWN"
}
