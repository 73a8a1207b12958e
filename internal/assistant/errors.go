package assistant

import "fmt"

// ErrorCode represents specific assistant failure types.
type ErrorCode string

const (
	ErrNotConfigured    ErrorCode = "GEMINI_NOT_CONFIGURED"
	ErrUnavailable      ErrorCode = "GEMINI_UNAVAILABLE"
	ErrRateLimited      ErrorCode = "GEMINI_RATE_LIMITED"
	ErrRejected         ErrorCode = "GEMINI_REJECTED"
	ErrMalformedReply   ErrorCode = "GEMINI_MALFORMED_REPLY"
	ErrInvalidArguments ErrorCode = "INVALID_ARGUMENTS"
)

// Error is a structured error for assistant failures.
type Error struct {
	Code      ErrorCode
	Message   string
	Retryable bool
	Cause     error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// IsRetryable returns whether this error is retryable.
func (e *Error) IsRetryable() bool {
	return e.Retryable
}
