package llm

import "errors"

var (
	// ErrUnavailable indicates the model backend is unreachable.
	ErrUnavailable = errors.New("llm backend unavailable")

	// ErrTimeout indicates the LLM request exceeded the configured timeout.
	ErrTimeout = errors.New("llm request timed out")

	// ErrInvalidOutput indicates the LLM response could not be parsed
	// into the expected structured format.
	ErrInvalidOutput = errors.New("invalid llm output format")

	// ErrRetryExhausted indicates all retry attempts have been exhausted.
	ErrRetryExhausted = errors.New("llm retry attempts exhausted")

	// ErrMissingAPIKey indicates a hosted backend was selected without a key.
	ErrMissingAPIKey = errors.New("llm api key not configured")
)
