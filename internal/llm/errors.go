package llm

import "errors"

var (
	// ErrUnavailable indicates the model service is unreachable.
	ErrUnavailable = errors.New("llm service unavailable")

	// ErrDisabled indicates the LLM subsystem is switched off.
	ErrDisabled = errors.New("llm disabled")

	// ErrTimeout indicates the LLM request exceeded the configured timeout.
	ErrTimeout = errors.New("llm request timed out")

	// ErrInvalidOutput indicates the LLM response could not be parsed
	// into the expected structured format.
	ErrInvalidOutput = errors.New("invalid llm output format")

	// ErrRetryExhausted indicates all retry attempts have been exhausted.
	ErrRetryExhausted = errors.New("llm retry attempts exhausted")
)
