package match

import "errors"

var (
	// ErrLLMUnavailable covers network and connection failures of the
	// model endpoint.
	ErrLLMUnavailable = errors.New("language model endpoint unavailable")
	// ErrLLMTimeout means the configured per-call budget was exceeded.
	ErrLLMTimeout = errors.New("language model call timed out")
	// ErrMalformedOutput means the model payload failed schema validation
	// beyond what range-clamping can repair.
	ErrMalformedOutput = errors.New("language model returned malformed output")

	ErrStudentNotFound = errors.New("student not found")
	ErrProjectNotFound = errors.New("project not found")
)
