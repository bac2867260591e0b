package generation

import "errors"

// Common errors returned by the generation package and provider adapters.
var (
	// ErrGenerationFailed is returned when content generation fails for any
	// general reason.
	ErrGenerationFailed = errors.New("failed to generate content")

	// ErrInvalidResponse is returned when no usable JSON structure could be
	// extracted from a model response.
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrQuotaExceeded is returned when a provider reports that it is at
	// capacity (rate limit or quota). Callers surface this as a retryable
	// condition distinct from generic provider failures.
	ErrQuotaExceeded = errors.New("provider quota exceeded")

	// ErrProviderFailure is returned for upstream provider errors that are
	// not capacity-related.
	ErrProviderFailure = errors.New("provider request failed")

	// ErrContentBlocked is returned when the model blocks the content due to
	// safety filters.
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrInvalidConfig is returned when a provider adapter configuration is
	// invalid.
	ErrInvalidConfig = errors.New("invalid provider configuration")
)
