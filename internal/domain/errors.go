package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrLLMFailure is returned when the LLM provider request fails
	ErrLLMFailure = errors.New("LLM request failed")

	// ErrInvalidLLMResponse is returned when the LLM output is not valid JSON
	ErrInvalidLLMResponse = errors.New("LLM response is not valid JSON")

	// ErrSearchFailure is returned when the web search provider request fails
	ErrSearchFailure = errors.New("web search request failed")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable is returned when cache service is unavailable
	ErrCacheUnavailable = errors.New("cache service unavailable")

	// ErrStoreUnavailable is returned when the history store is not configured
	ErrStoreUnavailable = errors.New("analysis store unavailable")
)

// InvalidLLMResponseError carries the raw model output so the HTTP layer can
// surface it for diagnostics.
type InvalidLLMResponseError struct {
	RawResponse string
	Err         error
}

func (e *InvalidLLMResponseError) Error() string {
	return fmt.Sprintf("%v: %v", ErrInvalidLLMResponse, e.Err)
}

func (e *InvalidLLMResponseError) Unwrap() error {
	return ErrInvalidLLMResponse
}
