package models

import (
	"errors"
	"fmt"
)

var (
	// ErrUpstreamFetch reports that every upstream data source failed, or
	// that the generative call failed with a non-retryable status.
	ErrUpstreamFetch = errors.New("upstream fetch failed")

	// ErrRateLimited reports that the generative backend kept answering 429
	// past the retry budget.
	ErrRateLimited = errors.New("rate limited by generative backend")

	// ErrMalformedResponse reports a generative reply with no usable text.
	ErrMalformedResponse = errors.New("malformed generative response")

	// ErrNoJSONFound reports that the generative text contained no JSON object.
	ErrNoJSONFound = errors.New("no JSON object found in response")

	// ErrMalformedJSON reports that the extracted JSON object failed to parse.
	ErrMalformedJSON = errors.New("malformed JSON in response")
)

// SchemaViolationError names the first recommendation field that failed
// validation. Validation is all-or-nothing: a violation means the whole
// answer is rejected.
type SchemaViolationError struct {
	Field  string
	Reason string
}

func (e *SchemaViolationError) Error() string {
	return fmt.Sprintf("schema violation on field %q: %s", e.Field, e.Reason)
}

// CacheError wraps a storage failure with the key that triggered it.
type CacheError struct {
	Key string
	Err error
}

func (e *CacheError) Error() string {
	return fmt.Sprintf("cache error for key %q: %v", e.Key, e.Err)
}

func (e *CacheError) Unwrap() error {
	return e.Err
}
