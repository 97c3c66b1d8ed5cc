package domain

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for the two failure kinds the core distinguishes.
//
// ErrNotFound means a referenced drug identifier is absent from the
// knowledge store. It is reported as a structured result, never
// defaulted to a green/empty assessment.
//
// ErrStoreUnavailable means a knowledge-store query failed. It is fatal
// for the current request: never retried, never masked. A partial safety
// assessment is worse than no assessment.
var (
	ErrNotFound         = errors.New("not found")
	ErrStoreUnavailable = errors.New("knowledge store unavailable")
)

// Error codes used in API error envelopes.
const (
	CodeNotFound         = "NOT_FOUND"
	CodeStoreUnavailable = "STORE_UNAVAILABLE"
	CodeInvalidInput     = "INVALID_INPUT"
	CodeInternal         = "INTERNAL_ERROR"
)

// APIError is the standardized error envelope returned to callers.
type APIError struct {
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewAPIError creates a new APIError stamped with the current UTC time.
func NewAPIError(code, message, details, requestID string) *APIError {
	return &APIError{
		Code:      code,
		Message:   message,
		Details:   details,
		Timestamp: time.Now().UTC(),
		RequestID: requestID,
	}
}

// NotFoundDrug wraps ErrNotFound with the offending identifier.
func NotFoundDrug(drugID string) error {
	return fmt.Errorf("drug %s: %w", drugID, ErrNotFound)
}

// StoreError wraps a driver-level failure as ErrStoreUnavailable while
// preserving the underlying cause for logs.
func StoreError(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, ErrStoreUnavailable, err)
}
