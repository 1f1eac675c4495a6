package models

import (
	"errors"
	"fmt"
)

// APIError represents a standardized error response for the API
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Error code constants
const (
	// General errors
	ErrBadRequest       = "BAD_REQUEST"
	ErrUnauthorized     = "UNAUTHORIZED"
	ErrForbidden        = "FORBIDDEN"
	ErrNotFound         = "NOT_FOUND"
	ErrConflict         = "CONFLICT"
	ErrInternalServer   = "INTERNAL_SERVER_ERROR"
	ErrValidationFailed = "VALIDATION_FAILED"
)

// NewAPIError creates a new API error with the given code and message
func NewAPIError(code, message string, details ...map[string]interface{}) APIError {
	err := APIError{
		Code:    code,
		Message: message,
	}
	if len(details) > 0 {
		err.Details = details[0]
	}
	return err
}

// DomainError is the typed failure returned by every service operation.
// Kind is one of the error code constants above; Field names the offending
// input key for validation failures.
type DomainError struct {
	Kind    string
	Field   string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// ToAPIError converts the error into the response envelope.
func (e *DomainError) ToAPIError() APIError {
	if e.Field == "" {
		return NewAPIError(e.Kind, e.Message)
	}
	return NewAPIError(e.Kind, e.Message, map[string]interface{}{"field": e.Field})
}

func NewValidationError(field, message string) *DomainError {
	return &DomainError{Kind: ErrValidationFailed, Field: field, Message: message}
}

func NewConflictError(field, message string, cause error) *DomainError {
	return &DomainError{Kind: ErrConflict, Field: field, Message: message, Err: cause}
}

func NewNotFoundError(resource string) *DomainError {
	return &DomainError{Kind: ErrNotFound, Message: resource + " not found"}
}

func NewUnauthorizedError(message string) *DomainError {
	return &DomainError{Kind: ErrUnauthorized, Message: message}
}

func NewForbiddenError(message string) *DomainError {
	return &DomainError{Kind: ErrForbidden, Message: message}
}

// NewStorageError wraps an unexpected persistence failure.
func NewStorageError(message string, cause error) *DomainError {
	return &DomainError{Kind: ErrInternalServer, Message: message, Err: cause}
}

// AsDomainError returns err as a *DomainError, treating any other error
// as a storage failure.
func AsDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var de *DomainError
	if errors.As(err, &de) {
		return de
	}
	return NewStorageError("unexpected storage failure", err)
}

// IsKind reports whether err is a DomainError of the given kind.
func IsKind(err error, kind string) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Kind == kind
}
