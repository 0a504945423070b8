package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a business logic error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *DomainError) Unwrap() error {
	return e.Err
}

const (
	ErrCodeMissingRequiredField = "MISSING_REQUIRED_FIELD"
	ErrCodeCustomerIDRequired   = "CUSTOMER_ID_REQUIRED"
)

// NewMissingRequiredFieldError is raised before any network call when a
// customer payload lacks a required field. The field path keeps the
// "address->line1" form for nested address fields.
func NewMissingRequiredFieldError(fieldPath string) *DomainError {
	return &DomainError{
		Code:    ErrCodeMissingRequiredField,
		Message: fmt.Sprintf("Missing required customer field: %s", fieldPath),
	}
}

// NewCustomerIDRequiredError is raised when an update is attempted for an
// identity without a remote customer id.
func NewCustomerIDRequiredError() *DomainError {
	return &DomainError{
		Code:    ErrCodeCustomerIDRequired,
		Message: "id required to update customer",
	}
}

// IsDomainError unwraps err into a DomainError when possible.
func IsDomainError(err error) (*DomainError, bool) {
	var domErr *DomainError
	ok := errors.As(err, &domErr)
	return domErr, ok
}
