package stripe

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// ErrTypeInvalidRequest is the remote error type covering missing or
	// unknown objects, including customer drift after account migration.
	ErrTypeInvalidRequest = "invalid_request_error"

	// ErrCodeAmountTooSmall is returned when a capture is below the
	// currency's minimum charge amount.
	ErrCodeAmountTooSmall = "amount_too_small"
)

// APIError is the decoded remote error sub-object. The remote message is
// preserved verbatim for operator diagnostics.
type APIError struct {
	Type       string `json:"type"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("stripe error [%s/%s]: %s", e.Type, e.Code, e.Message)
	}
	return fmt.Sprintf("stripe error [%s]: %s", e.Type, e.Message)
}

// errorResponse is the wire envelope for failed calls.
type errorResponse struct {
	Error *APIError `json:"error"`
}

// IsAPIError unwraps err into an APIError when the remote side produced it.
func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	ok := errors.As(err, &apiErr)
	return apiErr, ok
}

// IsNoSuchCustomer reports whether err is the remote "No such customer"
// condition: the locally cached customer id no longer exists on the remote
// account. This can happen when switching accounts or importing users from
// another site, and is recoverable by recreating the customer.
func IsNoSuchCustomer(err error) bool {
	apiErr, ok := IsAPIError(err)
	return ok &&
		apiErr.Type == ErrTypeInvalidRequest &&
		strings.Contains(strings.ToLower(apiErr.Message), "no such customer")
}

// IsAlreadyAttached reports whether err says the payment method is already
// attached to a customer. Callers treat this as success-equivalent.
func IsAlreadyAttached(err error) bool {
	apiErr, ok := IsAPIError(err)
	return ok &&
		apiErr.Type == ErrTypeInvalidRequest &&
		strings.Contains(strings.ToLower(apiErr.Message), "already been attached to a customer")
}

// IsAmountTooSmall reports whether err is the below-minimum capture rejection.
func IsAmountTooSmall(err error) bool {
	apiErr, ok := IsAPIError(err)
	return ok && apiErr.Code == ErrCodeAmountTooSmall
}
