package application

import (
	"context"
	"errors"
	"net/http"

	"github.com/amara-dev/stripe-sync-gateway/internal/domain"
	"github.com/amara-dev/stripe-sync-gateway/internal/stripe"
)

// ToHTTPStatus maps error to appropriate HTTP status code
func ToHTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	if svcErr, ok := IsServiceError(err); ok {
		return svcErr.HTTPStatus
	}

	if domErr, ok := domain.IsDomainError(err); ok {
		switch domErr.Code {
		case domain.ErrCodeMissingRequiredField, domain.ErrCodeCustomerIDRequired:
			return http.StatusBadRequest
		}
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	}

	if _, ok := stripe.IsAPIError(err); ok {
		return http.StatusBadGateway
	}

	// Default to 500
	return http.StatusInternalServerError
}

// ToErrorCode clear error code for API responses
func ToErrorCode(err error) string {
	if svcErr, ok := IsServiceError(err); ok {
		return svcErr.Code
	}

	if domErr, ok := domain.IsDomainError(err); ok {
		return domErr.Code
	}

	if _, ok := stripe.IsAPIError(err); ok {
		return ErrCodeStripeError
	}

	return ErrCodeInternal
}

// ErrorDetails extracts structured detail for API responses, if any.
func ErrorDetails(err error) map[string]any {
	if svcErr, ok := IsServiceError(err); ok {
		return svcErr.Details
	}
	return nil
}
