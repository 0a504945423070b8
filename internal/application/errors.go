package application

import (
	"errors"
	"fmt"
	"net/http"
)

// ServiceError is an operation failure with an HTTP-equivalent status and an
// optional structured detail payload.
type ServiceError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

const (
	ErrCodeOrderNotFound             = "ORDER_NOT_FOUND"
	ErrCodeTokenNotFound             = "TOKEN_NOT_FOUND"
	ErrCodeInvalidOrderStatus        = "INVALID_ORDER_STATUS"
	ErrCodeMissingRequiredField      = "MISSING_REQUIRED_FIELD"
	ErrCodeRefundedOrderUncapturable = "REFUNDED_ORDER_UNCAPTURABLE"
	ErrCodePaymentUncapturable       = "PAYMENT_UNCAPTURABLE"
	ErrCodeCaptureAmountTooSmall     = "CAPTURE_AMOUNT_TOO_SMALL"
	ErrCodeCaptureFailed             = "CAPTURE_FAILED"
	ErrCodeStripeError               = "STRIPE_ERROR"
	ErrCodeInvalidInput              = "INVALID_INPUT"
	ErrCodeInternal                  = "INTERNAL_ERROR"
)

func NewOrderNotFoundError(orderID int64) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeOrderNotFound,
		Message:    "Order not found",
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"order_id": orderID},
	}
}

func NewTokenNotFoundError(tokenID string) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeTokenNotFound,
		Message:    "Payment token not found",
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"token_id": tokenID},
	}
}

func NewInvalidOrderStatusError(status string) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeInvalidOrderStatus,
		Message:    "Invalid order status",
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"status": status},
	}
}

func NewRefundedOrderUncapturableError() *ServiceError {
	return &ServiceError{
		Code:       ErrCodeRefundedOrderUncapturable,
		Message:    "Payment cannot be captured for partially or fully refunded orders",
		HTTPStatus: http.StatusBadRequest,
	}
}

func NewPaymentUncapturableError() *ServiceError {
	return &ServiceError{
		Code:       ErrCodePaymentUncapturable,
		Message:    "The payment cannot be captured",
		HTTPStatus: http.StatusConflict,
	}
}

// NewCaptureAmountTooSmallError carries the currency's documented minimum
// charge. minimum is nil for currencies without a documented minimum.
func NewCaptureAmountTooSmallError(currency string, minimum *int64) *ServiceError {
	var minimumDetail any
	if minimum != nil {
		minimumDetail = *minimum
	}
	return &ServiceError{
		Code:       ErrCodeCaptureAmountTooSmall,
		Message:    "Capture amount is below the minimum charge for the currency",
		HTTPStatus: http.StatusBadRequest,
		Details: map[string]any{
			"minimum_amount":          minimumDetail,
			"minimum_amount_currency": currency,
		},
	}
}

func NewCaptureFailedError(remoteMessage string) *ServiceError {
	if remoteMessage == "" {
		remoteMessage = "Unknown error"
	}
	return &ServiceError{
		Code:       ErrCodeCaptureFailed,
		Message:    fmt.Sprintf("Payment capture failed to complete with the following message: %s", remoteMessage),
		HTTPStatus: http.StatusBadGateway,
	}
}

// NewStripeError wraps an unrecoverable remote error, preserving its message.
func NewStripeError(err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeStripeError,
		Message:    err.Error(),
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

func NewInvalidInputError(message string) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeInvalidInput,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

func NewInternalError(err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeInternal,
		Message:    "An internal error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func IsServiceError(err error) (*ServiceError, bool) {
	var svcErr *ServiceError
	ok := errors.As(err, &svcErr)
	return svcErr, ok
}
