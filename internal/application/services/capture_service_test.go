package services_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amara-dev/stripe-sync-gateway/internal/application"
	"github.com/amara-dev/stripe-sync-gateway/internal/application/services"
	"github.com/amara-dev/stripe-sync-gateway/internal/application/services/testhelpers"
	"github.com/amara-dev/stripe-sync-gateway/internal/domain"
	"github.com/amara-dev/stripe-sync-gateway/internal/stripe"
)

type captureFixture struct {
	client  *testhelpers.MockStripeClient
	orders  *testhelpers.MockOrderRepository
	service *services.CaptureService
}

func newCaptureFixture() *captureFixture {
	client := testhelpers.NewMockStripeClient()
	orders := testhelpers.NewMockOrderRepository()

	return &captureFixture{
		client:  client,
		orders:  orders,
		service: services.NewCaptureService(client, orders, slog.New(slog.DiscardHandler)),
	}
}

func requiresCaptureIntent(id string) *stripe.PaymentIntent {
	return &stripe.PaymentIntent{
		ID:       id,
		Status:   stripe.IntentRequiresCapture,
		Amount:   2000,
		Currency: "usd",
		Customer: "cus_terminal",
	}
}

func TestCapture_Success(t *testing.T) {
	f := newCaptureFixture()
	f.orders.Put(testhelpers.PendingOrder(501))

	f.client.GetPaymentIntentFn = func(_ context.Context, intentID string) (*stripe.PaymentIntent, error) {
		return requiresCaptureIntent(intentID), nil
	}
	f.client.CapturePaymentIntentFn = func(_ context.Context, intentID string) (*stripe.PaymentIntent, error) {
		intent := requiresCaptureIntent(intentID)
		intent.Status = stripe.IntentSucceeded
		return intent, nil
	}

	result, err := f.service.Capture(context.Background(), 501, "pi_123")
	require.NoError(t, err)
	assert.Equal(t, "succeeded", result.Status)
	assert.Equal(t, "pi_123", result.ID)

	order, err := f.orders.FindByID(context.Background(), 501)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderCompleted, order.Status)
	assert.Equal(t, "stripe", order.PaymentMethod)
	assert.Equal(t, "Stripe In-Person Payments", order.PaymentMethodTitle)
	assert.Equal(t, "pi_123", order.PaymentIntentID)
	assert.Equal(t, "cus_terminal", order.StripeCustomerID)
}

func TestCapture_OrderNotFound(t *testing.T) {
	f := newCaptureFixture()

	_, err := f.service.Capture(context.Background(), 999, "pi_123")
	require.Error(t, err)

	svcErr, ok := application.IsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, application.ErrCodeOrderNotFound, svcErr.Code)
}

func TestCapture_RefundedOrderRejectedBeforeRemoteCall(t *testing.T) {
	f := newCaptureFixture()
	order := testhelpers.PendingOrder(502)
	order.TotalRefunded = decimal.NewFromInt(10)
	f.orders.Put(order)

	_, err := f.service.Capture(context.Background(), 502, "pi_123")
	require.Error(t, err)

	svcErr, ok := application.IsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, application.ErrCodeRefundedOrderUncapturable, svcErr.Code)
	assert.Zero(t, f.client.CallCount("GetPaymentIntent"))
}

func TestCapture_IntentFetchErrorIsStripeError(t *testing.T) {
	f := newCaptureFixture()
	f.orders.Put(testhelpers.PendingOrder(501))

	f.client.GetPaymentIntentFn = func(_ context.Context, _ string) (*stripe.PaymentIntent, error) {
		return nil, &stripe.APIError{Type: "api_error", Message: "remote down", StatusCode: 500}
	}

	_, err := f.service.Capture(context.Background(), 501, "pi_123")
	require.Error(t, err)

	svcErr, ok := application.IsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, application.ErrCodeStripeError, svcErr.Code)
}

func TestCapture_NonCapturableStatus(t *testing.T) {
	for _, status := range []stripe.IntentStatus{stripe.IntentSucceeded, stripe.IntentCanceled} {
		f := newCaptureFixture()
		f.orders.Put(testhelpers.PendingOrder(501))

		f.client.GetPaymentIntentFn = func(_ context.Context, intentID string) (*stripe.PaymentIntent, error) {
			intent := requiresCaptureIntent(intentID)
			intent.Status = status
			return intent, nil
		}

		_, err := f.service.Capture(context.Background(), 501, "pi_123")
		require.Error(t, err, "status %s", status)

		svcErr, ok := application.IsServiceError(err)
		require.True(t, ok)
		assert.Equal(t, application.ErrCodePaymentUncapturable, svcErr.Code)
		assert.Zero(t, f.client.CallCount("CapturePaymentIntent"))
	}
}

func TestCapture_AmountTooSmallCarriesMinimum(t *testing.T) {
	f := newCaptureFixture()
	f.orders.Put(testhelpers.PendingOrder(501))

	f.client.GetPaymentIntentFn = func(_ context.Context, intentID string) (*stripe.PaymentIntent, error) {
		return requiresCaptureIntent(intentID), nil
	}
	f.client.CapturePaymentIntentFn = func(_ context.Context, _ string) (*stripe.PaymentIntent, error) {
		return nil, &stripe.APIError{
			Type:       stripe.ErrTypeInvalidRequest,
			Code:       stripe.ErrCodeAmountTooSmall,
			Message:    "Amount must be at least 50 cents",
			StatusCode: 400,
		}
	}

	_, err := f.service.Capture(context.Background(), 501, "pi_123")
	require.Error(t, err)

	svcErr, ok := application.IsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, application.ErrCodeCaptureAmountTooSmall, svcErr.Code)
	assert.Equal(t, int64(50), svcErr.Details["minimum_amount"])
	assert.Equal(t, "USD", svcErr.Details["minimum_amount_currency"])
}

func TestCapture_AmountTooSmallUnknownCurrency(t *testing.T) {
	f := newCaptureFixture()
	order := testhelpers.PendingOrder(501)
	order.Currency = "XYZ"
	f.orders.Put(order)

	f.client.GetPaymentIntentFn = func(_ context.Context, intentID string) (*stripe.PaymentIntent, error) {
		return requiresCaptureIntent(intentID), nil
	}
	f.client.CapturePaymentIntentFn = func(_ context.Context, _ string) (*stripe.PaymentIntent, error) {
		return nil, &stripe.APIError{
			Type:       stripe.ErrTypeInvalidRequest,
			Code:       stripe.ErrCodeAmountTooSmall,
			StatusCode: 400,
		}
	}

	_, err := f.service.Capture(context.Background(), 501, "pi_123")
	require.Error(t, err)

	svcErr, ok := application.IsServiceError(err)
	require.True(t, ok)
	assert.Nil(t, svcErr.Details["minimum_amount"])
	assert.Equal(t, "XYZ", svcErr.Details["minimum_amount_currency"])
}

func TestCapture_RemoteFailurePreservesMessage(t *testing.T) {
	f := newCaptureFixture()
	f.orders.Put(testhelpers.PendingOrder(501))

	f.client.GetPaymentIntentFn = func(_ context.Context, intentID string) (*stripe.PaymentIntent, error) {
		return requiresCaptureIntent(intentID), nil
	}
	f.client.CapturePaymentIntentFn = func(_ context.Context, _ string) (*stripe.PaymentIntent, error) {
		return nil, &stripe.APIError{Type: "card_error", Message: "Your card was declined.", StatusCode: 402}
	}

	_, err := f.service.Capture(context.Background(), 501, "pi_123")
	require.Error(t, err)

	svcErr, ok := application.IsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, application.ErrCodeCaptureFailed, svcErr.Code)
	assert.Equal(t, "Payment capture failed to complete with the following message: Your card was declined.", svcErr.Message)
}

func TestCapture_MissingStatusIsUnknownError(t *testing.T) {
	f := newCaptureFixture()
	f.orders.Put(testhelpers.PendingOrder(501))

	f.client.GetPaymentIntentFn = func(_ context.Context, intentID string) (*stripe.PaymentIntent, error) {
		return requiresCaptureIntent(intentID), nil
	}
	f.client.CapturePaymentIntentFn = func(_ context.Context, intentID string) (*stripe.PaymentIntent, error) {
		return &stripe.PaymentIntent{ID: intentID}, nil
	}

	_, err := f.service.Capture(context.Background(), 501, "pi_123")
	require.Error(t, err)

	svcErr, ok := application.IsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, application.ErrCodeCaptureFailed, svcErr.Code)
	assert.Contains(t, svcErr.Message, "Unknown error")
}
