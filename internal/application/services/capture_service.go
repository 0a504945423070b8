package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/amara-dev/stripe-sync-gateway/internal/application"
	"github.com/amara-dev/stripe-sync-gateway/internal/domain"
	"github.com/amara-dev/stripe-sync-gateway/internal/infrastructure/persistence/postgres"
	"github.com/amara-dev/stripe-sync-gateway/internal/stripe"
)

// CaptureResult reports the outcome of a terminal payment capture.
type CaptureResult struct {
	Status string `json:"status"`
	ID     string `json:"id"`
}

// CaptureService finalizes in-person terminal payments: it verifies the
// payment intent is capturable, records the payment on the order, captures the
// funds and completes the order.
type CaptureService struct {
	client stripe.Client
	orders application.OrderRepository
	logger *slog.Logger
}

func NewCaptureService(client stripe.Client, orders application.OrderRepository, logger *slog.Logger) *CaptureService {
	return &CaptureService{
		client: client,
		orders: orders,
		logger: logger,
	}
}

// Capture runs the terminal capture pipeline for an order and payment intent.
// Refunded orders are rejected before any remote call is made.
func (s *CaptureService) Capture(ctx context.Context, orderID int64, paymentIntentID string) (*CaptureResult, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, postgres.ErrOrderNotFound) {
			return nil, application.NewOrderNotFoundError(orderID)
		}
		return nil, application.NewInternalError(err)
	}

	if order.HasRefund() {
		return nil, application.NewRefundedOrderUncapturableError()
	}

	intent, err := s.client.GetPaymentIntent(ctx, paymentIntentID)
	if err != nil {
		return nil, application.NewStripeError(err)
	}
	if intent.Status != stripe.IntentProcessing && intent.Status != stripe.IntentRequiresCapture {
		return nil, application.NewPaymentUncapturableError()
	}

	// Record the payment association up front so a capture that succeeds
	// remotely but fails locally still leaves a traceable order.
	order.PaymentMethod = domain.GatewayStripe
	order.PaymentMethodTitle = "Stripe In-Person Payments"
	order.PaymentIntentID = intent.ID
	if intent.Customer != "" {
		order.StripeCustomerID = intent.Customer
	}
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, application.NewInternalError(err)
	}

	captured, err := s.client.CapturePaymentIntent(ctx, intent.ID)
	if err != nil {
		return nil, s.captureError(order, err)
	}
	if captured.Status != stripe.IntentSucceeded {
		return nil, application.NewCaptureFailedError("")
	}

	order.Status = domain.OrderCompleted
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, application.NewInternalError(err)
	}

	s.logger.Info("captured terminal payment",
		"order_id", order.ID,
		"payment_intent_id", captured.ID,
	)
	return &CaptureResult{Status: string(captured.Status), ID: captured.ID}, nil
}

func (s *CaptureService) captureError(order *domain.Order, err error) error {
	if stripe.IsAmountTooSmall(err) {
		var minimum *int64
		if min, ok := domain.MinimumChargeAmount(order.Currency); ok {
			minimum = &min
		}
		return application.NewCaptureAmountTooSmallError(order.Currency, minimum)
	}

	if apiErr, ok := stripe.IsAPIError(err); ok {
		return application.NewCaptureFailedError(apiErr.Message)
	}
	return application.NewCaptureFailedError("")
}
