package handlers_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amara-dev/stripe-sync-gateway/internal/application/services"
	"github.com/amara-dev/stripe-sync-gateway/internal/application/services/testhelpers"
	"github.com/amara-dev/stripe-sync-gateway/internal/cache"
	"github.com/amara-dev/stripe-sync-gateway/internal/config"
	"github.com/amara-dev/stripe-sync-gateway/internal/domain"
	"github.com/amara-dev/stripe-sync-gateway/internal/interfaces/rest/handlers"
	"github.com/amara-dev/stripe-sync-gateway/internal/stripe"
)

type fixture struct {
	client    *testhelpers.MockStripeClient
	orders    *testhelpers.MockOrderRepository
	tokens    *testhelpers.MockTokenRepository
	customers *testhelpers.MockCustomerRepository
	mux       *http.ServeMux
}

func newFixture() *fixture {
	client := testhelpers.NewMockStripeClient()
	orders := testhelpers.NewMockOrderRepository()
	tokens := testhelpers.NewMockTokenRepository()
	customers := testhelpers.NewMockCustomerRepository()
	logger := slog.New(slog.DiscardHandler)

	methodCache := cache.NewMethodListCache(config.CacheConfig{
		MethodListTTL:   time.Minute,
		CleanupInterval: 0,
	})

	syncCfg := config.SyncConfig{
		PageLimit:      100,
		EnabledMethods: []string{"card"},
	}

	customerService := services.NewCustomerService(
		client, customers, orders, methodCache,
		services.CheckoutRequiredFields{}, services.NoMetadata{},
		syncCfg.PageLimit, logger,
	)
	captureService := services.NewCaptureService(client, orders, logger)
	tokenService := services.NewTokenService(customerService, customers, tokens, syncCfg, logger)

	mux := http.NewServeMux()
	handlers.NewHandlers(customerService, captureService, tokenService, tokens, logger).Register(mux)

	return &fixture{
		client:    client,
		orders:    orders,
		tokens:    tokens,
		customers: customers,
		mux:       mux,
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func (f *fixture) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func TestCreateCustomer_Success(t *testing.T) {
	f := newFixture()
	f.orders.Put(testhelpers.PendingOrder(501))
	f.client.CreateCustomerFn = func(_ context.Context, _ *stripe.CustomerParams) (*stripe.Customer, error) {
		return testhelpers.RemoteCustomer("cus_body"), nil
	}

	rec, env := f.do(t, http.MethodPost, "/api/v1/orders/501/create_customer", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)

	var data struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "cus_body", data.ID)
}

func TestCreateCustomer_OrderNotFound(t *testing.T) {
	f := newFixture()

	rec, env := f.do(t, http.MethodPost, "/api/v1/orders/999/create_customer", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "ORDER_NOT_FOUND", env.Error.Code)
}

func TestCreateCustomer_InvalidOrderID(t *testing.T) {
	f := newFixture()

	rec, env := f.do(t, http.MethodPost, "/api/v1/orders/abc/create_customer", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_INPUT", env.Error.Code)
}

func TestCreateCustomer_TerminalOrderStatus(t *testing.T) {
	f := newFixture()
	order := testhelpers.PendingOrder(501)
	order.Status = domain.OrderCompleted
	f.orders.Put(order)

	rec, env := f.do(t, http.MethodPost, "/api/v1/orders/501/create_customer", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_ORDER_STATUS", env.Error.Code)
}

func TestCaptureTerminalPayment_Success(t *testing.T) {
	f := newFixture()
	f.orders.Put(testhelpers.PendingOrder(501))

	f.client.GetPaymentIntentFn = func(_ context.Context, intentID string) (*stripe.PaymentIntent, error) {
		return &stripe.PaymentIntent{ID: intentID, Status: stripe.IntentRequiresCapture, Currency: "usd"}, nil
	}
	f.client.CapturePaymentIntentFn = func(_ context.Context, intentID string) (*stripe.PaymentIntent, error) {
		return &stripe.PaymentIntent{ID: intentID, Status: stripe.IntentSucceeded}, nil
	}

	rec, env := f.do(t, http.MethodPost,
		"/api/v1/orders/501/capture_terminal_payment",
		`{"payment_intent_id": "pi_123"}`,
	)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)

	var data struct {
		Status string `json:"status"`
		ID     string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "succeeded", data.Status)
	assert.Equal(t, "pi_123", data.ID)
}

func TestCaptureTerminalPayment_MissingIntentID(t *testing.T) {
	f := newFixture()
	f.orders.Put(testhelpers.PendingOrder(501))

	rec, env := f.do(t, http.MethodPost, "/api/v1/orders/501/capture_terminal_payment", `{}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_INPUT", env.Error.Code)
	assert.Zero(t, f.client.CallCount("GetPaymentIntent"))
}

func TestCaptureTerminalPayment_AmountTooSmallDetail(t *testing.T) {
	f := newFixture()
	f.orders.Put(testhelpers.PendingOrder(501))

	f.client.GetPaymentIntentFn = func(_ context.Context, intentID string) (*stripe.PaymentIntent, error) {
		return &stripe.PaymentIntent{ID: intentID, Status: stripe.IntentRequiresCapture}, nil
	}
	f.client.CapturePaymentIntentFn = func(_ context.Context, _ string) (*stripe.PaymentIntent, error) {
		return nil, &stripe.APIError{
			Type:       stripe.ErrTypeInvalidRequest,
			Code:       stripe.ErrCodeAmountTooSmall,
			StatusCode: 400,
		}
	}

	rec, env := f.do(t, http.MethodPost,
		"/api/v1/orders/501/capture_terminal_payment",
		`{"payment_intent_id": "pi_123"}`,
	)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "CAPTURE_AMOUNT_TOO_SMALL", env.Error.Code)
	assert.Equal(t, float64(50), env.Error.Details["minimum_amount"])
	assert.Equal(t, "USD", env.Error.Details["minimum_amount_currency"])
}

func TestListPaymentTokens_SyncsAndReturns(t *testing.T) {
	f := newFixture()
	f.customers.Put(42, "cus_1")
	f.client.ListPaymentMethodsFn = func(_ context.Context, _ string, _ domain.MethodType, _ int) ([]stripe.PaymentMethod, error) {
		return []stripe.PaymentMethod{testhelpers.CardPaymentMethod("pm_1", "fp_1")}, nil
	}

	rec, env := f.do(t, http.MethodGet, "/api/v1/users/42/payment_tokens", "")

	assert.Equal(t, http.StatusOK, rec.Code)

	var data []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data, 1)
	assert.Equal(t, "pm_1", data[0]["token_id"])
	assert.Equal(t, "visa ending in 4242", data[0]["display_name"])
}

func TestDeletePaymentToken_NotFound(t *testing.T) {
	f := newFixture()

	rec, env := f.do(t, http.MethodDelete,
		"/api/v1/users/42/payment_tokens/"+uuid.NewString(), "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "TOKEN_NOT_FOUND", env.Error.Code)
}

func TestDeletePaymentToken_Success(t *testing.T) {
	f := newFixture()
	f.customers.Put(42, "cus_1")

	token := testhelpers.CardToken(42, "pm_del", "fp_del")
	f.tokens.Put(token)

	f.client.DetachPaymentMethodFn = func(_ context.Context, paymentMethodID string) (*stripe.PaymentMethod, error) {
		pm := testhelpers.CardPaymentMethod(paymentMethodID, "fp_del")
		return &pm, nil
	}

	rec, _ := f.do(t, http.MethodDelete, "/api/v1/users/42/payment_tokens/"+token.ID.String(), "")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, f.tokens.All())
}
