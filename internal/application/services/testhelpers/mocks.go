// Package testhelpers provides in-memory fakes and data factories for
// service-level tests.
package testhelpers

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/amara-dev/stripe-sync-gateway/internal/domain"
	"github.com/amara-dev/stripe-sync-gateway/internal/infrastructure/persistence/postgres"
	"github.com/amara-dev/stripe-sync-gateway/internal/stripe"
)

// MockStripeClient implements stripe.Client. Per-method Fn fields override
// behavior; unset methods fail loudly through the zero nil-map/nil-func panic
// so tests declare exactly what they expect to be called.
type MockStripeClient struct {
	GetCustomerFn             func(ctx context.Context, customerID string) (*stripe.Customer, error)
	CreateCustomerFn          func(ctx context.Context, params *stripe.CustomerParams) (*stripe.Customer, error)
	UpdateCustomerFn          func(ctx context.Context, customerID string, params *stripe.CustomerParams) (*stripe.Customer, error)
	SearchCustomersFn         func(ctx context.Context, query string) ([]stripe.Customer, error)
	ListPaymentMethodsFn      func(ctx context.Context, customerID string, methodType domain.MethodType, limit int) ([]stripe.PaymentMethod, error)
	GetPaymentMethodFn        func(ctx context.Context, paymentMethodID string) (*stripe.PaymentMethod, error)
	AttachPaymentMethodFn     func(ctx context.Context, customerID, paymentMethodID string) (*stripe.PaymentMethod, error)
	DetachPaymentMethodFn     func(ctx context.Context, paymentMethodID string) (*stripe.PaymentMethod, error)
	SetDefaultPaymentMethodFn func(ctx context.Context, customerID, paymentMethodID string) error
	SetDefaultSourceFn        func(ctx context.Context, customerID, sourceID string) error
	GetPaymentIntentFn        func(ctx context.Context, intentID string) (*stripe.PaymentIntent, error)
	CapturePaymentIntentFn    func(ctx context.Context, intentID string) (*stripe.PaymentIntent, error)

	// Calls counts invocations by method name.
	mu    sync.Mutex
	Calls map[string]int
}

func NewMockStripeClient() *MockStripeClient {
	return &MockStripeClient{Calls: make(map[string]int)}
}

func (m *MockStripeClient) record(method string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls[method]++
}

func (m *MockStripeClient) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls[method]
}

func (m *MockStripeClient) GetCustomer(ctx context.Context, customerID string) (*stripe.Customer, error) {
	m.record("GetCustomer")
	return m.GetCustomerFn(ctx, customerID)
}

func (m *MockStripeClient) CreateCustomer(ctx context.Context, params *stripe.CustomerParams) (*stripe.Customer, error) {
	m.record("CreateCustomer")
	return m.CreateCustomerFn(ctx, params)
}

func (m *MockStripeClient) UpdateCustomer(ctx context.Context, customerID string, params *stripe.CustomerParams) (*stripe.Customer, error) {
	m.record("UpdateCustomer")
	return m.UpdateCustomerFn(ctx, customerID, params)
}

func (m *MockStripeClient) SearchCustomers(ctx context.Context, query string) ([]stripe.Customer, error) {
	m.record("SearchCustomers")
	return m.SearchCustomersFn(ctx, query)
}

func (m *MockStripeClient) ListPaymentMethods(ctx context.Context, customerID string, methodType domain.MethodType, limit int) ([]stripe.PaymentMethod, error) {
	m.record("ListPaymentMethods")
	return m.ListPaymentMethodsFn(ctx, customerID, methodType, limit)
}

func (m *MockStripeClient) GetPaymentMethod(ctx context.Context, paymentMethodID string) (*stripe.PaymentMethod, error) {
	m.record("GetPaymentMethod")
	return m.GetPaymentMethodFn(ctx, paymentMethodID)
}

func (m *MockStripeClient) AttachPaymentMethod(ctx context.Context, customerID, paymentMethodID string) (*stripe.PaymentMethod, error) {
	m.record("AttachPaymentMethod")
	return m.AttachPaymentMethodFn(ctx, customerID, paymentMethodID)
}

func (m *MockStripeClient) DetachPaymentMethod(ctx context.Context, paymentMethodID string) (*stripe.PaymentMethod, error) {
	m.record("DetachPaymentMethod")
	return m.DetachPaymentMethodFn(ctx, paymentMethodID)
}

func (m *MockStripeClient) SetDefaultPaymentMethod(ctx context.Context, customerID, paymentMethodID string) error {
	m.record("SetDefaultPaymentMethod")
	return m.SetDefaultPaymentMethodFn(ctx, customerID, paymentMethodID)
}

func (m *MockStripeClient) SetDefaultSource(ctx context.Context, customerID, sourceID string) error {
	m.record("SetDefaultSource")
	return m.SetDefaultSourceFn(ctx, customerID, sourceID)
}

func (m *MockStripeClient) GetPaymentIntent(ctx context.Context, intentID string) (*stripe.PaymentIntent, error) {
	m.record("GetPaymentIntent")
	return m.GetPaymentIntentFn(ctx, intentID)
}

func (m *MockStripeClient) CapturePaymentIntent(ctx context.Context, intentID string) (*stripe.PaymentIntent, error) {
	m.record("CapturePaymentIntent")
	return m.CapturePaymentIntentFn(ctx, intentID)
}

// MockOrderRepository is an in-memory order store.
type MockOrderRepository struct {
	mu     sync.RWMutex
	orders map[int64]*domain.Order

	FindByIDFn func(ctx context.Context, id int64) (*domain.Order, error)
	UpdateFn   func(ctx context.Context, order *domain.Order) error
}

func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{orders: make(map[int64]*domain.Order)}
}

func (m *MockOrderRepository) Put(order *domain.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[order.ID] = order
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	if m.FindByIDFn != nil {
		return m.FindByIDFn(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if o, ok := m.orders[id]; ok {
		return o, nil
	}
	return nil, postgres.ErrOrderNotFound
}

func (m *MockOrderRepository) Update(ctx context.Context, order *domain.Order) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, order)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[order.ID]; !ok {
		return postgres.ErrOrderNotFound
	}
	m.orders[order.ID] = order
	return nil
}

// MockTokenRepository is an in-memory token store.
type MockTokenRepository struct {
	mu     sync.RWMutex
	tokens map[uuid.UUID]*domain.PaymentToken

	CreateFn func(ctx context.Context, token *domain.PaymentToken) error
	UpdateFn func(ctx context.Context, token *domain.PaymentToken) error
	DeleteFn func(ctx context.Context, id uuid.UUID) error
}

func NewMockTokenRepository() *MockTokenRepository {
	return &MockTokenRepository{tokens: make(map[uuid.UUID]*domain.PaymentToken)}
}

func (m *MockTokenRepository) Put(token *domain.PaymentToken) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[token.ID] = token
}

func (m *MockTokenRepository) All() []*domain.PaymentToken {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.PaymentToken, 0, len(m.tokens))
	for _, t := range m.tokens {
		out = append(out, t)
	}
	return out
}

func (m *MockTokenRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.PaymentToken, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if t, ok := m.tokens[id]; ok {
		return t, nil
	}
	return nil, postgres.ErrTokenNotFound
}

func (m *MockTokenRepository) FindByUser(ctx context.Context, userID int64, gatewayID string) ([]*domain.PaymentToken, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.PaymentToken
	for _, t := range m.tokens {
		if t.UserID != userID {
			continue
		}
		if gatewayID != "" && t.GatewayID != gatewayID {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (m *MockTokenRepository) Create(ctx context.Context, token *domain.PaymentToken) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, token)
	}
	m.Put(token)
	return nil
}

func (m *MockTokenRepository) Update(ctx context.Context, token *domain.PaymentToken) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, token)
	}
	m.Put(token)
	return nil
}

func (m *MockTokenRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, id)
	return nil
}

// MockCustomerRepository is an in-memory user -> customer id map.
type MockCustomerRepository struct {
	mu  sync.RWMutex
	ids map[int64]string
}

func NewMockCustomerRepository() *MockCustomerRepository {
	return &MockCustomerRepository{ids: make(map[int64]string)}
}

func (m *MockCustomerRepository) Put(userID int64, customerID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ids[userID] = customerID
}

func (m *MockCustomerRepository) CustomerIDByUser(ctx context.Context, userID int64) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ids[userID], nil
}

func (m *MockCustomerRepository) SaveCustomerID(ctx context.Context, userID int64, customerID string) error {
	m.Put(userID, customerID)
	return nil
}

func (m *MockCustomerRepository) DeleteCustomerID(ctx context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.ids, userID)
	return nil
}
