package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/amara-dev/stripe-sync-gateway/internal/application"
	"github.com/amara-dev/stripe-sync-gateway/internal/cache"
	"github.com/amara-dev/stripe-sync-gateway/internal/domain"
	"github.com/amara-dev/stripe-sync-gateway/internal/infrastructure/persistence/postgres"
	"github.com/amara-dev/stripe-sync-gateway/internal/stripe"
)

// CustomerService reconciles local identities with remote customer records.
// It owns the single-valued user -> customer id association and recovers from
// remote-side drift by recreating customers that no longer exist.
type CustomerService struct {
	client         stripe.Client
	customers      application.CustomerRepository
	orders         application.OrderRepository
	methodCache    *cache.MethodListCache
	requiredFields RequiredFieldsPolicy
	metadata       MetadataPolicy
	listLimit      int
	logger         *slog.Logger
}

func NewCustomerService(
	client stripe.Client,
	customers application.CustomerRepository,
	orders application.OrderRepository,
	methodCache *cache.MethodListCache,
	requiredFields RequiredFieldsPolicy,
	metadata MetadataPolicy,
	listLimit int,
	logger *slog.Logger,
) *CustomerService {
	return &CustomerService{
		client:         client,
		customers:      customers,
		orders:         orders,
		methodCache:    methodCache,
		requiredFields: requiredFields,
		metadata:       metadata,
		listLimit:      listLimit,
		logger:         logger,
	}
}

// BuildParams produces the customer payload for an identity. Used for both
// creation and update.
func (s *CustomerService) BuildParams(identity domain.Identity) *stripe.CustomerParams {
	billing := identity.Billing
	name := billing.FullName()

	var description string
	if identity.Username != "" {
		description = fmt.Sprintf("Name: %s, Username: %s", name, identity.Username)
	} else {
		description = fmt.Sprintf("Name: %s, Guest", name)
	}

	email := billing.Email
	if email == "" {
		email = identity.Email
	}

	params := &stripe.CustomerParams{
		Name:             name,
		Email:            email,
		Phone:            billing.Phone,
		Description:      description,
		PreferredLocales: []string{preferredLocale(identity.Locale)},
		Metadata:         s.metadata.Enrich(identity, map[string]string{}),
		Address: &stripe.Address{
			Line1:      billing.Address.Line1,
			Line2:      billing.Address.Line2,
			City:       billing.Address.City,
			State:      billing.Address.State,
			PostalCode: billing.Address.PostalCode,
			Country:    billing.Address.Country,
		},
	}

	if identity.Shipping.Address.PostalCode != "" {
		shipping := identity.Shipping
		params.Shipping = &stripe.ShippingDetails{
			Name: shipping.FullName(),
			Address: stripe.Address{
				Line1:      shipping.Address.Line1,
				Line2:      shipping.Address.Line2,
				City:       shipping.Address.City,
				State:      shipping.Address.State,
				PostalCode: shipping.Address.PostalCode,
				Country:    shipping.Address.Country,
			},
		}
	}

	return params
}

// EnsureCustomer returns a valid remote customer id for the identity. A
// cached id is verified against the remote side; "no such customer" drift
// discards it and recreates once. Any other remote error is fatal.
func (s *CustomerService) EnsureCustomer(ctx context.Context, identity domain.Identity, customerID string, params *stripe.CustomerParams) (string, error) {
	if customerID == "" && !identity.IsGuest() {
		cached, err := s.customers.CustomerIDByUser(ctx, identity.UserID)
		if err != nil {
			return "", application.NewInternalError(err)
		}
		customerID = cached
	}

	if customerID == "" {
		return s.CreateCustomer(ctx, identity, params)
	}

	remote, err := s.client.GetCustomer(ctx, customerID)
	if err != nil {
		if stripe.IsNoSuchCustomer(err) {
			// Switching the remote account or importing users from another
			// site leaves a dangling id. Recreate the customer.
			s.logger.Warn("remote customer missing, recreating",
				"user_id", identity.UserID,
				"customer_id", customerID,
			)
			return s.recreateCustomer(ctx, identity, params)
		}
		return "", err
	}

	return remote.ID, nil
}

// CreateCustomer creates a remote customer for the identity and caches the
// id locally. For guests with both email and name, an existing remote
// customer with the same name and email is updated instead of duplicated.
func (s *CustomerService) CreateCustomer(ctx context.Context, identity domain.Identity, params *stripe.CustomerParams) (string, error) {
	var existing *stripe.Customer
	if identity.IsGuest() && params.Email != "" && params.Name != "" {
		existing = s.findExistingCustomer(ctx, params.Email, params.Name)
	}

	var (
		remote *stripe.Customer
		err    error
	)
	if existing == nil {
		if err := s.validateCreateParams(params); err != nil {
			return "", err
		}
		remote, err = s.client.CreateCustomer(ctx, params)
	} else {
		remote, err = s.client.UpdateCustomer(ctx, existing.ID, params)
	}
	if err != nil {
		return "", err
	}

	if !identity.IsGuest() {
		if err := s.customers.SaveCustomerID(ctx, identity.UserID, remote.ID); err != nil {
			return "", application.NewInternalError(err)
		}
	}
	s.methodCache.Invalidate(remote.ID)

	s.logger.Info("remote customer created",
		"user_id", identity.UserID,
		"customer_id", remote.ID,
		"reused_existing", existing != nil,
	)

	return remote.ID, nil
}

// UpdateCustomer updates the remote customer behind customerID. On "no such
// customer" drift the customer is recreated and the update retried exactly
// once; a second identical failure is fatal.
func (s *CustomerService) UpdateCustomer(ctx context.Context, identity domain.Identity, customerID string, params *stripe.CustomerParams) (string, error) {
	return s.updateCustomer(ctx, identity, customerID, params, false)
}

func (s *CustomerService) updateCustomer(ctx context.Context, identity domain.Identity, customerID string, params *stripe.CustomerParams, isRetry bool) (string, error) {
	if customerID == "" {
		return "", domain.NewCustomerIDRequiredError()
	}

	remote, err := s.client.UpdateCustomer(ctx, customerID, params)
	if err != nil {
		if stripe.IsNoSuchCustomer(err) && !isRetry {
			newID, recreateErr := s.recreateCustomer(ctx, identity, params)
			if recreateErr != nil {
				return "", recreateErr
			}
			return s.updateCustomer(ctx, identity, newID, params, true)
		}
		return "", err
	}

	s.methodCache.Invalidate(remote.ID)
	return remote.ID, nil
}

// ReconcileOrderCustomer produces a remote customer id for an order: orders
// may not be completed, cancelled, refunded or failed; the resulting id is
// persisted on the order.
func (s *CustomerService) ReconcileOrderCustomer(ctx context.Context, orderID int64) (string, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, postgres.ErrOrderNotFound) {
			return "", application.NewOrderNotFoundError(orderID)
		}
		return "", application.NewInternalError(err)
	}

	if order.HasStatus(domain.OrderCompleted, domain.OrderCancelled, domain.OrderRefunded, domain.OrderFailed) {
		return "", application.NewInvalidOrderStatusError(string(order.Status))
	}

	identity := order.Identity()

	customerID := ""
	if !identity.IsGuest() {
		cached, err := s.customers.CustomerIDByUser(ctx, identity.UserID)
		if err != nil {
			return "", application.NewInternalError(err)
		}
		customerID = cached
	}
	if customerID == "" {
		customerID = order.StripeCustomerID
	}

	params := s.BuildParams(identity)

	var resultID string
	if customerID != "" {
		resultID, err = s.UpdateCustomer(ctx, identity, customerID, params)
	} else {
		resultID, err = s.CreateCustomer(ctx, identity, params)
	}
	if err != nil {
		return "", err
	}

	order.StripeCustomerID = resultID
	if err := s.orders.Update(ctx, order); err != nil {
		return "", application.NewInternalError(err)
	}

	return resultID, nil
}

// PaymentMethods lists the customer's remote payment methods of one type,
// through the time-boxed cache.
func (s *CustomerService) PaymentMethods(ctx context.Context, customerID string, methodType domain.MethodType) ([]stripe.PaymentMethod, error) {
	if customerID == "" {
		return nil, nil
	}

	if methods, ok := s.methodCache.Get(customerID, methodType); ok {
		return methods, nil
	}

	methods, err := s.client.ListPaymentMethods(ctx, customerID, methodType, s.listLimit)
	if err != nil {
		return nil, err
	}

	s.methodCache.Set(customerID, methodType, methods)
	return methods, nil
}

// AttachPaymentMethod attaches a payment method to the identity's customer,
// creating or recreating the customer as needed. An "already attached" error
// is success-equivalent: the existing attachment is fetched and returned.
func (s *CustomerService) AttachPaymentMethod(ctx context.Context, identity domain.Identity, customerID, paymentMethodID string) (*stripe.PaymentMethod, error) {
	if customerID == "" {
		created, err := s.CreateCustomer(ctx, identity, s.BuildParams(identity))
		if err != nil {
			return nil, err
		}
		customerID = created
	}

	attached, err := s.client.AttachPaymentMethod(ctx, customerID, paymentMethodID)
	if err != nil {
		switch {
		case stripe.IsNoSuchCustomer(err):
			recreated, recreateErr := s.recreateCustomer(ctx, identity, s.BuildParams(identity))
			if recreateErr != nil {
				return nil, recreateErr
			}
			attached, err = s.client.AttachPaymentMethod(ctx, recreated, paymentMethodID)
			if err != nil {
				return nil, err
			}
		case stripe.IsAlreadyAttached(err):
			attached, err = s.client.GetPaymentMethod(ctx, paymentMethodID)
			if err != nil {
				return nil, err
			}
		default:
			return nil, err
		}
	}

	s.methodCache.Invalidate(customerID)
	return attached, nil
}

// DetachPaymentMethod detaches a payment method from the remote customer.
func (s *CustomerService) DetachPaymentMethod(ctx context.Context, customerID, paymentMethodID string) error {
	if customerID == "" {
		return nil
	}

	_, err := s.client.DetachPaymentMethod(ctx, paymentMethodID)
	s.methodCache.Invalidate(customerID)
	if err != nil {
		return err
	}
	return nil
}

// SetDefaultPaymentMethod marks a payment method as the customer's default.
// Legacy "src_" ids set the default source instead.
func (s *CustomerService) SetDefaultPaymentMethod(ctx context.Context, customerID, paymentMethodID string) error {
	var err error
	switch {
	case strings.HasPrefix(paymentMethodID, "pm_"):
		err = s.client.SetDefaultPaymentMethod(ctx, customerID, paymentMethodID)
	case strings.HasPrefix(paymentMethodID, "src_"):
		err = s.client.SetDefaultSource(ctx, customerID, paymentMethodID)
	}
	s.methodCache.Invalidate(customerID)
	return err
}

// recreateCustomer discards the cached association and creates a fresh
// remote customer. Used for drift recovery; callers bound the retry.
func (s *CustomerService) recreateCustomer(ctx context.Context, identity domain.Identity, params *stripe.CustomerParams) (string, error) {
	if !identity.IsGuest() {
		if err := s.customers.DeleteCustomerID(ctx, identity.UserID); err != nil {
			return "", application.NewInternalError(err)
		}
	}
	return s.CreateCustomer(ctx, identity, params)
}

// findExistingCustomer searches the remote account for an exact name+email
// match. Search failures fall back to creating a new customer.
func (s *CustomerService) findExistingCustomer(ctx context.Context, email, name string) *stripe.Customer {
	query := fmt.Sprintf("name:'%s' AND email:'%s'", name, email)
	matches, err := s.client.SearchCustomers(ctx, query)
	if err != nil {
		s.logger.Warn("customer search failed", "error", err)
		return nil
	}
	if len(matches) == 0 {
		return nil
	}
	return &matches[0]
}

// validateCreateParams checks the payload against the required-field policy
// before any network call is made.
func (s *CustomerService) validateCreateParams(params *stripe.CustomerParams) error {
	required := s.requiredFields.RequiredFields()

	if required.Email && strings.TrimSpace(params.Email) == "" {
		return domain.NewMissingRequiredFieldError("email")
	}
	if required.Name && strings.TrimSpace(params.Name) == "" {
		return domain.NewMissingRequiredFieldError("name")
	}

	if len(required.Address) > 0 {
		if params.Address == nil {
			return domain.NewMissingRequiredFieldError("address")
		}
		addressFields := map[string]string{
			"line1":       params.Address.Line1,
			"line2":       params.Address.Line2,
			"city":        params.Address.City,
			"state":       params.Address.State,
			"postal_code": params.Address.PostalCode,
			"country":     params.Address.Country,
		}
		for _, field := range required.Address {
			if strings.TrimSpace(addressFields[field]) == "" {
				return domain.NewMissingRequiredFieldError("address->" + field)
			}
		}
	}

	return nil
}
