package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/amara-dev/stripe-sync-gateway/internal/application"
	"github.com/amara-dev/stripe-sync-gateway/internal/config"
	"github.com/amara-dev/stripe-sync-gateway/internal/domain"
	"github.com/amara-dev/stripe-sync-gateway/internal/stripe"
)

// TokenService reconciles locally stored payment tokens against the remote
// account's live payment methods. Sync is idempotent: with no remote changes,
// a second run creates and deletes nothing.
type TokenService struct {
	customers   *CustomerService
	customerIDs application.CustomerRepository
	tokens      application.TokenRepository
	cfg         config.SyncConfig
	logger      *slog.Logger
}

func NewTokenService(
	customers *CustomerService,
	customerIDs application.CustomerRepository,
	tokens application.TokenRepository,
	cfg config.SyncConfig,
	logger *slog.Logger,
) *TokenService {
	return &TokenService{
		customers:   customers,
		customerIDs: customerIDs,
		tokens:      tokens,
		cfg:         cfg,
		logger:      logger,
	}
}

// Sync returns the user's payment tokens after reconciling them with the
// remote side: missing tokens are created, stale and deprecated ones are
// deleted, and duplicate instruments keep a single token. Remote errors leave
// the local set untouched.
func (s *TokenService) Sync(ctx context.Context, userID int64, gatewayFilter string) ([]*domain.PaymentToken, error) {
	tokens, err := s.tokens.FindByUser(ctx, userID, gatewayFilter)
	if err != nil {
		return nil, application.NewInternalError(err)
	}

	if userID == 0 {
		return tokens, nil
	}
	if gatewayFilter != "" && !domain.IsReusableGateway(gatewayFilter) {
		return tokens, nil
	}

	// The remote listing is capped at one page. Users holding at least a
	// page of tokens are not synchronized further.
	if len(tokens) >= s.cfg.PageLimit {
		return tokens, nil
	}

	synced, err := s.reconcile(ctx, userID, gatewayFilter, tokens)
	if err != nil {
		// Synchronization is best-effort: a remote failure must never
		// corrupt local state, so the stored set is returned as-is.
		s.logger.Error("token sync aborted", "user_id", userID, "error", err)
		return tokens, nil
	}
	return synced, nil
}

func (s *TokenService) reconcile(ctx context.Context, userID int64, gatewayFilter string, tokens []*domain.PaymentToken) ([]*domain.PaymentToken, error) {
	// stored holds reusable-gateway tokens pending remote confirmation,
	// keyed by remote id. deprecated collects tokens that can no longer
	// charge under the current integration.
	stored := make(map[string]*domain.PaymentToken)
	var deprecated []*domain.PaymentToken

	result := make(map[uuid.UUID]*domain.PaymentToken, len(tokens))
	for _, token := range tokens {
		result[token.ID] = token

		if !domain.IsReusableGateway(token.GatewayID) {
			continue
		}
		if token.Deprecated() {
			deprecated = append(deprecated, token)
			continue
		}
		stored[token.TokenID] = token
	}

	customerID, err := s.customerIDs.CustomerIDByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	methods, err := s.fetchRemoteMethods(ctx, customerID)
	if err != nil {
		return nil, err
	}

	fetchedIDs := make(map[string]bool, len(methods))
	for _, pm := range methods {
		fetchedIDs[pm.ID] = true
	}

	enabled := s.enabledMethods()

	for i := range methods {
		pm := &methods[i]
		if pm.Type == "" {
			continue
		}

		originating := pm.OriginatingType()
		if !enabled[originating] {
			continue
		}

		if _, known := stored[pm.ID]; known {
			// Still live remotely; keep it.
			delete(stored, pm.ID)
			continue
		}

		if !domain.IsValidPaymentMethodID(pm.ID, originating) {
			continue
		}

		gatewayID := domain.ReusableGatewayByMethod[originating]
		if gatewayFilter != "" && gatewayID != gatewayFilter {
			continue
		}

		if dup := findDuplicate(result, originating, gatewayID, pm); dup != nil {
			if dup.TokenID != pm.ID {
				delete(stored, dup.TokenID)
				dup.TokenID = pm.ID
				dup.UpdatedAt = time.Now()
				if err := s.tokens.Update(ctx, dup); err != nil {
					return nil, err
				}
			}
			continue
		}

		token := newTokenFromMethod(pm, originating, gatewayID, userID)
		if err := s.tokens.Create(ctx, token); err != nil {
			return nil, err
		}
		result[token.ID] = token
	}

	// Whatever was never re-confirmed no longer exists remotely.
	for _, token := range stored {
		if err := s.tokens.Delete(ctx, token.ID); err != nil {
			return nil, err
		}
		delete(result, token.ID)
	}
	for _, token := range deprecated {
		if err := s.tokens.Delete(ctx, token.ID); err != nil {
			return nil, err
		}
		delete(result, token.ID)
	}

	out := make([]*domain.PaymentToken, 0, len(result))
	for _, token := range result {
		out = append(out, token)
	}
	return out, nil
}

// DeleteToken removes a local token and detaches its remote counterpart for
// reusable gateways. Remote detach failures are logged, not raised; the
// local deletion stands.
func (s *TokenService) DeleteToken(ctx context.Context, token *domain.PaymentToken) error {
	if err := s.tokens.Delete(ctx, token.ID); err != nil {
		return application.NewInternalError(err)
	}

	if !domain.IsReusableGateway(token.GatewayID) {
		return nil
	}

	customerID, err := s.customerIDs.CustomerIDByUser(ctx, token.UserID)
	if err != nil || customerID == "" {
		return nil
	}
	if err := s.customers.DetachPaymentMethod(ctx, customerID, token.TokenID); err != nil {
		s.logger.Error("failed to detach remote payment method",
			"user_id", token.UserID,
			"payment_method_id", token.TokenID,
			"error", err,
		)
	}
	return nil
}

// fetchRemoteMethods lists the live payment methods for every enabled
// reusable type, plus SEPA when it backs enabled dependent APMs.
func (s *TokenService) fetchRemoteMethods(ctx context.Context, customerID string) ([]stripe.PaymentMethod, error) {
	enabled := s.enabledMethods()

	var methods []stripe.PaymentMethod
	for methodType := range domain.ReusableGatewayByMethod {
		if !enabled[methodType] {
			continue
		}
		// iDEAL, Bancontact and Sofort instruments cannot be listed
		// directly; they surface through the SEPA list below.
		if methodType == domain.MethodIdeal || methodType == domain.MethodBancontact || methodType == domain.MethodSofort {
			continue
		}
		fetched, err := s.customers.PaymentMethods(ctx, customerID, methodType)
		if err != nil {
			return nil, err
		}
		methods = append(methods, fetched...)
	}

	// iDEAL and Bancontact instruments are stored remotely as SEPA, so the
	// SEPA list must be fetched even when SEPA itself is disabled.
	if s.cfg.SEPATokensForOtherMethods &&
		!enabled[domain.MethodSEPADebit] &&
		(enabled[domain.MethodIdeal] || enabled[domain.MethodBancontact]) {
		fetched, err := s.customers.PaymentMethods(ctx, customerID, domain.MethodSEPADebit)
		if err != nil {
			return nil, err
		}
		methods = append(methods, fetched...)
	}

	return methods, nil
}

func (s *TokenService) enabledMethods() map[domain.MethodType]bool {
	enabled := make(map[domain.MethodType]bool, len(s.cfg.EnabledMethods))
	for _, m := range s.cfg.EnabledMethods {
		enabled[domain.MethodType(m)] = true
	}
	return enabled
}

// findDuplicate looks for an existing token representing the same underlying
// instrument as the payment method, for one user and gateway.
func findDuplicate(tokens map[uuid.UUID]*domain.PaymentToken, methodType domain.MethodType, gatewayID string, pm *stripe.PaymentMethod) *domain.PaymentToken {
	for _, token := range tokens {
		if token.GatewayID != gatewayID || token.Type != methodType {
			continue
		}
		if sameInstrument(token, methodType, pm) {
			return token
		}
	}
	return nil
}

// sameInstrument compares the type-specific identifying fields of a token and
// a remote payment method.
func sameInstrument(token *domain.PaymentToken, methodType domain.MethodType, pm *stripe.PaymentMethod) bool {
	switch methodType {
	case domain.MethodCard:
		return pm.Card != nil && token.Fingerprint != "" && token.Fingerprint == pm.Card.Fingerprint
	case domain.MethodUSBankAccount:
		return pm.USBankAccount != nil && token.Fingerprint != "" && token.Fingerprint == pm.USBankAccount.Fingerprint
	case domain.MethodACSSDebit:
		return pm.ACSSDebit != nil && token.Fingerprint != "" && token.Fingerprint == pm.ACSSDebit.Fingerprint
	case domain.MethodBacsDebit:
		return pm.BacsDebit != nil && token.Fingerprint != "" && token.Fingerprint == pm.BacsDebit.Fingerprint
	case domain.MethodBECSDebit:
		return pm.BECSDebit != nil && token.Fingerprint != "" && token.Fingerprint == pm.BECSDebit.Fingerprint
	case domain.MethodLink:
		return pm.Link != nil && token.Email != "" && token.Email == pm.Link.Email
	case domain.MethodAmazonPay:
		return pm.BillingDetails != nil && token.Email != "" && token.Email == pm.BillingDetails.Email
	case domain.MethodCashApp:
		return pm.CashApp != nil && token.Cashtag != "" && token.Cashtag == pm.CashApp.Cashtag
	default:
		// Wrapped APMs share the SEPA fingerprint.
		return pm.SEPADebit != nil && token.Fingerprint != "" && token.Fingerprint == pm.SEPADebit.Fingerprint
	}
}

// newTokenFromMethod materializes a typed local token from a remote payment
// method, selecting the concrete shape by originating type.
func newTokenFromMethod(pm *stripe.PaymentMethod, methodType domain.MethodType, gatewayID string, userID int64) *domain.PaymentToken {
	now := time.Now()
	token := &domain.PaymentToken{
		ID:        uuid.New(),
		UserID:    userID,
		GatewayID: gatewayID,
		TokenID:   pm.ID,
		Type:      methodType,
		CreatedAt: now,
		UpdatedAt: now,
	}

	switch methodType {
	case domain.MethodCard:
		if pm.Card != nil {
			token.Brand = strings.ToLower(pm.Card.PreferredBrand())
			token.Last4 = pm.Card.Last4
			token.ExpiryMonth = pm.Card.ExpMonth
			token.ExpiryYear = pm.Card.ExpYear
			token.Fingerprint = pm.Card.Fingerprint
		}
	case domain.MethodLink:
		if pm.Link != nil {
			token.Email = pm.Link.Email
		}
	case domain.MethodAmazonPay:
		if pm.BillingDetails != nil {
			token.Email = pm.BillingDetails.Email
		}
	case domain.MethodUSBankAccount:
		if pm.USBankAccount != nil {
			token.Last4 = pm.USBankAccount.Last4
			token.Fingerprint = pm.USBankAccount.Fingerprint
			token.BankName = pm.USBankAccount.BankName
			token.AccountType = pm.USBankAccount.AccountType
		}
	case domain.MethodACSSDebit:
		if pm.ACSSDebit != nil {
			token.Last4 = pm.ACSSDebit.Last4
			token.Fingerprint = pm.ACSSDebit.Fingerprint
			token.BankName = pm.ACSSDebit.BankName
		}
	case domain.MethodBacsDebit:
		if pm.BacsDebit != nil {
			token.Last4 = pm.BacsDebit.Last4
			token.Fingerprint = pm.BacsDebit.Fingerprint
		}
	case domain.MethodBECSDebit:
		if pm.BECSDebit != nil {
			token.Last4 = pm.BECSDebit.Last4
			token.Fingerprint = pm.BECSDebit.Fingerprint
		}
	case domain.MethodCashApp:
		if pm.CashApp != nil {
			token.Cashtag = pm.CashApp.Cashtag
		}
	default:
		// iDEAL, Bancontact and Sofort tokens carry their SEPA wrapper's
		// bank details.
		if pm.SEPADebit != nil {
			token.Last4 = pm.SEPADebit.Last4
			token.Fingerprint = pm.SEPADebit.Fingerprint
			token.BankName = pm.SEPADebit.BankName
		}
	}

	return token
}
