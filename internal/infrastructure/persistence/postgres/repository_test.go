package postgres_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/amara-dev/stripe-sync-gateway/internal/application/services/testhelpers"
	"github.com/amara-dev/stripe-sync-gateway/internal/domain"
	"github.com/amara-dev/stripe-sync-gateway/internal/infrastructure/persistence"
	"github.com/amara-dev/stripe-sync-gateway/internal/infrastructure/persistence/postgres"
)

type RepositoryTestSuite struct {
	suite.Suite
	testDB       *testhelpers.TestDatabase
	orderRepo    *postgres.OrderRepository
	tokenRepo    *postgres.TokenRepository
	customerRepo *postgres.CustomerRepository
}

func TestRepositorySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container-backed tests in short mode")
	}
	suite.Run(t, new(RepositoryTestSuite))
}

func (suite *RepositoryTestSuite) SetupSuite() {
	suite.testDB = testhelpers.SetupTestDatabase(suite.T())
	suite.orderRepo = postgres.NewOrderRepository(suite.testDB.DB.Pool)
	suite.tokenRepo = postgres.NewTokenRepository(suite.testDB.DB.Pool)
	suite.customerRepo = postgres.NewCustomerRepository(suite.testDB.DB.Pool)
}

func (suite *RepositoryTestSuite) TearDownSuite() {
	suite.testDB.Cleanup(suite.T())
}

func (suite *RepositoryTestSuite) TearDownTest() {
	suite.testDB.CleanTables(suite.T())
}

func (suite *RepositoryTestSuite) insertOrder(t *testing.T, order *domain.Order) int64 {
	ctx := context.Background()

	var id int64
	err := suite.testDB.DB.Pool.QueryRow(ctx, `
		INSERT INTO orders (
			status, currency, total, total_refunded, user_id,
			billing_first_name, billing_last_name, billing_email,
			billing_line1, billing_city, billing_postal_code, billing_country
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`,
		order.Status, order.Currency, order.Total, order.TotalRefunded, order.UserID,
		order.Billing.FirstName, order.Billing.LastName, order.Billing.Email,
		order.Billing.Address.Line1, order.Billing.Address.City,
		order.Billing.Address.PostalCode, order.Billing.Address.Country,
	).Scan(&id)
	require.NoError(t, err)
	return id
}

func (suite *RepositoryTestSuite) Test_OrderRepository_FindAndUpdate() {
	ctx := context.Background()
	t := suite.T()

	id := suite.insertOrder(t, testhelpers.PendingOrder(0))

	order, err := suite.orderRepo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderPending, order.Status)
	assert.Equal(t, "USD", order.Currency)
	assert.True(t, decimal.NewFromInt(100).Equal(order.Total))
	assert.Equal(t, "Jane", order.Billing.FirstName)

	order.Status = domain.OrderCompleted
	order.StripeCustomerID = "cus_1"
	order.PaymentMethod = "stripe"
	order.PaymentMethodTitle = "Stripe In-Person Payments"
	order.PaymentIntentID = "pi_1"
	require.NoError(t, suite.orderRepo.Update(ctx, order))

	saved, err := suite.orderRepo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderCompleted, saved.Status)
	assert.Equal(t, "cus_1", saved.StripeCustomerID)
	assert.Equal(t, "pi_1", saved.PaymentIntentID)
}

func (suite *RepositoryTestSuite) Test_OrderRepository_NotFound() {
	ctx := context.Background()
	t := suite.T()

	_, err := suite.orderRepo.FindByID(ctx, 424242)
	assert.ErrorIs(t, err, postgres.ErrOrderNotFound)

	err = suite.orderRepo.Update(ctx, testhelpers.PendingOrder(424242))
	assert.ErrorIs(t, err, postgres.ErrOrderNotFound)
}

func (suite *RepositoryTestSuite) Test_TokenRepository_CRUD() {
	ctx := context.Background()
	t := suite.T()

	token := testhelpers.CardToken(42, "pm_1", "fp_1")
	require.NoError(t, suite.tokenRepo.Create(ctx, token))

	found, err := suite.tokenRepo.FindByID(ctx, token.ID)
	require.NoError(t, err)
	assert.Equal(t, "pm_1", found.TokenID)
	assert.Equal(t, domain.MethodCard, found.Type)
	assert.Equal(t, "visa", found.Brand)

	found.TokenID = "pm_renewed"
	require.NoError(t, suite.tokenRepo.Update(ctx, found))

	listed, err := suite.tokenRepo.FindByUser(ctx, 42, "stripe")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "pm_renewed", listed[0].TokenID)

	require.NoError(t, suite.tokenRepo.Delete(ctx, token.ID))
	_, err = suite.tokenRepo.FindByID(ctx, token.ID)
	assert.ErrorIs(t, err, postgres.ErrTokenNotFound)
}

func (suite *RepositoryTestSuite) Test_TokenRepository_FindByUserFiltersGateway() {
	ctx := context.Background()
	t := suite.T()

	card := testhelpers.CardToken(42, "pm_card", "fp_card")
	require.NoError(t, suite.tokenRepo.Create(ctx, card))

	sepa := testhelpers.CardToken(42, "pm_sepa", "fp_sepa")
	sepa.ID = uuid.New()
	sepa.GatewayID = "stripe_sepa_debit"
	sepa.Type = domain.MethodSEPADebit
	require.NoError(t, suite.tokenRepo.Create(ctx, sepa))

	other := testhelpers.CardToken(7, "pm_other", "fp_other")
	other.ID = uuid.New()
	require.NoError(t, suite.tokenRepo.Create(ctx, other))

	all, err := suite.tokenRepo.FindByUser(ctx, 42, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	cards, err := suite.tokenRepo.FindByUser(ctx, 42, "stripe")
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "pm_card", cards[0].TokenID)
}

func (suite *RepositoryTestSuite) Test_TokenRepository_UniqueTokenPerGateway() {
	ctx := context.Background()
	t := suite.T()

	first := testhelpers.CardToken(42, "pm_dup", "fp_1")
	require.NoError(t, suite.tokenRepo.Create(ctx, first))

	second := testhelpers.CardToken(42, "pm_dup", "fp_1")
	second.ID = uuid.New()
	err := suite.tokenRepo.Create(ctx, second)
	require.Error(t, err)
	assert.True(t, persistence.IsUniqueViolation(err))
}

func (suite *RepositoryTestSuite) Test_CustomerRepository_SaveOverwrites() {
	ctx := context.Background()
	t := suite.T()

	id, err := suite.customerRepo.CustomerIDByUser(ctx, 42)
	require.NoError(t, err)
	assert.Empty(t, id)

	require.NoError(t, suite.customerRepo.SaveCustomerID(ctx, 42, "cus_first"))
	require.NoError(t, suite.customerRepo.SaveCustomerID(ctx, 42, "cus_second"))

	id, err = suite.customerRepo.CustomerIDByUser(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "cus_second", id)

	require.NoError(t, suite.customerRepo.DeleteCustomerID(ctx, 42))
	id, err = suite.customerRepo.CustomerIDByUser(ctx, 42)
	require.NoError(t, err)
	assert.Empty(t, id)
}
