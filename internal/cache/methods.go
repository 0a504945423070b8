// Package cache holds the time-boxed store for remote payment method lists.
// Entries are best-effort: a miss or an expired entry just means "fetch again",
// and writers overwrite unconditionally.
package cache

import (
	gocache "github.com/patrickmn/go-cache"

	"github.com/amara-dev/stripe-sync-gateway/internal/config"
	"github.com/amara-dev/stripe-sync-gateway/internal/domain"
	"github.com/amara-dev/stripe-sync-gateway/internal/stripe"
)

// cachedTypes are every method type a list may be cached under, used to clear
// a customer's whole key space after a mutation.
var cachedTypes = []domain.MethodType{
	domain.MethodCard,
	domain.MethodLink,
	domain.MethodSEPADebit,
	domain.MethodCashApp,
	domain.MethodUSBankAccount,
	domain.MethodACSSDebit,
	domain.MethodBacsDebit,
	domain.MethodBECSDebit,
	domain.MethodAmazonPay,
}

// MethodListCache caches remote payment method lists per customer and type.
type MethodListCache struct {
	store *gocache.Cache
}

func NewMethodListCache(cfg config.CacheConfig) *MethodListCache {
	return &MethodListCache{
		store: gocache.New(cfg.MethodListTTL, cfg.CleanupInterval),
	}
}

func key(customerID string, methodType domain.MethodType) string {
	return "payment_methods_" + string(methodType) + "_" + customerID
}

func (c *MethodListCache) Get(customerID string, methodType domain.MethodType) ([]stripe.PaymentMethod, bool) {
	v, found := c.store.Get(key(customerID, methodType))
	if !found {
		return nil, false
	}
	methods, ok := v.([]stripe.PaymentMethod)
	return methods, ok
}

func (c *MethodListCache) Set(customerID string, methodType domain.MethodType, methods []stripe.PaymentMethod) {
	c.store.SetDefault(key(customerID, methodType), methods)
}

// Invalidate drops every cached list for a customer. Called after any
// mutation that can change the remote method set.
func (c *MethodListCache) Invalidate(customerID string) {
	for _, t := range cachedTypes {
		c.store.Delete(key(customerID, t))
	}
}
