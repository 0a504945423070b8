package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents the current state of an order in its lifecycle.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderOnHold     OrderStatus = "on-hold"
	OrderCompleted  OrderStatus = "completed"
	OrderCancelled  OrderStatus = "cancelled"
	OrderRefunded   OrderStatus = "refunded"
	OrderFailed     OrderStatus = "failed"
)

type Order struct {
	ID            int64
	Status        OrderStatus
	Currency      string
	Total         decimal.Decimal
	TotalRefunded decimal.Decimal

	// UserID is 0 for guest orders.
	UserID int64

	Billing  ContactDetails
	Shipping ContactDetails

	StripeCustomerID   string
	PaymentMethod      string
	PaymentMethodTitle string
	PaymentIntentID    string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasRefund reports whether any amount has been refunded against the order.
func (o *Order) HasRefund() bool {
	return o.TotalRefunded.IsPositive()
}

// HasStatus reports whether the order is in one of the given statuses.
func (o *Order) HasStatus(statuses ...OrderStatus) bool {
	for _, s := range statuses {
		if o.Status == s {
			return true
		}
	}
	return false
}

// Identity derives the order's billing identity for customer reconciliation.
func (o *Order) Identity() Identity {
	return Identity{
		UserID:   o.UserID,
		Email:    o.Billing.Email,
		Billing:  o.Billing,
		Shipping: o.Shipping,
	}
}
