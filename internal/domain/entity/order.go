package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the state of a purchase attempt.
// PENDING is the only non-terminal state; the webhook state machine owns
// every transition out of it.
type OrderStatus string

const (
	// OrderStatusPending indicates checkout has started but settlement has not arrived.
	OrderStatusPending OrderStatus = "PENDING"
	// OrderStatusPaid indicates the processor confirmed the payment.
	OrderStatusPaid OrderStatus = "PAID"
	// OrderStatusFailed indicates the processor reported the payment as failed.
	OrderStatusFailed OrderStatus = "FAILED"
	// OrderStatusRefunded indicates a previously paid order was refunded.
	OrderStatusRefunded OrderStatus = "REFUNDED"
)

// String returns the string representation of the OrderStatus.
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid checks if the OrderStatus is a valid value.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusFailed, OrderStatusRefunded:
		return true
	default:
		return false
	}
}

// Order is a purchase attempt by a buyer for a single asset. TotalAmount is a
// snapshot of the asset price at checkout time and never changes afterwards.
// A buyer may accumulate multiple orders for the same asset over time;
// ownership is conferred by the existence of at least one PAID order.
type Order struct {
	ID          uuid.UUID
	BuyerID     uuid.UUID
	AssetID     uuid.UUID
	TotalAmount decimal.Decimal
	Status      OrderStatus
	SessionID   string // The payment processor's checkout-session correlation id.
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
