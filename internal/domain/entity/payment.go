package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus represents the state of a settlement record.
type PaymentStatus string

const (
	// PaymentStatusPending indicates a settlement attempt that has not concluded.
	PaymentStatusPending PaymentStatus = "PENDING"
	// PaymentStatusSucceeded indicates the processor captured the amount.
	PaymentStatusSucceeded PaymentStatus = "SUCCEEDED"
	// PaymentStatusFailed indicates the processor could not capture the amount.
	PaymentStatusFailed PaymentStatus = "FAILED"
	// PaymentStatusRefunded indicates a captured amount was returned to the buyer.
	PaymentStatusRefunded PaymentStatus = "REFUNDED"
)

// String returns the string representation of the PaymentStatus.
func (s PaymentStatus) String() string {
	return string(s)
}

// IsValid checks if the PaymentStatus is a valid value.
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusSucceeded, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	default:
		return false
	}
}

// Payment is a settlement record created once per terminal webhook event.
// At most one SUCCEEDED payment exists per order. The only permitted mutation
// is the SUCCEEDED to REFUNDED transition applied by a refund event.
type Payment struct {
	ID       uuid.UUID
	OrderID  uuid.UUID
	IntentID string          // The processor's payment-intent id.
	Amount   decimal.Decimal // The amount the processor reports as settled or attempted.
	Status   PaymentStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}
