package repository

import (
	"context"

	"bazaar/internal/domain/entity"
	"bazaar/internal/errors"

	"github.com/google/uuid"
)

// Domain-specific errors for payment persistence.
var (
	// ErrPaymentNotFound is returned when a payment is not found.
	ErrPaymentNotFound = errors.New("payment not found")
	// ErrDuplicateSettlement is returned when a second SUCCEEDED payment would
	// be created for the same order. This is the constraint backstop behind
	// the webhook idempotency gate.
	ErrDuplicateSettlement = errors.New("order already settled")
)

// PaymentRepository defines the interface for payment-related database operations.
type PaymentRepository interface {
	// CreatePayment persists a new settlement record. Creating a second
	// SUCCEEDED payment for the same order fails with ErrDuplicateSettlement.
	CreatePayment(ctx context.Context, payment *entity.Payment) error

	// FindPaymentByOrder retrieves the settlement record for an order, if any.
	FindPaymentByOrder(ctx context.Context, orderID uuid.UUID) (*entity.Payment, error)

	// MarkRefundedByOrder transitions the order's SUCCEEDED payment to
	// REFUNDED. Returns ErrPaymentNotFound if no SUCCEEDED payment exists.
	MarkRefundedByOrder(ctx context.Context, orderID uuid.UUID) error
}
