package repository

import (
	"context"
	"time"

	"bazaar/internal/domain/entity"
	"bazaar/internal/errors"

	"github.com/google/uuid"
)

// ErrOrderNotFound is returned when an order is not found.
var ErrOrderNotFound = errors.New("order not found")

// OrderRepository defines the interface for order-related database operations.
// Order status transitions are owned exclusively by the webhook state machine;
// every other component only reads orders.
type OrderRepository interface {
	// CreateOrder persists a new order. The entity is updated in place with
	// generated values.
	CreateOrder(ctx context.Context, order *entity.Order) error

	// FindOrderByID retrieves an order by its unique ID.
	FindOrderByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)

	// FindOrderByIDForUpdate retrieves an order under a row lock. Must be
	// called inside a transaction; the lock is held until commit or rollback.
	FindOrderByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Order, error)

	// FindLatestOrder retrieves the most recent order for a buyer and asset,
	// ordered by creation time descending.
	FindLatestOrder(ctx context.Context, buyerID, assetID uuid.UUID) (*entity.Order, error)

	// HasPaidOrder reports whether at least one PAID order exists for the
	// buyer and asset. This is the authoritative entitlement predicate.
	HasPaidOrder(ctx context.Context, buyerID, assetID uuid.UUID) (bool, error)

	// FindRecentPendingOrder retrieves a PENDING order for the buyer and asset
	// created at or after the given time, if any.
	FindRecentPendingOrder(ctx context.Context, buyerID, assetID uuid.UUID, since time.Time) (*entity.Order, error)

	// UpdateOrderStatus transitions an order to the given status.
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status entity.OrderStatus) error

	// SetOrderSession persists the processor's checkout-session correlation id.
	SetOrderSession(ctx context.Context, id uuid.UUID, sessionID string) error
}
