package usecase

import (
	"context"
	"time"

	"bazaar/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentDetails is the settlement record attached to an order view.
type PaymentDetails struct {
	ID       uuid.UUID            `json:"id"`
	IntentID string               `json:"intentId"`
	Amount   decimal.Decimal      `json:"amount"`
	Status   entity.PaymentStatus `json:"status"`
}

// OrderDetails is the support view of an order and its settlement, used to
// answer "why is this purchase stuck".
type OrderDetails struct {
	ID          uuid.UUID          `json:"id"`
	BuyerID     uuid.UUID          `json:"buyerId"`
	AssetID     uuid.UUID          `json:"assetId"`
	TotalAmount decimal.Decimal    `json:"totalAmount"`
	Status      entity.OrderStatus `json:"status"`
	SessionID   string             `json:"sessionId,omitempty"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
	Payment     *PaymentDetails    `json:"payment,omitempty"`
}

// OrderUsecase exposes administrative order inspection.
type OrderUsecase interface {
	// GetOrder retrieves an order with its settlement record, if any.
	GetOrder(ctx context.Context, orderID uuid.UUID) (*OrderDetails, error)
}
