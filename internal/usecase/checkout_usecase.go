package usecase

import (
	"context"

	"github.com/google/uuid"
)

// CheckoutResult is the handle for a created checkout: the processor session
// to redirect the buyer to, and the pending order awaiting settlement.
type CheckoutResult struct {
	SessionID string    `json:"sessionId"`
	URL       string    `json:"url"`
	OrderID   uuid.UUID `json:"orderId"`
}

// CheckoutUsecase starts purchase attempts.
type CheckoutUsecase interface {
	// CreateCheckout validates the purchase, creates a PENDING order with the
	// asset price snapshotted, and opens a processor checkout session.
	CreateCheckout(ctx context.Context, buyerID, assetID uuid.UUID) (*CheckoutResult, error)
}
