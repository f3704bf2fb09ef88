package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Webhook event types delivered by the payment processor. Unrecognized types
// must be accepted and ignored for forward compatibility.
const (
	EventCheckoutCompleted = "checkout.session.completed"
	EventPaymentFailed     = "payment.failed"
	EventPaymentSucceeded  = "payment.succeeded"
	EventChargeRefunded    = "charge.refunded"
)

// CheckoutSessionInput carries everything the processor needs to host a
// checkout page. OrderID, BuyerID and AssetID ride along as opaque correlation
// metadata and come back on webhook events.
type CheckoutSessionInput struct {
	OrderID    uuid.UUID
	BuyerID    uuid.UUID
	AssetID    uuid.UUID
	ItemTitle  string
	Amount     decimal.Decimal
	BuyerEmail string
}

// CheckoutSession is the processor's handle for a hosted checkout page.
type CheckoutSession struct {
	SessionID string
	URL       string
}

// WebhookEvent is a verified, decoded processor event.
type WebhookEvent struct {
	ID   string
	Type string
	Data WebhookEventData
}

// WebhookEventData holds the correlation metadata and settlement details
// extracted from an event.
type WebhookEventData struct {
	OrderID   uuid.UUID
	SessionID string
	IntentID  string
	Amount    decimal.Decimal
}

// PaymentGateway wraps the payment processor's API.
type PaymentGateway interface {
	// CreateCheckoutSession asks the processor for a hosted checkout session.
	CreateCheckoutSession(ctx context.Context, input CheckoutSessionInput) (*CheckoutSession, error)

	// VerifyWebhook checks the signature header against the raw payload bytes
	// and, only if authentic, decodes the event. The payload must be the exact
	// bytes received on the wire; any re-serialization breaks verification.
	VerifyWebhook(payload []byte, signatureHeader string) (*WebhookEvent, error)
}
