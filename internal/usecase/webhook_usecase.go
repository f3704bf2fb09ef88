package usecase

import "context"

// WebhookUsecase consumes payment-processor events under at-least-once
// delivery. Only signature verification may reject a delivery; every other
// outcome acknowledges so the processor does not retry-storm.
type WebhookUsecase interface {
	// HandleEvent verifies the raw payload bytes against the signature header
	// and applies the corresponding order/payment state transition.
	HandleEvent(ctx context.Context, payload []byte, signatureHeader string) error
}
