package handler

import (
	"io"
	"net/http"

	"bazaar/internal/delivery/http/middleware"
	"bazaar/internal/delivery/http/response"
	"bazaar/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// SignatureHeader carries the processor's webhook signature.
const SignatureHeader = "Webhook-Signature"

// CreateCheckoutInput is the request body for starting a purchase.
type CreateCheckoutInput struct {
	AssetID uuid.UUID `json:"assetId" validate:"required"`
}

// PaymentHandler holds dependencies for payment-related handlers.
type PaymentHandler struct {
	checkoutUC usecase.CheckoutUsecase
	webhookUC  usecase.WebhookUsecase
}

// NewPaymentHandler is the constructor for PaymentHandler, injected by Fx.
func NewPaymentHandler(checkoutUC usecase.CheckoutUsecase, webhookUC usecase.WebhookUsecase) *PaymentHandler {
	return &PaymentHandler{
		checkoutUC: checkoutUC,
		webhookUC:  webhookUC,
	}
}

// CreateCheckout handles the purchase-start request.
func (h *PaymentHandler) CreateCheckout(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return errors.WithStack(err)
	}

	input := new(CreateCheckoutInput)
	if err := c.Bind(input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid checkout request body")
	}
	if err := c.Validate(input); err != nil {
		return errors.WithStack(err)
	}

	result, err := h.checkoutUC.CreateCheckout(c.Request().Context(), userID, input.AssetID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, result, "Checkout session created")
}

// Webhook consumes payment-processor deliveries. The raw body bytes must reach
// signature verification untouched; binding or re-encoding the JSON first
// would invalidate every signature.
func (h *PaymentHandler) Webhook(c echo.Context) error {
	payload, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return errors.Wrap(err, "failed to read webhook body")
	}

	if err := h.webhookUC.HandleEvent(c.Request().Context(), payload, c.Request().Header.Get(SignatureHeader)); err != nil {
		return errors.WithStack(err)
	}

	return c.JSON(http.StatusOK, map[string]bool{"received": true})
}
