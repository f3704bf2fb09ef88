package handler

import (
	"net/http"

	"bazaar/internal/delivery/http/response"
	domainerrors "bazaar/internal/domain/errors"
	"bazaar/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AdminHandler holds dependencies for administrative handlers.
type AdminHandler struct {
	orderUC usecase.OrderUsecase
}

// NewAdminHandler is the constructor for AdminHandler, injected by Fx.
func NewAdminHandler(orderUC usecase.OrderUsecase) *AdminHandler {
	return &AdminHandler{orderUC: orderUC}
}

// GetOrder returns an order with its settlement record for support
// inspection.
func (h *AdminHandler) GetOrder(c echo.Context) error {
	orderID, err := uuid.Parse(c.Param("orderId"))
	if err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("orderId must be a valid UUID")
	}

	details, err := h.orderUC.GetOrder(c.Request().Context(), orderID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, details, "")
}
