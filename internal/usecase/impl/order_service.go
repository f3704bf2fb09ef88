package impl

import (
	"context"

	domainerrors "bazaar/internal/domain/errors"
	"bazaar/internal/domain/repository"
	"bazaar/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

type orderService struct {
	orderRepo   repository.OrderRepository
	paymentRepo repository.PaymentRepository
}

// OrderServiceParams holds dependencies for OrderService, injected by Fx.
type OrderServiceParams struct {
	fx.In

	OrderRepo   repository.OrderRepository
	PaymentRepo repository.PaymentRepository
}

// NewOrderService creates a new order service instance
func NewOrderService(params OrderServiceParams) usecase.OrderUsecase {
	return &orderService{
		orderRepo:   params.OrderRepo,
		paymentRepo: params.PaymentRepo,
	}
}

// GetOrder retrieves an order with its settlement record. A missing Payment
// is normal for PENDING orders and renders as null.
func (s *orderService) GetOrder(ctx context.Context, orderID uuid.UUID) (*usecase.OrderDetails, error) {
	order, err := s.orderRepo.FindOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, domainerrors.ErrOrderNotFound
		}

		return nil, errors.Wrap(err, "failed to find order")
	}

	details := &usecase.OrderDetails{
		ID:          order.ID,
		BuyerID:     order.BuyerID,
		AssetID:     order.AssetID,
		TotalAmount: order.TotalAmount,
		Status:      order.Status,
		SessionID:   order.SessionID,
		CreatedAt:   order.CreatedAt,
		UpdatedAt:   order.UpdatedAt,
	}

	payment, err := s.paymentRepo.FindPaymentByOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrPaymentNotFound) {
			return details, nil
		}

		return nil, errors.Wrap(err, "failed to find payment")
	}

	details.Payment = &usecase.PaymentDetails{
		ID:       payment.ID,
		IntentID: payment.IntentID,
		Amount:   payment.Amount,
		Status:   payment.Status,
	}

	return details, nil
}
