package impl

import (
	"context"
	"testing"

	"bazaar/internal/domain/entity"
	domainerrors "bazaar/internal/domain/errors"
	"bazaar/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderService_GetOrder(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("returns the order with its settlement", func(t *testing.T) {
		t.Parallel()

		orderRepo := new(MockOrderRepository)
		paymentRepo := new(MockPaymentRepository)
		svc := NewOrderService(OrderServiceParams{OrderRepo: orderRepo, PaymentRepo: paymentRepo})

		order := &entity.Order{
			ID:          uuid.New(),
			BuyerID:     uuid.New(),
			AssetID:     uuid.New(),
			TotalAmount: decimal.NewFromFloat(29.99),
			Status:      entity.OrderStatusPaid,
			SessionID:   "cs_test_789",
		}
		payment := &entity.Payment{
			ID:       uuid.New(),
			OrderID:  order.ID,
			IntentID: "pi_789",
			Amount:   order.TotalAmount,
			Status:   entity.PaymentStatusSucceeded,
		}

		orderRepo.On("FindOrderByID", ctx, order.ID).Return(order, nil)
		paymentRepo.On("FindPaymentByOrder", ctx, order.ID).Return(payment, nil)

		details, err := svc.GetOrder(ctx, order.ID)

		require.NoError(t, err)
		assert.Equal(t, order.ID, details.ID)
		assert.Equal(t, entity.OrderStatusPaid, details.Status)
		require.NotNil(t, details.Payment)
		assert.Equal(t, "pi_789", details.Payment.IntentID)
	})

	t.Run("renders a pending order without a settlement", func(t *testing.T) {
		t.Parallel()

		orderRepo := new(MockOrderRepository)
		paymentRepo := new(MockPaymentRepository)
		svc := NewOrderService(OrderServiceParams{OrderRepo: orderRepo, PaymentRepo: paymentRepo})

		order := &entity.Order{ID: uuid.New(), Status: entity.OrderStatusPending}

		orderRepo.On("FindOrderByID", ctx, order.ID).Return(order, nil)
		paymentRepo.On("FindPaymentByOrder", ctx, order.ID).Return(nil, repository.ErrPaymentNotFound)

		details, err := svc.GetOrder(ctx, order.ID)

		require.NoError(t, err)
		assert.Nil(t, details.Payment)
	})

	t.Run("reports a missing order", func(t *testing.T) {
		t.Parallel()

		orderRepo := new(MockOrderRepository)
		paymentRepo := new(MockPaymentRepository)
		svc := NewOrderService(OrderServiceParams{OrderRepo: orderRepo, PaymentRepo: paymentRepo})

		orderID := uuid.New()
		orderRepo.On("FindOrderByID", ctx, orderID).Return(nil, repository.ErrOrderNotFound)

		_, err := svc.GetOrder(ctx, orderID)

		assert.ErrorIs(t, err, domainerrors.ErrOrderNotFound)
	})
}
