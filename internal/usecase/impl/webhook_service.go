package impl

import (
	"context"
	"log/slog"

	"bazaar/internal/domain/entity"
	"bazaar/internal/domain/repository"
	"bazaar/internal/domain/service"
	"bazaar/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

type webhookService struct {
	txManager repository.TransactionManager
	gateway   service.PaymentGateway
	logger    *slog.Logger
}

// WebhookServiceParams holds dependencies for WebhookService, injected by Fx.
type WebhookServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	Gateway   service.PaymentGateway
	Logger    *slog.Logger
}

// NewWebhookService creates a new webhook service instance
func NewWebhookService(params WebhookServiceParams) usecase.WebhookUsecase {
	return &webhookService{
		txManager: params.TxManager,
		gateway:   params.Gateway,
		logger:    params.Logger,
	}
}

// HandleEvent verifies and applies one processor delivery. Signature failure
// is the only rejection: once a delivery is authentic, every other outcome
// acknowledges it, because the processor redelivers on anything else and the
// state machine is idempotent anyway.
func (s *webhookService) HandleEvent(ctx context.Context, payload []byte, signatureHeader string) error {
	event, err := s.gateway.VerifyWebhook(payload, signatureHeader)
	if err != nil {
		return err
	}

	switch event.Type {
	case service.EventCheckoutCompleted:
		err = s.settleOrder(ctx, event)
	case service.EventPaymentFailed:
		err = s.failOrder(ctx, event)
	case service.EventChargeRefunded:
		err = s.refundOrder(ctx, event)
	case service.EventPaymentSucceeded:
		// Informational duplicate of checkout.session.completed; the session
		// event is the settlement trigger.
		s.logger.Info("Payment succeeded event acknowledged",
			slog.String("eventId", event.ID),
			slog.String("orderId", event.Data.OrderID.String()),
		)
	default:
		s.logger.Info("Unrecognized webhook event type acknowledged",
			slog.String("eventId", event.ID),
			slog.String("eventType", event.Type),
		)
	}

	if err != nil {
		s.logger.Error("Webhook event processing failed, acknowledging anyway",
			slog.String("eventId", event.ID),
			slog.String("eventType", event.Type),
			slog.String("error", err.Error()),
		)
	}

	return nil
}

// settleOrder applies checkout.session.completed: PENDING moves to PAID and a
// SUCCEEDED payment is recorded with the order's snapshot amount. The row lock
// plus the partial unique index on payments make concurrent redeliveries
// collapse into exactly one settlement.
func (s *webhookService) settleOrder(ctx context.Context, event *service.WebhookEvent) error {
	if event.Data.OrderID == uuid.Nil {
		s.logger.Warn("Settlement event carries no order correlation id",
			slog.String("eventId", event.ID),
		)

		return nil
	}

	return s.txManager.Execute(ctx, func(factory repository.RepositoryFactory) error {
		orderRepo := factory.NewOrderRepository()

		order, err := orderRepo.FindOrderByIDForUpdate(ctx, event.Data.OrderID)
		if err != nil {
			if errors.Is(err, repository.ErrOrderNotFound) {
				s.logger.Warn("Settlement event references unknown order",
					slog.String("eventId", event.ID),
					slog.String("orderId", event.Data.OrderID.String()),
				)

				return nil
			}

			return errors.Wrap(err, "failed to lock order")
		}

		if order.Status == entity.OrderStatusPaid {
			s.logger.Debug("Order already settled, redelivery ignored",
				slog.String("eventId", event.ID),
				slog.String("orderId", order.ID.String()),
			)

			return nil
		}
		if order.Status != entity.OrderStatusPending {
			s.logger.Warn("Settlement event for order in terminal state ignored",
				slog.String("eventId", event.ID),
				slog.String("orderId", order.ID.String()),
				slog.String("orderStatus", order.Status.String()),
			)

			return nil
		}

		if err := orderRepo.UpdateOrderStatus(ctx, order.ID, entity.OrderStatusPaid); err != nil {
			return errors.Wrap(err, "failed to mark order paid")
		}

		payment := &entity.Payment{
			OrderID:  order.ID,
			IntentID: event.Data.IntentID,
			Amount:   order.TotalAmount,
			Status:   entity.PaymentStatusSucceeded,
		}
		if err := factory.NewPaymentRepository().CreatePayment(ctx, payment); err != nil {
			// Losing this race means another delivery settled first; the
			// rollback undoes our order update and the winner's state stands.
			if errors.Is(err, repository.ErrDuplicateSettlement) {
				return errors.Wrap(err, "concurrent settlement lost the race")
			}

			return errors.Wrap(err, "failed to create payment")
		}

		s.logger.Info("Order settled",
			slog.String("eventId", event.ID),
			slog.String("orderId", order.ID.String()),
			slog.String("intentId", event.Data.IntentID),
		)

		return nil
	})
}

// failOrder applies payment.failed: PENDING moves to FAILED and a FAILED
// payment is recorded with the amount the processor reports.
func (s *webhookService) failOrder(ctx context.Context, event *service.WebhookEvent) error {
	if event.Data.OrderID == uuid.Nil {
		s.logger.Warn("Failure event carries no order correlation id",
			slog.String("eventId", event.ID),
		)

		return nil
	}

	return s.txManager.Execute(ctx, func(factory repository.RepositoryFactory) error {
		orderRepo := factory.NewOrderRepository()

		order, err := orderRepo.FindOrderByIDForUpdate(ctx, event.Data.OrderID)
		if err != nil {
			if errors.Is(err, repository.ErrOrderNotFound) {
				s.logger.Warn("Failure event references unknown order",
					slog.String("eventId", event.ID),
					slog.String("orderId", event.Data.OrderID.String()),
				)

				return nil
			}

			return errors.Wrap(err, "failed to lock order")
		}

		if order.Status != entity.OrderStatusPending {
			s.logger.Debug("Failure event for non-pending order ignored",
				slog.String("eventId", event.ID),
				slog.String("orderId", order.ID.String()),
				slog.String("orderStatus", order.Status.String()),
			)

			return nil
		}

		if err := orderRepo.UpdateOrderStatus(ctx, order.ID, entity.OrderStatusFailed); err != nil {
			return errors.Wrap(err, "failed to mark order failed")
		}

		payment := &entity.Payment{
			OrderID:  order.ID,
			IntentID: event.Data.IntentID,
			Amount:   event.Data.Amount,
			Status:   entity.PaymentStatusFailed,
		}
		if err := factory.NewPaymentRepository().CreatePayment(ctx, payment); err != nil {
			return errors.Wrap(err, "failed to create payment")
		}

		s.logger.Info("Order marked failed",
			slog.String("eventId", event.ID),
			slog.String("orderId", order.ID.String()),
		)

		return nil
	})
}

// refundOrder applies charge.refunded: PAID moves to REFUNDED and the
// SUCCEEDED payment is updated in place. Already-issued download links are not
// revoked; the entitlement gate stops new issuance once no PAID order remains.
func (s *webhookService) refundOrder(ctx context.Context, event *service.WebhookEvent) error {
	if event.Data.OrderID == uuid.Nil {
		s.logger.Warn("Refund event carries no order correlation id",
			slog.String("eventId", event.ID),
		)

		return nil
	}

	return s.txManager.Execute(ctx, func(factory repository.RepositoryFactory) error {
		orderRepo := factory.NewOrderRepository()

		order, err := orderRepo.FindOrderByIDForUpdate(ctx, event.Data.OrderID)
		if err != nil {
			if errors.Is(err, repository.ErrOrderNotFound) {
				s.logger.Warn("Refund event references unknown order",
					slog.String("eventId", event.ID),
					slog.String("orderId", event.Data.OrderID.String()),
				)

				return nil
			}

			return errors.Wrap(err, "failed to lock order")
		}

		if order.Status == entity.OrderStatusRefunded {
			s.logger.Debug("Order already refunded, redelivery ignored",
				slog.String("eventId", event.ID),
				slog.String("orderId", order.ID.String()),
			)

			return nil
		}
		if order.Status != entity.OrderStatusPaid {
			s.logger.Warn("Refund event for unpaid order ignored",
				slog.String("eventId", event.ID),
				slog.String("orderId", order.ID.String()),
				slog.String("orderStatus", order.Status.String()),
			)

			return nil
		}

		if err := orderRepo.UpdateOrderStatus(ctx, order.ID, entity.OrderStatusRefunded); err != nil {
			return errors.Wrap(err, "failed to mark order refunded")
		}

		if err := factory.NewPaymentRepository().MarkRefundedByOrder(ctx, order.ID); err != nil {
			if errors.Is(err, repository.ErrPaymentNotFound) {
				s.logger.Warn("Refunded order has no succeeded payment record",
					slog.String("eventId", event.ID),
					slog.String("orderId", order.ID.String()),
				)

				return nil
			}

			return errors.Wrap(err, "failed to mark payment refunded")
		}

		s.logger.Info("Order refunded",
			slog.String("eventId", event.ID),
			slog.String("orderId", order.ID.String()),
		)

		return nil
	})
}
