package impl

import (
	"context"
	"log/slog"
	"time"

	"bazaar/config"
	"bazaar/internal/domain/entity"
	domainerrors "bazaar/internal/domain/errors"
	"bazaar/internal/domain/repository"
	"bazaar/internal/domain/service"
	"bazaar/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// recentPendingWindow bounds the duplicate-checkout warning: a PENDING order
// younger than this suggests the buyer double-clicked or abandoned a session.
const recentPendingWindow = 30 * time.Minute

type checkoutService struct {
	userRepo  repository.UserRepository
	assetRepo repository.AssetRepository
	orderRepo repository.OrderRepository
	gateway   service.PaymentGateway
	config    *config.Config
	logger    *slog.Logger
}

// CheckoutServiceParams holds dependencies for CheckoutService, injected by Fx.
type CheckoutServiceParams struct {
	fx.In

	UserRepo  repository.UserRepository
	AssetRepo repository.AssetRepository
	OrderRepo repository.OrderRepository
	Gateway   service.PaymentGateway
	Config    *config.Config
	Logger    *slog.Logger
}

// NewCheckoutService creates a new checkout service instance
func NewCheckoutService(params CheckoutServiceParams) usecase.CheckoutUsecase {
	return &checkoutService{
		userRepo:  params.UserRepo,
		assetRepo: params.AssetRepo,
		orderRepo: params.OrderRepo,
		gateway:   params.Gateway,
		config:    params.Config,
		logger:    params.Logger,
	}
}

// CreateCheckout validates the purchase and opens a processor checkout
// session. The PENDING order is committed before the processor call so that a
// later webhook always finds its order; if the processor call then fails, the
// order is left PENDING and a retry simply creates a fresh order and session.
func (s *checkoutService) CreateCheckout(ctx context.Context, buyerID, assetID uuid.UUID) (*usecase.CheckoutResult, error) {
	asset, err := s.assetRepo.FindAssetByID(ctx, assetID)
	if err != nil {
		if errors.Is(err, repository.ErrAssetNotFound) {
			return nil, domainerrors.ErrAssetNotFound
		}

		return nil, errors.Wrap(err, "failed to find asset")
	}

	if !asset.IsPurchasable() {
		return nil, domainerrors.ErrAssetNotPurchasable
	}

	if asset.VendorID == buyerID {
		return nil, domainerrors.ErrSelfPurchase
	}

	owned, err := s.orderRepo.HasPaidOrder(ctx, buyerID, assetID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to check paid orders")
	}
	if owned {
		return nil, domainerrors.ErrAlreadyOwned
	}

	buyer, err := s.userRepo.FindUserByID(ctx, buyerID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find buyer")
	}

	// A recent PENDING order is usually an abandoned session or a double
	// click. Neither blocks a new attempt; settlement stays correct because
	// only the session that completes flips its own order.
	pending, err := s.orderRepo.FindRecentPendingOrder(ctx, buyerID, assetID, time.Now().Add(-recentPendingWindow))
	if err != nil && !errors.Is(err, repository.ErrOrderNotFound) {
		return nil, errors.Wrap(err, "failed to check pending orders")
	}
	if pending != nil {
		s.logger.Warn("Buyer has a recent pending order for this asset",
			slog.String("buyerId", buyerID.String()),
			slog.String("assetId", assetID.String()),
			slog.String("pendingOrderId", pending.ID.String()),
		)
	}

	order := &entity.Order{
		BuyerID:     buyerID,
		AssetID:     assetID,
		TotalAmount: asset.Price,
		Status:      entity.OrderStatusPending,
	}
	if err := s.orderRepo.CreateOrder(ctx, order); err != nil {
		return nil, errors.Wrap(err, "failed to create order")
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, service.CheckoutSessionInput{
		OrderID:    order.ID,
		BuyerID:    buyerID,
		AssetID:    assetID,
		ItemTitle:  asset.Title,
		Amount:     order.TotalAmount,
		BuyerEmail: buyer.Email,
	})
	if err != nil {
		s.logger.Error("Checkout session creation failed, order left pending",
			slog.String("orderId", order.ID.String()),
			slog.String("error", err.Error()),
		)

		var appErr domainerrors.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}

		return nil, domainerrors.NewExternalDependencyError("payment gateway", err)
	}

	if err := s.orderRepo.SetOrderSession(ctx, order.ID, session.SessionID); err != nil {
		return nil, errors.Wrap(err, "failed to persist checkout session id")
	}

	return &usecase.CheckoutResult{
		SessionID: session.SessionID,
		URL:       session.URL,
		OrderID:   order.ID,
	}, nil
}
