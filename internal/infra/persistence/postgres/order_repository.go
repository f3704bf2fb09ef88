package postgres

import (
	"context"
	"time"

	"bazaar/internal/domain/entity"
	domainerrors "bazaar/internal/domain/errors"
	"bazaar/internal/domain/repository"
	"bazaar/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// orderRepository implements the repository.OrderRepository interface.
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository is the constructor for orderRepository.
func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepository{
		db: db,
	}
}

// CreateOrder persists a new order.
func (repo *orderRepository) CreateOrder(ctx context.Context, order *entity.Order) error {
	orderM := fromOrderDomain(order)

	if err := repo.db.WithContext(ctx).Create(orderM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrAssetNotFound.WrapMessage("invalid buyer or asset reference")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.NewDatabaseExecuteError(err, "missing required order information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create order")
	}

	order.ID = orderM.ID
	order.CreatedAt = orderM.CreatedAt
	order.UpdatedAt = orderM.UpdatedAt

	return nil
}

// FindOrderByID retrieves an order by its unique ID.
func (repo *orderRepository) FindOrderByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var orderM model.OrderModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&orderM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrOrderNotFound
		}

		return nil, errors.Wrap(err, "failed to find order by ID")
	}

	return toOrderDomain(&orderM), nil
}

// FindOrderByIDForUpdate retrieves an order under FOR UPDATE. Only meaningful
// on a transaction-bound repository; the row stays locked until commit.
func (repo *orderRepository) FindOrderByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var orderM model.OrderModel

	if err := repo.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&orderM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrOrderNotFound
		}

		return nil, errors.Wrap(err, "failed to find order by ID for update")
	}

	return toOrderDomain(&orderM), nil
}

// FindLatestOrder retrieves the most recent order for a buyer and asset.
func (repo *orderRepository) FindLatestOrder(ctx context.Context, buyerID, assetID uuid.UUID) (*entity.Order, error) {
	var orderM model.OrderModel

	if err := repo.db.WithContext(ctx).
		Where("buyer_id = ? AND asset_id = ?", buyerID, assetID).
		Order("created_at DESC").
		First(&orderM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrOrderNotFound
		}

		return nil, errors.Wrap(err, "failed to find latest order")
	}

	return toOrderDomain(&orderM), nil
}

// HasPaidOrder reports whether at least one PAID order exists for the buyer
// and asset.
func (repo *orderRepository) HasPaidOrder(ctx context.Context, buyerID, assetID uuid.UUID) (bool, error) {
	var count int64

	if err := repo.db.WithContext(ctx).
		Model(&model.OrderModel{}).
		Where("buyer_id = ? AND asset_id = ? AND status = ?", buyerID, assetID, entity.OrderStatusPaid.String()).
		Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "failed to count paid orders")
	}

	return count > 0, nil
}

// FindRecentPendingOrder retrieves a PENDING order created at or after the
// given time, if any.
func (repo *orderRepository) FindRecentPendingOrder(ctx context.Context, buyerID, assetID uuid.UUID, since time.Time) (*entity.Order, error) {
	var orderM model.OrderModel

	if err := repo.db.WithContext(ctx).
		Where("buyer_id = ? AND asset_id = ? AND status = ? AND created_at >= ?",
			buyerID, assetID, entity.OrderStatusPending.String(), since).
		Order("created_at DESC").
		First(&orderM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrOrderNotFound
		}

		return nil, errors.Wrap(err, "failed to find recent pending order")
	}

	return toOrderDomain(&orderM), nil
}

// UpdateOrderStatus transitions an order to the given status. TotalAmount is
// immutable and never touched here.
func (repo *orderRepository) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status entity.OrderStatus) error {
	result := repo.db.WithContext(ctx).
		Model(&model.OrderModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     status.String(),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update order status")
	}
	if result.RowsAffected == 0 {
		return repository.ErrOrderNotFound
	}

	return nil
}

// SetOrderSession persists the processor's checkout-session correlation id.
func (repo *orderRepository) SetOrderSession(ctx context.Context, id uuid.UUID, sessionID string) error {
	result := repo.db.WithContext(ctx).
		Model(&model.OrderModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"session_id": sessionID,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to set order session")
	}
	if result.RowsAffected == 0 {
		return repository.ErrOrderNotFound
	}

	return nil
}

// toOrderDomain converts a GORM OrderModel to a domain Order entity.
func toOrderDomain(data *model.OrderModel) *entity.Order {
	return &entity.Order{
		ID:          data.ID,
		BuyerID:     data.BuyerID,
		AssetID:     data.AssetID,
		TotalAmount: data.TotalAmount,
		Status:      entity.OrderStatus(data.Status),
		SessionID:   data.SessionID,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}

// fromOrderDomain converts a domain Order entity to a GORM OrderModel.
func fromOrderDomain(data *entity.Order) *model.OrderModel {
	return &model.OrderModel{
		ID:          data.ID,
		BuyerID:     data.BuyerID,
		AssetID:     data.AssetID,
		TotalAmount: data.TotalAmount,
		Status:      data.Status.String(),
		SessionID:   data.SessionID,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}
