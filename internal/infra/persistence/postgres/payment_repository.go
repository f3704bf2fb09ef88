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
)

// paymentRepository implements the repository.PaymentRepository interface.
type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository is the constructor for paymentRepository.
func NewPaymentRepository(db *gorm.DB) repository.PaymentRepository {
	return &paymentRepository{
		db: db,
	}
}

// CreatePayment persists a new settlement record. The partial unique index on
// (order_id) WHERE status = 'SUCCEEDED' turns a duplicate settlement into
// ErrDuplicateSettlement instead of a second row.
func (repo *paymentRepository) CreatePayment(ctx context.Context, payment *entity.Payment) error {
	paymentM := fromPaymentDomain(payment)

	if err := repo.db.WithContext(ctx).Create(paymentM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateSettlement
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrOrderNotFound.WrapMessage("invalid order reference")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create payment")
	}

	payment.ID = paymentM.ID
	payment.CreatedAt = paymentM.CreatedAt
	payment.UpdatedAt = paymentM.UpdatedAt

	return nil
}

// FindPaymentByOrder retrieves the settlement record for an order, newest first.
func (repo *paymentRepository) FindPaymentByOrder(ctx context.Context, orderID uuid.UUID) (*entity.Payment, error) {
	var paymentM model.PaymentModel

	if err := repo.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at DESC").
		First(&paymentM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrPaymentNotFound
		}

		return nil, errors.Wrap(err, "failed to find payment by order")
	}

	return toPaymentDomain(&paymentM), nil
}

// MarkRefundedByOrder transitions the order's SUCCEEDED payment to REFUNDED.
func (repo *paymentRepository) MarkRefundedByOrder(ctx context.Context, orderID uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Model(&model.PaymentModel{}).
		Where("order_id = ? AND status = ?", orderID, entity.PaymentStatusSucceeded.String()).
		Updates(map[string]any{
			"status":     entity.PaymentStatusRefunded.String(),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to mark payment refunded")
	}
	if result.RowsAffected == 0 {
		return repository.ErrPaymentNotFound
	}

	return nil
}

// toPaymentDomain converts a GORM PaymentModel to a domain Payment entity.
func toPaymentDomain(data *model.PaymentModel) *entity.Payment {
	return &entity.Payment{
		ID:        data.ID,
		OrderID:   data.OrderID,
		IntentID:  data.IntentID,
		Amount:    data.Amount,
		Status:    entity.PaymentStatus(data.Status),
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}

// fromPaymentDomain converts a domain Payment entity to a GORM PaymentModel.
func fromPaymentDomain(data *entity.Payment) *model.PaymentModel {
	return &model.PaymentModel{
		ID:       data.ID,
		OrderID:  data.OrderID,
		IntentID: data.IntentID,
		Amount:   data.Amount,
		Status:   data.Status.String(),
	}
}
