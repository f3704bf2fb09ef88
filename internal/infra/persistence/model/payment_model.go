package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentModel is the GORM-specific struct for the 'payments' table.
// The partial unique index on (order_id) for SUCCEEDED rows backstops the
// webhook idempotency gate: even if two deliveries race past the status
// re-read, only one SUCCEEDED settlement can ever be persisted per order.
type PaymentModel struct {
	ID       uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	OrderID  uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:ux_payments_order_succeeded,where:status = 'SUCCEEDED'"`
	IntentID string          `gorm:"type:text;not null"`
	Amount   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status   string          `gorm:"type:text;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Order *OrderModel `gorm:"foreignKey:OrderID"`
}

// TableName explicitly sets the table name for GORM.
func (PaymentModel) TableName() string {
	return "payments"
}
