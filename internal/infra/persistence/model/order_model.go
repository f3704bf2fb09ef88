package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderModel is the GORM-specific struct for the 'orders' table.
// TotalAmount is a snapshot of the asset price at checkout time; it is written
// once on creation and never updated.
type OrderModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	BuyerID     uuid.UUID       `gorm:"type:uuid;not null;index:idx_orders_buyer_asset,priority:1"`
	AssetID     uuid.UUID       `gorm:"type:uuid;not null;index:idx_orders_buyer_asset,priority:2"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status      string          `gorm:"type:text;not null;default:'PENDING';index"`
	SessionID   string          `gorm:"type:text;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Buyer *UserModel  `gorm:"foreignKey:BuyerID"`
	Asset *AssetModel `gorm:"foreignKey:AssetID"`
}

// TableName explicitly sets the table name for GORM.
func (OrderModel) TableName() string {
	return "orders"
}
