package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AssetModel is the GORM-specific struct for the 'assets' table.
// SourceKey must never be exposed to clients; buyers only ever see signed URLs.
type AssetModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	VendorID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Title       string          `gorm:"type:text;not null"`
	Description string          `gorm:"type:text"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Category    string          `gorm:"type:text;not null;index"`
	PreviewKeys []string        `gorm:"type:text[];serializer:json"`
	SourceKey   string          `gorm:"type:text;not null"`
	Downloads   int64           `gorm:"not null;default:0"`
	Status      string          `gorm:"type:text;not null;default:'ACTIVE'"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`

	Vendor *UserModel `gorm:"foreignKey:VendorID"`
}

// TableName explicitly sets the table name for GORM.
func (AssetModel) TableName() string {
	return "assets"
}
