package model

import (
	"time"

	"github.com/google/uuid"
)

// DownloadModel is the GORM-specific struct for the 'downloads' table.
// Rows are append-only: never updated, never deleted. The composite index
// serves the sliding-window rate-limit count.
type DownloadModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_downloads_user_asset_created,priority:1"`
	AssetID   uuid.UUID `gorm:"type:uuid;not null;index:idx_downloads_user_asset_created,priority:2"`
	CreatedAt time.Time `gorm:"index:idx_downloads_user_asset_created,priority:3"`

	User  *UserModel  `gorm:"foreignKey:UserID"`
	Asset *AssetModel `gorm:"foreignKey:AssetID"`
}

// TableName explicitly sets the table name for GORM.
func (DownloadModel) TableName() string {
	return "downloads"
}
