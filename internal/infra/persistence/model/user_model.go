// Package model contains GORM-specific structs mirroring the domain entities.
package model

import (
	"time"

	"github.com/google/uuid"
)

// UserModel is the GORM-specific struct for the 'users' table.
type UserModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	SubjectID string    `gorm:"type:text;not null;uniqueIndex"`
	Email     string    `gorm:"type:text;not null"`
	Name      string    `gorm:"type:text;not null"`
	Role      string    `gorm:"type:text;not null;default:'CLIENT'"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}
