package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AssetStatus represents the lifecycle status of a sellable asset.
type AssetStatus string

const (
	// AssetStatusActive indicates the asset is listed and purchasable.
	AssetStatusActive AssetStatus = "ACTIVE"
	// AssetStatusInactive indicates the asset is delisted but not deleted.
	AssetStatusInactive AssetStatus = "INACTIVE"
)

// String returns the string representation of the AssetStatus.
func (s AssetStatus) String() string {
	return string(s)
}

// IsValid checks if the AssetStatus is a valid value.
func (s AssetStatus) IsValid() bool {
	switch s {
	case AssetStatusActive, AssetStatusInactive:
		return true
	default:
		return false
	}
}

// Asset is a vendor-owned sellable item. SourceKey references the private
// object-store item that paying buyers download; PreviewKeys are public.
type Asset struct {
	ID          uuid.UUID
	VendorID    uuid.UUID // The vendor User that owns this asset.
	VendorName  string    // Denormalized vendor display name for summaries.
	Title       string
	Description string
	Price       decimal.Decimal // Non-negative list price, snapshotted onto orders at checkout.
	Category    string
	PreviewKeys []string // Object-store keys of public preview files.
	SourceKey   string   // Object-store key of the private source file.
	Downloads   int64    // Best-effort counter of issued downloads.
	Status      AssetStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time // Soft-delete timestamp; a deleted asset is indistinguishable from a missing one.
}

// IsDeleted reports whether the asset has been soft-deleted.
func (a *Asset) IsDeleted() bool {
	return a.DeletedAt != nil
}

// IsPurchasable reports whether the asset can currently be checked out.
func (a *Asset) IsPurchasable() bool {
	return a.Status == AssetStatusActive && !a.IsDeleted()
}
