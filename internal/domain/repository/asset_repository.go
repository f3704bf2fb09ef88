package repository

import (
	"context"

	"bazaar/internal/domain/entity"
	"bazaar/internal/errors"

	"github.com/google/uuid"
)

// ErrAssetNotFound is returned when an asset does not exist or is soft-deleted.
// The two cases are deliberately indistinguishable.
var ErrAssetNotFound = errors.New("asset not found")

// AssetRepository defines the interface for asset-related database operations.
type AssetRepository interface {
	// FindAssetByID retrieves an asset by its unique ID. Soft-deleted assets
	// are reported as ErrAssetNotFound.
	FindAssetByID(ctx context.Context, id uuid.UUID) (*entity.Asset, error)

	// IncrementDownloads atomically bumps the asset's download counter by one.
	// The counter is a best-effort derived statistic, not a ledger.
	IncrementDownloads(ctx context.Context, id uuid.UUID) error
}
