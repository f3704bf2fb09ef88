package postgres

import (
	"context"

	"bazaar/internal/domain/entity"
	"bazaar/internal/domain/repository"
	"bazaar/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// assetRepository implements the repository.AssetRepository interface.
type assetRepository struct {
	db *gorm.DB
}

// NewAssetRepository is the constructor for assetRepository.
func NewAssetRepository(db *gorm.DB) repository.AssetRepository {
	return &assetRepository{
		db: db,
	}
}

// FindAssetByID retrieves an asset by its unique ID. GORM's soft-delete scope
// filters deleted rows, so a soft-deleted asset surfaces as ErrAssetNotFound
// exactly like a missing one.
func (repo *assetRepository) FindAssetByID(ctx context.Context, id uuid.UUID) (*entity.Asset, error) {
	var assetM model.AssetModel

	if err := repo.db.WithContext(ctx).
		Preload("Vendor").
		Where("id = ?", id).
		First(&assetM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAssetNotFound
		}

		return nil, errors.Wrap(err, "failed to find asset by ID")
	}

	return toAssetDomain(&assetM), nil
}

// IncrementDownloads atomically bumps the download counter. A read-modify-write
// pair would lose increments under concurrency; the expression update does not.
func (repo *assetRepository) IncrementDownloads(ctx context.Context, id uuid.UUID) error {
	if err := repo.db.WithContext(ctx).
		Model(&model.AssetModel{}).
		Where("id = ?", id).
		UpdateColumn("downloads", gorm.Expr("downloads + ?", 1)).Error; err != nil {
		return errors.Wrap(err, "failed to increment asset downloads")
	}

	return nil
}

// toAssetDomain converts a GORM AssetModel to a domain Asset entity.
func toAssetDomain(data *model.AssetModel) *entity.Asset {
	asset := &entity.Asset{
		ID:          data.ID,
		VendorID:    data.VendorID,
		Title:       data.Title,
		Description: data.Description,
		Price:       data.Price,
		Category:    data.Category,
		PreviewKeys: data.PreviewKeys,
		SourceKey:   data.SourceKey,
		Downloads:   data.Downloads,
		Status:      entity.AssetStatus(data.Status),
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}

	if data.Vendor != nil {
		asset.VendorName = data.Vendor.Name
	}
	if data.DeletedAt.Valid {
		deletedAt := data.DeletedAt.Time
		asset.DeletedAt = &deletedAt
	}

	return asset
}
