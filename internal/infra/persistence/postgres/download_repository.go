package postgres

import (
	"context"
	"time"

	"bazaar/internal/domain/entity"
	"bazaar/internal/domain/repository"
	"bazaar/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// downloadRepository implements the repository.DownloadRepository interface.
type downloadRepository struct {
	db *gorm.DB
}

// NewDownloadRepository is the constructor for downloadRepository.
func NewDownloadRepository(db *gorm.DB) repository.DownloadRepository {
	return &downloadRepository{
		db: db,
	}
}

// CreateDownloadIfUnderLimit appends a download row only while the sliding
// window holds fewer than maxCount rows. The count and the insert run as one
// statement, so two concurrent requests cannot both observe count < max and
// both insert past the limit.
func (repo *downloadRepository) CreateDownloadIfUnderLimit(ctx context.Context, download *entity.Download, window time.Duration, maxCount int) (bool, int64, error) {
	if download.ID == uuid.Nil {
		download.ID = uuid.New()
	}
	now := time.Now()

	var currentCount int64
	if err := repo.db.WithContext(ctx).
		Model(&model.DownloadModel{}).
		Where("user_id = ? AND asset_id = ? AND created_at >= ?",
			download.UserID, download.AssetID, now.Add(-window)).
		Count(&currentCount).Error; err != nil {
		return false, 0, errors.Wrap(err, "failed to count downloads in window")
	}

	result := repo.db.WithContext(ctx).Exec(`
		INSERT INTO downloads (id, user_id, asset_id, created_at)
		SELECT ?, ?, ?, ?
		WHERE (
			SELECT COUNT(*) FROM downloads
			WHERE user_id = ? AND asset_id = ? AND created_at >= ?
		) < ?`,
		download.ID, download.UserID, download.AssetID, now,
		download.UserID, download.AssetID, now.Add(-window), maxCount,
	)
	if result.Error != nil {
		return false, currentCount, errors.Wrap(result.Error, "failed to append download row")
	}
	if result.RowsAffected == 0 {
		return false, currentCount, nil
	}

	download.CreatedAt = now

	return true, currentCount, nil
}

// CountRecentDownloads counts download rows inside the sliding window ending
// now. A row exactly window old no longer counts.
func (repo *downloadRepository) CountRecentDownloads(ctx context.Context, userID, assetID uuid.UUID, window time.Duration) (int64, error) {
	var count int64

	if err := repo.db.WithContext(ctx).
		Model(&model.DownloadModel{}).
		Where("user_id = ? AND asset_id = ? AND created_at >= ?",
			userID, assetID, time.Now().Add(-window)).
		Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "failed to count recent downloads")
	}

	return count, nil
}

// FindDownloadsByUser retrieves a page of the user's download history, newest
// first, along with the total row count.
func (repo *downloadRepository) FindDownloadsByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*entity.Download, int64, error) {
	var total int64
	if err := repo.db.WithContext(ctx).
		Model(&model.DownloadModel{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to count downloads by user")
	}

	var downloadModels []*model.DownloadModel
	if err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&downloadModels).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to find downloads by user")
	}

	downloads := make([]*entity.Download, 0, len(downloadModels))
	for _, downloadM := range downloadModels {
		downloads = append(downloads, toDownloadDomain(downloadM))
	}

	return downloads, total, nil
}

// toDownloadDomain converts a GORM DownloadModel to a domain Download entity.
func toDownloadDomain(data *model.DownloadModel) *entity.Download {
	return &entity.Download{
		ID:        data.ID,
		UserID:    data.UserID,
		AssetID:   data.AssetID,
		CreatedAt: data.CreatedAt,
	}
}
