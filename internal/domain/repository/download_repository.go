package repository

import (
	"context"
	"time"

	"bazaar/internal/domain/entity"

	"github.com/google/uuid"
)

// DownloadRepository defines the interface for the append-only download log.
type DownloadRepository interface {
	// CreateDownloadIfUnderLimit appends a download row only if fewer than
	// maxCount rows exist for the same user and asset within the sliding
	// window ending now. Count and insert happen as a single atomic statement
	// so concurrent requests cannot race past the limit. Returns whether the
	// row was created and the count observed before the insert.
	CreateDownloadIfUnderLimit(ctx context.Context, download *entity.Download, window time.Duration, maxCount int) (created bool, currentCount int64, err error)

	// CountRecentDownloads counts download rows for a user and asset within
	// the sliding window ending now.
	CountRecentDownloads(ctx context.Context, userID, assetID uuid.UUID, window time.Duration) (int64, error)

	// FindDownloadsByUser retrieves a page of the user's download history,
	// newest first, along with the total row count.
	FindDownloadsByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*entity.Download, int64, error)
}
