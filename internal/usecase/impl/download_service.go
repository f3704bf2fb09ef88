// Package impl contains the concrete use case implementations.
package impl

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"bazaar/config"
	"bazaar/internal/domain/entity"
	domainerrors "bazaar/internal/domain/errors"
	"bazaar/internal/domain/repository"
	"bazaar/internal/domain/service"
	"bazaar/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

type downloadService struct {
	assetRepo    repository.AssetRepository
	orderRepo    repository.OrderRepository
	downloadRepo repository.DownloadRepository
	txManager    repository.TransactionManager
	objectStore  service.ObjectStore
	config       *config.Config
	logger       *slog.Logger
}

// DownloadServiceParams holds dependencies for DownloadService, injected by Fx.
type DownloadServiceParams struct {
	fx.In

	AssetRepo    repository.AssetRepository
	OrderRepo    repository.OrderRepository
	DownloadRepo repository.DownloadRepository
	TxManager    repository.TransactionManager
	ObjectStore  service.ObjectStore
	Config       *config.Config
	Logger       *slog.Logger
}

// NewDownloadService creates a new download service instance
func NewDownloadService(params DownloadServiceParams) usecase.DownloadUsecase {
	return &downloadService{
		assetRepo:    params.AssetRepo,
		orderRepo:    params.OrderRepo,
		downloadRepo: params.DownloadRepo,
		txManager:    params.TxManager,
		objectStore:  params.ObjectStore,
		config:       params.Config,
		logger:       params.Logger,
	}
}

// IssueDownloadURL mints a signed URL for the asset's private source file.
// Each gate fails fast: resolve asset, verify entitlement, validate expiry,
// then append the download row and sign the URL inside one transaction so a
// signing failure rolls the row back and does not consume rate-limit budget.
func (s *downloadService) IssueDownloadURL(ctx context.Context, userID, assetID uuid.UUID, requestedExpirySeconds *int) (*usecase.DownloadGrant, error) {
	asset, err := s.assetRepo.FindAssetByID(ctx, assetID)
	if err != nil {
		if errors.Is(err, repository.ErrAssetNotFound) {
			return nil, domainerrors.ErrAssetNotFound
		}

		return nil, errors.Wrap(err, "failed to find asset")
	}

	if err := s.checkEntitlement(ctx, userID, assetID); err != nil {
		return nil, err
	}

	expiry, err := s.resolveExpiry(requestedExpirySeconds)
	if err != nil {
		return nil, err
	}

	policy := s.config.Downloads
	var signedURL string
	issuedAt := time.Now()

	txErr := s.txManager.Execute(ctx, func(factory repository.RepositoryFactory) error {
		download := &entity.Download{
			UserID:  userID,
			AssetID: assetID,
		}

		created, currentCount, err := factory.NewDownloadRepository().
			CreateDownloadIfUnderLimit(ctx, download, policy.RateWindow, policy.RateMax)
		if err != nil {
			return errors.Wrap(err, "failed to record download")
		}
		if !created {
			return domainerrors.ErrDownloadRateLimited.WithDetails(
				fmt.Sprintf("%d of %d downloads used in the current window", currentCount, policy.RateMax))
		}

		signedURL, err = s.objectStore.SignURL(ctx, asset.SourceKey, expiry)
		if err != nil {
			return domainerrors.NewExternalDependencyError("object store", err)
		}

		issuedAt = time.Now()

		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	// The counter is a best-effort derived statistic; a failed increment must
	// not fail an already-issued download.
	if err := s.assetRepo.IncrementDownloads(ctx, assetID); err != nil {
		s.logger.Warn("Failed to increment asset download counter",
			slog.String("assetId", assetID.String()),
			slog.String("error", err.Error()),
		)
	}

	return &usecase.DownloadGrant{
		URL:       signedURL,
		ExpiresAt: issuedAt.Add(expiry),
		ExpiresIn: int(expiry.Seconds()),
		Asset: usecase.AssetSummary{
			ID:       asset.ID,
			Title:    asset.Title,
			Category: asset.Category,
			Vendor:   asset.VendorName,
		},
	}, nil
}

// checkEntitlement is the hard gate: the authoritative predicate is the
// existence of any PAID order. The latest order's status is consulted only to
// pick a helpful message for buyers who have never completed a purchase.
func (s *downloadService) checkEntitlement(ctx context.Context, userID, assetID uuid.UUID) error {
	owned, err := s.orderRepo.HasPaidOrder(ctx, userID, assetID)
	if err != nil {
		return errors.Wrap(err, "failed to check paid orders")
	}
	if owned {
		return nil
	}

	latest, err := s.orderRepo.FindLatestOrder(ctx, userID, assetID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return domainerrors.ErrNotOwned
		}

		return errors.Wrap(err, "failed to find latest order")
	}

	switch latest.Status {
	case entity.OrderStatusPending:
		return domainerrors.ErrPaymentNotConfirmed
	case entity.OrderStatusFailed:
		return domainerrors.ErrPaymentFailed
	default:
		return domainerrors.ErrForbidden
	}
}

// resolveExpiry applies the configured default and bounds to the caller's
// requested link lifetime.
func (s *downloadService) resolveExpiry(requestedSeconds *int) (time.Duration, error) {
	policy := s.config.Downloads
	if requestedSeconds == nil {
		return policy.DefaultExpiry, nil
	}

	requested := time.Duration(*requestedSeconds) * time.Second
	if requested < policy.MinExpiry || requested > policy.MaxExpiry {
		return 0, domainerrors.ErrInvalidExpiry.WithDetails(
			fmt.Sprintf("expirationSeconds must be between %d and %d",
				int(policy.MinExpiry.Seconds()), int(policy.MaxExpiry.Seconds())))
	}

	return requested, nil
}

// CanDownload is the soft gate used for pre-purchase UI hints. It also
// reports false while the caller's rate-limit budget is exhausted, so the UI
// can grey out the button instead of surfacing a 429.
func (s *downloadService) CanDownload(ctx context.Context, userID, assetID uuid.UUID) (bool, error) {
	owned, err := s.orderRepo.HasPaidOrder(ctx, userID, assetID)
	if err != nil {
		return false, errors.Wrap(err, "failed to check paid orders")
	}
	if !owned {
		return false, nil
	}

	policy := s.config.Downloads
	recent, err := s.downloadRepo.CountRecentDownloads(ctx, userID, assetID, policy.RateWindow)
	if err != nil {
		return false, errors.Wrap(err, "failed to count recent downloads")
	}

	return recent < int64(policy.RateMax), nil
}

// History returns a page of the user's download log, newest first.
func (s *downloadService) History(ctx context.Context, userID uuid.UUID, page, limit int) (*usecase.DownloadHistory, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	downloads, total, err := s.downloadRepo.FindDownloadsByUser(ctx, userID, (page-1)*limit, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find downloads by user")
	}

	records := make([]*usecase.DownloadRecord, 0, len(downloads))
	for _, download := range downloads {
		records = append(records, &usecase.DownloadRecord{
			ID:        download.ID,
			AssetID:   download.AssetID,
			CreatedAt: download.CreatedAt,
		})
	}

	return &usecase.DownloadHistory{
		Data: records,
		Meta: usecase.PageMeta{
			Total:      total,
			Page:       page,
			Limit:      limit,
			TotalPages: int(math.Ceil(float64(total) / float64(limit))),
		},
	}, nil
}
