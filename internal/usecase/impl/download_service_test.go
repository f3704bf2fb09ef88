package impl

import (
	"context"
	"testing"
	"time"

	"bazaar/config"
	"bazaar/internal/domain/entity"
	domainerrors "bazaar/internal/domain/errors"
	"bazaar/internal/domain/repository"
	"bazaar/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type downloadServiceMocks struct {
	assetRepo    *MockAssetRepository
	orderRepo    *MockOrderRepository
	downloadRepo *MockDownloadRepository
	objectStore  *MockObjectStore
}

func newTestDownloadService(t *testing.T) (usecase.DownloadUsecase, *downloadServiceMocks) {
	t.Helper()

	mocks := &downloadServiceMocks{
		assetRepo:    new(MockAssetRepository),
		orderRepo:    new(MockOrderRepository),
		downloadRepo: new(MockDownloadRepository),
		objectStore:  new(MockObjectStore),
	}

	cfg := &config.Config{
		Downloads: &config.DownloadsConfig{
			DefaultExpiry: 5 * time.Minute,
			MinExpiry:     time.Minute,
			MaxExpiry:     time.Hour,
			RateWindow:    time.Hour,
			RateMax:       5,
		},
	}

	svc := NewDownloadService(DownloadServiceParams{
		AssetRepo:    mocks.assetRepo,
		OrderRepo:    mocks.orderRepo,
		DownloadRepo: mocks.downloadRepo,
		TxManager: &stubTransactionManager{factory: &stubRepositoryFactory{
			assets:    mocks.assetRepo,
			orders:    mocks.orderRepo,
			downloads: mocks.downloadRepo,
		}},
		ObjectStore: mocks.objectStore,
		Config:      cfg,
		Logger:      discardLogger(),
	})

	return svc, mocks
}

func activeAsset(vendorID uuid.UUID) *entity.Asset {
	return &entity.Asset{
		ID:         uuid.New(),
		VendorID:   vendorID,
		VendorName: "Pixel Forge",
		Title:      "Icon Pack Vol. 3",
		Price:      decimal.NewFromFloat(29.99),
		Category:   "icons",
		SourceKey:  "assets/icon-pack-vol-3/source.zip",
		Status:     entity.AssetStatusActive,
	}
}

func TestDownloadService_IssueDownloadURL(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("issues a signed URL with the default expiry", func(t *testing.T) {
		t.Parallel()

		svc, mocks := newTestDownloadService(t)
		userID := uuid.New()
		asset := activeAsset(uuid.New())

		mocks.assetRepo.On("FindAssetByID", ctx, asset.ID).Return(asset, nil)
		mocks.orderRepo.On("HasPaidOrder", ctx, userID, asset.ID).Return(true, nil)
		mocks.downloadRepo.On("CreateDownloadIfUnderLimit", ctx, mock.AnythingOfType("*entity.Download"), time.Hour, 5).
			Return(true, int64(2), nil)
		mocks.objectStore.On("SignURL", ctx, asset.SourceKey, 5*time.Minute).
			Return("https://cdn.example.com/signed/source.zip", nil)
		mocks.assetRepo.On("IncrementDownloads", ctx, asset.ID).Return(nil)

		grant, err := svc.IssueDownloadURL(ctx, userID, asset.ID, nil)

		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/signed/source.zip", grant.URL)
		assert.Equal(t, 300, grant.ExpiresIn)
		assert.WithinDuration(t, time.Now().Add(5*time.Minute), grant.ExpiresAt, 5*time.Second)
		assert.Equal(t, asset.Title, grant.Asset.Title)
		assert.Equal(t, asset.VendorName, grant.Asset.Vendor)
		mocks.assetRepo.AssertExpectations(t)
		mocks.downloadRepo.AssertExpectations(t)
		mocks.objectStore.AssertExpectations(t)
	})

	t.Run("honors a requested expiry at the bounds", func(t *testing.T) {
		t.Parallel()

		for _, seconds := range []int{60, 3600} {
			svc, mocks := newTestDownloadService(t)
			userID := uuid.New()
			asset := activeAsset(uuid.New())
			expiry := time.Duration(seconds) * time.Second

			mocks.assetRepo.On("FindAssetByID", ctx, asset.ID).Return(asset, nil)
			mocks.orderRepo.On("HasPaidOrder", ctx, userID, asset.ID).Return(true, nil)
			mocks.downloadRepo.On("CreateDownloadIfUnderLimit", ctx, mock.AnythingOfType("*entity.Download"), time.Hour, 5).
				Return(true, int64(0), nil)
			mocks.objectStore.On("SignURL", ctx, asset.SourceKey, expiry).
				Return("https://cdn.example.com/signed", nil)
			mocks.assetRepo.On("IncrementDownloads", ctx, asset.ID).Return(nil)

			grant, err := svc.IssueDownloadURL(ctx, userID, asset.ID, &seconds)

			require.NoError(t, err)
			assert.Equal(t, seconds, grant.ExpiresIn)
		}
	})

	t.Run("rejects expiry outside the bounds", func(t *testing.T) {
		t.Parallel()

		for _, seconds := range []int{59, 3601, 0, -10} {
			svc, mocks := newTestDownloadService(t)
			userID := uuid.New()
			asset := activeAsset(uuid.New())

			mocks.assetRepo.On("FindAssetByID", ctx, asset.ID).Return(asset, nil)
			mocks.orderRepo.On("HasPaidOrder", ctx, userID, asset.ID).Return(true, nil)

			_, err := svc.IssueDownloadURL(ctx, userID, asset.ID, &seconds)

			assert.ErrorIs(t, err, domainerrors.ErrInvalidExpiry, "expiry %d should be rejected", seconds)
			mocks.downloadRepo.AssertNotCalled(t, "CreateDownloadIfUnderLimit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		}
	})

	t.Run("reports a missing asset", func(t *testing.T) {
		t.Parallel()

		svc, mocks := newTestDownloadService(t)
		assetID := uuid.New()

		mocks.assetRepo.On("FindAssetByID", ctx, assetID).Return(nil, repository.ErrAssetNotFound)

		_, err := svc.IssueDownloadURL(ctx, uuid.New(), assetID, nil)

		assert.ErrorIs(t, err, domainerrors.ErrAssetNotFound)
	})

	t.Run("rejects a buyer with no orders", func(t *testing.T) {
		t.Parallel()

		svc, mocks := newTestDownloadService(t)
		userID := uuid.New()
		asset := activeAsset(uuid.New())

		mocks.assetRepo.On("FindAssetByID", ctx, asset.ID).Return(asset, nil)
		mocks.orderRepo.On("HasPaidOrder", ctx, userID, asset.ID).Return(false, nil)
		mocks.orderRepo.On("FindLatestOrder", ctx, userID, asset.ID).Return(nil, repository.ErrOrderNotFound)

		_, err := svc.IssueDownloadURL(ctx, userID, asset.ID, nil)

		assert.ErrorIs(t, err, domainerrors.ErrNotOwned)
		mocks.objectStore.AssertNotCalled(t, "SignURL", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("explains a pending payment", func(t *testing.T) {
		t.Parallel()

		svc, mocks := newTestDownloadService(t)
		userID := uuid.New()
		asset := activeAsset(uuid.New())

		mocks.assetRepo.On("FindAssetByID", ctx, asset.ID).Return(asset, nil)
		mocks.orderRepo.On("HasPaidOrder", ctx, userID, asset.ID).Return(false, nil)
		mocks.orderRepo.On("FindLatestOrder", ctx, userID, asset.ID).
			Return(&entity.Order{ID: uuid.New(), Status: entity.OrderStatusPending}, nil)

		_, err := svc.IssueDownloadURL(ctx, userID, asset.ID, nil)

		assert.ErrorIs(t, err, domainerrors.ErrPaymentNotConfirmed)
	})

	t.Run("explains a failed payment", func(t *testing.T) {
		t.Parallel()

		svc, mocks := newTestDownloadService(t)
		userID := uuid.New()
		asset := activeAsset(uuid.New())

		mocks.assetRepo.On("FindAssetByID", ctx, asset.ID).Return(asset, nil)
		mocks.orderRepo.On("HasPaidOrder", ctx, userID, asset.ID).Return(false, nil)
		mocks.orderRepo.On("FindLatestOrder", ctx, userID, asset.ID).
			Return(&entity.Order{ID: uuid.New(), Status: entity.OrderStatusFailed}, nil)

		_, err := svc.IssueDownloadURL(ctx, userID, asset.ID, nil)

		assert.ErrorIs(t, err, domainerrors.ErrPaymentFailed)
	})

	t.Run("stays generic for a refunded purchase", func(t *testing.T) {
		t.Parallel()

		svc, mocks := newTestDownloadService(t)
		userID := uuid.New()
		asset := activeAsset(uuid.New())

		mocks.assetRepo.On("FindAssetByID", ctx, asset.ID).Return(asset, nil)
		mocks.orderRepo.On("HasPaidOrder", ctx, userID, asset.ID).Return(false, nil)
		mocks.orderRepo.On("FindLatestOrder", ctx, userID, asset.ID).
			Return(&entity.Order{ID: uuid.New(), Status: entity.OrderStatusRefunded}, nil)

		_, err := svc.IssueDownloadURL(ctx, userID, asset.ID, nil)

		assert.ErrorIs(t, err, domainerrors.ErrForbidden)
	})

	t.Run("enforces the rate limit", func(t *testing.T) {
		t.Parallel()

		svc, mocks := newTestDownloadService(t)
		userID := uuid.New()
		asset := activeAsset(uuid.New())

		mocks.assetRepo.On("FindAssetByID", ctx, asset.ID).Return(asset, nil)
		mocks.orderRepo.On("HasPaidOrder", ctx, userID, asset.ID).Return(true, nil)
		mocks.downloadRepo.On("CreateDownloadIfUnderLimit", ctx, mock.AnythingOfType("*entity.Download"), time.Hour, 5).
			Return(false, int64(5), nil)

		_, err := svc.IssueDownloadURL(ctx, userID, asset.ID, nil)

		assert.ErrorIs(t, err, domainerrors.ErrDownloadRateLimited)
		mocks.objectStore.AssertNotCalled(t, "SignURL", mock.Anything, mock.Anything, mock.Anything)
		mocks.assetRepo.AssertNotCalled(t, "IncrementDownloads", mock.Anything, mock.Anything)
	})

	t.Run("surfaces a signing failure as an upstream fault", func(t *testing.T) {
		t.Parallel()

		svc, mocks := newTestDownloadService(t)
		userID := uuid.New()
		asset := activeAsset(uuid.New())

		mocks.assetRepo.On("FindAssetByID", ctx, asset.ID).Return(asset, nil)
		mocks.orderRepo.On("HasPaidOrder", ctx, userID, asset.ID).Return(true, nil)
		mocks.downloadRepo.On("CreateDownloadIfUnderLimit", ctx, mock.AnythingOfType("*entity.Download"), time.Hour, 5).
			Return(true, int64(0), nil)
		mocks.objectStore.On("SignURL", ctx, asset.SourceKey, 5*time.Minute).
			Return("", errors.New("bucket unavailable"))

		_, err := svc.IssueDownloadURL(ctx, userID, asset.ID, nil)

		require.Error(t, err)
		var appErr domainerrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "EXTERNAL_DEPENDENCY_FAILURE", appErr.ErrorCode())
		mocks.assetRepo.AssertNotCalled(t, "IncrementDownloads", mock.Anything, mock.Anything)
	})

	t.Run("ignores a counter increment failure", func(t *testing.T) {
		t.Parallel()

		svc, mocks := newTestDownloadService(t)
		userID := uuid.New()
		asset := activeAsset(uuid.New())

		mocks.assetRepo.On("FindAssetByID", ctx, asset.ID).Return(asset, nil)
		mocks.orderRepo.On("HasPaidOrder", ctx, userID, asset.ID).Return(true, nil)
		mocks.downloadRepo.On("CreateDownloadIfUnderLimit", ctx, mock.AnythingOfType("*entity.Download"), time.Hour, 5).
			Return(true, int64(0), nil)
		mocks.objectStore.On("SignURL", ctx, asset.SourceKey, 5*time.Minute).
			Return("https://cdn.example.com/signed", nil)
		mocks.assetRepo.On("IncrementDownloads", ctx, asset.ID).Return(errors.New("deadlock"))

		grant, err := svc.IssueDownloadURL(ctx, userID, asset.ID, nil)

		require.NoError(t, err)
		assert.NotEmpty(t, grant.URL)
	})
}

func TestDownloadService_CanDownload(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("true with a paid order and budget left", func(t *testing.T) {
		t.Parallel()

		svc, mocks := newTestDownloadService(t)
		userID, assetID := uuid.New(), uuid.New()

		mocks.orderRepo.On("HasPaidOrder", ctx, userID, assetID).Return(true, nil)
		mocks.downloadRepo.On("CountRecentDownloads", ctx, userID, assetID, time.Hour).Return(int64(3), nil)

		ok, err := svc.CanDownload(ctx, userID, assetID)

		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("false without an entitlement error", func(t *testing.T) {
		t.Parallel()

		svc, mocks := newTestDownloadService(t)
		userID, assetID := uuid.New(), uuid.New()

		mocks.orderRepo.On("HasPaidOrder", ctx, userID, assetID).Return(false, nil)

		ok, err := svc.CanDownload(ctx, userID, assetID)

		require.NoError(t, err)
		assert.False(t, ok)
		mocks.downloadRepo.AssertNotCalled(t, "CountRecentDownloads", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("false while the rate budget is exhausted", func(t *testing.T) {
		t.Parallel()

		svc, mocks := newTestDownloadService(t)
		userID, assetID := uuid.New(), uuid.New()

		mocks.orderRepo.On("HasPaidOrder", ctx, userID, assetID).Return(true, nil)
		mocks.downloadRepo.On("CountRecentDownloads", ctx, userID, assetID, time.Hour).Return(int64(5), nil)

		ok, err := svc.CanDownload(ctx, userID, assetID)

		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestDownloadService_History(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("pages newest first with totals", func(t *testing.T) {
		t.Parallel()

		svc, mocks := newTestDownloadService(t)
		userID := uuid.New()
		rows := []*entity.Download{
			{ID: uuid.New(), AssetID: uuid.New(), CreatedAt: time.Now()},
			{ID: uuid.New(), AssetID: uuid.New(), CreatedAt: time.Now().Add(-time.Minute)},
		}

		mocks.downloadRepo.On("FindDownloadsByUser", ctx, userID, 20, 20).Return(rows, int64(42), nil)

		history, err := svc.History(ctx, userID, 2, 20)

		require.NoError(t, err)
		assert.Len(t, history.Data, 2)
		assert.Equal(t, int64(42), history.Meta.Total)
		assert.Equal(t, 2, history.Meta.Page)
		assert.Equal(t, 3, history.Meta.TotalPages)
	})

	t.Run("normalizes out-of-range paging inputs", func(t *testing.T) {
		t.Parallel()

		svc, mocks := newTestDownloadService(t)
		userID := uuid.New()

		mocks.downloadRepo.On("FindDownloadsByUser", ctx, userID, 0, 20).Return([]*entity.Download{}, int64(0), nil)

		history, err := svc.History(ctx, userID, 0, -5)

		require.NoError(t, err)
		assert.Equal(t, 1, history.Meta.Page)
		assert.Equal(t, 20, history.Meta.Limit)
		assert.Equal(t, 0, history.Meta.TotalPages)
	})
}
