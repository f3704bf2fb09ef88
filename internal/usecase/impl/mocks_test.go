package impl

import (
	"context"
	"io"
	"log/slog"
	"time"

	"bazaar/internal/domain/entity"
	"bazaar/internal/domain/repository"
	"bazaar/internal/domain/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) UpsertBySubject(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)

	return args.Error(0)
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.User), args.Error(1)
}

type MockAssetRepository struct {
	mock.Mock
}

func (m *MockAssetRepository) FindAssetByID(ctx context.Context, id uuid.UUID) (*entity.Asset, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Asset), args.Error(1)
}

func (m *MockAssetRepository) IncrementDownloads(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) CreateOrder(ctx context.Context, order *entity.Order) error {
	args := m.Called(ctx, order)

	return args.Error(0)
}

func (m *MockOrderRepository) FindOrderByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Order), args.Error(1)
}

func (m *MockOrderRepository) FindOrderByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Order), args.Error(1)
}

func (m *MockOrderRepository) FindLatestOrder(ctx context.Context, buyerID, assetID uuid.UUID) (*entity.Order, error) {
	args := m.Called(ctx, buyerID, assetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Order), args.Error(1)
}

func (m *MockOrderRepository) HasPaidOrder(ctx context.Context, buyerID, assetID uuid.UUID) (bool, error) {
	args := m.Called(ctx, buyerID, assetID)

	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) FindRecentPendingOrder(ctx context.Context, buyerID, assetID uuid.UUID, since time.Time) (*entity.Order, error) {
	args := m.Called(ctx, buyerID, assetID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status entity.OrderStatus) error {
	args := m.Called(ctx, id, status)

	return args.Error(0)
}

func (m *MockOrderRepository) SetOrderSession(ctx context.Context, id uuid.UUID, sessionID string) error {
	args := m.Called(ctx, id, sessionID)

	return args.Error(0)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) CreatePayment(ctx context.Context, payment *entity.Payment) error {
	args := m.Called(ctx, payment)

	return args.Error(0)
}

func (m *MockPaymentRepository) FindPaymentByOrder(ctx context.Context, orderID uuid.UUID) (*entity.Payment, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Payment), args.Error(1)
}

func (m *MockPaymentRepository) MarkRefundedByOrder(ctx context.Context, orderID uuid.UUID) error {
	args := m.Called(ctx, orderID)

	return args.Error(0)
}

type MockDownloadRepository struct {
	mock.Mock
}

func (m *MockDownloadRepository) CreateDownloadIfUnderLimit(ctx context.Context, download *entity.Download, window time.Duration, maxCount int) (bool, int64, error) {
	args := m.Called(ctx, download, window, maxCount)

	return args.Bool(0), args.Get(1).(int64), args.Error(2)
}

func (m *MockDownloadRepository) CountRecentDownloads(ctx context.Context, userID, assetID uuid.UUID, window time.Duration) (int64, error) {
	args := m.Called(ctx, userID, assetID, window)

	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDownloadRepository) FindDownloadsByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*entity.Download, int64, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}

	return args.Get(0).([]*entity.Download), args.Get(1).(int64), args.Error(2)
}

type MockObjectStore struct {
	mock.Mock
}

func (m *MockObjectStore) SignURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, key, expiry)

	return args.String(0), args.Error(1)
}

func (m *MockObjectStore) Upload(ctx context.Context, key, contentType string, body io.Reader) error {
	args := m.Called(ctx, key, contentType, body)

	return args.Error(0)
}

func (m *MockObjectStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)

	return args.Error(0)
}

type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) CreateCheckoutSession(ctx context.Context, input service.CheckoutSessionInput) (*service.CheckoutSession, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*service.CheckoutSession), args.Error(1)
}

func (m *MockPaymentGateway) VerifyWebhook(payload []byte, signatureHeader string) (*service.WebhookEvent, error) {
	args := m.Called(payload, signatureHeader)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*service.WebhookEvent), args.Error(1)
}

// stubRepositoryFactory hands back the same mocks inside a transaction so a
// test can assert on transactional and non-transactional calls alike.
type stubRepositoryFactory struct {
	assets    repository.AssetRepository
	orders    repository.OrderRepository
	payments  repository.PaymentRepository
	downloads repository.DownloadRepository
}

func (f *stubRepositoryFactory) NewAssetRepository() repository.AssetRepository {
	return f.assets
}

func (f *stubRepositoryFactory) NewOrderRepository() repository.OrderRepository {
	return f.orders
}

func (f *stubRepositoryFactory) NewPaymentRepository() repository.PaymentRepository {
	return f.payments
}

func (f *stubRepositoryFactory) NewDownloadRepository() repository.DownloadRepository {
	return f.downloads
}

// stubTransactionManager runs the callback immediately against the stub
// factory. Rollback semantics are covered by the postgres integration code,
// not here.
type stubTransactionManager struct {
	factory *stubRepositoryFactory
}

func (m *stubTransactionManager) Execute(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
	return fn(m.factory)
}
