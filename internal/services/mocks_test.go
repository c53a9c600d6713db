package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"catalog-service/internal/events"
	"catalog-service/internal/models"
	"catalog-service/internal/notify"
	"catalog-service/internal/repository"
	"catalog-service/internal/storage"
)

// MockStagingStore is a mock implementation of repository.StagingStore
type MockStagingStore struct {
	mock.Mock
}

var _ repository.StagingStore = (*MockStagingStore)(nil)

func (m *MockStagingStore) CreateBatch(batch *models.UploadBatch, rows []models.StagedProduct) error {
	args := m.Called(batch, rows)
	if args.Error(0) == nil && batch.ID == uuid.Nil {
		batch.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockStagingStore) ListPending(supplierID string) ([]models.BatchSummary, error) {
	args := m.Called(supplierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.BatchSummary), args.Error(1)
}

func (m *MockStagingStore) GetBatch(id uuid.UUID) (*models.UploadBatch, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UploadBatch), args.Error(1)
}

func (m *MockStagingStore) Preview(batchID uuid.UUID) ([]models.StagedProduct, error) {
	args := m.Called(batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.StagedProduct), args.Error(1)
}

func (m *MockStagingStore) MarkApproved(batchID uuid.UUID, adminNotes *string) error {
	args := m.Called(batchID, adminNotes)
	return args.Error(0)
}

func (m *MockStagingStore) DeleteBatch(batchID uuid.UUID) error {
	args := m.Called(batchID)
	return args.Error(0)
}

// MockCatalogStore is a mock implementation of repository.CatalogStore
type MockCatalogStore struct {
	mock.Mock
}

var _ repository.CatalogStore = (*MockCatalogStore)(nil)

func (m *MockCatalogStore) UpsertByCode(product *models.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockCatalogStore) SupplierExists(id string) (bool, error) {
	args := m.Called(id)
	return args.Bool(0), args.Error(1)
}

func (m *MockCatalogStore) EnsureSupplier(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockCatalogStore) TouchSupplier(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockCatalogStore) GetProductByCode(ctx context.Context, code string) (*models.Product, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockCatalogStore) ListProducts(ctx context.Context, query models.ProductQuery) ([]models.Product, int64, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockCatalogStore) ListSuppliers() ([]models.Supplier, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Supplier), args.Error(1)
}

// MockFileStore is a mock implementation of storage.FileStore
type MockFileStore struct {
	mock.Mock
}

var _ storage.FileStore = (*MockFileStore)(nil)

func (m *MockFileStore) Save(name string, data []byte) (string, error) {
	args := m.Called(name, data)
	return args.String(0), args.Error(1)
}

func (m *MockFileStore) Exists(path string) bool {
	args := m.Called(path)
	return args.Bool(0)
}

func (m *MockFileStore) Delete(path string) error {
	args := m.Called(path)
	return args.Error(0)
}

// MockNotifier records published events
type MockNotifier struct {
	mock.Mock
}

var _ events.Notifier = (*MockNotifier)(nil)

func (m *MockNotifier) PublishBatchEvent(eventType string, batch *models.UploadBatch, rowCount int) {
	m.Called(eventType, batch, rowCount)
}

func (m *MockNotifier) PublishProductEvent(eventType string, product *models.Product, batchID uuid.UUID) {
	m.Called(eventType, product, batchID)
}

func (m *MockNotifier) Close() {
	m.Called()
}

// MockMailer records notification emails
type MockMailer struct {
	mock.Mock
}

var _ notify.Mailer = (*MockMailer)(nil)

func (m *MockMailer) NotifyBatchUploaded(batch *models.UploadBatch, stagedCount int) error {
	args := m.Called(batch, stagedCount)
	return args.Error(0)
}
