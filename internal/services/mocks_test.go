package services_test

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"inventory/internal/models"
)

// MockProductRepository is a mock implementation of repositories.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) GetAll() ([]models.Product, error) {
	args := m.Called()
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) GetByID(id string) (*models.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) GetBySKU(sku string) (*models.Product, error) {
	args := m.Called(sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) GetByBarcode(barcode string) (*models.Product, error) {
	args := m.Called(barcode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) GetByCategoryID(categoryID string) ([]models.Product, error) {
	args := m.Called(categoryID)
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) GetBySupplierID(supplierID string) ([]models.Product, error) {
	args := m.Called(supplierID)
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) SearchByName(name string) ([]models.Product, error) {
	args := m.Called(name)
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) SearchByStorageLocation(location string) ([]models.Product, error) {
	args := m.Called(location)
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) GetLowStock() ([]models.Product, error) {
	args := m.Called()
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) GetExpiringBetween(from, to time.Time) ([]models.Product, error) {
	args := m.Called(from, to)
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) GetExpired(asOf time.Time) ([]models.Product, error) {
	args := m.Called(asOf)
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) GetPerishable() ([]models.Product, error) {
	args := m.Called()
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) CountByCategoryID(categoryID string) (int64, error) {
	args := m.Called(categoryID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) CountBySupplierID(supplierID string) (int64, error) {
	args := m.Called(supplierID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) TotalInventoryValue() (decimal.Decimal, error) {
	args := m.Called()
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockProductRepository) Create(product *models.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockProductRepository) Update(product *models.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockCategoryRepository is a mock implementation of repositories.CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) GetAll() ([]models.Category, error) {
	args := m.Called()
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *MockCategoryRepository) GetByID(id string) (*models.Category, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoryRepository) GetByName(name string) (*models.Category, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoryRepository) SearchByName(name string) ([]models.Category, error) {
	args := m.Called(name)
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *MockCategoryRepository) Create(category *models.Category) error {
	args := m.Called(category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Update(category *models.Category) error {
	args := m.Called(category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockSupplierRepository is a mock implementation of repositories.SupplierRepository
type MockSupplierRepository struct {
	mock.Mock
}

func (m *MockSupplierRepository) GetAll() ([]models.Supplier, error) {
	args := m.Called()
	return args.Get(0).([]models.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) GetByID(id string) (*models.Supplier, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) GetByName(name string) (*models.Supplier, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) GetByEmail(email string) (*models.Supplier, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) SearchByName(name string) ([]models.Supplier, error) {
	args := m.Called(name)
	return args.Get(0).([]models.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) SearchByContactPerson(contactPerson string) ([]models.Supplier, error) {
	args := m.Called(contactPerson)
	return args.Get(0).([]models.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) Create(supplier *models.Supplier) error {
	args := m.Called(supplier)
	return args.Error(0)
}

func (m *MockSupplierRepository) Update(supplier *models.Supplier) error {
	args := m.Called(supplier)
	return args.Error(0)
}

func (m *MockSupplierRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByUsername(username string) (*models.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockAlertPublisher is a mock implementation of services.AlertPublisher
type MockAlertPublisher struct {
	mock.Mock
}

func (m *MockAlertPublisher) Publish(exchange, routingKey string, body []byte) error {
	args := m.Called(exchange, routingKey, body)
	return args.Error(0)
}
