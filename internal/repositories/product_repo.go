package repositories

import (
	"time"

	"github.com/shopspring/decimal"

	"inventory/internal/models"
)

// ProductRepository defines the interface for product data access.
//
// Lookup methods return (nil, nil) when no row matches; absence is a normal
// outcome there, not an error. The storage-level unique constraints on SKU
// and barcode remain the authoritative guard against duplicate writes.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	GetBySKU(sku string) (*models.Product, error)
	GetByBarcode(barcode string) (*models.Product, error)
	GetByCategoryID(categoryID string) ([]models.Product, error)
	GetBySupplierID(supplierID string) ([]models.Product, error)
	SearchByName(name string) ([]models.Product, error)
	SearchByStorageLocation(location string) ([]models.Product, error)
	GetLowStock() ([]models.Product, error)
	GetExpiringBetween(from, to time.Time) ([]models.Product, error)
	GetExpired(asOf time.Time) ([]models.Product, error)
	GetPerishable() ([]models.Product, error)
	CountByCategoryID(categoryID string) (int64, error)
	CountBySupplierID(supplierID string) (int64, error)
	TotalInventoryValue() (decimal.Decimal, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error
}
