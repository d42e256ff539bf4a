package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"inventory/internal/models"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// withRefs preloads the category and supplier references so response views
// can flatten their names.
func (r *GORMProductRepository) withRefs() *gorm.DB {
	return r.db.Preload("Category").Preload("Supplier")
}

// GetAll retrieves all products from the database.
func (r *GORMProductRepository) GetAll() ([]models.Product, error) {
	var products []models.Product
	if err := r.withRefs().Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID, or (nil, nil) when absent.
func (r *GORMProductRepository) GetByID(id string) (*models.Product, error) {
	return r.getOne("id = ?", id)
}

// GetBySKU retrieves a single product by its SKU, or (nil, nil) when absent.
func (r *GORMProductRepository) GetBySKU(sku string) (*models.Product, error) {
	return r.getOne("sku = ?", sku)
}

// GetByBarcode retrieves a single product by its barcode, or (nil, nil) when absent.
func (r *GORMProductRepository) GetByBarcode(barcode string) (*models.Product, error) {
	return r.getOne("barcode = ?", barcode)
}

func (r *GORMProductRepository) getOne(query string, arg string) (*models.Product, error) {
	var product models.Product
	if err := r.withRefs().First(&product, query, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get product by %q: %w", query, err)
	}
	return &product, nil
}

// GetByCategoryID retrieves all products referencing the given category.
func (r *GORMProductRepository) GetByCategoryID(categoryID string) ([]models.Product, error) {
	var products []models.Product
	if err := r.withRefs().Find(&products, "category_id = ?", categoryID).Error; err != nil {
		return nil, fmt.Errorf("failed to get products by category %s: %w", categoryID, err)
	}
	return products, nil
}

// GetBySupplierID retrieves all products referencing the given supplier.
func (r *GORMProductRepository) GetBySupplierID(supplierID string) ([]models.Product, error) {
	var products []models.Product
	if err := r.withRefs().Find(&products, "supplier_id = ?", supplierID).Error; err != nil {
		return nil, fmt.Errorf("failed to get products by supplier %s: %w", supplierID, err)
	}
	return products, nil
}

// SearchByName retrieves products whose name contains the term, case-insensitively.
func (r *GORMProductRepository) SearchByName(name string) ([]models.Product, error) {
	var products []models.Product
	if err := r.withRefs().
		Where("LOWER(name) LIKE LOWER(?)", "%"+name+"%").
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to search products by name %q: %w", name, err)
	}
	return products, nil
}

// SearchByStorageLocation retrieves products whose storage location contains
// the term, case-insensitively.
func (r *GORMProductRepository) SearchByStorageLocation(location string) ([]models.Product, error) {
	var products []models.Product
	if err := r.withRefs().
		Where("LOWER(storage_location) LIKE LOWER(?)", "%"+location+"%").
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to search products by storage location %q: %w", location, err)
	}
	return products, nil
}

// GetLowStock retrieves products whose stock is at or below their minimum level.
func (r *GORMProductRepository) GetLowStock() ([]models.Product, error) {
	var products []models.Product
	if err := r.withRefs().
		Where("stock_quantity <= min_stock_level").
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get low stock products: %w", err)
	}
	return products, nil
}

// GetExpiringBetween retrieves products whose expiration date falls in
// [from, to), inclusive-exclusive.
func (r *GORMProductRepository) GetExpiringBetween(from, to time.Time) ([]models.Product, error) {
	var products []models.Product
	if err := r.withRefs().
		Where("expiration_date IS NOT NULL AND expiration_date >= ? AND expiration_date < ?", from, to).
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get expiring products: %w", err)
	}
	return products, nil
}

// GetExpired retrieves products whose expiration date lies strictly before asOf.
func (r *GORMProductRepository) GetExpired(asOf time.Time) ([]models.Product, error) {
	var products []models.Product
	if err := r.withRefs().
		Where("expiration_date IS NOT NULL AND expiration_date < ?", asOf).
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get expired products: %w", err)
	}
	return products, nil
}

// GetPerishable retrieves all products marked perishable.
func (r *GORMProductRepository) GetPerishable() ([]models.Product, error) {
	var products []models.Product
	if err := r.withRefs().Find(&products, "is_perishable = ?", true).Error; err != nil {
		return nil, fmt.Errorf("failed to get perishable products: %w", err)
	}
	return products, nil
}

// CountByCategoryID counts products referencing the given category.
func (r *GORMProductRepository) CountByCategoryID(categoryID string) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Product{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count products by category %s: %w", categoryID, err)
	}
	return count, nil
}

// CountBySupplierID counts products referencing the given supplier.
func (r *GORMProductRepository) CountBySupplierID(supplierID string) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Product{}).
		Where("supplier_id = ?", supplierID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count products by supplier %s: %w", supplierID, err)
	}
	return count, nil
}

// TotalInventoryValue sums price * stock_quantity over all products. The
// COALESCE normalizes the empty-table case to exactly zero.
func (r *GORMProductRepository) TotalInventoryValue() (decimal.Decimal, error) {
	var total decimal.Decimal
	if err := r.db.Model(&models.Product{}).
		Select("COALESCE(SUM(price * stock_quantity), 0)").
		Scan(&total).Error; err != nil {
		return decimal.Zero, fmt.Errorf("failed to compute total inventory value: %w", err)
	}
	return total, nil
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if err := r.db.Omit(clause.Associations).Create(product).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("product violates a unique constraint: %w", models.ErrDuplicateKey)
		}
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update updates an existing product in the database.
func (r *GORMProductRepository) Update(product *models.Product) error {
	res := r.db.Omit(clause.Associations).Save(product) // Save replaces all fields, including zero values
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("product violates a unique constraint: %w", models.ErrDuplicateKey)
		}
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// Save does not return ErrRecordNotFound when the row is missing,
		// so RowsAffected is the signal.
		return fmt.Errorf("product with ID %s: %w", product.ID, models.ErrNotFound)
	}
	return nil
}

// Delete deletes a product by its ID from the database.
func (r *GORMProductRepository) Delete(id string) error {
	res := r.db.Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %s: %w", id, models.ErrNotFound)
	}
	return nil
}
