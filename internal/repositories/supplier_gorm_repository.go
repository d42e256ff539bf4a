package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"inventory/internal/models"
)

// GORMSupplierRepository is a GORM implementation of SupplierRepository.
type GORMSupplierRepository struct {
	db *gorm.DB
}

// NewGORMSupplierRepository creates a new instance of GORMSupplierRepository.
func NewGORMSupplierRepository(db *gorm.DB) *GORMSupplierRepository {
	return &GORMSupplierRepository{
		db: db,
	}
}

// GetAll retrieves all suppliers from the database.
func (r *GORMSupplierRepository) GetAll() ([]models.Supplier, error) {
	var suppliers []models.Supplier
	if err := r.db.Find(&suppliers).Error; err != nil {
		return nil, fmt.Errorf("failed to get all suppliers: %w", err)
	}
	return suppliers, nil
}

// GetByID retrieves a single supplier by its ID, or (nil, nil) when absent.
func (r *GORMSupplierRepository) GetByID(id string) (*models.Supplier, error) {
	var supplier models.Supplier
	if err := r.db.First(&supplier, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get supplier by ID %s: %w", id, err)
	}
	return &supplier, nil
}

// GetByName retrieves a single supplier by name, or (nil, nil) when absent.
func (r *GORMSupplierRepository) GetByName(name string) (*models.Supplier, error) {
	var supplier models.Supplier
	if err := r.db.First(&supplier, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get supplier by name %q: %w", name, err)
	}
	return &supplier, nil
}

// GetByEmail retrieves a single supplier by its unique email, or (nil, nil) when absent.
func (r *GORMSupplierRepository) GetByEmail(email string) (*models.Supplier, error) {
	var supplier models.Supplier
	if err := r.db.First(&supplier, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get supplier by email %s: %w", email, err)
	}
	return &supplier, nil
}

// SearchByName retrieves suppliers whose name contains the term, case-insensitively.
func (r *GORMSupplierRepository) SearchByName(name string) ([]models.Supplier, error) {
	var suppliers []models.Supplier
	if err := r.db.
		Where("LOWER(name) LIKE LOWER(?)", "%"+name+"%").
		Find(&suppliers).Error; err != nil {
		return nil, fmt.Errorf("failed to search suppliers by name %q: %w", name, err)
	}
	return suppliers, nil
}

// SearchByContactPerson retrieves suppliers whose contact person contains
// the term, case-insensitively.
func (r *GORMSupplierRepository) SearchByContactPerson(contactPerson string) ([]models.Supplier, error) {
	var suppliers []models.Supplier
	if err := r.db.
		Where("LOWER(contact_person) LIKE LOWER(?)", "%"+contactPerson+"%").
		Find(&suppliers).Error; err != nil {
		return nil, fmt.Errorf("failed to search suppliers by contact person %q: %w", contactPerson, err)
	}
	return suppliers, nil
}

// Create creates a new supplier in the database.
func (r *GORMSupplierRepository) Create(supplier *models.Supplier) error {
	if supplier.ID == "" {
		supplier.ID = uuid.New().String()
	}
	if err := r.db.Create(supplier).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("supplier violates a unique constraint: %w", models.ErrDuplicateKey)
		}
		return fmt.Errorf("failed to create supplier: %w", err)
	}
	return nil
}

// Update updates an existing supplier in the database.
func (r *GORMSupplierRepository) Update(supplier *models.Supplier) error {
	res := r.db.Save(supplier)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("supplier violates a unique constraint: %w", models.ErrDuplicateKey)
		}
		return fmt.Errorf("failed to update supplier: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("supplier with ID %s: %w", supplier.ID, models.ErrNotFound)
	}
	return nil
}

// Delete deletes a supplier by its ID from the database.
func (r *GORMSupplierRepository) Delete(id string) error {
	res := r.db.Delete(&models.Supplier{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete supplier: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("supplier with ID %s: %w", id, models.ErrNotFound)
	}
	return nil
}
