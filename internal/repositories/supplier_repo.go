package repositories

import "inventory/internal/models"

// SupplierRepository defines the interface for supplier data access.
// Lookup methods return (nil, nil) when no row matches.
type SupplierRepository interface {
	GetAll() ([]models.Supplier, error)
	GetByID(id string) (*models.Supplier, error)
	GetByName(name string) (*models.Supplier, error)
	GetByEmail(email string) (*models.Supplier, error)
	SearchByName(name string) ([]models.Supplier, error)
	SearchByContactPerson(contactPerson string) ([]models.Supplier, error)
	Create(supplier *models.Supplier) error
	Update(supplier *models.Supplier) error
	Delete(id string) error
}
