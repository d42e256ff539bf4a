package repositories

import "inventory/internal/models"

// CategoryRepository defines the interface for category data access.
// Lookup methods return (nil, nil) when no row matches.
type CategoryRepository interface {
	GetAll() ([]models.Category, error)
	GetByID(id string) (*models.Category, error)
	GetByName(name string) (*models.Category, error)
	SearchByName(name string) ([]models.Category, error)
	Create(category *models.Category) error
	Update(category *models.Category) error
	Delete(id string) error
}
