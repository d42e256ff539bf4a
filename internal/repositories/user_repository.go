package repositories

import "inventory/internal/models"

// UserRepository defines the interface for staff account data access.
// Lookup methods return (nil, nil) when no row matches.
type UserRepository interface {
	Create(user *models.User) error
	GetByUsername(username string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
}
