package services

import (
	"fmt"

	"inventory/internal/models"
	"inventory/internal/repositories"
)

// SupplierService handles business logic related to suppliers: email
// uniqueness (when an email is given) and the guard against deleting a
// supplier still referenced by products.
type SupplierService struct {
	supplierRepo repositories.SupplierRepository
	productRepo  repositories.ProductRepository
}

// NewSupplierService creates a new SupplierService.
func NewSupplierService(supplierRepo repositories.SupplierRepository, productRepo repositories.ProductRepository) *SupplierService {
	return &SupplierService{
		supplierRepo: supplierRepo,
		productRepo:  productRepo,
	}
}

// GetAllSuppliers retrieves all suppliers.
func (s *SupplierService) GetAllSuppliers() ([]models.Supplier, error) {
	return s.supplierRepo.GetAll()
}

// GetSupplierByID retrieves a single supplier by its ID. Absence is a
// normal empty result, returned as (nil, nil).
func (s *SupplierService) GetSupplierByID(id string) (*models.Supplier, error) {
	return s.supplierRepo.GetByID(id)
}

// GetSupplierByName retrieves a single supplier by name.
func (s *SupplierService) GetSupplierByName(name string) (*models.Supplier, error) {
	return s.supplierRepo.GetByName(name)
}

// CreateSupplier creates a new supplier. When an email is given it must not
// already be in use.
func (s *SupplierService) CreateSupplier(input *models.SupplierInput) (*models.Supplier, error) {
	if input.Email != nil {
		if existing, err := s.supplierRepo.GetByEmail(*input.Email); err != nil {
			return nil, err
		} else if existing != nil {
			return nil, fmt.Errorf("supplier with email %s already exists: %w", *input.Email, models.ErrDuplicateKey)
		}
	}

	supplier := &models.Supplier{
		Name:          input.Name,
		Email:         input.Email,
		Phone:         input.Phone,
		Address:       input.Address,
		ContactPerson: input.ContactPerson,
	}
	if err := s.supplierRepo.Create(supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

// UpdateSupplier updates an existing supplier. Email uniqueness is only
// re-checked when the email is given and actually changes.
func (s *SupplierService) UpdateSupplier(id string, input *models.SupplierInput) (*models.Supplier, error) {
	supplier, err := s.supplierRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, fmt.Errorf("supplier with ID %s: %w", id, models.ErrNotFound)
	}

	if input.Email != nil && (supplier.Email == nil || *supplier.Email != *input.Email) {
		if existing, err := s.supplierRepo.GetByEmail(*input.Email); err != nil {
			return nil, err
		} else if existing != nil {
			return nil, fmt.Errorf("supplier with email %s already exists: %w", *input.Email, models.ErrDuplicateKey)
		}
	}

	supplier.Name = input.Name
	supplier.Email = input.Email
	supplier.Phone = input.Phone
	supplier.Address = input.Address
	supplier.ContactPerson = input.ContactPerson
	if err := s.supplierRepo.Update(supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

// DeleteSupplier deletes a supplier by its ID. Deletion is rejected while
// products still reference the supplier.
func (s *SupplierService) DeleteSupplier(id string) error {
	supplier, err := s.supplierRepo.GetByID(id)
	if err != nil {
		return err
	}
	if supplier == nil {
		return fmt.Errorf("supplier with ID %s: %w", id, models.ErrNotFound)
	}

	count, err := s.productRepo.CountBySupplierID(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("supplier %q is referenced by %d products: %w", supplier.Name, count, models.ErrReferenceInUse)
	}

	return s.supplierRepo.Delete(id)
}

// SearchSuppliersByName retrieves suppliers whose name contains the term,
// case-insensitively.
func (s *SupplierService) SearchSuppliersByName(name string) ([]models.Supplier, error) {
	return s.supplierRepo.SearchByName(name)
}

// SearchSuppliersByContactPerson retrieves suppliers whose contact person
// contains the term, case-insensitively.
func (s *SupplierService) SearchSuppliersByContactPerson(contactPerson string) ([]models.Supplier, error) {
	return s.supplierRepo.SearchByContactPerson(contactPerson)
}
