package services

import (
	"fmt"

	"inventory/internal/models"
	"inventory/internal/repositories"
)

// CategoryService handles business logic related to categories: name
// uniqueness and the guard against deleting a category still referenced by
// products.
type CategoryService struct {
	categoryRepo repositories.CategoryRepository
	productRepo  repositories.ProductRepository
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(categoryRepo repositories.CategoryRepository, productRepo repositories.ProductRepository) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
	}
}

// GetAllCategories retrieves all categories.
func (s *CategoryService) GetAllCategories() ([]models.Category, error) {
	return s.categoryRepo.GetAll()
}

// GetCategoryByID retrieves a single category by its ID. Absence is a
// normal empty result, returned as (nil, nil).
func (s *CategoryService) GetCategoryByID(id string) (*models.Category, error) {
	return s.categoryRepo.GetByID(id)
}

// GetCategoryByName retrieves a single category by its unique name.
func (s *CategoryService) GetCategoryByName(name string) (*models.Category, error) {
	return s.categoryRepo.GetByName(name)
}

// CreateCategory creates a new category. The name must not already be in use.
func (s *CategoryService) CreateCategory(input *models.CategoryInput) (*models.Category, error) {
	if existing, err := s.categoryRepo.GetByName(input.Name); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, fmt.Errorf("category with name %q already exists: %w", input.Name, models.ErrDuplicateKey)
	}

	category := &models.Category{
		Name:        input.Name,
		Description: input.Description,
	}
	if err := s.categoryRepo.Create(category); err != nil {
		return nil, err
	}
	return category, nil
}

// UpdateCategory updates an existing category. Name uniqueness is only
// re-checked when the name actually changes.
func (s *CategoryService) UpdateCategory(id string, input *models.CategoryInput) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, fmt.Errorf("category with ID %s: %w", id, models.ErrNotFound)
	}

	if category.Name != input.Name {
		if existing, err := s.categoryRepo.GetByName(input.Name); err != nil {
			return nil, err
		} else if existing != nil {
			return nil, fmt.Errorf("category with name %q already exists: %w", input.Name, models.ErrDuplicateKey)
		}
	}

	category.Name = input.Name
	category.Description = input.Description
	if err := s.categoryRepo.Update(category); err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory deletes a category by its ID. Deletion is rejected while
// products still reference the category.
func (s *CategoryService) DeleteCategory(id string) error {
	category, err := s.categoryRepo.GetByID(id)
	if err != nil {
		return err
	}
	if category == nil {
		return fmt.Errorf("category with ID %s: %w", id, models.ErrNotFound)
	}

	count, err := s.productRepo.CountByCategoryID(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("category %q is referenced by %d products: %w", category.Name, count, models.ErrReferenceInUse)
	}

	return s.categoryRepo.Delete(id)
}

// SearchCategoriesByName retrieves categories whose name contains the term,
// case-insensitively.
func (s *CategoryService) SearchCategoriesByName(name string) ([]models.Category, error) {
	return s.categoryRepo.SearchByName(name)
}
