package services

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"inventory/internal/models"
	"inventory/internal/repositories"
	"inventory/pkg/rabbitmq"
)

// AlertPublisher publishes stock alert events. Satisfied by rabbitmq.Client.
type AlertPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// ProductService handles business logic related to products: uniqueness of
// SKU and barcode, category/supplier reference resolution, stock mutations
// and the derived inventory views.
type ProductService struct {
	productRepo  repositories.ProductRepository
	categoryRepo repositories.CategoryRepository
	supplierRepo repositories.SupplierRepository
	alerts       AlertPublisher // optional, nil disables alert publishing
}

// NewProductService creates a new ProductService.
func NewProductService(
	productRepo repositories.ProductRepository,
	categoryRepo repositories.CategoryRepository,
	supplierRepo repositories.SupplierRepository,
	alerts AlertPublisher,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		supplierRepo: supplierRepo,
		alerts:       alerts,
	}
}

// GetAllProducts retrieves all products as response views.
func (s *ProductService) GetAllProducts() ([]models.ProductResponse, error) {
	products, err := s.productRepo.GetAll()
	if err != nil {
		return nil, err
	}
	return toResponses(products), nil
}

// GetProductByID retrieves a single product by its ID. Absence is a normal
// empty result, returned as (nil, nil).
func (s *ProductService) GetProductByID(id string) (*models.ProductResponse, error) {
	return s.lookup(s.productRepo.GetByID, id)
}

// GetProductBySKU retrieves a single product by its SKU.
func (s *ProductService) GetProductBySKU(sku string) (*models.ProductResponse, error) {
	return s.lookup(s.productRepo.GetBySKU, sku)
}

// GetProductByBarcode retrieves a single product by its barcode.
func (s *ProductService) GetProductByBarcode(barcode string) (*models.ProductResponse, error) {
	return s.lookup(s.productRepo.GetByBarcode, barcode)
}

func (s *ProductService) lookup(get func(string) (*models.Product, error), key string) (*models.ProductResponse, error) {
	product, err := get(key)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	resp := product.ToResponse()
	return &resp, nil
}

// CreateProduct creates a new product. The SKU and barcode must not already
// be in use and any referenced category/supplier must exist. The store's
// unique constraints remain the backstop should a concurrent writer slip
// past the pre-checks.
func (s *ProductService) CreateProduct(input *models.ProductInput) (*models.ProductResponse, error) {
	if existing, err := s.productRepo.GetBySKU(input.SKU); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, fmt.Errorf("product with SKU %s already exists: %w", input.SKU, models.ErrDuplicateKey)
	}

	if existing, err := s.productRepo.GetByBarcode(input.Barcode); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, fmt.Errorf("product with barcode %s already exists: %w", input.Barcode, models.ErrDuplicateKey)
	}

	product := &models.Product{
		Name:            input.Name,
		Description:     input.Description,
		SKU:             input.SKU,
		Barcode:         input.Barcode,
		Price:           input.Price,
		StockQuantity:   input.StockQuantity,
		MinStockLevel:   input.MinStockLevel,
		ExpirationDate:  input.ExpirationDate,
		IsPerishable:    input.IsPerishable,
		StorageLocation: input.StorageLocation,
	}

	if err := s.resolveReferences(product, input); err != nil {
		return nil, err
	}

	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}

	resp := product.ToResponse()
	return &resp, nil
}

// UpdateProduct fully replaces a product's mutable fields. SKU and barcode
// uniqueness is only re-checked when the value actually changes.
func (s *ProductService) UpdateProduct(id string, input *models.ProductInput) (*models.ProductResponse, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("product with ID %s: %w", id, models.ErrNotFound)
	}

	if product.SKU != input.SKU {
		if existing, err := s.productRepo.GetBySKU(input.SKU); err != nil {
			return nil, err
		} else if existing != nil {
			return nil, fmt.Errorf("product with SKU %s already exists: %w", input.SKU, models.ErrDuplicateKey)
		}
	}

	if product.Barcode != input.Barcode {
		if existing, err := s.productRepo.GetByBarcode(input.Barcode); err != nil {
			return nil, err
		} else if existing != nil {
			return nil, fmt.Errorf("product with barcode %s already exists: %w", input.Barcode, models.ErrDuplicateKey)
		}
	}

	product.Name = input.Name
	product.Description = input.Description
	product.SKU = input.SKU
	product.Barcode = input.Barcode
	product.Price = input.Price
	product.StockQuantity = input.StockQuantity
	product.MinStockLevel = input.MinStockLevel
	product.ExpirationDate = input.ExpirationDate
	product.IsPerishable = input.IsPerishable
	product.StorageLocation = input.StorageLocation

	if err := s.resolveReferences(product, input); err != nil {
		return nil, err
	}

	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}

	resp := product.ToResponse()
	return &resp, nil
}

// resolveReferences resolves the category/supplier ids on the input, when
// given, against the store. Missing references reject the write; absent ids
// leave the current references untouched.
func (s *ProductService) resolveReferences(product *models.Product, input *models.ProductInput) error {
	if input.CategoryID != nil {
		category, err := s.categoryRepo.GetByID(*input.CategoryID)
		if err != nil {
			return err
		}
		if category == nil {
			return fmt.Errorf("category with ID %s: %w", *input.CategoryID, models.ErrReferenceNotFound)
		}
		product.CategoryID = input.CategoryID
		product.Category = category
	}

	if input.SupplierID != nil {
		supplier, err := s.supplierRepo.GetByID(*input.SupplierID)
		if err != nil {
			return err
		}
		if supplier == nil {
			return fmt.Errorf("supplier with ID %s: %w", *input.SupplierID, models.ErrReferenceNotFound)
		}
		product.SupplierID = input.SupplierID
		product.Supplier = supplier
	}

	return nil
}

// UpdateStock replaces only the stock quantity of a product. Negative
// quantities are rejected. When the mutation leaves the product at or below
// its minimum level, a stock alert event is published.
func (s *ProductService) UpdateStock(id string, newQuantity int) (*models.ProductResponse, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("product with ID %s: %w", id, models.ErrNotFound)
	}

	if newQuantity < 0 {
		return nil, fmt.Errorf("stock quantity cannot be negative: %w", models.ErrInvalidArgument)
	}

	product.StockQuantity = newQuantity
	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}

	if product.IsLowStock() {
		s.publishLowStockAlert(product)
	}

	resp := product.ToResponse()
	return &resp, nil
}

// publishLowStockAlert notifies downstream consumers that a product has
// dropped to or below its minimum stock level. Publishing failures are
// logged and do not fail the stock mutation.
func (s *ProductService) publishLowStockAlert(product *models.Product) {
	if s.alerts == nil {
		log.Println("Alert publisher is not initialized. Skipping low stock alert.")
		return
	}

	alert := map[string]interface{}{
		"event":           "stock.low",
		"product_id":      product.ID,
		"sku":             product.SKU,
		"name":            product.Name,
		"stock_quantity":  product.StockQuantity,
		"min_stock_level": product.MinStockLevel,
	}

	body, err := json.Marshal(alert)
	if err != nil {
		log.Printf("Failed to marshal stock alert for product %s: %v", product.ID, err)
		return
	}

	if err := s.alerts.Publish("", rabbitmq.StockAlertQueue, body); err != nil {
		log.Printf("Warning: Failed to publish low stock alert for product %s: %v", product.ID, err)
	}
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(id string) error {
	return s.productRepo.Delete(id)
}

// SearchProductsByName retrieves products whose name contains the term,
// case-insensitively, in store-defined order.
func (s *ProductService) SearchProductsByName(name string) ([]models.ProductResponse, error) {
	products, err := s.productRepo.SearchByName(name)
	if err != nil {
		return nil, err
	}
	return toResponses(products), nil
}

// SearchProductsByStorageLocation retrieves products stored at a matching location.
func (s *ProductService) SearchProductsByStorageLocation(location string) ([]models.ProductResponse, error) {
	products, err := s.productRepo.SearchByStorageLocation(location)
	if err != nil {
		return nil, err
	}
	return toResponses(products), nil
}

// GetLowStockProducts retrieves products whose stock is at or below their
// minimum level.
func (s *ProductService) GetLowStockProducts() ([]models.ProductResponse, error) {
	products, err := s.productRepo.GetLowStock()
	if err != nil {
		return nil, err
	}
	return toResponses(products), nil
}

// GetProductsExpiringWithinDays retrieves products whose expiration date
// falls in [today, today+days). The day count is passed through literally;
// zero or negative values yield an empty window.
func (s *ProductService) GetProductsExpiringWithinDays(days int) ([]models.ProductResponse, error) {
	today := models.DateOnly(time.Now())
	futureDate := today.AddDate(0, 0, days)
	products, err := s.productRepo.GetExpiringBetween(today, futureDate)
	if err != nil {
		return nil, err
	}
	return toResponses(products), nil
}

// GetExpiredProducts retrieves products whose expiration date lies strictly
// before today.
func (s *ProductService) GetExpiredProducts() ([]models.ProductResponse, error) {
	products, err := s.productRepo.GetExpired(models.DateOnly(time.Now()))
	if err != nil {
		return nil, err
	}
	return toResponses(products), nil
}

// GetPerishableProducts retrieves all products marked perishable.
func (s *ProductService) GetPerishableProducts() ([]models.ProductResponse, error) {
	products, err := s.productRepo.GetPerishable()
	if err != nil {
		return nil, err
	}
	return toResponses(products), nil
}

// GetProductsByCategory lists the products referencing a category along
// with their count. The category must exist.
func (s *ProductService) GetProductsByCategory(categoryID string) ([]models.ProductResponse, error) {
	category, err := s.categoryRepo.GetByID(categoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, fmt.Errorf("category with ID %s: %w", categoryID, models.ErrNotFound)
	}
	products, err := s.productRepo.GetByCategoryID(categoryID)
	if err != nil {
		return nil, err
	}
	return toResponses(products), nil
}

// GetProductsBySupplier lists the products referencing a supplier. The
// supplier must exist.
func (s *ProductService) GetProductsBySupplier(supplierID string) ([]models.ProductResponse, error) {
	supplier, err := s.supplierRepo.GetByID(supplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, fmt.Errorf("supplier with ID %s: %w", supplierID, models.ErrNotFound)
	}
	products, err := s.productRepo.GetBySupplierID(supplierID)
	if err != nil {
		return nil, err
	}
	return toResponses(products), nil
}

// GetTotalInventoryValue returns the sum of price * stock quantity over all
// products. An empty inventory yields exactly zero.
func (s *ProductService) GetTotalInventoryValue() (decimal.Decimal, error) {
	return s.productRepo.TotalInventoryValue()
}

func toResponses(products []models.Product) []models.ProductResponse {
	responses := make([]models.ProductResponse, 0, len(products))
	for i := range products {
		responses = append(responses, products[i].ToResponse())
	}
	return responses
}
