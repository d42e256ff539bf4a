package handlers

import (
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"inventory/internal/models"
	"inventory/internal/services"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service    *services.ProductService
	validate   *validator.Validate
	expiryDays int // default look-ahead for the expiring listing
}

// NewProductHandler creates a new ProductHandler. defaultExpiryDays is the
// window used by the expiring listing when no days query parameter is given.
func NewProductHandler(service *services.ProductService, defaultExpiryDays int) *ProductHandler {
	return &ProductHandler{
		service:    service,
		validate:   validator.New(),
		expiryDays: defaultExpiryDays,
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/search", h.HandleSearchProducts)
	productRoutes.Get("/low-stock", h.HandleGetLowStockProducts)
	productRoutes.Get("/expiring", h.HandleGetExpiringProducts)
	productRoutes.Get("/expired", h.HandleGetExpiredProducts)
	productRoutes.Get("/perishable", h.HandleGetPerishableProducts)
	productRoutes.Get("/location", h.HandleSearchByStorageLocation)
	productRoutes.Get("/inventory-value", h.HandleGetTotalInventoryValue)
	productRoutes.Get("/sku/:sku", h.HandleGetProductBySKU)
	productRoutes.Get("/barcode/:barcode", h.HandleGetProductByBarcode)
	productRoutes.Get("/category/:categoryID", h.HandleGetProductsByCategory)
	productRoutes.Get("/supplier/:supplierID", h.HandleGetProductsBySupplier)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Patch("/:id/stock", h.HandleUpdateStock)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
}

// parseProductInput parses and validates a product payload. Field shape and
// range checks happen here; uniqueness and reference existence stay with
// the service.
func (h *ProductHandler) parseProductInput(c *fiber.Ctx) (*models.ProductInput, error) {
	var input models.ProductInput
	if err := c.BodyParser(&input); err != nil {
		return nil, fmt.Errorf("invalid request body: %w", err)
	}

	if err := h.validate.Struct(input); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return nil, fmt.Errorf("validation failed: %v", errorMessages)
	}

	// The validator cannot compare decimals, so positivity is checked here.
	if input.Price.Sign() <= 0 {
		return nil, fmt.Errorf("price must be greater than zero")
	}

	return &input, nil
}

// HandleGetProducts retrieves all products.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts()
	if err != nil {
		log.Printf("Error getting all products: %v", err)
		return errorJSON(c, "Could not retrieve products", err)
	}
	return c.JSON(products)
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	product, err := h.service.GetProductByID(c.Params("id"))
	if err != nil {
		log.Printf("Error getting product by ID %s: %v", c.Params("id"), err)
		return errorJSON(c, "Could not retrieve product", err)
	}
	if product == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": fmt.Sprintf("Product with ID %s not found", c.Params("id")),
		})
	}
	return c.JSON(product)
}

// HandleGetProductBySKU retrieves a single product by its SKU.
func (h *ProductHandler) HandleGetProductBySKU(c *fiber.Ctx) error {
	product, err := h.service.GetProductBySKU(c.Params("sku"))
	if err != nil {
		log.Printf("Error getting product by SKU %s: %v", c.Params("sku"), err)
		return errorJSON(c, "Could not retrieve product", err)
	}
	if product == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": fmt.Sprintf("Product with SKU %s not found", c.Params("sku")),
		})
	}
	return c.JSON(product)
}

// HandleGetProductByBarcode retrieves a single product by its barcode.
func (h *ProductHandler) HandleGetProductByBarcode(c *fiber.Ctx) error {
	product, err := h.service.GetProductByBarcode(c.Params("barcode"))
	if err != nil {
		log.Printf("Error getting product by barcode %s: %v", c.Params("barcode"), err)
		return errorJSON(c, "Could not retrieve product", err)
	}
	if product == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": fmt.Sprintf("Product with barcode %s not found", c.Params("barcode")),
		})
	}
	return c.JSON(product)
}

// HandleCreateProduct creates a new product.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	input, err := h.parseProductInput(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid product payload",
			"error":   err.Error(),
		})
	}

	product, err := h.service.CreateProduct(input)
	if err != nil {
		log.Printf("Error creating product: %v", err)
		return errorJSON(c, "Could not create product", err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct fully replaces an existing product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	input, err := h.parseProductInput(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid product payload",
			"error":   err.Error(),
		})
	}

	product, err := h.service.UpdateProduct(c.Params("id"), input)
	if err != nil {
		log.Printf("Error updating product %s: %v", c.Params("id"), err)
		return errorJSON(c, "Could not update product", err)
	}
	return c.JSON(product)
}

// stockUpdateRequest represents the PATCH body for a stock mutation.
type stockUpdateRequest struct {
	Quantity *int `json:"quantity"`
}

// HandleUpdateStock replaces the stock quantity of a product.
func (h *ProductHandler) HandleUpdateStock(c *fiber.Ctx) error {
	var req stockUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if req.Quantity == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "quantity is required",
		})
	}

	product, err := h.service.UpdateStock(c.Params("id"), *req.Quantity)
	if err != nil {
		log.Printf("Error updating stock for product %s: %v", c.Params("id"), err)
		return errorJSON(c, "Could not update stock", err)
	}
	return c.JSON(product)
}

// HandleDeleteProduct deletes a product by its ID.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	if err := h.service.DeleteProduct(c.Params("id")); err != nil {
		log.Printf("Error deleting product %s: %v", c.Params("id"), err)
		return errorJSON(c, "Could not delete product", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleSearchProducts searches products by name.
func (h *ProductHandler) HandleSearchProducts(c *fiber.Ctx) error {
	products, err := h.service.SearchProductsByName(c.Query("name"))
	if err != nil {
		log.Printf("Error searching products: %v", err)
		return errorJSON(c, "Could not search products", err)
	}
	return c.JSON(products)
}

// HandleSearchByStorageLocation searches products by storage location.
func (h *ProductHandler) HandleSearchByStorageLocation(c *fiber.Ctx) error {
	products, err := h.service.SearchProductsByStorageLocation(c.Query("q"))
	if err != nil {
		log.Printf("Error searching products by location: %v", err)
		return errorJSON(c, "Could not search products", err)
	}
	return c.JSON(products)
}

// HandleGetLowStockProducts retrieves products running low on stock.
func (h *ProductHandler) HandleGetLowStockProducts(c *fiber.Ctx) error {
	products, err := h.service.GetLowStockProducts()
	if err != nil {
		log.Printf("Error getting low stock products: %v", err)
		return errorJSON(c, "Could not retrieve low stock products", err)
	}
	return c.JSON(products)
}

// HandleGetExpiringProducts retrieves products expiring within the given
// number of days, falling back to the configured default window. The day
// count is passed through unvalidated.
func (h *ProductHandler) HandleGetExpiringProducts(c *fiber.Ctx) error {
	days := c.QueryInt("days", h.expiryDays)
	products, err := h.service.GetProductsExpiringWithinDays(days)
	if err != nil {
		log.Printf("Error getting expiring products: %v", err)
		return errorJSON(c, "Could not retrieve expiring products", err)
	}
	return c.JSON(products)
}

// HandleGetExpiredProducts retrieves products that have already expired.
func (h *ProductHandler) HandleGetExpiredProducts(c *fiber.Ctx) error {
	products, err := h.service.GetExpiredProducts()
	if err != nil {
		log.Printf("Error getting expired products: %v", err)
		return errorJSON(c, "Could not retrieve expired products", err)
	}
	return c.JSON(products)
}

// HandleGetPerishableProducts retrieves all perishable products.
func (h *ProductHandler) HandleGetPerishableProducts(c *fiber.Ctx) error {
	products, err := h.service.GetPerishableProducts()
	if err != nil {
		log.Printf("Error getting perishable products: %v", err)
		return errorJSON(c, "Could not retrieve perishable products", err)
	}
	return c.JSON(products)
}

// HandleGetProductsByCategory lists the products referencing a category.
func (h *ProductHandler) HandleGetProductsByCategory(c *fiber.Ctx) error {
	products, err := h.service.GetProductsByCategory(c.Params("categoryID"))
	if err != nil {
		log.Printf("Error getting products by category %s: %v", c.Params("categoryID"), err)
		return errorJSON(c, "Could not retrieve products for category", err)
	}
	return c.JSON(fiber.Map{
		"count":    len(products),
		"products": products,
	})
}

// HandleGetProductsBySupplier lists the products referencing a supplier.
func (h *ProductHandler) HandleGetProductsBySupplier(c *fiber.Ctx) error {
	products, err := h.service.GetProductsBySupplier(c.Params("supplierID"))
	if err != nil {
		log.Printf("Error getting products by supplier %s: %v", c.Params("supplierID"), err)
		return errorJSON(c, "Could not retrieve products for supplier", err)
	}
	return c.JSON(fiber.Map{
		"count":    len(products),
		"products": products,
	})
}

// HandleGetTotalInventoryValue returns the total value of all stock on hand.
func (h *ProductHandler) HandleGetTotalInventoryValue(c *fiber.Ctx) error {
	total, err := h.service.GetTotalInventoryValue()
	if err != nil {
		log.Printf("Error computing total inventory value: %v", err)
		return errorJSON(c, "Could not compute inventory value", err)
	}
	return c.JSON(fiber.Map{
		"total_value": total,
	})
}
