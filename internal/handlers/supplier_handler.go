package handlers

import (
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"inventory/internal/models"
	"inventory/internal/services"
)

// SupplierHandler handles HTTP requests for suppliers.
type SupplierHandler struct {
	service  *services.SupplierService
	validate *validator.Validate
}

// NewSupplierHandler creates a new SupplierHandler.
func NewSupplierHandler(service *services.SupplierService) *SupplierHandler {
	return &SupplierHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the supplier routes with the Fiber app.
func (h *SupplierHandler) RegisterRoutes(router fiber.Router) {
	supplierRoutes := router.Group("/suppliers")
	supplierRoutes.Get("/", h.HandleGetSuppliers)
	supplierRoutes.Get("/search", h.HandleSearchSuppliers)
	supplierRoutes.Get("/:id", h.HandleGetSupplierByID)
	supplierRoutes.Post("/", h.HandleCreateSupplier)
	supplierRoutes.Put("/:id", h.HandleUpdateSupplier)
	supplierRoutes.Delete("/:id", h.HandleDeleteSupplier)
}

func (h *SupplierHandler) parseSupplierInput(c *fiber.Ctx) (*models.SupplierInput, error) {
	var input models.SupplierInput
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
	return &input, nil
}

// HandleGetSuppliers retrieves all suppliers.
func (h *SupplierHandler) HandleGetSuppliers(c *fiber.Ctx) error {
	suppliers, err := h.service.GetAllSuppliers()
	if err != nil {
		log.Printf("Error getting all suppliers: %v", err)
		return errorJSON(c, "Could not retrieve suppliers", err)
	}
	return c.JSON(suppliers)
}

// HandleGetSupplierByID retrieves a single supplier by its ID.
func (h *SupplierHandler) HandleGetSupplierByID(c *fiber.Ctx) error {
	supplier, err := h.service.GetSupplierByID(c.Params("id"))
	if err != nil {
		log.Printf("Error getting supplier by ID %s: %v", c.Params("id"), err)
		return errorJSON(c, "Could not retrieve supplier", err)
	}
	if supplier == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": fmt.Sprintf("Supplier with ID %s not found", c.Params("id")),
		})
	}
	return c.JSON(supplier)
}

// HandleCreateSupplier creates a new supplier.
func (h *SupplierHandler) HandleCreateSupplier(c *fiber.Ctx) error {
	input, err := h.parseSupplierInput(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid supplier payload",
			"error":   err.Error(),
		})
	}

	supplier, err := h.service.CreateSupplier(input)
	if err != nil {
		log.Printf("Error creating supplier: %v", err)
		return errorJSON(c, "Could not create supplier", err)
	}
	return c.Status(fiber.StatusCreated).JSON(supplier)
}

// HandleUpdateSupplier updates an existing supplier.
func (h *SupplierHandler) HandleUpdateSupplier(c *fiber.Ctx) error {
	input, err := h.parseSupplierInput(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid supplier payload",
			"error":   err.Error(),
		})
	}

	supplier, err := h.service.UpdateSupplier(c.Params("id"), input)
	if err != nil {
		log.Printf("Error updating supplier %s: %v", c.Params("id"), err)
		return errorJSON(c, "Could not update supplier", err)
	}
	return c.JSON(supplier)
}

// HandleDeleteSupplier deletes a supplier by its ID.
func (h *SupplierHandler) HandleDeleteSupplier(c *fiber.Ctx) error {
	if err := h.service.DeleteSupplier(c.Params("id")); err != nil {
		log.Printf("Error deleting supplier %s: %v", c.Params("id"), err)
		return errorJSON(c, "Could not delete supplier", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleSearchSuppliers searches suppliers by name, or by contact person
// when the contact_person query parameter is given instead.
func (h *SupplierHandler) HandleSearchSuppliers(c *fiber.Ctx) error {
	if contact := c.Query("contact_person"); contact != "" {
		suppliers, err := h.service.SearchSuppliersByContactPerson(contact)
		if err != nil {
			log.Printf("Error searching suppliers by contact person: %v", err)
			return errorJSON(c, "Could not search suppliers", err)
		}
		return c.JSON(suppliers)
	}

	suppliers, err := h.service.SearchSuppliersByName(c.Query("name"))
	if err != nil {
		log.Printf("Error searching suppliers: %v", err)
		return errorJSON(c, "Could not search suppliers", err)
	}
	return c.JSON(suppliers)
}
