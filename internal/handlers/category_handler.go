package handlers

import (
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"inventory/internal/models"
	"inventory/internal/services"
)

// CategoryHandler handles HTTP requests for categories.
type CategoryHandler struct {
	service  *services.CategoryService
	validate *validator.Validate
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(service *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the category routes with the Fiber app.
func (h *CategoryHandler) RegisterRoutes(router fiber.Router) {
	categoryRoutes := router.Group("/categories")
	categoryRoutes.Get("/", h.HandleGetCategories)
	categoryRoutes.Get("/search", h.HandleSearchCategories)
	categoryRoutes.Get("/:id", h.HandleGetCategoryByID)
	categoryRoutes.Post("/", h.HandleCreateCategory)
	categoryRoutes.Put("/:id", h.HandleUpdateCategory)
	categoryRoutes.Delete("/:id", h.HandleDeleteCategory)
}

func (h *CategoryHandler) parseCategoryInput(c *fiber.Ctx) (*models.CategoryInput, error) {
	var input models.CategoryInput
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

// HandleGetCategories retrieves all categories.
func (h *CategoryHandler) HandleGetCategories(c *fiber.Ctx) error {
	categories, err := h.service.GetAllCategories()
	if err != nil {
		log.Printf("Error getting all categories: %v", err)
		return errorJSON(c, "Could not retrieve categories", err)
	}
	return c.JSON(categories)
}

// HandleGetCategoryByID retrieves a single category by its ID.
func (h *CategoryHandler) HandleGetCategoryByID(c *fiber.Ctx) error {
	category, err := h.service.GetCategoryByID(c.Params("id"))
	if err != nil {
		log.Printf("Error getting category by ID %s: %v", c.Params("id"), err)
		return errorJSON(c, "Could not retrieve category", err)
	}
	if category == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": fmt.Sprintf("Category with ID %s not found", c.Params("id")),
		})
	}
	return c.JSON(category)
}

// HandleCreateCategory creates a new category.
func (h *CategoryHandler) HandleCreateCategory(c *fiber.Ctx) error {
	input, err := h.parseCategoryInput(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid category payload",
			"error":   err.Error(),
		})
	}

	category, err := h.service.CreateCategory(input)
	if err != nil {
		log.Printf("Error creating category: %v", err)
		return errorJSON(c, "Could not create category", err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// HandleUpdateCategory updates an existing category.
func (h *CategoryHandler) HandleUpdateCategory(c *fiber.Ctx) error {
	input, err := h.parseCategoryInput(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid category payload",
			"error":   err.Error(),
		})
	}

	category, err := h.service.UpdateCategory(c.Params("id"), input)
	if err != nil {
		log.Printf("Error updating category %s: %v", c.Params("id"), err)
		return errorJSON(c, "Could not update category", err)
	}
	return c.JSON(category)
}

// HandleDeleteCategory deletes a category by its ID.
func (h *CategoryHandler) HandleDeleteCategory(c *fiber.Ctx) error {
	if err := h.service.DeleteCategory(c.Params("id")); err != nil {
		log.Printf("Error deleting category %s: %v", c.Params("id"), err)
		return errorJSON(c, "Could not delete category", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleSearchCategories searches categories by name.
func (h *CategoryHandler) HandleSearchCategories(c *fiber.Ctx) error {
	categories, err := h.service.SearchCategoriesByName(c.Query("name"))
	if err != nil {
		log.Printf("Error searching categories: %v", err)
		return errorJSON(c, "Could not search categories", err)
	}
	return c.JSON(categories)
}
