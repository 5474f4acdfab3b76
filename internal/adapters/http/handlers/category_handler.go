package handlers

import (
	"library-api/internal/core/services"
	"library-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// CategoryHandler handles category endpoints
type CategoryHandler struct {
	categoryService services.CategoryService
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(categoryService services.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// List lists categories
// @Summary List categories
// @Description List all categories sorted by name
// @Tags Categories
// @Produce json
// @Success 200 {object} response.Response
// @Router /categories [get]
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	categories, err := h.categoryService.List(c.Context())
	if err != nil {
		return response.HandleError(c, err)
	}
	return response.Success(c, "", fiber.Map{"categories": categories})
}

// Search searches categories by name
// @Summary Search categories
// @Tags Categories
// @Produce json
// @Param query query string true "Name fragment"
// @Success 200 {object} response.Response
// @Router /categories/search [get]
func (h *CategoryHandler) Search(c *fiber.Ctx) error {
	categories, err := h.categoryService.Search(c.Context(), c.Query("query"))
	if err != nil {
		return response.HandleError(c, err)
	}
	return response.Success(c, "", fiber.Map{"categories": categories})
}

// Get gets a category
// @Summary Get category
// @Tags Categories
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /categories/{id} [get]
func (h *CategoryHandler) Get(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid category ID")
	}

	category, err := h.categoryService.GetByID(c.Context(), id)
	if err != nil {
		return response.HandleError(c, err)
	}
	return response.Success(c, "", fiber.Map{"category": category})
}

// Create creates a category
// @Summary Create category
// @Tags Categories
// @Accept json
// @Produce json
// @Param body body services.CategoryInput true "Category data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Router /categories [post]
func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var input services.CategoryInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	category, err := h.categoryService.Create(c.Context(), &input)
	if err != nil {
		return response.HandleError(c, err)
	}
	return response.Created(c, "Category created successfully", fiber.Map{"category": category})
}

// Update updates a category
// @Summary Update category
// @Tags Categories
// @Accept json
// @Produce json
// @Param id path int true "Category ID"
// @Param body body services.CategoryInput true "Category data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /categories/{id} [put]
func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid category ID")
	}

	var input services.CategoryInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	category, err := h.categoryService.Update(c.Context(), id, &input)
	if err != nil {
		return response.HandleError(c, err)
	}
	return response.Success(c, "Category updated successfully", fiber.Map{"category": category})
}

// Delete deletes a category
// @Summary Delete category
// @Description Fails while any book references the category
// @Tags Categories
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /categories/{id} [delete]
func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid category ID")
	}

	if err := h.categoryService.Delete(c.Context(), id); err != nil {
		return response.HandleError(c, err)
	}
	return response.Success(c, "Category deleted successfully", nil)
}
