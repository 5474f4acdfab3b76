package handlers

import (
	"library-api/internal/core/services"
	"library-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthorHandler handles author endpoints
type AuthorHandler struct {
	authorService services.AuthorService
}

// NewAuthorHandler creates a new author handler
func NewAuthorHandler(authorService services.AuthorService) *AuthorHandler {
	return &AuthorHandler{authorService: authorService}
}

// List lists authors
// @Summary List authors
// @Description List all authors sorted by last then first name
// @Tags Authors
// @Produce json
// @Success 200 {object} response.Response
// @Router /authors [get]
func (h *AuthorHandler) List(c *fiber.Ctx) error {
	authors, err := h.authorService.List(c.Context())
	if err != nil {
		return response.HandleError(c, err)
	}
	return response.Success(c, "", fiber.Map{"authors": authors})
}

// Search searches authors
// @Summary Search authors
// @Tags Authors
// @Produce json
// @Param query query string true "First or last name fragment"
// @Success 200 {object} response.Response
// @Router /authors/search [get]
func (h *AuthorHandler) Search(c *fiber.Ctx) error {
	authors, err := h.authorService.Search(c.Context(), c.Query("query"))
	if err != nil {
		return response.HandleError(c, err)
	}
	return response.Success(c, "", fiber.Map{"authors": authors})
}

// ListByNationality lists authors of one nationality
// @Summary Authors by nationality
// @Tags Authors
// @Produce json
// @Param nationality path string true "Nationality"
// @Success 200 {object} response.Response
// @Router /authors/nationality/{nationality} [get]
func (h *AuthorHandler) ListByNationality(c *fiber.Ctx) error {
	authors, err := h.authorService.ListByNationality(c.Context(), c.Params("nationality"))
	if err != nil {
		return response.HandleError(c, err)
	}
	return response.Success(c, "", fiber.Map{"authors": authors})
}

// Get gets an author
// @Summary Get author
// @Tags Authors
// @Produce json
// @Param id path int true "Author ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /authors/{id} [get]
func (h *AuthorHandler) Get(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid author ID")
	}

	author, err := h.authorService.GetByID(c.Context(), id)
	if err != nil {
		return response.HandleError(c, err)
	}
	return response.Success(c, "", fiber.Map{"author": author})
}

// Create creates an author
// @Summary Create author
// @Tags Authors
// @Accept json
// @Produce json
// @Param body body services.AuthorInput true "Author data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Router /authors [post]
func (h *AuthorHandler) Create(c *fiber.Ctx) error {
	var input services.AuthorInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	author, err := h.authorService.Create(c.Context(), &input)
	if err != nil {
		return response.HandleError(c, err)
	}
	return response.Created(c, "Author created successfully", fiber.Map{"author": author})
}

// Update updates an author
// @Summary Update author
// @Tags Authors
// @Accept json
// @Produce json
// @Param id path int true "Author ID"
// @Param body body services.AuthorInput true "Author data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /authors/{id} [put]
func (h *AuthorHandler) Update(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid author ID")
	}

	var input services.AuthorInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	author, err := h.authorService.Update(c.Context(), id, &input)
	if err != nil {
		return response.HandleError(c, err)
	}
	return response.Success(c, "Author updated successfully", fiber.Map{"author": author})
}

// Delete deletes an author
// @Summary Delete author
// @Description Fails while any book references the author
// @Tags Authors
// @Produce json
// @Param id path int true "Author ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /authors/{id} [delete]
func (h *AuthorHandler) Delete(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid author ID")
	}

	if err := h.authorService.Delete(c.Context(), id); err != nil {
		return response.HandleError(c, err)
	}
	return response.Success(c, "Author deleted successfully", nil)
}
