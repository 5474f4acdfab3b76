package handlers

import (
	"library-api/internal/core/services"
	"library-api/internal/pkg/pagination"
	"library-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// BookHandler handles book endpoints
type BookHandler struct {
	bookService services.BookService
}

// NewBookHandler creates a new book handler
func NewBookHandler(bookService services.BookService) *BookHandler {
	return &BookHandler{bookService: bookService}
}

// List lists books
// @Summary List books
// @Description List books sorted by title. Paginated when page or limit is given.
// @Tags Books
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /books [get]
func (h *BookHandler) List(c *fiber.Ctx) error {
	if pagination.Requested(c) {
		params := pagination.GetParams(c)
		books, total, err := h.bookService.ListPaged(c.Context(), params.Page, params.Limit)
		if err != nil {
			return response.HandleError(c, err)
		}
		return response.Success(c, "", pagination.NewResponse(books, params, total))
	}

	books, err := h.bookService.List(c.Context())
	if err != nil {
		return response.HandleError(c, err)
	}
	return response.Success(c, "", fiber.Map{"books": books})
}

// Search searches books by title
// @Summary Search books
// @Tags Books
// @Produce json
// @Param title query string true "Title fragment"
// @Success 200 {object} response.Response
// @Router /books/search [get]
func (h *BookHandler) Search(c *fiber.Ctx) error {
	books, err := h.bookService.SearchByTitle(c.Context(), c.Query("title"))
	if err != nil {
		return response.HandleError(c, err)
	}
	return response.Success(c, "", fiber.Map{"books": books})
}

// ListByCategory lists books in a category
// @Summary Books by category
// @Tags Books
// @Produce json
// @Param categoryId path int true "Category ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /books/category/{categoryId} [get]
func (h *BookHandler) ListByCategory(c *fiber.Ctx) error {
	id, ok := parseID(c, "categoryId")
	if !ok {
		return response.BadRequest(c, "Invalid category ID")
	}

	books, err := h.bookService.ListByCategory(c.Context(), id)
	if err != nil {
		return response.HandleError(c, err)
	}
	return response.Success(c, "", fiber.Map{"books": books})
}

// ListByAuthor lists books written by an author
// @Summary Books by author
// @Tags Books
// @Produce json
// @Param authorId path int true "Author ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /books/author/{authorId} [get]
func (h *BookHandler) ListByAuthor(c *fiber.Ctx) error {
	id, ok := parseID(c, "authorId")
	if !ok {
		return response.BadRequest(c, "Invalid author ID")
	}

	books, err := h.bookService.ListByAuthor(c.Context(), id)
	if err != nil {
		return response.HandleError(c, err)
	}
	return response.Success(c, "", fiber.Map{"books": books})
}

// ListAvailable lists books that can be borrowed
// @Summary Available books
// @Tags Books
// @Produce json
// @Success 200 {object} response.Response
// @Router /books/available [get]
func (h *BookHandler) ListAvailable(c *fiber.Ctx) error {
	books, err := h.bookService.ListAvailable(c.Context())
	if err != nil {
		return response.HandleError(c, err)
	}
	return response.Success(c, "", fiber.Map{"books": books})
}

// ListRecent lists the most recently added books
// @Summary Recent books
// @Tags Books
// @Produce json
// @Success 200 {object} response.Response
// @Router /books/recent [get]
func (h *BookHandler) ListRecent(c *fiber.Ctx) error {
	books, err := h.bookService.ListRecent(c.Context())
	if err != nil {
		return response.HandleError(c, err)
	}
	return response.Success(c, "", fiber.Map{"books": books})
}

// Get gets a book
// @Summary Get book
// @Tags Books
// @Produce json
// @Param id path int true "Book ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /books/{id} [get]
func (h *BookHandler) Get(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid book ID")
	}

	book, err := h.bookService.GetByID(c.Context(), id)
	if err != nil {
		return response.HandleError(c, err)
	}
	return response.Success(c, "", fiber.Map{"book": book})
}

// Create creates a book
// @Summary Create book
// @Tags Books
// @Accept json
// @Produce json
// @Param body body services.BookInput true "Book data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /books [post]
func (h *BookHandler) Create(c *fiber.Ctx) error {
	var input services.BookInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	book, err := h.bookService.Create(c.Context(), &input)
	if err != nil {
		return response.HandleError(c, err)
	}
	return response.Created(c, "Book created successfully", fiber.Map{"book": book})
}

// Update updates a book
// @Summary Update book
// @Tags Books
// @Accept json
// @Produce json
// @Param id path int true "Book ID"
// @Param body body services.BookInput true "Book data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /books/{id} [put]
func (h *BookHandler) Update(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid book ID")
	}

	var input services.BookInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	book, err := h.bookService.Update(c.Context(), id, &input)
	if err != nil {
		return response.HandleError(c, err)
	}
	return response.Success(c, "Book updated successfully", fiber.Map{"book": book})
}

// SyncAvailability recomputes the availability flag from open loans
// @Summary Resync book availability
// @Tags Books
// @Produce json
// @Param id path int true "Book ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /books/{id}/availability [put]
func (h *BookHandler) SyncAvailability(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid book ID")
	}

	book, err := h.bookService.SyncAvailability(c.Context(), id)
	if err != nil {
		return response.HandleError(c, err)
	}
	return response.Success(c, "Book availability updated", fiber.Map{"book": book})
}

// Delete deletes a book
// @Summary Delete book
// @Description Fails while the book is on loan
// @Tags Books
// @Produce json
// @Param id path int true "Book ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /books/{id} [delete]
func (h *BookHandler) Delete(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid book ID")
	}

	if err := h.bookService.Delete(c.Context(), id); err != nil {
		return response.HandleError(c, err)
	}
	return response.Success(c, "Book deleted successfully", nil)
}
