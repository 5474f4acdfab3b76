package handlers

import (
	"strconv"

	"library-api/internal/adapters/persistence/models"
	"library-api/internal/core/services"
	"library-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// LoanHandler handles the loan workflow endpoints
type LoanHandler struct {
	loanService services.LoanService
}

// NewLoanHandler creates a new loan handler
func NewLoanHandler(loanService services.LoanService) *LoanHandler {
	return &LoanHandler{loanService: loanService}
}

func (h *LoanHandler) toResponses(loans []*models.Loan) []*models.LoanResponse {
	today := h.loanService.Today()
	out := make([]*models.LoanResponse, 0, len(loans))
	for _, loan := range loans {
		out = append(out, loan.ToResponse(today))
	}
	return out
}

func (h *LoanHandler) list(c *fiber.Ctx, loans []*models.Loan, err error) error {
	if err != nil {
		return response.HandleError(c, err)
	}
	return response.Success(c, "", fiber.Map{"loans": h.toResponses(loans)})
}

// List lists all loans
// @Summary List loans
// @Tags Loans
// @Produce json
// @Success 200 {object} response.Response
// @Router /loans [get]
func (h *LoanHandler) List(c *fiber.Ctx) error {
	loans, err := h.loanService.ListAll(c.Context())
	return h.list(c, loans, err)
}

// ListActive lists unreturned loans
// @Summary Active loans
// @Tags Loans
// @Produce json
// @Success 200 {object} response.Response
// @Router /loans/active [get]
func (h *LoanHandler) ListActive(c *fiber.Ctx) error {
	loans, err := h.loanService.ListActive(c.Context())
	return h.list(c, loans, err)
}

// ListOverdue lists unreturned loans past their due date
// @Summary Overdue loans
// @Tags Loans
// @Produce json
// @Success 200 {object} response.Response
// @Router /loans/overdue [get]
func (h *LoanHandler) ListOverdue(c *fiber.Ctx) error {
	loans, err := h.loanService.ListOverdue(c.Context())
	return h.list(c, loans, err)
}

// Get gets a loan
// @Summary Get loan
// @Tags Loans
// @Produce json
// @Param id path int true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /loans/{id} [get]
func (h *LoanHandler) Get(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid loan ID")
	}

	loan, err := h.loanService.GetByID(c.Context(), id)
	if err != nil {
		return response.HandleError(c, err)
	}
	return response.Success(c, "", fiber.Map{"loan": loan.ToResponse(h.loanService.Today())})
}

// ListByMember lists every loan of a member
// @Summary Loans by member
// @Tags Loans
// @Produce json
// @Param memberId path int true "Member ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /loans/member/{memberId} [get]
func (h *LoanHandler) ListByMember(c *fiber.Ctx) error {
	id, ok := parseID(c, "memberId")
	if !ok {
		return response.BadRequest(c, "Invalid member ID")
	}
	loans, err := h.loanService.ListByMember(c.Context(), id)
	return h.list(c, loans, err)
}

// ListActiveByMember lists a member's unreturned loans
// @Summary Active loans by member
// @Tags Loans
// @Produce json
// @Param memberId path int true "Member ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /loans/member/{memberId}/active [get]
func (h *LoanHandler) ListActiveByMember(c *fiber.Ctx) error {
	id, ok := parseID(c, "memberId")
	if !ok {
		return response.BadRequest(c, "Invalid member ID")
	}
	loans, err := h.loanService.ListActiveByMember(c.Context(), id)
	return h.list(c, loans, err)
}

// ListByBook lists the loan history of a book
// @Summary Loans by book
// @Tags Loans
// @Produce json
// @Param bookId path int true "Book ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /loans/book/{bookId} [get]
func (h *LoanHandler) ListByBook(c *fiber.Ctx) error {
	id, ok := parseID(c, "bookId")
	if !ok {
		return response.BadRequest(c, "Invalid book ID")
	}
	loans, err := h.loanService.ListByBook(c.Context(), id)
	return h.list(c, loans, err)
}

// Statistics lists loans borrowed within a date range
// @Summary Loans by borrow date
// @Tags Loans
// @Produce json
// @Param start_date query string true "Start date (YYYY-MM-DD)"
// @Param end_date query string true "End date (YYYY-MM-DD)"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Router /loans/statistics [get]
func (h *LoanHandler) Statistics(c *fiber.Ctx) error {
	start, ok := parseDateQuery(c, "start_date")
	if !ok {
		return response.BadRequest(c, "Invalid start_date, expected YYYY-MM-DD")
	}
	end, ok := parseDateQuery(c, "end_date")
	if !ok {
		return response.BadRequest(c, "Invalid end_date, expected YYYY-MM-DD")
	}

	loans, err := h.loanService.ListByBorrowDateRange(c.Context(), start, end)
	if err != nil {
		return response.HandleError(c, err)
	}
	return response.Success(c, "", fiber.Map{
		"start_date": start,
		"end_date":   end,
		"count":      len(loans),
		"loans":      h.toResponses(loans),
	})
}

// Borrow lends a book to a member
// @Summary Borrow book
// @Description Due date defaults to the loan period when omitted
// @Tags Loans
// @Accept json
// @Produce json
// @Param body body services.BorrowInput true "Borrow request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /loans/borrow [post]
func (h *LoanHandler) Borrow(c *fiber.Ctx) error {
	var input services.BorrowInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	loan, err := h.loanService.Borrow(c.Context(), &input)
	if err != nil {
		return response.HandleError(c, err)
	}
	return response.Created(c, "Book borrowed successfully", fiber.Map{"loan": loan.ToResponse(h.loanService.Today())})
}

// Return returns a borrowed book
// @Summary Return book
// @Tags Loans
// @Produce json
// @Param id path int true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /loans/{id}/return [put]
func (h *LoanHandler) Return(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid loan ID")
	}

	loan, err := h.loanService.Return(c.Context(), id)
	if err != nil {
		return response.HandleError(c, err)
	}
	return response.Success(c, "Book returned successfully", fiber.Map{"loan": loan.ToResponse(h.loanService.Today())})
}

// Extend pushes a loan's due date
// @Summary Extend loan
// @Tags Loans
// @Produce json
// @Param id path int true "Loan ID"
// @Param days query int false "Additional days"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /loans/{id}/extend [put]
func (h *LoanHandler) Extend(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid loan ID")
	}

	days := h.loanService.DefaultExtensionDays()
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return response.BadRequest(c, "Invalid days")
		}
		days = n
	}

	loan, err := h.loanService.Extend(c.Context(), id, days)
	if err != nil {
		return response.HandleError(c, err)
	}
	return response.Success(c, "Loan extended successfully", fiber.Map{"loan": loan.ToResponse(h.loanService.Today())})
}
