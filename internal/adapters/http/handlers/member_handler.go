package handlers

import (
	"library-api/internal/core/services"
	"library-api/internal/pkg/pagination"
	"library-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// MemberHandler handles member endpoints
type MemberHandler struct {
	memberService services.MemberService
}

// NewMemberHandler creates a new member handler
func NewMemberHandler(memberService services.MemberService) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

// List lists members
// @Summary List members
// @Description List members sorted by name. Paginated when page or limit is given.
// @Tags Members
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /members [get]
func (h *MemberHandler) List(c *fiber.Ctx) error {
	if pagination.Requested(c) {
		params := pagination.GetParams(c)
		members, total, err := h.memberService.ListPaged(c.Context(), params.Page, params.Limit)
		if err != nil {
			return response.HandleError(c, err)
		}
		return response.Success(c, "", pagination.NewResponse(members, params, total))
	}

	members, err := h.memberService.List(c.Context())
	if err != nil {
		return response.HandleError(c, err)
	}
	return response.Success(c, "", fiber.Map{"members": members})
}

// Search searches members
// @Summary Search members
// @Tags Members
// @Produce json
// @Param query query string true "Name, email or phone fragment"
// @Success 200 {object} response.Response
// @Router /members/search [get]
func (h *MemberHandler) Search(c *fiber.Ctx) error {
	members, err := h.memberService.Search(c.Context(), c.Query("query"))
	if err != nil {
		return response.HandleError(c, err)
	}
	return response.Success(c, "", fiber.Map{"members": members})
}

// ListActive lists active members
// @Summary Active members
// @Tags Members
// @Produce json
// @Success 200 {object} response.Response
// @Router /members/active [get]
func (h *MemberHandler) ListActive(c *fiber.Ctx) error {
	members, err := h.memberService.ListActive(c.Context())
	if err != nil {
		return response.HandleError(c, err)
	}
	return response.Success(c, "", fiber.Map{"members": members})
}

// Get gets a member
// @Summary Get member
// @Tags Members
// @Produce json
// @Param id path int true "Member ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /members/{id} [get]
func (h *MemberHandler) Get(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid member ID")
	}

	member, err := h.memberService.GetByID(c.Context(), id)
	if err != nil {
		return response.HandleError(c, err)
	}
	return response.Success(c, "", fiber.Map{"member": member})
}

// Create registers a member
// @Summary Create member
// @Tags Members
// @Accept json
// @Produce json
// @Param body body services.MemberInput true "Member data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Router /members [post]
func (h *MemberHandler) Create(c *fiber.Ctx) error {
	var input services.MemberInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	member, err := h.memberService.Create(c.Context(), &input)
	if err != nil {
		return response.HandleError(c, err)
	}
	return response.Created(c, "Member created successfully", fiber.Map{"member": member})
}

// Update updates a member
// @Summary Update member
// @Tags Members
// @Accept json
// @Produce json
// @Param id path int true "Member ID"
// @Param body body services.MemberInput true "Member data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /members/{id} [put]
func (h *MemberHandler) Update(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid member ID")
	}

	var input services.MemberInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	member, err := h.memberService.Update(c.Context(), id, &input)
	if err != nil {
		return response.HandleError(c, err)
	}
	return response.Success(c, "Member updated successfully", fiber.Map{"member": member})
}

// ToggleActivation flips the member's active flag
// @Summary Toggle member activation
// @Tags Members
// @Produce json
// @Param id path int true "Member ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /members/{id}/activation [put]
func (h *MemberHandler) ToggleActivation(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid member ID")
	}

	member, err := h.memberService.ToggleActivation(c.Context(), id)
	if err != nil {
		return response.HandleError(c, err)
	}
	return response.Success(c, "Member activation updated", fiber.Map{"member": member})
}

// Delete deletes a member
// @Summary Delete member
// @Description Fails while the member has unreturned loans
// @Tags Members
// @Produce json
// @Param id path int true "Member ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /members/{id} [delete]
func (h *MemberHandler) Delete(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid member ID")
	}

	if err := h.memberService.Delete(c.Context(), id); err != nil {
		return response.HandleError(c, err)
	}
	return response.Success(c, "Member deleted successfully", nil)
}
