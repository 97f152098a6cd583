package handlers

import (
	"shelfwise/internal/core/services"
	"shelfwise/internal/pkg/pagination"
	"shelfwise/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// MemberHandler handles roster endpoints
type MemberHandler struct {
	library *services.Library
}

// NewMemberHandler creates a new member handler
func NewMemberHandler(library *services.Library) *MemberHandler {
	return &MemberHandler{library: library}
}

// CreateMemberRequest represents the register-member request body
type CreateMemberRequest struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
}

// Create registers a new member
func (h *MemberHandler) Create(c *fiber.Ctx) error {
	var req CreateMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	member, err := h.library.RegisterMember(c.Context(), req.Name, req.Contact)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, "Member registered", member)
}

// List returns all members, paginated
func (h *MemberHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	members := h.library.ListMembers()
	lo, hi := params.Slice(len(members))
	return response.Success(c, "", pagination.NewResponse(members[lo:hi], params, int64(len(members))))
}

// Get looks up a member by id
func (h *MemberHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	member, err := h.library.LookupMember(id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "", member)
}

// Delete removes a member; it fails while the member has active loans
func (h *MemberHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	if err := h.library.RemoveMember(c.Context(), id); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Member removed", nil)
}

// Loans returns the full loan history for a member, oldest first
func (h *MemberHandler) Loans(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	loans, err := h.library.LoanHistoryByMember(id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "", loans)
}
