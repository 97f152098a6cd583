package handlers

import (
	"shelfwise/internal/core/services"
	"shelfwise/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// LoanHandler handles circulation-wide read endpoints
type LoanHandler struct {
	library *services.Library
}

// NewLoanHandler creates a new loan handler
func NewLoanHandler(library *services.Library) *LoanHandler {
	return &LoanHandler{library: library}
}

// Borrowed returns every borrowed book joined with its borrower
func (h *LoanHandler) Borrowed(c *fiber.Ctx) error {
	return response.Success(c, "", h.library.ListBorrowed())
}
