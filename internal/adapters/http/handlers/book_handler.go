package handlers

import (
	"strconv"

	"shelfwise/internal/core/services"
	"shelfwise/internal/pkg/pagination"
	"shelfwise/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// BookHandler handles catalog and circulation endpoints
type BookHandler struct {
	library *services.Library
}

// NewBookHandler creates a new book handler
func NewBookHandler(library *services.Library) *BookHandler {
	return &BookHandler{library: library}
}

// CreateBookRequest represents the add-book request body
type CreateBookRequest struct {
	Title  string `json:"title"`
	Author string `json:"author"`
}

// BorrowRequest represents the borrow request body
type BorrowRequest struct {
	MemberID int64 `json:"member_id"`
}

// parseID reads a positive int64 path parameter
func parseID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id < 1 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

// Create adds a new book to the catalog
func (h *BookHandler) Create(c *fiber.Ctx) error {
	var req CreateBookRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	book, err := h.library.AddBook(c.Context(), req.Title, req.Author)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, "Book added", book)
}

// List returns all books with derived status and borrower id, paginated
func (h *BookHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	books := h.library.ListBooks()
	lo, hi := params.Slice(len(books))
	return response.Success(c, "", pagination.NewResponse(books[lo:hi], params, int64(len(books))))
}

// Available returns books with no active loan
func (h *BookHandler) Available(c *fiber.Ctx) error {
	return response.Success(c, "", h.library.ListAvailable())
}

// Search matches books by title or author substring
func (h *BookHandler) Search(c *fiber.Ctx) error {
	return response.Success(c, "", h.library.SearchBooks(c.Query("q")))
}

// Get returns a single book with derived status
func (h *BookHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	book, err := h.library.GetBook(id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "", book)
}

// Delete removes a book; it fails while the book is borrowed
func (h *BookHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	if err := h.library.RemoveBook(c.Context(), id); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Book removed", nil)
}

// Borrow lends a book to a member
func (h *BookHandler) Borrow(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	var req BorrowRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.MemberID < 1 {
		return response.BadRequest(c, "member_id is required")
	}

	loan, err := h.library.Borrow(c.Context(), id, req.MemberID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, "Book borrowed", loan)
}

// Return closes the active loan for a book
func (h *BookHandler) Return(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	loan, err := h.library.ReturnBook(c.Context(), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Book returned", loan)
}

// Loans returns the full loan history for a book, oldest first
func (h *BookHandler) Loans(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	loans, err := h.library.LoanHistoryByBook(id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "", loans)
}
