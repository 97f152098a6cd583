package routes

import (
	"shelfwise/internal/adapters/http/handlers"
	"shelfwise/internal/core/services"

	"github.com/gofiber/fiber/v2"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, library *services.Library) {
	healthHandler := handlers.NewHealthHandler()
	bookHandler := handlers.NewBookHandler(library)
	memberHandler := handlers.NewMemberHandler(library)
	loanHandler := handlers.NewLoanHandler(library)

	app.Get("/health", healthHandler.Check)

	v1 := app.Group("/api/v1")

	books := v1.Group("/books")
	books.Post("/", bookHandler.Create)
	books.Get("/", bookHandler.List)
	books.Get("/available", bookHandler.Available)
	books.Get("/search", bookHandler.Search)
	books.Get("/:id", bookHandler.Get)
	books.Delete("/:id", bookHandler.Delete)
	books.Post("/:id/borrow", bookHandler.Borrow)
	books.Post("/:id/return", bookHandler.Return)
	books.Get("/:id/loans", bookHandler.Loans)

	members := v1.Group("/members")
	members.Post("/", memberHandler.Create)
	members.Get("/", memberHandler.List)
	members.Get("/:id", memberHandler.Get)
	members.Delete("/:id", memberHandler.Delete)
	members.Get("/:id/loans", memberHandler.Loans)

	v1.Get("/borrowed", loanHandler.Borrowed)
}
