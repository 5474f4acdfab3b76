package routes

import (
	"library-api/internal/adapters/events"
	"library-api/internal/adapters/http/handlers"
	"library-api/internal/adapters/http/middleware"
	"library-api/internal/adapters/persistence/repositories"
	"library-api/internal/config"
	"library-api/internal/core/services"
	"library-api/internal/pkg/clock"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

// Services groups the services exposed over HTTP
type Services struct {
	Categories services.CategoryService
	Authors    services.AuthorService
	Members    services.MemberService
	Books      services.BookService
	Loans      services.LoanService
	Dashboard  handlers.DashboardProvider
}

// NewServices wires every service to one store and clock
func NewServices(store repositories.Store, clk clock.Clock, cfg *config.Config, publisher events.Publisher) *Services {
	return &Services{
		Categories: services.NewCategoryService(store),
		Authors:    services.NewAuthorService(store, clk),
		Members:    services.NewMemberService(store, clk),
		Books:      services.NewBookService(store, clk),
		Loans:      services.NewLoanService(store, clk, cfg.LoanPolicy(), publisher),
		Dashboard:  services.NewDashboardService(store, clk),
	}
}

// Setup configures all routes for the application
func Setup(app *fiber.App, svc *Services, cfg *config.Config, checkDB func() error) {
	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg.AppMode, checkDB)
	categoryHandler := handlers.NewCategoryHandler(svc.Categories)
	authorHandler := handlers.NewAuthorHandler(svc.Authors)
	memberHandler := handlers.NewMemberHandler(svc.Members)
	bookHandler := handlers.NewBookHandler(svc.Books)
	loanHandler := handlers.NewLoanHandler(svc.Loans)
	dashboardHandler := handlers.NewDashboardHandler(svc.Dashboard)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	setupCategoryRoutes(apiV1, categoryHandler)
	setupAuthorRoutes(apiV1, authorHandler)
	setupMemberRoutes(apiV1, memberHandler)
	setupBookRoutes(apiV1, bookHandler)
	setupLoanRoutes(apiV1, loanHandler)

	apiV1.Get("/dashboard", middleware.NoCacheHeaders(), dashboardHandler.GetDashboard)
}

// Fixed paths are registered before /:id so they are not captured by it.

func setupCategoryRoutes(router fiber.Router, h *handlers.CategoryHandler) {
	categories := router.Group("/categories")
	categories.Get("/", h.List)
	categories.Post("/", h.Create)
	categories.Get("/search", h.Search)
	categories.Get("/:id", h.Get)
	categories.Put("/:id", h.Update)
	categories.Delete("/:id", h.Delete)
}

func setupAuthorRoutes(router fiber.Router, h *handlers.AuthorHandler) {
	authors := router.Group("/authors")
	authors.Get("/", h.List)
	authors.Post("/", h.Create)
	authors.Get("/search", h.Search)
	authors.Get("/nationality/:nationality", h.ListByNationality)
	authors.Get("/:id", h.Get)
	authors.Put("/:id", h.Update)
	authors.Delete("/:id", h.Delete)
}

func setupMemberRoutes(router fiber.Router, h *handlers.MemberHandler) {
	members := router.Group("/members", middleware.NoCacheHeaders())
	members.Get("/", h.List)
	members.Post("/", h.Create)
	members.Get("/search", h.Search)
	members.Get("/active", h.ListActive)
	members.Get("/:id", h.Get)
	members.Put("/:id", h.Update)
	members.Put("/:id/activation", h.ToggleActivation)
	members.Delete("/:id", h.Delete)
}

func setupBookRoutes(router fiber.Router, h *handlers.BookHandler) {
	books := router.Group("/books")
	books.Get("/", h.List)
	books.Post("/", h.Create)
	books.Get("/search", h.Search)
	books.Get("/available", h.ListAvailable)
	books.Get("/recent", h.ListRecent)
	books.Get("/category/:categoryId", h.ListByCategory)
	books.Get("/author/:authorId", h.ListByAuthor)
	books.Get("/:id", h.Get)
	books.Put("/:id", h.Update)
	books.Put("/:id/availability", h.SyncAvailability)
	books.Delete("/:id", h.Delete)
}

func setupLoanRoutes(router fiber.Router, h *handlers.LoanHandler) {
	loans := router.Group("/loans", middleware.NoCacheHeaders())
	loans.Get("/", h.List)
	loans.Get("/active", h.ListActive)
	loans.Get("/overdue", h.ListOverdue)
	loans.Get("/statistics", h.Statistics)
	loans.Get("/member/:memberId", h.ListByMember)
	loans.Get("/member/:memberId/active", h.ListActiveByMember)
	loans.Get("/book/:bookId", h.ListByBook)
	loans.Post("/borrow", h.Borrow)
	loans.Get("/:id", h.Get)
	loans.Put("/:id/return", h.Return)
	loans.Put("/:id/extend", h.Extend)
}
