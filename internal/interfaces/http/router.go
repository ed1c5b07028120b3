package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/rs/zerolog"

	"github.com/mudras/stock-ledger/internal/application/auth"
	"github.com/mudras/stock-ledger/internal/application/inventory"
	"github.com/mudras/stock-ledger/internal/application/usecase"
	"github.com/mudras/stock-ledger/internal/infrastructure/metrics"
	"github.com/mudras/stock-ledger/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AdjustUC   *inventory.AdjustStockUseCase
	TransferUC *inventory.TransferStockUseCase
	BulkUC     *inventory.AssignBulkUseCase
	QueryUC    *inventory.StockQueryUseCase
	LocationUC *usecase.LocationUseCase
	AuthUC     *auth.AuthUseCase // nil = sin login ni alta de operadores
	Report     StockReportGenerator
	Metrics    *metrics.Metrics // nil = sin /metrics
	JWTSecret  string
	AppName    string
	Logger     zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Metrics != nil {
		app.Use(deps.Metrics.Middleware())
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	}
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})

	api := app.Group("/api")
	var authHandler *AuthHandler
	if deps.AuthUC != nil {
		authHandler = NewAuthHandler(deps.AuthUC, deps.Logger)
		api.Post("/auth/login", authHandler.Login)
	}

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("", AuthMiddleware(deps.JWTSecret))
	writers := RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero)
	admins := RequireRole(jwt.RoleAdmin)

	if authHandler != nil {
		protected.Post("/operators", admins, authHandler.Register)
	}

	// Libro de stock
	stock := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.AdjustUC, deps.TransferUC, deps.BulkUC, deps.QueryUC, deps.Logger)
	stock.Post("/adjustments", writers, stockHandler.Adjust)
	stock.Post("/transfers", writers, stockHandler.Transfer)
	stock.Post("/bulk-assignments", writers, stockHandler.AssignBulk)
	stock.Get("/movements/:id/related", stockHandler.GetRelatedMovement)
	stock.Get("/articles/:articleId", stockHandler.StockByArticle)
	stock.Get("/:articleId/locations/:locationId", stockHandler.GetQuantity)
	stock.Get("/:articleId/locations/:locationId/movements", stockHandler.ListMovements)
	stock.Get("/:articleId/locations/:locationId/reconciliation", stockHandler.Reconcile)

	// Puntos Mudras
	locations := protected.Group("/locations")
	locationHandler := NewLocationHandler(deps.LocationUC, deps.QueryUC, deps.Report, deps.Logger)
	locations.Get("/stats", locationHandler.Stats)
	locations.Get("/", locationHandler.List)
	locations.Post("/", admins, locationHandler.Create)
	locations.Get("/:id", locationHandler.GetByID)
	locations.Put("/:id", admins, locationHandler.Update)
	locations.Get("/:id/stock", locationHandler.Stock)
	locations.Get("/:id/stock.pdf", locationHandler.StockPDF)
}
