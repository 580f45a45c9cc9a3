package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/inventorysync-api/internal/application/analytics"
	"github.com/jhoicas/inventorysync-api/internal/application/auth"
	"github.com/jhoicas/inventorysync-api/internal/application/stock"
	"github.com/jhoicas/inventorysync-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC   *usecase.ProductUseCase
	ApplyUC     *stock.ApplyMovementUseCase
	QueryUC     *stock.MovementQueryUseCase
	DashboardUC *analytics.DashboardUseCase
	AuthUC      *auth.AuthUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/low-stock", productHandler.ListLowStock)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	// Stock movements (protegido). El libro es append-only: solo GET y POST.
	stockHandler := NewStockHandler(deps.ApplyUC, deps.QueryUC)
	movements := protected.Group("/stock-movements")
	movements.Get("/", stockHandler.ListMovements)
	movements.Post("/", stockHandler.CreateMovement)
	movements.Get("/product/:productId", stockHandler.ListByProduct)
	movements.Get("/:id", stockHandler.GetMovement)

	// Atajos por tipo de movimiento (protegido)
	stockGroup := protected.Group("/stock")
	stockGroup.Post("/in", stockHandler.StockIn)
	stockGroup.Post("/out", stockHandler.StockOut)
	stockGroup.Post("/damage", stockHandler.StockDamage)

	// Dashboard (protegido)
	dashboard := protected.Group("/dashboard")
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	dashboard.Get("/stats", dashboardHandler.GetStats)
	dashboard.Get("/trends", dashboardHandler.GetTrends)
	dashboard.Get("/top-skus", dashboardHandler.GetTopSKUs)
}
