package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Etiquetas-api/internal/application/auth"
	"github.com/jhoicas/Etiquetas-api/internal/application/inventory"
	"github.com/jhoicas/Etiquetas-api/internal/application/tags"
	"github.com/jhoicas/Etiquetas-api/internal/application/usecase"
	"github.com/jhoicas/Etiquetas-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	SKUUC       *usecase.SKUUseCase
	InventoryUC *inventory.UseCase
	TagUC       *tags.UseCase
	AuthUC      *auth.AuthUseCase
	JWTSecret   string
}

// Router registra las rutas de la API. Lecturas para cualquier rol autenticado;
// mutaciones solo para admin y bodeguero.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	mutate := RequireRole(entity.RoleAdmin, entity.RoleBodeguero)

	// SKUs (protegido)
	skus := protected.Group("/skus")
	skuHandler := NewSKUHandler(deps.SKUUC)
	skus.Post("/", mutate, skuHandler.Create)
	skus.Get("/", skuHandler.List)
	skus.Get("/:id", skuHandler.GetByID)
	skus.Put("/:id", mutate, skuHandler.Update)
	skus.Delete("/:id", mutate, skuHandler.Discontinue)

	// Inventario (protegido)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.InventoryUC)
	invGroup.Get("/", inventoryHandler.List)
	invGroup.Get("/:sku", inventoryHandler.Get)
	invGroup.Post("/:sku/stock-delta", mutate, inventoryHandler.StockDelta)
	invGroup.Post("/:sku/intake", mutate, inventoryHandler.Intake)

	// Etiquetas (protegido)
	tagGroup := protected.Group("/tags")
	tagHandler := NewTagHandler(deps.TagUC)
	tagGroup.Post("/", mutate, tagHandler.Create)
	tagGroup.Get("/", tagHandler.List)
	tagGroup.Get("/:id", tagHandler.GetByID)
	tagGroup.Delete("/:id", mutate, tagHandler.Delete)
	tagGroup.Post("/:id/items", mutate, tagHandler.AddItems)
	tagGroup.Patch("/:id/items", mutate, tagHandler.AdjustItems)
	tagGroup.Delete("/:id/items", mutate, tagHandler.RemoveItems)
}
