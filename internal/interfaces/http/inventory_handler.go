package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Etiquetas-api/internal/application/dto"
	"github.com/jhoicas/Etiquetas-api/internal/application/inventory"
	"github.com/jhoicas/Etiquetas-api/internal/domain"
)

// InventoryHandler maneja las peticiones HTTP de la vista contable y los
// ajustes de stock físico (protegido).
type InventoryHandler struct {
	uc *inventory.UseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.UseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// List godoc
// @Summary      Vista de inventario por SKU
// @Description  Total físico, desglose por clase de etiqueta, disponible derivado
//               y estado de salud de stock. Los costos solo aparecen para roles con permiso.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite (default 20)"
// @Param        offset  query  int  false  "Offset (default 0)"
// @Success      200  {object}  dto.InventoryListResponse
// @Router       /api/inventory [get]
func (h *InventoryHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválida"})
	}
	page.DefaultPage()
	items, err := h.uc.ListOverview(c.Context(), page.Limit, page.Offset, CanViewCost(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.InventoryListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}

// Get godoc
// @Summary      Vista de inventario de un SKU
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        sku  path  string  true  "SKU ID"
// @Success      200  {object}  dto.InventoryOverviewDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/{sku} [get]
func (h *InventoryHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Overview(c.Context(), c.Params("sku"), CanViewCost(c))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "SKU no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// StockDelta godoc
// @Summary      Ajustar stock físico de un SKU
// @Description  Aplica un delta entero (positivo o negativo) al total físico.
//               Rechaza deltas que dejarían el total negativo o por debajo de
//               lo ya etiquetado.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        sku   path  string                 true  "SKU ID"
// @Param        body  body  dto.StockDeltaRequest  true  "delta entero distinto de cero"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/{sku}/stock-delta [post]
func (h *InventoryHandler) StockDelta(c *fiber.Ctx) error {
	var in dto.StockDeltaRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.ApplyStockDelta(c.Context(), c.Params("sku"), in); err != nil {
		return inventoryError(c, err)
	}
	return c.JSON(fiber.Map{"message": "stock ajustado"})
}

// Intake godoc
// @Summary      Registrar ingreso de lote
// @Description  Sube el total físico del SKU y crea las instancias físicas del
//               lote con su fecha de adquisición y costo unitario.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        sku   path  string             true  "SKU ID"
// @Param        body  body  dto.IntakeRequest  true  "quantity, batch_code, unit_cost, acquired_at"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/{sku}/intake [post]
func (h *InventoryHandler) Intake(c *fiber.Ctx) error {
	var in dto.IntakeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.RegisterIntake(c.Context(), c.Params("sku"), in); err != nil {
		return inventoryError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "ingreso registrado"})
}

// inventoryError mapea errores de dominio de inventario a HTTP.
func inventoryError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidQuantity):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUANTITY", Message: err.Error()})
	case errors.Is(err, domain.ErrNoOp):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "NO_OP", Message: "la operación no tiene efecto"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "SKU no encontrado"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
