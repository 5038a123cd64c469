package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Etiquetas-api/internal/application/dto"
	"github.com/jhoicas/Etiquetas-api/internal/application/usecase"
	"github.com/jhoicas/Etiquetas-api/internal/domain"
)

// SKUHandler maneja las peticiones HTTP de catálogo de SKUs (protegido).
type SKUHandler struct {
	uc *usecase.SKUUseCase
}

// NewSKUHandler construye el handler.
func NewSKUHandler(uc *usecase.SKUUseCase) *SKUHandler {
	return &SKUHandler{uc: uc}
}

// Create godoc
// @Summary      Crear SKU
// @Tags         skus
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSKURequest  true  "code, name, costos y umbrales opcionales"
// @Success      201   {object}  dto.SKUResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/skus [post]
func (h *SKUHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSKURequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(in, CanViewCost(c))
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE_CODE", Message: "ya existe un SKU con ese código"})
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener SKU por ID
// @Tags         skus
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "SKU ID"
// @Success      200  {object}  dto.SKUResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/skus/{id} [get]
func (h *SKUHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Params("id"), CanViewCost(c))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "SKU no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar SKU
// @Tags         skus
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "SKU ID"
// @Param        body  body  dto.UpdateSKURequest  true  "campos a actualizar"
// @Success      200   {object}  dto.SKUResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/skus/{id} [put]
func (h *SKUHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateSKURequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Update(c.Params("id"), in, CanViewCost(c))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "SKU no encontrado"})
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Discontinue godoc
// @Summary      Descontinuar SKU (baja lógica)
// @Tags         skus
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "SKU ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/skus/{id} [delete]
func (h *SKUHandler) Discontinue(c *fiber.Ctx) error {
	err := h.uc.Discontinue(c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "SKU no encontrado"})
		}
		if errors.Is(err, domain.ErrNoOp) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ALREADY_DISCONTINUED", Message: "el SKU ya está descontinuado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"message": "SKU descontinuado"})
}

// List godoc
// @Summary      Listar SKUs
// @Tags         skus
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite (default 20)"
// @Param        offset  query  int  false  "Offset (default 0)"
// @Success      200  {object}  dto.SKUListResponse
// @Router       /api/skus [get]
func (h *SKUHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválida"})
	}
	page.DefaultPage()
	out, err := h.uc.List(page.Limit, page.Offset, CanViewCost(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
