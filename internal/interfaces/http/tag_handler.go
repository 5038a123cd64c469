package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Etiquetas-api/internal/application/dto"
	"github.com/jhoicas/Etiquetas-api/internal/application/tags"
	"github.com/jhoicas/Etiquetas-api/internal/domain"
)

// TagHandler maneja las peticiones HTTP de etiquetas y sus líneas (protegido).
type TagHandler struct {
	uc *tags.UseCase
}

// NewTagHandler construye el handler.
func NewTagHandler(uc *tags.UseCase) *TagHandler {
	return &TagHandler{uc: uc}
}

// Create godoc
// @Summary      Crear etiqueta
// @Description  Crea una etiqueta (reserved, broken, imperfect, loaned o stock)
//               con sus líneas. Valida disponibilidad por SKU y asigna instancias
//               físicas según la política de selección de cada línea.
// @Tags         tags
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTagRequest  true  "kind, attribution, line_items"
// @Success      201   {object}  dto.TagResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/tags [post]
func (h *TagHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateTagRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.CreateTag(c.Context(), userID, in)
	if err != nil {
		return tagError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar etiquetas
// @Tags         tags
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite (default 20)"
// @Param        offset  query  int  false  "Offset (default 0)"
// @Success      200  {array}  dto.TagResponse
// @Router       /api/tags [get]
func (h *TagHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválida"})
	}
	page.DefaultPage()
	out, err := h.uc.ListTags(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"total": len(out), "tags": out})
}

// GetByID godoc
// @Summary      Obtener etiqueta por ID
// @Tags         tags
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Tag ID"
// @Success      200  {object}  dto.TagResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/tags/{id} [get]
func (h *TagHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetTag(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "etiqueta no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// AddItems godoc
// @Summary      Agregar líneas a una etiqueta
// @Tags         tags
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "Tag ID"
// @Param        body  body  dto.AddTagItemsRequest  true  "line_items"
// @Success      200   {object}  dto.TagResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/tags/{id}/items [post]
func (h *TagHandler) AddItems(c *fiber.Ctx) error {
	var in dto.AddTagItemsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.AddItems(c.Context(), c.Params("id"), in)
	if err != nil {
		return tagError(c, err)
	}
	return c.JSON(out)
}

// AdjustItems godoc
// @Summary      Ajustar cantidades restantes de líneas
// @Description  Aplica un lote de nuevas cantidades restantes. Responde solo el
//               subconjunto de líneas que cambió; una línea ajustada a cero se elimina.
// @Tags         tags
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "Tag ID"
// @Param        body  body  dto.AdjustTagItemsRequest  true  "changes: line_item_id -> nueva cantidad"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/tags/{id}/items [patch]
func (h *TagHandler) AdjustItems(c *fiber.Ctx) error {
	var in dto.AdjustTagItemsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	adjusted, err := h.uc.AdjustQuantities(c.Context(), c.Params("id"), in)
	if err != nil {
		return tagError(c, err)
	}
	return c.JSON(fiber.Map{"adjusted": adjusted})
}

// RemoveItems godoc
// @Summary      Retirar unidades de líneas
// @Description  Retira unidades etiquetadas (las devuelve a disponible). Una
//               línea cuyo restante llega a cero se elimina.
// @Tags         tags
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "Tag ID"
// @Param        body  body  dto.RemoveTagItemsRequest  true  "removals: line_item_id -> unidades a retirar"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/tags/{id}/items [delete]
func (h *TagHandler) RemoveItems(c *fiber.Ctx) error {
	var in dto.RemoveTagItemsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.RemoveItems(c.Context(), c.Params("id"), in); err != nil {
		return tagError(c, err)
	}
	return c.JSON(fiber.Map{"message": "unidades retiradas"})
}

// Delete godoc
// @Summary      Eliminar etiqueta
// @Description  Elimina la etiqueta completa liberando todas sus unidades e
//               instancias asignadas.
// @Tags         tags
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Tag ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/tags/{id} [delete]
func (h *TagHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteTag(c.Context(), c.Params("id")); err != nil {
		return tagError(c, err)
	}
	return c.JSON(fiber.Map{"message": "etiqueta eliminada"})
}

// tagError mapea errores de dominio de etiquetas a HTTP. Los errores tipados
// llevan el detalle (SKU, cantidades) en el mensaje.
func tagError(c *fiber.Ctx, err error) error {
	var availErr *domain.InsufficientAvailabilityError
	if errors.As(err, &availErr) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_AVAILABILITY", Message: availErr.Error()})
	}
	var instErr *domain.InsufficientInstancesError
	if errors.As(err, &instErr) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_INSTANCES", Message: instErr.Error()})
	}
	var remErr *domain.OverRemovalError
	if errors.As(err, &remErr) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "OVER_REMOVAL", Message: remErr.Error()})
	}
	switch {
	case errors.Is(err, domain.ErrInvalidQuantity):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUANTITY", Message: err.Error()})
	case errors.Is(err, domain.ErrNoChange):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "NO_CHANGE", Message: "ningún cambio propuesto"})
	case errors.Is(err, domain.ErrNoOp):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "NO_OP", Message: "la operación no tiene efecto"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
