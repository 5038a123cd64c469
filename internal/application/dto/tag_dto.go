package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TagLineItemRequest una línea solicitada para una etiqueta. Quantity viene
// como decimal para poder rechazar no-enteros en el borde HTTP.
type TagLineItemRequest struct {
	SKUID           string          `json:"sku_id" validate:"required"`
	Quantity        decimal.Decimal `json:"quantity"`
	SelectionMethod string          `json:"selection_method" validate:"omitempty,oneof=fifo cost_based manual"`
	ManualIDs       []string        `json:"manual_instance_ids,omitempty"`
	MaximizeCost    bool            `json:"maximize_cost,omitempty"` // solo cost_based
}

// CreateTagRequest body para POST /api/tags.
type CreateTagRequest struct {
	Kind        string               `json:"kind" validate:"required,oneof=reserved broken imperfect loaned stock"`
	Attribution string               `json:"attribution" validate:"required,min=1,max=200"`
	DueDate     *time.Time           `json:"due_date,omitempty"`
	Notes       string               `json:"notes"`
	LineItems   []TagLineItemRequest `json:"line_items" validate:"required,min=1"`
}

// AdjustTagItemsRequest body para PATCH /api/tags/:id/items: nuevas cantidades
// restantes por línea.
type AdjustTagItemsRequest struct {
	Changes map[string]decimal.Decimal `json:"changes" validate:"required,min=1"`
}

// AddTagItemsRequest body para POST /api/tags/:id/items.
type AddTagItemsRequest struct {
	LineItems []TagLineItemRequest `json:"line_items" validate:"required,min=1"`
}

// RemoveTagItemsRequest body para DELETE /api/tags/:id/items: unidades a
// retirar por línea.
type RemoveTagItemsRequest struct {
	Removals map[string]decimal.Decimal `json:"removals" validate:"required,min=1"`
}

// TagLineItemResponse salida de una línea.
type TagLineItemResponse struct {
	ID                string   `json:"id"`
	SKUID             string   `json:"sku_id"`
	Quantity          int      `json:"quantity"`
	RemainingQuantity int      `json:"remaining_quantity"`
	SelectionMethod   string   `json:"selection_method"`
	InstanceIDs       []string `json:"instance_ids,omitempty"`
}

// TagResponse salida de una etiqueta completa.
type TagResponse struct {
	ID          string                `json:"id"`
	Kind        string                `json:"kind"`
	Attribution string                `json:"attribution"`
	DueDate     *time.Time            `json:"due_date,omitempty"`
	Notes       string                `json:"notes,omitempty"`
	LineItems   []TagLineItemResponse `json:"line_items"`
	CreatedBy   string                `json:"created_by"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// AdjustedLineDTO una línea efectivamente cambiada por un ajuste; la respuesta
// del ajuste devuelve solo el subconjunto que cambió.
type AdjustedLineDTO struct {
	LineItemID string `json:"line_item_id"`
	From       int    `json:"from"`
	To         int    `json:"to"`
}
