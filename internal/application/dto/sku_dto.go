package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateSKURequest entrada para crear un SKU. Los umbrales son opcionales: si
// no vienen, se aplican los defaults configurados ({5, 100}); un 0 explícito
// se respeta y significa "nunca marcar ese estado".
type CreateSKURequest struct {
	Code         string          `json:"code" validate:"required,min=1,max=100"`
	Name         string          `json:"name" validate:"required,min=1,max=200"`
	Description  string          `json:"description"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	Price        decimal.Decimal `json:"price"`
	Understocked *int            `json:"understocked_threshold" validate:"omitempty,min=0"`
	Overstocked  *int            `json:"overstocked_threshold" validate:"omitempty,min=0"`
}

// UpdateSKURequest entrada para actualizar un SKU (campos opcionales).
type UpdateSKURequest struct {
	Name         *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description  *string          `json:"description"`
	UnitCost     *decimal.Decimal `json:"unit_cost"`
	Price        *decimal.Decimal `json:"price"`
	Understocked *int             `json:"understocked_threshold" validate:"omitempty,min=0"`
	Overstocked  *int             `json:"overstocked_threshold" validate:"omitempty,min=0"`
}

// SKUResponse salida de un SKU. UnitCost solo se incluye si el rol del caller
// puede ver costos.
type SKUResponse struct {
	ID           string           `json:"id"`
	Code         string           `json:"code"`
	Name         string           `json:"name"`
	Description  string           `json:"description"`
	UnitCost     *decimal.Decimal `json:"unit_cost,omitempty"`
	Price        decimal.Decimal  `json:"price"`
	Understocked int              `json:"understocked_threshold"`
	Overstocked  int              `json:"overstocked_threshold"`
	Status       string           `json:"status"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// SKUListResponse lista paginada de SKUs.
type SKUListResponse struct {
	Items []SKUResponse `json:"items"`
	Page  PageResponse  `json:"page"`
}
