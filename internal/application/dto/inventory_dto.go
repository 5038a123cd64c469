package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockDeltaRequest body para POST /api/inventory/:sku/stock-delta.
// Delta viene como decimal para rechazar no-enteros en el borde, no en dominio.
type StockDeltaRequest struct {
	Delta decimal.Decimal `json:"delta"`
}

// IntakeRequest body para registrar un lote de ingreso: crea instancias
// físicas con fecha de adquisición y costo, y sube el total del SKU.
type IntakeRequest struct {
	Quantity   decimal.Decimal `json:"quantity"`
	BatchCode  string          `json:"batch_code"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	AcquiredAt *time.Time      `json:"acquired_at"` // default: ahora
}

// InventoryOverviewDTO vista contable de un SKU: total, desglose etiquetado,
// disponible derivado y estado de salud. Datos planos para que la capa de
// presentación formatee como quiera.
type InventoryOverviewDTO struct {
	SKUID         string           `json:"sku_id"`
	Code          string           `json:"code"`
	Name          string           `json:"name"`
	TotalQuantity int              `json:"total_quantity"`
	Available     int              `json:"available_quantity"`
	TagSummary    map[string]int   `json:"tag_summary"`
	Status        string           `json:"status"`
	UnitCost      *decimal.Decimal `json:"unit_cost,omitempty"`  // solo con permiso de costos
	TotalValue    *decimal.Decimal `json:"total_value,omitempty"` // total * costo unitario
	UpdatedAt     time.Time        `json:"updated_at"`
}

// InventoryListResponse lista paginada para la vista de tabla.
type InventoryListResponse struct {
	Items []InventoryOverviewDTO `json:"items"`
	Page  PageResponse           `json:"page"`
}
