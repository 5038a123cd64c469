package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados válidos para SKU. Un SKU referenciado por inventario nunca se borra:
// transiciona a "discontinued".
const (
	SKUStatusActive       = "active"
	SKUStatusDiscontinued = "discontinued"
)

// StockThresholds umbrales de salud de stock por SKU.
// Un umbral en 0 significa "nunca marcar ese estado".
type StockThresholds struct {
	Understocked int // piso: available <= piso => understocked
	Overstocked  int // techo: total >= techo => overstocked
}

// SKU representa un producto o herramienta inventariable.
// UnitCost es el costo de adquisición de referencia; Price el precio de venta.
type SKU struct {
	ID          string
	Code        string // código único
	Name        string
	Description string
	UnitCost    decimal.Decimal
	Price       decimal.Decimal
	Thresholds  StockThresholds
	Status      string // active, discontinued
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Discontinued indica si el SKU fue dado de baja (soft delete).
func (s *SKU) Discontinued() bool {
	return s.Status == SKUStatusDiscontinued
}
