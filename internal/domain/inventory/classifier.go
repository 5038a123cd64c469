package inventory

import "github.com/jhoicas/Etiquetas-api/internal/domain/entity"

// StockStatus clasificación derivada de salud de stock. Se recalcula en cada
// lectura; no tiene estado almacenado propio.
type StockStatus string

const (
	StatusOut          StockStatus = "out"
	StatusUnderstocked StockStatus = "understocked"
	StatusAdequate     StockStatus = "adequate"
	StatusOverstocked  StockStatus = "overstocked"
)

// Classify deriva el estado de stock a partir de (disponible, total, umbrales).
// Función pura; el orden de desempate es significativo:
//   - out siempre gana: disponible 0, sin importar umbrales (un SKU totalmente
//     reservado está "out" aunque tenga stock físico).
//   - overstocked se evalúa contra el total crudo: un lote grande sobrestockea
//     aunque esté fuertemente reservado.
//   - understocked se evalúa contra lo *disponible*, porque lo que preocupa es
//     la demanda atendible, no el total.
//
// Un umbral en 0 significa "nunca marcar ese estado".
func Classify(available, total int, th entity.StockThresholds) StockStatus {
	if available <= 0 {
		return StatusOut
	}
	if th.Overstocked > 0 && total >= th.Overstocked {
		return StatusOverstocked
	}
	if th.Understocked > 0 && available <= th.Understocked {
		return StatusUnderstocked
	}
	return StatusAdequate
}
