package repository

import (
	"github.com/jhoicas/Etiquetas-api/internal/domain/entity"
)

// InventoryRepository define el puerto para el registro físico por SKU.
// Usado dentro de transacciones para garantizar consistencia.
type InventoryRepository interface {
	Get(skuID string) (*entity.InventoryRecord, error)
	Upsert(rec *entity.InventoryRecord) error
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE). Es la pieza
	// que cierra la carrera de dos mutaciones concurrentes sobre el mismo SKU:
	// a lo sumo una mutación por SKU a la vez.
	GetForUpdate(skuID string) (*entity.InventoryRecord, error)
	// TaggedSummary agrega por clase las cantidades restantes de todas las
	// líneas de etiquetas que referencian el SKU.
	TaggedSummary(skuID string) (map[entity.TagKind]int, error)
	// ListRecords lista registros físicos con su SKU para vistas de tabla.
	ListRecords(limit, offset int) ([]*entity.InventoryRecord, error)
}
