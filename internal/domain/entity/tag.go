package entity

import "time"

// TagKind clase de etiqueta: un reclamo con nombre contra el stock de un SKU.
type TagKind string

// Clases de etiqueta. "stock" es neutral: sus líneas no descuentan disponibilidad
// (se usa para agrupaciones informativas, p. ej. conteos físicos).
const (
	TagKindReserved  TagKind = "reserved"
	TagKindBroken    TagKind = "broken"
	TagKindImperfect TagKind = "imperfect"
	TagKindLoaned    TagKind = "loaned"
	TagKindStock     TagKind = "stock"
)

// ValidTagKind verifica que la clase sea una de las conocidas.
func ValidTagKind(k TagKind) bool {
	switch k {
	case TagKindReserved, TagKindBroken, TagKindImperfect, TagKindLoaned, TagKindStock:
		return true
	}
	return false
}

// Claims indica si la clase descuenta disponibilidad (toda clase salvo "stock").
func (k TagKind) Claims() bool {
	return k != TagKindStock
}

// SelectionMethod política de selección de instancias físicas para una línea.
const (
	SelectionFIFO      = "fifo"
	SelectionCostBased = "cost_based"
	SelectionManual    = "manual"
)

// Tag representa un reclamo contra inventario: reserva, daño, imperfecto o préstamo.
// Attribution identifica al cliente/reportante/departamento responsable.
type Tag struct {
	ID          string
	Kind        TagKind
	Attribution string
	DueDate     *time.Time // opcional (típico en loaned)
	Notes       string
	LineItems   []TagLineItem
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TagLineItem una entrada de la etiqueta, acotada a un SKU.
// RemainingQuantity decrece al liberar o consumir unidades; nunca supera
// Quantity ni baja de cero. Cuando llega a cero, la línea se elimina.
type TagLineItem struct {
	ID                string
	TagID             string
	SKUID             string
	Quantity          int // unidades originalmente etiquetadas
	RemainingQuantity int
	SelectionMethod   string   // fifo, cost_based, manual
	InstanceIDs       []string // instancias físicas asignadas (orden de asignación)
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
