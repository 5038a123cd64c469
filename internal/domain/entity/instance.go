package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados válidos para Instance.
const (
	InstanceStatusAvailable = "available"
	InstanceStatusTagged    = "tagged"
)

// Instance representa una unidad física individual de un SKU, proveniente de un
// lote de ingreso concreto. Las políticas fifo/cost_based ordenan por fecha de
// adquisición o costo unitario del lote; LineItemID enlaza la asignación vigente.
type Instance struct {
	ID         string
	SKUID      string
	BatchCode  string // lote de ingreso
	AcquiredAt time.Time
	UnitCost   decimal.Decimal
	Status     string  // available, tagged
	LineItemID *string // línea de etiqueta que la reclama (nil si disponible)
	CreatedAt  time.Time
}

// Available indica si la instancia puede ser asignada a una línea de etiqueta.
func (i *Instance) Available() bool {
	return i.Status == InstanceStatusAvailable
}
