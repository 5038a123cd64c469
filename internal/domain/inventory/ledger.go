package inventory

import (
	"github.com/rs/zerolog"

	"github.com/jhoicas/Etiquetas-api/internal/domain"
	"github.com/jhoicas/Etiquetas-api/internal/domain/entity"
)

// record estado contable de un SKU dentro del ledger.
type record struct {
	total  int
	tagged map[entity.TagKind]int
}

// Ledger libro de cantidades: por SKU, la cantidad física total y las
// sub-cantidades etiquetadas por clase. Lo disponible siempre se deriva
// (total - etiquetado), nunca se almacena como autoridad.
//
// El ledger es estado explícito direccionado por SKU (nada de singletons):
// los casos de uso lo construyen desde los repositorios dentro de la misma
// transacción que bloquea las filas involucradas, de modo que la validación
// de conservación nunca corre contra un snapshot stale.
type Ledger struct {
	log     zerolog.Logger
	records map[string]*record
}

// NewLedger construye un ledger vacío. Las lecturas de SKUs no cargados
// se comportan como registro en cero.
func NewLedger(log zerolog.Logger) *Ledger {
	return &Ledger{log: log, records: make(map[string]*record)}
}

// Load carga (o reemplaza) el estado contable de un SKU: total físico y
// desglose etiquetado por clase. Las clases que no reclaman ("stock") se
// ignoran en el total etiquetado pero se conservan para el desglose.
func (l *Ledger) Load(skuID string, total int, tagged map[entity.TagKind]int) {
	rec := &record{total: total, tagged: make(map[entity.TagKind]int, len(tagged))}
	for kind, qty := range tagged {
		if qty != 0 {
			rec.tagged[kind] = qty
		}
	}
	l.records[skuID] = rec
}

// SummarizeTags agrega las cantidades restantes de las líneas de un conjunto
// de etiquetas en un desglose por clase, apto para Load.
func SummarizeTags(tags []entity.Tag) map[entity.TagKind]int {
	summary := make(map[entity.TagKind]int)
	for _, tag := range tags {
		for _, item := range tag.LineItems {
			summary[tag.Kind] += item.RemainingQuantity
		}
	}
	return summary
}

// Total devuelve la cantidad física total registrada para el SKU.
func (l *Ledger) Total(skuID string) int {
	if rec, ok := l.records[skuID]; ok {
		return rec.total
	}
	return 0
}

// TaggedTotal suma lo reclamado por todas las clases que descuentan
// disponibilidad (toda clase salvo "stock").
func (l *Ledger) TaggedTotal(skuID string) int {
	rec, ok := l.records[skuID]
	if !ok {
		return 0
	}
	sum := 0
	for kind, qty := range rec.tagged {
		if kind.Claims() {
			sum += qty
		}
	}
	return sum
}

// Available devuelve total - etiquetado, con piso defensivo en 0.
// Si hubo que recortar, se registra un warning de consistencia: indica una
// violación de invariante aguas arriba, pero la lectura nunca falla ni
// expone cantidades negativas.
func (l *Ledger) Available(skuID string) int {
	available := l.Total(skuID) - l.TaggedTotal(skuID)
	if available < 0 {
		l.log.Warn().
			Str("sku_id", skuID).
			Int("total", l.Total(skuID)).
			Int("tagged", l.TaggedTotal(skuID)).
			Msg("inconsistencia de datos: etiquetado excede el total, disponible recortado a 0")
		return 0
	}
	return available
}

// TaggedBreakdown devuelve una copia del desglose etiquetado por clase,
// para vistas tipo "N reservados / M dañados / libre".
func (l *Ledger) TaggedBreakdown(skuID string) map[entity.TagKind]int {
	rec, ok := l.records[skuID]
	if !ok {
		return map[entity.TagKind]int{}
	}
	out := make(map[entity.TagKind]int, len(rec.tagged))
	for kind, qty := range rec.tagged {
		out[kind] = qty
	}
	return out
}

// ApplyStockDelta ajusta la cantidad física total del SKU. Falla con
// ErrInsufficientStock si el total resultante caería bajo lo ya reclamado
// (no se puede encoger el stock por debajo de lo etiquetado) o bajo cero.
func (l *Ledger) ApplyStockDelta(skuID string, delta int) error {
	rec, ok := l.records[skuID]
	if !ok {
		rec = &record{tagged: make(map[entity.TagKind]int)}
		l.records[skuID] = rec
	}
	newTotal := rec.total + delta
	if newTotal < 0 || newTotal < l.TaggedTotal(skuID) {
		return domain.ErrInsufficientStock
	}
	rec.total = newTotal
	return nil
}

// Claim registra un reclamo de qty unidades de la clase dada. Para clases que
// descuentan disponibilidad valida conservación; las clases neutrales solo
// acumulan en el desglose.
func (l *Ledger) Claim(skuID string, kind entity.TagKind, qty int) error {
	if qty < 0 {
		return domain.ErrInvalidQuantity
	}
	if kind.Claims() {
		if available := l.Available(skuID); qty > available {
			return &domain.InsufficientAvailabilityError{SKUID: skuID, Requested: qty, Available: available}
		}
	}
	rec, ok := l.records[skuID]
	if !ok {
		rec = &record{tagged: make(map[entity.TagKind]int)}
		l.records[skuID] = rec
	}
	rec.tagged[kind] += qty
	return nil
}

// Release libera qty unidades reclamadas de la clase dada. Nunca deja el
// desglose negativo; un recorte genera warning de consistencia.
func (l *Ledger) Release(skuID string, kind entity.TagKind, qty int) {
	rec, ok := l.records[skuID]
	if !ok || qty <= 0 {
		return
	}
	rec.tagged[kind] -= qty
	if rec.tagged[kind] < 0 {
		l.log.Warn().
			Str("sku_id", skuID).
			Str("kind", string(kind)).
			Msg("inconsistencia de datos: liberación mayor a lo reclamado, desglose recortado a 0")
		rec.tagged[kind] = 0
	}
	if rec.tagged[kind] == 0 {
		delete(rec.tagged, kind)
	}
}
