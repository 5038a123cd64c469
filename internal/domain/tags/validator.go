package tags

import (
	"github.com/jhoicas/Etiquetas-api/internal/domain"
	"github.com/jhoicas/Etiquetas-api/internal/domain/entity"
)

// Validador de líneas de etiqueta: toda mutación (ajustar, agregar, retirar)
// pasa por aquí antes de tocar el ledger. Las tres operaciones son seguras de
// reintentar solo si el caller relee el estado vigente primero.

// Adjustment un cambio aceptado de cantidad restante para una línea.
type Adjustment struct {
	LineItemID string
	From       int
	To         int
}

// Delta devuelve cuántas unidades adicionales reclama el ajuste
// (negativo si libera).
func (a Adjustment) Delta() int { return a.To - a.From }

// ValidateAdjust valida una propuesta de nuevas cantidades restantes
// (lineItemID -> cantidad propuesta) contra las líneas vigentes.
//   - ErrInvalidQuantity si alguna propuesta es negativa o excede la cantidad
//     original de su línea (el restante nunca supera lo etiquetado).
//   - ErrNotFound si alguna propuesta refiere a una línea inexistente.
//   - ErrNoChange si ninguna propuesta difiere del valor vigente.
//
// En éxito devuelve solo el subconjunto que cambia.
func ValidateAdjust(items []entity.TagLineItem, proposed map[string]int) ([]Adjustment, error) {
	byID := make(map[string]entity.TagLineItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	changes := make([]Adjustment, 0, len(proposed))
	for _, item := range items {
		to, ok := proposed[item.ID]
		if !ok {
			continue
		}
		if to < 0 || to > item.Quantity {
			return nil, domain.ErrInvalidQuantity
		}
		if to != item.RemainingQuantity {
			changes = append(changes, Adjustment{LineItemID: item.ID, From: item.RemainingQuantity, To: to})
		}
	}
	for id := range proposed {
		if _, ok := byID[id]; !ok {
			return nil, domain.ErrNotFound
		}
	}
	if len(changes) == 0 {
		return nil, domain.ErrNoChange
	}
	return changes, nil
}

// AddCandidate una línea candidata a agregarse a una etiqueta existente.
type AddCandidate struct {
	SKUID           string
	Quantity        int
	SelectionMethod string
	ManualIDs       []string // solo para selección manual
}

// ValidateAdd valida un lote de líneas nuevas contra la disponibilidad vigente.
// El lote es todo-o-nada: el primer SKU sin disponibilidad suficiente rechaza
// la llamada completa con InsufficientAvailabilityError y no se crea nada.
// available debe reflejar el estado ya bloqueado en la transacción del caller.
func ValidateAdd(candidates []AddCandidate, claims bool, available func(skuID string) int) error {
	if len(candidates) == 0 {
		return domain.ErrNoOp
	}
	requested := make(map[string]int, len(candidates))
	for _, c := range candidates {
		if c.Quantity <= 0 {
			return domain.ErrInvalidQuantity
		}
		requested[c.SKUID] += c.Quantity
	}
	if !claims {
		return nil
	}
	// El acumulado por SKU importa: dos candidatas del mismo SKU compiten por
	// la misma disponibilidad.
	seen := make(map[string]int, len(candidates))
	for _, c := range candidates {
		seen[c.SKUID] += c.Quantity
		if avail := available(c.SKUID); seen[c.SKUID] > avail {
			return &domain.InsufficientAvailabilityError{
				SKUID:     c.SKUID,
				Requested: requested[c.SKUID],
				Available: avail,
			}
		}
	}
	return nil
}

// Removal un retiro aceptado sobre una línea.
type Removal struct {
	LineItemID   string
	Quantity     int
	NewRemaining int
	Delete       bool // true cuando el restante llega a cero
}

// ValidateRemove valida retiros (lineItemID -> unidades a retirar).
//   - ErrInvalidQuantity si algún retiro es negativo.
//   - ErrNotFound si refiere a una línea inexistente.
//   - OverRemovalError si algún retiro excede el restante de su línea.
//   - ErrNoOp si todos los retiros son cero.
func ValidateRemove(items []entity.TagLineItem, removals map[string]int) ([]Removal, error) {
	byID := make(map[string]entity.TagLineItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}
	for id := range removals {
		if _, ok := byID[id]; !ok {
			return nil, domain.ErrNotFound
		}
	}

	out := make([]Removal, 0, len(removals))
	for _, item := range items {
		qty, ok := removals[item.ID]
		if !ok {
			continue
		}
		if qty < 0 {
			return nil, domain.ErrInvalidQuantity
		}
		if qty == 0 {
			continue
		}
		if qty > item.RemainingQuantity {
			return nil, &domain.OverRemovalError{
				LineItemID: item.ID,
				Requested:  qty,
				Remaining:  item.RemainingQuantity,
			}
		}
		remaining := item.RemainingQuantity - qty
		out = append(out, Removal{
			LineItemID:   item.ID,
			Quantity:     qty,
			NewRemaining: remaining,
			Delete:       remaining == 0,
		})
	}
	if len(out) == 0 {
		return nil, domain.ErrNoOp
	}
	return out, nil
}
