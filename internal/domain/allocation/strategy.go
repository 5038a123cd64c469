package allocation

import (
	"sort"

	"github.com/jhoicas/Etiquetas-api/internal/domain"
	"github.com/jhoicas/Etiquetas-api/internal/domain/entity"
)

// CostObjective sentido de la optimización para la política cost_based.
type CostObjective int

const (
	// MinimizeCost selecciona primero las instancias más baratas (default).
	MinimizeCost CostObjective = iota
	// MaximizeCost selecciona primero las más caras (p. ej. baja de stock
	// dañado al mayor valor en libros).
	MaximizeCost
)

// Request solicitud de asignación de instancias físicas para una línea.
type Request struct {
	SKUID     string
	Method    string // fifo, cost_based, manual
	Quantity  int
	Objective CostObjective // solo cost_based
	ManualIDs []string      // solo manual
}

// Select resuelve qué instancias físicas satisfacen la solicitud.
//   - fifo: las de adquisición más antigua primero; empates por ID ascendente.
//     Determinista dado un orden estable de fechas de adquisición.
//   - cost_based: greedy por costo unitario (min o max según Objective);
//     mismo desempate.
//   - manual: el caller trae la lista explícita; solo se valida que el conteo
//     coincida con Quantity y que cada ID esté disponible. No se selecciona nada.
//
// Si hay menos instancias disponibles que las solicitadas falla con
// InsufficientInstancesError; nunca se asigna parcialmente.
func Select(req Request, instances []entity.Instance) ([]string, error) {
	if req.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}

	available := make([]entity.Instance, 0, len(instances))
	for _, inst := range instances {
		if inst.SKUID == req.SKUID && inst.Available() {
			available = append(available, inst)
		}
	}

	if req.Method == entity.SelectionManual {
		return validateManual(req, available)
	}

	if len(available) < req.Quantity {
		return nil, &domain.InsufficientInstancesError{
			SKUID:     req.SKUID,
			Requested: req.Quantity,
			Available: len(available),
		}
	}

	switch req.Method {
	case entity.SelectionFIFO:
		sort.Slice(available, func(i, j int) bool {
			if !available[i].AcquiredAt.Equal(available[j].AcquiredAt) {
				return available[i].AcquiredAt.Before(available[j].AcquiredAt)
			}
			return available[i].ID < available[j].ID
		})
	case entity.SelectionCostBased:
		sort.Slice(available, func(i, j int) bool {
			cmp := available[i].UnitCost.Cmp(available[j].UnitCost)
			if cmp != 0 {
				if req.Objective == MaximizeCost {
					return cmp > 0
				}
				return cmp < 0
			}
			return available[i].ID < available[j].ID
		})
	default:
		return nil, domain.ErrInvalidInput
	}

	ids := make([]string, req.Quantity)
	for i := 0; i < req.Quantity; i++ {
		ids[i] = available[i].ID
	}
	return ids, nil
}

// validateManual verifica la lista explícita del caller: conteo exacto y cada
// identificador actualmente disponible para el SKU.
func validateManual(req Request, available []entity.Instance) ([]string, error) {
	if len(req.ManualIDs) != req.Quantity {
		return nil, domain.ErrInvalidInput
	}
	availByID := make(map[string]bool, len(available))
	for _, inst := range available {
		availByID[inst.ID] = true
	}
	seen := make(map[string]bool, len(req.ManualIDs))
	for _, id := range req.ManualIDs {
		if seen[id] {
			return nil, domain.ErrInvalidInput
		}
		seen[id] = true
		if !availByID[id] {
			return nil, &domain.InsufficientInstancesError{
				SKUID:     req.SKUID,
				Requested: req.Quantity,
				Available: countAvailable(req.ManualIDs, availByID),
			}
		}
	}
	// Copia defensiva: la selección persiste tal cual la entregó el caller.
	ids := make([]string, len(req.ManualIDs))
	copy(ids, req.ManualIDs)
	return ids, nil
}

func countAvailable(ids []string, availByID map[string]bool) int {
	n := 0
	for _, id := range ids {
		if availByID[id] {
			n++
		}
	}
	return n
}
