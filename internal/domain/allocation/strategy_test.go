package allocation_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Etiquetas-api/internal/domain"
	"github.com/jhoicas/Etiquetas-api/internal/domain/allocation"
	"github.com/jhoicas/Etiquetas-api/internal/domain/entity"
)

func day(n int) time.Time {
	return time.Date(2026, 1, n, 0, 0, 0, 0, time.UTC)
}

func inst(id string, acquired time.Time, cost float64) entity.Instance {
	return entity.Instance{
		ID:         id,
		SKUID:      "sku-1",
		AcquiredAt: acquired,
		UnitCost:   decimal.NewFromFloat(cost),
		Status:     entity.InstanceStatusAvailable,
	}
}

// ── FIFO ──────────────────────────────────────────────────────────────────────

func TestSelect_FIFOTomaLasMasAntiguas(t *testing.T) {
	// Instancias adquiridas en d1..d4 ascendente: pedir 3 devuelve [d1,d2,d3].
	instances := []entity.Instance{
		inst("i-4", day(4), 10), inst("i-2", day(2), 10),
		inst("i-1", day(1), 10), inst("i-3", day(3), 10),
	}

	ids, err := allocation.Select(allocation.Request{
		SKUID: "sku-1", Method: entity.SelectionFIFO, Quantity: 3,
	}, instances)
	require.NoError(t, err)
	assert.Equal(t, []string{"i-1", "i-2", "i-3"}, ids)
}

func TestSelect_FIFOEsDeterministaConEmpates(t *testing.T) {
	// Misma fecha de adquisición: desempate por ID ascendente, siempre igual.
	instances := []entity.Instance{
		inst("i-c", day(1), 10), inst("i-a", day(1), 10), inst("i-b", day(1), 10),
	}
	req := allocation.Request{SKUID: "sku-1", Method: entity.SelectionFIFO, Quantity: 2}

	first, err := allocation.Select(req, instances)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := allocation.Select(req, instances)
		require.NoError(t, err)
		assert.Equal(t, first, again, "la selección FIFO debe ser estable")
	}
	assert.Equal(t, []string{"i-a", "i-b"}, first)
}

func TestSelect_IgnoraInstanciasNoDisponiblesYDeOtrosSKUs(t *testing.T) {
	tagged := inst("i-1", day(1), 10)
	tagged.Status = entity.InstanceStatusTagged
	otroSKU := inst("i-0", day(1), 10)
	otroSKU.SKUID = "sku-2"

	ids, err := allocation.Select(allocation.Request{
		SKUID: "sku-1", Method: entity.SelectionFIFO, Quantity: 1,
	}, []entity.Instance{tagged, otroSKU, inst("i-2", day(2), 10)})
	require.NoError(t, err)
	assert.Equal(t, []string{"i-2"}, ids)
}

// ── cost_based ────────────────────────────────────────────────────────────────

func TestSelect_CostBasedMinimizaPorDefecto(t *testing.T) {
	instances := []entity.Instance{
		inst("i-1", day(1), 30), inst("i-2", day(2), 10), inst("i-3", day(3), 20),
	}
	ids, err := allocation.Select(allocation.Request{
		SKUID: "sku-1", Method: entity.SelectionCostBased, Quantity: 2,
	}, instances)
	require.NoError(t, err)
	assert.Equal(t, []string{"i-2", "i-3"}, ids, "greedy por costo mínimo")
}

func TestSelect_CostBasedPuedeMaximizar(t *testing.T) {
	instances := []entity.Instance{
		inst("i-1", day(1), 30), inst("i-2", day(2), 10), inst("i-3", day(3), 20),
	}
	ids, err := allocation.Select(allocation.Request{
		SKUID: "sku-1", Method: entity.SelectionCostBased, Quantity: 2,
		Objective: allocation.MaximizeCost,
	}, instances)
	require.NoError(t, err)
	assert.Equal(t, []string{"i-1", "i-3"}, ids)
}

func TestSelect_CostBasedDesempataPorID(t *testing.T) {
	instances := []entity.Instance{
		inst("i-b", day(2), 10), inst("i-a", day(1), 10),
	}
	ids, err := allocation.Select(allocation.Request{
		SKUID: "sku-1", Method: entity.SelectionCostBased, Quantity: 1,
	}, instances)
	require.NoError(t, err)
	assert.Equal(t, []string{"i-a"}, ids)
}

// ── manual ────────────────────────────────────────────────────────────────────

func TestSelect_ManualValidaSinSeleccionar(t *testing.T) {
	instances := []entity.Instance{
		inst("i-1", day(1), 10), inst("i-2", day(2), 10), inst("i-3", day(3), 10),
	}
	ids, err := allocation.Select(allocation.Request{
		SKUID: "sku-1", Method: entity.SelectionManual, Quantity: 2,
		ManualIDs: []string{"i-3", "i-1"},
	}, instances)
	require.NoError(t, err)
	assert.Equal(t, []string{"i-3", "i-1"}, ids, "respeta la lista del caller tal cual")
}

func TestSelect_ManualRechazaConteoDistinto(t *testing.T) {
	_, err := allocation.Select(allocation.Request{
		SKUID: "sku-1", Method: entity.SelectionManual, Quantity: 3,
		ManualIDs: []string{"i-1"},
	}, []entity.Instance{inst("i-1", day(1), 10)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSelect_ManualRechazaInstanciaNoDisponible(t *testing.T) {
	tagged := inst("i-2", day(2), 10)
	tagged.Status = entity.InstanceStatusTagged

	_, err := allocation.Select(allocation.Request{
		SKUID: "sku-1", Method: entity.SelectionManual, Quantity: 2,
		ManualIDs: []string{"i-1", "i-2"},
	}, []entity.Instance{inst("i-1", day(1), 10), tagged})
	assert.ErrorIs(t, err, domain.ErrInsufficientInstances)
}

func TestSelect_ManualRechazaIDsDuplicados(t *testing.T) {
	_, err := allocation.Select(allocation.Request{
		SKUID: "sku-1", Method: entity.SelectionManual, Quantity: 2,
		ManualIDs: []string{"i-1", "i-1"},
	}, []entity.Instance{inst("i-1", day(1), 10)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ── fallas comunes ────────────────────────────────────────────────────────────

func TestSelect_FaltanteReportaDeficitYNoAsignaParcial(t *testing.T) {
	instances := []entity.Instance{inst("i-1", day(1), 10), inst("i-2", day(2), 10)}

	_, err := allocation.Select(allocation.Request{
		SKUID: "sku-1", Method: entity.SelectionFIFO, Quantity: 5,
	}, instances)

	require.Error(t, err)
	var instErr *domain.InsufficientInstancesError
	require.ErrorAs(t, err, &instErr)
	assert.Equal(t, 5, instErr.Requested)
	assert.Equal(t, 2, instErr.Available)
	assert.Equal(t, 3, instErr.Shortfall())
}

func TestSelect_CantidadNoPositivaEsInvalida(t *testing.T) {
	_, err := allocation.Select(allocation.Request{
		SKUID: "sku-1", Method: entity.SelectionFIFO, Quantity: 0,
	}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestSelect_MetodoDesconocidoEsInvalido(t *testing.T) {
	_, err := allocation.Select(allocation.Request{
		SKUID: "sku-1", Method: "random", Quantity: 1,
	}, []entity.Instance{inst("i-1", day(1), 10)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
