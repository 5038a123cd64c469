package inventory_test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Etiquetas-api/internal/domain"
	"github.com/jhoicas/Etiquetas-api/internal/domain/entity"
	"github.com/jhoicas/Etiquetas-api/internal/domain/inventory"
)

func newLedger() *inventory.Ledger {
	return inventory.NewLedger(zerolog.Nop())
}

func TestLedger_DisponibleEsTotalMenosEtiquetado(t *testing.T) {
	l := newLedger()
	l.Load("sku-1", 20, map[entity.TagKind]int{
		entity.TagKindReserved: 3,
		entity.TagKindBroken:   2,
	})

	assert.Equal(t, 20, l.Total("sku-1"))
	assert.Equal(t, 5, l.TaggedTotal("sku-1"))
	assert.Equal(t, 15, l.Available("sku-1"), "disponible = total - etiquetado")
}

func TestLedger_ClaseStockNoDescuentaDisponibilidad(t *testing.T) {
	l := newLedger()
	l.Load("sku-1", 10, map[entity.TagKind]int{
		entity.TagKindStock:    7,
		entity.TagKindReserved: 2,
	})

	assert.Equal(t, 2, l.TaggedTotal("sku-1"), "las líneas 'stock' son neutrales")
	assert.Equal(t, 8, l.Available("sku-1"))
	assert.Equal(t, 7, l.TaggedBreakdown("sku-1")[entity.TagKindStock],
		"el desglose sí conserva las clases neutrales")
}

func TestLedger_DisponibleNegativoSeRecortaACero(t *testing.T) {
	// Invariante roto aguas arriba: etiquetado > total. La lectura no debe
	// fallar ni exponer cantidades negativas.
	l := newLedger()
	l.Load("sku-1", 5, map[entity.TagKind]int{entity.TagKindReserved: 8})

	assert.Equal(t, 0, l.Available("sku-1"), "el piso defensivo es 0")
}

func TestLedger_SKUDesconocidoSeComportaComoCero(t *testing.T) {
	l := newLedger()
	assert.Equal(t, 0, l.Total("sku-x"))
	assert.Equal(t, 0, l.Available("sku-x"))
	assert.Empty(t, l.TaggedBreakdown("sku-x"))
}

func TestLedger_ApplyStockDelta_NoPuedeBajarDeLoReclamado(t *testing.T) {
	l := newLedger()
	l.Load("sku-1", 20, map[entity.TagKind]int{entity.TagKindReserved: 16})

	err := l.ApplyStockDelta("sku-1", -5)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock,
		"no se puede encoger el total por debajo de lo etiquetado")
	assert.Equal(t, 20, l.Total("sku-1"), "estado sin cambios tras el rechazo")

	require.NoError(t, l.ApplyStockDelta("sku-1", -4))
	assert.Equal(t, 16, l.Total("sku-1"))
	assert.Equal(t, 0, l.Available("sku-1"))
}

func TestLedger_ApplyStockDelta_NoPuedeBajarDeCero(t *testing.T) {
	l := newLedger()
	l.Load("sku-1", 3, nil)

	err := l.ApplyStockDelta("sku-1", -4)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestLedger_Claim_ValidaConservacion(t *testing.T) {
	l := newLedger()
	l.Load("sku-1", 10, nil)

	require.NoError(t, l.Claim("sku-1", entity.TagKindReserved, 7))
	assert.Equal(t, 3, l.Available("sku-1"))

	err := l.Claim("sku-1", entity.TagKindLoaned, 4)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientAvailability)

	var availErr *domain.InsufficientAvailabilityError
	require.ErrorAs(t, err, &availErr)
	assert.Equal(t, "sku-1", availErr.SKUID)
	assert.Equal(t, 4, availErr.Requested)
	assert.Equal(t, 3, availErr.Available)
}

func TestLedger_Claim_ClaseNeutralNoValida(t *testing.T) {
	l := newLedger()
	l.Load("sku-1", 2, nil)

	require.NoError(t, l.Claim("sku-1", entity.TagKindStock, 50),
		"las líneas 'stock' no compiten por disponibilidad")
	assert.Equal(t, 2, l.Available("sku-1"))
}

func TestLedger_Release_LiberaYNuncaQuedaNegativo(t *testing.T) {
	l := newLedger()
	l.Load("sku-1", 10, map[entity.TagKind]int{entity.TagKindBroken: 4})

	l.Release("sku-1", entity.TagKindBroken, 3)
	assert.Equal(t, 1, l.TaggedBreakdown("sku-1")[entity.TagKindBroken])
	assert.Equal(t, 9, l.Available("sku-1"))

	// Liberación mayor a lo reclamado: se recorta, no se vuelve negativo.
	l.Release("sku-1", entity.TagKindBroken, 5)
	assert.Equal(t, 0, l.TaggedBreakdown("sku-1")[entity.TagKindBroken])
	assert.Equal(t, 10, l.Available("sku-1"))
}

// TestLedger_ConservacionBajoSecuencias ejerce una secuencia mixta de
// operaciones y verifica que tras cada paso etiquetado <= total y
// disponible >= 0.
func TestLedger_ConservacionBajoSecuencias(t *testing.T) {
	l := newLedger()
	l.Load("sku-1", 0, nil)

	steps := []func() error{
		func() error { return l.ApplyStockDelta("sku-1", 12) },
		func() error { return l.Claim("sku-1", entity.TagKindReserved, 5) },
		func() error { return l.Claim("sku-1", entity.TagKindLoaned, 7) },
		func() error { return l.ApplyStockDelta("sku-1", -1) }, // debe fallar: 11 < 12 reclamado
		func() error { l.Release("sku-1", entity.TagKindLoaned, 7); return nil },
		func() error { return l.ApplyStockDelta("sku-1", -6) },
		func() error { return l.Claim("sku-1", entity.TagKindBroken, 2) }, // debe fallar: disponible 1
	}
	for i, step := range steps {
		_ = step()
		assert.LessOrEqual(t, l.TaggedTotal("sku-1"), l.Total("sku-1"),
			"invariante de conservación roto tras el paso %d", i)
		assert.GreaterOrEqual(t, l.Available("sku-1"), 0,
			"disponible negativo tras el paso %d", i)
	}
	assert.Equal(t, 6, l.Total("sku-1"))
	assert.Equal(t, 5, l.TaggedTotal("sku-1"))
	assert.Equal(t, 1, l.Available("sku-1"))
}

func TestSummarizeTags_AgregaRestantesPorClase(t *testing.T) {
	tags := []entity.Tag{
		{Kind: entity.TagKindReserved, LineItems: []entity.TagLineItem{
			{SKUID: "sku-1", Quantity: 5, RemainingQuantity: 3},
			{SKUID: "sku-1", Quantity: 2, RemainingQuantity: 2},
		}},
		{Kind: entity.TagKindBroken, LineItems: []entity.TagLineItem{
			{SKUID: "sku-1", Quantity: 1, RemainingQuantity: 1},
		}},
	}

	summary := inventory.SummarizeTags(tags)
	assert.Equal(t, 5, summary[entity.TagKindReserved], "suma los restantes, no las cantidades originales")
	assert.Equal(t, 1, summary[entity.TagKindBroken])
}
