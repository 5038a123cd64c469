package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Etiquetas-api/internal/domain/entity"
	"github.com/jhoicas/Etiquetas-api/internal/domain/inventory"
)

var defaultThresholds = entity.StockThresholds{Understocked: 5, Overstocked: 100}

func TestClassify_StockAdecuadoSinEtiquetas(t *testing.T) {
	// SKU con total 20, umbrales {5, 100}, sin etiquetas.
	status := inventory.Classify(20, 20, defaultThresholds)
	assert.Equal(t, inventory.StatusAdequate, status)
}

func TestClassify_ReservaGrandeDejaUnderstocked(t *testing.T) {
	// Mismo SKU con 16 unidades reservadas: disponible 4 <= piso 5.
	status := inventory.Classify(4, 20, defaultThresholds)
	assert.Equal(t, inventory.StatusUnderstocked, status,
		"understocked se evalúa contra lo disponible, no el total")
}

func TestClassify_SinStockEsOutSinImportarUmbrales(t *testing.T) {
	assert.Equal(t, inventory.StatusOut, inventory.Classify(0, 0, defaultThresholds))
	assert.Equal(t, inventory.StatusOut, inventory.Classify(0, 0, entity.StockThresholds{}))
	// Totalmente reservado: hay stock físico pero nada atendible.
	assert.Equal(t, inventory.StatusOut, inventory.Classify(0, 50, defaultThresholds))
}

func TestClassify_OverstockedGanaSobreUnderstocked(t *testing.T) {
	// Lote grande fuertemente reservado: total 150 >= techo 100 aunque
	// disponible 3 <= piso 5. Overstocked se evalúa primero, contra el total crudo.
	status := inventory.Classify(3, 150, defaultThresholds)
	assert.Equal(t, inventory.StatusOverstocked, status)
}

func TestClassify_UmbralCeroNuncaMarca(t *testing.T) {
	// Umbral 0 es legal y significa "nunca marcar ese estado".
	sinPiso := entity.StockThresholds{Understocked: 0, Overstocked: 100}
	assert.Equal(t, inventory.StatusAdequate, inventory.Classify(1, 10, sinPiso))

	sinTecho := entity.StockThresholds{Understocked: 5, Overstocked: 0}
	assert.Equal(t, inventory.StatusAdequate, inventory.Classify(500, 500, sinTecho))
}

func TestClassify_LimitesExactos(t *testing.T) {
	// available == piso => understocked; total == techo => overstocked.
	assert.Equal(t, inventory.StatusUnderstocked, inventory.Classify(5, 20, defaultThresholds))
	assert.Equal(t, inventory.StatusOverstocked, inventory.Classify(50, 100, defaultThresholds))
	assert.Equal(t, inventory.StatusAdequate, inventory.Classify(6, 99, defaultThresholds))
}

// TestClassify_EsPura clasificar dos veces con el mismo input produce el
// mismo output: la clasificación no tiene estado propio.
func TestClassify_EsPura(t *testing.T) {
	inputs := []struct{ available, total int }{
		{0, 0}, {4, 20}, {20, 20}, {3, 150}, {5, 5},
	}
	for _, in := range inputs {
		first := inventory.Classify(in.available, in.total, defaultThresholds)
		second := inventory.Classify(in.available, in.total, defaultThresholds)
		assert.Equal(t, first, second, "clasificación no determinista para %+v", in)
	}
}
