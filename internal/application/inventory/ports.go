package inventory

import (
	"context"

	"github.com/jhoicas/Etiquetas-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los
// repositorios de inventario atados a esa tx. Garantiza atomicidad para los
// ajustes de stock y los ingresos de lote.
type TxRunner interface {
	RunInventory(ctx context.Context, fn func(
		invRepo repository.InventoryRepository,
		instRepo repository.InstanceRepository,
		skuRepo repository.SKURepository,
	) error) error
}
