package tags

import (
	"context"

	"github.com/jhoicas/Etiquetas-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Junto con los GetForUpdate por SKU garantiza
// a-lo-sumo-una-mutación-concurrente-por-SKU: dos "agregar 5 reservados"
// simultáneos sobre el mismo SKU no pueden validar contra un snapshot stale.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		tagRepo repository.TagRepository,
		invRepo repository.InventoryRepository,
		instRepo repository.InstanceRepository,
		skuRepo repository.SKURepository,
	) error) error
}
