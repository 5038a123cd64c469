package repository

import "github.com/jhoicas/Etiquetas-api/internal/domain/entity"

// InstanceRepository define el puerto para instancias físicas (unidades de lote).
type InstanceRepository interface {
	CreateBatch(instances []entity.Instance) error
	// ListAvailable devuelve las instancias disponibles de un SKU, en orden
	// estable (acquired_at, id) para que la asignación FIFO sea determinista.
	ListAvailable(skuID string) ([]entity.Instance, error)
	// ListAvailableForUpdate igual que ListAvailable pero bloqueando las filas.
	ListAvailableForUpdate(skuID string) ([]entity.Instance, error)
	ListByLineItem(lineItemID string) ([]entity.Instance, error)
	// MarkTagged asigna las instancias a una línea de etiqueta.
	MarkTagged(ids []string, lineItemID string) error
	// MarkAvailable libera las instancias de su línea.
	MarkAvailable(ids []string) error
}
