package repository

import "github.com/jhoicas/Etiquetas-api/internal/domain/entity"

// SKURepository define el puerto de persistencia para SKU (DIP).
// No hay Delete: un SKU referenciado por inventario se descontinúa (soft).
type SKURepository interface {
	Create(sku *entity.SKU) error
	GetByID(id string) (*entity.SKU, error)
	GetByCode(code string) (*entity.SKU, error)
	Update(sku *entity.SKU) error
	UpdateStatus(id, status string) error
	List(limit, offset int) ([]*entity.SKU, error)
}
