package repository

import "github.com/jhoicas/Etiquetas-api/internal/domain/entity"

// TagRepository define el puerto de persistencia para Tag y sus líneas (DIP).
type TagRepository interface {
	Create(tag *entity.Tag) error
	GetByID(id string) (*entity.Tag, error)
	// GetByIDForUpdate bloquea la etiqueta y sus líneas (SELECT FOR UPDATE).
	GetByIDForUpdate(id string) (*entity.Tag, error)
	List(limit, offset int) ([]*entity.Tag, error)
	AddLineItems(tagID string, items []entity.TagLineItem) error
	// UpdateLineItemRemaining fija la nueva cantidad restante de una línea.
	UpdateLineItemRemaining(lineItemID string, remaining int) error
	// DeleteLineItem elimina una línea (restante en cero o etiqueta borrada).
	DeleteLineItem(lineItemID string) error
	Delete(id string) error
}
