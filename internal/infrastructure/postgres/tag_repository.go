package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Etiquetas-api/internal/domain/entity"
	"github.com/jhoicas/Etiquetas-api/internal/domain/repository"
)

var _ repository.TagRepository = (*TagRepo)(nil)

// TagRepo implementación de TagRepository sobre PostgreSQL (usable con pool o tx).
type TagRepo struct {
	q Querier
}

// NewTagRepository construye el adaptador de etiquetas. Pasar pool o tx (Querier).
func NewTagRepository(q Querier) *TagRepo {
	return &TagRepo{q: q}
}

// Create persiste una etiqueta con sus líneas.
func (r *TagRepo) Create(tag *entity.Tag) error {
	query := `
		INSERT INTO tags (id, kind, attribution, due_date, notes, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		tag.ID, tag.Kind, tag.Attribution, tag.DueDate, tag.Notes, tag.CreatedBy,
		tag.CreatedAt, tag.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert tag: %w", err)
	}
	return r.AddLineItems(tag.ID, tag.LineItems)
}

// GetByID obtiene una etiqueta con sus líneas. Devuelve nil sin error si no existe.
func (r *TagRepo) GetByID(id string) (*entity.Tag, error) {
	return r.getByID(id, false)
}

// GetByIDForUpdate obtiene la etiqueta bloqueando su fila y las de sus líneas
// (SELECT FOR UPDATE), para mutaciones dentro de una transacción.
func (r *TagRepo) GetByIDForUpdate(id string) (*entity.Tag, error) {
	return r.getByID(id, true)
}

func (r *TagRepo) getByID(id string, forUpdate bool) (*entity.Tag, error) {
	query := `
		SELECT id, kind, attribution, due_date, notes, created_by, created_at, updated_at
		FROM tags WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	var t entity.Tag
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&t.ID, &t.Kind, &t.Attribution, &t.DueDate, &t.Notes, &t.CreatedBy,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tag: %w", err)
	}
	items, err := r.listLineItems(t.ID, forUpdate)
	if err != nil {
		return nil, err
	}
	t.LineItems = items
	return &t, nil
}

func (r *TagRepo) listLineItems(tagID string, forUpdate bool) ([]entity.TagLineItem, error) {
	query := `
		SELECT id, tag_id, sku_id, quantity, remaining_quantity, selection_method, instance_ids, created_at, updated_at
		FROM tag_line_items WHERE tag_id = $1 ORDER BY created_at, id`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	rows, err := r.q.Query(context.Background(), query, tagID)
	if err != nil {
		return nil, fmt.Errorf("list tag line items: %w", err)
	}
	defer rows.Close()
	var items []entity.TagLineItem
	for rows.Next() {
		var li entity.TagLineItem
		if err := rows.Scan(
			&li.ID, &li.TagID, &li.SKUID, &li.Quantity, &li.RemainingQuantity,
			&li.SelectionMethod, &li.InstanceIDs, &li.CreatedAt, &li.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan tag line item: %w", err)
		}
		items = append(items, li)
	}
	return items, rows.Err()
}

// List lista etiquetas con sus líneas, paginadas por fecha de creación descendente.
func (r *TagRepo) List(limit, offset int) ([]*entity.Tag, error) {
	query := `
		SELECT id, kind, attribution, due_date, notes, created_by, created_at, updated_at
		FROM tags ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()
	var list []*entity.Tag
	for rows.Next() {
		var t entity.Tag
		if err := rows.Scan(
			&t.ID, &t.Kind, &t.Attribution, &t.DueDate, &t.Notes, &t.CreatedBy,
			&t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		list = append(list, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, t := range list {
		items, err := r.listLineItems(t.ID, false)
		if err != nil {
			return nil, err
		}
		t.LineItems = items
	}
	return list, nil
}

// AddLineItems inserta líneas para una etiqueta existente.
func (r *TagRepo) AddLineItems(tagID string, items []entity.TagLineItem) error {
	query := `
		INSERT INTO tag_line_items (id, tag_id, sku_id, quantity, remaining_quantity, selection_method, instance_ids, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for _, li := range items {
		_, err := r.q.Exec(context.Background(), query,
			li.ID, tagID, li.SKUID, li.Quantity, li.RemainingQuantity,
			li.SelectionMethod, li.InstanceIDs, li.CreatedAt, li.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert tag line item: %w", err)
		}
	}
	return nil
}

// UpdateLineItemRemaining fija la nueva cantidad restante de una línea.
func (r *TagRepo) UpdateLineItemRemaining(lineItemID string, remaining int) error {
	query := `UPDATE tag_line_items SET remaining_quantity = $2, updated_at = now() WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, lineItemID, remaining)
	if err != nil {
		return fmt.Errorf("update tag line item: %w", err)
	}
	return nil
}

// DeleteLineItem elimina una línea.
func (r *TagRepo) DeleteLineItem(lineItemID string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM tag_line_items WHERE id = $1`, lineItemID)
	if err != nil {
		return fmt.Errorf("delete tag line item: %w", err)
	}
	return nil
}

// Delete elimina una etiqueta; sus líneas caen por ON DELETE CASCADE.
func (r *TagRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM tags WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	return nil
}
