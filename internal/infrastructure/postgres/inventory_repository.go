package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Etiquetas-api/internal/domain/entity"
	"github.com/jhoicas/Etiquetas-api/internal/domain/repository"
)

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

// InventoryRepo implementación de InventoryRepository sobre PostgreSQL (usable con pool o tx).
type InventoryRepo struct {
	q Querier
}

// NewInventoryRepository construye el adaptador de registros físicos. Pasar pool o tx (Querier).
func NewInventoryRepository(q Querier) *InventoryRepo {
	return &InventoryRepo{q: q}
}

// Get obtiene el registro físico de un SKU. Si no existe devuelve un registro en cero.
func (r *InventoryRepo) Get(skuID string) (*entity.InventoryRecord, error) {
	query := `
		SELECT sku_id, total_quantity, updated_at
		FROM inventory_records WHERE sku_id = $1`
	var rec entity.InventoryRecord
	err := r.q.QueryRow(context.Background(), query, skuID).Scan(
		&rec.SKUID, &rec.TotalQuantity, &rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.InventoryRecord{SKUID: skuID}, nil
		}
		return nil, fmt.Errorf("get inventory record: %w", err)
	}
	return &rec, nil
}

// GetForUpdate obtiene el registro físico y bloquea la fila (SELECT FOR UPDATE).
// Si no existe, inserta la fila en cero primero: el lock necesita una fila real
// para serializar mutaciones concurrentes sobre el mismo SKU.
func (r *InventoryRepo) GetForUpdate(skuID string) (*entity.InventoryRecord, error) {
	insert := `
		INSERT INTO inventory_records (sku_id, total_quantity, updated_at)
		VALUES ($1, 0, now())
		ON CONFLICT (sku_id) DO NOTHING`
	if _, err := r.q.Exec(context.Background(), insert, skuID); err != nil {
		return nil, fmt.Errorf("ensure inventory record: %w", err)
	}
	query := `
		SELECT sku_id, total_quantity, updated_at
		FROM inventory_records WHERE sku_id = $1
		FOR UPDATE`
	var rec entity.InventoryRecord
	err := r.q.QueryRow(context.Background(), query, skuID).Scan(
		&rec.SKUID, &rec.TotalQuantity, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("get inventory record for update: %w", err)
	}
	return &rec, nil
}

// Upsert inserta o actualiza la cantidad física total de un SKU.
func (r *InventoryRepo) Upsert(rec *entity.InventoryRecord) error {
	query := `
		INSERT INTO inventory_records (sku_id, total_quantity, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (sku_id)
		DO UPDATE SET total_quantity = EXCLUDED.total_quantity, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query, rec.SKUID, rec.TotalQuantity)
	if err != nil {
		return fmt.Errorf("upsert inventory record: %w", err)
	}
	return nil
}

// TaggedSummary agrega por clase de etiqueta las cantidades restantes de todas
// las líneas que referencian el SKU.
func (r *InventoryRepo) TaggedSummary(skuID string) (map[entity.TagKind]int, error) {
	query := `
		SELECT t.kind, COALESCE(SUM(li.remaining_quantity), 0)
		FROM tag_line_items li
		JOIN tags t ON t.id = li.tag_id
		WHERE li.sku_id = $1
		GROUP BY t.kind`
	rows, err := r.q.Query(context.Background(), query, skuID)
	if err != nil {
		return nil, fmt.Errorf("tagged summary: %w", err)
	}
	defer rows.Close()
	summary := make(map[entity.TagKind]int)
	for rows.Next() {
		var kind entity.TagKind
		var qty int
		if err := rows.Scan(&kind, &qty); err != nil {
			return nil, fmt.Errorf("scan tagged summary: %w", err)
		}
		summary[kind] = qty
	}
	return summary, rows.Err()
}

// ListRecords lista registros físicos con paginación, ordenados por SKU.
func (r *InventoryRepo) ListRecords(limit, offset int) ([]*entity.InventoryRecord, error) {
	query := `
		SELECT sku_id, total_quantity, updated_at
		FROM inventory_records ORDER BY sku_id LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list inventory records: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryRecord
	for rows.Next() {
		var rec entity.InventoryRecord
		if err := rows.Scan(&rec.SKUID, &rec.TotalQuantity, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan inventory record: %w", err)
		}
		list = append(list, &rec)
	}
	return list, rows.Err()
}
