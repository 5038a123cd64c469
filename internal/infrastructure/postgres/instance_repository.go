package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Etiquetas-api/internal/domain/entity"
	"github.com/jhoicas/Etiquetas-api/internal/domain/repository"
)

var _ repository.InstanceRepository = (*InstanceRepo)(nil)

// InstanceRepo implementación de InstanceRepository sobre PostgreSQL (usable con pool o tx).
type InstanceRepo struct {
	q Querier
}

// NewInstanceRepository construye el adaptador de instancias físicas. Pasar pool o tx (Querier).
func NewInstanceRepository(q Querier) *InstanceRepo {
	return &InstanceRepo{q: q}
}

const instanceColumns = `id, sku_id, batch_code, acquired_at, unit_cost, status, line_item_id, created_at`

// CreateBatch inserta un lote de instancias.
func (r *InstanceRepo) CreateBatch(instances []entity.Instance) error {
	query := `
		INSERT INTO instances (id, sku_id, batch_code, acquired_at, unit_cost, status, line_item_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for _, in := range instances {
		_, err := r.q.Exec(context.Background(), query,
			in.ID, in.SKUID, in.BatchCode, in.AcquiredAt, in.UnitCost, in.Status,
			in.LineItemID, in.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert instance: %w", err)
		}
	}
	return nil
}

// ListAvailable devuelve las instancias disponibles de un SKU en orden estable
// (acquired_at, id) para que la asignación FIFO sea determinista.
func (r *InstanceRepo) ListAvailable(skuID string) ([]entity.Instance, error) {
	return r.listAvailable(skuID, false)
}

// ListAvailableForUpdate igual que ListAvailable pero bloqueando las filas.
func (r *InstanceRepo) ListAvailableForUpdate(skuID string) ([]entity.Instance, error) {
	return r.listAvailable(skuID, true)
}

func (r *InstanceRepo) listAvailable(skuID string, forUpdate bool) ([]entity.Instance, error) {
	query := `
		SELECT ` + instanceColumns + `
		FROM instances WHERE sku_id = $1 AND status = 'available'
		ORDER BY acquired_at, id`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	rows, err := r.q.Query(context.Background(), query, skuID)
	if err != nil {
		return nil, fmt.Errorf("list available instances: %w", err)
	}
	return scanInstances(rows)
}

// ListByLineItem devuelve las instancias asignadas a una línea, en el mismo
// orden estable que la asignación (acquired_at, id).
func (r *InstanceRepo) ListByLineItem(lineItemID string) ([]entity.Instance, error) {
	query := `
		SELECT ` + instanceColumns + `
		FROM instances WHERE line_item_id = $1
		ORDER BY acquired_at, id`
	rows, err := r.q.Query(context.Background(), query, lineItemID)
	if err != nil {
		return nil, fmt.Errorf("list instances by line item: %w", err)
	}
	return scanInstances(rows)
}

func scanInstances(rows pgx.Rows) ([]entity.Instance, error) {
	defer rows.Close()
	var list []entity.Instance
	for rows.Next() {
		var in entity.Instance
		if err := rows.Scan(
			&in.ID, &in.SKUID, &in.BatchCode, &in.AcquiredAt, &in.UnitCost, &in.Status,
			&in.LineItemID, &in.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan instance: %w", err)
		}
		list = append(list, in)
	}
	return list, rows.Err()
}

// MarkTagged asigna las instancias a una línea de etiqueta.
func (r *InstanceRepo) MarkTagged(ids []string, lineItemID string) error {
	if len(ids) == 0 {
		return nil
	}
	query := `
		UPDATE instances SET status = 'tagged', line_item_id = $2
		WHERE id = ANY($1)`
	_, err := r.q.Exec(context.Background(), query, ids, lineItemID)
	if err != nil {
		return fmt.Errorf("mark instances tagged: %w", err)
	}
	return nil
}

// MarkAvailable libera las instancias de su línea.
func (r *InstanceRepo) MarkAvailable(ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	query := `
		UPDATE instances SET status = 'available', line_item_id = NULL
		WHERE id = ANY($1)`
	_, err := r.q.Exec(context.Background(), query, ids)
	if err != nil {
		return fmt.Errorf("mark instances available: %w", err)
	}
	return nil
}
