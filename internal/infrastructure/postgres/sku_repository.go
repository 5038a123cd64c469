package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Etiquetas-api/internal/domain"
	"github.com/jhoicas/Etiquetas-api/internal/domain/entity"
	"github.com/jhoicas/Etiquetas-api/internal/domain/repository"
)

var _ repository.SKURepository = (*SKURepo)(nil)

// SKURepo implementación de SKURepository sobre PostgreSQL (usable con pool o tx).
type SKURepo struct {
	q Querier
}

// NewSKURepository construye el adaptador de SKU. Pasar pool o tx (Querier).
func NewSKURepository(q Querier) *SKURepo {
	return &SKURepo{q: q}
}

const skuColumns = `id, code, name, description, unit_cost, price,
		understocked_threshold, overstocked_threshold, status, created_at, updated_at`

// Create persiste un nuevo SKU.
func (r *SKURepo) Create(sku *entity.SKU) error {
	query := `
		INSERT INTO skus (id, code, name, description, unit_cost, price,
			understocked_threshold, overstocked_threshold, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		sku.ID, sku.Code, sku.Name, sku.Description, sku.UnitCost, sku.Price,
		sku.Thresholds.Understocked, sku.Thresholds.Overstocked, sku.Status,
		sku.CreatedAt, sku.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert sku: %w", err)
	}
	return nil
}

// GetByID obtiene un SKU por ID. Devuelve nil sin error si no existe.
func (r *SKURepo) GetByID(id string) (*entity.SKU, error) {
	query := `SELECT ` + skuColumns + ` FROM skus WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetByCode obtiene un SKU por código único. Devuelve nil sin error si no existe.
func (r *SKURepo) GetByCode(code string) (*entity.SKU, error) {
	query := `SELECT ` + skuColumns + ` FROM skus WHERE code = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, code))
}

func (r *SKURepo) scanOne(row pgx.Row) (*entity.SKU, error) {
	var s entity.SKU
	err := row.Scan(
		&s.ID, &s.Code, &s.Name, &s.Description, &s.UnitCost, &s.Price,
		&s.Thresholds.Understocked, &s.Thresholds.Overstocked, &s.Status,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sku: %w", err)
	}
	return &s, nil
}

// Update actualiza los campos editables de un SKU.
func (r *SKURepo) Update(sku *entity.SKU) error {
	query := `
		UPDATE skus SET code = $2, name = $3, description = $4, unit_cost = $5, price = $6,
			understocked_threshold = $7, overstocked_threshold = $8, updated_at = $9
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		sku.ID, sku.Code, sku.Name, sku.Description, sku.UnitCost, sku.Price,
		sku.Thresholds.Understocked, sku.Thresholds.Overstocked, sku.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update sku: %w", err)
	}
	return nil
}

// UpdateStatus cambia el estado del SKU (active / discontinued).
func (r *SKURepo) UpdateStatus(id, status string) error {
	query := `UPDATE skus SET status = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, status)
	if err != nil {
		return fmt.Errorf("update sku status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista SKUs con paginación, ordenados por código.
func (r *SKURepo) List(limit, offset int) ([]*entity.SKU, error) {
	query := `SELECT ` + skuColumns + ` FROM skus ORDER BY code LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list skus: %w", err)
	}
	defer rows.Close()
	var list []*entity.SKU
	for rows.Next() {
		var s entity.SKU
		if err := rows.Scan(
			&s.ID, &s.Code, &s.Name, &s.Description, &s.UnitCost, &s.Price,
			&s.Thresholds.Understocked, &s.Thresholds.Overstocked, &s.Status,
			&s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan sku: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
