package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/Etiquetas-api/internal/application/inventory"
	"github.com/jhoicas/Etiquetas-api/internal/application/tags"
	"github.com/jhoicas/Etiquetas-api/internal/domain/repository"
)

// Ensure TxRunner implements tags.TxRunner and inventory.TxRunner.
var _ tags.TxRunner = (*TxRunner)(nil)
var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	tagRepo repository.TagRepository,
	invRepo repository.InventoryRepository,
	instRepo repository.InstanceRepository,
	skuRepo repository.SKURepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tagRepo := NewTagRepository(tx)
	invRepo := NewInventoryRepository(tx)
	instRepo := NewInstanceRepository(tx)
	skuRepo := NewSKURepository(tx)

	if err := fn(tagRepo, invRepo, instRepo, skuRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunInventory inicia una transacción con los repos de ajuste de stock e ingresos.
func (r *TxRunner) RunInventory(ctx context.Context, fn func(
	invRepo repository.InventoryRepository,
	instRepo repository.InstanceRepository,
	skuRepo repository.SKURepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	invRepo := NewInventoryRepository(tx)
	instRepo := NewInstanceRepository(tx)
	skuRepo := NewSKURepository(tx)

	if err := fn(invRepo, instRepo, skuRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
