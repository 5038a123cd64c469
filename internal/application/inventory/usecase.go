package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Etiquetas-api/internal/application/dto"
	"github.com/jhoicas/Etiquetas-api/internal/domain"
	"github.com/jhoicas/Etiquetas-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Etiquetas-api/internal/domain/inventory"
	"github.com/jhoicas/Etiquetas-api/internal/domain/repository"
)

// UseCase consultas y mutaciones del registro físico: vista contable por SKU
// (total, desglose, disponible, estado), deltas de stock e ingresos de lote.
// Las mutaciones corren bajo transacción con bloqueo de fila; las lecturas son
// puras y seguras de forma concurrente.
type UseCase struct {
	txRunner TxRunner
	invRepo  repository.InventoryRepository
	skuRepo  repository.SKURepository
	log      zerolog.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner TxRunner, invRepo repository.InventoryRepository, skuRepo repository.SKURepository, log zerolog.Logger) *UseCase {
	return &UseCase{txRunner: txRunner, invRepo: invRepo, skuRepo: skuRepo, log: log}
}

// Available devuelve la disponibilidad vigente de un SKU. Implementa
// tags.AvailabilityReader para la compuerta del flujo de creación.
func (uc *UseCase) Available(ctx context.Context, skuID string) (int, error) {
	rec, err := uc.invRepo.Get(skuID)
	if err != nil {
		return 0, err
	}
	summary, err := uc.invRepo.TaggedSummary(skuID)
	if err != nil {
		return 0, err
	}
	ledger := domaininv.NewLedger(uc.log)
	ledger.Load(skuID, rec.TotalQuantity, summary)
	return ledger.Available(skuID), nil
}

// Overview arma la vista contable de un SKU. Los campos de costo solo se
// incluyen si canViewCost (el chequeo de rol es un predicado opaco del caller).
func (uc *UseCase) Overview(ctx context.Context, skuID string, canViewCost bool) (*dto.InventoryOverviewDTO, error) {
	sku, err := uc.skuRepo.GetByID(skuID)
	if err != nil {
		return nil, err
	}
	if sku == nil {
		return nil, domain.ErrNotFound
	}
	rec, err := uc.invRepo.Get(skuID)
	if err != nil {
		return nil, err
	}
	summary, err := uc.invRepo.TaggedSummary(skuID)
	if err != nil {
		return nil, err
	}
	return uc.buildOverview(sku, rec, summary, canViewCost), nil
}

// ListOverview vista de tabla: una fila contable por registro físico.
func (uc *UseCase) ListOverview(ctx context.Context, limit, offset int, canViewCost bool) ([]dto.InventoryOverviewDTO, error) {
	records, err := uc.invRepo.ListRecords(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.InventoryOverviewDTO, 0, len(records))
	for _, rec := range records {
		sku, err := uc.skuRepo.GetByID(rec.SKUID)
		if err != nil {
			return nil, err
		}
		if sku == nil {
			// Registro huérfano: se reporta y se omite, la lista no falla.
			uc.log.Warn().Str("sku_id", rec.SKUID).Msg("registro de inventario sin SKU")
			continue
		}
		summary, err := uc.invRepo.TaggedSummary(rec.SKUID)
		if err != nil {
			return nil, err
		}
		out = append(out, *uc.buildOverview(sku, rec, summary, canViewCost))
	}
	return out, nil
}

func (uc *UseCase) buildOverview(sku *entity.SKU, rec *entity.InventoryRecord, summary map[entity.TagKind]int, canViewCost bool) *dto.InventoryOverviewDTO {
	ledger := domaininv.NewLedger(uc.log)
	ledger.Load(sku.ID, rec.TotalQuantity, summary)

	available := ledger.Available(sku.ID)
	status := domaininv.Classify(available, rec.TotalQuantity, sku.Thresholds)

	tagSummary := make(map[string]int, len(summary))
	for kind, qty := range ledger.TaggedBreakdown(sku.ID) {
		tagSummary[string(kind)] = qty
	}

	out := &dto.InventoryOverviewDTO{
		SKUID:         sku.ID,
		Code:          sku.Code,
		Name:          sku.Name,
		TotalQuantity: rec.TotalQuantity,
		Available:     available,
		TagSummary:    tagSummary,
		Status:        string(status),
		UpdatedAt:     rec.UpdatedAt,
	}
	if canViewCost {
		cost := sku.UnitCost
		total := cost.Mul(decimal.NewFromInt(int64(rec.TotalQuantity)))
		out.UnitCost = &cost
		out.TotalValue = &total
	}
	return out
}

// ApplyStockDelta ajusta la cantidad física total de un SKU bajo bloqueo de
// fila. Falla con ErrInsufficientStock si el resultado caería por debajo de lo
// ya etiquetado o de cero.
func (uc *UseCase) ApplyStockDelta(ctx context.Context, skuID string, in dto.StockDeltaRequest) error {
	if !in.Delta.IsInteger() {
		return domain.ErrInvalidQuantity
	}
	delta := int(in.Delta.IntPart())
	if delta == 0 {
		return domain.ErrNoOp
	}

	return uc.txRunner.RunInventory(ctx, func(
		invRepo repository.InventoryRepository,
		instRepo repository.InstanceRepository,
		skuRepo repository.SKURepository,
	) error {
		sku, err := skuRepo.GetByID(skuID)
		if err != nil {
			return err
		}
		if sku == nil {
			return domain.ErrNotFound
		}
		rec, err := invRepo.GetForUpdate(skuID)
		if err != nil {
			return err
		}
		summary, err := invRepo.TaggedSummary(skuID)
		if err != nil {
			return err
		}
		ledger := domaininv.NewLedger(uc.log)
		ledger.Load(skuID, rec.TotalQuantity, summary)
		if err := ledger.ApplyStockDelta(skuID, delta); err != nil {
			return err
		}
		rec.TotalQuantity = ledger.Total(skuID)
		rec.UpdatedAt = time.Now()
		return invRepo.Upsert(rec)
	})
}

// RegisterIntake registra un lote de ingreso: crea las instancias físicas con
// su fecha de adquisición y costo, y sube el total del SKU en la misma
// transacción. Da al selector fifo/cost_based material real para elegir.
func (uc *UseCase) RegisterIntake(ctx context.Context, skuID string, in dto.IntakeRequest) error {
	if !in.Quantity.IsInteger() || in.Quantity.LessThanOrEqual(decimal.Zero) {
		return domain.ErrInvalidQuantity
	}
	if in.UnitCost.IsNegative() {
		return domain.ErrInvalidInput
	}
	qty := int(in.Quantity.IntPart())
	acquiredAt := time.Now()
	if in.AcquiredAt != nil {
		acquiredAt = *in.AcquiredAt
	}

	return uc.txRunner.RunInventory(ctx, func(
		invRepo repository.InventoryRepository,
		instRepo repository.InstanceRepository,
		skuRepo repository.SKURepository,
	) error {
		sku, err := skuRepo.GetByID(skuID)
		if err != nil {
			return err
		}
		if sku == nil {
			return domain.ErrNotFound
		}
		if sku.Discontinued() {
			return domain.ErrConflict
		}
		rec, err := invRepo.GetForUpdate(skuID)
		if err != nil {
			return err
		}
		summary, err := invRepo.TaggedSummary(skuID)
		if err != nil {
			return err
		}
		ledger := domaininv.NewLedger(uc.log)
		ledger.Load(skuID, rec.TotalQuantity, summary)
		if err := ledger.ApplyStockDelta(skuID, qty); err != nil {
			return err
		}

		// El costo de referencia del SKU sigue el promedio ponderado del stock
		// previo y el lote entrante.
		newCost := domaininv.WeightedAverageCost(
			decimal.NewFromInt(int64(rec.TotalQuantity)), sku.UnitCost,
			in.Quantity, in.UnitCost,
		)
		if !newCost.Equal(sku.UnitCost) {
			sku.UnitCost = newCost
			sku.UpdatedAt = time.Now()
			if err := skuRepo.Update(sku); err != nil {
				return err
			}
		}

		rec.TotalQuantity = ledger.Total(skuID)
		rec.UpdatedAt = time.Now()
		if err := invRepo.Upsert(rec); err != nil {
			return err
		}

		now := time.Now()
		instances := make([]entity.Instance, qty)
		for i := range instances {
			instances[i] = entity.Instance{
				ID:         uuid.New().String(),
				SKUID:      skuID,
				BatchCode:  in.BatchCode,
				AcquiredAt: acquiredAt,
				UnitCost:   in.UnitCost,
				Status:     entity.InstanceStatusAvailable,
				CreatedAt:  now,
			}
		}
		return instRepo.CreateBatch(instances)
	})
}
