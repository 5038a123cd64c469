package tags

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Etiquetas-api/internal/application/dto"
	"github.com/jhoicas/Etiquetas-api/internal/domain"
	"github.com/jhoicas/Etiquetas-api/internal/domain/allocation"
	"github.com/jhoicas/Etiquetas-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Etiquetas-api/internal/domain/inventory"
	domaintags "github.com/jhoicas/Etiquetas-api/internal/domain/tags"
	"github.com/jhoicas/Etiquetas-api/internal/domain/repository"
)

// UseCase mutaciones de etiquetas de forma transaccional (crear, ajustar,
// agregar, retirar) con bloqueo de fila por SKU (SELECT FOR UPDATE) y
// Commit/Rollback. Toda mutación pasa por el validador de dominio y el ledger
// antes de persistir; nada se aplica parcialmente.
type UseCase struct {
	txRunner TxRunner
	tagRepo  repository.TagRepository // lecturas fuera de transacción
	log      zerolog.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner TxRunner, tagRepo repository.TagRepository, log zerolog.Logger) *UseCase {
	return &UseCase{txRunner: txRunner, tagRepo: tagRepo, log: log}
}

// toUnits convierte una cantidad decimal del borde HTTP a unidades enteras.
// No-enteros y negativos se rechazan aquí; el dominio trabaja en ints.
func toUnits(d decimal.Decimal) (int, error) {
	if !d.IsInteger() || d.IsNegative() {
		return 0, domain.ErrInvalidQuantity
	}
	return int(d.IntPart()), nil
}

// lineItemSKUs devuelve los SKUs distintos de un conjunto de líneas, ordenados.
// Bloquear en orden estable evita deadlocks entre mutaciones concurrentes.
func lineItemSKUs(items []entity.TagLineItem) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if !seen[item.SKUID] {
			seen[item.SKUID] = true
			out = append(out, item.SKUID)
		}
	}
	sort.Strings(out)
	return out
}

// loadLedger bloquea las filas de inventario de los SKUs dados y construye el
// ledger con el estado ya protegido por la transacción.
func (uc *UseCase) loadLedger(invRepo repository.InventoryRepository, skuIDs []string) (*domaininv.Ledger, map[string]*entity.InventoryRecord, error) {
	ledger := domaininv.NewLedger(uc.log)
	records := make(map[string]*entity.InventoryRecord, len(skuIDs))
	for _, skuID := range skuIDs {
		rec, err := invRepo.GetForUpdate(skuID)
		if err != nil {
			return nil, nil, err
		}
		summary, err := invRepo.TaggedSummary(skuID)
		if err != nil {
			return nil, nil, err
		}
		ledger.Load(skuID, rec.TotalQuantity, summary)
		records[skuID] = rec
	}
	return ledger, records, nil
}

// resolvedLine una línea candidata ya convertida y validada en el borde.
type resolvedLine struct {
	skuID     string
	quantity  int
	method    string
	manualIDs []string
	objective allocation.CostObjective
}

// resolveLines convierte las líneas del request a unidades enteras y normaliza
// el método de selección (default fifo).
func resolveLines(items []dto.TagLineItemRequest) ([]resolvedLine, error) {
	out := make([]resolvedLine, 0, len(items))
	for _, item := range items {
		qty, err := toUnits(item.Quantity)
		if err != nil {
			return nil, err
		}
		if qty == 0 || item.SKUID == "" {
			return nil, domain.ErrInvalidQuantity
		}
		method := item.SelectionMethod
		if method == "" {
			method = entity.SelectionFIFO
		}
		objective := allocation.MinimizeCost
		if item.MaximizeCost {
			objective = allocation.MaximizeCost
		}
		out = append(out, resolvedLine{
			skuID:     item.SKUID,
			quantity:  qty,
			method:    method,
			manualIDs: item.ManualIDs,
			objective: objective,
		})
	}
	return out, nil
}

// CreateTag crea una etiqueta con sus líneas. Dentro de la transacción bloquea
// cada SKU involucrado, valida disponibilidad (todo-o-nada), asigna instancias
// físicas según la política de cada línea y persiste.
func (uc *UseCase) CreateTag(ctx context.Context, userID string, in dto.CreateTagRequest) (*dto.TagResponse, error) {
	kind := entity.TagKind(in.Kind)
	if !entity.ValidTagKind(kind) || strings.TrimSpace(in.Attribution) == "" {
		return nil, domain.ErrInvalidInput
	}
	lines, err := resolveLines(in.LineItems)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, domain.ErrNoOp
	}

	now := time.Now()
	tag := &entity.Tag{
		ID:          uuid.New().String(),
		Kind:        kind,
		Attribution: strings.TrimSpace(in.Attribution),
		DueDate:     in.DueDate,
		Notes:       in.Notes,
		CreatedBy:   userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = uc.txRunner.Run(ctx, func(
		tagRepo repository.TagRepository,
		invRepo repository.InventoryRepository,
		instRepo repository.InstanceRepository,
		skuRepo repository.SKURepository,
	) error {
		items, err := uc.buildLineItems(tag.ID, kind, lines, now, invRepo, instRepo, skuRepo)
		if err != nil {
			return err
		}
		tag.LineItems = items
		if err := tagRepo.Create(tag); err != nil {
			return err
		}
		return markAllocations(instRepo, items)
	})
	if err != nil {
		return nil, err
	}
	return toTagResponse(tag), nil
}

// AddItems agrega líneas nuevas a una etiqueta existente. El lote es
// todo-o-nada por llamada: el primer SKU sin disponibilidad rechaza todo.
func (uc *UseCase) AddItems(ctx context.Context, tagID string, in dto.AddTagItemsRequest) (*dto.TagResponse, error) {
	lines, err := resolveLines(in.LineItems)
	if err != nil {
		return nil, err
	}

	var tag *entity.Tag
	err = uc.txRunner.Run(ctx, func(
		tagRepo repository.TagRepository,
		invRepo repository.InventoryRepository,
		instRepo repository.InstanceRepository,
		skuRepo repository.SKURepository,
	) error {
		var err error
		tag, err = tagRepo.GetByIDForUpdate(tagID)
		if err != nil {
			return err
		}
		if tag == nil {
			return domain.ErrNotFound
		}
		now := time.Now()
		items, err := uc.buildLineItems(tag.ID, tag.Kind, lines, now, invRepo, instRepo, skuRepo)
		if err != nil {
			return err
		}
		if err := tagRepo.AddLineItems(tag.ID, items); err != nil {
			return err
		}
		if err := markAllocations(instRepo, items); err != nil {
			return err
		}
		tag.LineItems = append(tag.LineItems, items...)
		tag.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toTagResponse(tag), nil
}

// buildLineItems valida el lote contra el ledger y asigna instancias. Comparte
// la ruta de CreateTag y AddItems; corre dentro de la transacción del caller.
func (uc *UseCase) buildLineItems(
	tagID string,
	kind entity.TagKind,
	lines []resolvedLine,
	now time.Time,
	invRepo repository.InventoryRepository,
	instRepo repository.InstanceRepository,
	skuRepo repository.SKURepository,
) ([]entity.TagLineItem, error) {
	skuIDs := make([]string, 0, len(lines))
	seen := make(map[string]bool, len(lines))
	for _, line := range lines {
		if !seen[line.skuID] {
			seen[line.skuID] = true
			skuIDs = append(skuIDs, line.skuID)
		}
	}
	sort.Strings(skuIDs)

	for _, skuID := range skuIDs {
		sku, err := skuRepo.GetByID(skuID)
		if err != nil {
			return nil, err
		}
		if sku == nil {
			return nil, domain.ErrNotFound
		}
		if sku.Discontinued() {
			return nil, domain.ErrConflict
		}
	}

	ledger, _, err := uc.loadLedger(invRepo, skuIDs)
	if err != nil {
		return nil, err
	}

	candidates := make([]domaintags.AddCandidate, len(lines))
	for i, line := range lines {
		candidates[i] = domaintags.AddCandidate{
			SKUID:           line.skuID,
			Quantity:        line.quantity,
			SelectionMethod: line.method,
			ManualIDs:       line.manualIDs,
		}
	}
	if err := domaintags.ValidateAdd(candidates, kind.Claims(), ledger.Available); err != nil {
		return nil, err
	}

	// Pool de instancias por SKU, bloqueado; líneas del mismo SKU compiten por
	// el mismo pool dentro de esta llamada.
	pools := make(map[string][]entity.Instance, len(skuIDs))
	for _, skuID := range skuIDs {
		instances, err := instRepo.ListAvailableForUpdate(skuID)
		if err != nil {
			return nil, err
		}
		pools[skuID] = instances
	}

	items := make([]entity.TagLineItem, 0, len(lines))
	for _, line := range lines {
		var instanceIDs []string
		pool := pools[line.skuID]
		// SKUs sin instancias rastreadas no asignan nada (la contabilidad es
		// solo por cantidades); manual sí exige instancias reales.
		if len(pool) > 0 || (line.method == entity.SelectionManual && len(line.manualIDs) > 0) {
			instanceIDs, err = allocation.Select(allocation.Request{
				SKUID:     line.skuID,
				Method:    line.method,
				Quantity:  line.quantity,
				Objective: line.objective,
				ManualIDs: line.manualIDs,
			}, pool)
			if err != nil {
				return nil, err
			}
			pools[line.skuID] = removeFromPool(pool, instanceIDs)
		}
		if err := ledger.Claim(line.skuID, kind, line.quantity); err != nil {
			return nil, err
		}
		items = append(items, entity.TagLineItem{
			ID:                uuid.New().String(),
			TagID:             tagID,
			SKUID:             line.skuID,
			Quantity:          line.quantity,
			RemainingQuantity: line.quantity,
			SelectionMethod:   line.method,
			InstanceIDs:       instanceIDs,
			CreatedAt:         now,
			UpdatedAt:         now,
		})
	}
	return items, nil
}

// AdjustQuantities fija nuevas cantidades restantes para líneas existentes.
// Devuelve solo el subconjunto cambiado. Subir el restante reclama unidades
// adicionales y por lo tanto revalida disponibilidad; bajarlo libera. Una
// línea ajustada a cero se elimina junto con sus instancias.
func (uc *UseCase) AdjustQuantities(ctx context.Context, tagID string, in dto.AdjustTagItemsRequest) ([]dto.AdjustedLineDTO, error) {
	proposed := make(map[string]int, len(in.Changes))
	for lineID, qty := range in.Changes {
		units, err := toUnits(qty)
		if err != nil {
			return nil, err
		}
		proposed[lineID] = units
	}

	var out []dto.AdjustedLineDTO
	err := uc.txRunner.Run(ctx, func(
		tagRepo repository.TagRepository,
		invRepo repository.InventoryRepository,
		instRepo repository.InstanceRepository,
		skuRepo repository.SKURepository,
	) error {
		tag, err := tagRepo.GetByIDForUpdate(tagID)
		if err != nil {
			return err
		}
		if tag == nil {
			return domain.ErrNotFound
		}

		changes, err := domaintags.ValidateAdjust(tag.LineItems, proposed)
		if err != nil {
			return err
		}

		ledger, _, err := uc.loadLedger(invRepo, lineItemSKUs(tag.LineItems))
		if err != nil {
			return err
		}

		byID := make(map[string]*entity.TagLineItem, len(tag.LineItems))
		for i := range tag.LineItems {
			byID[tag.LineItems[i].ID] = &tag.LineItems[i]
		}

		for _, change := range changes {
			line := byID[change.LineItemID]
			delta := change.Delta()
			if delta > 0 {
				if err := ledger.Claim(line.SKUID, tag.Kind, delta); err != nil {
					return err
				}
				if err := uc.growLine(line, delta, instRepo); err != nil {
					return err
				}
			} else {
				ledger.Release(line.SKUID, tag.Kind, -delta)
				if err := uc.shrinkLine(line, -delta, instRepo); err != nil {
					return err
				}
			}
			if change.To == 0 {
				if err := tagRepo.DeleteLineItem(line.ID); err != nil {
					return err
				}
			} else if err := tagRepo.UpdateLineItemRemaining(line.ID, change.To); err != nil {
				return err
			}
			line.RemainingQuantity = change.To
			out = append(out, dto.AdjustedLineDTO{LineItemID: change.LineItemID, From: change.From, To: change.To})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RemoveItems retira unidades de líneas existentes (lineItemID -> unidades).
// Una línea cuyo restante llega a cero se elimina.
func (uc *UseCase) RemoveItems(ctx context.Context, tagID string, in dto.RemoveTagItemsRequest) error {
	removals := make(map[string]int, len(in.Removals))
	for lineID, qty := range in.Removals {
		units, err := toUnits(qty)
		if err != nil {
			return err
		}
		removals[lineID] = units
	}

	return uc.txRunner.Run(ctx, func(
		tagRepo repository.TagRepository,
		invRepo repository.InventoryRepository,
		instRepo repository.InstanceRepository,
		skuRepo repository.SKURepository,
	) error {
		tag, err := tagRepo.GetByIDForUpdate(tagID)
		if err != nil {
			return err
		}
		if tag == nil {
			return domain.ErrNotFound
		}

		accepted, err := domaintags.ValidateRemove(tag.LineItems, removals)
		if err != nil {
			return err
		}

		// Bloquear inventario igual que las demás mutaciones, aunque liberar
		// nunca viola conservación: la serialización por SKU es el contrato.
		ledger, _, err := uc.loadLedger(invRepo, lineItemSKUs(tag.LineItems))
		if err != nil {
			return err
		}

		byID := make(map[string]*entity.TagLineItem, len(tag.LineItems))
		for i := range tag.LineItems {
			byID[tag.LineItems[i].ID] = &tag.LineItems[i]
		}

		for _, removal := range accepted {
			line := byID[removal.LineItemID]
			ledger.Release(line.SKUID, tag.Kind, removal.Quantity)
			if err := uc.shrinkLine(line, removal.Quantity, instRepo); err != nil {
				return err
			}
			if removal.Delete {
				if err := tagRepo.DeleteLineItem(line.ID); err != nil {
					return err
				}
			} else if err := tagRepo.UpdateLineItemRemaining(line.ID, removal.NewRemaining); err != nil {
				return err
			}
			line.RemainingQuantity = removal.NewRemaining
		}
		return nil
	})
}

// DeleteTag elimina la etiqueta completa liberando todas sus instancias.
func (uc *UseCase) DeleteTag(ctx context.Context, tagID string) error {
	return uc.txRunner.Run(ctx, func(
		tagRepo repository.TagRepository,
		invRepo repository.InventoryRepository,
		instRepo repository.InstanceRepository,
		skuRepo repository.SKURepository,
	) error {
		tag, err := tagRepo.GetByIDForUpdate(tagID)
		if err != nil {
			return err
		}
		if tag == nil {
			return domain.ErrNotFound
		}
		for i := range tag.LineItems {
			line := &tag.LineItems[i]
			if err := uc.shrinkLine(line, len(line.InstanceIDs), instRepo); err != nil {
				return err
			}
		}
		return tagRepo.Delete(tagID)
	})
}

// growLine asigna delta instancias adicionales a una línea usando su propia
// política. Las líneas manuales no crecen por ajuste: la selección explícita
// del usuario no es re-derivable.
func (uc *UseCase) growLine(line *entity.TagLineItem, delta int, instRepo repository.InstanceRepository) error {
	if len(line.InstanceIDs) == 0 {
		return nil // SKU sin instancias rastreadas
	}
	if line.SelectionMethod == entity.SelectionManual {
		return domain.ErrInvalidInput
	}
	pool, err := instRepo.ListAvailableForUpdate(line.SKUID)
	if err != nil {
		return err
	}
	ids, err := allocation.Select(allocation.Request{
		SKUID:    line.SKUID,
		Method:   line.SelectionMethod,
		Quantity: delta,
	}, pool)
	if err != nil {
		return err
	}
	if err := instRepo.MarkTagged(ids, line.ID); err != nil {
		return err
	}
	line.InstanceIDs = append(line.InstanceIDs, ids...)
	return nil
}

// shrinkLine libera delta instancias de una línea. Se liberan las de
// adquisición más reciente, conservando las selecciones FIFO más antiguas.
func (uc *UseCase) shrinkLine(line *entity.TagLineItem, delta int, instRepo repository.InstanceRepository) error {
	if delta <= 0 || len(line.InstanceIDs) == 0 {
		return nil
	}
	bound, err := instRepo.ListByLineItem(line.ID)
	if err != nil {
		return err
	}
	if delta > len(bound) {
		delta = len(bound)
	}
	// ListByLineItem viene en orden (acquired_at, id) ascendente: la cola son
	// las más recientes.
	release := make([]string, 0, delta)
	for _, inst := range bound[len(bound)-delta:] {
		release = append(release, inst.ID)
	}
	if err := instRepo.MarkAvailable(release); err != nil {
		return err
	}
	keep := make([]string, 0, len(line.InstanceIDs))
	released := make(map[string]bool, len(release))
	for _, id := range release {
		released[id] = true
	}
	for _, id := range line.InstanceIDs {
		if !released[id] {
			keep = append(keep, id)
		}
	}
	line.InstanceIDs = keep
	return nil
}

// markAllocations persiste la asignación de instancias de líneas recién creadas.
func markAllocations(instRepo repository.InstanceRepository, items []entity.TagLineItem) error {
	for _, item := range items {
		if len(item.InstanceIDs) == 0 {
			continue
		}
		if err := instRepo.MarkTagged(item.InstanceIDs, item.ID); err != nil {
			return err
		}
	}
	return nil
}

// removeFromPool filtra del pool las instancias ya elegidas por una línea previa.
func removeFromPool(pool []entity.Instance, chosen []string) []entity.Instance {
	chosenSet := make(map[string]bool, len(chosen))
	for _, id := range chosen {
		chosenSet[id] = true
	}
	out := pool[:0]
	for _, inst := range pool {
		if !chosenSet[inst.ID] {
			out = append(out, inst)
		}
	}
	return out
}

// GetTag lectura simple de una etiqueta.
func (uc *UseCase) GetTag(ctx context.Context, tagID string) (*dto.TagResponse, error) {
	tag, err := uc.tagRepo.GetByID(tagID)
	if err != nil {
		return nil, err
	}
	if tag == nil {
		return nil, domain.ErrNotFound
	}
	return toTagResponse(tag), nil
}

// ListTags lista etiquetas con paginación.
func (uc *UseCase) ListTags(ctx context.Context, limit, offset int) ([]dto.TagResponse, error) {
	list, err := uc.tagRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TagResponse, 0, len(list))
	for _, tag := range list {
		out = append(out, *toTagResponse(tag))
	}
	return out, nil
}

func toTagResponse(tag *entity.Tag) *dto.TagResponse {
	items := make([]dto.TagLineItemResponse, 0, len(tag.LineItems))
	for _, item := range tag.LineItems {
		items = append(items, dto.TagLineItemResponse{
			ID:                item.ID,
			SKUID:             item.SKUID,
			Quantity:          item.Quantity,
			RemainingQuantity: item.RemainingQuantity,
			SelectionMethod:   item.SelectionMethod,
			InstanceIDs:       item.InstanceIDs,
		})
	}
	return &dto.TagResponse{
		ID:          tag.ID,
		Kind:        string(tag.Kind),
		Attribution: tag.Attribution,
		DueDate:     tag.DueDate,
		Notes:       tag.Notes,
		LineItems:   items,
		CreatedBy:   tag.CreatedBy,
		CreatedAt:   tag.CreatedAt,
		UpdatedAt:   tag.UpdatedAt,
	}
}
