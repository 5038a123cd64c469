package inventory_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Etiquetas-api/internal/application/dto"
	"github.com/jhoicas/Etiquetas-api/internal/application/inventory"
	"github.com/jhoicas/Etiquetas-api/internal/domain"
	"github.com/jhoicas/Etiquetas-api/internal/domain/entity"
	"github.com/jhoicas/Etiquetas-api/internal/domain/repository"
)

// fakeState estado compartido de los fakes de este paquete.
type fakeState struct {
	skus      map[string]*entity.SKU
	records   map[string]*entity.InventoryRecord
	tagged    map[string]map[entity.TagKind]int
	instances []entity.Instance
}

func newFakeState() *fakeState {
	return &fakeState{
		skus:    make(map[string]*entity.SKU),
		records: make(map[string]*entity.InventoryRecord),
		tagged:  make(map[string]map[entity.TagKind]int),
	}
}

type fakeSKUs struct{ s *fakeState }

func (r *fakeSKUs) Create(sku *entity.SKU) error { r.s.skus[sku.ID] = sku; return nil }
func (r *fakeSKUs) GetByID(id string) (*entity.SKU, error) {
	sku, ok := r.s.skus[id]
	if !ok {
		return nil, nil
	}
	cp := *sku
	return &cp, nil
}
func (r *fakeSKUs) GetByCode(string) (*entity.SKU, error) { return nil, nil }
func (r *fakeSKUs) Update(sku *entity.SKU) error          { r.s.skus[sku.ID] = sku; return nil }
func (r *fakeSKUs) UpdateStatus(id, status string) error {
	sku, ok := r.s.skus[id]
	if !ok {
		return domain.ErrNotFound
	}
	sku.Status = status
	return nil
}
func (r *fakeSKUs) List(int, int) ([]*entity.SKU, error) { return nil, nil }

type fakeInventory struct{ s *fakeState }

func (r *fakeInventory) Get(skuID string) (*entity.InventoryRecord, error) {
	rec, ok := r.s.records[skuID]
	if !ok {
		return &entity.InventoryRecord{SKUID: skuID}, nil
	}
	cp := *rec
	return &cp, nil
}
func (r *fakeInventory) GetForUpdate(skuID string) (*entity.InventoryRecord, error) {
	if _, ok := r.s.records[skuID]; !ok {
		r.s.records[skuID] = &entity.InventoryRecord{SKUID: skuID}
	}
	cp := *r.s.records[skuID]
	return &cp, nil
}
func (r *fakeInventory) Upsert(rec *entity.InventoryRecord) error {
	cp := *rec
	r.s.records[rec.SKUID] = &cp
	return nil
}
func (r *fakeInventory) TaggedSummary(skuID string) (map[entity.TagKind]int, error) {
	out := make(map[entity.TagKind]int, len(r.s.tagged[skuID]))
	for kind, qty := range r.s.tagged[skuID] {
		out[kind] = qty
	}
	return out, nil
}
func (r *fakeInventory) ListRecords(int, int) ([]*entity.InventoryRecord, error) {
	var out []*entity.InventoryRecord
	for _, rec := range r.s.records {
		cp := *rec
		out = append(out, &cp)
	}
	return out, nil
}

type fakeInstances struct{ s *fakeState }

func (r *fakeInstances) CreateBatch(instances []entity.Instance) error {
	r.s.instances = append(r.s.instances, instances...)
	return nil
}
func (r *fakeInstances) ListAvailable(string) ([]entity.Instance, error)          { return nil, nil }
func (r *fakeInstances) ListAvailableForUpdate(string) ([]entity.Instance, error) { return nil, nil }
func (r *fakeInstances) ListByLineItem(string) ([]entity.Instance, error)         { return nil, nil }
func (r *fakeInstances) MarkTagged([]string, string) error                        { return nil }
func (r *fakeInstances) MarkAvailable([]string) error                             { return nil }

type fakeRunner struct{ s *fakeState }

func (r *fakeRunner) RunInventory(ctx context.Context, fn func(
	invRepo repository.InventoryRepository,
	instRepo repository.InstanceRepository,
	skuRepo repository.SKURepository,
) error) error {
	return fn(&fakeInventory{r.s}, &fakeInstances{r.s}, &fakeSKUs{r.s})
}

func newTestUseCase(s *fakeState) *inventory.UseCase {
	return inventory.NewUseCase(&fakeRunner{s}, &fakeInventory{s}, &fakeSKUs{s}, zerolog.Nop())
}

func seedSKU(s *fakeState, id string, total int) {
	s.skus[id] = &entity.SKU{
		ID: id, Code: "C-" + id, Name: id,
		Status:     entity.SKUStatusActive,
		UnitCost:   decimal.NewFromInt(100),
		Thresholds: entity.StockThresholds{Understocked: 5, Overstocked: 100},
	}
	s.records[id] = &entity.InventoryRecord{SKUID: id, TotalQuantity: total}
}

func TestOverview_DerivaDisponibleYEstado(t *testing.T) {
	s := newFakeState()
	seedSKU(s, "sku-1", 20)
	s.tagged["sku-1"] = map[entity.TagKind]int{
		entity.TagKindReserved: 12,
		entity.TagKindStock:    4, // neutral: no descuenta
	}
	uc := newTestUseCase(s)

	out, err := uc.Overview(context.Background(), "sku-1", false)
	require.NoError(t, err)
	assert.Equal(t, 20, out.TotalQuantity)
	assert.Equal(t, 8, out.Available, "disponible = total - clases que descuentan")
	assert.Equal(t, "adequate", out.Status)
	assert.Equal(t, 12, out.TagSummary["reserved"])
	assert.Equal(t, 4, out.TagSummary["stock"])
	assert.Nil(t, out.UnitCost, "sin permiso de costos no se exponen montos")
	assert.Nil(t, out.TotalValue)
}

func TestOverview_ConPermisoDeCostos(t *testing.T) {
	s := newFakeState()
	seedSKU(s, "sku-1", 3)
	uc := newTestUseCase(s)

	out, err := uc.Overview(context.Background(), "sku-1", true)
	require.NoError(t, err)
	require.NotNil(t, out.UnitCost)
	require.NotNil(t, out.TotalValue)
	assert.True(t, out.UnitCost.Equal(decimal.NewFromInt(100)))
	assert.True(t, out.TotalValue.Equal(decimal.NewFromInt(300)), "valor = total * costo unitario")
}

func TestOverview_SKUInexistente(t *testing.T) {
	uc := newTestUseCase(newFakeState())
	_, err := uc.Overview(context.Background(), "no-existe", false)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApplyStockDelta_AjustaElTotal(t *testing.T) {
	s := newFakeState()
	seedSKU(s, "sku-1", 10)
	uc := newTestUseCase(s)

	err := uc.ApplyStockDelta(context.Background(), "sku-1", dto.StockDeltaRequest{
		Delta: decimal.NewFromInt(-3),
	})
	require.NoError(t, err)
	assert.Equal(t, 7, s.records["sku-1"].TotalQuantity)
}

func TestApplyStockDelta_NoBajaDeLoEtiquetado(t *testing.T) {
	s := newFakeState()
	seedSKU(s, "sku-1", 10)
	s.tagged["sku-1"] = map[entity.TagKind]int{entity.TagKindReserved: 8}
	uc := newTestUseCase(s)

	err := uc.ApplyStockDelta(context.Background(), "sku-1", dto.StockDeltaRequest{
		Delta: decimal.NewFromInt(-3),
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock,
		"el total nunca cae por debajo de lo reclamado")
	assert.Equal(t, 10, s.records["sku-1"].TotalQuantity, "nada se aplica parcialmente")
}

func TestApplyStockDelta_EntradasInvalidas(t *testing.T) {
	s := newFakeState()
	seedSKU(s, "sku-1", 10)
	uc := newTestUseCase(s)
	ctx := context.Background()

	err := uc.ApplyStockDelta(ctx, "sku-1", dto.StockDeltaRequest{Delta: decimal.NewFromFloat(1.5)})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	err = uc.ApplyStockDelta(ctx, "sku-1", dto.StockDeltaRequest{Delta: decimal.Zero})
	assert.ErrorIs(t, err, domain.ErrNoOp)

	err = uc.ApplyStockDelta(ctx, "no-existe", dto.StockDeltaRequest{Delta: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRegisterIntake_CreaInstanciasYPromediaCosto(t *testing.T) {
	s := newFakeState()
	seedSKU(s, "sku-1", 10) // 10 unidades a $100
	uc := newTestUseCase(s)

	err := uc.RegisterIntake(context.Background(), "sku-1", dto.IntakeRequest{
		Quantity:  decimal.NewFromInt(10),
		BatchCode: "L-042",
		UnitCost:  decimal.NewFromInt(200),
	})
	require.NoError(t, err)

	assert.Equal(t, 20, s.records["sku-1"].TotalQuantity)
	require.Len(t, s.instances, 10)
	assert.Equal(t, "L-042", s.instances[0].BatchCode)
	assert.Equal(t, entity.InstanceStatusAvailable, s.instances[0].Status)
	assert.True(t, s.instances[0].UnitCost.Equal(decimal.NewFromInt(200)))

	// 10@100 + 10@200 => promedio ponderado 150.
	assert.True(t, s.skus["sku-1"].UnitCost.Equal(decimal.NewFromInt(150)),
		"el costo de referencia sigue el promedio ponderado")
}

func TestRegisterIntake_SKUDescontinuado(t *testing.T) {
	s := newFakeState()
	seedSKU(s, "sku-1", 10)
	s.skus["sku-1"].Status = entity.SKUStatusDiscontinued
	uc := newTestUseCase(s)

	err := uc.RegisterIntake(context.Background(), "sku-1", dto.IntakeRequest{
		Quantity: decimal.NewFromInt(1),
		UnitCost: decimal.NewFromInt(10),
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Empty(t, s.instances)
}

func TestRegisterIntake_EntradasInvalidas(t *testing.T) {
	s := newFakeState()
	seedSKU(s, "sku-1", 10)
	uc := newTestUseCase(s)
	ctx := context.Background()

	err := uc.RegisterIntake(ctx, "sku-1", dto.IntakeRequest{
		Quantity: decimal.NewFromFloat(2.5), UnitCost: decimal.NewFromInt(10),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	err = uc.RegisterIntake(ctx, "sku-1", dto.IntakeRequest{
		Quantity: decimal.NewFromInt(1), UnitCost: decimal.NewFromInt(-5),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAvailable_LecturaSimple(t *testing.T) {
	s := newFakeState()
	seedSKU(s, "sku-1", 15)
	s.tagged["sku-1"] = map[entity.TagKind]int{entity.TagKindLoaned: 6}
	uc := newTestUseCase(s)

	available, err := uc.Available(context.Background(), "sku-1")
	require.NoError(t, err)
	assert.Equal(t, 9, available)
}
