package tags_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Etiquetas-api/internal/application/dto"
	"github.com/jhoicas/Etiquetas-api/internal/application/tags"
	"github.com/jhoicas/Etiquetas-api/internal/domain"
)

// fakeAvailability disponibilidad vigente por SKU.
type fakeAvailability map[string]int

func (f fakeAvailability) Available(_ context.Context, skuID string) (int, error) {
	return f[skuID], nil
}

// fakeCreator registra el request entregado por Submit.
type fakeCreator struct {
	got    dto.CreateTagRequest
	gotUID string
	err    error
}

func (f *fakeCreator) CreateTag(_ context.Context, userID string, in dto.CreateTagRequest) (*dto.TagResponse, error) {
	f.got = in
	f.gotUID = userID
	if f.err != nil {
		return nil, f.err
	}
	return &dto.TagResponse{ID: "tag-1", Kind: in.Kind, Attribution: in.Attribution}, nil
}

func detalles(kind, attribution string) dto.CreateTagRequest {
	return dto.CreateTagRequest{Kind: kind, Attribution: attribution}
}

func seleccion(skuID string, qty int64) []dto.TagLineItemRequest {
	return []dto.TagLineItemRequest{{SKUID: skuID, Quantity: decimal.NewFromInt(qty)}}
}

// avanzaHastaSeleccion deja el flujo en SelectItems con detalles válidos.
func avanzaHastaSeleccion(t *testing.T, w *tags.Workflow, kind string) {
	t.Helper()
	require.NoError(t, w.SetDetails(detalles(kind, "Cliente Norte")))
	require.NoError(t, w.Next(context.Background()))
	require.Equal(t, tags.StepSelectItems, w.Step())
}

func TestWorkflow_IniciaEnDetalles(t *testing.T) {
	w := tags.NewWorkflow(fakeAvailability{}, &fakeCreator{}, "user-1")
	assert.Equal(t, tags.StepDetails, w.Step())
	assert.Equal(t, "details", w.Step().String())
}

func TestWorkflow_CompuertaDetalles(t *testing.T) {
	ctx := context.Background()

	w := tags.NewWorkflow(fakeAvailability{}, &fakeCreator{}, "user-1")
	require.NoError(t, w.SetDetails(detalles("reserved", "   ")))
	assert.ErrorIs(t, w.Next(ctx), domain.ErrInvalidInput, "atribución en blanco no pasa")

	require.NoError(t, w.SetDetails(detalles("prestado", "Cliente")))
	assert.ErrorIs(t, w.Next(ctx), domain.ErrInvalidInput, "clase desconocida no pasa")

	require.NoError(t, w.SetDetails(detalles("reserved", "Cliente")))
	require.NoError(t, w.Next(ctx))
	assert.Equal(t, tags.StepSelectItems, w.Step())
}

func TestWorkflow_SetFueraDePaso_Conflicto(t *testing.T) {
	w := tags.NewWorkflow(fakeAvailability{}, &fakeCreator{}, "user-1")

	// SetSelection en Details no corresponde.
	assert.ErrorIs(t, w.SetSelection(seleccion("sku-1", 1)), domain.ErrConflict)

	avanzaHastaSeleccion(t, w, "reserved")

	// SetDetails en SelectItems tampoco.
	assert.ErrorIs(t, w.SetDetails(detalles("broken", "Otro")), domain.ErrConflict)
}

func TestWorkflow_CompuertaSeleccion(t *testing.T) {
	ctx := context.Background()
	avail := fakeAvailability{"sku-1": 5}

	w := tags.NewWorkflow(avail, &fakeCreator{}, "user-1")
	avanzaHastaSeleccion(t, w, "reserved")

	// Sin líneas no hay nada que revisar.
	assert.ErrorIs(t, w.Next(ctx), domain.ErrNoOp)

	// Cantidad no entera.
	require.NoError(t, w.SetSelection([]dto.TagLineItemRequest{
		{SKUID: "sku-1", Quantity: decimal.NewFromFloat(2.5)},
	}))
	assert.ErrorIs(t, w.Next(ctx), domain.ErrInvalidQuantity)

	// Cantidad cero.
	require.NoError(t, w.SetSelection(seleccion("sku-1", 0)))
	assert.ErrorIs(t, w.Next(ctx), domain.ErrInvalidQuantity)

	// Excede disponibilidad.
	require.NoError(t, w.SetSelection(seleccion("sku-1", 6)))
	var availErr *domain.InsufficientAvailabilityError
	require.ErrorAs(t, w.Next(ctx), &availErr)
	assert.Equal(t, "sku-1", availErr.SKUID)
	assert.Equal(t, 6, availErr.Requested)
	assert.Equal(t, 5, availErr.Available)
	assert.Equal(t, tags.StepSelectItems, w.Step(), "la compuerta fallida no avanza")

	// Dentro de disponibilidad.
	require.NoError(t, w.SetSelection(seleccion("sku-1", 5)))
	require.NoError(t, w.Next(ctx))
	assert.Equal(t, tags.StepReview, w.Step())
}

func TestWorkflow_SeleccionAcumulaPorSKU(t *testing.T) {
	ctx := context.Background()
	w := tags.NewWorkflow(fakeAvailability{"sku-1": 5}, &fakeCreator{}, "user-1")
	avanzaHastaSeleccion(t, w, "reserved")

	// 3 + 3 del mismo SKU compiten por las mismas 5 unidades.
	require.NoError(t, w.SetSelection([]dto.TagLineItemRequest{
		{SKUID: "sku-1", Quantity: decimal.NewFromInt(3)},
		{SKUID: "sku-1", Quantity: decimal.NewFromInt(3)},
	}))
	assert.ErrorIs(t, w.Next(ctx), domain.ErrInsufficientAvailability)
}

func TestWorkflow_ClaseStockOmiteDisponibilidad(t *testing.T) {
	ctx := context.Background()
	w := tags.NewWorkflow(fakeAvailability{"sku-1": 0}, &fakeCreator{}, "user-1")
	avanzaHastaSeleccion(t, w, "stock")

	require.NoError(t, w.SetSelection(seleccion("sku-1", 10)))
	assert.NoError(t, w.Next(ctx), "una clase neutral no valida contra disponibilidad")
	assert.Equal(t, tags.StepReview, w.Step())
}

func TestWorkflow_BackConservaDatos(t *testing.T) {
	ctx := context.Background()
	w := tags.NewWorkflow(fakeAvailability{"sku-1": 5}, &fakeCreator{}, "user-1")
	avanzaHastaSeleccion(t, w, "reserved")
	require.NoError(t, w.SetSelection(seleccion("sku-1", 3)))
	require.NoError(t, w.Next(ctx))
	require.Equal(t, tags.StepReview, w.Step())

	// Atrás dos veces y adelante dos veces sin recapturar nada.
	require.NoError(t, w.Back())
	assert.Equal(t, tags.StepSelectItems, w.Step())
	require.NoError(t, w.Back())
	assert.Equal(t, tags.StepDetails, w.Step())

	require.NoError(t, w.Next(ctx), "los detalles capturados siguen ahí")
	require.NoError(t, w.Next(ctx), "la selección capturada sigue ahí")
	assert.Equal(t, tags.StepReview, w.Step())
}

func TestWorkflow_BackEnDetalles_Conflicto(t *testing.T) {
	w := tags.NewWorkflow(fakeAvailability{}, &fakeCreator{}, "user-1")
	assert.ErrorIs(t, w.Back(), domain.ErrConflict)
}

func TestWorkflow_SubmitSoloEnRevision(t *testing.T) {
	ctx := context.Background()
	w := tags.NewWorkflow(fakeAvailability{"sku-1": 5}, &fakeCreator{}, "user-1")

	_, err := w.Submit(ctx)
	assert.ErrorIs(t, err, domain.ErrConflict, "submit en Details")

	avanzaHastaSeleccion(t, w, "reserved")
	_, err = w.Submit(ctx)
	assert.ErrorIs(t, err, domain.ErrConflict, "submit en SelectItems")
}

func TestWorkflow_SubmitEntregaElRequestArmado(t *testing.T) {
	ctx := context.Background()
	creator := &fakeCreator{}
	due := time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC)

	w := tags.NewWorkflow(fakeAvailability{"sku-1": 5}, creator, "user-7")
	require.NoError(t, w.SetDetails(dto.CreateTagRequest{
		Kind:        "loaned",
		Attribution: "Taller externo",
		DueDate:     &due,
		Notes:       "devolver completo",
	}))
	require.NoError(t, w.Next(ctx))
	require.NoError(t, w.SetSelection(seleccion("sku-1", 2)))
	require.NoError(t, w.Next(ctx))

	resp, err := w.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tag-1", resp.ID)

	assert.Equal(t, "user-7", creator.gotUID)
	assert.Equal(t, "loaned", creator.got.Kind)
	assert.Equal(t, "Taller externo", creator.got.Attribution)
	require.NotNil(t, creator.got.DueDate)
	assert.True(t, due.Equal(*creator.got.DueDate))
	assert.Equal(t, "devolver completo", creator.got.Notes)
	require.Len(t, creator.got.LineItems, 1)
	assert.Equal(t, "sku-1", creator.got.LineItems[0].SKUID)
}

func TestWorkflow_SubmitFallido_PermaneceEnRevision(t *testing.T) {
	ctx := context.Background()
	creator := &fakeCreator{err: errors.New("bd caída")}

	w := tags.NewWorkflow(fakeAvailability{"sku-1": 5}, creator, "user-1")
	avanzaHastaSeleccion(t, w, "reserved")
	require.NoError(t, w.SetSelection(seleccion("sku-1", 2)))
	require.NoError(t, w.Next(ctx))

	_, err := w.Submit(ctx)
	require.Error(t, err)
	assert.Equal(t, tags.StepReview, w.Step(), "el flujo queda en revisión para reintentar")

	// Reintento tras corregir la causa.
	creator.err = nil
	resp, err := w.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tag-1", resp.ID)
}
