package tags

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Etiquetas-api/internal/application/dto"
	"github.com/jhoicas/Etiquetas-api/internal/domain"
	"github.com/jhoicas/Etiquetas-api/internal/domain/entity"
)

// Step paso del flujo de creación de etiquetas.
type Step int

const (
	StepDetails Step = iota
	StepSelectItems
	StepReview
)

// String nombre del paso para logs y respuestas.
func (s Step) String() string {
	switch s {
	case StepDetails:
		return "details"
	case StepSelectItems:
		return "select_items"
	case StepReview:
		return "review"
	}
	return "unknown"
}

// AvailabilityReader consulta la disponibilidad vigente de un SKU. El flujo
// revalida contra esto al avanzar: la disponibilidad pudo cambiar desde que
// el panel se pobló.
type AvailabilityReader interface {
	Available(ctx context.Context, skuID string) (int, error)
}

// TagCreator colaborador de persistencia que materializa la etiqueta.
// Lo implementa *UseCase.
type TagCreator interface {
	CreateTag(ctx context.Context, userID string, in dto.CreateTagRequest) (*dto.TagResponse, error)
}

// Workflow controlador del flujo lineal Details → SelectItems → Review para
// armar una etiqueta nueva desde entrada de usuario. Las transiciones son solo
// adelante/atrás (sin saltos) y cada avance valida la precondición de su
// compuerta. Navegar hacia atrás nunca descarta datos de pasos ya visitados.
type Workflow struct {
	step         Step
	details      dto.CreateTagRequest // kind, attribution, due date, notes
	selection    []dto.TagLineItemRequest
	availability AvailabilityReader
	creator      TagCreator
	userID       string
}

// NewWorkflow construye un flujo en el paso de detalles.
func NewWorkflow(availability AvailabilityReader, creator TagCreator, userID string) *Workflow {
	return &Workflow{
		step:         StepDetails,
		availability: availability,
		creator:      creator,
		userID:       userID,
	}
}

// Step devuelve el paso vigente.
func (w *Workflow) Step() Step { return w.step }

// SetDetails captura los datos del paso de detalles. Solo válido en ese paso.
func (w *Workflow) SetDetails(in dto.CreateTagRequest) error {
	if w.step != StepDetails {
		return domain.ErrConflict
	}
	w.details = dto.CreateTagRequest{
		Kind:        in.Kind,
		Attribution: in.Attribution,
		DueDate:     in.DueDate,
		Notes:       in.Notes,
	}
	return nil
}

// SetSelection captura las líneas seleccionadas. Solo válido en SelectItems.
func (w *Workflow) SetSelection(items []dto.TagLineItemRequest) error {
	if w.step != StepSelectItems {
		return domain.ErrConflict
	}
	w.selection = items
	return nil
}

// Next avanza al siguiente paso si la compuerta del paso vigente se cumple.
func (w *Workflow) Next(ctx context.Context) error {
	switch w.step {
	case StepDetails:
		if strings.TrimSpace(w.details.Attribution) == "" {
			return domain.ErrInvalidInput
		}
		if !entity.ValidTagKind(entity.TagKind(w.details.Kind)) {
			return domain.ErrInvalidInput
		}
		w.step = StepSelectItems
		return nil
	case StepSelectItems:
		if err := w.validateSelection(ctx); err != nil {
			return err
		}
		w.step = StepReview
		return nil
	default:
		return domain.ErrConflict
	}
}

// Back retrocede un paso. Los datos ya capturados se conservan.
func (w *Workflow) Back() error {
	if w.step == StepDetails {
		return domain.ErrConflict
	}
	w.step--
	return nil
}

// validateSelection compuerta SelectItems → Review: al menos una línea, cada
// cantidad entera > 0 y dentro de la disponibilidad vigente, acumulando las
// líneas del mismo SKU.
func (w *Workflow) validateSelection(ctx context.Context) error {
	if len(w.selection) == 0 {
		return domain.ErrNoOp
	}
	kind := entity.TagKind(w.details.Kind)
	requested := make(map[string]int, len(w.selection))
	accum := make(map[string]int, len(w.selection))
	for _, item := range w.selection {
		if !item.Quantity.IsInteger() || item.Quantity.LessThanOrEqual(decimal.Zero) {
			return domain.ErrInvalidQuantity
		}
		requested[item.SKUID] += int(item.Quantity.IntPart())
	}
	if !kind.Claims() {
		return nil
	}
	for _, item := range w.selection {
		qty := int(item.Quantity.IntPart())
		accum[item.SKUID] += qty
		available, err := w.availability.Available(ctx, item.SKUID)
		if err != nil {
			return err
		}
		if accum[item.SKUID] > available {
			return &domain.InsufficientAvailabilityError{
				SKUID:     item.SKUID,
				Requested: requested[item.SKUID],
				Available: available,
			}
		}
	}
	return nil
}

// Submit construye el request de creación y lo entrega al colaborador de
// persistencia. Solo válido en Review. Ante cualquier error el flujo permanece
// en Review con todo lo capturado intacto, para corregir y reintentar.
func (w *Workflow) Submit(ctx context.Context) (*dto.TagResponse, error) {
	if w.step != StepReview {
		return nil, domain.ErrConflict
	}
	req := dto.CreateTagRequest{
		Kind:        w.details.Kind,
		Attribution: w.details.Attribution,
		DueDate:     w.details.DueDate,
		Notes:       w.details.Notes,
		LineItems:   w.selection,
	}
	resp, err := w.creator.CreateTag(ctx, w.userID, req)
	if err != nil {
		return nil, err
	}
	return resp, nil
}
