package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Etiquetas-api/internal/application/dto"
	"github.com/jhoicas/Etiquetas-api/internal/domain"
	"github.com/jhoicas/Etiquetas-api/internal/domain/entity"
	"github.com/jhoicas/Etiquetas-api/internal/domain/repository"
)

// ThresholdDefaults umbrales aplicados al crear un SKU cuando el request no
// los trae. Un 0 explícito en el request se respeta ("nunca marcar").
type ThresholdDefaults struct {
	Understocked int
	Overstocked  int
}

// SKUUseCase casos de uso CRUD para SKUs. Las cantidades se manejan vía
// inventario; aquí solo datos maestros. No hay borrado: un SKU referenciado
// se descontinúa.
type SKUUseCase struct {
	repo     repository.SKURepository
	defaults ThresholdDefaults
}

// NewSKUUseCase construye el caso de uso.
func NewSKUUseCase(repo repository.SKURepository, defaults ThresholdDefaults) *SKUUseCase {
	return &SKUUseCase{repo: repo, defaults: defaults}
}

// Create crea un nuevo SKU aplicando los umbrales por defecto si no vienen.
func (uc *SKUUseCase) Create(in dto.CreateSKURequest, canViewCost bool) (*dto.SKUResponse, error) {
	existing, _ := uc.repo.GetByCode(in.Code)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if in.UnitCost.IsNegative() || in.Price.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	thresholds := entity.StockThresholds{
		Understocked: uc.defaults.Understocked,
		Overstocked:  uc.defaults.Overstocked,
	}
	if in.Understocked != nil {
		if *in.Understocked < 0 {
			return nil, domain.ErrInvalidInput
		}
		thresholds.Understocked = *in.Understocked
	}
	if in.Overstocked != nil {
		if *in.Overstocked < 0 {
			return nil, domain.ErrInvalidInput
		}
		thresholds.Overstocked = *in.Overstocked
	}

	now := time.Now()
	sku := &entity.SKU{
		ID:          uuid.New().String(),
		Code:        in.Code,
		Name:        in.Name,
		Description: in.Description,
		UnitCost:    in.UnitCost,
		Price:       in.Price,
		Thresholds:  thresholds,
		Status:      entity.SKUStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(sku); err != nil {
		return nil, err
	}
	return toSKUResponse(sku, canViewCost), nil
}

// GetByID obtiene un SKU por ID.
func (uc *SKUUseCase) GetByID(id string, canViewCost bool) (*dto.SKUResponse, error) {
	sku, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sku == nil {
		return nil, domain.ErrNotFound
	}
	return toSKUResponse(sku, canViewCost), nil
}

// Update actualiza datos maestros de un SKU (costo y umbrales incluidos).
func (uc *SKUUseCase) Update(id string, in dto.UpdateSKURequest, canViewCost bool) (*dto.SKUResponse, error) {
	sku, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sku == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		sku.Name = *in.Name
	}
	if in.Description != nil {
		sku.Description = *in.Description
	}
	if in.UnitCost != nil {
		if in.UnitCost.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		sku.UnitCost = *in.UnitCost
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		sku.Price = *in.Price
	}
	if in.Understocked != nil {
		if *in.Understocked < 0 {
			return nil, domain.ErrInvalidInput
		}
		sku.Thresholds.Understocked = *in.Understocked
	}
	if in.Overstocked != nil {
		if *in.Overstocked < 0 {
			return nil, domain.ErrInvalidInput
		}
		sku.Thresholds.Overstocked = *in.Overstocked
	}
	sku.UpdatedAt = time.Now()
	if err := uc.repo.Update(sku); err != nil {
		return nil, err
	}
	return toSKUResponse(sku, canViewCost), nil
}

// Discontinue transición suave a "discontinued". Los registros de inventario
// que lo referencian permanecen como historial.
func (uc *SKUUseCase) Discontinue(id string) error {
	sku, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if sku == nil {
		return domain.ErrNotFound
	}
	if sku.Discontinued() {
		return domain.ErrNoOp
	}
	return uc.repo.UpdateStatus(id, entity.SKUStatusDiscontinued)
}

// List lista SKUs con paginación.
func (uc *SKUUseCase) List(limit, offset int, canViewCost bool) (*dto.SKUListResponse, error) {
	list, err := uc.repo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SKUResponse, 0, len(list))
	for _, sku := range list {
		items = append(items, *toSKUResponse(sku, canViewCost))
	}
	return &dto.SKUListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset, Total: len(items)},
	}, nil
}

func toSKUResponse(sku *entity.SKU, canViewCost bool) *dto.SKUResponse {
	out := &dto.SKUResponse{
		ID:           sku.ID,
		Code:         sku.Code,
		Name:         sku.Name,
		Description:  sku.Description,
		Price:        sku.Price,
		Understocked: sku.Thresholds.Understocked,
		Overstocked:  sku.Thresholds.Overstocked,
		Status:       sku.Status,
		CreatedAt:    sku.CreatedAt,
		UpdatedAt:    sku.UpdatedAt,
	}
	if canViewCost {
		cost := sku.UnitCost
		out.UnitCost = &cost
	}
	return out
}
