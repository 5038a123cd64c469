package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")

	// Taxonomía del motor de etiquetas (ver handlers para el mapeo HTTP).
	ErrInvalidQuantity          = errors.New("cantidad inválida")
	ErrNoChange                 = errors.New("ningún cambio propuesto")
	ErrNoOp                     = errors.New("operación sin efecto")
	ErrInsufficientAvailability = errors.New("disponibilidad insuficiente")
	ErrInsufficientInstances    = errors.New("instancias insuficientes")
	ErrOverRemoval              = errors.New("retiro mayor al restante")
	ErrInsufficientStock        = errors.New("stock insuficiente")
)

// InsufficientAvailabilityError indica que un SKU no tiene disponibilidad para la
// cantidad solicitada. Nombra el primer SKU ofensor; la operación completa se rechaza.
type InsufficientAvailabilityError struct {
	SKUID     string
	Requested int
	Available int
}

func (e *InsufficientAvailabilityError) Error() string {
	return fmt.Sprintf("disponibilidad insuficiente para SKU %s: solicitado %d, disponible %d",
		e.SKUID, e.Requested, e.Available)
}

func (e *InsufficientAvailabilityError) Unwrap() error { return ErrInsufficientAvailability }

// InsufficientInstancesError indica que no existen suficientes instancias físicas
// disponibles para asignar la cantidad solicitada. Nunca se asigna parcialmente.
type InsufficientInstancesError struct {
	SKUID     string
	Requested int
	Available int
}

func (e *InsufficientInstancesError) Error() string {
	return fmt.Sprintf("instancias insuficientes para SKU %s: solicitado %d, disponible %d (faltan %d)",
		e.SKUID, e.Requested, e.Available, e.Shortfall())
}

func (e *InsufficientInstancesError) Unwrap() error { return ErrInsufficientInstances }

// Shortfall devuelve cuántas instancias faltan para completar la solicitud.
func (e *InsufficientInstancesError) Shortfall() int { return e.Requested - e.Available }

// OverRemovalError indica un retiro mayor a la cantidad restante de una línea.
type OverRemovalError struct {
	LineItemID string
	Requested  int
	Remaining  int
}

func (e *OverRemovalError) Error() string {
	return fmt.Sprintf("retiro de %d unidades excede el restante %d de la línea %s",
		e.Requested, e.Remaining, e.LineItemID)
}

func (e *OverRemovalError) Unwrap() error { return ErrOverRemoval }
