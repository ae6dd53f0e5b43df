package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio. Los tipos estructurados de abajo responden a errors.Is contra estos sentinelas.
var (
	ErrNotFound                = errors.New("recurso no encontrado")
	ErrInvalidInput            = errors.New("entrada inválida")
	ErrDuplicate               = errors.New("recurso duplicado")
	ErrUnauthorized            = errors.New("no autorizado")
	ErrForbidden               = errors.New("acceso denegado")
	ErrInsufficientStock       = errors.New("stock insuficiente")
	ErrNegativeResult          = errors.New("el ajuste dejaría la cantidad en negativo")
	ErrSameItem                = errors.New("origen y destino del traslado son el mismo ítem")
	ErrUnitMismatch            = errors.New("unidades de medida distintas")
	ErrImmutableApprovedReport = errors.New("el reporte aprobado no se puede modificar")
	ErrAlreadyApproved         = errors.New("el reporte ya está aprobado")
	ErrInvalidTransition       = errors.New("transición de estado no permitida")
	// ErrBusy indica contención de bloqueos o timeout; el caller puede reintentar.
	ErrBusy = errors.New("recurso ocupado, reintente")
)

// NotFound envuelve ErrNotFound con el tipo de recurso y su id.
func NotFound(kind, id string) error {
	return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
}

// InsufficientStockError identifica el ítem que no alcanza, lo disponible y lo solicitado.
type InsufficientStockError struct {
	ItemID    string
	Available decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para %s: disponible %s, solicitado %s",
		e.ItemID, e.Available.String(), e.Requested.String())
}

// Is permite errors.Is(err, ErrInsufficientStock).
func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// NegativeResultError ajuste rechazado porque quantity + delta < 0.
type NegativeResultError struct {
	ItemID  string
	Current decimal.Decimal
	Delta   decimal.Decimal
}

func (e *NegativeResultError) Error() string {
	return fmt.Sprintf("ajuste inválido para %s: cantidad %s + delta %s < 0",
		e.ItemID, e.Current.String(), e.Delta.String())
}

func (e *NegativeResultError) Is(target error) bool { return target == ErrNegativeResult }

// ValidationError entrada mal formada (ej: cantidad no positiva donde se exige positiva).
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("entrada inválida: %s %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// Invalid construye un ValidationError.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// TransitionError transición de estado de reporte no permitida.
type TransitionError struct {
	From string
	To   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("transición no permitida: %s -> %s", e.From, e.To)
}

func (e *TransitionError) Is(target error) bool { return target == ErrInvalidTransition }
