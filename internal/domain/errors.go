package domain

import (
	"errors"
	"fmt"

	"github.com/jhoicas/serial-track/internal/domain/entity"
)

// Errores de dominio (sin dependencias externas). Los fallos de validación y
// de máquina de estados son recuperables y se devuelven al iniciador de la
// transacción; ErrStoreUnavailable es fatal para la llamada en curso y la
// unidad atómica garantiza que no queda estado parcial.
var (
	ErrValidationFailed    = errors.New("validación de seriales fallida")
	ErrDuplicateSerial     = errors.New("el serial ya existe para el ítem")
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidTransition   = errors.New("transición de estado inválida")
	ErrConcurrencyConflict = errors.New("conflicto de concurrencia sobre el serial")
	ErrGenerationExhausted = errors.New("no se pudo generar un serial libre")
	ErrStoreUnavailable    = errors.New("almacenamiento no disponible")
	ErrInvalidInput        = errors.New("entrada inválida")
)

// ValidationError identifica la línea que hizo fallar la validación y el
// motivo. La validación se corta en la primera línea inválida.
type ValidationError struct {
	LineNo   int
	StockID  string
	SerialNo string
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("línea %d (%s/%s): %s", e.LineNo, e.StockID, e.SerialNo, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidationFailed }

// TransitionError transición rechazada por la máquina de estados: estado
// actual vs operación solicitada.
type TransitionError struct {
	StockID   string
	SerialNo  string
	Current   entity.Status
	Requested entity.Operation
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s/%s: no se puede aplicar %q en estado %q", e.StockID, e.SerialNo, e.Requested, e.Current)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// ConflictError carrera perdida sobre un ítem compartido; el caller debe
// reintentar la transacción completa.
type ConflictError struct {
	StockID  string
	SerialNo string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s/%s: otro proceso modificó el ítem durante el commit", e.StockID, e.SerialNo)
}

func (e *ConflictError) Unwrap() error { return ErrConcurrencyConflict }
