package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Validación y consistencia se rechazan antes de cualquier escritura;
// ErrConcurrentModification indica que el caller puede reintentar la operación completa.
var (
	ErrNotFound               = errors.New("recurso no encontrado")
	ErrInvalidInput           = errors.New("entrada inválida")
	ErrDuplicate              = errors.New("recurso duplicado")
	ErrUnauthorized           = errors.New("no autorizado")
	ErrForbidden              = errors.New("acceso denegado")
	ErrConflict               = errors.New("conflicto con el estado actual")
	ErrInvalidTransition      = errors.New("transición de estado no permitida")
	ErrInsufficientStock      = errors.New("stock insuficiente")
	ErrConcurrentModification = errors.New("modificación concurrente, reintente la operación")
)

// IsRetryable indica si el error proviene de un conflicto de concurrencia.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConcurrentModification)
}
