package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound                   = errors.New("recurso no encontrado")
	ErrInvalidInput               = errors.New("entrada inválida")
	ErrInvalidQuantity            = errors.New("cantidad inválida")
	ErrInsufficientStock          = errors.New("stock insuficiente")
	ErrDuplicateTransactionNumber = errors.New("número de transacción duplicado")
	ErrConcurrentUpdate           = errors.New("conflicto de actualización concurrente")
	ErrTransient                  = errors.New("fallo transitorio, reintente la consulta")
	ErrInvalidTransition          = errors.New("transición de estado no permitida")
	ErrInactiveEntity             = errors.New("recurso inactivo")
	ErrOverReceipt                = errors.New("cantidad recibida supera la ordenada")
	ErrUnauthorized               = errors.New("no autorizado")
	ErrForbidden                  = errors.New("acceso denegado")
)

// InsufficientStockError describe una salida rechazada: clave del saldo, delta pedido y saldo actual.
// errors.Is(err, ErrInsufficientStock) es verdadero para este tipo.
type InsufficientStockError struct {
	MaterialID string
	LocationID string
	Batch      string
	Requested  int64
	Available  int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("%s: material=%s ubicación=%s lote=%q solicitado=%d disponible=%d",
		ErrInsufficientStock.Error(), e.MaterialID, e.LocationID, e.Batch, e.Requested, e.Available)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// IsRetryable indica si el error proviene de una colisión interna que se resuelve reintentando
// la unidad transaccional completa.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrDuplicateTransactionNumber) || errors.Is(err, ErrConcurrentUpdate)
}
