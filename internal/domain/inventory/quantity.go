package inventory

import (
	"fmt"
	"math"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// ApplyDelta calcula la nueva cantidad de un saldo (servicio de dominio).
// Si el resultado fuera negativo devuelve *domain.InsufficientStockError y no hay mutación.
// Una entrada que desborde int64 es una cantidad inválida.
func ApplyDelta(key entity.BalanceKey, current, delta int64) (int64, error) {
	if delta > 0 && current > math.MaxInt64-delta {
		return current, fmt.Errorf("saldo %s: %d + %d excede el máximo representable: %w",
			key, current, delta, domain.ErrInvalidQuantity)
	}
	if delta < 0 && delta < -current {
		return current, &domain.InsufficientStockError{
			MaterialID: key.MaterialID,
			LocationID: key.LocationID,
			Batch:      key.Batch,
			Requested:  delta,
			Available:  current,
		}
	}
	return current + delta, nil
}

// StocktakeDelta diferencia entre lo contado y lo registrado. Puede ser cero.
func StocktakeDelta(current, counted int64) (int64, error) {
	if counted < 0 {
		return 0, domain.ErrInvalidQuantity
	}
	return counted - current, nil
}

// SignedDelta convierte una cantidad positiva en el delta con signo según el tipo de movimiento.
// Para ajustes, la clase decide el signo (increase/return suman, decrease/damage restan);
// la clase "other" respeta el signo recibido.
func SignedDelta(txType, adjustmentKind string, quantity int64) (int64, error) {
	switch txType {
	case entity.TransactionTypeInbound:
		return positive(quantity)
	case entity.TransactionTypeOutbound, entity.TransactionTypeScrap:
		q, err := positive(quantity)
		return -q, err
	case entity.TransactionTypeAdjustment:
		switch adjustmentKind {
		case entity.AdjustmentIncrease, entity.AdjustmentReturn:
			return positive(quantity)
		case entity.AdjustmentDecrease, entity.AdjustmentDamage:
			q, err := positive(quantity)
			return -q, err
		case entity.AdjustmentOther, "":
			if quantity == 0 {
				return 0, domain.ErrInvalidQuantity
			}
			return quantity, nil
		}
		return 0, domain.ErrInvalidInput
	}
	return 0, domain.ErrInvalidInput
}

func positive(q int64) (int64, error) {
	if q <= 0 {
		return 0, domain.ErrInvalidQuantity
	}
	return q, nil
}
