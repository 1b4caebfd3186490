// Package ledger mantiene los saldos por (material, ubicación, lote) y el registro
// inmutable de transacciones que los modifica.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// Ledger saldos actuales. La única mutación (adjust) es privada: solo TransactionLog la invoca,
// en la misma transacción de BD que inserta la transacción correspondiente.
type Ledger struct {
	balances repository.BalanceReader
	now      func() time.Time
}

// NewLedger construye el ledger sobre el lector de saldos confirmados.
func NewLedger(balances repository.BalanceReader) *Ledger {
	return &Ledger{balances: balances, now: time.Now}
}

// adjust bloquea (o crea en 0) el saldo de la clave, valida que no quede negativo y aplica delta.
// txnID queda como última transacción del saldo.
func (l *Ledger) adjust(
	ctx context.Context,
	repo repository.BalanceRepository,
	key entity.BalanceKey,
	delta int64,
	txnID string,
	lot entity.LotDates,
) (*entity.Balance, error) {
	b, err := repo.GetForUpdate(ctx, key, lot)
	if err != nil {
		return nil, err
	}
	next, err := inventory.ApplyDelta(key, b.Quantity, delta)
	if err != nil {
		return nil, err
	}
	b.Quantity = next
	b.LastTransactionID = txnID
	b.UpdatedAt = l.now()
	if err := repo.Save(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Balance devuelve la cantidad actual de la clave; 0 si nunca hubo movimientos.
func (l *Ledger) Balance(ctx context.Context, key entity.BalanceKey) (int64, error) {
	b, err := l.balances.Get(ctx, key.Normalized())
	if err != nil {
		return 0, err
	}
	if b == nil {
		return 0, nil
	}
	return b.Quantity, nil
}

// Get devuelve la fila de saldo completa.
func (l *Ledger) Get(ctx context.Context, key entity.BalanceKey) (*entity.Balance, error) {
	key = key.Normalized()
	b, err := l.balances.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, fmt.Errorf("saldo %s: %w", key, domain.ErrNotFound)
	}
	return b, nil
}

// List lista saldos con filtros.
func (l *Ledger) List(ctx context.Context, filter repository.BalanceFilter) ([]*entity.Balance, error) {
	filter.Batch = entity.NormalizeLabel(filter.Batch)
	return l.balances.List(ctx, filter)
}

// TotalsByMaterial cantidades agregadas por material (todas las ubicaciones y lotes).
func (l *Ledger) TotalsByMaterial(ctx context.Context) (map[string]int64, error) {
	return l.balances.TotalsByMaterial(ctx)
}
