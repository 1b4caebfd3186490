package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// BalanceRepository puerto de saldos atado a una transacción de BD.
// Solo el ledger lo usa para mutar; el resto lee por BalanceReader.
type BalanceRepository interface {
	// Get devuelve el saldo o nil si la clave aún no tiene fila.
	Get(ctx context.Context, key entity.BalanceKey) (*entity.Balance, error)
	// GetForUpdate bloquea la fila de la clave hasta el fin de la transacción (SELECT FOR UPDATE).
	// Si no existe la crea con cantidad 0 y las fechas de lote dadas.
	GetForUpdate(ctx context.Context, key entity.BalanceKey, lot entity.LotDates) (*entity.Balance, error)
	// Save persiste cantidad y última transacción; devuelve domain.ErrConcurrentUpdate si Version cambió.
	Save(ctx context.Context, balance *entity.Balance) error
}

// BalanceFilter filtros para listar saldos. Campos vacíos no filtran.
type BalanceFilter struct {
	MaterialID  string
	LocationID  string
	Batch       string
	OnlyNonZero bool
	Limit       int
	Offset      int
}

// BalanceReader lecturas sin bloqueo sobre saldos confirmados.
type BalanceReader interface {
	Get(ctx context.Context, key entity.BalanceKey) (*entity.Balance, error)
	List(ctx context.Context, filter BalanceFilter) ([]*entity.Balance, error)
	// TotalsByMaterial suma las cantidades de todas las ubicaciones y lotes por material.
	TotalsByMaterial(ctx context.Context) (map[string]int64, error)
}
