package inventory

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/application/ledger"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// TransactionRecorder registra movimientos sobre el ledger (implementado por ledger.TransactionLog).
type TransactionRecorder interface {
	Record(ctx context.Context, in ledger.RecordInput) (*entity.Transaction, error)
	Transfer(ctx context.Context, in ledger.TransferInput) ([]*entity.Transaction, error)
}

// TargetResolver traduce id, código o código de barras a material/ubicación.
type TargetResolver interface {
	ResolveMaterial(ctx context.Context, token string) (*entity.Material, error)
	ResolveLocation(ctx context.Context, token string) (*entity.Location, error)
}

// BalanceTotals existencias totales por material.
type BalanceTotals interface {
	TotalsByMaterial(ctx context.Context) (map[string]int64, error)
}
