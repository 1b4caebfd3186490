package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-ledger/internal/application/ledger"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
)

// RegisterMovementUseCase registra movimientos manuales de inventario (entrada, salida, ajuste,
// baja, conteo físico y traslado) resolviendo material y ubicaciones antes de tocar el ledger.
type RegisterMovementUseCase struct {
	recorder TransactionRecorder
	resolver TargetResolver
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(recorder TransactionRecorder, resolver TargetResolver) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{recorder: recorder, resolver: resolver}
}

// MovementInput entrada para registrar un movimiento.
// Material y ubicaciones aceptan id, código o código de barras.
// Para transfer se usan FromLocation y ToLocation; para el resto Location.
// En stocktake Quantity es la cantidad contada.
type MovementInput struct {
	Type           string
	AdjustmentKind string
	Material       string
	Location       string
	FromLocation   string
	ToLocation     string
	Batch          string
	Quantity       int64
	Operator       string
	Reason         string
}

// RegisterMovement valida, resuelve y registra. Devuelve las transacciones creadas
// (dos para traslados, una para el resto).
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, in MovementInput) ([]*entity.Transaction, error) {
	if !entity.IsValidTransactionType(in.Type) || in.Material == "" {
		return nil, domain.ErrInvalidInput
	}
	mat, err := uc.resolver.ResolveMaterial(ctx, in.Material)
	if err != nil {
		return nil, err
	}

	if in.Type == entity.TransactionTypeTransfer {
		return uc.transfer(ctx, mat.ID, in)
	}

	if in.Location == "" {
		return nil, domain.ErrInvalidInput
	}
	loc, err := uc.resolver.ResolveLocation(ctx, in.Location)
	if err != nil {
		return nil, err
	}

	rec := ledger.RecordInput{
		Type:           in.Type,
		AdjustmentKind: in.AdjustmentKind,
		Key:            entity.NewBalanceKey(mat.ID, loc.ID, in.Batch),
		Operator:       in.Operator,
		Reason:         in.Reason,
	}
	if in.Type == entity.TransactionTypeStocktake {
		counted := in.Quantity
		rec.Counted = &counted
	} else {
		delta, err := inventory.SignedDelta(in.Type, in.AdjustmentKind, in.Quantity)
		if err != nil {
			return nil, err
		}
		rec.Delta = delta
	}

	txn, err := uc.recorder.Record(ctx, rec)
	if err != nil {
		return nil, err
	}
	return []*entity.Transaction{txn}, nil
}

func (uc *RegisterMovementUseCase) transfer(ctx context.Context, materialID string, in MovementInput) ([]*entity.Transaction, error) {
	if in.FromLocation == "" || in.ToLocation == "" {
		return nil, domain.ErrInvalidInput
	}
	from, err := uc.resolver.ResolveLocation(ctx, in.FromLocation)
	if err != nil {
		return nil, fmt.Errorf("origen: %w", err)
	}
	to, err := uc.resolver.ResolveLocation(ctx, in.ToLocation)
	if err != nil {
		return nil, fmt.Errorf("destino: %w", err)
	}
	return uc.recorder.Transfer(ctx, ledger.TransferInput{
		MaterialID:     materialID,
		FromLocationID: from.ID,
		ToLocationID:   to.ID,
		Batch:          in.Batch,
		Quantity:       in.Quantity,
		Operator:       in.Operator,
		Reason:         in.Reason,
	})
}
