package inventory

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
)

// RegisterMovementFromRequest adapta el request HTTP al caso de uso RegisterMovement.
func (uc *RegisterMovementUseCase) RegisterMovementFromRequest(ctx context.Context, userID string, in dto.RegisterMovementRequest) ([]dto.TransactionResponse, error) {
	txns, err := uc.RegisterMovement(ctx, MovementInput{
		Type:           in.Type,
		AdjustmentKind: in.AdjustmentKind,
		Material:       in.MaterialID,
		Location:       in.LocationID,
		FromLocation:   in.FromLocationID,
		ToLocation:     in.ToLocationID,
		Batch:          in.Batch,
		Quantity:       in.Quantity,
		Operator:       userID,
		Reason:         in.Reason,
	})
	if err != nil {
		return nil, err
	}
	return dto.NewTransactionList(txns), nil
}
