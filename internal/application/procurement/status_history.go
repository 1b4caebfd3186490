package procurement

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// StatusHistory registrador pasivo de transiciones de estado. Sin lógica de negocio:
// quien cambia el estado decide y llama a Append dentro de su transacción.
type StatusHistory struct {
	reader repository.StatusHistoryReader
	now    func() time.Time
}

// NewStatusHistory construye el historial sobre su lector.
func NewStatusHistory(reader repository.StatusHistoryReader) *StatusHistory {
	return &StatusHistory{reader: reader, now: time.Now}
}

// Append agrega una entrada usando el repositorio de la transacción en curso.
func (h *StatusHistory) Append(
	ctx context.Context,
	repo repository.StatusHistoryRepository,
	orderID, fromStatus, toStatus, operator, note string,
) (*entity.StatusEntry, error) {
	e := &entity.StatusEntry{
		ID:         uuid.New().String(),
		OrderID:    orderID,
		FromStatus: fromStatus,
		ToStatus:   toStatus,
		Operator:   operator,
		Note:       note,
		CreatedAt:  h.now(),
	}
	if err := repo.Append(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// List historial de la orden ordenado por fecha.
func (h *StatusHistory) List(ctx context.Context, orderID string) ([]*entity.StatusEntry, error) {
	return h.reader.ListByOrder(ctx, orderID)
}
