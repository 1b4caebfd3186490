package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// ProcurementOrderRepository puerto de órdenes de compra dentro de una transacción.
type ProcurementOrderRepository interface {
	// Create inserta la orden con sus ítems.
	Create(ctx context.Context, order *entity.ProcurementOrder) error
	// GetForUpdate carga la orden con ítems y la bloquea. nil si no existe.
	GetForUpdate(ctx context.Context, id string) (*entity.ProcurementOrder, error)
	// Save actualiza estado, fecha de entrega y cantidades recibidas de los ítems.
	Save(ctx context.Context, order *entity.ProcurementOrder) error
}

// OrderFilter filtros para listar órdenes.
type OrderFilter struct {
	Status     string
	SupplierID string
	Limit      int
	Offset     int
}

// ProcurementOrderReader lecturas de órdenes confirmadas.
type ProcurementOrderReader interface {
	GetByID(ctx context.Context, id string) (*entity.ProcurementOrder, error)
	GetByNumber(ctx context.Context, number string) (*entity.ProcurementOrder, error)
	List(ctx context.Context, filter OrderFilter) ([]*entity.ProcurementOrder, error)
}

// StatusHistoryRepository append-only del historial de estados.
type StatusHistoryRepository interface {
	Append(ctx context.Context, entry *entity.StatusEntry) error
}

// StatusHistoryReader lista el historial de una orden ordenado por fecha.
type StatusHistoryReader interface {
	ListByOrder(ctx context.Context, orderID string) ([]*entity.StatusEntry, error)
}
