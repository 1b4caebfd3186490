package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// ScanFilter filtros del historial de escaneo.
type ScanFilter struct {
	Barcode       string
	OperationType string
	Result        string
	Limit         int
	Offset        int
}

// ScanHistoryRepository historial de escaneos. Se escribe fuera de la transacción del movimiento
// para que los fallos también queden registrados.
type ScanHistoryRepository interface {
	Create(ctx context.Context, record *entity.ScanRecord) error
	List(ctx context.Context, filter ScanFilter) ([]*entity.ScanRecord, error)
}
