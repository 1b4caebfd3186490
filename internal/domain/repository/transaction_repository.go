package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// TransactionRepository puerto append-only del registro de transacciones.
type TransactionRepository interface {
	// Create inserta la transacción y asigna Seq. Número repetido => domain.ErrDuplicateTransactionNumber.
	Create(ctx context.Context, txn *entity.Transaction) error
}

// TransactionFilter filtros de consulta; el resultado se ordena por Seq ascendente.
type TransactionFilter struct {
	MaterialID string
	LocationID string
	Batch      *string
	Type       string
	OrderID    string
	Limit      int
	Offset     int
}

// TransactionReader consultas sobre transacciones confirmadas.
type TransactionReader interface {
	GetByNumber(ctx context.Context, number string) (*entity.Transaction, error)
	List(ctx context.Context, filter TransactionFilter) ([]*entity.Transaction, error)
}
