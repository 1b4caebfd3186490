package ledger

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback; si no, Commit. Los bloqueos de fila duran hasta el fin de la tx.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.TxRepos) error) error
}

// NumberGenerator genera números de transacción. Debe ser seguro para uso concurrente;
// una colisión se detecta al insertar y se reintenta con un número nuevo.
type NumberGenerator interface {
	Next(txType string) string
}
