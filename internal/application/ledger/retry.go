package ledger

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-ledger/internal/domain"
)

// Retry ejecuta fn hasta attempts veces mientras falle con un error reintentable
// (número duplicado o conflicto de concurrencia). Agotados los intentos devuelve domain.ErrTransient.
// Cualquier otro error se devuelve sin cambios.
func Retry(ctx context.Context, attempts int, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for i := 0; i < attempts; i++ {
		err = fn()
		if err == nil || !domain.IsRetryable(err) {
			return err
		}
		retriesCounter().Add(ctx, 1)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
	}
	return fmt.Errorf("%w: %d intentos: %v", domain.ErrTransient, attempts, err)
}
