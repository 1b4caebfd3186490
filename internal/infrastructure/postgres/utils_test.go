package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/inventario-ledger/internal/domain"
)

func TestWrap_TraduceConflictos(t *testing.T) {
	err := wrap("guardar saldo", &pgconn.PgError{Code: "40P01"})
	assert.ErrorIs(t, err, domain.ErrConcurrentUpdate)

	err = wrap("guardar saldo", fmt.Errorf("x: %w", &pgconn.PgError{Code: "40001"}))
	assert.ErrorIs(t, err, domain.ErrConcurrentUpdate)

	plain := errors.New("conexión cerrada")
	assert.ErrorIs(t, wrap("op", plain), plain)
	assert.NoError(t, wrap("op", nil))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("23505 en el texto no cuenta")))
}

func TestWhere_PlaceholdersYPaginacion(t *testing.T) {
	var w where
	w.add("material_id = $%d", "M1")
	w.raw("quantity <> 0")
	w.add("batch = $%d", "B1")
	tail := w.page(10, 20)

	assert.Equal(t, " WHERE material_id = $1 AND quantity <> 0 AND batch = $2", w.String())
	assert.Equal(t, " LIMIT $3 OFFSET $4", tail)
	assert.Equal(t, []any{"M1", "B1", 10, 20}, w.args)

	var empty where
	assert.Equal(t, "", empty.String())
	assert.Equal(t, "", empty.page(0, 0))
}
