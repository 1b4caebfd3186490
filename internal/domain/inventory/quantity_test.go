package inventory_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
)

var testKey = entity.BalanceKey{MaterialID: "M1", LocationID: "L1", Batch: "B1"}

func TestApplyDelta_EntradaYSalida(t *testing.T) {
	q, err := inventory.ApplyDelta(testKey, 0, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(100), q)

	q, err = inventory.ApplyDelta(testKey, q, -30)
	require.NoError(t, err)
	assert.Equal(t, int64(70), q)

	// Salida exacta deja el saldo en cero.
	q, err = inventory.ApplyDelta(testKey, q, -70)
	require.NoError(t, err)
	assert.Equal(t, int64(0), q)
}

func TestApplyDelta_StockInsuficienteIncluyeContexto(t *testing.T) {
	q, err := inventory.ApplyDelta(testKey, 70, -80)
	require.Error(t, err)
	assert.Equal(t, int64(70), q, "el saldo no cambia")
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	var ise *domain.InsufficientStockError
	require.True(t, errors.As(err, &ise))
	assert.Equal(t, "M1", ise.MaterialID)
	assert.Equal(t, "L1", ise.LocationID)
	assert.Equal(t, "B1", ise.Batch)
	assert.Equal(t, int64(-80), ise.Requested)
	assert.Equal(t, int64(70), ise.Available)
}

func TestApplyDelta_EntradaQueDesbordaEsCantidadInvalida(t *testing.T) {
	q, err := inventory.ApplyDelta(testKey, 10, math.MaxInt64)
	require.Error(t, err)
	assert.Equal(t, int64(10), q, "el saldo no cambia")
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	assert.False(t, errors.Is(err, domain.ErrInsufficientStock), "una entrada no es falta de stock")

	// Justo en el límite sí se acepta.
	q, err = inventory.ApplyDelta(testKey, 10, math.MaxInt64-10)
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), q)
}

func TestApplyDelta_SalidaMinimaNoDesborda(t *testing.T) {
	_, err := inventory.ApplyDelta(testKey, 10, math.MinInt64)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestStocktakeDelta(t *testing.T) {
	d, err := inventory.StocktakeDelta(70, 65)
	require.NoError(t, err)
	assert.Equal(t, int64(-5), d)

	d, err = inventory.StocktakeDelta(70, 70)
	require.NoError(t, err)
	assert.Zero(t, d)

	_, err = inventory.StocktakeDelta(70, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestSignedDelta(t *testing.T) {
	cases := []struct {
		name    string
		txType  string
		kind    string
		qty     int64
		want    int64
		wantErr error
	}{
		{"entrada", entity.TransactionTypeInbound, "", 5, 5, nil},
		{"salida", entity.TransactionTypeOutbound, "", 5, -5, nil},
		{"baja", entity.TransactionTypeScrap, "", 2, -2, nil},
		{"ajuste aumento", entity.TransactionTypeAdjustment, entity.AdjustmentIncrease, 3, 3, nil},
		{"ajuste daño", entity.TransactionTypeAdjustment, entity.AdjustmentDamage, 3, -3, nil},
		{"ajuste otro negativo", entity.TransactionTypeAdjustment, entity.AdjustmentOther, -4, -4, nil},
		{"entrada cero", entity.TransactionTypeInbound, "", 0, 0, domain.ErrInvalidQuantity},
		{"salida negativa", entity.TransactionTypeOutbound, "", -1, 0, domain.ErrInvalidQuantity},
		{"clase desconocida", entity.TransactionTypeAdjustment, "misc", 1, 0, domain.ErrInvalidInput},
		{"tipo desconocido", "gift", "", 1, 0, domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := inventory.SignedDelta(tc.txType, tc.kind, tc.qty)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
