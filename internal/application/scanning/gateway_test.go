package scanning_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/catalog"
	"github.com/jhoicas/inventario-ledger/internal/application/ledger"
	"github.com/jhoicas/inventario-ledger/internal/application/procurement"
	"github.com/jhoicas/inventario-ledger/internal/application/scanning"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/sequence"
)

type fixture struct {
	store   *memory.Store
	ledger  *ledger.Ledger
	gateway *scanning.Gateway
	orders  *procurement.OrderUseCase
}

var key = entity.BalanceKey{MaterialID: "M1", LocationID: "L1"}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := memory.NewStore()
	s.AddMaterial(entity.Material{ID: "M1", Code: "MAT-1", Active: true})
	s.AddLocation(entity.Location{ID: "L1", Code: "A-01", Active: true})
	s.AddBarcode(entity.Barcode{Number: "MAT1", Type: entity.BarcodeTypeMaterial, ReferenceID: "M1", Status: entity.BarcodeStatusActive})
	s.AddBarcode(entity.Barcode{Number: "LOC1", Type: entity.BarcodeTypeLocation, ReferenceID: "L1", Status: entity.BarcodeStatusActive})

	gen, err := sequence.NewGenerator(2)
	require.NoError(t, err)
	l := ledger.NewLedger(s.Balances())
	txLog := ledger.NewTransactionLog(l, s, s.Catalog(), s.Transactions(), gen, nil, zerolog.Nop(), 5)
	history := procurement.NewStatusHistory(s.StatusHistory())
	return &fixture{
		store:   s,
		ledger:  l,
		gateway: scanning.NewGateway(catalog.NewResolver(s.Catalog(), s.Orders()), txLog, s.Scans(), zerolog.Nop()),
		orders:  procurement.NewOrderUseCase(s, s.Orders(), s.Catalog(), history, gen, nil, zerolog.Nop(), 5),
	}
}

func (f *fixture) balance(t *testing.T) int64 {
	t.Helper()
	q, err := f.ledger.Balance(context.Background(), key)
	require.NoError(t, err)
	return q
}

func (f *fixture) scans(t *testing.T, result string) []*entity.ScanRecord {
	t.Helper()
	recs, err := f.gateway.History(context.Background(), repository.ScanFilter{Result: result})
	require.NoError(t, err)
	return recs
}

func TestMaterialInbound_RegistraTransaccionEHistorial(t *testing.T) {
	f := newFixture(t)
	txn, err := f.gateway.MaterialInbound(context.Background(), scanning.ScanInput{
		MaterialBarcode: "MAT1", LocationBarcode: "LOC1", Quantity: 100, Operator: "bodeguero-1",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.TransactionTypeInbound, txn.Type)
	assert.Equal(t, int64(100), f.balance(t))

	ok := f.scans(t, entity.ScanResultSuccess)
	require.Len(t, ok, 1)
	assert.Equal(t, "MAT1", ok[0].Barcode)
	assert.Equal(t, entity.ScanOperationMaterialInbound, ok[0].OperationType)
	assert.Equal(t, txn.Number, ok[0].TransactionNumber)
}

func TestMaterialOutbound_UbicacionDesconocida(t *testing.T) {
	f := newFixture(t)
	_, err := f.gateway.MaterialInbound(context.Background(), scanning.ScanInput{MaterialBarcode: "MAT1", LocationBarcode: "LOC1", Quantity: 10})
	require.NoError(t, err)

	txn, err := f.gateway.MaterialOutbound(context.Background(), scanning.ScanInput{
		MaterialBarcode: "MAT1", LocationBarcode: "LOC-404", Quantity: 5,
	})
	assert.Nil(t, txn)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, int64(10), f.balance(t))

	txns, err := f.store.Transactions().List(context.Background(), repository.TransactionFilter{Type: entity.TransactionTypeOutbound})
	require.NoError(t, err)
	assert.Empty(t, txns)

	failed := f.scans(t, entity.ScanResultFailed)
	require.Len(t, failed, 1)
	assert.Equal(t, entity.ScanOperationMaterialOutbound, failed[0].OperationType)
	assert.Equal(t, "LOC-404", failed[0].LocationBarcode)
	assert.NotEmpty(t, failed[0].Remark)
}

func TestMaterialOutbound_StockInsuficienteSePropagaYSeRegistra(t *testing.T) {
	f := newFixture(t)
	_, err := f.gateway.MaterialInbound(context.Background(), scanning.ScanInput{MaterialBarcode: "MAT1", LocationBarcode: "LOC1", Quantity: 10})
	require.NoError(t, err)

	_, err = f.gateway.MaterialOutbound(context.Background(), scanning.ScanInput{MaterialBarcode: "MAT1", LocationBarcode: "LOC1", Quantity: 11})
	var ise *domain.InsufficientStockError
	require.True(t, errors.As(err, &ise))
	assert.Equal(t, int64(10), ise.Available)
	assert.Len(t, f.scans(t, entity.ScanResultFailed), 1)
}

func TestMaterialInbound_CantidadInvalida(t *testing.T) {
	f := newFixture(t)
	_, err := f.gateway.MaterialInbound(context.Background(), scanning.ScanInput{MaterialBarcode: "MAT1", LocationBarcode: "LOC1", Quantity: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	assert.Len(t, f.scans(t, entity.ScanResultFailed), 1)
}

func TestMaterialOutbound_Concurrentes(t *testing.T) {
	f := newFixture(t)
	_, err := f.gateway.MaterialInbound(context.Background(), scanning.ScanInput{MaterialBarcode: "MAT1", LocationBarcode: "LOC1", Quantity: 100})
	require.NoError(t, err)

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.gateway.MaterialOutbound(context.Background(), scanning.ScanInput{
				MaterialBarcode: "MAT1", LocationBarcode: "LOC1", Quantity: 60,
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, int64(40), f.balance(t))
}

func TestMaterialOutbound_ConCodigoDeOrden(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o, err := f.orders.Create(ctx, procurement.CreateOrderInput{
		SupplierID: "SUP-1",
		Items:      []procurement.CreateItemInput{{MaterialID: "M1", Quantity: 1, UnitPrice: decimal.NewFromInt(1)}},
	})
	require.NoError(t, err)
	f.store.AddBarcode(entity.Barcode{Number: "ORD1", Type: entity.BarcodeTypeOrder, ReferenceID: o.ID, Status: entity.BarcodeStatusActive})

	_, err = f.gateway.MaterialInbound(ctx, scanning.ScanInput{MaterialBarcode: "MAT1", LocationBarcode: "LOC1", Quantity: 5})
	require.NoError(t, err)
	txn, err := f.gateway.MaterialOutbound(ctx, scanning.ScanInput{
		MaterialBarcode: "MAT1", LocationBarcode: "LOC1", Quantity: 2, OrderBarcode: "ORD1",
	})
	require.NoError(t, err)
	assert.Equal(t, o.ID, txn.OrderID)

	// por número de orden también resuelve
	txn, err = f.gateway.MaterialOutbound(ctx, scanning.ScanInput{
		MaterialBarcode: "MAT1", LocationBarcode: "LOC1", Quantity: 1, OrderBarcode: o.Number,
	})
	require.NoError(t, err)
	assert.Equal(t, o.ID, txn.OrderID)
}
