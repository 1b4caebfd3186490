package catalog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/catalog"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
)

func newResolver() *catalog.Resolver {
	s := memory.NewStore()
	s.AddMaterial(entity.Material{ID: "mat-1", Code: "MAT-001", Name: "Tornillo", Active: true})
	s.AddLocation(entity.Location{ID: "loc-1", Code: "A-01", Active: true})
	s.AddBarcode(entity.Barcode{Number: "690001", Type: entity.BarcodeTypeMaterial, ReferenceID: "mat-1", Status: entity.BarcodeStatusActive})
	s.AddBarcode(entity.Barcode{Number: "LOC001", Type: entity.BarcodeTypeLocation, ReferenceID: "loc-1", Status: entity.BarcodeStatusActive})
	s.AddBarcode(entity.Barcode{Number: "OP-7", Type: entity.BarcodeTypeOperator, ReferenceID: "user-7", Status: entity.BarcodeStatusActive})
	s.AddBarcode(entity.Barcode{Number: "EMPTY", Type: entity.BarcodeTypeMaterial, Status: entity.BarcodeStatusActive})
	s.AddBarcode(entity.Barcode{Number: "OFF1", Type: entity.BarcodeTypeMaterial, ReferenceID: "mat-1", Status: entity.BarcodeStatusDisabled})
	return catalog.NewResolver(s.Catalog(), s.Orders())
}

func TestNormalizeToken_AnchoCompleto(t *testing.T) {
	assert.Equal(t, "LOC001", catalog.NormalizeToken("  ＬＯＣ００１ "))
}

func TestResolveMaterial_PorCodigoDeBarrasIdYCodigo(t *testing.T) {
	r := newResolver()
	ctx := context.Background()
	for _, tok := range []string{"690001", "mat-1", "MAT-001", "６９０００１"} {
		m, err := r.ResolveMaterial(ctx, tok)
		require.NoError(t, err, tok)
		assert.Equal(t, "mat-1", m.ID, tok)
	}
}

func TestResolveMaterial_CodigoDeOtroTipoEsNoEncontrado(t *testing.T) {
	r := newResolver()
	_, err := r.ResolveMaterial(context.Background(), "LOC001")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = r.ResolveMaterial(context.Background(), "EMPTY")
	assert.ErrorIs(t, err, domain.ErrNotFound, "código sin entidad asociada")

	_, err = r.ResolveMaterial(context.Background(), "OFF1")
	assert.ErrorIs(t, err, domain.ErrInactiveEntity)
}

func TestResolveLocation_Desconocida(t *testing.T) {
	r := newResolver()
	_, err := r.ResolveLocation(context.Background(), "NOPE")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Un código vacío tampoco resuelve a nada.
	_, err = r.ResolveLocation(context.Background(), "   ")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResolveOrder_Desconocida(t *testing.T) {
	r := newResolver()
	_, err := r.ResolveOrder(context.Background(), "PO-404")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecognize(t *testing.T) {
	r := newResolver()
	ctx := context.Background()

	rec, err := r.Recognize(ctx, "LOC001")
	require.NoError(t, err)
	assert.Equal(t, entity.BarcodeTypeLocation, rec.Type)
	require.NotNil(t, rec.Location)
	assert.Equal(t, "A-01", rec.Location.Code)

	rec, err = r.Recognize(ctx, "OP-7")
	require.NoError(t, err)
	assert.Equal(t, "user-7", rec.OperatorID)

	_, err = r.Recognize(ctx, "mat-1")
	assert.ErrorIs(t, err, domain.ErrNotFound, "un id que no es código registrado no se reconoce")
}
