package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// CatalogRepository lecturas del catálogo (materiales, ubicaciones, códigos de barras).
// El catálogo lo administra otro módulo: aquí no hay escrituras.
// Todos los Get devuelven nil, nil cuando no existe.
type CatalogRepository interface {
	GetMaterial(ctx context.Context, id string) (*entity.Material, error)
	GetMaterialByCode(ctx context.Context, code string) (*entity.Material, error)
	GetLocation(ctx context.Context, id string) (*entity.Location, error)
	GetLocationByCode(ctx context.Context, code string) (*entity.Location, error)
	GetBarcode(ctx context.Context, number string) (*entity.Barcode, error)
	ListMaterials(ctx context.Context, onlyActive bool) ([]*entity.Material, error)
}
