package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.CatalogRepository = (*CatalogRepo)(nil)

const (
	materialColumns = `id, code, name, category, unit, min_stock, max_stock, active, created_at, updated_at`
	locationColumns = `id, code, name, warehouse_id, area, capacity, active, created_at, updated_at`
)

// CatalogRepo lecturas de materiales, ubicaciones y códigos de barras.
type CatalogRepo struct {
	q Querier
}

// NewCatalogRepository construye el adaptador.
func NewCatalogRepository(q Querier) *CatalogRepo {
	return &CatalogRepo{q: q}
}

func scanMaterial(row pgx.Row) (*entity.Material, error) {
	var m entity.Material
	if err := row.Scan(&m.ID, &m.Code, &m.Name, &m.Category, &m.Unit, &m.MinStock, &m.MaxStock, &m.Active,
		&m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *CatalogRepo) material(ctx context.Context, query, arg string) (*entity.Material, error) {
	m, err := scanMaterial(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrap("get material", err)
	}
	return m, nil
}

// GetMaterial por id.
func (r *CatalogRepo) GetMaterial(ctx context.Context, id string) (*entity.Material, error) {
	return r.material(ctx, `SELECT `+materialColumns+` FROM materials WHERE id = $1`, id)
}

// GetMaterialByCode por código.
func (r *CatalogRepo) GetMaterialByCode(ctx context.Context, code string) (*entity.Material, error) {
	return r.material(ctx, `SELECT `+materialColumns+` FROM materials WHERE code = $1`, code)
}

func (r *CatalogRepo) location(ctx context.Context, query, arg string) (*entity.Location, error) {
	var l entity.Location
	err := r.q.QueryRow(ctx, query, arg).Scan(&l.ID, &l.Code, &l.Name, &l.WarehouseID, &l.Area, &l.Capacity,
		&l.Active, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrap("get location", err)
	}
	return &l, nil
}

// GetLocation por id.
func (r *CatalogRepo) GetLocation(ctx context.Context, id string) (*entity.Location, error) {
	return r.location(ctx, `SELECT `+locationColumns+` FROM locations WHERE id = $1`, id)
}

// GetLocationByCode por código.
func (r *CatalogRepo) GetLocationByCode(ctx context.Context, code string) (*entity.Location, error) {
	return r.location(ctx, `SELECT `+locationColumns+` FROM locations WHERE code = $1`, code)
}

// GetBarcode por número.
func (r *CatalogRepo) GetBarcode(ctx context.Context, number string) (*entity.Barcode, error) {
	var b entity.Barcode
	err := r.q.QueryRow(ctx, `SELECT number, type, status, reference_id, created_at FROM barcodes WHERE number = $1`, number).
		Scan(&b.Number, &b.Type, &b.Status, &b.ReferenceID, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrap("get barcode", err)
	}
	return &b, nil
}

// ListMaterials por código; onlyActive excluye los inactivos.
func (r *CatalogRepo) ListMaterials(ctx context.Context, onlyActive bool) ([]*entity.Material, error) {
	query := `SELECT ` + materialColumns + ` FROM materials`
	if onlyActive {
		query += ` WHERE active`
	}
	rows, err := r.q.Query(ctx, query+` ORDER BY code`)
	if err != nil {
		return nil, wrap("list materials", err)
	}
	defer rows.Close()
	var out []*entity.Material
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, fmt.Errorf("scan material: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
