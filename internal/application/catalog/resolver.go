// Package catalog resuelve códigos de barras o identificadores a entidades del catálogo.
package catalog

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// Recognition resultado de reconocer un código: solo uno de los punteros viene lleno según Type.
type Recognition struct {
	Barcode    string
	Type       string
	Material   *entity.Material
	Location   *entity.Location
	Order      *entity.ProcurementOrder
	OperatorID string
}

// Resolver lecturas de catálogo por código de barras, id o código.
type Resolver struct {
	catalog repository.CatalogRepository
	orders  repository.ProcurementOrderReader
}

// NewResolver construye el resolvedor.
func NewResolver(catalog repository.CatalogRepository, orders repository.ProcurementOrderReader) *Resolver {
	return &Resolver{catalog: catalog, orders: orders}
}

// NormalizeToken normaliza un código leído por escáner.
func NormalizeToken(token string) string {
	return entity.NormalizeLabel(token)
}

// ResolveMaterial primero como código de barras tipado, luego como id y por último como código.
func (r *Resolver) ResolveMaterial(ctx context.Context, token string) (*entity.Material, error) {
	tok := NormalizeToken(token)
	if tok == "" {
		return nil, fmt.Errorf("código vacío: %w", domain.ErrNotFound)
	}
	ref, found, err := r.barcodeRef(ctx, tok, entity.BarcodeTypeMaterial)
	if err != nil {
		return nil, err
	}
	if found {
		return r.material(ctx, ref, tok)
	}
	m, err := r.catalog.GetMaterial(ctx, tok)
	if err != nil {
		return nil, err
	}
	if m == nil {
		if m, err = r.catalog.GetMaterialByCode(ctx, tok); err != nil {
			return nil, err
		}
	}
	if m == nil {
		return nil, fmt.Errorf("material %q: %w", tok, domain.ErrNotFound)
	}
	return m, nil
}

// ResolveLocation igual que ResolveMaterial para ubicaciones.
func (r *Resolver) ResolveLocation(ctx context.Context, token string) (*entity.Location, error) {
	tok := NormalizeToken(token)
	if tok == "" {
		return nil, fmt.Errorf("código vacío: %w", domain.ErrNotFound)
	}
	ref, found, err := r.barcodeRef(ctx, tok, entity.BarcodeTypeLocation)
	if err != nil {
		return nil, err
	}
	if found {
		return r.location(ctx, ref, tok)
	}
	l, err := r.catalog.GetLocation(ctx, tok)
	if err != nil {
		return nil, err
	}
	if l == nil {
		if l, err = r.catalog.GetLocationByCode(ctx, tok); err != nil {
			return nil, err
		}
	}
	if l == nil {
		return nil, fmt.Errorf("ubicación %q: %w", tok, domain.ErrNotFound)
	}
	return l, nil
}

// ResolveOrder por código de barras de orden, id o número de orden.
func (r *Resolver) ResolveOrder(ctx context.Context, token string) (*entity.ProcurementOrder, error) {
	tok := NormalizeToken(token)
	if tok == "" {
		return nil, fmt.Errorf("código vacío: %w", domain.ErrNotFound)
	}
	ref, found, err := r.barcodeRef(ctx, tok, entity.BarcodeTypeOrder)
	if err != nil {
		return nil, err
	}
	if found {
		return r.order(ctx, ref, tok)
	}
	o, err := r.orders.GetByID(ctx, tok)
	if err != nil {
		return nil, err
	}
	if o == nil {
		if o, err = r.orders.GetByNumber(ctx, tok); err != nil {
			return nil, err
		}
	}
	if o == nil {
		return nil, fmt.Errorf("orden %q: %w", tok, domain.ErrNotFound)
	}
	return o, nil
}

// Recognize identifica el tipo de un código de barras registrado y carga su entidad.
func (r *Resolver) Recognize(ctx context.Context, token string) (*Recognition, error) {
	tok := NormalizeToken(token)
	if tok == "" {
		return nil, fmt.Errorf("código vacío: %w", domain.ErrNotFound)
	}
	bc, err := r.catalog.GetBarcode(ctx, tok)
	if err != nil {
		return nil, err
	}
	if bc == nil {
		return nil, fmt.Errorf("código %q: %w", tok, domain.ErrNotFound)
	}
	if bc.ReferenceID == "" {
		return nil, fmt.Errorf("código %q sin entidad asociada: %w", tok, domain.ErrNotFound)
	}

	out := &Recognition{Barcode: bc.Number, Type: bc.Type}
	switch bc.Type {
	case entity.BarcodeTypeMaterial:
		out.Material, err = r.material(ctx, bc.ReferenceID, tok)
	case entity.BarcodeTypeLocation:
		out.Location, err = r.location(ctx, bc.ReferenceID, tok)
	case entity.BarcodeTypeOrder:
		out.Order, err = r.order(ctx, bc.ReferenceID, tok)
	case entity.BarcodeTypeOperator:
		out.OperatorID = bc.ReferenceID
	default:
		err = fmt.Errorf("código %q de tipo %q: %w", tok, bc.Type, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

// barcodeRef devuelve la referencia si tok es un código registrado del tipo esperado.
// Un código de otro tipo o sin referencia se trata como no encontrado.
func (r *Resolver) barcodeRef(ctx context.Context, tok, wantType string) (string, bool, error) {
	bc, err := r.catalog.GetBarcode(ctx, tok)
	if err != nil {
		return "", false, err
	}
	if bc == nil {
		return "", false, nil
	}
	if bc.Type != wantType || bc.ReferenceID == "" {
		return "", false, fmt.Errorf("código %q no corresponde a %s: %w", tok, wantType, domain.ErrNotFound)
	}
	if bc.Status == entity.BarcodeStatusDisabled {
		return "", false, fmt.Errorf("código %q: %w", tok, domain.ErrInactiveEntity)
	}
	return bc.ReferenceID, true, nil
}

func (r *Resolver) material(ctx context.Context, id, tok string) (*entity.Material, error) {
	m, err := r.catalog.GetMaterial(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("material del código %q: %w", tok, domain.ErrNotFound)
	}
	return m, nil
}

func (r *Resolver) location(ctx context.Context, id, tok string) (*entity.Location, error) {
	l, err := r.catalog.GetLocation(ctx, id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, fmt.Errorf("ubicación del código %q: %w", tok, domain.ErrNotFound)
	}
	return l, nil
}

func (r *Resolver) order(ctx context.Context, id, tok string) (*entity.ProcurementOrder, error) {
	o, err := r.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, fmt.Errorf("orden del código %q: %w", tok, domain.ErrNotFound)
	}
	return o, nil
}
