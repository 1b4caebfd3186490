package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.ScanHistoryRepository = (*ScanRepo)(nil)

// ScanRepo historial de escaneo. Se usa con el pool, fuera de la tx del movimiento.
type ScanRepo struct {
	q Querier
}

// NewScanRepository construye el adaptador.
func NewScanRepository(q Querier) *ScanRepo {
	return &ScanRepo{q: q}
}

// Create inserta un registro de escaneo.
func (r *ScanRepo) Create(ctx context.Context, s *entity.ScanRecord) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO scan_records (id, barcode, operation_type, quantity, location_barcode, order_barcode, batch,
			result, remark, transaction_number, operator, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		s.ID, s.Barcode, s.OperationType, s.Quantity, s.LocationBarcode, s.OrderBarcode, s.Batch,
		s.Result, s.Remark, s.TransactionNumber, s.Operator, s.CreatedAt)
	return wrap("create scan record", err)
}

// List más recientes primero.
func (r *ScanRepo) List(ctx context.Context, f repository.ScanFilter) ([]*entity.ScanRecord, error) {
	var w where
	if f.Barcode != "" {
		w.add("barcode = $%d", f.Barcode)
	}
	if f.OperationType != "" {
		w.add("operation_type = $%d", f.OperationType)
	}
	if f.Result != "" {
		w.add("result = $%d", f.Result)
	}
	query := `SELECT id, barcode, operation_type, quantity, location_barcode, order_barcode, batch,
		result, remark, transaction_number, operator, created_at
		FROM scan_records` + w.String() + ` ORDER BY created_at DESC, id DESC`
	query += w.page(f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, wrap("list scan records", err)
	}
	defer rows.Close()
	var out []*entity.ScanRecord
	for rows.Next() {
		var s entity.ScanRecord
		if err := rows.Scan(&s.ID, &s.Barcode, &s.OperationType, &s.Quantity, &s.LocationBarcode, &s.OrderBarcode,
			&s.Batch, &s.Result, &s.Remark, &s.TransactionNumber, &s.Operator, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}
