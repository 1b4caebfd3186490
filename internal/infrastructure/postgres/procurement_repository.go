package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var (
	_ repository.ProcurementOrderRepository = (*ProcurementOrderRepo)(nil)
	_ repository.ProcurementOrderReader     = (*ProcurementOrderRepo)(nil)
)

const orderColumns = `id, number, supplier_id, status, order_date, expected_delivery_date, actual_delivery_date,
	total_amount, payment_terms, remarks, created_by, created_at, updated_at`

// ProcurementOrderRepo órdenes de compra y sus ítems.
type ProcurementOrderRepo struct {
	q Querier
}

// NewProcurementOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProcurementOrderRepository(q Querier) *ProcurementOrderRepo {
	return &ProcurementOrderRepo{q: q}
}

// Create inserta cabecera e ítems en un solo batch.
func (r *ProcurementOrderRepo) Create(ctx context.Context, o *entity.ProcurementOrder) error {
	batch := &pgx.Batch{}
	batch.Queue(`
		INSERT INTO procurement_orders (id, number, supplier_id, status, order_date, expected_delivery_date,
			actual_delivery_date, total_amount, payment_terms, remarks, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		o.ID, o.Number, o.SupplierID, o.Status, o.OrderDate, o.ExpectedDeliveryDate,
		o.ActualDeliveryDate, o.TotalAmount, o.PaymentTerms, o.Remarks, o.CreatedBy, o.CreatedAt, o.UpdatedAt,
	)
	for i, it := range o.Items {
		batch.Queue(`
			INSERT INTO procurement_items (id, order_id, position, material_id, quantity, unit_price, total_price, received_quantity, remarks)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			it.ID, o.ID, i, it.MaterialID, it.Quantity, it.UnitPrice, it.TotalPrice, it.ReceivedQuantity, it.Remarks,
		)
	}
	results := r.q.SendBatch(ctx, batch)
	defer results.Close()
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("orden %s: %w", o.Number, domain.ErrDuplicateTransactionNumber)
			}
			return wrap("create order", err)
		}
	}
	return nil
}

// GetForUpdate bloquea la cabecera; los ítems solo se modifican con la cabecera bloqueada.
func (r *ProcurementOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.ProcurementOrder, error) {
	return r.load(ctx, `SELECT `+orderColumns+` FROM procurement_orders WHERE id = $1 FOR UPDATE`, id)
}

// Save actualiza estado, fecha de entrega y cantidades recibidas.
func (r *ProcurementOrderRepo) Save(ctx context.Context, o *entity.ProcurementOrder) error {
	batch := &pgx.Batch{}
	batch.Queue(`
		UPDATE procurement_orders
		SET status = $1, actual_delivery_date = $2, total_amount = $3, updated_at = $4
		WHERE id = $5`,
		o.Status, o.ActualDeliveryDate, o.TotalAmount, o.UpdatedAt, o.ID,
	)
	for _, it := range o.Items {
		batch.Queue(`UPDATE procurement_items SET received_quantity = $1 WHERE id = $2 AND order_id = $3`,
			it.ReceivedQuantity, it.ID, o.ID)
	}
	results := r.q.SendBatch(ctx, batch)
	defer results.Close()
	for i := 0; i < batch.Len(); i++ {
		tag, err := results.Exec()
		if err != nil {
			return wrap("save order", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("orden %s: %w", o.ID, domain.ErrNotFound)
		}
	}
	return nil
}

// GetByID devuelve nil si no existe.
func (r *ProcurementOrderRepo) GetByID(ctx context.Context, id string) (*entity.ProcurementOrder, error) {
	return r.load(ctx, `SELECT `+orderColumns+` FROM procurement_orders WHERE id = $1`, id)
}

// GetByNumber devuelve nil si no existe.
func (r *ProcurementOrderRepo) GetByNumber(ctx context.Context, number string) (*entity.ProcurementOrder, error) {
	return r.load(ctx, `SELECT `+orderColumns+` FROM procurement_orders WHERE number = $1`, number)
}

// List órdenes más recientes primero, con sus ítems.
func (r *ProcurementOrderRepo) List(ctx context.Context, f repository.OrderFilter) ([]*entity.ProcurementOrder, error) {
	var w where
	if f.Status != "" {
		w.add("status = $%d", f.Status)
	}
	if f.SupplierID != "" {
		w.add("supplier_id = $%d", f.SupplierID)
	}
	query := `SELECT ` + orderColumns + ` FROM procurement_orders` + w.String() + ` ORDER BY created_at DESC, number DESC`
	query += w.page(f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, wrap("list orders", err)
	}
	var out []*entity.ProcurementOrder
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan order: %w", err)
		}
		out = append(out, o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, wrap("list orders", err)
	}
	for _, o := range out {
		if o.Items, err = r.items(ctx, o.ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *ProcurementOrderRepo) load(ctx context.Context, query, arg string) (*entity.ProcurementOrder, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrap("get order", err)
	}
	if o.Items, err = r.items(ctx, o.ID); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *ProcurementOrderRepo) items(ctx context.Context, orderID string) ([]entity.ProcurementItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, order_id, material_id, quantity, unit_price, total_price, received_quantity, remarks
		FROM procurement_items WHERE order_id = $1 ORDER BY position`, orderID)
	if err != nil {
		return nil, wrap("list items", err)
	}
	defer rows.Close()
	var items []entity.ProcurementItem
	for rows.Next() {
		var it entity.ProcurementItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.MaterialID, &it.Quantity, &it.UnitPrice, &it.TotalPrice,
			&it.ReceivedQuantity, &it.Remarks); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func scanOrder(row pgx.Row) (*entity.ProcurementOrder, error) {
	var o entity.ProcurementOrder
	err := row.Scan(
		&o.ID, &o.Number, &o.SupplierID, &o.Status, &o.OrderDate, &o.ExpectedDeliveryDate, &o.ActualDeliveryDate,
		&o.TotalAmount, &o.PaymentTerms, &o.Remarks, &o.CreatedBy, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

var (
	_ repository.StatusHistoryRepository = (*StatusHistoryRepo)(nil)
	_ repository.StatusHistoryReader     = (*StatusHistoryRepo)(nil)
)

// StatusHistoryRepo historial append-only de estados.
type StatusHistoryRepo struct {
	q Querier
}

// NewStatusHistoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStatusHistoryRepository(q Querier) *StatusHistoryRepo {
	return &StatusHistoryRepo{q: q}
}

// Append inserta una entrada.
func (r *StatusHistoryRepo) Append(ctx context.Context, e *entity.StatusEntry) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO procurement_status_history (id, order_id, from_status, to_status, operator, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.ID, e.OrderID, e.FromStatus, e.ToStatus, e.Operator, e.Note, e.CreatedAt)
	return wrap("append status entry", err)
}

// ListByOrder historial de la orden en orden cronológico.
func (r *StatusHistoryRepo) ListByOrder(ctx context.Context, orderID string) ([]*entity.StatusEntry, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, order_id, from_status, to_status, operator, note, created_at
		FROM procurement_status_history WHERE order_id = $1 ORDER BY created_at, id`, orderID)
	if err != nil {
		return nil, wrap("list status history", err)
	}
	defer rows.Close()
	var out []*entity.StatusEntry
	for rows.Next() {
		var e entity.StatusEntry
		if err := rows.Scan(&e.ID, &e.OrderID, &e.FromStatus, &e.ToStatus, &e.Operator, &e.Note, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan status entry: %w", err)
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}
