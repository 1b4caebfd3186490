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
	_ repository.TransactionRepository = (*TransactionRepo)(nil)
	_ repository.TransactionReader     = (*TransactionRepo)(nil)
)

const transactionColumns = `id, seq, number, type, adjustment_kind, material_id, location_id, batch,
	from_location_id, to_location_id, delta, balance_id, balance_after, order_id, item_id, operator, reason, created_at`

// TransactionRepo registro append-only de transacciones.
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

func scanTransaction(row pgx.Row) (*entity.Transaction, error) {
	var t entity.Transaction
	err := row.Scan(
		&t.ID, &t.Seq, &t.Number, &t.Type, &t.AdjustmentKind, &t.MaterialID, &t.LocationID, &t.Batch,
		&t.FromLocationID, &t.ToLocationID, &t.Delta, &t.BalanceID, &t.BalanceAfter, &t.OrderID, &t.ItemID,
		&t.Operator, &t.Reason, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create inserta la transacción; seq lo asigna la secuencia de la tabla.
func (r *TransactionRepo) Create(ctx context.Context, t *entity.Transaction) error {
	query := `
		INSERT INTO inventory_transactions (id, number, type, adjustment_kind, material_id, location_id, batch,
			from_location_id, to_location_id, delta, balance_id, balance_after, order_id, item_id, operator, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING seq`
	err := r.q.QueryRow(ctx, query,
		t.ID, t.Number, t.Type, t.AdjustmentKind, t.MaterialID, t.LocationID, t.Batch,
		t.FromLocationID, t.ToLocationID, t.Delta, t.BalanceID, t.BalanceAfter, t.OrderID, t.ItemID,
		t.Operator, t.Reason, t.CreatedAt,
	).Scan(&t.Seq)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("transacción %s: %w", t.Number, domain.ErrDuplicateTransactionNumber)
		}
		return wrap("create transaction", err)
	}
	return nil
}

// GetByNumber devuelve nil si no existe.
func (r *TransactionRepo) GetByNumber(ctx context.Context, number string) (*entity.Transaction, error) {
	t, err := scanTransaction(r.q.QueryRow(ctx,
		`SELECT `+transactionColumns+` FROM inventory_transactions WHERE number = $1`, number))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrap("get transaction", err)
	}
	return t, nil
}

// List transacciones filtradas en orden de commit (seq).
func (r *TransactionRepo) List(ctx context.Context, f repository.TransactionFilter) ([]*entity.Transaction, error) {
	var w where
	if f.MaterialID != "" {
		w.add("material_id = $%d", f.MaterialID)
	}
	if f.LocationID != "" {
		w.add("location_id = $%d", f.LocationID)
	}
	if f.Batch != nil {
		w.add("batch = $%d", *f.Batch)
	}
	if f.Type != "" {
		w.add("type = $%d", f.Type)
	}
	if f.OrderID != "" {
		w.add("order_id = $%d", f.OrderID)
	}
	query := `SELECT ` + transactionColumns + ` FROM inventory_transactions` + w.String() + ` ORDER BY seq`
	query += w.page(f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, wrap("list transactions", err)
	}
	defer rows.Close()
	var out []*entity.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
