package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var (
	_ repository.BalanceRepository = (*BalanceRepo)(nil)
	_ repository.BalanceReader     = (*BalanceRepo)(nil)
)

const balanceColumns = `id, material_id, location_id, batch, quantity, production_date, expiry_date,
	COALESCE(last_transaction_id, ''), version, created_at, updated_at`

// BalanceRepo saldos sobre PostgreSQL (usable con pool o tx).
type BalanceRepo struct {
	q Querier
}

// NewBalanceRepository construye el adaptador de saldos. Pasar pool o tx (Querier).
func NewBalanceRepository(q Querier) *BalanceRepo {
	return &BalanceRepo{q: q}
}

func scanBalance(row pgx.Row) (*entity.Balance, error) {
	var b entity.Balance
	err := row.Scan(
		&b.ID, &b.MaterialID, &b.LocationID, &b.Batch, &b.Quantity, &b.ProductionDate, &b.ExpiryDate,
		&b.LastTransactionID, &b.Version, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Get devuelve el saldo o nil si no hay fila para la clave.
func (r *BalanceRepo) Get(ctx context.Context, key entity.BalanceKey) (*entity.Balance, error) {
	query := `SELECT ` + balanceColumns + ` FROM inventory_balances
		WHERE material_id = $1 AND location_id = $2 AND batch = $3`
	b, err := scanBalance(r.q.QueryRow(ctx, query, key.MaterialID, key.LocationID, key.Batch))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrap("get balance", err)
	}
	return b, nil
}

// GetForUpdate crea la fila en 0 si falta (ON CONFLICT DO NOTHING) y la bloquea con SELECT FOR UPDATE.
// Si otra tx insertó la misma clave sin confirmar, el INSERT espera a que termine.
func (r *BalanceRepo) GetForUpdate(ctx context.Context, key entity.BalanceKey, lot entity.LotDates) (*entity.Balance, error) {
	insert := `
		INSERT INTO inventory_balances (id, material_id, location_id, batch, quantity, production_date, expiry_date, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, 0, $5, $6, 0, $7, $7)
		ON CONFLICT (material_id, location_id, batch) DO NOTHING`
	if _, err := r.q.Exec(ctx, insert,
		uuid.New().String(), key.MaterialID, key.LocationID, key.Batch, lot.ProductionDate, lot.ExpiryDate, time.Now(),
	); err != nil {
		return nil, wrap("insert balance", err)
	}

	query := `SELECT ` + balanceColumns + ` FROM inventory_balances
		WHERE material_id = $1 AND location_id = $2 AND batch = $3
		FOR UPDATE`
	b, err := scanBalance(r.q.QueryRow(ctx, query, key.MaterialID, key.LocationID, key.Batch))
	if err != nil {
		return nil, wrap("get balance for update", err)
	}
	return b, nil
}

// Save actualiza cantidad y última transacción con control de versión.
func (r *BalanceRepo) Save(ctx context.Context, b *entity.Balance) error {
	if b.Quantity < 0 {
		return domain.ErrInsufficientStock
	}
	query := `
		UPDATE inventory_balances
		SET quantity = $1, last_transaction_id = NULLIF($2, ''), version = version + 1, updated_at = $3
		WHERE id = $4 AND version = $5`
	tag, err := r.q.Exec(ctx, query, b.Quantity, b.LastTransactionID, b.UpdatedAt, b.ID, b.Version)
	if err != nil {
		return wrap("save balance", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("saldo %s: %w", b.Key(), domain.ErrConcurrentUpdate)
	}
	b.Version++
	return nil
}

// List saldos filtrados, ordenados por clave.
func (r *BalanceRepo) List(ctx context.Context, f repository.BalanceFilter) ([]*entity.Balance, error) {
	var w where
	if f.MaterialID != "" {
		w.add("material_id = $%d", f.MaterialID)
	}
	if f.LocationID != "" {
		w.add("location_id = $%d", f.LocationID)
	}
	if f.Batch != "" {
		w.add("batch = $%d", f.Batch)
	}
	if f.OnlyNonZero {
		w.raw("quantity <> 0")
	}
	query := `SELECT ` + balanceColumns + ` FROM inventory_balances` + w.String() +
		` ORDER BY material_id, location_id, batch`
	query += w.page(f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, wrap("list balances", err)
	}
	defer rows.Close()
	var out []*entity.Balance
	for rows.Next() {
		b, err := scanBalance(rows)
		if err != nil {
			return nil, fmt.Errorf("scan balance: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// TotalsByMaterial suma de cantidades por material.
func (r *BalanceRepo) TotalsByMaterial(ctx context.Context) (map[string]int64, error) {
	rows, err := r.q.Query(ctx, `SELECT material_id, SUM(quantity)::BIGINT FROM inventory_balances GROUP BY material_id`)
	if err != nil {
		return nil, wrap("totals by material", err)
	}
	defer rows.Close()
	out := make(map[string]int64)
	for rows.Next() {
		var id string
		var total int64
		if err := rows.Scan(&id, &total); err != nil {
			return nil, fmt.Errorf("scan total: %w", err)
		}
		out[id] = total
	}
	return out, rows.Err()
}
