package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// tx escrituras pendientes y bloqueos tomados por una unidad transaccional.
type tx struct {
	s    *Store
	held []string
	has  map[string]bool

	balances     map[entity.BalanceKey]*entity.Balance
	balanceBase  map[entity.BalanceKey]int64 // versión leída al bloquear
	dirty        map[entity.BalanceKey]bool
	txns         []*entity.Transaction
	orders       map[string]*entity.ProcurementOrder
	newOrders    map[string]bool
	dirtyOrders  map[string]bool
	orderOrder   []string
	statusWrites []*entity.StatusEntry
}

func (s *Store) begin() *tx {
	return &tx{
		s:           s,
		has:         make(map[string]bool),
		balances:    make(map[entity.BalanceKey]*entity.Balance),
		balanceBase: make(map[entity.BalanceKey]int64),
		dirty:       make(map[entity.BalanceKey]bool),
		orders:      make(map[string]*entity.ProcurementOrder),
		newOrders:   make(map[string]bool),
		dirtyOrders: make(map[string]bool),
	}
}

func (t *tx) repos() repository.TxRepos {
	return repository.TxRepos{
		Balances:      txBalances{t},
		Transactions:  txTransactions{t},
		Orders:        txOrders{t},
		StatusHistory: txHistory{t},
	}
}

// lock es reentrante dentro de la misma tx.
func (t *tx) lock(ctx context.Context, name string) error {
	if t.has[name] {
		return nil
	}
	if err := t.s.locks.acquire(ctx, name); err != nil {
		return err
	}
	t.has[name] = true
	t.held = append(t.held, name)
	return nil
}

func (t *tx) release() {
	for i := len(t.held) - 1; i >= 0; i-- {
		t.s.locks.release(t.held[i])
	}
	t.held = nil
	t.has = map[string]bool{}
}

func (t *tx) commit() error {
	s := t.s
	s.mu.Lock()
	defer s.mu.Unlock()

	// Validación completa antes de aplicar: todo o nada.
	seen := make(map[string]bool, len(t.txns))
	for _, txn := range t.txns {
		if _, ok := s.txnByNumber[txn.Number]; ok || seen[txn.Number] {
			return fmt.Errorf("transacción %s: %w", txn.Number, domain.ErrDuplicateTransactionNumber)
		}
		seen[txn.Number] = true
	}
	for key := range t.dirty {
		base := t.balanceBase[key]
		cur, ok := s.balances[key]
		if (ok && cur.Version != base) || (!ok && base != 0) {
			return fmt.Errorf("saldo %s: %w", key, domain.ErrConcurrentUpdate)
		}
	}
	for id := range t.newOrders {
		o := t.orders[id]
		if _, ok := s.orders[id]; ok {
			return fmt.Errorf("orden %s: %w", id, domain.ErrInvalidInput)
		}
		if _, ok := s.orderByNumber[o.Number]; ok {
			return fmt.Errorf("orden %s: %w", o.Number, domain.ErrDuplicateTransactionNumber)
		}
	}

	for key := range t.dirty {
		b := cloneBalance(t.balances[key])
		b.Version = t.balanceBase[key] + 1
		s.balances[key] = b
	}
	for _, txn := range t.txns {
		s.seq++
		txn.Seq = s.seq
		c := cloneTransaction(txn)
		s.txns = append(s.txns, c)
		s.txnByNumber[c.Number] = c
	}
	for _, id := range t.orderOrder {
		if !t.dirtyOrders[id] && !t.newOrders[id] {
			continue
		}
		o := cloneOrder(t.orders[id])
		s.orders[id] = o
		s.orderByNumber[o.Number] = id
	}
	for _, e := range t.statusWrites {
		s.history[e.OrderID] = append(s.history[e.OrderID], cloneEntry(e))
	}
	return nil
}

type txBalances struct{ t *tx }

func (r txBalances) Get(_ context.Context, key entity.BalanceKey) (*entity.Balance, error) {
	if b, ok := r.t.balances[key]; ok {
		return cloneBalance(b), nil
	}
	r.t.s.mu.RLock()
	defer r.t.s.mu.RUnlock()
	if b, ok := r.t.s.balances[key]; ok {
		return cloneBalance(b), nil
	}
	return nil, nil
}

func (r txBalances) GetForUpdate(ctx context.Context, key entity.BalanceKey, lot entity.LotDates) (*entity.Balance, error) {
	if err := r.t.lock(ctx, "balance:"+key.String()); err != nil {
		return nil, err
	}
	if b, ok := r.t.balances[key]; ok {
		return b, nil
	}

	r.t.s.mu.RLock()
	cur, ok := r.t.s.balances[key]
	var b *entity.Balance
	if ok {
		b = cloneBalance(cur)
	}
	r.t.s.mu.RUnlock()

	if b == nil {
		now := time.Now()
		b = &entity.Balance{
			ID:             uuid.New().String(),
			MaterialID:     key.MaterialID,
			LocationID:     key.LocationID,
			Batch:          key.Batch,
			ProductionDate: lot.ProductionDate,
			ExpiryDate:     lot.ExpiryDate,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
	}
	r.t.balances[key] = b
	r.t.balanceBase[key] = b.Version
	return b, nil
}

func (r txBalances) Save(_ context.Context, b *entity.Balance) error {
	if b.Quantity < 0 {
		return domain.ErrInsufficientStock
	}
	key := b.Key()
	if _, ok := r.t.balanceBase[key]; !ok {
		r.t.balanceBase[key] = b.Version
	}
	r.t.balances[key] = b
	r.t.dirty[key] = true
	return nil
}

type txTransactions struct{ t *tx }

func (r txTransactions) Create(_ context.Context, txn *entity.Transaction) error {
	for _, p := range r.t.txns {
		if p.Number == txn.Number {
			return fmt.Errorf("transacción %s: %w", txn.Number, domain.ErrDuplicateTransactionNumber)
		}
	}
	r.t.s.mu.RLock()
	_, dup := r.t.s.txnByNumber[txn.Number]
	r.t.s.mu.RUnlock()
	if dup {
		return fmt.Errorf("transacción %s: %w", txn.Number, domain.ErrDuplicateTransactionNumber)
	}
	r.t.txns = append(r.t.txns, txn)
	return nil
}

type txOrders struct{ t *tx }

func (r txOrders) Create(_ context.Context, o *entity.ProcurementOrder) error {
	if _, ok := r.t.orders[o.ID]; ok {
		return domain.ErrInvalidInput
	}
	r.t.orders[o.ID] = cloneOrder(o)
	r.t.newOrders[o.ID] = true
	r.t.orderOrder = append(r.t.orderOrder, o.ID)
	return nil
}

func (r txOrders) GetForUpdate(ctx context.Context, id string) (*entity.ProcurementOrder, error) {
	if err := r.t.lock(ctx, "order:"+id); err != nil {
		return nil, err
	}
	if o, ok := r.t.orders[id]; ok {
		return cloneOrder(o), nil
	}
	r.t.s.mu.RLock()
	cur, ok := r.t.s.orders[id]
	r.t.s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	o := cloneOrder(cur)
	r.t.orders[id] = o
	r.t.orderOrder = append(r.t.orderOrder, id)
	return cloneOrder(o), nil
}

func (r txOrders) Save(_ context.Context, o *entity.ProcurementOrder) error {
	if _, ok := r.t.orders[o.ID]; !ok {
		return fmt.Errorf("orden %s: %w", o.ID, domain.ErrNotFound)
	}
	r.t.orders[o.ID] = cloneOrder(o)
	r.t.dirtyOrders[o.ID] = true
	return nil
}

type txHistory struct{ t *tx }

func (r txHistory) Append(_ context.Context, e *entity.StatusEntry) error {
	r.t.statusWrites = append(r.t.statusWrites, cloneEntry(e))
	return nil
}
