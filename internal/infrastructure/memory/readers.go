package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var (
	_ repository.BalanceReader          = balanceReader{}
	_ repository.TransactionReader      = transactionReader{}
	_ repository.ProcurementOrderReader = orderReader{}
	_ repository.StatusHistoryReader    = historyReader{}
	_ repository.ScanHistoryRepository  = scanRepo{}
	_ repository.CatalogRepository      = catalogRepo{}
)

type balanceReader struct{ s *Store }

func (r balanceReader) Get(_ context.Context, key entity.BalanceKey) (*entity.Balance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if b, ok := r.s.balances[key]; ok {
		return cloneBalance(b), nil
	}
	return nil, nil
}

func (r balanceReader) List(_ context.Context, f repository.BalanceFilter) ([]*entity.Balance, error) {
	r.s.mu.RLock()
	out := make([]*entity.Balance, 0)
	for _, b := range r.s.balances {
		if f.MaterialID != "" && b.MaterialID != f.MaterialID {
			continue
		}
		if f.LocationID != "" && b.LocationID != f.LocationID {
			continue
		}
		if f.Batch != "" && b.Batch != f.Batch {
			continue
		}
		if f.OnlyNonZero && b.Quantity == 0 {
			continue
		}
		out = append(out, cloneBalance(b))
	}
	r.s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Key().Less(out[j].Key()) })
	return page(out, f.Limit, f.Offset), nil
}

func (r balanceReader) TotalsByMaterial(_ context.Context) (map[string]int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	totals := make(map[string]int64)
	for _, b := range r.s.balances {
		totals[b.MaterialID] += b.Quantity
	}
	return totals, nil
}

type transactionReader struct{ s *Store }

func (r transactionReader) GetByNumber(_ context.Context, number string) (*entity.Transaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if t, ok := r.s.txnByNumber[number]; ok {
		return cloneTransaction(t), nil
	}
	return nil, nil
}

func (r transactionReader) List(_ context.Context, f repository.TransactionFilter) ([]*entity.Transaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Transaction, 0)
	for _, t := range r.s.txns {
		if f.MaterialID != "" && t.MaterialID != f.MaterialID {
			continue
		}
		if f.LocationID != "" && t.LocationID != f.LocationID {
			continue
		}
		if f.Batch != nil && t.Batch != *f.Batch {
			continue
		}
		if f.Type != "" && t.Type != f.Type {
			continue
		}
		if f.OrderID != "" && t.OrderID != f.OrderID {
			continue
		}
		out = append(out, cloneTransaction(t))
	}
	return page(out, f.Limit, f.Offset), nil
}

type orderReader struct{ s *Store }

func (r orderReader) GetByID(_ context.Context, id string) (*entity.ProcurementOrder, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if o, ok := r.s.orders[id]; ok {
		return cloneOrder(o), nil
	}
	return nil, nil
}

func (r orderReader) GetByNumber(ctx context.Context, number string) (*entity.ProcurementOrder, error) {
	r.s.mu.RLock()
	id, ok := r.s.orderByNumber[number]
	r.s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return r.GetByID(ctx, id)
}

func (r orderReader) List(_ context.Context, f repository.OrderFilter) ([]*entity.ProcurementOrder, error) {
	r.s.mu.RLock()
	out := make([]*entity.ProcurementOrder, 0)
	for _, o := range r.s.orders {
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if f.SupplierID != "" && o.SupplierID != f.SupplierID {
			continue
		}
		out = append(out, cloneOrder(o))
	}
	r.s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, f.Limit, f.Offset), nil
}

type historyReader struct{ s *Store }

func (r historyReader) ListByOrder(_ context.Context, orderID string) ([]*entity.StatusEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	entries := r.s.history[orderID]
	out := make([]*entity.StatusEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, cloneEntry(e))
	}
	return out, nil
}

type scanRepo struct{ s *Store }

func (r scanRepo) Create(_ context.Context, rec *entity.ScanRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.scans = append(r.s.scans, cloneScan(rec))
	return nil
}

func (r scanRepo) List(_ context.Context, f repository.ScanFilter) ([]*entity.ScanRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.ScanRecord, 0)
	// más recientes primero
	for i := len(r.s.scans) - 1; i >= 0; i-- {
		rec := r.s.scans[i]
		if f.Barcode != "" && rec.Barcode != f.Barcode {
			continue
		}
		if f.OperationType != "" && rec.OperationType != f.OperationType {
			continue
		}
		if f.Result != "" && rec.Result != f.Result {
			continue
		}
		out = append(out, cloneScan(rec))
	}
	return page(out, f.Limit, f.Offset), nil
}

type catalogRepo struct{ s *Store }

func (r catalogRepo) GetMaterial(_ context.Context, id string) (*entity.Material, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if m, ok := r.s.materials[id]; ok {
		c := *m
		return &c, nil
	}
	return nil, nil
}

func (r catalogRepo) GetMaterialByCode(_ context.Context, code string) (*entity.Material, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, m := range r.s.materials {
		if m.Code == code {
			c := *m
			return &c, nil
		}
	}
	return nil, nil
}

func (r catalogRepo) GetLocation(_ context.Context, id string) (*entity.Location, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if l, ok := r.s.locations[id]; ok {
		c := *l
		return &c, nil
	}
	return nil, nil
}

func (r catalogRepo) GetLocationByCode(_ context.Context, code string) (*entity.Location, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, l := range r.s.locations {
		if l.Code == code {
			c := *l
			return &c, nil
		}
	}
	return nil, nil
}

func (r catalogRepo) GetBarcode(_ context.Context, number string) (*entity.Barcode, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if b, ok := r.s.barcodes[number]; ok {
		c := *b
		return &c, nil
	}
	return nil, nil
}

func (r catalogRepo) ListMaterials(_ context.Context, onlyActive bool) ([]*entity.Material, error) {
	r.s.mu.RLock()
	out := make([]*entity.Material, 0, len(r.s.materials))
	for _, m := range r.s.materials {
		if onlyActive && !m.Active {
			continue
		}
		c := *m
		out = append(out, &c)
	}
	r.s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return items[:0]
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
