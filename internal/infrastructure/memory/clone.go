package memory

import "github.com/jhoicas/inventario-ledger/internal/domain/entity"

func cloneBalance(b *entity.Balance) *entity.Balance {
	c := *b
	return &c
}

func cloneTransaction(t *entity.Transaction) *entity.Transaction {
	c := *t
	return &c
}

func cloneOrder(o *entity.ProcurementOrder) *entity.ProcurementOrder {
	c := *o
	c.Items = append([]entity.ProcurementItem(nil), o.Items...)
	return &c
}

func cloneEntry(e *entity.StatusEntry) *entity.StatusEntry {
	c := *e
	return &c
}

func cloneScan(r *entity.ScanRecord) *entity.ScanRecord {
	c := *r
	return &c
}
