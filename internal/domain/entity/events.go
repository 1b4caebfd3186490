package entity

import "time"

// Tipos de evento emitidos por el núcleo.
const (
	EventTransactionCommitted = "inventory.transaction.committed"
	EventOrderStatusChanged   = "procurement.order.status_changed"
)

// Event es un hecho ya confirmado, listo para que un despachador externo lo reenvíe.
type Event interface {
	EventType() string
	OccurredAt() time.Time
}

// TransactionCommitted se emite después del commit de cada transacción de inventario.
type TransactionCommitted struct {
	Transaction Transaction `json:"transaction"`
}

func (e TransactionCommitted) EventType() string     { return EventTransactionCommitted }
func (e TransactionCommitted) OccurredAt() time.Time { return e.Transaction.CreatedAt }

// OrderStatusChanged se emite por cada StatusEntry agregado.
type OrderStatusChanged struct {
	OrderNumber string      `json:"order_number"`
	Entry       StatusEntry `json:"entry"`
}

func (e OrderStatusChanged) EventType() string     { return EventOrderStatusChanged }
func (e OrderStatusChanged) OccurredAt() time.Time { return e.Entry.CreatedAt }
