package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de la orden de compra.
const (
	OrderStatusDraft     = "draft"
	OrderStatusSubmitted = "submitted"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipping  = "shipping"
	OrderStatusReceived  = "received"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// ProcurementOrder orden de compra a proveedor con sus ítems.
// Status se deriva de los ítems en cada recepción; TotalAmount = suma de TotalPrice.
type ProcurementOrder struct {
	ID                   string
	Number               string
	SupplierID           string
	Status               string
	OrderDate            time.Time
	ExpectedDeliveryDate *time.Time
	ActualDeliveryDate   *time.Time
	TotalAmount          decimal.Decimal
	PaymentTerms         string
	Remarks              string
	CreatedBy            string
	Items                []ProcurementItem
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Item devuelve el ítem con el id dado o nil si no pertenece a la orden.
func (o *ProcurementOrder) Item(id string) *ProcurementItem {
	for i := range o.Items {
		if o.Items[i].ID == id {
			return &o.Items[i]
		}
	}
	return nil
}

// AllReceived indica si todos los ítems tienen received >= ordered.
func (o *ProcurementOrder) AllReceived() bool {
	for _, it := range o.Items {
		if !it.Complete() {
			return false
		}
	}
	return true
}

// ProcurementItem línea de la orden. ReceivedQuantity solo crece.
type ProcurementItem struct {
	ID               string
	OrderID          string
	MaterialID       string
	Quantity         int64 // cantidad ordenada
	UnitPrice        decimal.Decimal
	TotalPrice       decimal.Decimal
	ReceivedQuantity int64
	Remarks          string
}

// Complete indica si el ítem está totalmente recibido.
func (i ProcurementItem) Complete() bool {
	return i.ReceivedQuantity >= i.Quantity
}

// Pending devuelve la cantidad aún no recibida (0 si ya se completó o se excedió).
func (i ProcurementItem) Pending() int64 {
	if i.ReceivedQuantity >= i.Quantity {
		return 0
	}
	return i.Quantity - i.ReceivedQuantity
}
