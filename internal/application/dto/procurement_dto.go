package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// CreateOrderRequest body para POST /api/procurement/orders.
type CreateOrderRequest struct {
	SupplierID           string                   `json:"supplier_id"`
	OrderDate            *time.Time               `json:"order_date,omitempty"`
	ExpectedDeliveryDate *time.Time               `json:"expected_delivery_date,omitempty"`
	PaymentTerms         string                   `json:"payment_terms,omitempty"`
	Remarks              string                   `json:"remarks,omitempty"`
	Items                []CreateOrderItemRequest `json:"items"`
}

// CreateOrderItemRequest línea de la orden.
type CreateOrderItemRequest struct {
	MaterialID string          `json:"material_id"`
	Quantity   int64           `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Remarks    string          `json:"remarks,omitempty"`
}

// ChangeStatusRequest body para PATCH /api/procurement/orders/:id/status.
type ChangeStatusRequest struct {
	Status string `json:"status"`
	Note   string `json:"note,omitempty"`
}

// ReceiveGoodsRequest body para POST /api/procurement/orders/:id/receipts.
type ReceiveGoodsRequest struct {
	ReceiptDate *time.Time           `json:"receipt_date,omitempty"`
	Remark      string               `json:"remark,omitempty"`
	Lines       []ReceiptLineRequest `json:"lines"`
}

// ReceiptLineRequest una línea recibida.
type ReceiptLineRequest struct {
	ItemID         string     `json:"item_id"`
	Quantity       int64      `json:"quantity"`
	LocationID     string     `json:"location_id"`
	Batch          string     `json:"batch,omitempty"`
	QualityStatus  string     `json:"quality_status"` // qualified | unqualified
	ProductionDate *time.Time `json:"production_date,omitempty"`
	ExpiryDate     *time.Time `json:"expiry_date,omitempty"`
}

// OrderItemResponse ítem de la orden.
type OrderItemResponse struct {
	ID               string          `json:"id"`
	MaterialID       string          `json:"material_id"`
	Quantity         int64           `json:"quantity"`
	ReceivedQuantity int64           `json:"received_quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	TotalPrice       decimal.Decimal `json:"total_price"`
	Remarks          string          `json:"remarks,omitempty"`
}

// OrderResponse salida de una orden de compra.
type OrderResponse struct {
	ID                   string              `json:"id"`
	Number               string              `json:"number"`
	SupplierID           string              `json:"supplier_id"`
	Status               string              `json:"status"`
	OrderDate            time.Time           `json:"order_date"`
	ExpectedDeliveryDate *time.Time          `json:"expected_delivery_date,omitempty"`
	ActualDeliveryDate   *time.Time          `json:"actual_delivery_date,omitempty"`
	TotalAmount          decimal.Decimal     `json:"total_amount"`
	PaymentTerms         string              `json:"payment_terms,omitempty"`
	Remarks              string              `json:"remarks,omitempty"`
	CreatedBy            string              `json:"created_by"`
	Items                []OrderItemResponse `json:"items"`
	CreatedAt            time.Time           `json:"created_at"`
	UpdatedAt            time.Time           `json:"updated_at"`
}

// NewOrderResponse mapea la orden con sus ítems.
func NewOrderResponse(o *entity.ProcurementOrder) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemResponse{
			ID:               it.ID,
			MaterialID:       it.MaterialID,
			Quantity:         it.Quantity,
			ReceivedQuantity: it.ReceivedQuantity,
			UnitPrice:        it.UnitPrice,
			TotalPrice:       it.TotalPrice,
			Remarks:          it.Remarks,
		})
	}
	return OrderResponse{
		ID:                   o.ID,
		Number:               o.Number,
		SupplierID:           o.SupplierID,
		Status:               o.Status,
		OrderDate:            o.OrderDate,
		ExpectedDeliveryDate: o.ExpectedDeliveryDate,
		ActualDeliveryDate:   o.ActualDeliveryDate,
		TotalAmount:          o.TotalAmount,
		PaymentTerms:         o.PaymentTerms,
		Remarks:              o.Remarks,
		CreatedBy:            o.CreatedBy,
		Items:                items,
		CreatedAt:            o.CreatedAt,
		UpdatedAt:            o.UpdatedAt,
	}
}

// OrderListResponse lista paginada de órdenes.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// StatusEntryResponse entrada del historial de estados.
type StatusEntryResponse struct {
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	Operator   string    `json:"operator"`
	Note       string    `json:"note,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewStatusHistoryResponse mapea el historial.
func NewStatusHistoryResponse(entries []*entity.StatusEntry) []StatusEntryResponse {
	out := make([]StatusEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, StatusEntryResponse{
			FromStatus: e.FromStatus,
			ToStatus:   e.ToStatus,
			Operator:   e.Operator,
			Note:       e.Note,
			CreatedAt:  e.CreatedAt,
		})
	}
	return out
}

// ReceiveGoodsResponse resultado de una recepción.
type ReceiveGoodsResponse struct {
	Order        OrderResponse         `json:"order"`
	Transactions []TransactionResponse `json:"transactions"`
}
