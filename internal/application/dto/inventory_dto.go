package dto

import (
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// RegisterMovementRequest body para POST /api/inventory/movements.
// material y ubicaciones aceptan id, código o código de barras.
// quantity es positiva salvo en ajustes "other" (con signo); en stocktake es la cantidad contada.
type RegisterMovementRequest struct {
	Type           string `json:"type"`
	MaterialID     string `json:"material_id"`
	LocationID     string `json:"location_id,omitempty"`
	FromLocationID string `json:"from_location_id,omitempty"`
	ToLocationID   string `json:"to_location_id,omitempty"`
	Batch          string `json:"batch,omitempty"`
	Quantity       int64  `json:"quantity"`
	AdjustmentKind string `json:"adjustment_kind,omitempty"`
	Reason         string `json:"reason,omitempty"`
}

// TransactionResponse salida de una transacción de inventario.
type TransactionResponse struct {
	ID             string    `json:"id"`
	Seq            int64     `json:"seq"`
	Number         string    `json:"number"`
	Type           string    `json:"type"`
	AdjustmentKind string    `json:"adjustment_kind,omitempty"`
	MaterialID     string    `json:"material_id"`
	LocationID     string    `json:"location_id"`
	Batch          string    `json:"batch"`
	FromLocationID string    `json:"from_location_id,omitempty"`
	ToLocationID   string    `json:"to_location_id,omitempty"`
	Delta          int64     `json:"delta"`
	BalanceAfter   int64     `json:"balance_after"`
	OrderID        string    `json:"order_id,omitempty"`
	ItemID         string    `json:"item_id,omitempty"`
	Operator       string    `json:"operator"`
	Reason         string    `json:"reason,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewTransactionResponse mapea la entidad a su salida HTTP.
func NewTransactionResponse(t *entity.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:             t.ID,
		Seq:            t.Seq,
		Number:         t.Number,
		Type:           t.Type,
		AdjustmentKind: t.AdjustmentKind,
		MaterialID:     t.MaterialID,
		LocationID:     t.LocationID,
		Batch:          t.Batch,
		FromLocationID: t.FromLocationID,
		ToLocationID:   t.ToLocationID,
		Delta:          t.Delta,
		BalanceAfter:   t.BalanceAfter,
		OrderID:        t.OrderID,
		ItemID:         t.ItemID,
		Operator:       t.Operator,
		Reason:         t.Reason,
		CreatedAt:      t.CreatedAt,
	}
}

// NewTransactionList mapea una lista de transacciones.
func NewTransactionList(txns []*entity.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(txns))
	for _, t := range txns {
		out = append(out, NewTransactionResponse(t))
	}
	return out
}

// TransactionListResponse lista paginada de transacciones.
type TransactionListResponse struct {
	Items []TransactionResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}

// BalanceResponse saldo de una clave (material, ubicación, lote).
type BalanceResponse struct {
	MaterialID        string     `json:"material_id"`
	LocationID        string     `json:"location_id"`
	Batch             string     `json:"batch"`
	Quantity          int64      `json:"quantity"`
	ProductionDate    *time.Time `json:"production_date,omitempty"`
	ExpiryDate        *time.Time `json:"expiry_date,omitempty"`
	LastTransactionID string     `json:"last_transaction_id,omitempty"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// NewBalanceResponse mapea un saldo.
func NewBalanceResponse(b *entity.Balance) BalanceResponse {
	return BalanceResponse{
		MaterialID:        b.MaterialID,
		LocationID:        b.LocationID,
		Batch:             b.Batch,
		Quantity:          b.Quantity,
		ProductionDate:    b.ProductionDate,
		ExpiryDate:        b.ExpiryDate,
		LastTransactionID: b.LastTransactionID,
		UpdatedAt:         b.UpdatedAt,
	}
}

// BalanceListResponse lista paginada de saldos.
type BalanceListResponse struct {
	Items []BalanceResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// ReplenishmentSuggestionDTO material activo por debajo de su stock mínimo.
type ReplenishmentSuggestionDTO struct {
	MaterialID        string `json:"material_id"`
	Code              string `json:"code"`
	Name              string `json:"name"`
	Unit              string `json:"unit"`
	CurrentStock      int64  `json:"current_stock"`
	MinStock          int64  `json:"min_stock"`
	MaxStock          int64  `json:"max_stock"`
	SuggestedOrderQty int64  `json:"suggested_order_qty"` // hasta MaxStock (o MinStock si no hay máximo)
	Priority          int    `json:"priority"`            // 1 = más urgente
}
