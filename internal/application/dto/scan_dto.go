package dto

import (
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// ScanRequest body para POST /api/scan/inbound y /api/scan/outbound.
type ScanRequest struct {
	MaterialBarcode string `json:"material_barcode"`
	LocationBarcode string `json:"location_barcode"`
	Quantity        int64  `json:"quantity"`
	Batch           string `json:"batch,omitempty"`
	OrderBarcode    string `json:"order_barcode,omitempty"`
}

// RecognizeResponse resultado de reconocer un código.
type RecognizeResponse struct {
	Barcode    string `json:"barcode"`
	Type       string `json:"type"`
	EntityID   string `json:"entity_id"`
	EntityCode string `json:"entity_code,omitempty"`
	Name       string `json:"name,omitempty"`
	Active     *bool  `json:"active,omitempty"`
}

// ScanRecordResponse entrada del historial de escaneo.
type ScanRecordResponse struct {
	Barcode           string    `json:"barcode"`
	OperationType     string    `json:"operation_type"`
	Quantity          int64     `json:"quantity"`
	LocationBarcode   string    `json:"location_barcode"`
	OrderBarcode      string    `json:"order_barcode,omitempty"`
	Batch             string    `json:"batch,omitempty"`
	Result            string    `json:"result"`
	Remark            string    `json:"remark,omitempty"`
	TransactionNumber string    `json:"transaction_number,omitempty"`
	Operator          string    `json:"operator"`
	CreatedAt         time.Time `json:"created_at"`
}

// NewScanHistoryResponse mapea el historial de escaneo.
func NewScanHistoryResponse(recs []*entity.ScanRecord) []ScanRecordResponse {
	out := make([]ScanRecordResponse, 0, len(recs))
	for _, r := range recs {
		out = append(out, ScanRecordResponse{
			Barcode:           r.Barcode,
			OperationType:     r.OperationType,
			Quantity:          r.Quantity,
			LocationBarcode:   r.LocationBarcode,
			OrderBarcode:      r.OrderBarcode,
			Batch:             r.Batch,
			Result:            r.Result,
			Remark:            r.Remark,
			TransactionNumber: r.TransactionNumber,
			Operator:          r.Operator,
			CreatedAt:         r.CreatedAt,
		})
	}
	return out
}
