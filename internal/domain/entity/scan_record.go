package entity

import "time"

// Operaciones de escaneo.
const (
	ScanOperationMaterialInbound  = "material_inbound"
	ScanOperationMaterialOutbound = "material_outbound"
)

// Resultados de escaneo.
const (
	ScanResultSuccess = "success"
	ScanResultFailed  = "failed"
)

// ScanRecord historial de escaneo; se escribe tanto en éxito como en fallo.
type ScanRecord struct {
	ID                string
	Barcode           string
	OperationType     string
	Quantity          int64
	LocationBarcode   string
	OrderBarcode      string
	Batch             string
	Result            string
	Remark            string // mensaje de error cuando Result = failed
	TransactionNumber string
	Operator          string
	CreatedAt         time.Time
}
