package entity

import "time"

// Tipos de código de barras.
const (
	BarcodeTypeMaterial = "material"
	BarcodeTypeLocation = "location"
	BarcodeTypeOrder    = "order"
	BarcodeTypeOperator = "operator"
)

// Estados del código de barras.
const (
	BarcodeStatusActive   = "active"
	BarcodeStatusUsed     = "used"
	BarcodeStatusDisabled = "disabled"
)

// Barcode asocia un token escaneable con una entidad del catálogo.
// ReferenceID apunta al material, ubicación, orden u operador según Type; vacío = sin asociar.
type Barcode struct {
	Number      string
	Type        string
	Status      string
	ReferenceID string
	CreatedAt   time.Time
}
