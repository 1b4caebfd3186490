package entity

import "time"

// Tipos de transacción de inventario.
const (
	TransactionTypeInbound    = "inbound"    // entrada
	TransactionTypeOutbound   = "outbound"   // salida
	TransactionTypeAdjustment = "adjustment" // ajuste
	TransactionTypeTransfer   = "transfer"   // traslado entre ubicaciones
	TransactionTypeScrap      = "scrap"      // baja
	TransactionTypeStocktake  = "stocktake"  // conteo físico
)

// Clases de ajuste (solo para TransactionTypeAdjustment).
const (
	AdjustmentIncrease = "increase"
	AdjustmentDecrease = "decrease"
	AdjustmentDamage   = "damage"
	AdjustmentReturn   = "return"
	AdjustmentOther    = "other"
)

// IsValidTransactionType indica si t es un tipo de transacción conocido.
func IsValidTransactionType(t string) bool {
	switch t {
	case TransactionTypeInbound, TransactionTypeOutbound, TransactionTypeAdjustment,
		TransactionTypeTransfer, TransactionTypeScrap, TransactionTypeStocktake:
		return true
	}
	return false
}

// Transaction registro inmutable de un movimiento que afectó exactamente un saldo.
// Delta es con signo; BalanceAfter es el saldo resultante al momento del commit.
type Transaction struct {
	ID             string
	Seq            int64 // orden de commit, asignado por el almacenamiento
	Number         string
	Type           string
	AdjustmentKind string
	MaterialID     string
	LocationID     string
	Batch          string
	FromLocationID string
	ToLocationID   string
	Delta          int64
	BalanceID      string
	BalanceAfter   int64
	OrderID        string // orden de compra u orden referida por escaneo
	ItemID         string
	Operator       string
	Reason         string
	CreatedAt      time.Time
}

// Key devuelve la clave del saldo afectado.
func (t *Transaction) Key() BalanceKey {
	return BalanceKey{MaterialID: t.MaterialID, LocationID: t.LocationID, Batch: t.Batch}
}
