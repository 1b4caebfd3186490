package entity

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/width"
)

// BalanceKey identifica un saldo: (material, ubicación, lote). Lote vacío = sin lote.
type BalanceKey struct {
	MaterialID string
	LocationID string
	Batch      string
}

// NormalizeLabel quita espacios y convierte caracteres de ancho completo (algunos lectores
// en modo IME los emiten) a su forma ASCII. Aplica a lotes y códigos escaneados.
func NormalizeLabel(s string) string {
	return strings.TrimSpace(width.Fold.String(s))
}

// NewBalanceKey construye la clave con el lote normalizado.
func NewBalanceKey(materialID, locationID, batch string) BalanceKey {
	return BalanceKey{MaterialID: materialID, LocationID: locationID, Batch: NormalizeLabel(batch)}
}

// Normalized devuelve la clave con el lote normalizado; todas las entradas al libro la usan.
func (k BalanceKey) Normalized() BalanceKey {
	k.Batch = NormalizeLabel(k.Batch)
	return k
}

// String devuelve una representación estable, usada también para ordenar bloqueos.
func (k BalanceKey) String() string {
	return fmt.Sprintf("%s|%s|%s", k.MaterialID, k.LocationID, k.Batch)
}

// Less define el orden total de claves para adquirir bloqueos sin interbloqueo.
func (k BalanceKey) Less(o BalanceKey) bool {
	return k.String() < o.String()
}

// Balance es la fila de inventario: cantidad disponible por clave.
// Se crea perezosamente en el primer movimiento y nunca se borra (puede quedar en cero).
type Balance struct {
	ID                string
	MaterialID        string
	LocationID        string
	Batch             string
	Quantity          int64 // siempre >= 0
	ProductionDate    *time.Time
	ExpiryDate        *time.Time
	LastTransactionID string
	Version           int64 // control optimista; se incrementa en cada Save
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Key devuelve la clave del saldo.
func (b *Balance) Key() BalanceKey {
	return BalanceKey{MaterialID: b.MaterialID, LocationID: b.LocationID, Batch: b.Batch}
}

// LotDates fechas de lote; solo se guardan cuando el saldo se crea.
type LotDates struct {
	ProductionDate *time.Time
	ExpiryDate     *time.Time
}
