// Package sequence genera números de documento (transacciones y órdenes) sobre snowflake.
package sequence

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// OrderPrefix prefijo de números de orden de compra.
const OrderPrefix = "PO"

var prefixes = map[string]string{
	entity.TransactionTypeInbound:    "IN",
	entity.TransactionTypeOutbound:   "OUT",
	entity.TransactionTypeAdjustment: "ADJ",
	entity.TransactionTypeTransfer:   "TRF",
	entity.TransactionTypeScrap:      "SCR",
	entity.TransactionTypeStocktake:  "STK",
}

// Prefix devuelve el prefijo de número para un tipo de transacción (o el propio tipo en mayúsculas).
func Prefix(kind string) string {
	if p, ok := prefixes[kind]; ok {
		return p
	}
	return strings.ToUpper(kind)
}

// Generator números con formato PREFIJO + AAAAMMDD + "-" + id snowflake en base 36.
// Es único por nodo; varias réplicas necesitan nodeID distintos.
type Generator struct {
	node *snowflake.Node
	now  func() time.Time
}

// NewGenerator crea el generador para un nodo (0-1023).
func NewGenerator(nodeID int64) (*Generator, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("snowflake node %d: %w", nodeID, err)
	}
	return &Generator{node: node, now: time.Now}, nil
}

// Next número para un tipo de transacción.
func (g *Generator) Next(kind string) string {
	return fmt.Sprintf("%s%s-%s", Prefix(kind), g.now().Format("20060102"), strings.ToUpper(g.node.Generate().Base36()))
}

// NextOrder número para una orden de compra.
func (g *Generator) NextOrder() string {
	return g.Next(OrderPrefix)
}
