package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/ledger"
	"github.com/jhoicas/inventario-ledger/internal/application/procurement"
	"github.com/jhoicas/inventario-ledger/internal/application/scanning"
	"github.com/jhoicas/inventario-ledger/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	RegisterMovement *inventory.RegisterMovementUseCase
	Replenishment    *inventory.ReplenishmentUseCase
	Ledger           *ledger.Ledger
	TransactionLog   *ledger.TransactionLog
	Orders           *procurement.OrderUseCase
	Fulfillment      *procurement.FulfillmentEngine
	Scan             *scanning.Gateway
	JWTSecret        string
}

// Router registra las rutas de la API. Todas requieren Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	warehouse := RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero)
	purchasing := RequireRole(jwt.RoleAdmin, jwt.RoleComprador)

	// Inventario
	inv := api.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.RegisterMovement, deps.Replenishment, deps.Ledger, deps.TransactionLog)
	inv.Post("/movements", warehouse, inventoryHandler.RegisterMovement)
	inv.Get("/balances", inventoryHandler.ListBalances)
	inv.Get("/balances/:material_id/:location_id", inventoryHandler.GetBalance)
	inv.Get("/transactions", inventoryHandler.ListTransactions)
	inv.Get("/transactions/:number", inventoryHandler.GetTransaction)
	inv.Get("/replenishment-list", inventoryHandler.GetReplenishmentList)

	// Compras
	orders := api.Group("/procurement/orders")
	procHandler := NewProcurementHandler(deps.Orders, deps.Fulfillment)
	orders.Post("/", purchasing, procHandler.Create)
	orders.Get("/", procHandler.List)
	orders.Get("/:id", procHandler.GetByID)
	orders.Patch("/:id/status", purchasing, procHandler.ChangeStatus)
	orders.Post("/:id/receipts", warehouse, procHandler.ReceiveGoods)
	orders.Get("/:id/history", procHandler.History)

	// Escaneo
	scan := api.Group("/scan")
	scanHandler := NewScanHandler(deps.Scan)
	scan.Post("/inbound", warehouse, scanHandler.Inbound)
	scan.Post("/outbound", warehouse, scanHandler.Outbound)
	scan.Get("/recognize/:barcode", scanHandler.Recognize)
	scan.Get("/history", scanHandler.History)
}
