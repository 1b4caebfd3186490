package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/ledger"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// InventoryHandler movimientos manuales, saldos y transacciones (protegido).
type InventoryHandler struct {
	uc            *inventory.RegisterMovementUseCase
	replenishment *inventory.ReplenishmentUseCase
	ledger        *ledger.Ledger
	txLog         *ledger.TransactionLog
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	uc *inventory.RegisterMovementUseCase,
	replenishment *inventory.ReplenishmentUseCase,
	l *ledger.Ledger,
	txLog *ledger.TransactionLog,
) *InventoryHandler {
	return &InventoryHandler{uc: uc, replenishment: replenishment, ledger: l, txLog: txLog}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de inventario
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "type, material_id, location_id (o from/to para transfer), quantity"
// @Success      201   {array}   dto.TransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.RegisterMovementFromRequest(c.Context(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListBalances godoc
// @Summary      Saldos por material, ubicación y lote
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        material_id  query  string  false  "Material"
// @Param        location_id  query  string  false  "Ubicación"
// @Param        batch        query  string  false  "Lote"
// @Param        non_zero     query  bool    false  "Solo saldos distintos de cero"
// @Success      200  {object}  dto.BalanceListResponse
// @Router       /api/inventory/balances [get]
func (h *InventoryHandler) ListBalances(c *fiber.Ctx) error {
	var page dto.PageRequest
	_ = c.QueryParser(&page)
	page.DefaultPage()
	list, err := h.ledger.List(c.Context(), repository.BalanceFilter{
		MaterialID:  c.Query("material_id"),
		LocationID:  c.Query("location_id"),
		Batch:       c.Query("batch"),
		OnlyNonZero: c.QueryBool("non_zero"),
		Limit:       page.Limit,
		Offset:      page.Offset,
	})
	if err != nil {
		return writeError(c, err)
	}
	items := make([]dto.BalanceResponse, 0, len(list))
	for _, b := range list {
		items = append(items, dto.NewBalanceResponse(b))
	}
	return c.JSON(dto.BalanceListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}})
}

// GetBalance godoc
// @Summary      Saldo de una clave
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        material_id  path   string  true   "Material"
// @Param        location_id  path   string  true   "Ubicación"
// @Param        batch        query  string  false  "Lote"
// @Success      200  {object}  dto.BalanceResponse
// @Router       /api/inventory/balances/{material_id}/{location_id} [get]
func (h *InventoryHandler) GetBalance(c *fiber.Ctx) error {
	key := entity.BalanceKey{MaterialID: c.Params("material_id"), LocationID: c.Params("location_id"), Batch: c.Query("batch")}
	b, err := h.ledger.Get(c.Context(), key)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewBalanceResponse(b))
}

// ListTransactions godoc
// @Summary      Transacciones en orden de commit
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        material_id  query  string  false  "Material"
// @Param        location_id  query  string  false  "Ubicación"
// @Param        batch        query  string  false  "Lote (vacío = sin filtro)"
// @Param        type         query  string  false  "Tipo"
// @Param        order_id     query  string  false  "Orden de compra"
// @Success      200  {object}  dto.TransactionListResponse
// @Router       /api/inventory/transactions [get]
func (h *InventoryHandler) ListTransactions(c *fiber.Ctx) error {
	var page dto.PageRequest
	_ = c.QueryParser(&page)
	page.DefaultPage()
	filter := repository.TransactionFilter{
		MaterialID: c.Query("material_id"),
		LocationID: c.Query("location_id"),
		Type:       c.Query("type"),
		OrderID:    c.Query("order_id"),
		Limit:      page.Limit,
		Offset:     page.Offset,
	}
	if c.Request().URI().QueryArgs().Has("batch") {
		batch := c.Query("batch")
		filter.Batch = &batch
	}
	list, err := h.txLog.List(c.Context(), filter)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.TransactionListResponse{
		Items: dto.NewTransactionList(list),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}

// GetTransaction godoc
// @Summary      Transacción por número
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        number  path  string  true  "Número de transacción"
// @Success      200  {object}  dto.TransactionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/transactions/{number} [get]
func (h *InventoryHandler) GetTransaction(c *fiber.Ctx) error {
	t, err := h.txLog.GetByNumber(c.Context(), c.Params("number"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewTransactionResponse(t))
}

// GetReplenishmentList godoc
// @Summary      Lista de reposición
// @Description  Materiales activos por debajo del stock mínimo, con la cantidad sugerida hasta el máximo.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.ReplenishmentSuggestionDTO
// @Router       /api/inventory/replenishment-list [get]
func (h *InventoryHandler) GetReplenishmentList(c *fiber.Ctx) error {
	list, err := h.replenishment.GenerateReplenishmentList(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"total":          len(list),
		"replenishments": list,
	})
}
