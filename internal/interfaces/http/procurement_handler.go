package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/procurement"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// ProcurementHandler órdenes de compra y recepción de mercancía (protegido).
type ProcurementHandler struct {
	orders      *procurement.OrderUseCase
	fulfillment *procurement.FulfillmentEngine
}

// NewProcurementHandler construye el handler.
func NewProcurementHandler(orders *procurement.OrderUseCase, fulfillment *procurement.FulfillmentEngine) *ProcurementHandler {
	return &ProcurementHandler{orders: orders, fulfillment: fulfillment}
}

// Create godoc
// @Summary      Crear orden de compra (draft)
// @Tags         procurement
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "Proveedor e ítems"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/procurement/orders [post]
func (h *ProcurementHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	input := procurement.CreateOrderInput{
		SupplierID:           in.SupplierID,
		ExpectedDeliveryDate: in.ExpectedDeliveryDate,
		PaymentTerms:         in.PaymentTerms,
		Remarks:              in.Remarks,
		Operator:             GetUserID(c),
	}
	if in.OrderDate != nil {
		input.OrderDate = *in.OrderDate
	}
	for _, it := range in.Items {
		input.Items = append(input.Items, procurement.CreateItemInput{
			MaterialID: it.MaterialID,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
			Remarks:    it.Remarks,
		})
	}
	o, err := h.orders.Create(c.Context(), input)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewOrderResponse(o))
}

// List godoc
// @Summary      Listar órdenes de compra
// @Tags         procurement
// @Security     Bearer
// @Produce      json
// @Param        status       query  string  false  "Estado"
// @Param        supplier_id  query  string  false  "Proveedor"
// @Success      200  {object}  dto.OrderListResponse
// @Router       /api/procurement/orders [get]
func (h *ProcurementHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	_ = c.QueryParser(&page)
	page.DefaultPage()
	list, err := h.orders.List(c.Context(), repository.OrderFilter{
		Status:     c.Query("status"),
		SupplierID: c.Query("supplier_id"),
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
	if err != nil {
		return writeError(c, err)
	}
	items := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		items = append(items, dto.NewOrderResponse(o))
	}
	return c.JSON(dto.OrderListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}})
}

// GetByID godoc
// @Summary      Obtener orden de compra
// @Tags         procurement
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/procurement/orders/{id} [get]
func (h *ProcurementHandler) GetByID(c *fiber.Ctx) error {
	o, err := h.orders.Get(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewOrderResponse(o))
}

// ChangeStatus godoc
// @Summary      Cambiar estado de la orden
// @Description  received y completed solo se alcanzan por recepción de mercancía.
// @Tags         procurement
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID de la orden"
// @Param        body  body  dto.ChangeStatusRequest  true  "Nuevo estado"
// @Success      200   {object}  dto.OrderResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/procurement/orders/{id}/status [patch]
func (h *ProcurementHandler) ChangeStatus(c *fiber.Ctx) error {
	var in dto.ChangeStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	o, err := h.orders.ChangeStatus(c.Context(), c.Params("id"), in.Status, GetUserID(c), in.Note)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewOrderResponse(o))
}

// ReceiveGoods godoc
// @Summary      Recepción de mercancía
// @Description  Todas las líneas se confirman juntas o ninguna. Las líneas calificadas generan entradas de inventario.
// @Tags         procurement
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID de la orden"
// @Param        body  body  dto.ReceiveGoodsRequest  true  "Líneas recibidas"
// @Success      201   {object}  dto.ReceiveGoodsResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/procurement/orders/{id}/receipts [post]
func (h *ProcurementHandler) ReceiveGoods(c *fiber.Ctx) error {
	var in dto.ReceiveGoodsRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	input := procurement.ReceiveGoodsInput{
		OrderID:  c.Params("id"),
		Operator: GetUserID(c),
		Remark:   in.Remark,
	}
	if in.ReceiptDate != nil {
		input.ReceiptDate = *in.ReceiptDate
	} else {
		input.ReceiptDate = time.Now()
	}
	for _, l := range in.Lines {
		input.Lines = append(input.Lines, procurement.ReceiptLine{
			ItemID:         l.ItemID,
			Quantity:       l.Quantity,
			LocationID:     l.LocationID,
			Batch:          l.Batch,
			QualityStatus:  l.QualityStatus,
			ProductionDate: l.ProductionDate,
			ExpiryDate:     l.ExpiryDate,
		})
	}
	res, err := h.fulfillment.ReceiveGoods(c.Context(), input)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ReceiveGoodsResponse{
		Order:        dto.NewOrderResponse(res.Order),
		Transactions: dto.NewTransactionList(res.Transactions),
	})
}

// History godoc
// @Summary      Historial de estados de la orden
// @Tags         procurement
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {array}  dto.StatusEntryResponse
// @Router       /api/procurement/orders/{id}/history [get]
func (h *ProcurementHandler) History(c *fiber.Ctx) error {
	entries, err := h.orders.History(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewStatusHistoryResponse(entries))
}
