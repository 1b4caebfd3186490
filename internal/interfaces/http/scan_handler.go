package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/catalog"
	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/scanning"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// ScanHandler endpoints de pistola de escaneo (protegido).
type ScanHandler struct {
	gateway *scanning.Gateway
}

// NewScanHandler construye el handler.
func NewScanHandler(gateway *scanning.Gateway) *ScanHandler {
	return &ScanHandler{gateway: gateway}
}

func (h *ScanHandler) input(c *fiber.Ctx) (scanning.ScanInput, bool) {
	var in dto.ScanRequest
	if err := c.BodyParser(&in); err != nil {
		return scanning.ScanInput{}, false
	}
	return scanning.ScanInput{
		MaterialBarcode: in.MaterialBarcode,
		LocationBarcode: in.LocationBarcode,
		Quantity:        in.Quantity,
		Batch:           in.Batch,
		OrderBarcode:    in.OrderBarcode,
		Operator:        GetUserID(c),
	}, true
}

// Inbound godoc
// @Summary      Entrada por escaneo
// @Tags         scan
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ScanRequest  true  "Códigos de material y ubicación, cantidad"
// @Success      201   {object}  dto.TransactionResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/scan/inbound [post]
func (h *ScanHandler) Inbound(c *fiber.Ctx) error {
	in, ok := h.input(c)
	if !ok {
		return badBody(c)
	}
	txn, err := h.gateway.MaterialInbound(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewTransactionResponse(txn))
}

// Outbound godoc
// @Summary      Salida por escaneo
// @Tags         scan
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ScanRequest  true  "Códigos de material y ubicación, cantidad"
// @Success      201   {object}  dto.TransactionResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/scan/outbound [post]
func (h *ScanHandler) Outbound(c *fiber.Ctx) error {
	in, ok := h.input(c)
	if !ok {
		return badBody(c)
	}
	txn, err := h.gateway.MaterialOutbound(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewTransactionResponse(txn))
}

// Recognize godoc
// @Summary      Reconocer código de barras
// @Tags         scan
// @Security     Bearer
// @Produce      json
// @Param        barcode  path  string  true  "Código escaneado"
// @Success      200  {object}  dto.RecognizeResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/scan/recognize/{barcode} [get]
func (h *ScanHandler) Recognize(c *fiber.Ctx) error {
	r, err := h.gateway.Recognize(c.Context(), c.Params("barcode"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(recognizeResponse(r))
}

// History godoc
// @Summary      Historial de escaneo
// @Tags         scan
// @Security     Bearer
// @Produce      json
// @Param        barcode         query  string  false  "Código"
// @Param        operation_type  query  string  false  "material_inbound | material_outbound"
// @Param        result          query  string  false  "success | failed"
// @Success      200  {array}  dto.ScanRecordResponse
// @Router       /api/scan/history [get]
func (h *ScanHandler) History(c *fiber.Ctx) error {
	var page dto.PageRequest
	_ = c.QueryParser(&page)
	page.DefaultPage()
	recs, err := h.gateway.History(c.Context(), repository.ScanFilter{
		Barcode:       c.Query("barcode"),
		OperationType: c.Query("operation_type"),
		Result:        c.Query("result"),
		Limit:         page.Limit,
		Offset:        page.Offset,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewScanHistoryResponse(recs))
}

func recognizeResponse(r *catalog.Recognition) dto.RecognizeResponse {
	out := dto.RecognizeResponse{Barcode: r.Barcode, Type: r.Type}
	switch {
	case r.Material != nil:
		out.EntityID, out.EntityCode, out.Name = r.Material.ID, r.Material.Code, r.Material.Name
		out.Active = &r.Material.Active
	case r.Location != nil:
		out.EntityID, out.EntityCode, out.Name = r.Location.ID, r.Location.Code, r.Location.Name
		out.Active = &r.Location.Active
	case r.Order != nil:
		out.EntityID, out.EntityCode = r.Order.ID, r.Order.Number
	default:
		out.EntityID = r.OperatorID
	}
	return out
}
