package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/catalog"
	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/ledger"
	"github.com/jhoicas/inventario-ledger/internal/application/procurement"
	"github.com/jhoicas/inventario-ledger/internal/application/scanning"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/sequence"
	apphttp "github.com/jhoicas/inventario-ledger/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// buildAPI arma la API completa sobre el almacenamiento en memoria.
func buildAPI(t *testing.T) *fiber.App {
	t.Helper()
	s := memory.NewStore()
	s.AddMaterial(entity.Material{ID: "M1", Code: "MAT-1", Name: "Tornillo", MinStock: 10, MaxStock: 100, Active: true})
	s.AddLocation(entity.Location{ID: "L1", Code: "A-01", Name: "Estante A1", Active: true})
	s.AddBarcode(entity.Barcode{Number: "MAT1", Type: entity.BarcodeTypeMaterial, ReferenceID: "M1", Status: entity.BarcodeStatusActive})
	s.AddBarcode(entity.Barcode{Number: "LOC1", Type: entity.BarcodeTypeLocation, ReferenceID: "L1", Status: entity.BarcodeStatusActive})

	gen, err := sequence.NewGenerator(7)
	require.NoError(t, err)
	log := zerolog.Nop()
	l := ledger.NewLedger(s.Balances())
	txLog := ledger.NewTransactionLog(l, s, s.Catalog(), s.Transactions(), gen, nil, log, 5)
	resolver := catalog.NewResolver(s.Catalog(), s.Orders())
	history := procurement.NewStatusHistory(s.StatusHistory())

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(log)})
	apphttp.Router(app, apphttp.RouterDeps{
		RegisterMovement: inventory.NewRegisterMovementUseCase(txLog, resolver),
		Replenishment:    inventory.NewReplenishmentUseCase(s.Catalog(), l),
		Ledger:           l,
		TransactionLog:   txLog,
		Orders:           procurement.NewOrderUseCase(s, s.Orders(), s.Catalog(), history, gen, nil, log, 5),
		Fulfillment:      procurement.NewFulfillmentEngine(s, txLog, history, procurement.OverReceiptAllow, nil, log),
		Scan:             scanning.NewGateway(resolver, txLog, s.Scans(), log),
		JWTSecret:        testJWTSecret,
	})
	return app
}

// call ejecuta una petición autenticada con el rol dado y decodifica la respuesta en out (si no es nil).
func call(t *testing.T, app *fiber.App, role, method, path string, body any, out any) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", tokenForRole(t, role))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

// ──────────────────────────────────────────────────────────────────────────────
// Inventario
// ──────────────────────────────────────────────────────────────────────────────

func TestInventoryAPI_EntradaYSaldo(t *testing.T) {
	app := buildAPI(t)

	var txns []dto.TransactionResponse
	status := call(t, app, "bodeguero", http.MethodPost, "/api/inventory/movements", dto.RegisterMovementRequest{
		Type: entity.TransactionTypeInbound, MaterialID: "MAT-1", LocationID: "A-01", Quantity: 100,
	}, &txns)
	require.Equal(t, http.StatusCreated, status)
	require.Len(t, txns, 1)
	assert.Equal(t, testUserID, txns[0].Operator)

	var bal dto.BalanceResponse
	status = call(t, app, "comprador", http.MethodGet, "/api/inventory/balances/M1/L1", nil, &bal)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(100), bal.Quantity)

	var got dto.TransactionResponse
	status = call(t, app, "admin", http.MethodGet, "/api/inventory/transactions/"+txns[0].Number, nil, &got)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(100), got.BalanceAfter)
}

func TestInventoryAPI_StockInsuficienteRetorna409ConDetalle(t *testing.T) {
	app := buildAPI(t)
	require.Equal(t, http.StatusCreated, call(t, app, "admin", http.MethodPost, "/api/inventory/movements", dto.RegisterMovementRequest{
		Type: entity.TransactionTypeInbound, MaterialID: "M1", LocationID: "L1", Quantity: 5,
	}, nil))

	var body map[string]any
	status := call(t, app, "admin", http.MethodPost, "/api/inventory/movements", dto.RegisterMovementRequest{
		Type: entity.TransactionTypeOutbound, MaterialID: "M1", LocationID: "L1", Quantity: 6,
	}, &body)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", body["code"])
	assert.Equal(t, float64(5), body["available"])
}

func TestInventoryAPI_CompradorNoRegistraMovimientos(t *testing.T) {
	app := buildAPI(t)
	status := call(t, app, "comprador", http.MethodPost, "/api/inventory/movements", dto.RegisterMovementRequest{
		Type: entity.TransactionTypeInbound, MaterialID: "M1", LocationID: "L1", Quantity: 5,
	}, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestInventoryAPI_TransaccionInexistente404(t *testing.T) {
	app := buildAPI(t)
	var body dto.ErrorResponse
	status := call(t, app, "admin", http.MethodGet, "/api/inventory/transactions/IN-NOPE", nil, &body)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", body.Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Compras
// ──────────────────────────────────────────────────────────────────────────────

func TestProcurementAPI_FlujoCompletoConRecepcionParcial(t *testing.T) {
	app := buildAPI(t)

	var order dto.OrderResponse
	status := call(t, app, "comprador", http.MethodPost, "/api/procurement/orders", map[string]any{
		"supplier_id": "SUP-1",
		"items":       []map[string]any{{"material_id": "M1", "quantity": 100, "unit_price": "2.50"}},
	}, &order)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, entity.OrderStatusDraft, order.Status)
	assert.Equal(t, "250", order.TotalAmount.String())

	for _, st := range []string{entity.OrderStatusSubmitted, entity.OrderStatusConfirmed} {
		require.Equal(t, http.StatusOK, call(t, app, "comprador", http.MethodPatch,
			"/api/procurement/orders/"+order.ID+"/status", dto.ChangeStatusRequest{Status: st}, &order))
	}

	var res dto.ReceiveGoodsResponse
	status = call(t, app, "bodeguero", http.MethodPost, "/api/procurement/orders/"+order.ID+"/receipts", dto.ReceiveGoodsRequest{
		Lines: []dto.ReceiptLineRequest{{ItemID: order.Items[0].ID, Quantity: 60, LocationID: "L1", QualityStatus: "qualified"}},
	}, &res)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, entity.OrderStatusReceived, res.Order.Status)
	assert.Equal(t, int64(60), res.Order.Items[0].ReceivedQuantity)
	require.Len(t, res.Transactions, 1)
	assert.Equal(t, order.ID, res.Transactions[0].OrderID)

	var hist []dto.StatusEntryResponse
	require.Equal(t, http.StatusOK, call(t, app, "admin", http.MethodGet, "/api/procurement/orders/"+order.ID+"/history", nil, &hist))
	require.Len(t, hist, 4)
	assert.Equal(t, entity.OrderStatusReceived, hist[3].ToStatus)
	assert.Equal(t, "recepción parcial", hist[3].Note)
}

func TestProcurementAPI_RolesPorRuta(t *testing.T) {
	app := buildAPI(t)
	var order dto.OrderResponse
	require.Equal(t, http.StatusCreated, call(t, app, "comprador", http.MethodPost, "/api/procurement/orders", map[string]any{
		"supplier_id": "SUP-1",
		"items":       []map[string]any{{"material_id": "M1", "quantity": 5, "unit_price": "1"}},
	}, &order))

	// El bodeguero no crea órdenes ni cambia su estado.
	assert.Equal(t, http.StatusForbidden, call(t, app, "bodeguero", http.MethodPost, "/api/procurement/orders", map[string]any{
		"supplier_id": "SUP-1",
		"items":       []map[string]any{{"material_id": "M1", "quantity": 1, "unit_price": "1"}},
	}, nil))
	assert.Equal(t, http.StatusForbidden, call(t, app, "bodeguero", http.MethodPatch,
		"/api/procurement/orders/"+order.ID+"/status", dto.ChangeStatusRequest{Status: entity.OrderStatusSubmitted}, nil))

	for _, st := range []string{entity.OrderStatusSubmitted, entity.OrderStatusConfirmed} {
		require.Equal(t, http.StatusOK, call(t, app, "comprador", http.MethodPatch,
			"/api/procurement/orders/"+order.ID+"/status", dto.ChangeStatusRequest{Status: st}, nil))
	}

	// El comprador no registra recepciones: mueven stock.
	var body dto.ErrorResponse
	status := call(t, app, "comprador", http.MethodPost, "/api/procurement/orders/"+order.ID+"/receipts", dto.ReceiveGoodsRequest{
		Lines: []dto.ReceiptLineRequest{{ItemID: order.Items[0].ID, Quantity: 5, LocationID: "L1", QualityStatus: "qualified"}},
	}, &body)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", body.Code)

	var got dto.OrderResponse
	require.Equal(t, http.StatusOK, call(t, app, "comprador", http.MethodGet, "/api/procurement/orders/"+order.ID, nil, &got))
	assert.Equal(t, entity.OrderStatusConfirmed, got.Status)
	assert.Zero(t, got.Items[0].ReceivedQuantity)
}

func TestProcurementAPI_EstadoDerivadoNoSeAsignaManualmente(t *testing.T) {
	app := buildAPI(t)
	var order dto.OrderResponse
	require.Equal(t, http.StatusCreated, call(t, app, "admin", http.MethodPost, "/api/procurement/orders", map[string]any{
		"supplier_id": "SUP-1",
		"items":       []map[string]any{{"material_id": "M1", "quantity": 1, "unit_price": "1"}},
	}, &order))

	var body dto.ErrorResponse
	status := call(t, app, "admin", http.MethodPatch, "/api/procurement/orders/"+order.ID+"/status",
		dto.ChangeStatusRequest{Status: entity.OrderStatusCompleted}, &body)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INVALID_TRANSITION", body.Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Escaneo
// ──────────────────────────────────────────────────────────────────────────────

func TestScanAPI_UbicacionDesconocidaQuedaEnHistorial(t *testing.T) {
	app := buildAPI(t)

	status := call(t, app, "bodeguero", http.MethodPost, "/api/scan/inbound", dto.ScanRequest{
		MaterialBarcode: "MAT1", LocationBarcode: "LOC-404", Quantity: 3,
	}, nil)
	assert.Equal(t, http.StatusNotFound, status)

	var recs []dto.ScanRecordResponse
	require.Equal(t, http.StatusOK, call(t, app, "admin", http.MethodGet, "/api/scan/history?result=failed", nil, &recs))
	require.Len(t, recs, 1)
	assert.Equal(t, "LOC-404", recs[0].LocationBarcode)
	assert.Equal(t, testUserID, recs[0].Operator)
}

func TestScanAPI_ReconocerCodigo(t *testing.T) {
	app := buildAPI(t)
	var rec dto.RecognizeResponse
	status := call(t, app, "bodeguero", http.MethodGet, "/api/scan/recognize/LOC1", nil, &rec)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, entity.BarcodeTypeLocation, rec.Type)
	assert.Equal(t, "L1", rec.EntityID)
	assert.Equal(t, "A-01", rec.EntityCode)
}
