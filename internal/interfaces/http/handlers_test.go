package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Distribucion-api/internal/application/dto"
	"github.com/jhoicas/Distribucion-api/internal/application/inventory"
	"github.com/jhoicas/Distribucion-api/internal/application/usecase"
	"github.com/jhoicas/Distribucion-api/internal/application/workflow"
	ledger "github.com/jhoicas/Distribucion-api/internal/domain/inventory"
	"github.com/jhoicas/Distribucion-api/internal/domain/pricing"
	"github.com/jhoicas/Distribucion-api/internal/infrastructure/memory"
	"github.com/jhoicas/Distribucion-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/Distribucion-api/internal/interfaces/http"
	"github.com/jhoicas/Distribucion-api/pkg/logger"
)

const actor = "bodeguero-1"

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

func buildApp(t *testing.T, db apphttp.Pinger) *fiber.App {
	t.Helper()
	store := memory.NewStore()
	lg := inventory.NewLedgerUseCase(store, ledger.OutboundClamp, logger.Nop())
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		ProductUC:     usecase.NewProductUseCase(store, lg),
		Ledger:        lg,
		Replenishment: inventory.NewReplenishmentUseCase(store.Repos().Products),
		Workflow:      workflow.NewOrchestrator(store, pricing.NewEngine(pricing.PolicyClamp), lg, logger.Nop()),
		PDF:           pdf.NewMarotoPDFGenerator("Distribuidora de Prueba"),
		DB:            db,
		ServiceName:   "distribucion-api",
		Logger:        logger.Nop(),
	})
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, path string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(apphttp.HeaderActorID, actor)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeInto(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func decodeMap(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var m map[string]any
	decodeInto(t, resp, &m)
	return m
}

func createProduct(t *testing.T, app *fiber.App, code string, price, stock int64) dto.ProductResponse {
	t.Helper()
	resp := doRequest(t, app, http.MethodPost, "/api/products/", fiber.Map{
		"code": code, "name": "Producto " + code,
		"price": decimal.NewFromInt(price), "cost": decimal.NewFromInt(price / 2),
		"minimum_stock": decimal.NewFromInt(2), "initial_stock": decimal.NewFromInt(stock),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var p dto.ProductResponse
	decodeInto(t, resp, &p)
	return p
}

func TestProducts_CreateAndValidate(t *testing.T) {
	app := buildApp(t, nil)

	p := createProduct(t, app, "CAF-500", 18000, 10)
	assert.True(t, p.CurrentStock.Equal(decimal.NewFromInt(10)))

	resp := doRequest(t, app, http.MethodGet, "/api/products/"+p.ID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(t, app, http.MethodPost, "/api/products/", fiber.Map{"name": "sin código"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decodeMap(t, resp)["code"])

	resp = doRequest(t, app, http.MethodPost, "/api/products/", fiber.Map{"code": "caf-500", "name": "Duplicado"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestErrorMapping(t *testing.T) {
	app := buildApp(t, nil)

	resp := doRequest(t, app, http.MethodGet, "/api/orders/no-existe", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decodeMap(t, resp)["code"])

	p := createProduct(t, app, "AZU-1", 5000, 10)
	resp = doRequest(t, app, http.MethodPost, "/api/orders/", fiber.Map{
		"customer_id": "cli-1", "customer_name": "Tienda La 14",
		"items": []fiber.Map{{"product_id": p.ID, "quantity": decimal.NewFromInt(2)}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var order dto.OrderResponse
	decodeInto(t, resp, &order)

	// NEW -> COMPLETED no es una transición válida
	resp = doRequest(t, app, http.MethodPost, "/api/orders/"+order.ID+"/status", fiber.Map{"status": "COMPLETED"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = doRequest(t, app, http.MethodPost, "/api/orders/"+order.ID+"/status", fiber.Map{"status": "VOLANDO"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestOrderChain_Derivations(t *testing.T) {
	app := buildApp(t, nil)
	p := createProduct(t, app, "ARR-5", 450000, 10)

	resp := doRequest(t, app, http.MethodPost, "/api/orders/", fiber.Map{
		"customer_id": "cli-7", "customer_name": "Supermercado El Sol",
		"items": []fiber.Map{{"product_id": p.ID, "quantity": decimal.NewFromInt(5)}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var order dto.OrderResponse
	decodeInto(t, resp, &order)
	assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(2250000)), order.TotalAmount.String())

	resp = doRequest(t, app, http.MethodPost, "/api/orders/"+order.ID+"/purchase-order", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var po dto.PurchaseOrderResponse
	decodeInto(t, resp, &po)
	assert.Equal(t, order.ID, po.OrderID)

	resp = doRequest(t, app, http.MethodPost, "/api/orders/"+order.ID+"/purchase-order", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var again dto.PurchaseOrderResponse
	decodeInto(t, resp, &again)
	assert.Equal(t, po.ID, again.ID)

	resp = doRequest(t, app, http.MethodPost, "/api/purchase-orders/"+po.ID+"/invoice", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var inv dto.InvoiceResponse
	decodeInto(t, resp, &inv)
	assert.Equal(t, po.ID, inv.PurchaseOrderID)
	assert.True(t, inv.RemainingAmount.Equal(inv.TotalAmount))

	resp = doRequest(t, app, http.MethodGet, "/api/orders/"+order.ID+"/chain", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var chain dto.OrderChainResponse
	decodeInto(t, resp, &chain)
	require.Len(t, chain.PurchaseOrders, 1)
	require.Len(t, chain.PurchaseOrders[0].Invoices, 1)
	assert.Equal(t, inv.ID, chain.PurchaseOrders[0].Invoices[0].Invoice.ID)
}

func TestInvoiceToDelivery(t *testing.T) {
	app := buildApp(t, nil)
	p := createProduct(t, app, "ACE-1", 450000, 10)

	resp := doRequest(t, app, http.MethodPost, "/api/invoices/", fiber.Map{
		"customer_id": "cli-9", "customer_name": "Minimercado Doña Rosa",
		"items": []fiber.Map{{"product_id": p.ID, "quantity": decimal.NewFromInt(5)}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var inv dto.InvoiceResponse
	decodeInto(t, resp, &inv)
	require.True(t, inv.TotalAmount.Equal(decimal.NewFromInt(2250000)), inv.TotalAmount.String())

	// sin pago ni preparación no hay remisión
	resp = doRequest(t, app, http.MethodPost, "/api/invoices/"+inv.ID+"/delivery-note", fiber.Map{"delivery_address": "Cra 7 # 12-30"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	for _, st := range []string{"PREPARING", "READY_FOR_DELIVERY"} {
		resp = doRequest(t, app, http.MethodPost, "/api/invoices/"+inv.ID+"/preparation", fiber.Map{"status": st})
		require.Equal(t, http.StatusOK, resp.StatusCode, st)
	}

	pay := fiber.Map{"amount": inv.TotalAmount, "method": "TRANSFER", "status": "CLEARED", "idempotency_key": "pago-1"}
	resp = doRequest(t, app, http.MethodPost, "/api/invoices/"+inv.ID+"/payments", pay)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var first dto.PaymentResultResponse
	decodeInto(t, resp, &first)
	assert.True(t, first.Created)
	assert.Equal(t, "PAID", first.Invoice.PaymentStatus)
	assert.True(t, first.Invoice.RemainingAmount.IsZero())

	// reintento con la misma llave: mismo pago, sin doble abono
	resp = doRequest(t, app, http.MethodPost, "/api/invoices/"+inv.ID+"/payments", pay)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var retry dto.PaymentResultResponse
	decodeInto(t, resp, &retry)
	assert.False(t, retry.Created)
	assert.Equal(t, first.Payment.ID, retry.Payment.ID)
	assert.True(t, retry.Invoice.PaidAmount.Equal(inv.TotalAmount))

	resp = doRequest(t, app, http.MethodPost, "/api/invoices/"+inv.ID+"/delivery-note", fiber.Map{"delivery_address": "Cra 7 # 12-30", "driver_name": "Jairo"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var note dto.DeliveryNoteResponse
	decodeInto(t, resp, &note)
	require.Len(t, note.Items, 1)

	resp = doRequest(t, app, http.MethodPost, "/api/invoices/"+inv.ID+"/delivery-note", fiber.Map{"delivery_address": "Cra 7 # 12-30"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(t, app, http.MethodPost, "/api/delivery-notes/"+note.ID+"/status", fiber.Map{"status": "IN_TRANSIT"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	item := note.Items[0]
	resp = doRequest(t, app, http.MethodPost, "/api/delivery-notes/"+note.ID+"/items/"+item.ID+"/deliver", fiber.Map{"delivered_qty": decimal.NewFromInt(5)})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var delivered dto.DeliveryResultResponse
	decodeInto(t, resp, &delivered)
	require.NotNil(t, delivered.Movement)
	assert.True(t, delivered.Movement.NewStock.Equal(decimal.NewFromInt(5)))
	assert.Equal(t, "DELIVERED", delivered.DeliveryNote.Status)
	assert.True(t, delivered.DeliveryNote.Items[0].PendingQty.IsZero())

	resp = doRequest(t, app, http.MethodGet, "/api/inventory/products/"+p.ID+"/verify", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var check dto.LedgerVerificationResponse
	decodeInto(t, resp, &check)
	assert.True(t, check.Consistent)
	assert.True(t, check.CurrentStock.Equal(decimal.NewFromInt(5)))

	resp = doRequest(t, app, http.MethodGet, "/api/delivery-notes/"+note.ID+"/pdf", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))
}

func TestInventory_ManualMovement(t *testing.T) {
	app := buildApp(t, nil)
	p := createProduct(t, app, "LEN-2", 3000, 1)

	resp := doRequest(t, app, http.MethodPost, "/api/inventory/movements", fiber.Map{
		"product_id": p.ID, "type": "PRODUCTION_IN", "quantity": decimal.NewFromInt(4), "reference": "lote-9",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doRequest(t, app, http.MethodGet, "/api/inventory/products/"+p.ID+"/movements", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list dto.MovementListResponse
	decodeInto(t, resp, &list)
	assert.NotEmpty(t, list.Items)

	resp = doRequest(t, app, http.MethodPost, "/api/inventory/movements", fiber.Map{
		"product_id": p.ID, "type": "SALES_OUT", "quantity": decimal.NewFromInt(1),
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	resp, err := buildApp(t, nil).Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", decodeMap(t, resp)["status"])

	resp, err = buildApp(t, fakePinger{err: errors.New("conexión rechazada")}).Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "degraded", decodeMap(t, resp)["status"])
}
