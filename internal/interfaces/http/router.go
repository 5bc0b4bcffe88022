package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Distribucion-api/internal/application/inventory"
	"github.com/jhoicas/Distribucion-api/internal/application/usecase"
	"github.com/jhoicas/Distribucion-api/internal/application/workflow"
	"github.com/jhoicas/Distribucion-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC     *usecase.ProductUseCase
	Ledger        *inventory.LedgerUseCase
	Replenishment *inventory.ReplenishmentUseCase
	Workflow      *workflow.Orchestrator
	PDF           workflow.DeliveryNotePDFGenerator
	DB            Pinger
	ServiceName   string
	Actor         ActorConfig
	Logger        *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}

	app.Get("/health", NewHealthHandler(deps.ServiceName, deps.DB).Check)

	// Todo /api exige la identidad del actor
	api := app.Group("/api", ActorMiddleware(deps.Actor))

	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, log.Named("http.products"))
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)

	inv := api.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.Ledger, deps.Replenishment, log.Named("http.inventory"))
	inv.Post("/movements", inventoryHandler.RegisterMovement)
	inv.Get("/products/:id/movements", inventoryHandler.ListMovements)
	inv.Get("/products/:id/verify", inventoryHandler.Verify)
	inv.Get("/replenishment-list", inventoryHandler.GetReplenishmentList)

	orders := api.Group("/orders")
	orderHandler := NewOrderHandler(deps.Workflow, log.Named("http.orders"))
	orders.Post("/", orderHandler.Create)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Get("/:id/chain", orderHandler.Chain)
	orders.Post("/:id/status", orderHandler.ChangeStatus)
	orders.Post("/:id/purchase-order", orderHandler.DerivePurchaseOrder)

	pos := api.Group("/purchase-orders")
	poHandler := NewPurchaseOrderHandler(deps.Workflow, log.Named("http.purchase_orders"))
	pos.Get("/:id", poHandler.GetByID)
	pos.Post("/:id/status", poHandler.ChangeStatus)
	pos.Post("/:id/invoice", poHandler.DeriveInvoice)

	invoices := api.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.Workflow, log.Named("http.invoices"))
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Post("/:id/status", invoiceHandler.ChangeStatus)
	invoices.Post("/:id/preparation", invoiceHandler.ChangePreparation)
	invoices.Post("/:id/payments", invoiceHandler.RecordPayment)
	invoices.Post("/:id/delivery-note", invoiceHandler.CreateDeliveryNote)

	payments := api.Group("/payments")
	paymentHandler := NewPaymentHandler(deps.Workflow, log.Named("http.payments"))
	payments.Post("/:id/clear", paymentHandler.Clear)
	payments.Post("/:id/cancel", paymentHandler.Cancel)

	notes := api.Group("/delivery-notes")
	noteHandler := NewDeliveryNoteHandler(deps.Workflow, deps.PDF, log.Named("http.delivery_notes"))
	notes.Get("/:id", noteHandler.GetByID)
	notes.Get("/:id/pdf", noteHandler.PDF)
	notes.Post("/:id/status", noteHandler.ChangeStatus)
	notes.Post("/:id/items/:itemId/deliver", noteHandler.DeliverItem)
}
