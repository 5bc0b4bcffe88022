package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Distribucion-api/internal/application/dto"
	"github.com/jhoicas/Distribucion-api/internal/application/workflow"
	"github.com/jhoicas/Distribucion-api/pkg/logger"
)

// InvoiceHandler facturas: estados, preparación, pagos y remisión.
type InvoiceHandler struct {
	wf  *workflow.Orchestrator
	log *logger.Logger
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(wf *workflow.Orchestrator, log *logger.Logger) *InvoiceHandler {
	return &InvoiceHandler{wf: wf, log: log}
}

// Create godoc
// @Summary      Crear factura directa
// @Description  Factura sin orden de compra. Requiere cliente y al menos una línea.
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateInvoiceRequest  true  "Factura"
// @Success      201   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/invoices [post]
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if e := decodeBody(c, &in); e != nil {
		return badRequest(c, e)
	}
	out, err := h.wf.CreateInvoice(c.UserContext(), GetActorID(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener factura
// @Description  Totales y saldo recalculados con los pagos CLEARED.
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.wf.GetInvoice(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// ChangeStatus godoc
// @Summary      Cambiar estado comercial
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID de la factura"
// @Param        body  body  dto.StatusChangeRequest  true  "DRAFT, SENT, PAID, OVERDUE o CANCELLED"
// @Success      200   {object}  dto.InvoiceResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/status [post]
func (h *InvoiceHandler) ChangeStatus(c *fiber.Ctx) error {
	var in dto.StatusChangeRequest
	if e := decodeBody(c, &in); e != nil {
		return badRequest(c, e)
	}
	out, err := h.wf.ChangeInvoiceStatus(c.UserContext(), GetActorID(c), c.Params("id"), in.Status)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// ChangePreparation godoc
// @Summary      Cambiar estado de preparación
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID de la factura"
// @Param        body  body  dto.StatusChangeRequest  true  "Estado de preparación destino"
// @Success      200   {object}  dto.InvoiceResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/preparation [post]
func (h *InvoiceHandler) ChangePreparation(c *fiber.Ctx) error {
	var in dto.StatusChangeRequest
	if e := decodeBody(c, &in); e != nil {
		return badRequest(c, e)
	}
	out, err := h.wf.ChangePreparationStatus(c.UserContext(), GetActorID(c), c.Params("id"), in.Status)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// RecordPayment godoc
// @Summary      Registrar pago
// @Description  Con idempotency_key repetida devuelve el pago existente con 200.
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID de la factura"
// @Param        body  body  dto.RecordPaymentRequest  true  "Pago"
// @Success      201   {object}  dto.PaymentResultResponse
// @Success      200   {object}  dto.PaymentResultResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/payments [post]
func (h *InvoiceHandler) RecordPayment(c *fiber.Ctx) error {
	var in dto.RecordPaymentRequest
	if e := decodeBody(c, &in); e != nil {
		return badRequest(c, e)
	}
	out, err := h.wf.RecordPayment(c.UserContext(), GetActorID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(derivedStatus(out.Created)).JSON(out)
}

// CreateDeliveryNote godoc
// @Summary      Crear remisión
// @Description  Exige factura lista para entrega y pagada. Idempotente por factura.
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                        true  "ID de la factura"
// @Param        body  body  dto.CreateDeliveryNoteRequest  true  "Datos de transporte"
// @Success      201   {object}  dto.DeliveryNoteResponse
// @Success      200   {object}  dto.DeliveryNoteResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/delivery-note [post]
func (h *InvoiceHandler) CreateDeliveryNote(c *fiber.Ctx) error {
	var in dto.CreateDeliveryNoteRequest
	if e := decodeBody(c, &in); e != nil {
		return badRequest(c, e)
	}
	out, created, err := h.wf.CreateDeliveryNote(c.UserContext(), GetActorID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(derivedStatus(created)).JSON(out)
}
