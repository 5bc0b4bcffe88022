package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Distribucion-api/internal/application/dto"
	"github.com/jhoicas/Distribucion-api/internal/application/workflow"
	"github.com/jhoicas/Distribucion-api/pkg/logger"
)

// PurchaseOrderHandler órdenes de compra y derivación de facturas.
type PurchaseOrderHandler struct {
	wf  *workflow.Orchestrator
	log *logger.Logger
}

func NewPurchaseOrderHandler(wf *workflow.Orchestrator, log *logger.Logger) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{wf: wf, log: log}
}

// GetByID godoc
// @Summary      Obtener orden de compra
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden de compra"
// @Success      200  {object}  dto.PurchaseOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id} [get]
func (h *PurchaseOrderHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.wf.GetPurchaseOrder(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// ChangeStatus godoc
// @Summary      Cambiar estado de la orden de compra
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID de la orden de compra"
// @Param        body  body  dto.StatusChangeRequest  true  "Estado destino"
// @Success      200   {object}  dto.PurchaseOrderResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/status [post]
func (h *PurchaseOrderHandler) ChangeStatus(c *fiber.Ctx) error {
	var in dto.StatusChangeRequest
	if e := decodeBody(c, &in); e != nil {
		return badRequest(c, e)
	}
	out, err := h.wf.ChangePurchaseOrderStatus(c.UserContext(), GetActorID(c), c.Params("id"), in.Status)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// DeriveInvoice godoc
// @Summary      Derivar factura
// @Description  Idempotente: si la orden ya tiene una factura activa se devuelve esa con 200.
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true   "ID de la orden de compra"
// @Param        body  body  dto.DeriveInvoiceRequest false  "Plazo de pago y notas"
// @Success      201   {object}  dto.InvoiceResponse
// @Success      200   {object}  dto.InvoiceResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/invoice [post]
func (h *PurchaseOrderHandler) DeriveInvoice(c *fiber.Ctx) error {
	var in dto.DeriveInvoiceRequest
	if len(c.Body()) > 0 {
		if e := decodeBody(c, &in); e != nil {
			return badRequest(c, e)
		}
	}
	out, created, err := h.wf.DeriveInvoice(c.UserContext(), GetActorID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(derivedStatus(created)).JSON(out)
}
