package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Distribucion-api/internal/application/workflow"
	"github.com/jhoicas/Distribucion-api/pkg/logger"
)

// PaymentHandler confirmación y anulación de pagos.
type PaymentHandler struct {
	wf  *workflow.Orchestrator
	log *logger.Logger
}

func NewPaymentHandler(wf *workflow.Orchestrator, log *logger.Logger) *PaymentHandler {
	return &PaymentHandler{wf: wf, log: log}
}

// Clear godoc
// @Summary      Confirmar pago
// @Description  PENDING → CLEARED; recalcula saldo y estado de pago de la factura.
// @Tags         payments
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pago"
// @Success      200  {object}  dto.PaymentResultResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/payments/{id}/clear [post]
func (h *PaymentHandler) Clear(c *fiber.Ctx) error {
	out, err := h.wf.ClearPayment(c.UserContext(), GetActorID(c), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Anular pago
// @Tags         payments
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pago"
// @Success      200  {object}  dto.PaymentResultResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/payments/{id}/cancel [post]
func (h *PaymentHandler) Cancel(c *fiber.Ctx) error {
	out, err := h.wf.CancelPayment(c.UserContext(), GetActorID(c), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}
