package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Distribucion-api/internal/application/dto"
	"github.com/jhoicas/Distribucion-api/internal/application/workflow"
	"github.com/jhoicas/Distribucion-api/pkg/logger"
)

// DeliveryNoteHandler remisiones: estado, entrega por línea e impresión.
type DeliveryNoteHandler struct {
	wf  *workflow.Orchestrator
	pdf workflow.DeliveryNotePDFGenerator
	log *logger.Logger
}

func NewDeliveryNoteHandler(wf *workflow.Orchestrator, pdf workflow.DeliveryNotePDFGenerator, log *logger.Logger) *DeliveryNoteHandler {
	return &DeliveryNoteHandler{wf: wf, pdf: pdf, log: log}
}

// GetByID godoc
// @Summary      Obtener remisión
// @Tags         delivery-notes
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la remisión"
// @Success      200  {object}  dto.DeliveryNoteResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/delivery-notes/{id} [get]
func (h *DeliveryNoteHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.wf.GetDeliveryNote(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// PDF godoc
// @Summary      Imprimir remisión
// @Tags         delivery-notes
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la remisión"
// @Success      200  {file}    file
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/delivery-notes/{id}/pdf [get]
func (h *DeliveryNoteHandler) PDF(c *fiber.Ctx) error {
	doc, err := h.wf.DeliveryNoteDocument(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	out, err := h.pdf.GenerateDeliveryNotePDF(c.UserContext(), doc)
	if err != nil {
		return respondError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+doc.Note.Code+`.pdf"`)
	return c.Send(out)
}

// ChangeStatus godoc
// @Summary      Cambiar estado de la remisión
// @Description  DELIVERED exige la factura pagada. No se cancela una remisión con entregas.
// @Tags         delivery-notes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID de la remisión"
// @Param        body  body  dto.StatusChangeRequest  true  "Estado destino"
// @Success      200   {object}  dto.DeliveryNoteResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/delivery-notes/{id}/status [post]
func (h *DeliveryNoteHandler) ChangeStatus(c *fiber.Ctx) error {
	var in dto.StatusChangeRequest
	if e := decodeBody(c, &in); e != nil {
		return badRequest(c, e)
	}
	out, err := h.wf.ChangeDeliveryNoteStatus(c.UserContext(), GetActorID(c), c.Params("id"), in.Status)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// DeliverItem godoc
// @Summary      Registrar entrega de una línea
// @Description  delivered_qty es acumulado; el incremento genera un SALES_OUT. Repetir el mismo valor no hace nada.
// @Tags         delivery-notes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id      path  string                  true  "ID de la remisión"
// @Param        itemId  path  string                  true  "ID de la línea"
// @Param        body    body  dto.DeliverItemRequest  true  "Cantidad entregada acumulada"
// @Success      200     {object}  dto.DeliveryResultResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      409     {object}  dto.ErrorResponse
// @Router       /api/delivery-notes/{id}/items/{itemId}/deliver [post]
func (h *DeliveryNoteHandler) DeliverItem(c *fiber.Ctx) error {
	var in dto.DeliverItemRequest
	if e := decodeBody(c, &in); e != nil {
		return badRequest(c, e)
	}
	out, err := h.wf.DeliverItem(c.UserContext(), GetActorID(c), c.Params("id"), c.Params("itemId"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}
