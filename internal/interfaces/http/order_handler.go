package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Distribucion-api/internal/application/dto"
	"github.com/jhoicas/Distribucion-api/internal/application/workflow"
	"github.com/jhoicas/Distribucion-api/pkg/logger"
)

// OrderHandler pedidos de venta y derivación de órdenes de compra.
type OrderHandler struct {
	wf  *workflow.Orchestrator
	log *logger.Logger
}

func NewOrderHandler(wf *workflow.Orchestrator, log *logger.Logger) *OrderHandler {
	return &OrderHandler{wf: wf, log: log}
}

// Create godoc
// @Summary      Crear pedido
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "Pedido"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if e := decodeBody(c, &in); e != nil {
		return badRequest(c, e)
	}
	out, err := h.wf.CreateOrder(c.UserContext(), GetActorID(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener pedido
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.wf.GetOrder(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Chain godoc
// @Summary      Cadena documental del pedido
// @Description  Pedido con sus órdenes de compra, facturas, pagos y remisiones.
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderChainResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/chain [get]
func (h *OrderHandler) Chain(c *fiber.Ctx) error {
	out, err := h.wf.GetOrderChain(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// ChangeStatus godoc
// @Summary      Cambiar estado del pedido
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del pedido"
// @Param        body  body  dto.StatusChangeRequest  true  "Estado destino"
// @Success      200   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/status [post]
func (h *OrderHandler) ChangeStatus(c *fiber.Ctx) error {
	var in dto.StatusChangeRequest
	if e := decodeBody(c, &in); e != nil {
		return badRequest(c, e)
	}
	out, err := h.wf.ChangeOrderStatus(c.UserContext(), GetActorID(c), c.Params("id"), in.Status)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// DerivePurchaseOrder godoc
// @Summary      Derivar orden de compra
// @Description  Idempotente: si el pedido ya tiene una orden activa se devuelve esa con 200.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                          true  "ID del pedido"
// @Param        body  body  dto.DerivePurchaseOrderRequest  false "Ajustes de cabecera"
// @Success      201   {object}  dto.PurchaseOrderResponse
// @Success      200   {object}  dto.PurchaseOrderResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/purchase-order [post]
func (h *OrderHandler) DerivePurchaseOrder(c *fiber.Ctx) error {
	var in dto.DerivePurchaseOrderRequest
	if len(c.Body()) > 0 {
		if e := decodeBody(c, &in); e != nil {
			return badRequest(c, e)
		}
	}
	out, created, err := h.wf.DerivePurchaseOrder(c.UserContext(), GetActorID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(derivedStatus(created)).JSON(out)
}

// derivedStatus 201 si la derivación creó el documento, 200 si devolvió el existente.
func derivedStatus(created bool) int {
	if created {
		return fiber.StatusCreated
	}
	return fiber.StatusOK
}
