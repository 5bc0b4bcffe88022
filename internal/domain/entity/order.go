package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Distribucion-api/internal/domain"
	"github.com/jhoicas/Distribucion-api/internal/domain/pricing"
)

// OrderStatus ciclo de vida del pedido de venta.
type OrderStatus string

const (
	OrderStatusNew                 OrderStatus = "NEW"
	OrderStatusPendingConfirmation OrderStatus = "PENDING_CONFIRMATION"
	OrderStatusProcessing          OrderStatus = "PROCESSING"
	OrderStatusCompleted           OrderStatus = "COMPLETED"
	OrderStatusCancelled           OrderStatus = "CANCELLED"
)

// ParseOrderStatus acepta también los alias heredados IN_PROCESS y CANCELED.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch normalize(s) {
	case "NEW":
		return OrderStatusNew, nil
	case "PENDING_CONFIRMATION":
		return OrderStatusPendingConfirmation, nil
	case "PROCESSING", "IN_PROCESS":
		return OrderStatusProcessing, nil
	case "COMPLETED":
		return OrderStatusCompleted, nil
	case "CANCELLED", "CANCELED":
		return OrderStatusCancelled, nil
	}
	return "", fmt.Errorf("%w: estado de pedido desconocido %q", domain.ErrInvalidInput, s)
}

func (s OrderStatus) String() string { return string(s) }

// IsTerminal indica que el pedido ya no admite transiciones.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// CanTransitionTo tabla de transiciones del pedido. Cancelable desde cualquier estado no terminal.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	if s.IsTerminal() {
		return false
	}
	switch s {
	case OrderStatusNew:
		return target == OrderStatusPendingConfirmation || target == OrderStatusCancelled
	case OrderStatusPendingConfirmation:
		return target == OrderStatusProcessing || target == OrderStatusCancelled
	case OrderStatusProcessing:
		return target == OrderStatusCompleted || target == OrderStatusCancelled
	default:
		return false
	}
}

// CanDerivePurchaseOrder indica si el pedido admite derivar una orden de compra.
func (s OrderStatus) CanDerivePurchaseOrder() bool {
	switch s {
	case OrderStatusNew, OrderStatusPendingConfirmation, OrderStatusProcessing:
		return true
	default:
		return false
	}
}

// Order cabecera del pedido de venta.
type Order struct {
	ID              string
	Code            string
	CustomerID      string
	CustomerName    string
	SalesActorID    string
	Status          OrderStatus
	OrderDate       time.Time
	DueDate         *time.Time
	PaymentDeadline *time.Time
	Discount        decimal.Decimal
	DiscountUnit    pricing.DiscountUnit
	ShippingCost    decimal.Decimal
	Subtotal        decimal.Decimal
	DiscountTotal   decimal.Decimal
	TotalAmount     decimal.Decimal
	Notes           string
	Version         int64
	CreatedBy       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Items           []OrderItem
}

// OrderItem línea del pedido. UnitPrice es una foto del precio al crear el pedido.
type OrderItem struct {
	ID           string
	OrderID      string
	ProductID    string
	Quantity     decimal.Decimal
	UnitPrice    decimal.Decimal
	Discount     decimal.Decimal
	DiscountUnit pricing.DiscountUnit
	TotalPrice   decimal.Decimal
}

// Recalculate recalcula los totales derivados con el motor de precios. El pedido no lleva impuesto.
func (o *Order) Recalculate(engine pricing.Engine) error {
	lines := make([]pricing.Line, len(o.Items))
	for i, it := range o.Items {
		lines[i] = pricing.Line{Price: it.UnitPrice, Quantity: it.Quantity, Discount: it.Discount, DiscountUnit: it.DiscountUnit}
	}
	t, err := engine.DocumentTotals(lines, pricing.Header{
		Discount:     o.Discount,
		DiscountUnit: o.DiscountUnit,
		ShippingCost: o.ShippingCost,
	})
	if err != nil {
		return invalidPricing(err)
	}
	for i := range o.Items {
		o.Items[i].TotalPrice = t.Lines[i].Total
	}
	o.Subtotal = t.Subtotal
	o.DiscountTotal = t.TotalDiscount
	o.TotalAmount = t.GrandTotal
	return nil
}

// TransitionTo valida y aplica el cambio de estado.
func (o *Order) TransitionTo(target OrderStatus, now time.Time) error {
	if !o.Status.CanTransitionTo(target) {
		return transitionError("pedido "+o.Code, o.Status, target)
	}
	o.Status = target
	o.UpdatedAt = now
	return nil
}
