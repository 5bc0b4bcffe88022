package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Distribucion-api/internal/domain"
	"github.com/jhoicas/Distribucion-api/internal/domain/pricing"
)

// PurchaseOrderStatus ciclo de vida de la orden de compra.
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusPending          PurchaseOrderStatus = "PENDING"
	PurchaseOrderStatusProcessing       PurchaseOrderStatus = "PROCESSING"
	PurchaseOrderStatusReadyForDelivery PurchaseOrderStatus = "READY_FOR_DELIVERY"
	PurchaseOrderStatusCompleted        PurchaseOrderStatus = "COMPLETED"
	PurchaseOrderStatusCancelled        PurchaseOrderStatus = "CANCELLED"
)

// ParsePurchaseOrderStatus convierte el texto del caller.
func ParsePurchaseOrderStatus(s string) (PurchaseOrderStatus, error) {
	switch normalize(s) {
	case "PENDING":
		return PurchaseOrderStatusPending, nil
	case "PROCESSING", "IN_PROCESS":
		return PurchaseOrderStatusProcessing, nil
	case "READY_FOR_DELIVERY":
		return PurchaseOrderStatusReadyForDelivery, nil
	case "COMPLETED":
		return PurchaseOrderStatusCompleted, nil
	case "CANCELLED", "CANCELED":
		return PurchaseOrderStatusCancelled, nil
	}
	return "", fmt.Errorf("%w: estado de orden de compra desconocido %q", domain.ErrInvalidInput, s)
}

func (s PurchaseOrderStatus) String() string { return string(s) }

// IsTerminal indica que la orden ya no admite transiciones.
func (s PurchaseOrderStatus) IsTerminal() bool {
	return s == PurchaseOrderStatusCompleted || s == PurchaseOrderStatusCancelled
}

// CanTransitionTo tabla de transiciones de la orden de compra.
func (s PurchaseOrderStatus) CanTransitionTo(target PurchaseOrderStatus) bool {
	if s.IsTerminal() {
		return false
	}
	switch s {
	case PurchaseOrderStatusPending:
		return target == PurchaseOrderStatusProcessing || target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusProcessing:
		return target == PurchaseOrderStatusReadyForDelivery || target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusReadyForDelivery:
		return target == PurchaseOrderStatusCompleted || target == PurchaseOrderStatusCancelled
	default:
		return false
	}
}

// PurchaseOrder orden de compra derivada de un pedido.
type PurchaseOrder struct {
	ID            string
	Code          string
	OrderID       string // referencia opcional al pedido origen
	CustomerID    string
	CustomerName  string
	Status        PurchaseOrderStatus
	Discount      decimal.Decimal
	DiscountUnit  pricing.DiscountUnit
	TaxPercentage decimal.Decimal
	ShippingCost  decimal.Decimal
	Subtotal      decimal.Decimal
	DiscountTotal decimal.Decimal
	TaxAmount     decimal.Decimal
	TotalAmount   decimal.Decimal
	Notes         string
	Version       int64
	CreatedBy     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Items         []PurchaseOrderItem
}

// PurchaseOrderItem línea de la orden de compra.
type PurchaseOrderItem struct {
	ID              string
	PurchaseOrderID string
	ProductID       string
	Quantity        decimal.Decimal
	Price           decimal.Decimal
	Discount        decimal.Decimal
	DiscountUnit    pricing.DiscountUnit
	Total           decimal.Decimal
}

// Recalculate recalcula los totales derivados con el motor de precios.
func (po *PurchaseOrder) Recalculate(engine pricing.Engine) error {
	lines := make([]pricing.Line, len(po.Items))
	for i, it := range po.Items {
		lines[i] = pricing.Line{Price: it.Price, Quantity: it.Quantity, Discount: it.Discount, DiscountUnit: it.DiscountUnit}
	}
	t, err := engine.DocumentTotals(lines, pricing.Header{
		Discount:      po.Discount,
		DiscountUnit:  po.DiscountUnit,
		TaxPercentage: po.TaxPercentage,
		ShippingCost:  po.ShippingCost,
	})
	if err != nil {
		return invalidPricing(err)
	}
	for i := range po.Items {
		po.Items[i].Total = t.Lines[i].Total
	}
	po.Subtotal = t.Subtotal
	po.DiscountTotal = t.TotalDiscount
	po.TaxAmount = t.Tax
	po.TotalAmount = t.GrandTotal
	return nil
}

// TransitionTo valida y aplica el cambio de estado.
func (po *PurchaseOrder) TransitionTo(target PurchaseOrderStatus, now time.Time) error {
	if !po.Status.CanTransitionTo(target) {
		return transitionError("orden de compra "+po.Code, po.Status, target)
	}
	po.Status = target
	po.UpdatedAt = now
	return nil
}
