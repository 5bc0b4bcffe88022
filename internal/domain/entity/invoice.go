package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Distribucion-api/internal/domain"
	"github.com/jhoicas/Distribucion-api/internal/domain/pricing"
)

// InvoiceStatus estado comercial de la factura.
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "DRAFT"
	InvoiceStatusSent      InvoiceStatus = "SENT"
	InvoiceStatusPaid      InvoiceStatus = "PAID"
	InvoiceStatusOverdue   InvoiceStatus = "OVERDUE"
	InvoiceStatusCancelled InvoiceStatus = "CANCELLED"
)

// ParseInvoiceStatus convierte el texto del caller.
func ParseInvoiceStatus(s string) (InvoiceStatus, error) {
	switch normalize(s) {
	case "DRAFT":
		return InvoiceStatusDraft, nil
	case "SENT":
		return InvoiceStatusSent, nil
	case "PAID":
		return InvoiceStatusPaid, nil
	case "OVERDUE":
		return InvoiceStatusOverdue, nil
	case "CANCELLED", "CANCELED":
		return InvoiceStatusCancelled, nil
	}
	return "", fmt.Errorf("%w: estado de factura desconocido %q", domain.ErrInvalidInput, s)
}

func (s InvoiceStatus) String() string { return string(s) }

// CanTransitionTo tabla de transiciones del eje comercial.
func (s InvoiceStatus) CanTransitionTo(target InvoiceStatus) bool {
	switch s {
	case InvoiceStatusDraft:
		return target == InvoiceStatusSent || target == InvoiceStatusCancelled
	case InvoiceStatusSent:
		return target == InvoiceStatusPaid || target == InvoiceStatusOverdue || target == InvoiceStatusCancelled
	case InvoiceStatusOverdue:
		return target == InvoiceStatusPaid || target == InvoiceStatusCancelled
	case InvoiceStatusPaid, InvoiceStatusCancelled:
		return false
	default:
		return false
	}
}

// PaymentStatus eje de pago, derivado solo de los pagos CLEARED.
type PaymentStatus string

const (
	PaymentStatusUnpaid        PaymentStatus = "UNPAID"
	PaymentStatusPartiallyPaid PaymentStatus = "PARTIALLY_PAID"
	PaymentStatusPaid          PaymentStatus = "PAID"
)

func (s PaymentStatus) String() string { return string(s) }

// DerivePaymentStatus calcula el estado de pago a partir de lo pagado y el total.
// Una factura de total cero (descuento del 100%) no debe nada y nace PAID: puede
// despacharse sin registrar pagos.
func DerivePaymentStatus(paid, total decimal.Decimal) PaymentStatus {
	switch {
	case paid.GreaterThanOrEqual(total):
		return PaymentStatusPaid
	case paid.IsPositive():
		return PaymentStatusPartiallyPaid
	default:
		return PaymentStatusUnpaid
	}
}

// PreparationStatus eje de preparación en bodega.
type PreparationStatus string

const (
	PreparationWaiting          PreparationStatus = "WAITING_PREPARATION"
	PreparationPreparing        PreparationStatus = "PREPARING"
	PreparationReadyForDelivery PreparationStatus = "READY_FOR_DELIVERY"
	PreparationCancelled        PreparationStatus = "CANCELLED_PREPARATION"
)

// ParsePreparationStatus convierte el texto del caller.
func ParsePreparationStatus(s string) (PreparationStatus, error) {
	switch normalize(s) {
	case "WAITING_PREPARATION":
		return PreparationWaiting, nil
	case "PREPARING":
		return PreparationPreparing, nil
	case "READY_FOR_DELIVERY":
		return PreparationReadyForDelivery, nil
	case "CANCELLED_PREPARATION", "CANCELED_PREPARATION":
		return PreparationCancelled, nil
	}
	return "", fmt.Errorf("%w: estado de preparación desconocido %q", domain.ErrInvalidInput, s)
}

func (s PreparationStatus) String() string { return string(s) }

// CanTransitionTo tabla de transiciones del eje de preparación.
func (s PreparationStatus) CanTransitionTo(target PreparationStatus) bool {
	switch s {
	case PreparationWaiting:
		return target == PreparationPreparing || target == PreparationCancelled
	case PreparationPreparing:
		return target == PreparationReadyForDelivery || target == PreparationCancelled
	case PreparationReadyForDelivery:
		return target == PreparationCancelled
	case PreparationCancelled:
		return false
	default:
		return false
	}
}

// Invoice factura con tres ejes de estado independientes.
// Invariante: PaidAmount + RemainingAmount == TotalAmount.
type Invoice struct {
	ID                string
	Code              string
	CustomerID        string
	CustomerName      string
	PurchaseOrderID   string // opcional
	Status            InvoiceStatus
	PaymentStatus     PaymentStatus
	PreparationStatus PreparationStatus
	IssueDate         time.Time
	PaymentDeadline   *time.Time
	Discount          decimal.Decimal
	DiscountUnit      pricing.DiscountUnit
	TaxPercentage     decimal.Decimal
	ShippingCost      decimal.Decimal
	Subtotal          decimal.Decimal
	DiscountTotal     decimal.Decimal
	TaxAmount         decimal.Decimal
	TotalAmount       decimal.Decimal
	PaidAmount        decimal.Decimal
	RemainingAmount   decimal.Decimal
	Notes             string
	Version           int64
	CreatedBy         string
	CreatedAt         time.Time
	UpdatedAt         time.Time
	Items             []InvoiceItem
}

// InvoiceItem línea de la factura.
type InvoiceItem struct {
	ID           string
	InvoiceID    string
	ProductID    string
	Quantity     decimal.Decimal
	UnitPrice    decimal.Decimal
	Discount     decimal.Decimal
	DiscountUnit pricing.DiscountUnit
	Total        decimal.Decimal
}

// Recalculate recalcula los totales y mantiene el saldo consistente con lo pagado.
func (inv *Invoice) Recalculate(engine pricing.Engine) error {
	lines := make([]pricing.Line, len(inv.Items))
	for i, it := range inv.Items {
		lines[i] = pricing.Line{Price: it.UnitPrice, Quantity: it.Quantity, Discount: it.Discount, DiscountUnit: it.DiscountUnit}
	}
	t, err := engine.DocumentTotals(lines, pricing.Header{
		Discount:      inv.Discount,
		DiscountUnit:  inv.DiscountUnit,
		TaxPercentage: inv.TaxPercentage,
		ShippingCost:  inv.ShippingCost,
	})
	if err != nil {
		return invalidPricing(err)
	}
	for i := range inv.Items {
		inv.Items[i].Total = t.Lines[i].Total
	}
	inv.Subtotal = t.Subtotal
	inv.DiscountTotal = t.TotalDiscount
	inv.TaxAmount = t.Tax
	inv.TotalAmount = t.GrandTotal
	inv.RemainingAmount = inv.TotalAmount.Sub(inv.PaidAmount)
	return nil
}

// ApplyPayments recalcula PaidAmount, RemainingAmount y PaymentStatus. Solo cuentan los pagos CLEARED.
func (inv *Invoice) ApplyPayments(payments []Payment) {
	paid := decimal.Zero
	for _, p := range payments {
		if p.InvoiceID == inv.ID && p.Status == PaymentCleared {
			paid = paid.Add(p.Amount)
		}
	}
	inv.PaidAmount = paid
	inv.RemainingAmount = inv.TotalAmount.Sub(paid)
	inv.PaymentStatus = DerivePaymentStatus(paid, inv.TotalAmount)
}

// TransitionTo valida y aplica un cambio del eje comercial.
func (inv *Invoice) TransitionTo(target InvoiceStatus, now time.Time) error {
	if !inv.Status.CanTransitionTo(target) {
		return transitionError("factura "+inv.Code, inv.Status, target)
	}
	inv.Status = target
	inv.UpdatedAt = now
	return nil
}

// TransitionPreparationTo valida y aplica un cambio del eje de preparación.
func (inv *Invoice) TransitionPreparationTo(target PreparationStatus, now time.Time) error {
	if !inv.PreparationStatus.CanTransitionTo(target) {
		return transitionError("preparación de factura "+inv.Code, inv.PreparationStatus, target)
	}
	inv.PreparationStatus = target
	inv.UpdatedAt = now
	return nil
}

// ReadyToDeliver indica si se puede emitir una remisión: preparada y pagada.
func (inv *Invoice) ReadyToDeliver() bool {
	return inv.Status != InvoiceStatusCancelled &&
		inv.PreparationStatus == PreparationReadyForDelivery &&
		inv.PaymentStatus == PaymentStatusPaid
}
